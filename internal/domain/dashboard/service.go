package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard returns combined admin/hr dashboard data using goroutines
	GetDashboard(ctx context.Context) (*DashboardResponse, error)

	// GetEmployeeDashboard returns the caller's own dashboard
	GetEmployeeDashboard(ctx context.Context) (*EmployeeDashboardResponse, error)
}
