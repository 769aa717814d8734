package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
)

// EmployeeSummaryStats combines all employee summary counts in single query
type EmployeeSummaryStats struct {
	Active     int64
	TotalUsers int64
	New        int64
}

type PayrollStats struct {
	Total       int64
	Pending     int64
	Processed   int64
	Paid        int64
	TotalPayout decimal.Decimal
}

type RecentPayroll struct {
	ID             string
	EmployeeName   string
	PayPeriodStart time.Time
	PayPeriodEnd   time.Time
	NetSalary      decimal.Decimal
	Status         string
}

type DepartmentStat struct {
	Department string
	Count      int64
	AvgSalary  decimal.Decimal
}

type PayrollTrend struct {
	Month    time.Time
	Count    int64
	TotalNet decimal.Decimal
}

// DashboardRepository defines the interface for dashboard data access
type DashboardRepository interface {
	GetEmployeeSummary(ctx context.Context, since time.Time) (EmployeeSummaryStats, error)
	GetPayrollStats(ctx context.Context) (PayrollStats, error)
	// GetRecentPayrolls returns the latest payrolls; employeeID limits them to one employee
	GetRecentPayrolls(ctx context.Context, employeeID *string, limit int) ([]RecentPayroll, error)
	GetDepartmentStats(ctx context.Context) ([]DepartmentStat, error)
	// GetPayrollTrends groups processed and paid payrolls by period month since the given date
	GetPayrollTrends(ctx context.Context, since time.Time) ([]PayrollTrend, error)
	// GetAttendanceStats counts statuses over [from, to); employeeID limits them to one employee
	GetAttendanceStats(ctx context.Context, employeeID *string, from, to time.Time) (attendance.Stats, error)
	CountActiveLocations(ctx context.Context) (int64, error)
}
