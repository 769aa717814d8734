package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// CreateEmployee creates the employee and its login account in one transaction
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (CreateEmployeeResponse, error)

	// GetEmployee retrieves a single employee (staff, or the employee themselves)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeactivateEmployee is a soft delete; the account stays for history
	DeactivateEmployee(ctx context.Context, id string) error

	// ResetPassword issues a new temporary password for the employee's account
	ResetPassword(ctx context.Context, id string) (ResetPasswordResponse, error)

	Departments(ctx context.Context) ([]string, error)
}
