package payroll

import "context"

// PayrollRepository defines data access methods for payroll records.
type PayrollRepository interface {
	// Create returns ErrPayrollAlreadyExists when the (employee, period) pair is taken
	Create(ctx context.Context, p Payroll) (Payroll, error)
	GetByID(ctx context.Context, id string) (Payroll, error)
	List(ctx context.Context, filter PayrollFilter) ([]Payroll, int64, error)

	// EmployeesWithPayroll returns which of employeeIDs already have a record for period
	EmployeesWithPayroll(ctx context.Context, period Period, employeeIDs []string) (map[string]bool, error)

	// MarkPaid transitions processed -> paid; it returns ErrPayrollNotProcessed
	// when the row is not in the processed state
	MarkPaid(ctx context.Context, id string) (Payroll, error)

	Summary(ctx context.Context, period Period) (Summary, error)
}
