package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByUserID(ctx context.Context, userID string) (Employee, error)
	GetByIDs(ctx context.Context, ids []string) ([]Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	Update(ctx context.Context, e Employee) (Employee, error)
	UpdateContact(ctx context.Context, id string, phone, address *string) error
	Deactivate(ctx context.Context, id string) error
	Departments(ctx context.Context) ([]string, error)
}
