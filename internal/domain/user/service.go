package user

import "context"

// UserService holds the admin-only account management operations.
type UserService interface {
	List(ctx context.Context, filter UserFilter) (ListUserResponse, error)
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	UpdateRole(ctx context.Context, req UpdateRoleRequest) (UserResponse, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, req BulkDeleteRequest) (BulkDeleteResponse, error)
}
