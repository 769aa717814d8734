package user

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	IsActive    bool    `json:"is_active"`
	EmployeeID  *string `json:"employee_id,omitempty"`
	LastLoginAt *string `json:"last_login_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func NewUserResponse(u User) UserResponse {
	resp := UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       string(u.Role),
		IsActive:   u.IsActive,
		EmployeeID: u.EmployeeID,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  u.UpdatedAt.Format(time.RFC3339),
	}
	if u.LastLoginAt != nil {
		s := u.LastLoginAt.Format(time.RFC3339)
		resp.LastLoginAt = &s
	}
	return resp
}

// CreateUserRequest creates a staff (admin or hr) account without an employee profile.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=admin hr"`
}

func (r *CreateUserRequest) Validate() error {
	return validator.Struct(r)
}

type UpdateRoleRequest struct {
	ID   string `json:"-"`
	Role string `json:"role" validate:"required,oneof=admin hr employee"`
}

func (r *UpdateRoleRequest) Validate() error {
	return validator.Struct(r)
}

type BulkDeleteRequest struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,max=100,dive,uuid"`
}

func (r *BulkDeleteRequest) Validate() error {
	return validator.Struct(r)
}

type BulkDeleteResponse struct {
	Deleted int `json:"deleted"`
}

type UserFilter struct {
	Role   *string `json:"role,omitempty"`
	Search *string `json:"search,omitempty"`
	pagination.Params
}

func (f *UserFilter) Validate() error {
	var errs validator.ValidationErrors
	f.Normalize(&errs)

	if f.Role != nil {
		if _, err := ParseRole(*f.Role); err != nil {
			errs.Add("role", "role must be one of: admin, hr, employee")
		}
	}
	return errs.Err()
}

type ListUserResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Users      []UserResponse `json:"users"`
}
