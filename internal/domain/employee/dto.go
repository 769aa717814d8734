package employee

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=254"`
	// Username and Password are generated when omitted.
	Username    *string         `json:"username,omitempty" validate:"omitempty,username"`
	Password    *string         `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	Role        string          `json:"role" validate:"omitempty,oneof=admin hr employee"`
	Phone       *string         `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address     *string         `json:"address,omitempty" validate:"omitempty,max=500"`
	Department  *string         `json:"department,omitempty" validate:"omitempty,max=100"`
	Position    *string         `json:"position,omitempty" validate:"omitempty,max=100"`
	Salary      decimal.Decimal `json:"salary"`
	HireDate    string          `json:"hire_date" validate:"omitempty,date"`
	BankAccount *string         `json:"bank_account,omitempty" validate:"omitempty,max=50"`
	TaxID       *string         `json:"tax_id,omitempty" validate:"omitempty,max=50"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = fieldErrs
	}

	if r.Salary.IsNegative() {
		errs.Add("salary", "salary must be non-negative")
	}
	if r.Role == "" {
		r.Role = "employee"
	}
	return errs.Err()
}

type UpdateEmployeeRequest struct {
	ID          string           `json:"-"`
	FirstName   *string          `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName    *string          `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone       *string          `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address     *string          `json:"address,omitempty" validate:"omitempty,max=500"`
	Department  *string          `json:"department,omitempty" validate:"omitempty,max=100"`
	Position    *string          `json:"position,omitempty" validate:"omitempty,max=100"`
	Salary      *decimal.Decimal `json:"salary,omitempty"`
	HireDate    *string          `json:"hire_date,omitempty" validate:"omitempty,date"`
	BankAccount *string          `json:"bank_account,omitempty" validate:"omitempty,max=50"`
	TaxID       *string          `json:"tax_id,omitempty" validate:"omitempty,max=50"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = fieldErrs
	}
	if r.Salary != nil && r.Salary.IsNegative() {
		errs.Add("salary", "salary must be non-negative")
	}
	return errs.Err()
}

type EmployeeFilter struct {
	Search     *string `json:"search,omitempty"`
	Department *string `json:"department,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
	pagination.Params
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors
	f.Normalize(&errs)
	return errs.Err()
}

type EmployeeResponse struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	Role         string          `json:"role"`
	EmployeeCode string          `json:"employee_code"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	FullName     string          `json:"full_name"`
	Phone        *string         `json:"phone,omitempty"`
	Address      *string         `json:"address,omitempty"`
	Department   *string         `json:"department,omitempty"`
	Position     *string         `json:"position,omitempty"`
	Salary       decimal.Decimal `json:"salary"`
	HireDate     string          `json:"hire_date"`
	BankAccount  *string         `json:"bank_account,omitempty"`
	TaxID        *string         `json:"tax_id,omitempty"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		UserID:       e.UserID,
		Username:     e.Username,
		Email:        e.Email,
		Role:         e.Role,
		EmployeeCode: e.EmployeeCode,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		FullName:     e.FullName(),
		Phone:        e.Phone,
		Address:      e.Address,
		Department:   e.Department,
		Position:     e.Position,
		Salary:       e.Salary,
		HireDate:     e.HireDate.Format("2006-01-02"),
		BankAccount:  e.BankAccount,
		TaxID:        e.TaxID,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    e.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateEmployeeResponse carries the generated credentials once; they are
// never retrievable again.
type CreateEmployeeResponse struct {
	Employee          EmployeeResponse `json:"employee"`
	Username          string           `json:"username"`
	TemporaryPassword *string          `json:"temporary_password,omitempty"`
}

type ResetPasswordResponse struct {
	Username          string `json:"username"`
	TemporaryPassword string `json:"temporary_password"`
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Employees  []EmployeeResponse `json:"employees"`
}
