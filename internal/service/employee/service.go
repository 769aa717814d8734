package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	authservice "github.com/cmlabs-hris/payroll-backend-go/internal/service/auth"
	"github.com/google/uuid"
)

const (
	codeAttempts           = 3
	temporaryPasswordChars = 12
)

type EmployeeServiceImpl struct {
	tx           database.Transactor
	employeeRepo employee.EmployeeRepository
	userRepo     user.UserRepository
	tokenRepo    auth.RefreshTokenRepository
	loc          *time.Location
	now          func() time.Time
}

func NewEmployeeService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
	tokenRepo auth.RefreshTokenRepository,
	loc *time.Location,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:           tx,
		employeeRepo: employeeRepo,
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		loc:          loc,
		now:          time.Now,
	}
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.CreateEmployeeResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return employee.CreateEmployeeResponse{}, err
	}
	if err := p.Require(user.PermissionEmployeeManage); err != nil {
		return employee.CreateEmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.CreateEmployeeResponse{}, err
	}

	role := user.Role(req.Role)
	if role != user.RoleEmployee && p.Role != user.RoleAdmin {
		return employee.CreateEmployeeResponse{}, employee.ErrRoleNotAssignable
	}

	username := ""
	if req.Username != nil {
		username = *req.Username
	} else {
		username, err = s.freeUsername(ctx, employee.BaseUsername(req.FirstName, req.LastName))
		if err != nil {
			return employee.CreateEmployeeResponse{}, err
		}
	}

	var temporary *string
	password := ""
	if req.Password != nil {
		password = *req.Password
	} else {
		password = temporaryPassword()
		temporary = &password
	}
	hashed, err := authservice.HashPassword(password)
	if err != nil {
		return employee.CreateEmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	hireDate := dateIn(s.now(), s.loc)
	if req.HireDate != "" {
		hireDate, _ = time.ParseInLocation("2006-01-02", req.HireDate, s.loc)
	}

	newEmployee := employee.Employee{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Phone:       req.Phone,
		Address:     req.Address,
		Department:  req.Department,
		Position:    req.Position,
		Salary:      req.Salary,
		HireDate:    hireDate,
		BankAccount: req.BankAccount,
		TaxID:       req.TaxID,
	}

	// A unique violation aborts the transaction, so a colliding employee
	// code retries the whole unit
	var created employee.Employee
	for attempt := 1; ; attempt++ {
		err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			account, err := s.userRepo.Create(txCtx, user.User{
				Username:     username,
				Email:        req.Email,
				PasswordHash: &hashed,
				Role:         role,
				IsActive:     true,
			})
			if err != nil {
				return err
			}

			newEmployee.UserID = account.ID
			newEmployee.EmployeeCode = employee.NewEmployeeCode()
			created, err = s.employeeRepo.Create(txCtx, newEmployee)
			return err
		})
		if !errors.Is(err, employee.ErrEmployeeCodeExists) || attempt == codeAttempts {
			break
		}
	}
	if err != nil {
		return employee.CreateEmployeeResponse{}, err
	}

	slog.InfoContext(ctx, "employee created", "employee_id", created.ID, "code", created.EmployeeCode, "by", p.UserID)
	return employee.CreateEmployeeResponse{
		Employee:          employee.NewEmployeeResponse(created),
		Username:          username,
		TemporaryPassword: temporary,
	}, nil
}

// freeUsername returns base, or base with the first numeric suffix not taken.
func (s *EmployeeServiceImpl) freeUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 1; ; i++ {
		taken, err := s.userRepo.ExistsByUsername(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(i)
	}
}

func temporaryPassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:temporaryPasswordChars]
}

func dateIn(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !p.Can(user.PermissionEmployeeViewAll) && !p.IsEmployee(id) {
		return employee.EmployeeResponse{}, user.ErrInsufficientPermissions
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}
	if err := p.Require(user.PermissionEmployeeViewAll); err != nil {
		return employee.ListEmployeeResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	resp := employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: filter.TotalPages(total),
		Employees:  make([]employee.EmployeeResponse, 0, len(employees)),
	}
	for _, e := range employees {
		resp.Employees = append(resp.Employees, employee.NewEmployeeResponse(e))
	}
	return resp, nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := p.Require(user.PermissionEmployeeManage); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if req.IsActive != nil && !*req.IsActive && p.IsEmployee(req.ID) {
		return employee.EmployeeResponse{}, employee.ErrCannotDeactivateSelf
	}

	var updated employee.Employee
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		emp, err := s.employeeRepo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		wasActive := emp.IsActive

		if req.FirstName != nil {
			emp.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			emp.LastName = *req.LastName
		}
		if req.Phone != nil {
			emp.Phone = req.Phone
		}
		if req.Address != nil {
			emp.Address = req.Address
		}
		if req.Department != nil {
			emp.Department = req.Department
		}
		if req.Position != nil {
			emp.Position = req.Position
		}
		if req.Salary != nil {
			emp.Salary = *req.Salary
		}
		if req.HireDate != nil {
			emp.HireDate, _ = time.ParseInLocation("2006-01-02", *req.HireDate, s.loc)
		}
		if req.BankAccount != nil {
			emp.BankAccount = req.BankAccount
		}
		if req.TaxID != nil {
			emp.TaxID = req.TaxID
		}
		if req.IsActive != nil {
			emp.IsActive = *req.IsActive
		}

		updated, err = s.employeeRepo.Update(txCtx, emp)
		if err != nil {
			return err
		}
		if wasActive && !updated.IsActive {
			return s.tokenRepo.RevokeAllForUser(txCtx, updated.UserID)
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.NewEmployeeResponse(updated), nil
}

// DeactivateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeactivateEmployee(ctx context.Context, id string) error {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	if err := p.Require(user.PermissionEmployeeManage); err != nil {
		return err
	}
	if p.IsEmployee(id) {
		return employee.ErrCannotDeactivateSelf
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		emp, err := s.employeeRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !emp.IsActive {
			return employee.ErrEmployeeAlreadyInactive
		}
		if err := s.employeeRepo.Deactivate(txCtx, id); err != nil {
			return err
		}
		return s.tokenRepo.RevokeAllForUser(txCtx, emp.UserID)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "employee deactivated", "employee_id", id, "by", p.UserID)
	return nil
}

// ResetPassword implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ResetPassword(ctx context.Context, id string) (employee.ResetPasswordResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return employee.ResetPasswordResponse{}, err
	}
	if err := p.Require(user.PermissionEmployeeManage); err != nil {
		return employee.ResetPasswordResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.ResetPasswordResponse{}, err
	}
	// hr may not take over admin or hr accounts
	if emp.Role != string(user.RoleEmployee) && p.Role != user.RoleAdmin {
		return employee.ResetPasswordResponse{}, employee.ErrRoleNotAssignable
	}

	password := temporaryPassword()
	hashed, err := authservice.HashPassword(password)
	if err != nil {
		return employee.ResetPasswordResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.UpdatePassword(txCtx, emp.UserID, hashed); err != nil {
			return err
		}
		return s.tokenRepo.RevokeAllForUser(txCtx, emp.UserID)
	})
	if err != nil {
		return employee.ResetPasswordResponse{}, err
	}

	return employee.ResetPasswordResponse{Username: emp.Username, TemporaryPassword: password}, nil
}

// Departments implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Departments(ctx context.Context) ([]string, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.Require(user.PermissionEmployeeViewAll); err != nil {
		return nil, err
	}
	departments, err := s.employeeRepo.Departments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	if departments == nil {
		departments = []string{}
	}
	return departments, nil
}
