package employee

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/payroll-backend-go/internal/service/servicetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	svc       employee.EmployeeService
	users     *servicetest.Users
	employees *servicetest.Employees
	tokens    *servicetest.RefreshTokens
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	users := servicetest.NewUsers(
		user.User{ID: "admin", Username: "root", Email: "root@example.com", Role: user.RoleAdmin, IsActive: true},
	)
	employees := servicetest.NewEmployees(users)
	tokens := servicetest.NewRefreshTokens()
	svc := NewEmployeeService(&servicetest.Tx{}, employees, users, tokens, time.UTC).(*EmployeeServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC) }
	return fixture{svc: svc, users: users, employees: employees, tokens: tokens}
}

func adminCtx() context.Context {
	return servicetest.As(context.Background(), "admin", user.RoleAdmin, nil)
}

func hrCtx() context.Context {
	return servicetest.As(context.Background(), "hr", user.RoleHR, nil)
}

func createJane(t *testing.T, f fixture) employee.CreateEmployeeResponse {
	t.Helper()
	resp, err := f.svc.CreateEmployee(adminCtx(), employee.CreateEmployeeRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Salary:    decimal.NewFromInt(75000),
	})
	require.NoError(t, err)
	return resp
}

func TestEmployeeService_CreateEmployee(t *testing.T) {
	f := newFixture(t)
	resp := createJane(t, f)

	assert.Equal(t, "jane.doe", resp.Username)
	require.NotNil(t, resp.TemporaryPassword)
	assert.Len(t, *resp.TemporaryPassword, 12)
	assert.Regexp(t, `^EMP[0-9A-F]{8}$`, resp.Employee.EmployeeCode)
	assert.Equal(t, "employee", resp.Employee.Role)
	assert.Equal(t, "2024-03-04", resp.Employee.HireDate)
	assert.True(t, resp.Employee.IsActive)

	account, err := f.users.GetByLogin(context.Background(), "jane.doe")
	require.NoError(t, err)
	require.NotNil(t, account.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte(*resp.TemporaryPassword)))
	require.NotNil(t, account.EmployeeID)
	assert.Equal(t, resp.Employee.ID, *account.EmployeeID)

	t.Run("username gets a numeric suffix", func(t *testing.T) {
		again, err := f.svc.CreateEmployee(adminCtx(), employee.CreateEmployeeRequest{
			FirstName: "Jane", LastName: "Doe", Email: "jane2@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "jane.doe1", again.Username)
	})

	t.Run("explicit credentials are not echoed", func(t *testing.T) {
		username, password := "j.smith", "password123"
		got, err := f.svc.CreateEmployee(adminCtx(), employee.CreateEmployeeRequest{
			FirstName: "John", LastName: "Smith", Email: "john@example.com",
			Username: &username, Password: &password, HireDate: "2023-01-15",
		})
		require.NoError(t, err)
		assert.Equal(t, "j.smith", got.Username)
		assert.Nil(t, got.TemporaryPassword)
		assert.Equal(t, "2023-01-15", got.Employee.HireDate)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.svc.CreateEmployee(adminCtx(), employee.CreateEmployeeRequest{
			FirstName: "Other", LastName: "Jane", Email: "JANE@example.com",
		})
		assert.ErrorIs(t, err, user.ErrUserEmailExists)
	})

	t.Run("hr cannot create hr", func(t *testing.T) {
		_, err := f.svc.CreateEmployee(hrCtx(), employee.CreateEmployeeRequest{
			FirstName: "New", LastName: "Hr", Email: "newhr@example.com", Role: "hr",
		})
		assert.ErrorIs(t, err, employee.ErrRoleNotAssignable)
	})

	t.Run("employees cannot create", func(t *testing.T) {
		ctx := servicetest.As(context.Background(), "someone", user.RoleEmployee, nil)
		_, err := f.svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{FirstName: "A", LastName: "B", Email: "ab@example.com"})
		assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
	})

	t.Run("negative salary", func(t *testing.T) {
		_, err := f.svc.CreateEmployee(adminCtx(), employee.CreateEmployeeRequest{
			FirstName: "A", LastName: "B", Email: "neg@example.com", Salary: decimal.NewFromInt(-1),
		})
		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.ToMap(), "salary")
	})
}

func TestEmployeeService_GetEmployee_Visibility(t *testing.T) {
	f := newFixture(t)
	jane := createJane(t, f)
	other := "someone-else"

	self := servicetest.As(context.Background(), "jane", user.RoleEmployee, &jane.Employee.ID)
	got, err := f.svc.GetEmployee(self, jane.Employee.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.FullName)

	stranger := servicetest.As(context.Background(), "x", user.RoleEmployee, &other)
	_, err = f.svc.GetEmployee(stranger, jane.Employee.ID)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = f.svc.GetEmployee(hrCtx(), "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeService_UpdateAndDeactivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jane := createJane(t, f)
	require.NoError(t, f.tokens.CreateRefreshToken(ctx, jane.Employee.UserID, "tok", 4102444800, auth.SessionTrackingRequest{}))

	dept := "Engineering"
	salary := decimal.NewFromInt(80000)
	updated, err := f.svc.UpdateEmployee(hrCtx(), employee.UpdateEmployeeRequest{ID: jane.Employee.ID, Department: &dept, Salary: &salary})
	require.NoError(t, err)
	require.NotNil(t, updated.Department)
	assert.Equal(t, "Engineering", *updated.Department)
	assert.True(t, updated.Salary.Equal(salary))

	departments, err := f.svc.Departments(hrCtx())
	require.NoError(t, err)
	assert.Equal(t, []string{"Engineering"}, departments)

	require.NoError(t, f.svc.DeactivateEmployee(hrCtx(), jane.Employee.ID))
	assert.Zero(t, f.tokens.Active(jane.Employee.UserID))
	account, err := f.users.GetByID(ctx, jane.Employee.UserID)
	require.NoError(t, err)
	assert.False(t, account.IsActive)

	err = f.svc.DeactivateEmployee(hrCtx(), jane.Employee.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeAlreadyInactive)

	active := true
	_, err = f.svc.UpdateEmployee(hrCtx(), employee.UpdateEmployeeRequest{ID: jane.Employee.ID, IsActive: &active})
	require.NoError(t, err)
	account, err = f.users.GetByID(ctx, jane.Employee.UserID)
	require.NoError(t, err)
	assert.True(t, account.IsActive, "reactivation restores login")
}

func TestEmployeeService_DeactivateSelf(t *testing.T) {
	f := newFixture(t)
	jane := createJane(t, f)

	ctx := servicetest.As(context.Background(), jane.Employee.UserID, user.RoleHR, &jane.Employee.ID)
	err := f.svc.DeactivateEmployee(ctx, jane.Employee.ID)
	assert.ErrorIs(t, err, employee.ErrCannotDeactivateSelf)
}

func TestEmployeeService_ResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jane := createJane(t, f)
	require.NoError(t, f.tokens.CreateRefreshToken(ctx, jane.Employee.UserID, "tok", 4102444800, auth.SessionTrackingRequest{}))

	resp, err := f.svc.ResetPassword(hrCtx(), jane.Employee.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane.doe", resp.Username)
	assert.NotEqual(t, *jane.TemporaryPassword, resp.TemporaryPassword)
	assert.Zero(t, f.tokens.Active(jane.Employee.UserID))

	account, err := f.users.GetByID(ctx, jane.Employee.UserID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte(resp.TemporaryPassword)))
}
