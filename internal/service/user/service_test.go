package user

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/payroll-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminID  = "0190f1a2-0000-7000-8000-000000000001"
	admin2ID = "0190f1a2-0000-7000-8000-000000000002"
	hrID     = "0190f1a2-0000-7000-8000-000000000003"
	staffID  = "0190f1a2-0000-7000-8000-000000000004"
)

func newService(seed ...user.User) (user.UserService, *servicetest.Users, *servicetest.RefreshTokens) {
	users := servicetest.NewUsers(seed...)
	tokens := servicetest.NewRefreshTokens()
	return NewUserService(&servicetest.Tx{}, users, tokens), users, tokens
}

func asAdmin(id string) context.Context {
	return servicetest.As(context.Background(), id, user.RoleAdmin, nil)
}

func TestUserService_Create(t *testing.T) {
	svc, users, _ := newService(user.User{ID: adminID, Username: "root", Email: "root@example.com", Role: user.RoleAdmin, IsActive: true})

	resp, err := svc.Create(asAdmin(adminID), user.CreateUserRequest{Username: "hr.lead", Email: "HR@example.com", Password: "password123", Role: "hr"})
	require.NoError(t, err)
	assert.Equal(t, "hr", resp.Role)
	assert.Equal(t, "hr@example.com", resp.Email)

	stored, err := users.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordHash)
	assert.NotEqual(t, "password123", *stored.PasswordHash)

	_, err = svc.Create(asAdmin(adminID), user.CreateUserRequest{Username: "hr.lead", Email: "other@example.com", Password: "password123", Role: "hr"})
	assert.ErrorIs(t, err, user.ErrUsernameExists)

	_, err = svc.Create(asAdmin(adminID), user.CreateUserRequest{Username: "emp", Email: "e@example.com", Password: "password123", Role: "employee"})
	var errs validator.ValidationErrors
	assert.ErrorAs(t, err, &errs, "employees are created through the employee endpoints")

	hrCtx := servicetest.As(context.Background(), hrID, user.RoleHR, nil)
	_, err = svc.Create(hrCtx, user.CreateUserRequest{Username: "x.y", Email: "x@example.com", Password: "password123", Role: "hr"})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestUserService_Delete_LastAdmin(t *testing.T) {
	svc, users, _ := newService(
		user.User{ID: adminID, Username: "root", Email: "root@example.com", Role: user.RoleAdmin, IsActive: true},
		user.User{ID: hrID, Username: "hr", Email: "hr@example.com", Role: user.RoleHR, IsActive: true},
	)
	ctx := context.Background()

	err := svc.Delete(asAdmin(adminID), adminID)
	assert.ErrorIs(t, err, user.ErrCannotDeleteSelf)

	_, err = svc.BulkDelete(asAdmin(adminID), user.BulkDeleteRequest{UserIDs: []string{hrID, adminID}})
	assert.ErrorIs(t, err, user.ErrCannotDeleteSelf)

	require.NoError(t, svc.Delete(asAdmin(adminID), hrID))
	_, err = users.GetByID(ctx, hrID)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserService_BulkDelete(t *testing.T) {
	seed := []user.User{
		{ID: adminID, Username: "root", Email: "root@example.com", Role: user.RoleAdmin, IsActive: true},
		{ID: admin2ID, Username: "root2", Email: "root2@example.com", Role: user.RoleAdmin, IsActive: true},
		{ID: hrID, Username: "hr", Email: "hr@example.com", Role: user.RoleHR, IsActive: true},
		{ID: staffID, Username: "staff", Email: "staff@example.com", Role: user.RoleEmployee, IsActive: true},
	}

	t.Run("removes all listed accounts", func(t *testing.T) {
		svc, users, _ := newService(seed...)
		resp, err := svc.BulkDelete(asAdmin(adminID), user.BulkDeleteRequest{UserIDs: []string{hrID, staffID, staffID, admin2ID}})
		require.NoError(t, err)
		assert.Equal(t, 3, resp.Deleted)

		remaining, total, err := users.List(context.Background(), user.UserFilter{})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, adminID, remaining[0].ID)
	})

	t.Run("unknown id deletes nothing", func(t *testing.T) {
		svc, users, _ := newService(seed...)
		_, err := svc.BulkDelete(asAdmin(adminID), user.BulkDeleteRequest{UserIDs: []string{hrID, "0190f1a2-0000-7000-8000-0000000000ff"}})
		assert.ErrorIs(t, err, user.ErrUserNotFound)

		_, err = users.GetByID(context.Background(), hrID)
		assert.NoError(t, err)
	})

	t.Run("hr cannot delete", func(t *testing.T) {
		svc, _, _ := newService(seed...)
		hrCtx := servicetest.As(context.Background(), hrID, user.RoleHR, nil)
		_, err := svc.BulkDelete(hrCtx, user.BulkDeleteRequest{UserIDs: []string{staffID}})
		assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
	})
}

func TestUserService_UpdateRole(t *testing.T) {
	svc, users, tokens := newService(
		user.User{ID: adminID, Username: "root", Email: "root@example.com", Role: user.RoleAdmin, IsActive: true},
		user.User{ID: hrID, Username: "hr", Email: "hr@example.com", Role: user.RoleHR, IsActive: true},
	)
	ctx := context.Background()
	require.NoError(t, tokens.CreateRefreshToken(ctx, hrID, "tok", 4102444800, auth.SessionTrackingRequest{}))

	_, err := svc.UpdateRole(asAdmin(adminID), user.UpdateRoleRequest{ID: adminID, Role: "hr"})
	assert.ErrorIs(t, err, user.ErrCannotChangeOwnRole)

	resp, err := svc.UpdateRole(asAdmin(adminID), user.UpdateRoleRequest{ID: hrID, Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Role)
	assert.Zero(t, tokens.Active(hrID))

	// two admins now: demoting the original one is allowed
	_, err = svc.UpdateRole(asAdmin(hrID), user.UpdateRoleRequest{ID: adminID, Role: "employee"})
	require.NoError(t, err)

	stored, err := users.GetByID(ctx, adminID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleEmployee, stored.Role)
}

func TestUserService_Delete_LastAdminWithStaleToken(t *testing.T) {
	svc, _, _ := newService(
		user.User{ID: adminID, Username: "root", Email: "root@example.com", Role: user.RoleHR, IsActive: true},
		user.User{ID: admin2ID, Username: "root2", Email: "root2@example.com", Role: user.RoleAdmin, IsActive: true},
	)

	// adminID was demoted but still holds an admin access token
	err := svc.Delete(asAdmin(adminID), admin2ID)
	assert.ErrorIs(t, err, user.ErrLastAdmin)
}
