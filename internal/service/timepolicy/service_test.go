package timepolicy

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timepolicy"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/payroll-backend-go/internal/service/servicetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() (timepolicy.TimePolicyService, *servicetest.OfficeHours, *servicetest.Policies) {
	oh := servicetest.NewOfficeHours()
	policies := servicetest.NewPolicies()
	return NewTimePolicyService(&servicetest.Tx{}, oh, policies), oh, policies
}

func hrCtx() context.Context {
	return servicetest.As(context.Background(), "hr", user.RoleHR, nil)
}

func TestTimePolicyService_OfficeHoursDefault(t *testing.T) {
	svc, repo, _ := newService()
	ctx := hrCtx()

	first, err := svc.CreateOfficeHours(ctx, timepolicy.OfficeHoursRequest{Name: "Regular", OfficialClockIn: "09:00", OfficialClockOut: "17:00", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.CreateOfficeHours(ctx, timepolicy.OfficeHoursRequest{Name: "Early", OfficialClockIn: "07:00", OfficialClockOut: "15:00", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	def, err := repo.GetDefault(context.Background())
	require.NoError(t, err)
	assert.Equal(t, second.ID, def.ID, "only one default at a time")

	_, err = svc.SetDefaultOfficeHours(ctx, first.ID)
	require.NoError(t, err)
	def, err = repo.GetDefault(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.ID, def.ID)

	require.NoError(t, svc.DeleteOfficeHours(ctx, second.ID))
	_, err = svc.SetDefaultOfficeHours(ctx, second.ID)
	assert.ErrorIs(t, err, timepolicy.ErrInactive)

	active, err := svc.ListOfficeHours(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	all, err := svc.ListOfficeHours(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	employeeCtx := servicetest.As(context.Background(), "e", user.RoleEmployee, nil)
	visible, err := svc.ListOfficeHours(employeeCtx, true)
	require.NoError(t, err)
	assert.Len(t, visible, 1, "inactive records are staff-only")
}

func TestTimePolicyService_UpdateOfficeHours(t *testing.T) {
	svc, _, _ := newService()
	ctx := hrCtx()

	created, err := svc.CreateOfficeHours(ctx, timepolicy.OfficeHoursRequest{Name: "Regular", OfficialClockIn: "09:00", OfficialClockOut: "17:00", IsDefault: true})
	require.NoError(t, err)

	grace := 5
	updated, err := svc.UpdateOfficeHours(ctx, timepolicy.OfficeHoursRequest{ID: created.ID, Name: "Regular", OfficialClockIn: "08:30", OfficialClockOut: "17:30", GracePeriodIn: &grace})
	require.NoError(t, err)
	assert.Equal(t, "08:30", updated.OfficialClockIn)
	assert.True(t, updated.IsDefault, "update keeps the default flag")
	assert.True(t, updated.IsActive)

	_, err = svc.UpdateOfficeHours(ctx, timepolicy.OfficeHoursRequest{ID: created.ID, Name: "Bad", OfficialClockIn: "17:00", OfficialClockOut: "09:00"})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "official_clock_out")

	_, err = svc.UpdateOfficeHours(ctx, timepolicy.OfficeHoursRequest{ID: "missing", Name: "X", OfficialClockIn: "09:00", OfficialClockOut: "17:00"})
	assert.ErrorIs(t, err, timepolicy.ErrOfficeHoursNotFound)
}

func TestTimePolicyService_Policies(t *testing.T) {
	svc, _, repo := newService()
	ctx := hrCtx()

	taxRate := decimal.RequireFromString("0.2")
	created, err := svc.CreatePolicy(ctx, timepolicy.AttendancePolicyRequest{Name: "Standard", TaxRate: &taxRate, IsDefault: true})
	require.NoError(t, err)
	assert.True(t, created.IsDefault)

	def, err := repo.GetDefault(context.Background())
	require.NoError(t, err)
	assert.True(t, def.TaxRate.Equal(taxRate))
	assert.True(t, def.AllowanceRate.Equal(decimal.RequireFromString("0.10")))

	bad := decimal.RequireFromString("1.5")
	_, err = svc.CreatePolicy(ctx, timepolicy.AttendancePolicyRequest{Name: "Broken", TaxRate: &bad})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "tax_rate")

	require.NoError(t, svc.DeletePolicy(ctx, created.ID))
	_, err = repo.GetDefault(context.Background())
	assert.ErrorIs(t, err, timepolicy.ErrNoDefaultPolicy)

	employeeCtx := servicetest.As(context.Background(), "e", user.RoleEmployee, nil)
	_, err = svc.ListPolicies(employeeCtx, false)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}
