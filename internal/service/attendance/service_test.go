package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timepolicy"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/payroll-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	janeID = "0190f1a2-0000-7000-8000-00000000000a"
	johnID = "0190f1a2-0000-7000-8000-00000000000b"
)

var wib = time.FixedZone("WIB", 7*3600)

type fixture struct {
	svc     *AttendanceServiceImpl
	records *servicetest.Attendances
}

func newFixture(officeHours ...timepolicy.OfficeHours) fixture {
	records := servicetest.NewAttendances()
	employees := servicetest.NewEmployees(nil,
		employee.Employee{ID: janeID, FirstName: "Jane", LastName: "Doe", IsActive: true},
		employee.Employee{ID: johnID, FirstName: "John", LastName: "Roe", IsActive: true},
	)
	svc := NewAttendanceService(&servicetest.Tx{}, records, servicetest.NewOfficeHours(officeHours...), employees, wib).(*AttendanceServiceImpl)
	return fixture{svc: svc, records: records}
}

func regularHours() timepolicy.OfficeHours {
	return timepolicy.OfficeHours{
		Name:             "Regular",
		OfficialClockIn:  timepolicy.MustClockTime("09:00"),
		OfficialClockOut: timepolicy.MustClockTime("17:00"),
		GracePeriodIn:    15,
		GracePeriodOut:   15,
		WorkingDays:      []int{1, 2, 3, 4, 5},
		IsActive:         true,
		IsDefault:        true,
	}
}

func as(employeeID string) context.Context {
	id := employeeID
	return servicetest.As(context.Background(), "user-"+employeeID, user.RoleEmployee, &id)
}

func hrCtx() context.Context {
	return servicetest.As(context.Background(), "hr", user.RoleHR, nil)
}

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 3, day, hour, minute, 0, 0, wib)
}

func TestAttendanceService_ClockInOut(t *testing.T) {
	f := newFixture()
	ctx := as(janeID)

	// 01:55 UTC is 08:55 in the business zone, on time against the 09:00 default
	in, err := f.svc.ClockIn(ctx, attendance.ClockEvent{EmployeeID: janeID, At: at(4, 8, 55).UTC()})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, in.Status)
	assert.Equal(t, "2024-03-04", in.Date.Format("2006-01-02"))
	assert.Nil(t, in.Notes)
	assert.Equal(t, attendance.StateClockedIn, attendance.StateOf(&in))

	out, err := f.svc.ClockOut(ctx, attendance.ClockEvent{EmployeeID: janeID, At: at(4, 18, 30)})
	require.NoError(t, err)
	assert.Equal(t, attendance.StateClockedOut, attendance.StateOf(&out))
	assert.InDelta(t, 9.58, out.HoursWorked, 0.001)
	assert.InDelta(t, 1.58, out.OvertimeHours, 0.001)
	assert.Equal(t, attendance.StatusPresent, out.Status)
	assert.Equal(t, 1, f.records.Len())
}

func TestAttendanceService_DoubleClockInRejected(t *testing.T) {
	f := newFixture()
	ctx := as(janeID)

	first, err := f.svc.ClockIn(ctx, attendance.ClockEvent{EmployeeID: janeID, At: at(4, 8, 0)})
	require.NoError(t, err)

	_, err = f.svc.ClockIn(ctx, attendance.ClockEvent{EmployeeID: janeID, At: at(4, 10, 0)})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)

	stored, err := f.records.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.True(t, stored.CheckIn.Equal(at(4, 8, 0)), "the first check-in is kept")
	assert.Equal(t, attendance.StatusPresent, stored.Status)
	assert.Equal(t, 1, f.records.Len())

	// after clocking out the day is closed
	_, err = f.svc.ClockOut(ctx, attendance.ClockEvent{EmployeeID: janeID, At: at(4, 17, 0)})
	require.NoError(t, err)
	_, err = f.svc.ClockIn(ctx, attendance.ClockEvent{EmployeeID: janeID, At: at(4, 18, 0)})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)

	// the next calendar day starts fresh
	_, err = f.svc.ClockIn(ctx, attendance.ClockEvent{EmployeeID: janeID, At: at(5, 8, 0)})
	assert.NoError(t, err)
}

func TestAttendanceService_ClockOutWithoutClockIn(t *testing.T) {
	f := newFixture()
	ctx := as(janeID)

	_, err := f.svc.ClockOut(ctx, attendance.ClockEvent{EmployeeID: janeID, At: at(4, 17, 0)})
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
	assert.Zero(t, f.records.Len())

	_, err = f.svc.ClockIn(ctx, attendance.ClockEvent{EmployeeID: janeID, At: at(4, 9, 0)})
	require.NoError(t, err)
	_, err = f.svc.ClockOut(ctx, attendance.ClockEvent{EmployeeID: janeID, At: at(4, 17, 0)})
	require.NoError(t, err)

	_, err = f.svc.ClockOut(ctx, attendance.ClockEvent{EmployeeID: janeID, At: at(4, 18, 0)})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedOut)
}

func TestAttendanceService_OfficeHoursNotes(t *testing.T) {
	f := newFixture(regularHours())
	ctx := as(janeID)

	in, err := f.svc.ClockIn(ctx, attendance.ClockEvent{EmployeeID: janeID, At: at(4, 9, 20)})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, in.Status)
	require.NotNil(t, in.Notes)
	assert.Equal(t, "Late by 20 minutes", *in.Notes)

	out, err := f.svc.ClockOut(ctx, attendance.ClockEvent{EmployeeID: janeID, At: at(4, 16, 30)})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, out.Status, "clock-out keeps the clock-in status")
	assert.InDelta(t, 7.17, out.HoursWorked, 0.001)
	assert.Zero(t, out.OvertimeHours)
	assert.Equal(t, "Late by 20 minutes | Early by 30 minutes", *out.Notes)
}

func TestAttendanceService_QRNotes(t *testing.T) {
	f := newFixture(regularHours())
	ctx := as(janeID)
	via := &attendance.QRSource{LocationID: "loc-1", LocationName: "HQ"}

	in, err := f.svc.ClockIn(ctx, attendance.ClockEvent{EmployeeID: janeID, At: at(4, 8, 50), Via: via})
	require.NoError(t, err)
	assert.True(t, in.IsQR)
	require.NotNil(t, in.LocationID)
	assert.Equal(t, "loc-1", *in.LocationID)
	assert.Equal(t, "QR Clock-in at HQ", *in.Notes)

	out, err := f.svc.ClockOut(ctx, attendance.ClockEvent{EmployeeID: janeID, At: at(4, 16, 0), Via: via})
	require.NoError(t, err)
	assert.Equal(t, "QR Clock-in at HQ | QR Clock-out at HQ (Early by 60 minutes)", *out.Notes)
}

func TestAttendanceService_ClockForSomeoneElse(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ClockIn(as(janeID), attendance.ClockEvent{EmployeeID: johnID, At: at(4, 9, 0)})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = f.svc.ClockIn(hrCtx(), attendance.ClockEvent{EmployeeID: johnID, At: at(4, 9, 0)})
	assert.ErrorIs(t, err, user.ErrNoEmployeeProfile)
}

func TestAttendanceService_ManualAbsenceThenClockIn(t *testing.T) {
	f := newFixture()
	absent := "absent"

	manual, err := f.svc.CreateManual(hrCtx(), attendance.ManualAttendanceRequest{EmployeeID: janeID, Date: "2024-03-04", Status: &absent})
	require.NoError(t, err)
	assert.Equal(t, "absent", manual.Status)
	assert.Equal(t, "no_record", manual.State)

	in, err := f.svc.ClockIn(as(janeID), attendance.ClockEvent{EmployeeID: janeID, At: at(4, 9, 30)})
	require.NoError(t, err)
	assert.Equal(t, manual.ID, in.ID)
	assert.Equal(t, attendance.StatusLate, in.Status)
	assert.Equal(t, 1, f.records.Len())
}

func TestAttendanceService_CreateManual(t *testing.T) {
	f := newFixture(regularHours())
	in, out := "08:00", "18:00"

	created, err := f.svc.CreateManual(hrCtx(), attendance.ManualAttendanceRequest{EmployeeID: janeID, Date: "2024-03-04", CheckIn: &in, CheckOut: &out})
	require.NoError(t, err)
	assert.Equal(t, "present", created.Status)
	assert.InDelta(t, 10.0, created.HoursWorked, 0.001)
	assert.InDelta(t, 2.0, created.OvertimeHours, 0.001)
	require.NotNil(t, created.CheckIn)
	assert.Equal(t, "2024-03-04T08:00:00+07:00", *created.CheckIn)

	_, err = f.svc.CreateManual(hrCtx(), attendance.ManualAttendanceRequest{EmployeeID: janeID, Date: "2024-03-04", CheckIn: &in})
	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)

	_, err = f.svc.CreateManual(hrCtx(), attendance.ManualAttendanceRequest{EmployeeID: "0190f1a2-0000-7000-8000-0000000000ff", Date: "2024-03-04", CheckIn: &in})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.svc.CreateManual(hrCtx(), attendance.ManualAttendanceRequest{EmployeeID: johnID, Date: "2024-03-04", CheckIn: &out, CheckOut: &in})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "check_out")

	_, err = f.svc.CreateManual(as(janeID), attendance.ManualAttendanceRequest{EmployeeID: janeID, Date: "2024-03-05", CheckIn: &in})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestAttendanceService_UpdateRecomputes(t *testing.T) {
	f := newFixture(regularHours())
	ctx := as(janeID)

	rec, err := f.svc.ClockIn(ctx, attendance.ClockEvent{EmployeeID: janeID, At: at(4, 9, 40)})
	require.NoError(t, err)
	require.Equal(t, attendance.StatusLate, rec.Status)

	in, out := "09:00", "17:30"
	updated, err := f.svc.Update(hrCtx(), attendance.UpdateAttendanceRequest{ID: rec.ID, CheckIn: &in, CheckOut: &out})
	require.NoError(t, err)
	assert.Equal(t, "present", updated.Status)
	assert.InDelta(t, 8.5, updated.HoursWorked, 0.001)
	assert.InDelta(t, 0.5, updated.OvertimeHours, 0.001)
	assert.Equal(t, "clocked_out", updated.State)

	early := "08:00"
	_, err = f.svc.Update(hrCtx(), attendance.UpdateAttendanceRequest{ID: rec.ID, CheckOut: &early})
	var errs validator.ValidationErrors
	assert.ErrorAs(t, err, &errs)

	_, err = f.svc.Update(hrCtx(), attendance.UpdateAttendanceRequest{ID: "missing"})
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceService_StatusAndHistory(t *testing.T) {
	f := newFixture()
	f.svc.now = func() time.Time { return at(4, 12, 0) }
	ctx := as(janeID)

	status, err := f.svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "no_record", status.State)
	assert.True(t, status.CanClockIn)
	assert.False(t, status.CanClockOut)
	assert.Nil(t, status.Attendance)

	_, err = f.svc.ClockIn(ctx, attendance.ClockEvent{EmployeeID: janeID, At: at(4, 8, 0)})
	require.NoError(t, err)

	status, err = f.svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", status.Date)
	assert.Equal(t, "clocked_in", status.State)
	assert.True(t, status.CanClockOut)
	require.NotNil(t, status.Attendance)

	history, err := f.svc.History(ctx, attendance.HistoryFilter{})
	require.NoError(t, err)
	assert.Len(t, history, 1)

	john := johnID
	_, err = f.svc.History(ctx, attendance.HistoryFilter{EmployeeID: &john})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	jane := janeID
	history, err = f.svc.History(hrCtx(), attendance.HistoryFilter{EmployeeID: &jane})
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestAttendanceService_DeleteAndStats(t *testing.T) {
	f := newFixture()
	f.svc.now = func() time.Time { return at(20, 12, 0) }

	rec, err := f.svc.ClockIn(as(janeID), attendance.ClockEvent{EmployeeID: janeID, At: at(4, 9, 30)})
	require.NoError(t, err)
	_, err = f.svc.ClockIn(as(johnID), attendance.ClockEvent{EmployeeID: johnID, At: at(4, 8, 30)})
	require.NoError(t, err)

	stats, err := f.svc.Stats(hrCtx(), attendance.StatsRequest{})
	require.NoError(t, err)
	assert.Equal(t, "2024-03", stats.Month)
	assert.EqualValues(t, 1, stats.Present)
	assert.EqualValues(t, 1, stats.Late)

	_, err = f.svc.Stats(as(janeID), attendance.StatsRequest{})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	err = f.svc.Delete(hrCtx(), rec.ID)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions, "only admins delete attendance")

	adminCtx := servicetest.As(context.Background(), "admin", user.RoleAdmin, nil)
	require.NoError(t, f.svc.Delete(adminCtx, rec.ID))
	assert.Equal(t, 1, f.records.Len())
}
