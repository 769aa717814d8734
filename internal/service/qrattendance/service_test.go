package qrattendance

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/location"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/qrattendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/redis"
	attendanceservice "github.com/cmlabs-hris/payroll-backend-go/internal/service/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/service/servicetest"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	janeID   = "7a1e9c52-3b7f-4d0e-8a55-2f4c6b1d0e01"
	hqID     = "7a1e9c52-3b7f-4d0e-8a55-2f4c6b1d0e10"
	branchID = "7a1e9c52-3b7f-4d0e-8a55-2f4c6b1d0e11"
	closedID = "7a1e9c52-3b7f-4d0e-8a55-2f4c6b1d0e12"
)

var wib = time.FixedZone("WIB", 7*3600)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	svc       *QRAttendanceServiceImpl
	store     qrattendance.TokenStore
	locations *servicetest.Locations
	records   *servicetest.Attendances
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := redis.NewQRTokenStore(client)

	locations := servicetest.NewLocations(
		location.OfficeLocation{ID: hqID, Name: "HQ", Latitude: ptr(-6.2), Longitude: ptr(106.8), RadiusMeters: 100, IsActive: true},
		location.OfficeLocation{ID: branchID, Name: "Branch", RadiusMeters: 100, IsActive: true},
		location.OfficeLocation{ID: closedID, Name: "Closed", RadiusMeters: 100},
	)
	records := servicetest.NewAttendances()
	employees := servicetest.NewEmployees(nil, employee.Employee{ID: janeID, FirstName: "Jane", IsActive: true})
	att := attendanceservice.NewAttendanceService(&servicetest.Tx{}, records, servicetest.NewOfficeHours(), employees, wib)

	svc := NewQRAttendanceService(locations, store, att, 0, wib).(*QRAttendanceServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 3, 4, 8, 55, 0, 0, wib) }
	return fixture{svc: svc, store: store, locations: locations, records: records}
}

func (f fixture) at(hour, min int) {
	f.svc.now = func() time.Time { return time.Date(2024, 3, 4, hour, min, 0, 0, wib) }
}

func hrCtx() context.Context {
	return servicetest.As(context.Background(), "hr", user.RoleHR, nil)
}

func janeCtx() context.Context {
	id := janeID
	return servicetest.As(context.Background(), "u-jane", user.RoleEmployee, &id)
}

func (f fixture) generate(t *testing.T, locationID string) qrattendance.GenerateResponse {
	t.Helper()
	resp, err := f.svc.Generate(hrCtx(), qrattendance.GenerateRequest{LocationID: locationID})
	require.NoError(t, err)
	return resp
}

func TestQRAttendanceService_Generate(t *testing.T) {
	f := newFixture(t)
	resp := f.generate(t, hqID)

	assert.Equal(t, "HQ", resp.Payload.LocationName)
	assert.Equal(t, qrattendance.DefaultValidity, resp.Payload.ExpiresAt.Sub(resp.Payload.IssuedAt))
	assert.NotEmpty(t, resp.ImagePNG)

	parsed, err := qrattendance.ParsePayload(resp.QRData)
	require.NoError(t, err)
	assert.Equal(t, resp.Payload.Token, parsed.Token)

	issuedFor, _, err := f.store.Lookup(context.Background(), resp.Payload.Token)
	require.NoError(t, err)
	assert.Equal(t, hqID, issuedFor)

	t.Run("custom validity", func(t *testing.T) {
		got, err := f.svc.Generate(hrCtx(), qrattendance.GenerateRequest{LocationID: hqID, ValidityMinutes: ptr(30)})
		require.NoError(t, err)
		assert.Equal(t, 30*time.Minute, got.Payload.ExpiresAt.Sub(got.Payload.IssuedAt))
	})

	t.Run("inactive location", func(t *testing.T) {
		_, err := f.svc.Generate(hrCtx(), qrattendance.GenerateRequest{LocationID: closedID})
		assert.ErrorIs(t, err, qrattendance.ErrInvalidLocation)
	})

	t.Run("employees cannot generate", func(t *testing.T) {
		_, err := f.svc.Generate(janeCtx(), qrattendance.GenerateRequest{LocationID: hqID})
		assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
	})
}

func TestQRAttendanceService_ValidatePayload_ExpiredBeforeLocation(t *testing.T) {
	f := newFixture(t)
	issued := time.Date(2024, 3, 1, 9, 0, 0, 0, wib)
	payload := qrattendance.Payload{
		LocationID: closedID,
		Token:      "whatever",
		IssuedAt:   issued,
		ExpiresAt:  issued.Add(qrattendance.DefaultValidity),
	}

	_, err := f.svc.ValidatePayload(context.Background(), payload, f.svc.now())
	assert.ErrorIs(t, err, qrattendance.ErrQRExpired)
	assert.Zero(t, f.locations.Lookups, "location must not be consulted for an expired code")
}

func TestQRAttendanceService_ValidatePayload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hq := f.generate(t, hqID)

	id, err := f.svc.ValidatePayload(ctx, hq.Payload, f.svc.now())
	require.NoError(t, err)
	assert.Equal(t, hqID, id)

	rebound := hq.Payload
	rebound.LocationID = branchID
	_, err = f.svc.ValidatePayload(ctx, rebound, f.svc.now())
	assert.ErrorIs(t, err, qrattendance.ErrInvalidQRToken)

	forged := hq.Payload
	forged.Token = "never-issued"
	_, err = f.svc.ValidatePayload(ctx, forged, f.svc.now())
	assert.ErrorIs(t, err, qrattendance.ErrInvalidQRToken)

	missing := hq.Payload
	missing.LocationID = janeID
	_, err = f.svc.ValidatePayload(ctx, missing, f.svc.now())
	assert.ErrorIs(t, err, qrattendance.ErrInvalidLocation)
}

func TestQRAttendanceService_ScanInAndOut(t *testing.T) {
	f := newFixture(t)
	code := f.generate(t, hqID)
	scan := qrattendance.ScanRequest{QRData: code.QRData, Latitude: ptr(-6.2), Longitude: ptr(106.8005)}

	in, err := f.svc.Scan(janeCtx(), scan)
	require.NoError(t, err)
	assert.Equal(t, qrattendance.ActionClockIn, in.Action)
	assert.Equal(t, "08:55:00", in.Time)
	assert.Equal(t, "HQ", in.Location)
	require.NotNil(t, in.Notes)
	assert.Equal(t, "QR Clock-in at HQ", *in.Notes)
	assert.Nil(t, in.HoursWorked)

	f.at(16, 55)
	out, err := f.svc.Scan(janeCtx(), scan)
	require.NoError(t, err)
	assert.Equal(t, qrattendance.ActionClockOut, out.Action)
	require.NotNil(t, out.HoursWorked)
	assert.InDelta(t, 8.0, *out.HoursWorked, 0.01)
	assert.Equal(t, "QR Clock-in at HQ | QR Clock-out at HQ", *out.Notes)

	f.at(18, 0)
	_, err = f.svc.Scan(janeCtx(), scan)
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedOut)

	history, err := f.svc.History(janeCtx(), attendance.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].IsQR)
	require.NotNil(t, history[0].LocationID)
	assert.Equal(t, hqID, *history[0].LocationID)
}

func TestQRAttendanceService_ScanRejections(t *testing.T) {
	f := newFixture(t)
	hq := f.generate(t, hqID)

	t.Run("outside radius", func(t *testing.T) {
		_, err := f.svc.Scan(janeCtx(), qrattendance.ScanRequest{QRData: hq.QRData, Latitude: ptr(-6.21), Longitude: ptr(106.8)})
		assert.ErrorIs(t, err, qrattendance.ErrOutsideRadius)
	})

	t.Run("coordinates required", func(t *testing.T) {
		_, err := f.svc.Scan(janeCtx(), qrattendance.ScanRequest{QRData: hq.QRData})
		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.ToMap(), "coordinates")
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := f.svc.Scan(janeCtx(), qrattendance.ScanRequest{QRData: "hello"})
		assert.ErrorIs(t, err, qrattendance.ErrInvalidQRToken)
	})

	t.Run("expired", func(t *testing.T) {
		defer f.at(8, 55)
		f.svc.now = func() time.Time { return hq.Payload.ExpiresAt.Add(time.Minute) }
		_, err := f.svc.Scan(janeCtx(), qrattendance.ScanRequest{QRData: hq.QRData, Latitude: ptr(-6.2), Longitude: ptr(106.8)})
		assert.ErrorIs(t, err, qrattendance.ErrQRExpired)
	})

	t.Run("already used", func(t *testing.T) {
		fresh, err := f.store.Consume(context.Background(), hq.Payload.Token, janeID, qrattendance.ActionClockIn, time.Hour)
		require.NoError(t, err)
		require.True(t, fresh)

		_, err = f.svc.Scan(janeCtx(), qrattendance.ScanRequest{QRData: hq.QRData, Latitude: ptr(-6.2), Longitude: ptr(106.8)})
		assert.ErrorIs(t, err, qrattendance.ErrQRAlreadyUsed)
	})

	t.Run("hr without employee profile", func(t *testing.T) {
		_, err := f.svc.Scan(hrCtx(), qrattendance.ScanRequest{QRData: hq.QRData})
		assert.Error(t, err)
	})

	assert.Zero(t, f.records.Len(), "no rejected scan may write attendance")
}

func TestQRAttendanceService_RejectedClockLeavesScanUsable(t *testing.T) {
	f := newFixture(t)
	code := f.generate(t, hqID)
	scan := qrattendance.ScanRequest{QRData: code.QRData, Latitude: ptr(-6.2), Longitude: ptr(106.8)}

	_, err := f.svc.Scan(janeCtx(), scan)
	require.NoError(t, err)

	// a second scan in the same minute is a clock-out at the check-in time
	_, err = f.svc.Scan(janeCtx(), scan)
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "check_out")

	f.at(17, 0)
	out, err := f.svc.Scan(janeCtx(), scan)
	require.NoError(t, err)
	assert.Equal(t, qrattendance.ActionClockOut, out.Action)
	require.NotNil(t, out.HoursWorked)
	assert.InDelta(t, 8.08, *out.HoursWorked, 0.01)

	// the committed clock-out is still one-time
	fresh, err := f.store.Consume(context.Background(), code.Payload.Token, janeID, qrattendance.ActionClockOut, time.Hour)
	require.NoError(t, err)
	assert.False(t, fresh)
}

func TestQRAttendanceService_HistoryIncludesManualRecords(t *testing.T) {
	f := newFixture(t)

	yesterday := time.Date(2024, 3, 3, 9, 0, 0, 0, wib)
	_, err := f.svc.attendance.ClockIn(janeCtx(), attendance.ClockEvent{EmployeeID: janeID, At: yesterday})
	require.NoError(t, err)
	_, err = f.svc.attendance.ClockOut(janeCtx(), attendance.ClockEvent{EmployeeID: janeID, At: yesterday.Add(8 * time.Hour)})
	require.NoError(t, err)

	code := f.generate(t, hqID)
	_, err = f.svc.Scan(janeCtx(), qrattendance.ScanRequest{QRData: code.QRData, Latitude: ptr(-6.2), Longitude: ptr(106.8)})
	require.NoError(t, err)

	history, err := f.svc.History(janeCtx(), attendance.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].IsQR)
	assert.False(t, history[1].IsQR)
	assert.Nil(t, history[1].LocationID)
}

func TestQRAttendanceService_ScanWithoutCoordinates(t *testing.T) {
	f := newFixture(t)
	branch := f.generate(t, branchID)

	resp, err := f.svc.Scan(janeCtx(), qrattendance.ScanRequest{QRData: branch.QRData})
	require.NoError(t, err)
	assert.Equal(t, qrattendance.ActionClockIn, resp.Action)
	assert.Equal(t, "Branch", resp.Location)
}

func TestQRAttendanceService_ValidateLocation(t *testing.T) {
	f := newFixture(t)

	near, err := f.svc.ValidateLocation(janeCtx(), qrattendance.ValidateLocationRequest{LocationID: hqID, Latitude: -6.2, Longitude: 106.8005})
	require.NoError(t, err)
	assert.True(t, near.IsWithinRadius)
	assert.InDelta(t, 55.5, near.DistanceMeters, 0.01)
	assert.Equal(t, 100, near.RequiredRadius)

	far, err := f.svc.ValidateLocation(janeCtx(), qrattendance.ValidateLocationRequest{LocationID: hqID, Latitude: -6.21, Longitude: 106.8})
	require.NoError(t, err)
	assert.False(t, far.IsWithinRadius)
	assert.NotEmpty(t, far.Message)

	nogps, err := f.svc.ValidateLocation(janeCtx(), qrattendance.ValidateLocationRequest{LocationID: branchID, Latitude: 1, Longitude: 1})
	require.NoError(t, err)
	assert.True(t, nogps.IsWithinRadius)
	assert.Zero(t, nogps.DistanceMeters)

	_, err = f.svc.ValidateLocation(janeCtx(), qrattendance.ValidateLocationRequest{LocationID: closedID, Latitude: 1, Longitude: 1})
	assert.ErrorIs(t, err, qrattendance.ErrInvalidLocation)
}
