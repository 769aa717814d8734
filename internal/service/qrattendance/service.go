package qrattendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/location"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/qrattendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/qrcode"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type QRAttendanceServiceImpl struct {
	locations  location.LocationRepository
	store      qrattendance.TokenStore
	attendance attendance.AttendanceService
	validity   time.Duration
	distance   utils.DistanceFunc
	loc        *time.Location
	now        func() time.Time
}

func NewQRAttendanceService(
	locationRepository location.LocationRepository,
	store qrattendance.TokenStore,
	attendanceService attendance.AttendanceService,
	validity time.Duration,
	loc *time.Location,
) qrattendance.QRAttendanceService {
	if validity <= 0 {
		validity = qrattendance.DefaultValidity
	}
	return &QRAttendanceServiceImpl{
		locations:  locationRepository,
		store:      store,
		attendance: attendanceService,
		validity:   validity,
		distance:   utils.PlanarDistance,
		loc:        loc,
		now:        time.Now,
	}
}

// activeLocation maps missing and inactive locations to ErrInvalidLocation.
func (s *QRAttendanceServiceImpl) activeLocation(ctx context.Context, id string) (location.OfficeLocation, error) {
	l, err := s.locations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, location.ErrLocationNotFound) {
			return location.OfficeLocation{}, qrattendance.ErrInvalidLocation
		}
		return location.OfficeLocation{}, fmt.Errorf("failed to get location: %w", err)
	}
	if !l.IsActive {
		return location.OfficeLocation{}, qrattendance.ErrInvalidLocation
	}
	return l, nil
}

// Generate implements qrattendance.QRAttendanceService.
func (s *QRAttendanceServiceImpl) Generate(ctx context.Context, req qrattendance.GenerateRequest) (qrattendance.GenerateResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return qrattendance.GenerateResponse{}, err
	}
	if err := p.Require(user.PermissionQRGenerate); err != nil {
		return qrattendance.GenerateResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return qrattendance.GenerateResponse{}, err
	}

	l, err := s.activeLocation(ctx, req.LocationID)
	if err != nil {
		return qrattendance.GenerateResponse{}, err
	}

	validity := s.validity
	if req.ValidityMinutes != nil {
		validity = time.Duration(*req.ValidityMinutes) * time.Minute
	}

	issuedAt := s.now().In(s.loc)
	payload := qrattendance.Payload{
		LocationID:   l.ID,
		LocationName: l.Name,
		IssuedAt:     issuedAt,
		ExpiresAt:    issuedAt.Add(validity),
		Token:        uuid.NewString(),
	}
	if err := s.store.Issue(ctx, payload.Token, l.ID, validity); err != nil {
		return qrattendance.GenerateResponse{}, err
	}

	raw, err := payload.Encode()
	if err != nil {
		return qrattendance.GenerateResponse{}, fmt.Errorf("failed to encode qr payload: %w", err)
	}
	image, err := qrcode.PNGBase64(raw, qrcode.DefaultSize)
	if err != nil {
		return qrattendance.GenerateResponse{}, err
	}

	slog.InfoContext(ctx, "qr code generated", "location_id", l.ID, "expires_at", payload.ExpiresAt, "by", p.UserID)
	return qrattendance.GenerateResponse{Payload: payload, QRData: raw, ImagePNG: image}, nil
}

// ValidatePayload implements qrattendance.QRAttendanceService.
func (s *QRAttendanceServiceImpl) ValidatePayload(ctx context.Context, payload qrattendance.Payload, now time.Time) (string, error) {
	l, _, err := s.validate(ctx, payload, now)
	if err != nil {
		return "", err
	}
	return l.ID, nil
}

// validate also returns the remaining lifetime of the token.
func (s *QRAttendanceServiceImpl) validate(ctx context.Context, payload qrattendance.Payload, now time.Time) (location.OfficeLocation, time.Duration, error) {
	// An expired code is rejected whatever state its location is in
	if err := payload.CheckFreshness(now); err != nil {
		return location.OfficeLocation{}, 0, err
	}

	l, err := s.activeLocation(ctx, payload.LocationID)
	if err != nil {
		return location.OfficeLocation{}, 0, err
	}

	issuedFor, ttl, err := s.store.Lookup(ctx, payload.Token)
	if err != nil {
		return location.OfficeLocation{}, 0, err
	}
	if issuedFor != l.ID {
		return location.OfficeLocation{}, 0, qrattendance.ErrInvalidQRToken
	}
	return l, ttl, nil
}

// Scan implements qrattendance.QRAttendanceService.
func (s *QRAttendanceServiceImpl) Scan(ctx context.Context, req qrattendance.ScanRequest) (qrattendance.ScanResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return qrattendance.ScanResponse{}, err
	}
	if err := p.Require(user.PermissionQRScan); err != nil {
		return qrattendance.ScanResponse{}, err
	}
	employeeID, err := p.RequireEmployee()
	if err != nil {
		return qrattendance.ScanResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return qrattendance.ScanResponse{}, err
	}

	payload, err := qrattendance.ParsePayload(req.QRData)
	if err != nil {
		return qrattendance.ScanResponse{}, err
	}

	now := s.now().In(s.loc)
	l, ttl, err := s.validate(ctx, payload, now)
	if err != nil {
		return qrattendance.ScanResponse{}, err
	}

	if l.HasCoordinates() {
		if req.Latitude == nil {
			return qrattendance.ScanResponse{}, validator.ValidationErrors{{Field: "coordinates", Message: "latitude and longitude are required for this location"}}
		}
		check := l.CheckDistance(*req.Latitude, *req.Longitude, s.distance)
		if !check.IsWithinRadius {
			slog.InfoContext(ctx, "qr scan outside radius", "employee_id", employeeID, "location_id", l.ID, "distance", check.DistanceMeters)
			return qrattendance.ScanResponse{}, qrattendance.ErrOutsideRadius
		}
	}

	ev := attendance.ClockEvent{
		EmployeeID: employeeID,
		At:         now,
		Via:        &attendance.QRSource{LocationID: l.ID, LocationName: l.Name},
	}
	today, err := s.attendance.Today(ctx, ev)
	if err != nil {
		return qrattendance.ScanResponse{}, err
	}

	var action qrattendance.Action
	switch attendance.StateOf(today) {
	case attendance.StateNoRecord:
		action = qrattendance.ActionClockIn
	case attendance.StateClockedIn:
		action = qrattendance.ActionClockOut
	default:
		return qrattendance.ScanResponse{}, attendance.ErrAlreadyClockedOut
	}

	fresh, err := s.store.Consume(ctx, payload.Token, employeeID, action, ttl)
	if err != nil {
		return qrattendance.ScanResponse{}, err
	}
	if !fresh {
		return qrattendance.ScanResponse{}, qrattendance.ErrQRAlreadyUsed
	}

	var record attendance.Attendance
	if action == qrattendance.ActionClockIn {
		record, err = s.attendance.ClockIn(ctx, ev)
	} else {
		record, err = s.attendance.ClockOut(ctx, ev)
	}
	if err != nil {
		// the scan stays usable when the clock event was rejected
		if relErr := s.store.Release(context.WithoutCancel(ctx), payload.Token, employeeID, action); relErr != nil {
			slog.ErrorContext(ctx, "failed to release qr scan", "error", relErr, "employee_id", employeeID, "action", action)
		}
		return qrattendance.ScanResponse{}, err
	}

	resp := qrattendance.NewScanResponse(action, now, l.Name, string(record.Status))
	resp.Notes = record.Notes
	if action == qrattendance.ActionClockOut {
		resp.HoursWorked = &record.HoursWorked
		resp.OvertimeHours = &record.OvertimeHours
	}
	return resp, nil
}

// ValidateLocation implements qrattendance.QRAttendanceService.
func (s *QRAttendanceServiceImpl) ValidateLocation(ctx context.Context, req qrattendance.ValidateLocationRequest) (qrattendance.ValidateLocationResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return qrattendance.ValidateLocationResponse{}, err
	}
	if err := p.Require(user.PermissionQRScan); err != nil {
		return qrattendance.ValidateLocationResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return qrattendance.ValidateLocationResponse{}, err
	}

	l, err := s.activeLocation(ctx, req.LocationID)
	if err != nil {
		return qrattendance.ValidateLocationResponse{}, err
	}

	check := l.CheckDistance(req.Latitude, req.Longitude, s.distance)
	resp := qrattendance.ValidateLocationResponse{
		IsWithinRadius: check.IsWithinRadius,
		DistanceMeters: check.DistanceMeters,
		RequiredRadius: check.RadiusMeters,
		LocationName:   l.Name,
	}
	switch {
	case !check.GPSRequired:
		resp.Message = "location has no coordinates; GPS check skipped"
	case !check.IsWithinRadius:
		resp.Message = fmt.Sprintf("%.0f meters away, must be within %d meters", check.DistanceMeters, check.RadiusMeters)
	}
	return resp, nil
}

// History implements qrattendance.QRAttendanceService. Manual and QR
// records are both returned; is_qr and location_id tell them apart.
func (s *QRAttendanceServiceImpl) History(ctx context.Context, filter attendance.HistoryFilter) ([]attendance.AttendanceResponse, error) {
	return s.attendance.History(ctx, filter)
}
