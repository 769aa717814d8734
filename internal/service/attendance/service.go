package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timepolicy"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	officeHours timepolicy.OfficeHoursRepository
	employees   employee.EmployeeRepository
	loc         *time.Location
	now         func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepository attendance.AttendanceRepository,
	officeHoursRepository timepolicy.OfficeHoursRepository,
	employeeRepository employee.EmployeeRepository,
	loc *time.Location,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepository,
		officeHours:          officeHoursRepository,
		employees:            employeeRepository,
		loc:                  loc,
		now:                  time.Now,
	}
}

// dateOf is the calendar date of t in the business time zone, as local midnight.
func (a *AttendanceServiceImpl) dateOf(t time.Time) time.Time {
	t = t.In(a.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, a.loc)
}

// defaultOfficeHours returns nil when none are configured.
func (a *AttendanceServiceImpl) defaultOfficeHours(ctx context.Context) (*timepolicy.OfficeHours, error) {
	oh, err := a.officeHours.GetDefault(ctx)
	if err != nil {
		if errors.Is(err, timepolicy.ErrNoDefaultOfficeHours) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get default office hours: %w", err)
	}
	return &oh, nil
}

// requireClocker checks that the caller may clock for ev.EmployeeID.
func requireClocker(ctx context.Context, employeeID string) error {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	if err := p.Require(user.PermissionAttendanceClock); err != nil {
		return err
	}
	own, err := p.RequireEmployee()
	if err != nil {
		return err
	}
	if own != employeeID {
		return user.ErrInsufficientPermissions
	}
	return nil
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, ev attendance.ClockEvent) (attendance.Attendance, error) {
	if err := requireClocker(ctx, ev.EmployeeID); err != nil {
		return attendance.Attendance{}, err
	}
	at := ev.At.In(a.loc)
	date := a.dateOf(at)

	oh, err := a.defaultOfficeHours(ctx)
	if err != nil {
		return attendance.Attendance{}, err
	}

	var result attendance.Attendance
	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := a.AttendanceRepository.LockByEmployeeAndDate(txCtx, ev.EmployeeID, date)
		if err != nil {
			return fmt.Errorf("failed to load attendance: %w", err)
		}
		if attendance.StateOf(existing) != attendance.StateNoRecord {
			return attendance.ErrAlreadyClockedIn
		}

		c := attendance.Classify(at, nil, oh)
		note := attendance.ClockInNote(c, ev.Via)

		record := attendance.Attendance{
			EmployeeID: ev.EmployeeID,
			Date:       date,
			CheckIn:    &at,
			Status:     c.Status,
			Notes:      attendance.AppendNote(nil, note),
		}
		if ev.Via != nil {
			record.IsQR = true
			record.LocationID = &ev.Via.LocationID
		}

		// A record without check-in (e.g. a manual absence) is taken over
		if existing != nil {
			record.ID = existing.ID
			record.Notes = attendance.AppendNote(existing.Notes, note)
			result, err = a.AttendanceRepository.Update(txCtx, record)
			return err
		}

		result, err = a.AttendanceRepository.Create(txCtx, record)
		if errors.Is(err, attendance.ErrAttendanceExists) {
			return attendance.ErrAlreadyClockedIn
		}
		return err
	})
	if err != nil {
		return attendance.Attendance{}, err
	}

	slog.InfoContext(ctx, "clocked in", "employee_id", ev.EmployeeID, "status", result.Status, "qr", ev.Via != nil)
	return result, nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, ev attendance.ClockEvent) (attendance.Attendance, error) {
	if err := requireClocker(ctx, ev.EmployeeID); err != nil {
		return attendance.Attendance{}, err
	}
	at := ev.At.In(a.loc)
	date := a.dateOf(at)

	oh, err := a.defaultOfficeHours(ctx)
	if err != nil {
		return attendance.Attendance{}, err
	}

	var result attendance.Attendance
	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := a.AttendanceRepository.LockByEmployeeAndDate(txCtx, ev.EmployeeID, date)
		if err != nil {
			return fmt.Errorf("failed to load attendance: %w", err)
		}
		switch attendance.StateOf(existing) {
		case attendance.StateNoRecord:
			return attendance.ErrNotClockedIn
		case attendance.StateClockedOut:
			return attendance.ErrAlreadyClockedOut
		}

		checkIn := existing.CheckIn.In(a.loc)
		if !at.After(checkIn) {
			return validator.ValidationErrors{{Field: "check_out", Message: "check_out must be after check_in"}}
		}

		c := attendance.Classify(checkIn, &at, oh)
		record := *existing
		record.CheckOut = &at
		record.HoursWorked = c.HoursWorked
		record.OvertimeHours = c.OvertimeHours
		record.Notes = attendance.AppendNote(existing.Notes, attendance.ClockOutNote(c, ev.Via))
		if ev.Via != nil {
			record.IsQR = true
			record.LocationID = &ev.Via.LocationID
		}

		result, err = a.AttendanceRepository.Update(txCtx, record)
		return err
	})
	if err != nil {
		return attendance.Attendance{}, err
	}

	slog.InfoContext(ctx, "clocked out", "employee_id", ev.EmployeeID, "hours", result.HoursWorked, "qr", ev.Via != nil)
	return result, nil
}

// Today implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Today(ctx context.Context, ev attendance.ClockEvent) (*attendance.Attendance, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !p.IsEmployee(ev.EmployeeID) && !p.Can(user.PermissionAttendanceViewAll) {
		return nil, user.ErrInsufficientPermissions
	}
	return a.AttendanceRepository.GetByEmployeeAndDate(ctx, ev.EmployeeID, a.dateOf(ev.At))
}

// Status implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Status(ctx context.Context) (attendance.StatusResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.StatusResponse{}, err
	}
	employeeID, err := p.RequireEmployee()
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	date := a.dateOf(a.now())
	record, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return attendance.StatusResponse{}, fmt.Errorf("failed to load attendance: %w", err)
	}

	state := attendance.StateOf(record)
	resp := attendance.StatusResponse{
		Date:        date.Format("2006-01-02"),
		State:       state.String(),
		CanClockIn:  state == attendance.StateNoRecord,
		CanClockOut: state == attendance.StateClockedIn,
	}
	if record != nil {
		r := attendance.NewAttendanceResponse(*record, a.loc)
		resp.Attendance = &r
	}
	return resp, nil
}

// History implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) History(ctx context.Context, filter attendance.HistoryFilter) ([]attendance.AttendanceResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var employeeID string
	if filter.EmployeeID != nil && !p.IsEmployee(*filter.EmployeeID) {
		if err := p.Require(user.PermissionAttendanceViewAll); err != nil {
			return nil, err
		}
		employeeID = *filter.EmployeeID
	} else {
		if err := p.Require(user.PermissionAttendanceViewOwn); err != nil {
			return nil, err
		}
		if employeeID, err = p.RequireEmployee(); err != nil {
			return nil, err
		}
	}

	records, err := a.AttendanceRepository.History(ctx, employeeID, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance history: %w", err)
	}
	return a.responses(records), nil
}

func (a *AttendanceServiceImpl) responses(records []attendance.Attendance) []attendance.AttendanceResponse {
	resp := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, attendance.NewAttendanceResponse(r, a.loc))
	}
	return resp
}

// List implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if err := p.Require(user.PermissionAttendanceViewAll); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  filter.TotalPages(total),
		Attendances: a.responses(records),
	}, nil
}

// CreateManual implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CreateManual(ctx context.Context, req attendance.ManualAttendanceRequest) (attendance.AttendanceResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := p.Require(user.PermissionAttendanceManage); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if _, err := a.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	oh, err := a.defaultOfficeHours(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, in, out := req.Times(a.loc)
	record := attendance.Attendance{
		EmployeeID: req.EmployeeID,
		Date:       date,
		CheckIn:    in,
		CheckOut:   out,
		Status:     attendance.StatusAbsent,
		Notes:      req.Notes,
	}
	if in != nil {
		c := attendance.Classify(*in, out, oh)
		record.Status = c.Status
		record.HoursWorked = c.HoursWorked
		record.OvertimeHours = c.OvertimeHours
		if req.Notes == nil {
			record.Notes = attendance.AppendNote(attendance.AppendNote(nil, c.LateNote()), c.EarlyNote())
		}
	}
	if req.Status != nil {
		record.Status = attendance.Status(*req.Status)
	}

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.InfoContext(ctx, "manual attendance recorded", "employee_id", req.EmployeeID, "date", req.Date, "by", p.UserID)
	return attendance.NewAttendanceResponse(created, a.loc), nil
}

// Update implements attendance.AttendanceService. Clock strings are applied on
// the record's own date.
func (a *AttendanceServiceImpl) Update(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := p.Require(user.PermissionAttendanceManage); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	oh, err := a.defaultOfficeHours(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var result attendance.Attendance
	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		record, err := a.AttendanceRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		day := time.Date(record.Date.Year(), record.Date.Month(), record.Date.Day(), 0, 0, 0, 0, a.loc)
		if req.CheckIn != nil {
			t := timepolicy.MustClockTime(*req.CheckIn).On(day)
			record.CheckIn = &t
		}
		if req.CheckOut != nil {
			t := timepolicy.MustClockTime(*req.CheckOut).On(day)
			record.CheckOut = &t
		}

		switch {
		case record.CheckIn == nil && record.CheckOut != nil:
			return validator.ValidationErrors{{Field: "check_out", Message: "check_out requires check_in"}}
		case record.CheckIn != nil && record.CheckOut != nil && !record.CheckOut.After(*record.CheckIn):
			return validator.ValidationErrors{{Field: "check_out", Message: "check_out must be after check_in"}}
		}

		if record.CheckIn != nil {
			c := attendance.Classify(record.CheckIn.In(a.loc), inLoc(record.CheckOut, a.loc), oh)
			record.Status = c.Status
			record.HoursWorked = c.HoursWorked
			record.OvertimeHours = c.OvertimeHours
		}
		if req.Status != nil {
			record.Status = attendance.Status(*req.Status)
		}
		if req.Notes != nil {
			record.Notes = req.Notes
		}

		result, err = a.AttendanceRepository.Update(txCtx, record)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(result, a.loc), nil
}

func inLoc(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	v := t.In(loc)
	return &v
}

// Delete implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Delete(ctx context.Context, id string) error {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	if err := p.Require(user.PermissionAttendanceDelete); err != nil {
		return err
	}
	if err := a.AttendanceRepository.Delete(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "attendance deleted", "attendance_id", id, "by", p.UserID)
	return nil
}

// Stats implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Stats(ctx context.Context, req attendance.StatsRequest) (attendance.StatsResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.StatsResponse{}, err
	}
	if err := p.Require(user.PermissionAttendanceViewAll); err != nil {
		return attendance.StatsResponse{}, err
	}

	from, to, err := req.Range(a.now(), a.loc)
	if err != nil {
		return attendance.StatsResponse{}, err
	}
	stats, err := a.AttendanceRepository.Stats(ctx, from, to)
	if err != nil {
		return attendance.StatsResponse{}, fmt.Errorf("failed to compute attendance stats: %w", err)
	}

	return attendance.StatsResponse{
		Month:         req.Month,
		Present:       stats.Present,
		Late:          stats.Late,
		Absent:        stats.Absent,
		HalfDay:       stats.HalfDay,
		TotalHours:    stats.TotalHours,
		TotalOvertime: stats.TotalOvertime,
	}, nil
}
