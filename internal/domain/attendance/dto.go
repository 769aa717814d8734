package attendance

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timepolicy"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type AttendanceResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  *string `json:"employee_name,omitempty"`
	EmployeeCode  *string `json:"employee_code,omitempty"`
	Department    *string `json:"department,omitempty"`
	Date          string  `json:"date"`
	CheckIn       *string `json:"check_in,omitempty"`
	CheckOut      *string `json:"check_out,omitempty"`
	HoursWorked   float64 `json:"hours_worked"`
	OvertimeHours float64 `json:"overtime_hours"`
	Status        string  `json:"status"`
	Notes         *string `json:"notes,omitempty"`
	IsQR          bool    `json:"is_qr"`
	LocationID    *string `json:"location_id,omitempty"`
	State         string  `json:"state"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// NewAttendanceResponse renders clock times in loc.
func NewAttendanceResponse(a Attendance, loc *time.Location) AttendanceResponse {
	resp := AttendanceResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		EmployeeName:  a.EmployeeName,
		EmployeeCode:  a.EmployeeCode,
		Department:    a.Department,
		Date:          a.Date.Format("2006-01-02"),
		HoursWorked:   a.HoursWorked,
		OvertimeHours: a.OvertimeHours,
		Status:        string(a.Status),
		Notes:         a.Notes,
		IsQR:          a.IsQR,
		LocationID:    a.LocationID,
		State:         StateOf(&a).String(),
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     a.UpdatedAt.Format(time.RFC3339),
	}
	if a.CheckIn != nil {
		s := a.CheckIn.In(loc).Format(time.RFC3339)
		resp.CheckIn = &s
	}
	if a.CheckOut != nil {
		s := a.CheckOut.In(loc).Format(time.RFC3339)
		resp.CheckOut = &s
	}
	return resp
}

// ManualAttendanceRequest is admin/hr entry of a full day's record.
type ManualAttendanceRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required,uuid"`
	Date       string  `json:"date" validate:"required,date"`
	CheckIn    *string `json:"check_in,omitempty" validate:"omitempty,clock"`
	CheckOut   *string `json:"check_out,omitempty" validate:"omitempty,clock"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=present absent late half_day"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

func (r *ManualAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = fieldErrs
	}
	validateClockPair(&errs, r.CheckIn, r.CheckOut)
	if r.CheckIn == nil && (r.Status == nil || Status(*r.Status) != StatusAbsent) {
		errs.Add("check_in", "check_in is required unless status is absent")
	}
	return errs.Err()
}

// Times resolves the request's date and clock strings in loc. Call after
// Validate.
func (r *ManualAttendanceRequest) Times(loc *time.Location) (date time.Time, in, out *time.Time) {
	return resolveTimes(r.Date, r.CheckIn, r.CheckOut, loc)
}

// UpdateAttendanceRequest for admin/hr to correct a record.
type UpdateAttendanceRequest struct {
	ID       string  `json:"-"`
	CheckIn  *string `json:"check_in,omitempty" validate:"omitempty,clock"`
	CheckOut *string `json:"check_out,omitempty" validate:"omitempty,clock"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=present absent late half_day"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = fieldErrs
	}
	if r.CheckIn != nil && r.CheckOut != nil {
		validateClockPair(&errs, r.CheckIn, r.CheckOut)
	}
	return errs.Err()
}

func validateClockPair(errs *validator.ValidationErrors, in, out *string) {
	if out == nil {
		return
	}
	if in == nil {
		errs.Add("check_out", "check_out requires check_in")
		return
	}
	inMin, okIn := validator.ParseClock(*in)
	outMin, okOut := validator.ParseClock(*out)
	if okIn && okOut && outMin <= inMin {
		errs.Add("check_out", "check_out must be after check_in")
	}
}

func resolveTimes(dateStr string, in, out *string, loc *time.Location) (time.Time, *time.Time, *time.Time) {
	d, _ := time.ParseInLocation("2006-01-02", dateStr, loc)
	at := func(s *string) *time.Time {
		if s == nil {
			return nil
		}
		t := timepolicy.MustClockTime(*s).On(d)
		return &t
	}
	return d, at(in), at(out)
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Department *string `json:"department,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`
	pagination.Params
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors
	f.Normalize(&errs)

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, Statuses) {
		errs.Add("status", "status must be one of: present, absent, late, half_day")
	}

	var start, end time.Time
	if f.StartDate != nil {
		var ok bool
		if start, ok = validator.IsValidDate(*f.StartDate); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != nil {
		var ok bool
		if end, ok = validator.IsValidDate(*f.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs.Add("end_date", "end_date must not be before start_date")
	}

	return errs.Err()
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

const (
	DefaultHistoryLimit = 30
	MaxHistoryLimit     = 365
)

type HistoryFilter struct {
	// EmployeeID defaults to the caller's own employee profile
	EmployeeID *string `json:"employee_id,omitempty"`
	Limit      int     `json:"limit"`
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if f.Limit < 0 || f.Limit > MaxHistoryLimit {
		errs.Add("limit", "limit must be between 1 and 365")
	}
	if f.Limit == 0 {
		f.Limit = DefaultHistoryLimit
	}
	return errs.Err()
}

// ========================================
// ATTENDANCE STATUS DTOs
// ========================================

type StatusResponse struct {
	Date        string              `json:"date"`
	State       string              `json:"state"`
	CanClockIn  bool                `json:"can_clock_in"`
	CanClockOut bool                `json:"can_clock_out"`
	Attendance  *AttendanceResponse `json:"attendance,omitempty"`
}

type StatsRequest struct {
	Month string `json:"month"` // YYYY-MM, defaults to the current month
}

// Range returns [first day of month, first day of next month) in loc.
func (r *StatsRequest) Range(now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	if r.Month == "" {
		now = now.In(loc)
		r.Month = now.Format("2006-01")
	}
	start, err := time.ParseInLocation("2006-01", r.Month, loc)
	if err != nil {
		return time.Time{}, time.Time{}, validator.ValidationErrors{{Field: "month", Message: "month must be in YYYY-MM format"}}
	}
	return start, start.AddDate(0, 1, 0), nil
}

type StatsResponse struct {
	Month         string  `json:"month"`
	Present       int64   `json:"present"`
	Late          int64   `json:"late"`
	Absent        int64   `json:"absent"`
	HalfDay       int64   `json:"half_day"`
	TotalHours    float64 `json:"total_hours"`
	TotalOvertime float64 `json:"total_overtime"`
}
