package report

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const DefaultRangeDays = 30

type DateRangeRequest struct {
	DateFrom string `json:"date_from"` // YYYY-MM-DD, defaults to 30 days before date_to
	DateTo   string `json:"date_to"`   // YYYY-MM-DD, defaults to today
}

// Range validates the request and returns the inclusive dates in loc.
func (r *DateRangeRequest) Range(now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	var errs validator.ValidationErrors

	today := now.In(loc)
	to := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
	if r.DateTo != "" {
		t, err := time.ParseInLocation("2006-01-02", r.DateTo, loc)
		if err != nil {
			errs.Add("date_to", "date_to must be in YYYY-MM-DD format")
		}
		to = t
	}

	from := to.AddDate(0, 0, -DefaultRangeDays)
	if r.DateFrom != "" {
		f, err := time.ParseInLocation("2006-01-02", r.DateFrom, loc)
		if err != nil {
			errs.Add("date_from", "date_from must be in YYYY-MM-DD format")
		}
		from = f
	}

	if err := errs.Err(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	if to.Sub(from) > 366*24*time.Hour {
		return time.Time{}, time.Time{}, ErrRangeTooLong
	}

	r.DateFrom = from.Format("2006-01-02")
	r.DateTo = to.Format("2006-01-02")
	return from, to, nil
}

// ========================================
// ATTENDANCE REPORT
// ========================================

type AttendanceReport struct {
	DateFrom        string `json:"date_from"`
	DateTo          string `json:"date_to"`
	GeneratedAt     string `json:"generated_at"`
	TotalDays       int    `json:"total_days"`
	TotalRecords    int    `json:"total_records"`
	LateArrivals    int    `json:"late_arrivals"`
	EarlyDepartures int    `json:"early_departures"`

	// DefaultOfficeHours is empty when lateness was judged against 09:00
	DefaultOfficeHours string `json:"default_office_hours,omitempty"`

	Employees []EmployeeAttendanceItem `json:"employees"`
}

type EmployeeAttendanceItem struct {
	EmployeeID    string  `json:"employee_id"`
	EmployeeCode  string  `json:"employee_code"`
	EmployeeName  string  `json:"employee_name"`
	Department    *string `json:"department,omitempty"`
	Present       int     `json:"present"`
	Late          int     `json:"late"`
	Absent        int     `json:"absent"`
	HalfDay       int     `json:"half_day"`
	TotalHours    float64 `json:"total_hours"`
	TotalOvertime float64 `json:"total_overtime"`
}

func NewEmployeeAttendanceItem(r EmployeeAttendanceRow) EmployeeAttendanceItem {
	return EmployeeAttendanceItem{
		EmployeeID:    r.EmployeeID,
		EmployeeCode:  r.EmployeeCode,
		EmployeeName:  r.EmployeeName,
		Department:    r.Department,
		Present:       r.Present,
		Late:          r.Late,
		Absent:        r.Absent,
		HalfDay:       r.HalfDay,
		TotalHours:    r.TotalHours,
		TotalOvertime: r.TotalOvertime,
	}
}

// ========================================
// PAYROLL REPORT
// ========================================

type PayrollReport struct {
	DateFrom         string          `json:"date_from"`
	DateTo           string          `json:"date_to"`
	GeneratedAt      string          `json:"generated_at"`
	TotalEmployees   int             `json:"total_employees"`
	TotalGrossPayout decimal.Decimal `json:"total_gross_payout"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	TotalNetPayout   decimal.Decimal `json:"total_net_payout"`
	Rows             []PayrollItem   `json:"rows"`
}

type PayrollItem struct {
	EmployeeID      string          `json:"employee_id"`
	EmployeeCode    string          `json:"employee_code"`
	EmployeeName    string          `json:"employee_name"`
	Department      *string         `json:"department,omitempty"`
	Status          string          `json:"status"`
	GrossSalary     decimal.Decimal `json:"gross_salary"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`
}
