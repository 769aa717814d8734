package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClockRecord is the minimum of an attendance record needed to re-classify it.
type ClockRecord struct {
	EmployeeID string
	Date       time.Time
	CheckIn    *time.Time
	CheckOut   *time.Time
}

type EmployeeAttendanceRow struct {
	EmployeeID    string
	EmployeeCode  string
	EmployeeName  string
	Department    *string
	Present       int
	Late          int
	Absent        int
	HalfDay       int
	TotalHours    float64
	TotalOvertime float64
}

type PayrollRow struct {
	EmployeeID      string
	EmployeeCode    string
	EmployeeName    string
	Department      *string
	Status          string
	GrossSalary     decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
}
