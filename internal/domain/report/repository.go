package report

import (
	"context"
	"time"
)

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	// AttendanceByEmployee aggregates attendance per active employee over [from, to]
	AttendanceByEmployee(ctx context.Context, from, to time.Time) ([]EmployeeAttendanceRow, error)

	// ClockRecords returns every record with a check-in over [from, to]
	ClockRecords(ctx context.Context, from, to time.Time) ([]ClockRecord, error)

	// PayrollRows returns payrolls whose period lies within [from, to]
	PayrollRows(ctx context.Context, from, to time.Time) ([]PayrollRow, error)
}
