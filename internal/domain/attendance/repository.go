package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create returns ErrAttendanceExists when (employee_id, date) is taken
	Create(ctx context.Context, a Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns nil when there is no record for the date
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// LockByEmployeeAndDate is GetByEmployeeAndDate with a row lock held
	// until the surrounding transaction ends
	LockByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	Update(ctx context.Context, a Attendance) (Attendance, error)
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// History returns the latest records of one employee, newest first
	History(ctx context.Context, employeeID string, limit int) ([]Attendance, error)

	Stats(ctx context.Context, from, to time.Time) (Stats, error)
}
