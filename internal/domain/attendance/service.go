package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// ClockIn moves the employee's record for the event date from no-record
	// to clocked-in
	ClockIn(ctx context.Context, ev ClockEvent) (Attendance, error)

	// ClockOut moves the employee's record for the event date from
	// clocked-in to clocked-out and computes hours and overtime
	ClockOut(ctx context.Context, ev ClockEvent) (Attendance, error)

	// Today returns the record of ev.EmployeeID for the date of ev.At, or nil
	Today(ctx context.Context, ev ClockEvent) (*Attendance, error)

	// Status reports the caller's clock state for today
	Status(ctx context.Context) (StatusResponse, error)

	// History lists the latest records of an employee; employees only see their own
	History(ctx context.Context, filter HistoryFilter) ([]AttendanceResponse, error)

	List(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// CreateManual records attendance entered by admin/hr
	CreateManual(ctx context.Context, req ManualAttendanceRequest) (AttendanceResponse, error)

	// Update corrects a record and recomputes hours through Classify
	Update(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)

	Delete(ctx context.Context, id string) error

	Stats(ctx context.Context, req StatsRequest) (StatsResponse, error)
}
