package attendance

import "errors"

// Attendance domain errors
var (
	// Clock state errors
	ErrAlreadyClockedIn  = errors.New("already clocked in today")
	ErrNotClockedIn      = errors.New("please clock in first")
	ErrAlreadyClockedOut = errors.New("already clocked out today")

	ErrAttendanceExists   = errors.New("attendance already recorded for this date")
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
