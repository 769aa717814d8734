package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
)

var Statuses = []string{string(StatusPresent), string(StatusAbsent), string(StatusLate), string(StatusHalfDay)}

// State is the clock state of one employee on one calendar date.
type State int

const (
	StateNoRecord State = iota
	StateClockedIn
	StateClockedOut
)

func (s State) String() string {
	switch s {
	case StateClockedIn:
		return "clocked_in"
	case StateClockedOut:
		return "clocked_out"
	default:
		return "no_record"
	}
}

type Attendance struct {
	ID            string
	EmployeeID    string
	Date          time.Time
	CheckIn       *time.Time
	CheckOut      *time.Time
	HoursWorked   float64
	OvertimeHours float64
	Status        Status
	Notes         *string
	IsQR          bool
	LocationID    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined from employees
	EmployeeName *string
	EmployeeCode *string
	Department   *string
}

// StateOf reports the clock state of a record; a nil record or one with no
// check-in (e.g. a manual absence) has not been clocked into yet.
func StateOf(a *Attendance) State {
	switch {
	case a == nil || a.CheckIn == nil:
		return StateNoRecord
	case a.CheckOut == nil:
		return StateClockedIn
	default:
		return StateClockedOut
	}
}

// ClockEvent is one clock-in or clock-out instant. Via is set when the event
// came from a scanned QR code.
type ClockEvent struct {
	EmployeeID string
	At         time.Time
	Via        *QRSource
}

type QRSource struct {
	LocationID   string
	LocationName string
}

// Stats aggregates attendance over a date range.
type Stats struct {
	Present       int64
	Late          int64
	Absent        int64
	HalfDay       int64
	TotalHours    float64
	TotalOvertime float64
}
