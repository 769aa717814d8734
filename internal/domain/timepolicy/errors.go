package timepolicy

import "errors"

var (
	ErrOfficeHoursNotFound      = errors.New("office hours not found")
	ErrAttendancePolicyNotFound = errors.New("attendance policy not found")
	ErrNoDefaultOfficeHours     = errors.New("no default office hours configured")
	ErrNoDefaultPolicy          = errors.New("no default attendance policy configured")
	ErrInactive                 = errors.New("cannot set an inactive record as default")
)
