package location

import "errors"

var (
	ErrLocationNotFound = errors.New("office location not found")
	ErrLocationInactive = errors.New("office location is inactive")
)
