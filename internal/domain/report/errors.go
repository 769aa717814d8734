package report

import "errors"

var (
	ErrInvalidDateRange = errors.New("date_to must not be before date_from")
	ErrRangeTooLong     = errors.New("report range must not exceed 366 days")
)
