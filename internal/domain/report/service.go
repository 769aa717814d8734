package report

import "context"

// ReportService defines the interface for report generation
type ReportService interface {
	// AttendanceReport summarises attendance over a date range, re-checking
	// late arrivals and early departures against the default office hours
	AttendanceReport(ctx context.Context, req DateRangeRequest) (AttendanceReport, error)

	PayrollReport(ctx context.Context, req DateRangeRequest) (PayrollReport, error)
}
