package payroll

import "context"

type PayrollService interface {
	// Create processes a single payroll with explicit amounts
	Create(ctx context.Context, req CreatePayrollRequest) (PayrollResponse, error)

	// BulkProcess processes every active (or every listed) employee for a
	// period using the default rates, skipping those already processed
	BulkProcess(ctx context.Context, req BulkProcessRequest) (BulkProcessResponse, error)

	Get(ctx context.Context, id string) (PayrollResponse, error)
	List(ctx context.Context, filter PayrollFilter) (ListPayrollResponse, error)
	MarkPaid(ctx context.Context, id string) (PayrollResponse, error)
	Summary(ctx context.Context, req SummaryRequest) (SummaryResponse, error)
}
