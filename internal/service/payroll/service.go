package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timepolicy"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	tx database.Transactor
	payroll.PayrollRepository
	employees employee.EmployeeRepository
	policies  timepolicy.AttendancePolicyRepository
	// fallbackRates apply when no default attendance policy exists
	fallbackRates payroll.Rates
	now           func() time.Time
}

func NewPayrollService(
	tx database.Transactor,
	payrollRepository payroll.PayrollRepository,
	employeeRepository employee.EmployeeRepository,
	policyRepository timepolicy.AttendancePolicyRepository,
	fallbackRates payroll.Rates,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		tx:                tx,
		PayrollRepository: payrollRepository,
		employees:         employeeRepository,
		policies:          policyRepository,
		fallbackRates:     fallbackRates,
		now:               time.Now,
	}
}

func requireManage(ctx context.Context) (user.Principal, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return user.Principal{}, err
	}
	return p, p.Require(user.PermissionPayrollManage)
}

// Create implements payroll.PayrollService.
func (s *PayrollServiceImpl) Create(ctx context.Context, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
	p, err := requireManage(ctx)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return payroll.PayrollResponse{}, payroll.ErrEmployeeNotFound
		}
		return payroll.PayrollResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	basic := emp.Salary
	if req.BasicSalary != nil {
		basic = *req.BasicSalary
	}

	record := s.processed(p, emp.ID, req.Period(), payroll.Compute(req.Components(basic)))
	record.Notes = req.Notes

	created, err := s.PayrollRepository.Create(ctx, record)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	slog.InfoContext(ctx, "payroll processed", "payroll_id", created.ID, "employee_id", emp.ID, "net", created.NetSalary.String())
	return payroll.NewPayrollResponse(created), nil
}

func (s *PayrollServiceImpl) processed(p user.Principal, employeeID string, period payroll.Period, b payroll.Breakdown) payroll.Payroll {
	processedAt := s.now()
	record := payroll.Payroll{
		EmployeeID:     employeeID,
		PayPeriodStart: period.Start,
		PayPeriodEnd:   period.End,
		Status:         payroll.PayrollStatusProcessed,
		ProcessedBy:    &p.UserID,
		ProcessedAt:    &processedAt,
	}
	record.Apply(b)
	return record
}

// rates returns the default policy's rates, or the configured fallback.
func (s *PayrollServiceImpl) rates(ctx context.Context) (payroll.Rates, error) {
	policy, err := s.policies.GetDefault(ctx)
	if err != nil {
		if errors.Is(err, timepolicy.ErrNoDefaultPolicy) {
			return s.fallbackRates, nil
		}
		return payroll.Rates{}, fmt.Errorf("failed to get default policy: %w", err)
	}
	return payroll.Rates{
		AllowanceRate: policy.AllowanceRate,
		TaxRate:       policy.TaxRate,
		PensionRate:   policy.PensionRate,
	}, nil
}

// BulkProcess implements payroll.PayrollService. Inactive or unknown listed
// employees and those already paid for the period are skipped.
func (s *PayrollServiceImpl) BulkProcess(ctx context.Context, req payroll.BulkProcessRequest) (payroll.BulkProcessResponse, error) {
	p, err := requireManage(ctx)
	if err != nil {
		return payroll.BulkProcessResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.BulkProcessResponse{}, err
	}
	period := req.Period()
	employeeIDs := dedupe(req.EmployeeIDs)

	rates, err := s.rates(ctx)
	if err != nil {
		return payroll.BulkProcessResponse{}, err
	}

	resp := payroll.BulkProcessResponse{TotalNet: decimal.Zero}
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var candidates []employee.Employee
		if len(employeeIDs) == 0 {
			candidates, err = s.employees.ListActive(txCtx)
		} else {
			candidates, err = s.employees.GetByIDs(txCtx, employeeIDs)
		}
		if err != nil {
			return fmt.Errorf("failed to load employees: %w", err)
		}

		active := candidates[:0]
		for _, e := range candidates {
			if e.IsActive {
				active = append(active, e)
			}
		}
		if len(active) == 0 {
			return payroll.ErrNoEmployeesToProcess
		}
		if len(employeeIDs) > 0 {
			resp.Skipped = len(employeeIDs) - len(active)
		}

		ids := make([]string, len(active))
		for i, e := range active {
			ids[i] = e.ID
		}
		done, err := s.PayrollRepository.EmployeesWithPayroll(txCtx, period, ids)
		if err != nil {
			return fmt.Errorf("failed to check existing payrolls: %w", err)
		}

		for _, e := range active {
			if done[e.ID] {
				resp.Skipped++
				continue
			}
			created, err := s.PayrollRepository.Create(txCtx, s.processed(p, e.ID, period, payroll.ComputeWithRates(e.Salary, rates)))
			if err != nil {
				return fmt.Errorf("failed to process payroll for %s: %w", e.EmployeeCode, err)
			}
			resp.Processed++
			resp.TotalNet = resp.TotalNet.Add(created.NetSalary)
		}
		return nil
	})
	if err != nil {
		return payroll.BulkProcessResponse{}, err
	}

	slog.InfoContext(ctx, "bulk payroll processed", "processed", resp.Processed, "skipped", resp.Skipped, "total_net", resp.TotalNet.String())
	return resp, nil
}

// Get implements payroll.PayrollService.
func (s *PayrollServiceImpl) Get(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	record, err := s.PayrollRepository.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if !p.Can(user.PermissionPayrollManage) && !(p.Can(user.PermissionPayrollViewOwn) && p.IsEmployee(record.EmployeeID)) {
		return payroll.PayrollResponse{}, user.ErrInsufficientPermissions
	}
	return payroll.NewPayrollResponse(record), nil
}

// List implements payroll.PayrollService. Callers without payroll management
// only see their own payslips.
func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return payroll.ListPayrollResponse{}, err
	}
	if !p.Can(user.PermissionPayrollManage) {
		if err := p.Require(user.PermissionPayrollViewOwn); err != nil {
			return payroll.ListPayrollResponse{}, err
		}
		own, err := p.RequireEmployee()
		if err != nil {
			return payroll.ListPayrollResponse{}, err
		}
		filter.EmployeeID = &own
	}
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	records, total, err := s.PayrollRepository.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, fmt.Errorf("failed to list payrolls: %w", err)
	}

	resp := payroll.ListPayrollResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: filter.TotalPages(total),
		Payrolls:   make([]payroll.PayrollResponse, 0, len(records)),
	}
	for _, r := range records {
		resp.Payrolls = append(resp.Payrolls, payroll.NewPayrollResponse(r))
	}
	return resp, nil
}

// MarkPaid implements payroll.PayrollService.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	p, err := requireManage(ctx)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	paid, err := s.PayrollRepository.MarkPaid(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	slog.InfoContext(ctx, "payroll paid", "payroll_id", id, "by", p.UserID)
	return payroll.NewPayrollResponse(paid), nil
}

// Summary implements payroll.PayrollService.
func (s *PayrollServiceImpl) Summary(ctx context.Context, req payroll.SummaryRequest) (payroll.SummaryResponse, error) {
	if _, err := requireManage(ctx); err != nil {
		return payroll.SummaryResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.SummaryResponse{}, err
	}

	summary, err := s.PayrollRepository.Summary(ctx, req.Period())
	if err != nil {
		return payroll.SummaryResponse{}, fmt.Errorf("failed to summarize payrolls: %w", err)
	}
	return payroll.SummaryResponse{
		PayPeriodStart:  req.PayPeriodStart,
		PayPeriodEnd:    req.PayPeriodEnd,
		Count:           summary.Count,
		Paid:            summary.Paid,
		TotalGross:      summary.TotalGross,
		TotalDeductions: summary.TotalDeductions,
		TotalNet:        summary.TotalNet,
	}, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
