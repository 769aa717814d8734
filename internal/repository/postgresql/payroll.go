package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const payrollColumns = `
	p.id, p.employee_id, p.pay_period_start, p.pay_period_end,
	p.basic_salary, p.allowances, p.overtime_pay, p.gross_salary,
	p.tax_deduction, p.pension_deduction, p.loan_deduction, p.other_deductions,
	p.total_deductions, p.net_salary, p.status, p.processed_by, p.processed_at, p.paid_at,
	p.notes, p.created_at, p.updated_at,
	e.first_name || ' ' || e.last_name, e.employee_code, e.department`

const payrollFrom = `
	FROM payrolls p
	JOIN employees e ON e.id = p.employee_id`

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.PayPeriodStart, &p.PayPeriodEnd,
		&p.BasicSalary, &p.Allowances, &p.OvertimePay, &p.GrossSalary,
		&p.TaxDeduction, &p.PensionDeduction, &p.LoanDeduction, &p.OtherDeductions,
		&p.TotalDeductions, &p.NetSalary, &p.Status, &p.ProcessedBy, &p.ProcessedAt, &p.PaidAt,
		&p.Notes, &p.CreatedAt, &p.UpdatedAt,
		&p.EmployeeName, &p.EmployeeCode, &p.Department,
	)
	return p, err
}

func (r *payrollRepositoryImpl) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO payrolls (
			employee_id, pay_period_start, pay_period_end,
			basic_salary, allowances, overtime_pay, gross_salary,
			tax_deduction, pension_deduction, loan_deduction, other_deductions,
			total_deductions, net_salary, status, processed_by, processed_at, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		p.EmployeeID, p.PayPeriodStart, p.PayPeriodEnd,
		p.BasicSalary, p.Allowances, p.OvertimePay, p.GrossSalary,
		p.TaxDeduction, p.PensionDeduction, p.LoanDeduction, p.OtherDeductions,
		p.TotalDeductions, p.NetSalary, p.Status, p.ProcessedBy, p.ProcessedAt, p.Notes,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err, "uq_payroll_employee_period") {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyExists
		}
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *payrollRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayroll(q.QueryRow(ctx, "SELECT"+payrollColumns+payrollFrom+" WHERE p.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll: %w", err)
	}
	return p, nil
}

func (r *payrollRepositoryImpl) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	q := GetQuerier(ctx, r.db)

	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.EmployeeID != nil {
		add("p.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Status != nil {
		add("p.status = $%d", *filter.Status)
	}
	if filter.PeriodFrom != nil {
		add("p.pay_period_start >= $%d::date", *filter.PeriodFrom)
	}
	if filter.PeriodTo != nil {
		add("p.pay_period_end <= $%d::date", *filter.PeriodTo)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*)"+payrollFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payrolls: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset())
	query := "SELECT" + payrollColumns + payrollFrom + where +
		fmt.Sprintf(" ORDER BY p.pay_period_start DESC, e.employee_code LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	payrolls := []payroll.Payroll{}
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}
	return payrolls, total, rows.Err()
}

func (r *payrollRepositoryImpl) EmployeesWithPayroll(ctx context.Context, period payroll.Period, employeeIDs []string) (map[string]bool, error) {
	found := make(map[string]bool)
	if len(employeeIDs) == 0 {
		return found, nil
	}
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT employee_id FROM payrolls
		WHERE pay_period_start = $1 AND pay_period_end = $2 AND employee_id = ANY($3::uuid[])
	`

	rows, err := q.Query(ctx, query, period.Start, period.End, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing payrolls: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan existing payrolls: %w", err)
	}
	for _, id := range ids {
		found[id] = true
	}
	return found, nil
}

func (r *payrollRepositoryImpl) MarkPaid(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE payrolls
		SET status = $1, paid_at = NOW(), updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	tag, err := q.Exec(ctx, query, payroll.PayrollStatusPaid, id, payroll.PayrollStatusProcessed)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to mark payroll paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return payroll.Payroll{}, err
		}
		if current.Status == payroll.PayrollStatusPaid {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyPaid
		}
		return payroll.Payroll{}, payroll.ErrPayrollNotProcessed
	}
	return r.GetByID(ctx, id)
}

func (r *payrollRepositoryImpl) Summary(ctx context.Context, period payroll.Period) (payroll.Summary, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(gross_salary), 0),
			COALESCE(SUM(total_deductions), 0),
			COALESCE(SUM(net_salary), 0),
			COUNT(*) FILTER (WHERE status = 'paid')
		FROM payrolls
		WHERE pay_period_start >= $1 AND pay_period_end <= $2
	`

	var s payroll.Summary
	err := q.QueryRow(ctx, query, period.Start, period.End).Scan(
		&s.Count, &s.TotalGross, &s.TotalDeductions, &s.TotalNet, &s.Paid,
	)
	if err != nil {
		return payroll.Summary{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}
	return s, nil
}
