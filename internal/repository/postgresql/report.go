package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// AttendanceByEmployee aggregates attendance for every active employee, including those with no records
func (r *reportRepositoryImpl) AttendanceByEmployee(ctx context.Context, from, to time.Time) ([]report.EmployeeAttendanceRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			e.id,
			e.employee_code,
			e.first_name || ' ' || e.last_name,
			e.department,
			COUNT(a.id) FILTER (WHERE a.status = 'present'),
			COUNT(a.id) FILTER (WHERE a.status = 'late'),
			COUNT(a.id) FILTER (WHERE a.status = 'absent'),
			COUNT(a.id) FILTER (WHERE a.status = 'half_day'),
			COALESCE(SUM(a.hours_worked), 0)::float8,
			COALESCE(SUM(a.overtime_hours), 0)::float8
		FROM employees e
		LEFT JOIN attendances a ON a.employee_id = e.id AND a.date >= $1 AND a.date <= $2
		WHERE e.is_active
		GROUP BY e.id, e.employee_code, e.first_name, e.last_name, e.department
		ORDER BY e.employee_code
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance report: %w", err)
	}
	defer rows.Close()

	result := []report.EmployeeAttendanceRow{}
	for rows.Next() {
		var row report.EmployeeAttendanceRow
		err := rows.Scan(
			&row.EmployeeID, &row.EmployeeCode, &row.EmployeeName, &row.Department,
			&row.Present, &row.Late, &row.Absent, &row.HalfDay, &row.TotalHours, &row.TotalOvertime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance report row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *reportRepositoryImpl) ClockRecords(ctx context.Context, from, to time.Time) ([]report.ClockRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, date, check_in, check_out
		FROM attendances
		WHERE date >= $1 AND date <= $2 AND check_in IS NOT NULL
		ORDER BY date, employee_id
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query clock records: %w", err)
	}
	defer rows.Close()

	result := []report.ClockRecord{}
	for rows.Next() {
		var c report.ClockRecord
		if err := rows.Scan(&c.EmployeeID, &c.Date, &c.CheckIn, &c.CheckOut); err != nil {
			return nil, fmt.Errorf("failed to scan clock record: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *reportRepositoryImpl) PayrollRows(ctx context.Context, from, to time.Time) ([]report.PayrollRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			e.id, e.employee_code, e.first_name || ' ' || e.last_name, e.department,
			p.status, p.gross_salary, p.total_deductions, p.net_salary
		FROM payrolls p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.pay_period_start >= $1 AND p.pay_period_end <= $2
		ORDER BY p.pay_period_start, e.employee_code
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll report: %w", err)
	}
	defer rows.Close()

	result := []report.PayrollRow{}
	for rows.Next() {
		var p report.PayrollRow
		err := rows.Scan(
			&p.EmployeeID, &p.EmployeeCode, &p.EmployeeName, &p.Department,
			&p.Status, &p.GrossSalary, &p.TotalDeductions, &p.NetSalary,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll report row: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
