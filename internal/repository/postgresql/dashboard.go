package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// GetEmployeeSummary returns active, total users and new hires (since date) in single query
func (r *dashboardRepositoryImpl) GetEmployeeSummary(ctx context.Context, since time.Time) (dashboard.EmployeeSummaryStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			(SELECT COUNT(*) FROM employees WHERE is_active) AS active_count,
			(SELECT COUNT(*) FROM users) AS user_count,
			(SELECT COUNT(*) FROM employees WHERE hire_date >= $1) AS new_count
	`

	var stats dashboard.EmployeeSummaryStats
	if err := q.QueryRow(ctx, query, since).Scan(&stats.Active, &stats.TotalUsers, &stats.New); err != nil {
		return dashboard.EmployeeSummaryStats{}, fmt.Errorf("failed to get employee summary: %w", err)
	}
	return stats, nil
}

func (r *dashboardRepositoryImpl) GetPayrollStats(ctx context.Context) (dashboard.PayrollStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'processed'),
			COUNT(*) FILTER (WHERE status = 'paid'),
			COALESCE(SUM(net_salary) FILTER (WHERE status IN ('processed', 'paid')), 0)
		FROM payrolls
	`

	var stats dashboard.PayrollStats
	err := q.QueryRow(ctx, query).Scan(&stats.Total, &stats.Pending, &stats.Processed, &stats.Paid, &stats.TotalPayout)
	if err != nil {
		return dashboard.PayrollStats{}, fmt.Errorf("failed to get payroll stats: %w", err)
	}
	return stats, nil
}

func (r *dashboardRepositoryImpl) GetRecentPayrolls(ctx context.Context, employeeID *string, limit int) ([]dashboard.RecentPayroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.id, e.first_name || ' ' || e.last_name, p.pay_period_start, p.pay_period_end, p.net_salary, p.status
		FROM payrolls p
		JOIN employees e ON e.id = p.employee_id
		WHERE $1::uuid IS NULL OR p.employee_id = $1
		ORDER BY p.created_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, employeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent payrolls: %w", err)
	}
	defer rows.Close()

	result := []dashboard.RecentPayroll{}
	for rows.Next() {
		var p dashboard.RecentPayroll
		if err := rows.Scan(&p.ID, &p.EmployeeName, &p.PayPeriodStart, &p.PayPeriodEnd, &p.NetSalary, &p.Status); err != nil {
			return nil, fmt.Errorf("failed to scan recent payroll: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// GetDepartmentStats groups active employees by department
func (r *dashboardRepositoryImpl) GetDepartmentStats(ctx context.Context) ([]dashboard.DepartmentStat, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(NULLIF(department, ''), 'Unassigned'), COUNT(*), COALESCE(ROUND(AVG(salary), 2), 0)
		FROM employees
		WHERE is_active
		GROUP BY 1
		ORDER BY 2 DESC, 1
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get department stats: %w", err)
	}
	defer rows.Close()

	result := []dashboard.DepartmentStat{}
	for rows.Next() {
		var d dashboard.DepartmentStat
		if err := rows.Scan(&d.Department, &d.Count, &d.AvgSalary); err != nil {
			return nil, fmt.Errorf("failed to scan department stat: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *dashboardRepositoryImpl) GetPayrollTrends(ctx context.Context, since time.Time) ([]dashboard.PayrollTrend, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT date_trunc('month', pay_period_start)::date AS month, COUNT(*), COALESCE(SUM(net_salary), 0)
		FROM payrolls
		WHERE status IN ('processed', 'paid') AND pay_period_start >= $1
		GROUP BY 1
		ORDER BY 1
	`

	rows, err := q.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get payroll trends: %w", err)
	}
	defer rows.Close()

	result := []dashboard.PayrollTrend{}
	for rows.Next() {
		var t dashboard.PayrollTrend
		if err := rows.Scan(&t.Month, &t.Count, &t.TotalNet); err != nil {
			return nil, fmt.Errorf("failed to scan payroll trend: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *dashboardRepositoryImpl) GetAttendanceStats(ctx context.Context, employeeID *string, from, to time.Time) (attendance.Stats, error) {
	return attendanceStats(ctx, GetQuerier(ctx, r.db), employeeID, from, to)
}

func (r *dashboardRepositoryImpl) CountActiveLocations(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM office_locations WHERE is_active`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active locations: %w", err)
	}
	return count, nil
}
