package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `
	e.id, e.user_id, e.employee_code, e.first_name, e.last_name, e.phone, e.address,
	e.department, e.position, e.salary, e.hire_date, e.bank_account, e.tax_id, e.is_active,
	e.created_at, e.updated_at, u.username, u.email, u.role`

const employeeFrom = `
	FROM employees e
	JOIN users u ON u.id = e.user_id`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.EmployeeCode, &emp.FirstName, &emp.LastName, &emp.Phone, &emp.Address,
		&emp.Department, &emp.Position, &emp.Salary, &emp.HireDate, &emp.BankAccount, &emp.TaxID, &emp.IsActive,
		&emp.CreatedAt, &emp.UpdatedAt, &emp.Username, &emp.Email, &emp.Role,
	)
	return emp, err
}

func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO employees (
			user_id, employee_code, first_name, last_name, phone, address, department, position,
			salary, hire_date, bank_account, tax_id, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, TRUE)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		newEmployee.UserID, newEmployee.EmployeeCode, newEmployee.FirstName, newEmployee.LastName,
		newEmployee.Phone, newEmployee.Address, newEmployee.Department, newEmployee.Position,
		newEmployee.Salary, newEmployee.HireDate, newEmployee.BankAccount, newEmployee.TaxID,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err, "uq_employees_code") {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *employeeRepositoryImpl) getOne(ctx context.Context, where string, arg any) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := "SELECT" + employeeColumns + employeeFrom + " WHERE " + where

	emp, err := scanEmployee(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.getOne(ctx, "e.id = $1", id)
}

func (r *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	return r.getOne(ctx, "e.user_id = $1", userID)
}

func (r *employeeRepositoryImpl) query(ctx context.Context, query string, args ...any) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (r *employeeRepositoryImpl) GetByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	if len(ids) == 0 {
		return []employee.Employee{}, nil
	}
	return r.query(ctx, "SELECT"+employeeColumns+employeeFrom+" WHERE e.id = ANY($1::uuid[]) ORDER BY e.employee_code", ids)
}

func (r *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return r.query(ctx, "SELECT"+employeeColumns+employeeFrom+" WHERE e.is_active ORDER BY e.employee_code")
}

func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	var (
		conds []string
		args  []any
	)
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, "%"+strings.TrimSpace(*filter.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(e.first_name ILIKE $%d OR e.last_name ILIKE $%d OR e.employee_code ILIKE $%d OR u.email ILIKE $%d)", n, n, n, n))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		conds = append(conds, fmt.Sprintf("e.department = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conds = append(conds, fmt.Sprintf("e.is_active = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*)"+employeeFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset())
	query := "SELECT" + employeeColumns + employeeFrom + where +
		fmt.Sprintf(" ORDER BY e.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	employees, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	// The login account follows the employee's active flag
	query := `
		WITH e AS (
			UPDATE employees
			SET first_name = $1, last_name = $2, phone = $3, address = $4, department = $5, position = $6,
				salary = $7, hire_date = $8, bank_account = $9, tax_id = $10, is_active = $11, updated_at = NOW()
			WHERE id = $12
			RETURNING user_id, is_active
		)
		UPDATE users u SET is_active = e.is_active, updated_at = NOW()
		FROM e WHERE u.id = e.user_id
	`

	tag, err := q.Exec(ctx, query,
		e.FirstName, e.LastName, e.Phone, e.Address, e.Department, e.Position,
		e.Salary, e.HireDate, e.BankAccount, e.TaxID, e.IsActive, e.ID,
	)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.GetByID(ctx, e.ID)
}

func (r *employeeRepositoryImpl) UpdateContact(ctx context.Context, id string, phone, address *string) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE employees
		SET phone = COALESCE($1, phone), address = COALESCE($2, address), updated_at = NOW()
		WHERE id = $3
	`

	tag, err := q.Exec(ctx, query, phone, address, id)
	if err != nil {
		return fmt.Errorf("failed to update employee contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Deactivate marks the employee and its user account inactive.
func (r *employeeRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	query := `
		WITH emp AS (
			UPDATE employees SET is_active = FALSE, updated_at = NOW()
			WHERE id = $1 AND is_active
			RETURNING user_id
		)
		UPDATE users SET is_active = FALSE, updated_at = NOW()
		WHERE id IN (SELECT user_id FROM emp)
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeAlreadyInactive
	}
	return nil
}

func (r *employeeRepositoryImpl) Departments(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT DISTINCT department FROM employees
		WHERE department IS NOT NULL AND department <> ''
		ORDER BY department
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
