package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.check_in, a.check_out, a.hours_worked, a.overtime_hours,
	a.status, a.notes, a.is_qr, a.location_id, a.created_at, a.updated_at,
	e.first_name || ' ' || e.last_name, e.employee_code, e.department`

const attendanceFrom = `
	FROM attendances a
	JOIN employees e ON e.id = a.employee_id`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Date, &a.CheckIn, &a.CheckOut, &a.HoursWorked, &a.OvertimeHours,
		&a.Status, &a.Notes, &a.IsQR, &a.LocationID, &a.CreatedAt, &a.UpdatedAt,
		&a.EmployeeName, &a.EmployeeCode, &a.Department,
	)
	return a, err
}

func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO attendances (
			employee_id, date, check_in, check_out, hours_worked, overtime_hours, status, notes, is_qr, location_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		a.EmployeeID, a.Date, a.CheckIn, a.CheckOut, a.HoursWorked, a.OvertimeHours,
		a.Status, a.Notes, a.IsQR, a.LocationID,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err, "uq_attendance_employee_date") {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAttendance(q.QueryRow(ctx, "SELECT"+attendanceColumns+attendanceFrom+" WHERE a.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a, nil
}

func (r *attendanceRepositoryImpl) byEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, lock string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)
	query := "SELECT" + attendanceColumns + attendanceFrom + " WHERE a.employee_id = $1 AND a.date = $2" + lock

	a, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance for %s: %w", date.Format("2006-01-02"), err)
	}
	return &a, nil
}

func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	return r.byEmployeeAndDate(ctx, employeeID, date, "")
}

func (r *attendanceRepositoryImpl) LockByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	return r.byEmployeeAndDate(ctx, employeeID, date, " FOR UPDATE OF a")
}

func (r *attendanceRepositoryImpl) Update(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE attendances
		SET check_in = $1, check_out = $2, hours_worked = $3, overtime_hours = $4, status = $5,
			notes = $6, is_qr = $7, location_id = $8, updated_at = NOW()
		WHERE id = $9
	`

	tag, err := q.Exec(ctx, query,
		a.CheckIn, a.CheckOut, a.HoursWorked, a.OvertimeHours, a.Status, a.Notes, a.IsQR, a.LocationID, a.ID,
	)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r.GetByID(ctx, a.ID)
}

func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
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
		add("a.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Department != nil {
		add("e.department = $%d", *filter.Department)
	}
	if filter.StartDate != nil {
		add("a.date >= $%d::date", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("a.date <= $%d::date", *filter.EndDate)
	}
	if filter.Status != nil {
		add("a.status = $%d", *filter.Status)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*)"+attendanceFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset())
	query := "SELECT" + attendanceColumns + attendanceFrom + where +
		fmt.Sprintf(" ORDER BY a.date DESC, a.check_in DESC NULLS LAST LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	list, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *attendanceRepositoryImpl) History(ctx context.Context, employeeID string, limit int) ([]attendance.Attendance, error) {
	query := "SELECT" + attendanceColumns + attendanceFrom + " WHERE a.employee_id = $1 ORDER BY a.date DESC LIMIT $2"
	return r.query(ctx, query, employeeID, limit)
}

func (r *attendanceRepositoryImpl) query(ctx context.Context, query string, args ...any) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	list := []attendance.Attendance{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// attendanceStatsQuery counts statuses over [$1, $2); $3 optionally limits
// it to one employee.
const attendanceStatsQuery = `
	SELECT
		COUNT(*) FILTER (WHERE status = 'present'),
		COUNT(*) FILTER (WHERE status = 'late'),
		COUNT(*) FILTER (WHERE status = 'absent'),
		COUNT(*) FILTER (WHERE status = 'half_day'),
		COALESCE(SUM(hours_worked), 0)::float8,
		COALESCE(SUM(overtime_hours), 0)::float8
	FROM attendances
	WHERE date >= $1 AND date < $2 AND ($3::uuid IS NULL OR employee_id = $3)
`

func attendanceStats(ctx context.Context, q database.Querier, employeeID *string, from, to time.Time) (attendance.Stats, error) {
	var s attendance.Stats
	err := q.QueryRow(ctx, attendanceStatsQuery, from, to, employeeID).Scan(
		&s.Present, &s.Late, &s.Absent, &s.HalfDay, &s.TotalHours, &s.TotalOvertime,
	)
	if err != nil {
		return attendance.Stats{}, fmt.Errorf("failed to get attendance stats: %w", err)
	}
	return s, nil
}

func (r *attendanceRepositoryImpl) Stats(ctx context.Context, from, to time.Time) (attendance.Stats, error) {
	return attendanceStats(ctx, GetQuerier(ctx, r.db), nil, from, to)
}
