package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timepolicy"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const microsPerMinute = 60 * 1000 * 1000

func clockToTime(c timepolicy.ClockTime) pgtype.Time {
	return pgtype.Time{Microseconds: int64(c) * microsPerMinute, Valid: true}
}

func timeToClock(t pgtype.Time) timepolicy.ClockTime {
	return timepolicy.ClockTime(t.Microseconds / microsPerMinute)
}

// ---- office hours ----

const officeHoursColumns = `
	id, name, official_clock_in, official_clock_out, grace_period_in, grace_period_out,
	break_start, break_duration, working_days, allow_early_clock_in, allow_late_clock_out,
	is_active, is_default, created_at, updated_at`

type officeHoursRepositoryImpl struct {
	db *database.DB
}

func NewOfficeHoursRepository(db *database.DB) timepolicy.OfficeHoursRepository {
	return &officeHoursRepositoryImpl{db: db}
}

func scanOfficeHours(row pgx.Row) (timepolicy.OfficeHours, error) {
	var (
		oh                timepolicy.OfficeHours
		clockIn, clockOut pgtype.Time
		breakStart        pgtype.Time
		workingDays       string
	)
	err := row.Scan(
		&oh.ID, &oh.Name, &clockIn, &clockOut, &oh.GracePeriodIn, &oh.GracePeriodOut,
		&breakStart, &oh.BreakDuration, &workingDays, &oh.AllowEarlyClockIn, &oh.AllowLateClockOut,
		&oh.IsActive, &oh.IsDefault, &oh.CreatedAt, &oh.UpdatedAt,
	)
	if err != nil {
		return oh, err
	}

	oh.OfficialClockIn = timeToClock(clockIn)
	oh.OfficialClockOut = timeToClock(clockOut)
	if breakStart.Valid {
		bs := timeToClock(breakStart)
		oh.BreakStart = &bs
	}
	days, err := timepolicy.ParseWorkingDays(workingDays)
	if err != nil {
		return oh, fmt.Errorf("office hours %s: %w", oh.ID, err)
	}
	oh.WorkingDays = days
	return oh, nil
}

func breakStartArg(bs *timepolicy.ClockTime) pgtype.Time {
	if bs == nil {
		return pgtype.Time{}
	}
	return clockToTime(*bs)
}

func (r *officeHoursRepositoryImpl) Create(ctx context.Context, oh timepolicy.OfficeHours) (timepolicy.OfficeHours, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO office_hours (
			name, official_clock_in, official_clock_out, grace_period_in, grace_period_out,
			break_start, break_duration, working_days, allow_early_clock_in, allow_late_clock_out,
			is_active, is_default
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING` + officeHoursColumns

	created, err := scanOfficeHours(q.QueryRow(ctx, query,
		oh.Name, clockToTime(oh.OfficialClockIn), clockToTime(oh.OfficialClockOut), oh.GracePeriodIn, oh.GracePeriodOut,
		breakStartArg(oh.BreakStart), oh.BreakDuration, timepolicy.FormatWorkingDays(oh.WorkingDays),
		oh.AllowEarlyClockIn, oh.AllowLateClockOut, oh.IsActive, oh.IsDefault,
	))
	if err != nil {
		return timepolicy.OfficeHours{}, fmt.Errorf("failed to create office hours: %w", err)
	}
	return created, nil
}

func (r *officeHoursRepositoryImpl) GetByID(ctx context.Context, id string) (timepolicy.OfficeHours, error) {
	q := GetQuerier(ctx, r.db)

	oh, err := scanOfficeHours(q.QueryRow(ctx, "SELECT"+officeHoursColumns+" FROM office_hours WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timepolicy.OfficeHours{}, timepolicy.ErrOfficeHoursNotFound
		}
		return timepolicy.OfficeHours{}, fmt.Errorf("failed to get office hours: %w", err)
	}
	return oh, nil
}

func (r *officeHoursRepositoryImpl) GetDefault(ctx context.Context) (timepolicy.OfficeHours, error) {
	q := GetQuerier(ctx, r.db)

	oh, err := scanOfficeHours(q.QueryRow(ctx,
		"SELECT"+officeHoursColumns+" FROM office_hours WHERE is_default AND is_active LIMIT 1"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timepolicy.OfficeHours{}, timepolicy.ErrNoDefaultOfficeHours
		}
		return timepolicy.OfficeHours{}, fmt.Errorf("failed to get default office hours: %w", err)
	}
	return oh, nil
}

func (r *officeHoursRepositoryImpl) List(ctx context.Context, includeInactive bool) ([]timepolicy.OfficeHours, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx,
		"SELECT"+officeHoursColumns+" FROM office_hours WHERE is_active OR $1 ORDER BY is_default DESC, name",
		includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list office hours: %w", err)
	}
	defer rows.Close()

	list := []timepolicy.OfficeHours{}
	for rows.Next() {
		oh, err := scanOfficeHours(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, oh)
	}
	return list, rows.Err()
}

func (r *officeHoursRepositoryImpl) Update(ctx context.Context, oh timepolicy.OfficeHours) (timepolicy.OfficeHours, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE office_hours
		SET name = $1, official_clock_in = $2, official_clock_out = $3, grace_period_in = $4,
			grace_period_out = $5, break_start = $6, break_duration = $7, working_days = $8,
			allow_early_clock_in = $9, allow_late_clock_out = $10, is_active = $11, updated_at = NOW()
		WHERE id = $12
		RETURNING` + officeHoursColumns

	updated, err := scanOfficeHours(q.QueryRow(ctx, query,
		oh.Name, clockToTime(oh.OfficialClockIn), clockToTime(oh.OfficialClockOut), oh.GracePeriodIn,
		oh.GracePeriodOut, breakStartArg(oh.BreakStart), oh.BreakDuration, timepolicy.FormatWorkingDays(oh.WorkingDays),
		oh.AllowEarlyClockIn, oh.AllowLateClockOut, oh.IsActive, oh.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timepolicy.OfficeHours{}, timepolicy.ErrOfficeHoursNotFound
		}
		return timepolicy.OfficeHours{}, fmt.Errorf("failed to update office hours: %w", err)
	}
	return updated, nil
}

func (r *officeHoursRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE office_hours SET is_active = FALSE, is_default = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate office hours: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timepolicy.ErrOfficeHoursNotFound
	}
	return nil
}

func (r *officeHoursRepositoryImpl) ClearDefault(ctx context.Context) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `UPDATE office_hours SET is_default = FALSE, updated_at = NOW() WHERE is_default`)
	return err
}

func (r *officeHoursRepositoryImpl) SetDefault(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE office_hours SET is_default = TRUE, updated_at = NOW() WHERE id = $1 AND is_active`, id)
	if err != nil {
		return fmt.Errorf("failed to set default office hours: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timepolicy.ErrOfficeHoursNotFound
	}
	return nil
}

// ---- attendance policies ----

const policyColumns = `
	id, name,
	late_penalty_type, late_penalty_amount, late_threshold_minutes,
	early_penalty_type, early_penalty_amount, early_threshold_minutes,
	absence_penalty_type, absence_penalty_amount,
	overtime_rate, overtime_threshold_minutes, allowance_rate, tax_rate, pension_rate,
	is_active, is_default, created_at, updated_at`

type attendancePolicyRepositoryImpl struct {
	db *database.DB
}

func NewAttendancePolicyRepository(db *database.DB) timepolicy.AttendancePolicyRepository {
	return &attendancePolicyRepositoryImpl{db: db}
}

func scanPolicy(row pgx.Row) (timepolicy.AttendancePolicy, error) {
	var p timepolicy.AttendancePolicy
	err := row.Scan(
		&p.ID, &p.Name,
		&p.LatePenalty.Type, &p.LatePenalty.Amount, &p.LatePenalty.ThresholdMinutes,
		&p.EarlyPenalty.Type, &p.EarlyPenalty.Amount, &p.EarlyPenalty.ThresholdMinutes,
		&p.AbsencePenalty.Type, &p.AbsencePenalty.Amount,
		&p.OvertimeRate, &p.OvertimeThresholdMinutes, &p.AllowanceRate, &p.TaxRate, &p.PensionRate,
		&p.IsActive, &p.IsDefault, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func policyArgs(p timepolicy.AttendancePolicy) []any {
	return []any{
		p.Name,
		p.LatePenalty.Type, p.LatePenalty.Amount, p.LatePenalty.ThresholdMinutes,
		p.EarlyPenalty.Type, p.EarlyPenalty.Amount, p.EarlyPenalty.ThresholdMinutes,
		p.AbsencePenalty.Type, p.AbsencePenalty.Amount,
		p.OvertimeRate, p.OvertimeThresholdMinutes, p.AllowanceRate, p.TaxRate, p.PensionRate,
		p.IsActive,
	}
}

func (r *attendancePolicyRepositoryImpl) Create(ctx context.Context, p timepolicy.AttendancePolicy) (timepolicy.AttendancePolicy, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO attendance_policies (
			name, late_penalty_type, late_penalty_amount, late_threshold_minutes,
			early_penalty_type, early_penalty_amount, early_threshold_minutes,
			absence_penalty_type, absence_penalty_amount,
			overtime_rate, overtime_threshold_minutes, allowance_rate, tax_rate, pension_rate,
			is_active, is_default
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING` + policyColumns

	created, err := scanPolicy(q.QueryRow(ctx, query, append(policyArgs(p), p.IsDefault)...))
	if err != nil {
		return timepolicy.AttendancePolicy{}, fmt.Errorf("failed to create attendance policy: %w", err)
	}
	return created, nil
}

func (r *attendancePolicyRepositoryImpl) GetByID(ctx context.Context, id string) (timepolicy.AttendancePolicy, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPolicy(q.QueryRow(ctx, "SELECT"+policyColumns+" FROM attendance_policies WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timepolicy.AttendancePolicy{}, timepolicy.ErrAttendancePolicyNotFound
		}
		return timepolicy.AttendancePolicy{}, fmt.Errorf("failed to get attendance policy: %w", err)
	}
	return p, nil
}

func (r *attendancePolicyRepositoryImpl) GetDefault(ctx context.Context) (timepolicy.AttendancePolicy, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPolicy(q.QueryRow(ctx,
		"SELECT"+policyColumns+" FROM attendance_policies WHERE is_default AND is_active LIMIT 1"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timepolicy.AttendancePolicy{}, timepolicy.ErrNoDefaultPolicy
		}
		return timepolicy.AttendancePolicy{}, fmt.Errorf("failed to get default attendance policy: %w", err)
	}
	return p, nil
}

func (r *attendancePolicyRepositoryImpl) List(ctx context.Context, includeInactive bool) ([]timepolicy.AttendancePolicy, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx,
		"SELECT"+policyColumns+" FROM attendance_policies WHERE is_active OR $1 ORDER BY is_default DESC, name",
		includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance policies: %w", err)
	}
	defer rows.Close()

	list := []timepolicy.AttendancePolicy{}
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance policy: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *attendancePolicyRepositoryImpl) Update(ctx context.Context, p timepolicy.AttendancePolicy) (timepolicy.AttendancePolicy, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE attendance_policies
		SET name = $1, late_penalty_type = $2, late_penalty_amount = $3, late_threshold_minutes = $4,
			early_penalty_type = $5, early_penalty_amount = $6, early_threshold_minutes = $7,
			absence_penalty_type = $8, absence_penalty_amount = $9,
			overtime_rate = $10, overtime_threshold_minutes = $11, allowance_rate = $12, tax_rate = $13,
			pension_rate = $14, is_active = $15, updated_at = NOW()
		WHERE id = $16
		RETURNING` + policyColumns

	updated, err := scanPolicy(q.QueryRow(ctx, query, append(policyArgs(p), p.ID)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timepolicy.AttendancePolicy{}, timepolicy.ErrAttendancePolicyNotFound
		}
		return timepolicy.AttendancePolicy{}, fmt.Errorf("failed to update attendance policy: %w", err)
	}
	return updated, nil
}

func (r *attendancePolicyRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE attendance_policies SET is_active = FALSE, is_default = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate attendance policy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timepolicy.ErrAttendancePolicyNotFound
	}
	return nil
}

func (r *attendancePolicyRepositoryImpl) ClearDefault(ctx context.Context) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `UPDATE attendance_policies SET is_default = FALSE, updated_at = NOW() WHERE is_default`)
	return err
}

func (r *attendancePolicyRepositoryImpl) SetDefault(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE attendance_policies SET is_default = TRUE, updated_at = NOW() WHERE id = $1 AND is_active`, id)
	if err != nil {
		return fmt.Errorf("failed to set default attendance policy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timepolicy.ErrAttendancePolicyNotFound
	}
	return nil
}
