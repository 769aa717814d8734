package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceRepository_OneRecordPerDay(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	emp := seedEmployee(t, "clocker")
	repo := postgresql.NewAttendanceRepository(testDB)

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	in := time.Date(2024, 3, 4, 9, 15, 0, 0, time.UTC)

	created, err := repo.Create(ctx, attendance.Attendance{
		EmployeeID: emp.ID,
		Date:       day,
		CheckIn:    &in,
		Status:     attendance.StatusLate,
	})
	require.NoError(t, err)
	assert.Equal(t, emp.EmployeeCode, *created.EmployeeCode)

	_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: emp.ID, Date: day, CheckIn: &in, Status: attendance.StatusPresent})
	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)

	none, err := repo.GetByEmployeeAndDate(ctx, emp.ID, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestAttendanceRepository_LockedClockOut(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	emp := seedEmployee(t, "locker")
	repo := postgresql.NewAttendanceRepository(testDB)
	tx := postgresql.NewTransactor(testDB)

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	in := time.Date(2024, 3, 4, 8, 30, 0, 0, time.UTC)
	out := time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC)
	_, err := repo.Create(ctx, attendance.Attendance{EmployeeID: emp.ID, Date: day, CheckIn: &in, Status: attendance.StatusPresent})
	require.NoError(t, err)

	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err := repo.LockByEmployeeAndDate(ctx, emp.ID, day)
		if err != nil {
			return err
		}
		require.NotNil(t, rec)
		rec.CheckOut = &out
		rec.HoursWorked = 8.5
		rec.OvertimeHours = 0.5
		_, err = repo.Update(ctx, *rec)
		return err
	})
	require.NoError(t, err)

	got, err := repo.GetByEmployeeAndDate(ctx, emp.ID, day)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, attendance.StateClockedOut, attendance.StateOf(got))
	assert.InDelta(t, 8.5, got.HoursWorked, 0.001)

	stats, err := repo.Stats(ctx, day, day.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Present)
	assert.InDelta(t, 0.5, stats.TotalOvertime, 0.001)
}

func TestTransactor_RollsBack(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	emp := seedEmployee(t, "rollback")
	repo := postgresql.NewAttendanceRepository(testDB)
	tx := postgresql.NewTransactor(testDB)

	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := repo.Create(ctx, attendance.Attendance{EmployeeID: emp.ID, Date: day, Status: attendance.StatusAbsent}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.GetByEmployeeAndDate(ctx, emp.ID, day)
	require.NoError(t, err)
	assert.Nil(t, got)
}
