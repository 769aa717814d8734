package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayrollRepository_Lifecycle(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	emp := seedEmployee(t, "payee")
	repo := postgresql.NewPayrollRepository(testDB)

	period := payroll.Period{
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	now := time.Now()
	p := payroll.Payroll{
		EmployeeID:     emp.ID,
		PayPeriodStart: period.Start,
		PayPeriodEnd:   period.End,
		Status:         payroll.PayrollStatusProcessed,
		ProcessedAt:    &now,
	}
	p.Apply(payroll.Compute(payroll.Components{
		Basic:   decimal.NewFromInt(75000),
		Tax:     decimal.NewFromInt(8250),
		Pension: decimal.NewFromInt(2750),
	}))

	created, err := repo.Create(ctx, p)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(64000).Equal(created.NetSalary))

	_, err = repo.Create(ctx, p)
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyExists)

	existing, err := repo.EmployeesWithPayroll(ctx, period, []string{emp.ID})
	require.NoError(t, err)
	assert.True(t, existing[emp.ID])

	paid, err := repo.MarkPaid(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.PayrollStatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)

	_, err = repo.MarkPaid(ctx, created.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyPaid)

	summary, err := repo.Summary(ctx, period)
	require.NoError(t, err)
	assert.EqualValues(t, 1, summary.Count)
	assert.EqualValues(t, 1, summary.Paid)
	assert.True(t, decimal.NewFromInt(75000).Equal(summary.TotalGross))
}
