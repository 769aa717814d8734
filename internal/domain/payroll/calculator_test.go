package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got)
}

func TestCompute_Example(t *testing.T) {
	b := Compute(Components{
		Basic:   d("75000"),
		Tax:     d("8250"),
		Pension: d("2750"),
	})

	assertDecimal(t, "75000", b.Gross)
	assertDecimal(t, "11000", b.TotalDeductions)
	assertDecimal(t, "64000", b.Net)
}

func TestCompute_Identities(t *testing.T) {
	cases := []Components{
		{},
		{Basic: d("1000.50"), Allowances: d("200.25"), Overtime: d("99.99")},
		{Basic: d("5000"), Tax: d("750"), Pension: d("250"), Loan: d("100"), Other: d("12.34")},
		{Basic: d("1"), Allowances: d("0.01"), Overtime: d("0.01"), Tax: d("0.01"), Pension: d("0.01"), Loan: d("0.01"), Other: d("0.01")},
		{Basic: d("3000"), Tax: d("4000")}, // deductions above gross give a negative net
	}

	for _, c := range cases {
		b := Compute(c)
		assert.True(t, b.Gross.Equal(b.Basic.Add(b.Allowances).Add(b.Overtime)))
		assert.True(t, b.TotalDeductions.Equal(b.Tax.Add(b.Pension).Add(b.Loan).Add(b.Other)))
		assert.True(t, b.Net.Equal(b.Gross.Sub(b.TotalDeductions)))
	}
}

func TestCompute_RoundsToCents(t *testing.T) {
	b := Compute(Components{Basic: d("100.005"), Allowances: d("0.004")})
	assertDecimal(t, "100.01", b.Basic)
	assertDecimal(t, "0", b.Allowances)
	assertDecimal(t, "100.01", b.Gross)
}

func TestComputeWithRates(t *testing.T) {
	rates := Rates{AllowanceRate: d("0.10"), TaxRate: d("0.15"), PensionRate: d("0.05")}

	b := ComputeWithRates(d("50000"), rates)
	assertDecimal(t, "5000", b.Allowances)
	assertDecimal(t, "55000", b.Gross)
	assertDecimal(t, "8250", b.Tax)
	assertDecimal(t, "2750", b.Pension)
	assertDecimal(t, "11000", b.TotalDeductions)
	assertDecimal(t, "44000", b.Net)
	assert.True(t, b.Loan.IsZero())
	assert.True(t, b.Overtime.IsZero())
}

func TestCreatePayrollRequest_Validate(t *testing.T) {
	valid := CreatePayrollRequest{
		EmployeeID:    "6f1c2a4e-8b3d-4c5e-9f7a-1b2c3d4e5f60",
		PeriodRequest: PeriodRequest{PayPeriodStart: "2024-03-01", PayPeriodEnd: "2024-03-31"},
		TaxDeduction:  d("10"),
	}
	require.NoError(t, valid.Validate())

	invalid := valid
	invalid.PeriodRequest = PeriodRequest{PayPeriodStart: "2024-03-31", PayPeriodEnd: "2024-03-01"}
	invalid.LoanDeduction = d("-1")

	var errs validator.ValidationErrors
	require.ErrorAs(t, invalid.Validate(), &errs)
	fields := errs.ToMap()
	assert.Contains(t, fields, "pay_period_end")
	assert.Contains(t, fields, "loan_deduction")
}
