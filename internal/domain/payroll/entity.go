package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusPending   PayrollStatus = "pending"
	PayrollStatusProcessed PayrollStatus = "processed"
	PayrollStatusPaid      PayrollStatus = "paid"
)

// Payroll is the payslip of one employee for one pay period.
type Payroll struct {
	ID               string
	EmployeeID       string
	PayPeriodStart   time.Time
	PayPeriodEnd     time.Time
	BasicSalary      decimal.Decimal
	Allowances       decimal.Decimal
	OvertimePay      decimal.Decimal
	GrossSalary      decimal.Decimal
	TaxDeduction     decimal.Decimal
	PensionDeduction decimal.Decimal
	LoanDeduction    decimal.Decimal
	OtherDeductions  decimal.Decimal
	TotalDeductions  decimal.Decimal
	NetSalary        decimal.Decimal
	Status           PayrollStatus
	ProcessedBy      *string
	ProcessedAt      *time.Time
	PaidAt           *time.Time
	Notes            *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
	Department   *string
}

// Apply copies a computed breakdown onto p.
func (p *Payroll) Apply(b Breakdown) {
	p.BasicSalary = b.Basic
	p.Allowances = b.Allowances
	p.OvertimePay = b.Overtime
	p.GrossSalary = b.Gross
	p.TaxDeduction = b.Tax
	p.PensionDeduction = b.Pension
	p.LoanDeduction = b.Loan
	p.OtherDeductions = b.Other
	p.TotalDeductions = b.TotalDeductions
	p.NetSalary = b.Net
}

type Period struct {
	Start time.Time
	End   time.Time
}

type Summary struct {
	Count           int64
	TotalGross      decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalNet        decimal.Decimal
	Paid            int64
}
