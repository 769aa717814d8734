package payroll

import "github.com/shopspring/decimal"

// Components are the inputs of one payroll computation. Zero values stand
// for amounts that were not specified.
type Components struct {
	Basic      decimal.Decimal
	Allowances decimal.Decimal
	Overtime   decimal.Decimal
	Tax        decimal.Decimal
	Pension    decimal.Decimal
	Loan       decimal.Decimal
	Other      decimal.Decimal
}

type Breakdown struct {
	Components
	Gross           decimal.Decimal
	TotalDeductions decimal.Decimal
	Net             decimal.Decimal
}

// Compute applies
//
//	gross = basic + allowances + overtime
//	total_deductions = tax + pension + loan + other
//	net = gross - total_deductions
//
// at two-decimal monetary precision.
func Compute(c Components) Breakdown {
	c = Components{
		Basic:      money(c.Basic),
		Allowances: money(c.Allowances),
		Overtime:   money(c.Overtime),
		Tax:        money(c.Tax),
		Pension:    money(c.Pension),
		Loan:       money(c.Loan),
		Other:      money(c.Other),
	}
	gross := c.Basic.Add(c.Allowances).Add(c.Overtime)
	total := c.Tax.Add(c.Pension).Add(c.Loan).Add(c.Other)
	return Breakdown{
		Components:      c,
		Gross:           gross,
		TotalDeductions: total,
		Net:             gross.Sub(total),
	}
}

// Rates drive bulk processing when no explicit amounts are given.
type Rates struct {
	AllowanceRate decimal.Decimal // share of basic
	TaxRate       decimal.Decimal // share of gross
	PensionRate   decimal.Decimal // share of gross
}

// ComputeWithRates derives allowances from basic and tax and pension from
// the resulting gross.
func ComputeWithRates(basic decimal.Decimal, r Rates) Breakdown {
	basic = money(basic)
	allowances := money(basic.Mul(r.AllowanceRate))
	gross := basic.Add(allowances)
	return Compute(Components{
		Basic:      basic,
		Allowances: allowances,
		Tax:        money(gross.Mul(r.TaxRate)),
		Pension:    money(gross.Mul(r.PensionRate)),
	})
}

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
