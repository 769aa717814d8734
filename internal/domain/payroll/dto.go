package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// PeriodRequest is an inclusive pay period.
type PeriodRequest struct {
	PayPeriodStart string `json:"pay_period_start" validate:"required,date"`
	PayPeriodEnd   string `json:"pay_period_end" validate:"required,date"`
}

// Period parses the request; call after validation.
func (r PeriodRequest) Period() Period {
	start, _ := time.Parse("2006-01-02", r.PayPeriodStart)
	end, _ := time.Parse("2006-01-02", r.PayPeriodEnd)
	return Period{Start: start, End: end}
}

func (r PeriodRequest) check(errs *validator.ValidationErrors) {
	start, okStart := validator.IsValidDate(r.PayPeriodStart)
	end, okEnd := validator.IsValidDate(r.PayPeriodEnd)
	if okStart && okEnd && end.Before(start) {
		errs.Add("pay_period_end", "pay_period_end must not be before pay_period_start")
	}
}

type CreatePayrollRequest struct {
	EmployeeID string `json:"employee_id" validate:"required,uuid"`
	PeriodRequest
	BasicSalary      *decimal.Decimal `json:"basic_salary,omitempty"` // defaults to the employee's salary
	Allowances       decimal.Decimal  `json:"allowances"`
	OvertimePay      decimal.Decimal  `json:"overtime_pay"`
	TaxDeduction     decimal.Decimal  `json:"tax_deduction"`
	PensionDeduction decimal.Decimal  `json:"pension_deduction"`
	LoanDeduction    decimal.Decimal  `json:"loan_deduction"`
	OtherDeductions  decimal.Decimal  `json:"other_deductions"`
	Notes            *string          `json:"notes,omitempty" validate:"omitempty,max=500"`
}

func (r *CreatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = fieldErrs
	}
	r.PeriodRequest.check(&errs)

	if r.BasicSalary != nil && r.BasicSalary.IsNegative() {
		errs.Add("basic_salary", "basic_salary must be non-negative")
	}
	amounts := []struct {
		field string
		value decimal.Decimal
	}{
		{"allowances", r.Allowances},
		{"overtime_pay", r.OvertimePay},
		{"tax_deduction", r.TaxDeduction},
		{"pension_deduction", r.PensionDeduction},
		{"loan_deduction", r.LoanDeduction},
		{"other_deductions", r.OtherDeductions},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			errs.Add(a.field, a.field+" must be non-negative")
		}
	}
	return errs.Err()
}

// Components builds calculator input using basic as the basic salary.
func (r *CreatePayrollRequest) Components(basic decimal.Decimal) Components {
	return Components{
		Basic:      basic,
		Allowances: r.Allowances,
		Overtime:   r.OvertimePay,
		Tax:        r.TaxDeduction,
		Pension:    r.PensionDeduction,
		Loan:       r.LoanDeduction,
		Other:      r.OtherDeductions,
	}
}

type BulkProcessRequest struct {
	PeriodRequest
	// EmployeeIDs limits processing to these employees; empty means all active
	EmployeeIDs []string `json:"employee_ids,omitempty" validate:"omitempty,dive,uuid"`
}

func (r *BulkProcessRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = fieldErrs
	}
	r.PeriodRequest.check(&errs)
	return errs.Err()
}

type BulkProcessResponse struct {
	Processed int             `json:"processed"`
	Skipped   int             `json:"skipped"`
	TotalNet  decimal.Decimal `json:"total_net"`
}

type PayrollFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	PeriodFrom *string `json:"period_from,omitempty"` // YYYY-MM-DD, matches pay_period_start >=
	PeriodTo   *string `json:"period_to,omitempty"`   // YYYY-MM-DD, matches pay_period_end <=
	pagination.Params
}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors
	f.Normalize(&errs)

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, []string{"pending", "processed", "paid"}) {
		errs.Add("status", "status must be one of: pending, processed, paid")
	}
	if f.PeriodFrom != nil {
		if _, ok := validator.IsValidDate(*f.PeriodFrom); !ok {
			errs.Add("period_from", "period_from must be in YYYY-MM-DD format")
		}
	}
	if f.PeriodTo != nil {
		if _, ok := validator.IsValidDate(*f.PeriodTo); !ok {
			errs.Add("period_to", "period_to must be in YYYY-MM-DD format")
		}
	}
	return errs.Err()
}

type PayrollResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	EmployeeName     *string         `json:"employee_name,omitempty"`
	EmployeeCode     *string         `json:"employee_code,omitempty"`
	Department       *string         `json:"department,omitempty"`
	PayPeriodStart   string          `json:"pay_period_start"`
	PayPeriodEnd     string          `json:"pay_period_end"`
	BasicSalary      decimal.Decimal `json:"basic_salary"`
	Allowances       decimal.Decimal `json:"allowances"`
	OvertimePay      decimal.Decimal `json:"overtime_pay"`
	GrossSalary      decimal.Decimal `json:"gross_salary"`
	TaxDeduction     decimal.Decimal `json:"tax_deduction"`
	PensionDeduction decimal.Decimal `json:"pension_deduction"`
	LoanDeduction    decimal.Decimal `json:"loan_deduction"`
	OtherDeductions  decimal.Decimal `json:"other_deductions"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	NetSalary        decimal.Decimal `json:"net_salary"`
	Status           string          `json:"status"`
	ProcessedBy      *string         `json:"processed_by,omitempty"`
	ProcessedAt      *string         `json:"processed_at,omitempty"`
	PaidAt           *string         `json:"paid_at,omitempty"`
	Notes            *string         `json:"notes,omitempty"`
	CreatedAt        string          `json:"created_at"`
}

func NewPayrollResponse(p Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:               p.ID,
		EmployeeID:       p.EmployeeID,
		EmployeeName:     p.EmployeeName,
		EmployeeCode:     p.EmployeeCode,
		Department:       p.Department,
		PayPeriodStart:   p.PayPeriodStart.Format("2006-01-02"),
		PayPeriodEnd:     p.PayPeriodEnd.Format("2006-01-02"),
		BasicSalary:      p.BasicSalary,
		Allowances:       p.Allowances,
		OvertimePay:      p.OvertimePay,
		GrossSalary:      p.GrossSalary,
		TaxDeduction:     p.TaxDeduction,
		PensionDeduction: p.PensionDeduction,
		LoanDeduction:    p.LoanDeduction,
		OtherDeductions:  p.OtherDeductions,
		TotalDeductions:  p.TotalDeductions,
		NetSalary:        p.NetSalary,
		Status:           string(p.Status),
		ProcessedBy:      p.ProcessedBy,
		Notes:            p.Notes,
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
	}
	if p.ProcessedAt != nil {
		s := p.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &s
	}
	if p.PaidAt != nil {
		s := p.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &s
	}
	return resp
}

type ListPayrollResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Payrolls   []PayrollResponse `json:"payrolls"`
}

type SummaryRequest struct {
	PeriodRequest
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = fieldErrs
	}
	r.PeriodRequest.check(&errs)
	return errs.Err()
}

type SummaryResponse struct {
	PayPeriodStart  string          `json:"pay_period_start"`
	PayPeriodEnd    string          `json:"pay_period_end"`
	Count           int64           `json:"count"`
	Paid            int64           `json:"paid"`
	TotalGross      decimal.Decimal `json:"total_gross"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNet        decimal.Decimal `json:"total_net"`
}
