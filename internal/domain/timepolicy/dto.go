package timepolicy

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== OFFICE HOURS DTOs ==========

type OfficeHoursRequest struct {
	ID                string  `json:"-"`
	Name              string  `json:"name" validate:"required,max=100"`
	OfficialClockIn   string  `json:"official_clock_in" validate:"required,clock"`
	OfficialClockOut  string  `json:"official_clock_out" validate:"required,clock"`
	GracePeriodIn     *int    `json:"grace_period_in,omitempty" validate:"omitempty,gte=0,lte=240"`
	GracePeriodOut    *int    `json:"grace_period_out,omitempty" validate:"omitempty,gte=0,lte=240"`
	BreakStart        *string `json:"break_start,omitempty" validate:"omitempty,clock"`
	BreakDuration     *int    `json:"break_duration,omitempty" validate:"omitempty,gte=0,lte=240"`
	WorkingDays       string  `json:"working_days" validate:"omitempty,max=20"`
	AllowEarlyClockIn *bool   `json:"allow_early_clock_in,omitempty"`
	AllowLateClockOut *bool   `json:"allow_late_clock_out,omitempty"`
	IsDefault         bool    `json:"is_default"`
}

// Validate checks the request and converts it into an OfficeHours value
// with defaults applied.
func (r *OfficeHoursRequest) Validate() (OfficeHours, error) {
	if err := validator.Struct(r); err != nil {
		return OfficeHours{}, err
	}

	var errs validator.ValidationErrors
	in := MustClockTime(r.OfficialClockIn)
	out := MustClockTime(r.OfficialClockOut)
	if out <= in {
		errs.Add("official_clock_out", "official_clock_out must be after official_clock_in")
	}

	workingDays := r.WorkingDays
	if workingDays == "" {
		workingDays = "1,2,3,4,5"
	}
	days, err := ParseWorkingDays(workingDays)
	if err != nil {
		errs.Add("working_days", err.Error())
	}

	if err := errs.Err(); err != nil {
		return OfficeHours{}, err
	}

	oh := OfficeHours{
		ID:                r.ID,
		Name:              r.Name,
		OfficialClockIn:   in,
		OfficialClockOut:  out,
		GracePeriodIn:     intOr(r.GracePeriodIn, 15),
		GracePeriodOut:    intOr(r.GracePeriodOut, 15),
		BreakDuration:     intOr(r.BreakDuration, 60),
		WorkingDays:       days,
		AllowEarlyClockIn: boolOr(r.AllowEarlyClockIn, true),
		AllowLateClockOut: boolOr(r.AllowLateClockOut, true),
		IsActive:          true,
		IsDefault:         r.IsDefault,
	}
	if r.BreakStart != nil {
		bs := MustClockTime(*r.BreakStart)
		oh.BreakStart = &bs
	}
	return oh, nil
}

type OfficeHoursResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	OfficialClockIn   string  `json:"official_clock_in"`
	OfficialClockOut  string  `json:"official_clock_out"`
	GracePeriodIn     int     `json:"grace_period_in"`
	GracePeriodOut    int     `json:"grace_period_out"`
	BreakStart        *string `json:"break_start,omitempty"`
	BreakDuration     int     `json:"break_duration"`
	WorkingDays       string  `json:"working_days"`
	AllowEarlyClockIn bool    `json:"allow_early_clock_in"`
	AllowLateClockOut bool    `json:"allow_late_clock_out"`
	IsActive          bool    `json:"is_active"`
	IsDefault         bool    `json:"is_default"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

func NewOfficeHoursResponse(o OfficeHours) OfficeHoursResponse {
	resp := OfficeHoursResponse{
		ID:                o.ID,
		Name:              o.Name,
		OfficialClockIn:   o.OfficialClockIn.String(),
		OfficialClockOut:  o.OfficialClockOut.String(),
		GracePeriodIn:     o.GracePeriodIn,
		GracePeriodOut:    o.GracePeriodOut,
		BreakDuration:     o.BreakDuration,
		WorkingDays:       FormatWorkingDays(o.WorkingDays),
		AllowEarlyClockIn: o.AllowEarlyClockIn,
		AllowLateClockOut: o.AllowLateClockOut,
		IsActive:          o.IsActive,
		IsDefault:         o.IsDefault,
		CreatedAt:         o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         o.UpdatedAt.Format(time.RFC3339),
	}
	if o.BreakStart != nil {
		s := o.BreakStart.String()
		resp.BreakStart = &s
	}
	return resp
}

// ========== ATTENDANCE POLICY DTOs ==========

type PenaltyRequest struct {
	Type             string          `json:"type" validate:"omitempty,oneof=none fixed percentage"`
	Amount           decimal.Decimal `json:"amount"`
	ThresholdMinutes int             `json:"threshold_minutes" validate:"gte=0"`
}

type AttendancePolicyRequest struct {
	ID                       string           `json:"-"`
	Name                     string           `json:"name" validate:"required,max=100"`
	LatePenalty              PenaltyRequest   `json:"late_penalty"`
	EarlyPenalty             PenaltyRequest   `json:"early_penalty"`
	AbsencePenalty           PenaltyRequest   `json:"absence_penalty"`
	OvertimeRate             *decimal.Decimal `json:"overtime_rate,omitempty"`
	OvertimeThresholdMinutes *int             `json:"overtime_threshold_minutes,omitempty" validate:"omitempty,gte=0,lte=1440"`
	AllowanceRate            *decimal.Decimal `json:"allowance_rate,omitempty"`
	TaxRate                  *decimal.Decimal `json:"tax_rate,omitempty"`
	PensionRate              *decimal.Decimal `json:"pension_rate,omitempty"`
	IsDefault                bool             `json:"is_default"`
}

// Validate checks the request and converts it into an AttendancePolicy
// with defaults applied.
func (r *AttendancePolicyRequest) Validate() (AttendancePolicy, error) {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return AttendancePolicy{}, err
		}
		errs = fieldErrs
	}

	one := decimal.NewFromInt(1)
	checkRate := func(field string, v *decimal.Decimal) {
		if v != nil && (v.IsNegative() || v.GreaterThan(one)) {
			errs.Add(field, field+" must be between 0 and 1")
		}
	}
	checkRate("allowance_rate", r.AllowanceRate)
	checkRate("tax_rate", r.TaxRate)
	checkRate("pension_rate", r.PensionRate)

	if r.OvertimeRate != nil && r.OvertimeRate.LessThan(one) {
		errs.Add("overtime_rate", "overtime_rate must be at least 1")
	}
	for field, p := range map[string]PenaltyRequest{
		"late_penalty":    r.LatePenalty,
		"early_penalty":   r.EarlyPenalty,
		"absence_penalty": r.AbsencePenalty,
	} {
		if p.Amount.IsNegative() {
			errs.Add(field+".amount", "amount must be non-negative")
		}
		if PenaltyType(p.Type) == PenaltyPercentage && p.Amount.GreaterThan(decimal.NewFromInt(100)) {
			errs.Add(field+".amount", "percentage must not exceed 100")
		}
	}

	if err := errs.Err(); err != nil {
		return AttendancePolicy{}, err
	}

	return AttendancePolicy{
		ID:                       r.ID,
		Name:                     r.Name,
		LatePenalty:              r.LatePenalty.toPenalty(),
		EarlyPenalty:             r.EarlyPenalty.toPenalty(),
		AbsencePenalty:           r.AbsencePenalty.toPenalty(),
		OvertimeRate:             decimalOr(r.OvertimeRate, decimal.RequireFromString("1.5")),
		OvertimeThresholdMinutes: intOr(r.OvertimeThresholdMinutes, 480),
		AllowanceRate:            decimalOr(r.AllowanceRate, decimal.RequireFromString("0.10")),
		TaxRate:                  decimalOr(r.TaxRate, decimal.RequireFromString("0.15")),
		PensionRate:              decimalOr(r.PensionRate, decimal.RequireFromString("0.05")),
		IsActive:                 true,
		IsDefault:                r.IsDefault,
	}, nil
}

func (p PenaltyRequest) toPenalty() Penalty {
	t := PenaltyType(p.Type)
	if t == "" {
		t = PenaltyNone
	}
	return Penalty{Type: t, Amount: p.Amount, ThresholdMinutes: p.ThresholdMinutes}
}

type PenaltyResponse struct {
	Type             string          `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	ThresholdMinutes int             `json:"threshold_minutes"`
}

type AttendancePolicyResponse struct {
	ID                       string          `json:"id"`
	Name                     string          `json:"name"`
	LatePenalty              PenaltyResponse `json:"late_penalty"`
	EarlyPenalty             PenaltyResponse `json:"early_penalty"`
	AbsencePenalty           PenaltyResponse `json:"absence_penalty"`
	OvertimeRate             decimal.Decimal `json:"overtime_rate"`
	OvertimeThresholdMinutes int             `json:"overtime_threshold_minutes"`
	AllowanceRate            decimal.Decimal `json:"allowance_rate"`
	TaxRate                  decimal.Decimal `json:"tax_rate"`
	PensionRate              decimal.Decimal `json:"pension_rate"`
	IsActive                 bool            `json:"is_active"`
	IsDefault                bool            `json:"is_default"`
	CreatedAt                string          `json:"created_at"`
	UpdatedAt                string          `json:"updated_at"`
}

func NewAttendancePolicyResponse(p AttendancePolicy) AttendancePolicyResponse {
	penalty := func(x Penalty) PenaltyResponse {
		return PenaltyResponse{Type: string(x.Type), Amount: x.Amount, ThresholdMinutes: x.ThresholdMinutes}
	}
	return AttendancePolicyResponse{
		ID:                       p.ID,
		Name:                     p.Name,
		LatePenalty:              penalty(p.LatePenalty),
		EarlyPenalty:             penalty(p.EarlyPenalty),
		AbsencePenalty:           penalty(p.AbsencePenalty),
		OvertimeRate:             p.OvertimeRate,
		OvertimeThresholdMinutes: p.OvertimeThresholdMinutes,
		AllowanceRate:            p.AllowanceRate,
		TaxRate:                  p.TaxRate,
		PensionRate:              p.PensionRate,
		IsActive:                 p.IsActive,
		IsDefault:                p.IsDefault,
		CreatedAt:                p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:                p.UpdatedAt.Format(time.RFC3339),
	}
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func decimalOr(v *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if v == nil {
		return fallback
	}
	return *v
}
