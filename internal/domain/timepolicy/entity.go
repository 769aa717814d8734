package timepolicy

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ClockTime is a wall-clock time of day in minutes since midnight.
type ClockTime int

func ParseClockTime(s string) (ClockTime, error) {
	minutes, ok := validator.ParseClock(s)
	if !ok {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	return ClockTime(minutes), nil
}

func MustClockTime(s string) ClockTime {
	c, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// On returns the instant at c on day's calendar date, in day's location.
func (c ClockTime) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, int(c)/60, int(c)%60, 0, 0, day.Location())
}

func (c ClockTime) Duration() time.Duration {
	return time.Duration(c) * time.Minute
}

type OfficeHours struct {
	ID                string
	Name              string
	OfficialClockIn   ClockTime
	OfficialClockOut  ClockTime
	GracePeriodIn     int // minutes
	GracePeriodOut    int // minutes
	BreakStart        *ClockTime
	BreakDuration     int // minutes
	WorkingDays       []int
	AllowEarlyClockIn bool
	AllowLateClockOut bool
	IsActive          bool
	IsDefault         bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Span is the official working window used as the overtime threshold.
func (o OfficeHours) Span() time.Duration {
	return (o.OfficialClockOut - o.OfficialClockIn).Duration()
}

// LateAfter is the latest check-in on day that still counts as on time.
func (o OfficeHours) LateAfter(day time.Time) time.Time {
	return o.OfficialClockIn.On(day).Add(time.Duration(o.GracePeriodIn) * time.Minute)
}

// EarlyBefore is the earliest check-out on day that is not an early departure.
func (o OfficeHours) EarlyBefore(day time.Time) time.Time {
	return o.OfficialClockOut.On(day).Add(-time.Duration(o.GracePeriodOut) * time.Minute)
}

// IsWorkingDay uses ISO weekdays (1 = Monday ... 7 = Sunday).
func (o OfficeHours) IsWorkingDay(day time.Weekday) bool {
	iso := int(day)
	if iso == 0 {
		iso = 7
	}
	for _, d := range o.WorkingDays {
		if d == iso {
			return true
		}
	}
	return false
}

func FormatWorkingDays(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// ParseWorkingDays parses "1,2,3,4,5" into ISO weekdays, rejecting
// duplicates and values outside 1..7.
func ParseWorkingDays(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("working days must not be empty")
	}
	seen := make(map[int]bool)
	var days []int
	for _, part := range strings.Split(s, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || d < 1 || d > 7 {
			return nil, fmt.Errorf("invalid working day %q", part)
		}
		if seen[d] {
			return nil, fmt.Errorf("duplicate working day %d", d)
		}
		seen[d] = true
		days = append(days, d)
	}
	return days, nil
}

type PenaltyType string

const (
	PenaltyNone       PenaltyType = "none"
	PenaltyFixed      PenaltyType = "fixed"
	PenaltyPercentage PenaltyType = "percentage"
)

type Penalty struct {
	Type             PenaltyType
	Amount           decimal.Decimal
	ThresholdMinutes int
}

type AttendancePolicy struct {
	ID                       string
	Name                     string
	LatePenalty              Penalty
	EarlyPenalty             Penalty
	AbsencePenalty           Penalty
	OvertimeRate             decimal.Decimal
	OvertimeThresholdMinutes int
	// Default rates for bulk payroll processing
	AllowanceRate decimal.Decimal
	TaxRate       decimal.Decimal
	PensionRate   decimal.Decimal
	IsActive      bool
	IsDefault     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
