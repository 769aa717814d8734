package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timepolicy"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/utils"
)

const (
	// DefaultLateCutoff applies when no default office hours are configured.
	DefaultLateCutoff = timepolicy.ClockTime(9 * 60)
	// DefaultOvertimeThreshold applies when no default office hours are configured.
	DefaultOvertimeThreshold = 8 * time.Hour
)

type Classification struct {
	Status        Status
	HoursWorked   float64
	OvertimeHours float64
	LateMinutes   int
	EarlyMinutes  int
}

func (c Classification) LateNote() string {
	if c.LateMinutes <= 0 {
		return ""
	}
	return fmt.Sprintf("Late by %d minutes", c.LateMinutes)
}

func (c Classification) EarlyNote() string {
	if c.EarlyMinutes <= 0 {
		return ""
	}
	return fmt.Sprintf("Early by %d minutes", c.EarlyMinutes)
}

// Classify derives status, hours and overtime for a check-in and optional
// check-out. Both instants must already be in the business time zone.
// With oh == nil lateness is judged against 09:00 and overtime against 8h;
// early departure is only detected with office hours.
func Classify(checkIn time.Time, checkOut *time.Time, oh *timepolicy.OfficeHours) Classification {
	c := Classification{Status: StatusPresent}

	officialIn := DefaultLateCutoff.On(checkIn)
	lateAfter := officialIn
	threshold := DefaultOvertimeThreshold
	if oh != nil {
		officialIn = oh.OfficialClockIn.On(checkIn)
		lateAfter = oh.LateAfter(checkIn)
		threshold = oh.Span()
	}

	if checkIn.After(lateAfter) {
		c.Status = StatusLate
		c.LateMinutes = int(checkIn.Sub(officialIn) / time.Minute)
	}

	if checkOut == nil {
		return c
	}

	c.HoursWorked = utils.RoundTo(checkOut.Sub(checkIn).Hours(), 2)
	if overtime := utils.RoundTo(c.HoursWorked-threshold.Hours(), 2); overtime > 0 {
		c.OvertimeHours = overtime
	}

	if oh != nil && checkOut.Before(oh.EarlyBefore(checkIn)) {
		c.EarlyMinutes = int(oh.OfficialClockOut.On(checkIn).Sub(*checkOut) / time.Minute)
	}
	return c
}

// ClockInNote is the note written when a record is clocked into.
func ClockInNote(c Classification, via *QRSource) string {
	if via == nil {
		return c.LateNote()
	}
	return withDetail("QR Clock-in at "+via.LocationName, c.LateNote())
}

// ClockOutNote is the note appended when a record is clocked out of.
func ClockOutNote(c Classification, via *QRSource) string {
	if via == nil {
		return c.EarlyNote()
	}
	return withDetail("QR Clock-out at "+via.LocationName, c.EarlyNote())
}

// AppendNote joins note onto existing with " | ", returning nil when both
// are empty.
func AppendNote(existing *string, note string) *string {
	var parts []string
	if existing != nil && strings.TrimSpace(*existing) != "" {
		parts = append(parts, *existing)
	}
	if note != "" {
		parts = append(parts, note)
	}
	if len(parts) == 0 {
		return existing
	}
	joined := strings.Join(parts, " | ")
	return &joined
}

func withDetail(base, detail string) string {
	if detail == "" {
		return base
	}
	return base + " (" + detail + ")"
}
