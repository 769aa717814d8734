package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timepolicy"
	"github.com/stretchr/testify/assert"
)

func at(hhmm string) time.Time {
	return timepolicy.MustClockTime(hhmm).On(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
}

func ptr(t time.Time) *time.Time { return &t }

func standardHours() *timepolicy.OfficeHours {
	return &timepolicy.OfficeHours{
		OfficialClockIn:  timepolicy.MustClockTime("09:00"),
		OfficialClockOut: timepolicy.MustClockTime("17:00"),
		GracePeriodIn:    15,
		GracePeriodOut:   15,
		WorkingDays:      []int{1, 2, 3, 4, 5},
	}
}

func TestClassify_WithoutOfficeHours(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		out      string
		status   Status
		hours    float64
		overtime float64
		late     int
	}{
		{"late with overtime", "09:15", "18:00", StatusLate, 8.75, 0.75, 15},
		{"on time with overtime", "08:30", "17:00", StatusPresent, 8.5, 0.5, 0},
		{"exactly at cutoff", "09:00", "17:00", StatusPresent, 8, 0, 0},
		{"short day", "10:00", "13:20", StatusLate, 3.33, 0, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(at(tt.in), ptr(at(tt.out)), nil)
			assert.Equal(t, tt.status, c.Status)
			assert.Equal(t, tt.hours, c.HoursWorked)
			assert.Equal(t, tt.overtime, c.OvertimeHours)
			assert.Equal(t, tt.late, c.LateMinutes)
			assert.Zero(t, c.EarlyMinutes)
		})
	}
}

func TestClassify_ClockInOnly(t *testing.T) {
	c := Classify(at("09:30"), nil, nil)
	assert.Equal(t, StatusLate, c.Status)
	assert.Equal(t, 30, c.LateMinutes)
	assert.Zero(t, c.HoursWorked)
	assert.Zero(t, c.OvertimeHours)
}

func TestClassify_WithOfficeHours(t *testing.T) {
	oh := standardHours()

	t.Run("within grace", func(t *testing.T) {
		c := Classify(at("09:10"), ptr(at("17:00")), oh)
		assert.Equal(t, StatusPresent, c.Status)
		assert.Zero(t, c.LateMinutes)
		assert.Equal(t, 7.83, c.HoursWorked)
	})

	t.Run("late counts from official start", func(t *testing.T) {
		c := Classify(at("09:20"), ptr(at("17:00")), oh)
		assert.Equal(t, StatusLate, c.Status)
		assert.Equal(t, 20, c.LateMinutes)
		assert.Equal(t, "Late by 20 minutes", c.LateNote())
	})

	t.Run("early departure is noted only", func(t *testing.T) {
		c := Classify(at("09:00"), ptr(at("16:30")), oh)
		assert.Equal(t, StatusPresent, c.Status)
		assert.Equal(t, 30, c.EarlyMinutes)
		assert.Equal(t, "Early by 30 minutes", c.EarlyNote())
	})

	t.Run("overtime beyond the official span", func(t *testing.T) {
		c := Classify(at("08:00"), ptr(at("18:30")), oh)
		assert.Equal(t, 10.5, c.HoursWorked)
		assert.Equal(t, 2.5, c.OvertimeHours)
	})
}

func TestNotes(t *testing.T) {
	via := &QRSource{LocationID: "loc-1", LocationName: "HQ"}
	late := Classification{Status: StatusLate, LateMinutes: 20}
	early := Classification{EarlyMinutes: 30}

	assert.Equal(t, "QR Clock-in at HQ (Late by 20 minutes)", ClockInNote(late, via))
	assert.Equal(t, "QR Clock-in at HQ", ClockInNote(Classification{}, via))
	assert.Equal(t, "Late by 20 minutes", ClockInNote(late, nil))
	assert.Equal(t, "", ClockInNote(Classification{}, nil))
	assert.Equal(t, "QR Clock-out at HQ (Early by 30 minutes)", ClockOutNote(early, via))

	notes := AppendNote(nil, ClockInNote(Classification{}, via))
	notes = AppendNote(notes, ClockOutNote(Classification{}, via))
	assert.Equal(t, "QR Clock-in at HQ | QR Clock-out at HQ", *notes)

	assert.Nil(t, AppendNote(nil, ""))
}

func TestStateOf(t *testing.T) {
	in := at("09:00")
	out := at("17:00")

	assert.Equal(t, StateNoRecord, StateOf(nil))
	assert.Equal(t, StateNoRecord, StateOf(&Attendance{Status: StatusAbsent}))
	assert.Equal(t, StateClockedIn, StateOf(&Attendance{CheckIn: &in}))
	assert.Equal(t, StateClockedOut, StateOf(&Attendance{CheckIn: &in, CheckOut: &out}))
}
