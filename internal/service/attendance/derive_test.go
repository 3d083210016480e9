package attendance

import (
	"testing"
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/calendar"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/leave"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/punch"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
	"github.com/stretchr/testify/assert"
)

var riyadh = time.FixedZone("AST", 3*60*60)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, riyadh)
}

func at(date time.Time, hour, min int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, min, 0, 0, riyadh)
}

func clock(hour, min int) time.Time {
	return time.Date(0, 1, 1, hour, min, 0, 0, time.UTC)
}

func punches(ts ...time.Time) []punch.PunchEvent {
	out := make([]punch.PunchEvent, 0, len(ts))
	for _, t := range ts {
		out = append(out, punch.PunchEvent{EmployeeID: "emp-1", Timestamp: t, IsActive: true})
	}
	return out
}

func dayShift() *shift.ResolvedShift {
	return &shift.ResolvedShift{
		ShiftID:      "shift-day",
		ShiftName:    "Day",
		ShiftType:    shift.TypeRegular,
		StartTime:    clock(9, 0),
		EndTime:      clock(17, 0),
		BreakMinutes: 60,
		GraceMinutes: 15,
		Source:       shift.SourceShift,
	}
}

func newDeriver() Deriver {
	return Deriver{WeekendDay: time.Friday, RamadanNoBreak: true}
}

func TestDeriveOnTime(t *testing.T) {
	date := day(2025, time.June, 2) // Monday
	log := newDeriver().Derive(DerivationInput{
		EmployeeID: "emp-1",
		Date:       date,
		Punches:    punches(at(date, 8, 55), at(date, 17, 5)),
		Resolved:   dayShift(),
	})

	assert.Equal(t, attendance.StatusPresent, log.Status)
	assert.Equal(t, attendance.SourceMachine, log.Source)
	assert.False(t, log.IsLate)
	assert.False(t, log.EarlyDeparture)
	// 8h10m span minus 60m break
	assert.Equal(t, 430, log.TotalWorkMinutes)
}

func TestDeriveLateBeyondGrace(t *testing.T) {
	date := day(2025, time.June, 2)
	log := newDeriver().Derive(DerivationInput{
		EmployeeID: "emp-1",
		Date:       date,
		Punches:    punches(at(date, 9, 20), at(date, 17, 0)),
		Resolved:   dayShift(),
	})

	assert.Equal(t, attendance.StatusLate, log.Status)
	assert.True(t, log.IsLate)
	// Lateness counts from shift start, not from grace expiry.
	assert.Equal(t, 20, log.LateMinutes)
}

func TestDeriveWithinGraceIsPresent(t *testing.T) {
	date := day(2025, time.June, 2)
	log := newDeriver().Derive(DerivationInput{
		EmployeeID: "emp-1",
		Date:       date,
		Punches:    punches(at(date, 9, 14), at(date, 17, 0)),
		Resolved:   dayShift(),
	})

	assert.Equal(t, attendance.StatusPresent, log.Status)
	assert.Zero(t, log.LateMinutes)
}

func TestDeriveEarlyDeparture(t *testing.T) {
	date := day(2025, time.June, 2)
	log := newDeriver().Derive(DerivationInput{
		EmployeeID: "emp-1",
		Date:       date,
		Punches:    punches(at(date, 9, 0), at(date, 16, 0)),
		Resolved:   dayShift(),
	})

	assert.True(t, log.EarlyDeparture)
	assert.Equal(t, 60, log.EarlyMinutes)
}

func TestDeriveNightShiftCrossesMidnight(t *testing.T) {
	date := day(2025, time.June, 2)
	night := &shift.ResolvedShift{
		ShiftID:      "shift-night",
		ShiftType:    shift.TypeNight,
		StartTime:    clock(22, 0),
		EndTime:      clock(6, 0),
		BreakMinutes: 60,
		GraceMinutes: 15,
		Source:       shift.SourceShift,
	}
	// Out punch lands on the same date's clock but before the in punch:
	// it belongs to the next calendar day.
	log := newDeriver().Derive(DerivationInput{
		EmployeeID: "emp-1",
		Date:       date,
		Punches:    punches(at(date, 22, 0), at(date, 5, 30)),
		Resolved:   night,
	})

	assert.Equal(t, attendance.StatusPresent, log.Status)
	// 7h30m spanning midnight minus break
	assert.Equal(t, 390, log.TotalWorkMinutes)
	assert.True(t, log.EarlyDeparture)
	assert.Equal(t, 30, log.EarlyMinutes)
}

func TestDeriveNightShiftOutPunchOnNextCalendarDay(t *testing.T) {
	date := day(2025, time.June, 2)
	night := &shift.ResolvedShift{
		ShiftID:      "shift-night",
		ShiftType:    shift.TypeNight,
		StartTime:    clock(22, 0),
		EndTime:      clock(6, 0),
		BreakMinutes: 60,
		GraceMinutes: 15,
		Source:       shift.SourceShift,
	}
	// Same shift whether the out punch carries this date's clock or the
	// next day's real timestamp.
	log := newDeriver().Derive(DerivationInput{
		EmployeeID: "emp-1",
		Date:       date,
		Punches:    punches(at(date, 22, 0), at(date.AddDate(0, 0, 1), 5, 30)),
		Resolved:   night,
	})

	assert.Equal(t, attendance.StatusPresent, log.Status)
	assert.Equal(t, 390, log.TotalWorkMinutes)
	assert.Equal(t, 30, log.EarlyMinutes)
}

func TestDeriveNightShiftOvertimeOut(t *testing.T) {
	date := day(2025, time.June, 2)
	night := &shift.ResolvedShift{
		ShiftID:      "shift-night",
		ShiftType:    shift.TypeNight,
		StartTime:    clock(22, 0),
		EndTime:      clock(6, 0),
		BreakMinutes: 60,
		GraceMinutes: 15,
		Source:       shift.SourceShift,
	}
	// Out at 07:10 is past shift end, not a next-evening in punch.
	log := newDeriver().Derive(DerivationInput{
		EmployeeID: "emp-1",
		Date:       date,
		Punches:    punches(at(date, 22, 0), at(date.AddDate(0, 0, 1), 7, 10)),
		Resolved:   night,
	})

	assert.Equal(t, attendance.StatusPresent, log.Status)
	assert.False(t, log.EarlyDeparture)
	// 9h10m minus break
	assert.Equal(t, 490, log.TotalWorkMinutes)
}

func TestDeriveRamadanNoBreakDeduction(t *testing.T) {
	date := day(2026, time.March, 2)
	in := DerivationInput{
		EmployeeID: "emp-1",
		Date:       date,
		Punches:    punches(at(date, 9, 0), at(date, 15, 0)),
		Resolved:   dayShift(),
		InRamadan:  true,
		IsMuslim:   true,
	}

	log := newDeriver().Derive(in)
	assert.Equal(t, 360, log.TotalWorkMinutes)

	in.IsMuslim = false
	log = newDeriver().Derive(in)
	assert.Equal(t, 300, log.TotalWorkMinutes)
}

func TestDeriveHolidayOverridesPunches(t *testing.T) {
	date := day(2025, time.June, 2)
	log := newDeriver().Derive(DerivationInput{
		EmployeeID: "emp-1",
		Date:       date,
		Punches:    punches(at(date, 9, 0), at(date, 17, 0)),
		Resolved:   dayShift(),
		Holiday:    &calendar.Holiday{ID: "hol-1", Name: "National Day"},
	})

	assert.Equal(t, attendance.StatusHoliday, log.Status)
	// Punch times stay on the record.
	assert.NotNil(t, log.FirstInTime)
	assert.NotNil(t, log.LastOutTime)
}

func TestDeriveLeaveWinsOverHoliday(t *testing.T) {
	date := day(2025, time.June, 2)
	log := newDeriver().Derive(DerivationInput{
		EmployeeID:    "emp-1",
		Date:          date,
		Resolved:      dayShift(),
		Holiday:       &calendar.Holiday{ID: "hol-1"},
		ApprovedLeave: &leave.Leave{ID: "leave-1"},
	})

	assert.Equal(t, attendance.StatusLeave, log.Status)
	assert.NotNil(t, log.LeaveID)
	assert.Equal(t, "leave-1", *log.LeaveID)
}

func TestDeriveWeekendAdjacencyCredit(t *testing.T) {
	friday := day(2025, time.June, 6)

	log := newDeriver().Derive(DerivationInput{
		EmployeeID:      "emp-1",
		Date:            friday,
		Resolved:        dayShift(),
		PrevDayAttended: true,
	})
	assert.Equal(t, attendance.StatusPresent, log.Status)
	assert.Equal(t, attendance.SourceFridayRule, log.Source)

	log = newDeriver().Derive(DerivationInput{
		EmployeeID: "emp-1",
		Date:       friday,
		Resolved:   dayShift(),
	})
	assert.Equal(t, attendance.StatusAbsent, log.Status)
	assert.Equal(t, attendance.SourceSystem, log.Source)
}

func TestDeriveWeekendRuleOnlyOnWeekendDay(t *testing.T) {
	monday := day(2025, time.June, 2)
	log := newDeriver().Derive(DerivationInput{
		EmployeeID:      "emp-1",
		Date:            monday,
		Resolved:        dayShift(),
		PrevDayAttended: true,
		NextDayAttended: true,
	})
	assert.Equal(t, attendance.StatusAbsent, log.Status)
}

func TestDeriveNoShiftRecordsRawSpan(t *testing.T) {
	date := day(2025, time.June, 2)
	log := newDeriver().Derive(DerivationInput{
		EmployeeID: "emp-1",
		Date:       date,
		Punches:    punches(at(date, 10, 0), at(date, 14, 30)),
	})

	assert.Equal(t, attendance.StatusAbsent, log.Status)
	assert.Nil(t, log.ShiftID)
	assert.Equal(t, 270, log.TotalWorkMinutes)
}

func TestDeriveIsDeterministic(t *testing.T) {
	date := day(2025, time.June, 2)
	in := DerivationInput{
		EmployeeID: "emp-1",
		Date:       date,
		Punches:    punches(at(date, 9, 30), at(date, 12, 0), at(date, 17, 45)),
		Resolved:   dayShift(),
	}

	first := newDeriver().Derive(in)
	second := newDeriver().Derive(in)
	assert.Equal(t, first, second)
}
