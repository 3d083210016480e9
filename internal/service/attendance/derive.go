package attendance

import (
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/calendar"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/leave"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/punch"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
)

// DerivationInput carries everything the daily derivation reads. It is
// assembled by the service from repositories so the derivation itself
// stays a pure function, re-runnable with identical output.
type DerivationInput struct {
	EmployeeID string
	Date       time.Time
	Punches    []punch.PunchEvent
	// Resolved is nil when the resolver returned no effective shift.
	Resolved *shift.ResolvedShift
	Holiday  *calendar.Holiday
	// ApprovedLeave is the active approved leave covering the date, nil
	// otherwise.
	ApprovedLeave *leave.Leave
	InRamadan     bool
	IsMuslim      bool
	// PrevDayAttended/NextDayAttended feed the weekend adjacency rule:
	// for a Friday weekend these are the Thursday and Saturday logs.
	PrevDayAttended bool
	NextDayAttended bool
}

// EmptyDay reports whether nothing remains to derive a log from: no
// punches, no approved leave, no holiday and no weekend credit.
func (in DerivationInput) EmptyDay(weekend time.Weekday) bool {
	if len(in.Punches) > 0 || in.ApprovedLeave != nil || in.Holiday != nil {
		return false
	}
	return !(in.Date.Weekday() == weekend && (in.PrevDayAttended || in.NextDayAttended))
}

// Deriver computes one daily attendance log from its inputs.
type Deriver struct {
	WeekendDay time.Weekday
	// RamadanNoBreak skips the break deduction for Muslim employees
	// during Ramadan.
	RamadanNoBreak bool
}

// Derive produces the active log for (employee, date).
func (d Deriver) Derive(in DerivationInput) attendance.AttendanceLog {
	log := attendance.AttendanceLog{
		EmployeeID: in.EmployeeID,
		Date:       shift.DateOnly(in.Date),
		IsActive:   true,
	}
	if in.Resolved != nil {
		shiftID := in.Resolved.ShiftID
		log.ShiftID = &shiftID
	}

	if len(in.Punches) == 0 {
		return d.deriveWithoutPunches(in, log)
	}

	times := make([]time.Time, len(in.Punches))
	for i, p := range in.Punches {
		times[i] = p.Timestamp
	}
	// Night-shift punches straddle midnight: anchor each punch onto the
	// shift's own timeline so a post-midnight out punch sorts after the
	// evening in punch regardless of its calendar day.
	if in.Resolved != nil && in.Resolved.CrossesMidnight() {
		cutoff := nightCutoff(*in.Resolved)
		for i, t := range times {
			anchored := shift.CombineDate(log.Date, t)
			if clockMinutesOf(t) < cutoff {
				anchored = anchored.AddDate(0, 0, 1)
			}
			times[i] = anchored
		}
	}

	firstIn := times[0]
	lastOut := times[0]
	for _, t := range times[1:] {
		if t.Before(firstIn) {
			firstIn = t
		}
		if t.After(lastOut) {
			lastOut = t
		}
	}
	log.FirstInTime = &firstIn
	log.LastOutTime = &lastOut
	log.Source = attendance.SourceMachine
	effectiveOut := lastOut

	if in.Resolved == nil {
		log.Status = attendance.StatusAbsent
		log.TotalWorkMinutes = positiveMinutes(effectiveOut.Sub(firstIn))
		return d.applyPrecedence(in, log)
	}

	shiftStart := shift.CombineDate(log.Date, in.Resolved.StartTime)
	shiftEnd := shift.CombineDate(log.Date, in.Resolved.EndTime)
	if in.Resolved.CrossesMidnight() {
		shiftEnd = shiftEnd.AddDate(0, 0, 1)
	}

	graceUntil := shiftStart.Add(time.Duration(in.Resolved.GraceMinutes) * time.Minute)
	if firstIn.After(graceUntil) {
		log.IsLate = true
		log.LateMinutes = positiveMinutes(firstIn.Sub(shiftStart))
		log.Status = attendance.StatusLate
	} else {
		log.Status = attendance.StatusPresent
	}

	if effectiveOut.Before(shiftEnd) {
		log.EarlyDeparture = true
		log.EarlyMinutes = positiveMinutes(shiftEnd.Sub(effectiveOut))
	}

	worked := positiveMinutes(effectiveOut.Sub(firstIn))
	if !(d.RamadanNoBreak && in.InRamadan && in.IsMuslim) {
		worked -= in.Resolved.BreakMinutes
	}
	if worked < 0 {
		worked = 0
	}
	log.TotalWorkMinutes = worked

	return d.applyPrecedence(in, log)
}

// deriveWithoutPunches handles the punchless branch: leave, then
// holiday, then the weekend adjacency credit, then absent.
func (d Deriver) deriveWithoutPunches(in DerivationInput, log attendance.AttendanceLog) attendance.AttendanceLog {
	if in.ApprovedLeave != nil {
		leaveID := in.ApprovedLeave.ID
		log.Status = attendance.StatusLeave
		log.Source = attendance.SourceLeave
		log.LeaveID = &leaveID
		return log
	}
	if in.Holiday != nil {
		log.Status = attendance.StatusHoliday
		log.Source = attendance.SourceHoliday
		return log
	}
	if log.Date.Weekday() == d.WeekendDay {
		if in.PrevDayAttended || in.NextDayAttended {
			log.Status = attendance.StatusPresent
			log.Source = attendance.SourceFridayRule
			return log
		}
	}
	log.Status = attendance.StatusAbsent
	log.Source = attendance.SourceSystem
	return log
}

// applyPrecedence forces holiday then leave status over a punch-derived
// log; punch times stay recorded either way.
func (d Deriver) applyPrecedence(in DerivationInput, log attendance.AttendanceLog) attendance.AttendanceLog {
	if in.Holiday != nil {
		log.Status = attendance.StatusHoliday
	}
	if in.ApprovedLeave != nil {
		leaveID := in.ApprovedLeave.ID
		log.Status = attendance.StatusLeave
		log.LeaveID = &leaveID
	}
	return log
}

func positiveMinutes(d time.Duration) int {
	m := int(d.Minutes())
	if m < 0 {
		return 0
	}
	return m
}

// nightCutoff is the clock minute splitting the off-duty gap of a
// midnight-crossing shift: punches before it belong to the night that
// started the previous evening, punches after it to the coming one.
// Midpoint between the shift's end and start clocks.
func nightCutoff(res shift.ResolvedShift) int {
	end := clockMinutesOf(res.EndTime)
	start := clockMinutesOf(res.StartTime)
	return end + (start-end)/2
}

func clockMinutesOf(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
