package shift

import (
	"time"
)

type ShiftType string

const (
	TypeDefault  ShiftType = "DEFAULT"
	TypeNight    ShiftType = "NIGHT"
	TypeOpen     ShiftType = "OPEN"
	TypeRegular  ShiftType = "REGULAR"
	TypeFlexible ShiftType = "FLEXIBLE"
	TypeSplit    ShiftType = "SPLIT"
	TypeRamadan  ShiftType = "RAMADAN"
)

// DefaultPriority returns the baseline priority for a shift type when a
// row does not set one explicitly. Higher wins on overlapping
// assignments.
func DefaultPriority(t ShiftType) int {
	switch t {
	case TypeNight:
		return 30
	case TypeOpen:
		return 20
	case TypeDefault:
		return 10
	default:
		return 15
	}
}

// Shift start/end times carry only the clock component; the date part is
// the zero date and must be combined with a concrete day via CombineDate.
type Shift struct {
	ID               string
	Name             string
	Type             ShiftType
	StartTime        time.Time
	EndTime          time.Time
	BreakMinutes     int
	GraceMinutes     int
	RamadanStartTime *time.Time
	RamadanEndTime   *time.Time
	Priority         int
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CrossesMidnight reports whether the shift window wraps past midnight.
func (s Shift) CrossesMidnight() bool {
	return clockMinutes(s.EndTime) < clockMinutes(s.StartTime)
}

type ShiftAssignment struct {
	ID         string
	EmployeeID string
	ShiftID    string
	StartDate  time.Time
	EndDate    *time.Time
	IsActive   bool
	CreatedBy  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO
	ShiftName     *string
	ShiftType     *ShiftType
	ShiftPriority *int
}

// Covers reports whether the assignment is in force on the given date.
func (a ShiftAssignment) Covers(date time.Time) bool {
	d := DateOnly(date)
	if d.Before(DateOnly(a.StartDate)) {
		return false
	}
	if a.EndDate != nil && d.After(DateOnly(*a.EndDate)) {
		return false
	}
	return true
}

// IsSingleDay reports whether the assignment covers exactly one date.
func (a ShiftAssignment) IsSingleDay() bool {
	return a.EndDate != nil && DateOnly(a.StartDate).Equal(DateOnly(*a.EndDate))
}

// DateSpecificShift overrides a shift's window on a single date.
// Unique on (shift_id, date).
type DateSpecificShift struct {
	ID        string
	ShiftID   string
	Date      time.Time
	StartTime time.Time
	EndTime   time.Time
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DateSpecificShiftOverride overrides every shift of a type on a single
// date. Night overrides are keyed by (date, NIGHT) regardless of which
// NIGHT shift row an employee is assigned to.
type DateSpecificShiftOverride struct {
	ID        string
	Date      time.Time
	ShiftType ShiftType
	StartTime time.Time
	EndTime   time.Time
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DateOnly truncates a timestamp to its date in the timestamp's location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CombineDate anchors a clock-only time onto a concrete date.
func CombineDate(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, date.Location())
}

// ParseClock parses a "15:04" or "15:04:05" clock string.
func ParseClock(s string) (time.Time, error) {
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t, nil
	}
	return time.Parse("15:04", s)
}

func clockMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
