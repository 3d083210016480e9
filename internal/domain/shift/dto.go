package shift

import "time"

// WindowSource identifies which precedence level produced the effective
// window.
type WindowSource string

const (
	SourceOverride     WindowSource = "override"
	SourceDateSpecific WindowSource = "date_specific"
	SourceRamadan      WindowSource = "ramadan"
	SourceShift        WindowSource = "shift"
)

// ResolvedShift is the effective shift window for (employee, date).
type ResolvedShift struct {
	ShiftID      string
	ShiftName    string
	ShiftType    ShiftType
	StartTime    time.Time
	EndTime      time.Time
	BreakMinutes int
	GraceMinutes int
	Priority     int
	Source       WindowSource

	IsDateSpecific bool
	IsRamadan      bool
	IsOverridden   bool
}

// CrossesMidnight reports whether the effective window wraps past
// midnight.
func (r ResolvedShift) CrossesMidnight() bool {
	return clockMinutes(r.EndTime) < clockMinutes(r.StartTime)
}

type CreateShiftRequest struct {
	Name             string    `json:"name"`
	Type             ShiftType `json:"type"`
	StartTime        string    `json:"start_time"`
	EndTime          string    `json:"end_time"`
	BreakMinutes     int       `json:"break_minutes"`
	GraceMinutes     int       `json:"grace_minutes"`
	RamadanStartTime *string   `json:"ramadan_start_time,omitempty"`
	RamadanEndTime   *string   `json:"ramadan_end_time,omitempty"`
	Priority         *int      `json:"priority,omitempty"`
}

type CreateAssignmentRequest struct {
	EmployeeID string  `json:"employee_id"`
	ShiftID    string  `json:"shift_id"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date,omitempty"`
	CreatedBy  *string `json:"-"`
}

type DateSpecificShiftRequest struct {
	ShiftID   string `json:"shift_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type TypeOverrideRequest struct {
	Date      string    `json:"date"`
	ShiftType ShiftType `json:"shift_type"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
}

type ScheduleEntry struct {
	Date     time.Time
	Resolved *ResolvedShift
}
