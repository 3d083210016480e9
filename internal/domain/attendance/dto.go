package attendance

import "time"

// ManualLogRequest corrects one day's log by hand. Manual logs are
// pinned: recomputation never overwrites them.
type ManualLogRequest struct {
	EmployeeID  string  `json:"employee_id"`
	Date        string  `json:"date"`
	FirstInTime *string `json:"first_in_time,omitempty"`
	LastOutTime *string `json:"last_out_time,omitempty"`
	Status      Status  `json:"status"`
}

type LogFilter struct {
	DepartmentID *string
	Status       *Status
	// Search matches employee name or number, case-insensitive.
	Search *string
	Page   int
	Limit  int
}

// EventKind classifies a calendar event row.
type EventKind string

const (
	EventAttendance EventKind = "attendance"
	EventHoliday    EventKind = "holiday"
	EventLeave      EventKind = "leave"
	EventShift      EventKind = "shift"
)

// CalendarEvent is a display-ready row for the schedule calendar. The
// display layer maps ColorClass to UI affordances.
type CalendarEvent struct {
	Kind       EventKind `json:"kind"`
	Date       time.Time `json:"date"`
	EmployeeID string    `json:"employee_id,omitempty"`
	Title      string    `json:"title"`
	ColorClass string    `json:"color_class"`
	Tooltip    string    `json:"tooltip,omitempty"`
	LateBy     int       `json:"late_by,omitempty"`
	EarlyBy    int       `json:"early_by,omitempty"`
}

// DepartmentMetrics aggregates one department's logs for one date.
type DepartmentMetrics struct {
	Date            time.Time `json:"date"`
	DepartmentID    string    `json:"department_id"`
	PresentCount    int       `json:"present_count"`
	LateCount       int       `json:"late_count"`
	AbsentCount     int       `json:"absent_count"`
	LeaveCount      int       `json:"leave_count"`
	HolidayCount    int       `json:"holiday_count"`
	AvgWorkMinutes  int       `json:"avg_work_minutes"`
	TotalEmployees  int       `json:"total_employees"`
}

// ColorClassFor maps an attendance status to its display color class.
func ColorClassFor(kind EventKind, status Status) string {
	switch kind {
	case EventHoliday:
		return "event-holiday"
	case EventLeave:
		return "event-leave"
	case EventShift:
		return "event-shift"
	}
	switch status {
	case StatusPresent:
		return "event-present"
	case StatusLate:
		return "event-late"
	case StatusLeave:
		return "event-leave"
	case StatusHoliday:
		return "event-holiday"
	default:
		return "event-absent"
	}
}
