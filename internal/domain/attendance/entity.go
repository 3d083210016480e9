package attendance

import "time"

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusLeave   Status = "leave"
	StatusHoliday Status = "holiday"
)

type Source string

const (
	SourceSystem     Source = "system"
	SourceManual     Source = "manual"
	SourceMachine    Source = "machine"
	SourceLeave      Source = "leave"
	SourceHoliday    Source = "holiday"
	SourceFridayRule Source = "friday_rule"
)

// AttendanceLog is the derived daily record: a pure function of punches,
// shift resolution and leave/holiday state for (employee, date). At most
// one active log per (employee, date).
type AttendanceLog struct {
	ID               string
	EmployeeID       string
	Date             time.Time
	ShiftID          *string
	FirstInTime      *time.Time
	LastOutTime      *time.Time
	IsLate           bool
	LateMinutes      int
	EarlyDeparture   bool
	EarlyMinutes     int
	TotalWorkMinutes int
	Status           Status
	Source           Source
	LeaveID          *string
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// DTO
	EmployeeName   *string
	EmployeeNumber *string
	ShiftName      *string
}

// Attended reports whether the log counts as an attended working day for
// accrual purposes.
func (l AttendanceLog) Attended() bool {
	return l.Status == StatusPresent || l.Status == StatusLate
}
