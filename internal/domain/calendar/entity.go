package calendar

import "time"

type Holiday struct {
	ID           string
	Date         time.Time
	Name         string
	HolidayType  string
	IsRecurring  bool
	IsPaid       bool
	DepartmentID *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AppliesTo reports whether the holiday covers an employee in the given
// department. A holiday without department scope applies company-wide.
func (h Holiday) AppliesTo(departmentID *string) bool {
	if h.DepartmentID == nil {
		return true
	}
	return departmentID != nil && *departmentID == *h.DepartmentID
}

// RamadanPeriod is a dated window during which Muslim employees receive
// reduced working hours and no break deduction. 28-31 days, same year,
// one active period per year.
type RamadanPeriod struct {
	ID        string
	Year      int
	StartDate time.Time
	EndDate   time.Time
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Covers reports whether the date falls inside the period (inclusive).
func (p RamadanPeriod) Covers(date time.Time) bool {
	d := dateOnly(date)
	return !d.Before(dateOnly(p.StartDate)) && !d.After(dateOnly(p.EndDate))
}

// DurationDays is the inclusive length of the period in days.
func (p RamadanPeriod) DurationDays() int {
	return int(dateOnly(p.EndDate).Sub(dateOnly(p.StartDate)).Hours()/24) + 1
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
