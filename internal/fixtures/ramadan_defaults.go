package fixtures

import (
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/domain/calendar"
)

// DefaultRamadanPeriods returns the published Ramadan dates for the
// coming years. Dates follow the Umm al-Qura calendar and should be
// corrected once moon sighting confirms the actual start.
func DefaultRamadanPeriods(loc *time.Location) []calendar.RamadanPeriod {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
	return []calendar.RamadanPeriod{
		{Year: 2024, StartDate: day(2024, time.March, 11), EndDate: day(2024, time.April, 9), IsActive: true},
		{Year: 2025, StartDate: day(2025, time.March, 1), EndDate: day(2025, time.March, 30), IsActive: true},
		{Year: 2026, StartDate: day(2026, time.February, 18), EndDate: day(2026, time.March, 19), IsActive: true},
		{Year: 2027, StartDate: day(2027, time.February, 8), EndDate: day(2027, time.March, 9), IsActive: true},
	}
}
