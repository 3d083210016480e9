package calendar

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	GetByID(ctx context.Context, id string) (Holiday, error)
	// GetForDate returns the active holiday applying to the employee's
	// department on the date, or nil when none exists.
	GetForDate(ctx context.Context, date time.Time, departmentID *string) (*Holiday, error)
	ListInRange(ctx context.Context, start, end time.Time) ([]Holiday, error)
	ListRecurring(ctx context.Context) ([]Holiday, error)
	// ExistsOn reports whether a non-recurring holiday with the given
	// name already exists on the date.
	ExistsOn(ctx context.Context, date time.Time, name string) (bool, error)
	Update(ctx context.Context, h Holiday) error
	Deactivate(ctx context.Context, id string) error
}

type RamadanPeriodRepository interface {
	Create(ctx context.Context, p RamadanPeriod) (RamadanPeriod, error)
	GetByID(ctx context.Context, id string) (RamadanPeriod, error)
	// GetActiveCovering returns the active period covering the date, or
	// nil when the date is outside Ramadan.
	GetActiveCovering(ctx context.Context, date time.Time) (*RamadanPeriod, error)
	GetActiveForYear(ctx context.Context, year int) (*RamadanPeriod, error)
	ListOverlapping(ctx context.Context, start, end time.Time) ([]RamadanPeriod, error)
	Update(ctx context.Context, p RamadanPeriod) error
	Deactivate(ctx context.Context, id string) error
}
