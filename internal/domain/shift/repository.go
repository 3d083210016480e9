package shift

import (
	"context"
	"time"
)

type ShiftRepository interface {
	Create(ctx context.Context, s Shift) (Shift, error)
	GetByID(ctx context.Context, id string) (Shift, error)
	// GetDefault returns the unique active shift of type DEFAULT.
	GetDefault(ctx context.Context) (Shift, error)
	ListActive(ctx context.Context) ([]Shift, error)
	Update(ctx context.Context, s Shift) error
}

type ShiftAssignmentRepository interface {
	Create(ctx context.Context, a ShiftAssignment) (ShiftAssignment, error)
	GetByID(ctx context.Context, id string) (ShiftAssignment, error)
	// ListActiveCovering returns active assignments whose date range
	// covers the given date, joined with shift name/type/priority.
	ListActiveCovering(ctx context.Context, employeeID string, date time.Time) ([]ShiftAssignment, error)
	// ListActiveOverlapping returns active assignments overlapping the
	// [start, end] range for the employee.
	ListActiveOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]ShiftAssignment, error)
	ListActiveByShift(ctx context.Context, shiftID string) ([]ShiftAssignment, error)
	// ListExpired returns active assignments whose end date is before the
	// given date.
	ListExpired(ctx context.Context, before time.Time) ([]ShiftAssignment, error)
	// ListStartingOn returns active assignments whose start date equals
	// the given date.
	ListStartingOn(ctx context.Context, date time.Time) ([]ShiftAssignment, error)
	// ListEmployeesWithoutAssignment returns ids of active employees with
	// no active assignment covering the given date.
	ListEmployeesWithoutAssignment(ctx context.Context, date time.Time) ([]string, error)
	Update(ctx context.Context, a ShiftAssignment) error
	Deactivate(ctx context.Context, id string) error
}

type DateSpecificShiftRepository interface {
	Create(ctx context.Context, d DateSpecificShift) (DateSpecificShift, error)
	// GetForShiftDate returns the active date-specific window for
	// (shift, date), or nil when none exists.
	GetForShiftDate(ctx context.Context, shiftID string, date time.Time) (*DateSpecificShift, error)
	Deactivate(ctx context.Context, id string) error
}

type DateSpecificShiftOverrideRepository interface {
	Create(ctx context.Context, o DateSpecificShiftOverride) (DateSpecificShiftOverride, error)
	// GetForDateType returns the active override for (date, shiftType),
	// or nil when none exists.
	GetForDateType(ctx context.Context, date time.Time, shiftType ShiftType) (*DateSpecificShiftOverride, error)
	Deactivate(ctx context.Context, id string) error
}
