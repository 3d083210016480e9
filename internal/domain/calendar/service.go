package calendar

import (
	"context"
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/domain/leave"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
)

// CatalogService administers the reference data the rest of the system
// reads: leave types, holidays, Ramadan periods and shift retirement.
type CatalogService interface {
	InitLeaveTypes(ctx context.Context, dryRun bool) (int, error)
	CreateLeaveType(ctx context.Context, lt leave.LeaveType) error
	ListLeaveTypes(ctx context.Context) ([]leave.LeaveType, error)

	CreateHoliday(ctx context.Context, h Holiday) (Holiday, error)
	ListHolidays(ctx context.Context, start, end time.Time) ([]Holiday, error)
	// DeleteHoliday deactivates the holiday and returns the ids of
	// employees whose logs were re-opened for recomputation.
	DeleteHoliday(ctx context.Context, holidayID string) ([]string, error)
	GenerateRecurringHolidays(ctx context.Context, year int, dryRun bool) (int, error)

	CreateRamadanPeriod(ctx context.Context, p RamadanPeriod) (RamadanPeriod, error)
	UpdateRamadanPeriod(ctx context.Context, p RamadanPeriod) error

	ListShifts(ctx context.Context) ([]shift.Shift, error)
	DeactivateShift(ctx context.Context, shiftID string) error
}
