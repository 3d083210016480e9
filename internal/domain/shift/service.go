package shift

import (
	"context"
	"time"
)

type ShiftService interface {
	CreateShift(ctx context.Context, s Shift) (Shift, error)
	// AssignShift applies the overlap policy: equal-or-higher priority
	// conflicts reject, lower-priority ones are displaced.
	AssignShift(ctx context.Context, req CreateAssignmentRequest) (ShiftAssignment, error)
	EndAssignment(ctx context.Context, id string) error
	SetDateSpecificWindow(ctx context.Context, d DateSpecificShift) (DateSpecificShift, error)
	SetTypeOverride(ctx context.Context, o DateSpecificShiftOverride) (DateSpecificShiftOverride, error)
}

type ShiftResolver interface {
	// Resolve returns the effective window for (employee, date) after
	// applying override, date-specific and Ramadan precedence.
	Resolve(ctx context.Context, employeeID string, date time.Time) (ResolvedShift, error)
	ResolveSchedule(ctx context.Context, employeeID string, start, end time.Time) ([]ScheduleEntry, error)
}
