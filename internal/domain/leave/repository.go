package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type LeaveTypeRepository interface {
	Create(ctx context.Context, lt LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	GetByCode(ctx context.Context, code Code) (LeaveType, error)
	ListActive(ctx context.Context) ([]LeaveType, error)
	ListAccrualEnabled(ctx context.Context) ([]LeaveType, error)
	Update(ctx context.Context, lt LeaveType) error
}

type LeaveRepository interface {
	Create(ctx context.Context, l Leave) (Leave, error)
	GetByID(ctx context.Context, id string) (Leave, error)
	List(ctx context.Context, filter LeaveFilter) ([]Leave, int64, error)
	// HasOverlapping reports whether another active pending/approved
	// leave for the employee overlaps [start, end]. excludeID skips one
	// leave (used on re-validation).
	HasOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID string) (bool, error)
	// HasPriorOfCode reports whether the employee has any active
	// pending/approved leave of the code across lifetime.
	HasPriorOfCode(ctx context.Context, employeeID string, code Code) (bool, error)
	// GetApprovedCovering returns the active approved leave covering the
	// date for the employee, or nil.
	GetApprovedCovering(ctx context.Context, employeeID string, date time.Time) (*Leave, error)
	Update(ctx context.Context, l Leave) error
	Deactivate(ctx context.Context, id string) error
	// ArchiveClosedOlderThan hard-deletes inactive or closed leaves
	// ending before the cutoff, returning the number removed.
	ArchiveClosedOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type LeaveBalanceRepository interface {
	Create(ctx context.Context, b LeaveBalance) (LeaveBalance, error)
	// GetForYear returns the active balance row for (employee, leave
	// type, year), or nil.
	GetForYear(ctx context.Context, employeeID, leaveTypeID string, year int) (*LeaveBalance, error)
	ListForEmployee(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)
	ListForType(ctx context.Context, leaveTypeID string, year int) ([]LeaveBalance, error)
	// Update persists the row and returns ErrBalanceContention when the
	// optimistic version check fails three times in the caller's loop.
	Update(ctx context.Context, b LeaveBalance) error
	// AdjustUsage applies deltas to used/pending atomically with a
	// version check; returns false when the row changed underneath.
	AdjustUsage(ctx context.Context, balanceID string, usedDelta, pendingDelta decimal.Decimal, expectedUpdatedAt time.Time) (bool, error)

	ListTiers(ctx context.Context, balanceID string) ([]LeaveBalanceTier, error)
	CreateTier(ctx context.Context, t LeaveBalanceTier) (LeaveBalanceTier, error)
	UpdateTier(ctx context.Context, t LeaveBalanceTier) error
}

type BeginningBalanceRepository interface {
	Create(ctx context.Context, b LeaveBeginningBalance) (LeaveBeginningBalance, error)
	// GetLatest returns the beginning balance with the latest as_of_date
	// for (employee, leave type), or nil.
	GetLatest(ctx context.Context, employeeID, leaveTypeID string) (*LeaveBeginningBalance, error)
}
