package leave

import (
	"context"
	"time"
)

type LeaveService interface {
	// Validate runs the full rule chain without writing anything.
	Validate(ctx context.Context, req CreateLeaveRequest) (ValidationResult, error)
	Create(ctx context.Context, req CreateLeaveRequest) (Leave, error)
	Approve(ctx context.Context, leaveID, actorID string) error
	Reject(ctx context.Context, leaveID, actorID, reason string) error
	Cancel(ctx context.Context, leaveID, actorID string) error
	Delete(ctx context.Context, leaveID, actorID string) error

	List(ctx context.Context, filter LeaveFilter) ([]Leave, int64, error)
	Balances(ctx context.Context, employeeID string, year int) ([]BalanceView, error)

	MonthlyAccrual(ctx context.Context, start, end time.Time, employeeID, leaveTypeCode string, dryRun bool) (int, error)
	ResetYearlyBalances(ctx context.Context, year int, dryRun bool) (int, error)
}
