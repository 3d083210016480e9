package punch

import (
	"context"
	"time"
)

type PunchRepository interface {
	Create(ctx context.Context, p PunchEvent) (PunchEvent, error)
	GetByID(ctx context.Context, id string) (PunchEvent, error)
	// Exists reports whether an active punch exists for the exact
	// (employee, timestamp) pair.
	Exists(ctx context.Context, employeeID string, ts time.Time) (bool, error)
	// ListForDate returns active punches for the employee within
	// [date 00:00, date+1 00:00), ordered by timestamp.
	ListForDate(ctx context.Context, employeeID string, date time.Time) ([]PunchEvent, error)
	Deactivate(ctx context.Context, id string) error
	// DeleteOlderThan hard-deletes inactive punches older than the cutoff
	// and returns the number removed. Used by year-end archival.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
