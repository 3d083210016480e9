package cache

import (
	"context"
	"log/slog"
	"time"
)

// EventKind names the entity mutation that triggered invalidation.
type EventKind string

const (
	EventAssignmentMutated EventKind = "assignment_mutated"
	EventRamadanMutated    EventKind = "ramadan_mutated"
	EventShiftMutated      EventKind = "shift_mutated"
	EventHolidayMutated    EventKind = "holiday_mutated"
)

// Event is one entity mutation. Producers enqueue; a single worker
// drains and deletes keys. Recomputation never re-enqueues for itself,
// which keeps the flow one-way.
type Event struct {
	Kind         EventKind
	EmployeeIDs  []string
	DepartmentID *string
	ShiftID      *string
	// RangeStart/RangeEnd bound the affected dates for ramadan and
	// holiday mutations.
	RangeStart *time.Time
	RangeEnd   *time.Time
}

// Invalidator drains entity-mutation events into cache deletions.
type Invalidator struct {
	store  Store
	queue  chan Event
	done   chan struct{}
	logger *slog.Logger
}

func NewInvalidator(store Store, queueSize int, logger *slog.Logger) *Invalidator {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Invalidator{
		store:  store,
		queue:  make(chan Event, queueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Enqueue adds an event, blocking when the queue is full so bursts apply
// backpressure instead of dropping invalidations.
func (i *Invalidator) Enqueue(ctx context.Context, ev Event) {
	select {
	case i.queue <- ev:
	case <-ctx.Done():
		// Apply synchronously rather than lose the invalidation.
		i.apply(context.Background(), ev)
	}
}

func (i *Invalidator) Start() {
	go func() {
		for {
			select {
			case <-i.done:
				return
			case ev := <-i.queue:
				i.apply(context.Background(), ev)
			}
		}
	}()
}

func (i *Invalidator) Stop() {
	close(i.done)
	// Drain whatever is queued so shutdown does not leave stale keys.
	for {
		select {
		case ev := <-i.queue:
			i.apply(context.Background(), ev)
		default:
			return
		}
	}
}

func (i *Invalidator) apply(ctx context.Context, ev Event) {
	switch ev.Kind {
	case EventAssignmentMutated:
		for _, empID := range ev.EmployeeIDs {
			i.store.Delete(ctx, EmployeeShiftKey(empID))
			i.store.DeletePattern(ctx, EmployeeSchedulePattern(empID))
		}
		if ev.DepartmentID != nil {
			i.store.Delete(ctx, DepartmentShiftsKey(*ev.DepartmentID))
		}
		if ev.ShiftID != nil {
			i.store.Delete(ctx, ShiftStatisticsKey(*ev.ShiftID))
		}

	case EventRamadanMutated:
		i.store.DeletePattern(ctx, RamadanPeriodPattern)
		for _, empID := range ev.EmployeeIDs {
			i.store.Delete(ctx, EmployeeShiftKey(empID))
			i.store.DeletePattern(ctx, EmployeeSchedulePattern(empID))
		}

	case EventShiftMutated:
		if ev.ShiftID != nil {
			i.store.Delete(ctx, ShiftStatisticsKey(*ev.ShiftID))
		}
		for _, empID := range ev.EmployeeIDs {
			i.store.Delete(ctx, EmployeeShiftKey(empID))
			i.store.DeletePattern(ctx, EmployeeSchedulePattern(empID))
		}

	case EventHolidayMutated:
		if ev.DepartmentID != nil {
			i.store.Delete(ctx, DepartmentShiftsKey(*ev.DepartmentID))
		}
		if ev.RangeStart != nil {
			end := *ev.RangeStart
			if ev.RangeEnd != nil {
				end = *ev.RangeEnd
			}
			for d := *ev.RangeStart; !d.After(end); d = d.AddDate(0, 0, 1) {
				i.store.DeletePattern(ctx, AttendanceMetricsPattern(d))
			}
		}

	default:
		i.logger.Warn("Unknown invalidation event kind", "kind", ev.Kind)
	}
}
