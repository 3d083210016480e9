package cache

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	t.Cleanup(s.Close)
	ctx := context.Background()

	s.Set(ctx, EmployeeShiftKey("emp-1"), []byte("x"), time.Minute)
	s.Set(ctx, EmployeeScheduleKey("emp-1", day(2025, 6, 1), day(2025, 6, 30)), []byte("x"), time.Minute)
	s.Set(ctx, EmployeeShiftKey("emp-2"), []byte("x"), time.Minute)
	s.Set(ctx, RamadanPeriodKey(day(2026, 3, 1)), []byte("1"), time.Minute)
	s.Set(ctx, ShiftStatisticsKey("sh-1"), []byte("x"), time.Minute)
	return s
}

func TestInvalidatorAssignmentMutated(t *testing.T) {
	s := seededStore(t)
	inv := NewInvalidator(s, 4, slog.Default())
	ctx := context.Background()

	shiftID := "sh-1"
	inv.apply(ctx, Event{
		Kind:        EventAssignmentMutated,
		EmployeeIDs: []string{"emp-1"},
		ShiftID:     &shiftID,
	})

	_, ok := s.Get(ctx, EmployeeShiftKey("emp-1"))
	assert.False(t, ok)
	_, ok = s.Get(ctx, EmployeeScheduleKey("emp-1", day(2025, 6, 1), day(2025, 6, 30)))
	assert.False(t, ok)
	_, ok = s.Get(ctx, ShiftStatisticsKey("sh-1"))
	assert.False(t, ok)
	_, ok = s.Get(ctx, EmployeeShiftKey("emp-2"))
	assert.True(t, ok, "unrelated employee untouched")
}

func TestInvalidatorRamadanMutatedDropsPeriodKeys(t *testing.T) {
	s := seededStore(t)
	inv := NewInvalidator(s, 4, slog.Default())
	ctx := context.Background()

	inv.apply(ctx, Event{Kind: EventRamadanMutated, EmployeeIDs: []string{"emp-1"}})

	_, ok := s.Get(ctx, RamadanPeriodKey(day(2026, 3, 1)))
	assert.False(t, ok)
	_, ok = s.Get(ctx, EmployeeShiftKey("emp-1"))
	assert.False(t, ok)
}

func TestInvalidatorHolidayMutatedSweepsMetricsRange(t *testing.T) {
	s := NewMemoryStore()
	t.Cleanup(s.Close)
	inv := NewInvalidator(s, 4, slog.Default())
	ctx := context.Background()

	for _, d := range []time.Time{day(2025, 6, 1), day(2025, 6, 2), day(2025, 6, 3)} {
		s.Set(ctx, AttendanceMetricsKey(d, nil), []byte("x"), time.Minute)
	}

	end := day(2025, 6, 2)
	start := day(2025, 6, 1)
	inv.apply(ctx, Event{Kind: EventHolidayMutated, RangeStart: &start, RangeEnd: &end})

	_, ok := s.Get(ctx, AttendanceMetricsKey(day(2025, 6, 1), nil))
	assert.False(t, ok)
	_, ok = s.Get(ctx, AttendanceMetricsKey(day(2025, 6, 2), nil))
	assert.False(t, ok)
	_, ok = s.Get(ctx, AttendanceMetricsKey(day(2025, 6, 3), nil))
	assert.True(t, ok, "dates outside the range stay cached")
}

func TestInvalidatorWorkerDrainsQueue(t *testing.T) {
	s := seededStore(t)
	inv := NewInvalidator(s, 4, slog.Default())
	inv.Start()
	ctx := context.Background()

	inv.Enqueue(ctx, Event{Kind: EventAssignmentMutated, EmployeeIDs: []string{"emp-1"}})

	require.Eventually(t, func() bool {
		_, ok := s.Get(ctx, EmployeeShiftKey("emp-1"))
		return !ok
	}, time.Second, 5*time.Millisecond)

	inv.Stop()
}

func TestInvalidatorStopDrainsPending(t *testing.T) {
	s := seededStore(t)
	inv := NewInvalidator(s, 4, slog.Default())
	ctx := context.Background()

	// Worker never started; Stop must still apply what was queued.
	inv.Enqueue(ctx, Event{Kind: EventAssignmentMutated, EmployeeIDs: []string{"emp-2"}})
	inv.Stop()

	_, ok := s.Get(ctx, EmployeeShiftKey("emp-2"))
	assert.False(t, ok)
}
