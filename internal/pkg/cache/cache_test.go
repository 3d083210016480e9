package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetGetDelete(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	s.Set(ctx, "k1", []byte("v1"), time.Minute)
	got, ok := s.Get(ctx, "k1")
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), got)

	s.Delete(ctx, "k1")
	_, ok = s.Get(ctx, "k1")
	assert.False(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	s.Set(ctx, "short", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	_, ok := s.Get(ctx, "short")
	assert.False(t, ok)
}

func TestMemoryStoreZeroTTLNotStored(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	s.Set(ctx, "k", []byte("v"), 0)
	_, ok := s.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryStoreDeletePattern(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	emp := "emp-1"
	s.Set(ctx, EmployeeScheduleKey(emp, day(2025, 6, 1), day(2025, 6, 30)), []byte("a"), time.Minute)
	s.Set(ctx, EmployeeScheduleKey(emp, day(2025, 7, 1), day(2025, 7, 31)), []byte("b"), time.Minute)
	s.Set(ctx, EmployeeScheduleKey("emp-2", day(2025, 6, 1), day(2025, 6, 30)), []byte("c"), time.Minute)

	removed := s.DeletePattern(ctx, EmployeeSchedulePattern(emp))
	assert.Equal(t, 2, removed)

	_, ok := s.Get(ctx, EmployeeScheduleKey("emp-2", day(2025, 6, 1), day(2025, 6, 30)))
	assert.True(t, ok, "other employees' schedules stay cached")
}

func TestMatchPattern(t *testing.T) {
	cases := []struct {
		pattern string
		key     string
		want    bool
	}{
		{"employee_schedule:emp-1:*", "employee_schedule:emp-1:2025-06-01:2025-06-30", true},
		{"employee_schedule:emp-1:*", "employee_schedule:emp-10:2025-06-01:2025-06-30", false},
		{"ramadan_period:*", "ramadan_period:2026-03-01", true},
		{"exact", "exact", true},
		{"exact", "exact:more", false},
		{"attendance_metrics:2025-06-01:*", "attendance_metrics:2025-06-01:all", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, matchPattern(tc.pattern, tc.key), "%s vs %s", tc.pattern, tc.key)
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
