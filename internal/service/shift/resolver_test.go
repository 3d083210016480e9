package shift

import (
	"context"
	"testing"
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/config"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/calendar"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/employee"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(hh, mm int) time.Time {
	return time.Date(0, 1, 1, hh, mm, 0, 0, time.UTC)
}

func clockPtr(hh, mm int) *time.Time {
	t := clock(hh, mm)
	return &t
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testConfig() *config.Config {
	return &config.Config{
		Shift: config.ShiftConfig{
			DefaultBreakMinutes: 60,
			DefaultGraceMinutes: 15,
		},
		Cache: config.CacheConfig{
			RamadanPeriodTTL:    time.Hour,
			EmployeeScheduleTTL: time.Hour,
		},
	}
}

type resolverFixture struct {
	shifts      *fakeShiftRepo
	assignments *fakeAssignmentRepo
	specifics   *fakeDateSpecificRepo
	overrides   *fakeOverrideRepo
	ramadan     *fakeRamadanRepo
	employees   *fakeEmployeeRepo
	resolver    *Resolver
}

func newResolverFixture() *resolverFixture {
	f := &resolverFixture{
		shifts:      &fakeShiftRepo{shifts: map[string]shift.Shift{}},
		assignments: &fakeAssignmentRepo{},
		specifics:   &fakeDateSpecificRepo{},
		overrides:   &fakeOverrideRepo{},
		ramadan:     &fakeRamadanRepo{},
		employees:   &fakeEmployeeRepo{byID: map[string]employee.Employee{}},
	}
	f.resolver = NewResolver(
		f.shifts, f.assignments, f.specifics, f.overrides,
		f.ramadan, f.employees,
		cache.NewMemoryStore(), testConfig(),
	)
	return f
}

func (f *resolverFixture) addShift(s shift.Shift) shift.Shift {
	s.IsActive = true
	f.shifts.shifts[s.ID] = s
	return s
}

func (f *resolverFixture) assign(shiftID string) {
	f.assignments.covering = append(f.assignments.covering, shift.ShiftAssignment{
		ID:       "asg-" + shiftID,
		ShiftID:  shiftID,
		IsActive: true,
	})
}

func TestResolveDefaultShiftFallback(t *testing.T) {
	f := newResolverFixture()
	def := f.addShift(shift.Shift{
		ID:        "sh-default",
		Name:      "General",
		Type:      shift.TypeDefault,
		StartTime: clock(9, 0),
		EndTime:   clock(17, 0),
	})
	f.shifts.defaultOne = &def

	resolved, err := f.resolver.Resolve(context.Background(), "emp-1", day(2025, 6, 2))
	require.NoError(t, err)
	assert.Equal(t, "sh-default", resolved.ShiftID)
	assert.Equal(t, shift.SourceShift, resolved.Source)
	assert.Equal(t, 9, resolved.StartTime.Hour())
}

func TestResolveNoEffectiveShift(t *testing.T) {
	f := newResolverFixture()

	_, err := f.resolver.Resolve(context.Background(), "emp-1", day(2025, 6, 2))
	assert.ErrorIs(t, err, shift.ErrNoEffectiveShift)
}

func TestResolveHighestPriorityAssignmentWins(t *testing.T) {
	f := newResolverFixture()
	f.addShift(shift.Shift{ID: "sh-night", Type: shift.TypeNight, StartTime: clock(22, 0), EndTime: clock(6, 0), Priority: 30})
	f.addShift(shift.Shift{ID: "sh-reg", Type: shift.TypeRegular, StartTime: clock(9, 0), EndTime: clock(17, 0), Priority: 15})
	// The repository returns rows ordered priority DESC.
	f.assign("sh-night")
	f.assign("sh-reg")

	resolved, err := f.resolver.Resolve(context.Background(), "emp-1", day(2025, 6, 2))
	require.NoError(t, err)
	assert.Equal(t, "sh-night", resolved.ShiftID)
}

func TestResolveZeroBreakGraceDefaulted(t *testing.T) {
	f := newResolverFixture()
	f.addShift(shift.Shift{ID: "sh-1", Type: shift.TypeRegular, StartTime: clock(9, 0), EndTime: clock(17, 0)})
	f.assign("sh-1")

	resolved, err := f.resolver.Resolve(context.Background(), "emp-1", day(2025, 6, 2))
	require.NoError(t, err)
	assert.Equal(t, 60, resolved.BreakMinutes)
	assert.Equal(t, 15, resolved.GraceMinutes)
}

func TestResolveNightOverrideBeatsDateSpecific(t *testing.T) {
	f := newResolverFixture()
	f.addShift(shift.Shift{ID: "sh-night", Type: shift.TypeNight, StartTime: clock(22, 0), EndTime: clock(6, 0)})
	f.assign("sh-night")

	date := day(2025, 6, 2)
	_, err := f.specifics.Create(context.Background(), shift.DateSpecificShift{
		ID: "ds-1", ShiftID: "sh-night", Date: date,
		StartTime: clock(21, 0), EndTime: clock(5, 0),
	})
	require.NoError(t, err)
	_, err = f.overrides.Create(context.Background(), shift.DateSpecificShiftOverride{
		ID: "ov-1", Date: date, ShiftType: shift.TypeNight,
		StartTime: clock(23, 0), EndTime: clock(7, 0),
	})
	require.NoError(t, err)

	resolved, err := f.resolver.Resolve(context.Background(), "emp-1", date)
	require.NoError(t, err)
	assert.Equal(t, shift.SourceOverride, resolved.Source)
	assert.True(t, resolved.IsOverridden)
	assert.Equal(t, 23, resolved.StartTime.Hour())
}

func TestResolveDateSpecificBeatsRamadan(t *testing.T) {
	f := newResolverFixture()
	f.addShift(shift.Shift{
		ID: "sh-1", Type: shift.TypeRegular,
		StartTime: clock(9, 0), EndTime: clock(17, 0),
		RamadanStartTime: clockPtr(10, 0), RamadanEndTime: clockPtr(15, 0),
	})
	f.assign("sh-1")
	f.employees.byID["emp-1"] = employee.Employee{ID: "emp-1", Religion: employee.ReligionMuslim, IsActive: true}

	date := day(2026, 3, 1)
	f.ramadan.period = &calendar.RamadanPeriod{
		ID: "rp-1", Year: 2026,
		StartDate: day(2026, 2, 18), EndDate: day(2026, 3, 19),
		IsActive: true,
	}
	_, err := f.specifics.Create(context.Background(), shift.DateSpecificShift{
		ID: "ds-1", ShiftID: "sh-1", Date: date,
		StartTime: clock(8, 0), EndTime: clock(14, 0),
	})
	require.NoError(t, err)

	resolved, err := f.resolver.Resolve(context.Background(), "emp-1", date)
	require.NoError(t, err)
	assert.Equal(t, shift.SourceDateSpecific, resolved.Source)
	assert.Equal(t, 8, resolved.StartTime.Hour())
}

func TestResolveRamadanWindow(t *testing.T) {
	f := newResolverFixture()
	f.addShift(shift.Shift{
		ID: "sh-1", Type: shift.TypeRegular,
		StartTime: clock(9, 0), EndTime: clock(17, 0),
		RamadanStartTime: clockPtr(10, 0), RamadanEndTime: clockPtr(15, 0),
	})
	f.assign("sh-1")
	f.ramadan.period = &calendar.RamadanPeriod{
		ID: "rp-1", Year: 2026,
		StartDate: day(2026, 2, 18), EndDate: day(2026, 3, 19),
		IsActive: true,
	}
	f.employees.byID["emp-m"] = employee.Employee{ID: "emp-m", Religion: employee.ReligionMuslim, IsActive: true}
	f.employees.byID["emp-n"] = employee.Employee{ID: "emp-n", Religion: "Christian", IsActive: true}

	date := day(2026, 3, 1)

	resolved, err := f.resolver.Resolve(context.Background(), "emp-m", date)
	require.NoError(t, err)
	assert.Equal(t, shift.SourceRamadan, resolved.Source)
	assert.True(t, resolved.IsRamadan)
	assert.Equal(t, 10, resolved.StartTime.Hour())
	assert.Equal(t, 15, resolved.EndTime.Hour())

	// Non-Muslim colleagues keep the regular window through Ramadan.
	resolved, err = f.resolver.Resolve(context.Background(), "emp-n", date)
	require.NoError(t, err)
	assert.Equal(t, shift.SourceShift, resolved.Source)
	assert.Equal(t, 9, resolved.StartTime.Hour())
}

func TestResolveRamadanWithoutShiftTimesKeepsWindow(t *testing.T) {
	f := newResolverFixture()
	f.addShift(shift.Shift{ID: "sh-1", Type: shift.TypeRegular, StartTime: clock(9, 0), EndTime: clock(17, 0)})
	f.assign("sh-1")
	f.ramadan.period = &calendar.RamadanPeriod{
		ID: "rp-1", Year: 2026,
		StartDate: day(2026, 2, 18), EndDate: day(2026, 3, 19),
		IsActive: true,
	}
	f.employees.byID["emp-m"] = employee.Employee{ID: "emp-m", Religion: employee.ReligionMuslim, IsActive: true}

	resolved, err := f.resolver.Resolve(context.Background(), "emp-m", day(2026, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, shift.SourceShift, resolved.Source)
}

func TestResolveRamadanLookupCached(t *testing.T) {
	f := newResolverFixture()
	f.addShift(shift.Shift{ID: "sh-1", Type: shift.TypeRegular, StartTime: clock(9, 0), EndTime: clock(17, 0)})
	f.assign("sh-1")

	date := day(2025, 6, 2)
	_, err := f.resolver.Resolve(context.Background(), "emp-1", date)
	require.NoError(t, err)
	_, err = f.resolver.Resolve(context.Background(), "emp-2", date)
	require.NoError(t, err)

	// The negative lookup for the date is cached after the first call.
	assert.Equal(t, 1, f.ramadan.calls)
}

func TestResolveScheduleGapsAndCaching(t *testing.T) {
	f := newResolverFixture()
	f.addShift(shift.Shift{ID: "sh-1", Type: shift.TypeRegular, StartTime: clock(9, 0), EndTime: clock(17, 0)})
	f.assign("sh-1")

	start, end := day(2025, 6, 2), day(2025, 6, 4)
	entries, err := f.resolver.ResolveSchedule(context.Background(), "emp-1", start, end)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, e := range entries {
		require.NotNil(t, e.Resolved)
		assert.Equal(t, "sh-1", e.Resolved.ShiftID)
	}

	firstCalls := f.assignments.coveryCalls
	_, err = f.resolver.ResolveSchedule(context.Background(), "emp-1", start, end)
	require.NoError(t, err)
	assert.Equal(t, firstCalls, f.assignments.coveryCalls, "second call should be served from cache")
}

func TestResolveScheduleNilEntryWhenNoShift(t *testing.T) {
	f := newResolverFixture()

	entries, err := f.resolver.ResolveSchedule(context.Background(), "emp-1", day(2025, 6, 2), day(2025, 6, 3))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Nil(t, entries[0].Resolved)
	assert.Nil(t, entries[1].Resolved)
}

func TestResolveScheduleRejectsInvertedRange(t *testing.T) {
	f := newResolverFixture()

	_, err := f.resolver.ResolveSchedule(context.Background(), "emp-1", day(2025, 6, 4), day(2025, 6, 2))
	assert.ErrorIs(t, err, shift.ErrInvalidDateRange)
}
