package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/config"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/calendar"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/employee"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/leave"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/punch"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/cache"
	shiftservice "github.com/sahl-hr/attendance-backend-go/internal/service/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The fakes below embed their interfaces and stub only the methods the
// recompute paths touch; anything else panics loudly if reached.

type fakeLogRepo struct {
	attendance.LogRepository
	active      map[string]attendance.AttendanceLog
	upserted    []attendance.AttendanceLog
	deactivated []string
}

func logKey(employeeID string, date time.Time) string {
	return employeeID + "|" + shift.DateOnly(date).Format("2006-01-02")
}

func (f *fakeLogRepo) Upsert(ctx context.Context, log attendance.AttendanceLog) (attendance.AttendanceLog, error) {
	if f.active == nil {
		f.active = map[string]attendance.AttendanceLog{}
	}
	f.active[logKey(log.EmployeeID, log.Date)] = log
	f.upserted = append(f.upserted, log)
	return log, nil
}

func (f *fakeLogRepo) GetActive(ctx context.Context, employeeID string, date time.Time) (*attendance.AttendanceLog, error) {
	if log, ok := f.active[logKey(employeeID, date)]; ok {
		return &log, nil
	}
	return nil, nil
}

func (f *fakeLogRepo) DeactivateForDate(ctx context.Context, employeeID string, date time.Time) error {
	key := logKey(employeeID, date)
	delete(f.active, key)
	f.deactivated = append(f.deactivated, key)
	return nil
}

type fakePunchRepo struct {
	punch.PunchRepository
	byID map[string]punch.PunchEvent
}

func (f *fakePunchRepo) GetByID(ctx context.Context, id string) (punch.PunchEvent, error) {
	p, ok := f.byID[id]
	if !ok {
		return punch.PunchEvent{}, punch.ErrPunchNotFound
	}
	return p, nil
}

func (f *fakePunchRepo) Deactivate(ctx context.Context, id string) error {
	p := f.byID[id]
	p.IsActive = false
	f.byID[id] = p
	return nil
}

func (f *fakePunchRepo) ListForDate(ctx context.Context, employeeID string, date time.Time) ([]punch.PunchEvent, error) {
	var out []punch.PunchEvent
	for _, p := range f.byID {
		if p.IsActive && p.EmployeeID == employeeID && shift.DateOnly(p.Timestamp).Equal(shift.DateOnly(date)) {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	byID map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := f.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

type fakeHolidayRepo struct {
	calendar.HolidayRepository
	holiday *calendar.Holiday
}

func (f *fakeHolidayRepo) GetForDate(ctx context.Context, date time.Time, departmentID *string) (*calendar.Holiday, error) {
	return f.holiday, nil
}

type fakeRamadanRepo struct {
	calendar.RamadanPeriodRepository
}

func (f *fakeRamadanRepo) GetActiveCovering(ctx context.Context, date time.Time) (*calendar.RamadanPeriod, error) {
	return nil, nil
}

type fakeLeaveRepo struct {
	leave.LeaveRepository
	approved *leave.Leave
}

func (f *fakeLeaveRepo) GetApprovedCovering(ctx context.Context, employeeID string, date time.Time) (*leave.Leave, error) {
	return f.approved, nil
}

type fakeShiftRepo struct {
	shift.ShiftRepository
	defaultOne shift.Shift
}

func (f *fakeShiftRepo) GetDefault(ctx context.Context) (shift.Shift, error) {
	return f.defaultOne, nil
}

func (f *fakeShiftRepo) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	return f.defaultOne, nil
}

type fakeAssignmentRepo struct {
	shift.ShiftAssignmentRepository
}

func (f *fakeAssignmentRepo) ListActiveCovering(ctx context.Context, employeeID string, date time.Time) ([]shift.ShiftAssignment, error) {
	return nil, nil
}

type fakeDateSpecificRepo struct {
	shift.DateSpecificShiftRepository
}

func (f *fakeDateSpecificRepo) GetForShiftDate(ctx context.Context, shiftID string, date time.Time) (*shift.DateSpecificShift, error) {
	return nil, nil
}

type fakeOverrideRepo struct {
	shift.DateSpecificShiftOverrideRepository
}

func (f *fakeOverrideRepo) GetForDateType(ctx context.Context, date time.Time, t shift.ShiftType) (*shift.DateSpecificShiftOverride, error) {
	return nil, nil
}

type serviceFixture struct {
	logs    *fakeLogRepo
	punches *fakePunchRepo
	leaves  *fakeLeaveRepo
	svc     *AttendanceServiceImpl
}

func newServiceFixture() *serviceFixture {
	cfg := &config.Config{
		Shift: config.ShiftConfig{
			WeekendDay:              time.Friday,
			DefaultBreakMinutes:     60,
			DefaultGraceMinutes:     15,
			RamadanNoBreakDeduction: true,
		},
		Cache: config.CacheConfig{
			RamadanPeriodTTL:    time.Hour,
			EmployeeScheduleTTL: time.Hour,
		},
	}
	ramadan := &fakeRamadanRepo{}
	employees := &fakeEmployeeRepo{byID: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", IsActive: true},
	}}
	resolver := shiftservice.NewResolver(
		&fakeShiftRepo{defaultOne: shift.Shift{
			ID: "sh-default", Name: "General", Type: shift.TypeDefault,
			StartTime: clock(9, 0), EndTime: clock(17, 0), IsActive: true,
		}},
		&fakeAssignmentRepo{},
		&fakeDateSpecificRepo{},
		&fakeOverrideRepo{},
		ramadan, employees,
		cache.NewMemoryStore(), cfg,
	)

	f := &serviceFixture{
		logs:    &fakeLogRepo{active: map[string]attendance.AttendanceLog{}},
		punches: &fakePunchRepo{byID: map[string]punch.PunchEvent{}},
		leaves:  &fakeLeaveRepo{},
	}
	f.svc = NewAttendanceService(
		f.logs, f.punches, employees,
		&fakeHolidayRepo{}, ramadan, f.leaves,
		resolver, cfg, nil,
	)
	return f
}

func (f *serviceFixture) addPunch(id string, ts time.Time) {
	f.punches.byID[id] = punch.PunchEvent{
		ID: id, EmployeeID: "emp-1", Timestamp: ts, IsActive: true,
	}
}

func TestRemovePunchClearsEmptyDay(t *testing.T) {
	f := newServiceFixture()
	date := day(2025, time.June, 2) // Monday
	f.addPunch("p-1", at(date, 9, 0))
	require.NoError(t, f.svc.Recompute(context.Background(), "emp-1", date))
	require.NotEmpty(t, f.logs.active)

	// Removing the only punch leaves nothing behind on the day, so the
	// derived log goes away instead of lingering as absent.
	require.NoError(t, f.svc.RemovePunch(context.Background(), "p-1"))
	assert.Contains(t, f.logs.deactivated, logKey("emp-1", date))
	got, err := f.logs.GetActive(context.Background(), "emp-1", date)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRemovePunchRederivesRemainingPunches(t *testing.T) {
	f := newServiceFixture()
	date := day(2025, time.June, 2)
	f.addPunch("p-in", at(date, 9, 0))
	f.addPunch("p-out", at(date, 17, 0))
	require.NoError(t, f.svc.Recompute(context.Background(), "emp-1", date))

	require.NoError(t, f.svc.RemovePunch(context.Background(), "p-out"))
	assert.Empty(t, f.logs.deactivated)
	got, err := f.logs.GetActive(context.Background(), "emp-1", date)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.EarlyDeparture)
}

func TestRemovePunchKeepsLeaveDay(t *testing.T) {
	f := newServiceFixture()
	date := day(2025, time.June, 2)
	f.addPunch("p-1", at(date, 9, 0))
	f.leaves.approved = &leave.Leave{ID: "leave-1"}
	require.NoError(t, f.svc.Recompute(context.Background(), "emp-1", date))

	// Leave still covers the date: the log is re-derived, not removed.
	require.NoError(t, f.svc.RemovePunch(context.Background(), "p-1"))
	assert.Empty(t, f.logs.deactivated)
	got, err := f.logs.GetActive(context.Background(), "emp-1", date)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, attendance.StatusLeave, got.Status)
}

func TestRemovePunchLeavesManualLogAlone(t *testing.T) {
	f := newServiceFixture()
	date := day(2025, time.June, 2)
	f.addPunch("p-1", at(date, 9, 0))
	_, err := f.logs.Upsert(context.Background(), attendance.AttendanceLog{
		EmployeeID: "emp-1", Date: date,
		Status: attendance.StatusPresent, Source: attendance.SourceManual,
		IsActive: true,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.RemovePunch(context.Background(), "p-1"))
	assert.Empty(t, f.logs.deactivated)
	got, err := f.logs.GetActive(context.Background(), "emp-1", date)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, attendance.SourceManual, got.Source)
}
