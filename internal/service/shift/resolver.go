package shift

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/config"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/calendar"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/employee"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/cache"
)

// Resolver computes the effective shift window for (employee, date).
// Precedence, highest first: NIGHT type override, date-specific window,
// Ramadan window, the shift's own window.
type Resolver struct {
	shift.ShiftRepository
	shift.ShiftAssignmentRepository
	shift.DateSpecificShiftRepository
	shift.DateSpecificShiftOverrideRepository
	calendar.RamadanPeriodRepository
	employee.EmployeeRepository

	store cache.Store
	cfg   *config.Config
}

func NewResolver(
	shiftRepo shift.ShiftRepository,
	assignmentRepo shift.ShiftAssignmentRepository,
	dateSpecificRepo shift.DateSpecificShiftRepository,
	overrideRepo shift.DateSpecificShiftOverrideRepository,
	ramadanRepo calendar.RamadanPeriodRepository,
	employeeRepo employee.EmployeeRepository,
	store cache.Store,
	cfg *config.Config,
) *Resolver {
	return &Resolver{
		ShiftRepository:                     shiftRepo,
		ShiftAssignmentRepository:           assignmentRepo,
		DateSpecificShiftRepository:         dateSpecificRepo,
		DateSpecificShiftOverrideRepository: overrideRepo,
		RamadanPeriodRepository:             ramadanRepo,
		EmployeeRepository:                  employeeRepo,
		store:                               store,
		cfg:                                 cfg,
	}
}

// Resolve returns the effective shift for the employee on the date.
// Returns shift.ErrNoEffectiveShift when the employee has no covering
// assignment and no default shift is configured.
func (r *Resolver) Resolve(ctx context.Context, employeeID string, date time.Time) (shift.ResolvedShift, error) {
	date = shift.DateOnly(date)

	s, err := r.effectiveShift(ctx, employeeID, date)
	if err != nil {
		return shift.ResolvedShift{}, err
	}

	resolved := shift.ResolvedShift{
		ShiftID:      s.ID,
		ShiftName:    s.Name,
		ShiftType:    s.Type,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		BreakMinutes: s.BreakMinutes,
		GraceMinutes: s.GraceMinutes,
		Priority:     s.Priority,
		Source:       shift.SourceShift,
	}
	if resolved.BreakMinutes == 0 {
		resolved.BreakMinutes = r.cfg.Shift.DefaultBreakMinutes
	}
	if resolved.GraceMinutes == 0 {
		resolved.GraceMinutes = r.cfg.Shift.DefaultGraceMinutes
	}

	// NIGHT overrides beat everything, keyed by type so one row covers
	// all NIGHT shifts on the date.
	if s.Type == shift.TypeNight {
		override, err := r.DateSpecificShiftOverrideRepository.GetForDateType(ctx, date, shift.TypeNight)
		if err != nil {
			return shift.ResolvedShift{}, err
		}
		if override != nil {
			resolved.StartTime = override.StartTime
			resolved.EndTime = override.EndTime
			resolved.Source = shift.SourceOverride
			resolved.IsOverridden = true
			return resolved, nil
		}
	}

	dateSpecific, err := r.DateSpecificShiftRepository.GetForShiftDate(ctx, s.ID, date)
	if err != nil {
		return shift.ResolvedShift{}, err
	}
	if dateSpecific != nil {
		resolved.StartTime = dateSpecific.StartTime
		resolved.EndTime = dateSpecific.EndTime
		resolved.Source = shift.SourceDateSpecific
		resolved.IsDateSpecific = true
		return resolved, nil
	}

	inRamadan, err := r.isRamadan(ctx, date)
	if err != nil {
		return shift.ResolvedShift{}, err
	}
	if inRamadan && s.RamadanStartTime != nil && s.RamadanEndTime != nil {
		emp, err := r.EmployeeRepository.GetByID(ctx, employeeID)
		if err != nil {
			return shift.ResolvedShift{}, err
		}
		if emp.IsMuslim() {
			resolved.StartTime = *s.RamadanStartTime
			resolved.EndTime = *s.RamadanEndTime
			resolved.Source = shift.SourceRamadan
			resolved.IsRamadan = true
			return resolved, nil
		}
	}

	return resolved, nil
}

// ResolveSchedule resolves every date in [start, end] inclusive, caching
// the whole range per employee.
func (r *Resolver) ResolveSchedule(ctx context.Context, employeeID string, start, end time.Time) ([]shift.ScheduleEntry, error) {
	start, end = shift.DateOnly(start), shift.DateOnly(end)
	if end.Before(start) {
		return nil, shift.ErrInvalidDateRange
	}

	key := cache.EmployeeScheduleKey(employeeID, start, end)
	if raw, ok := r.store.Get(ctx, key); ok {
		var entries []shift.ScheduleEntry
		if err := json.Unmarshal(raw, &entries); err == nil {
			return entries, nil
		}
	}

	var entries []shift.ScheduleEntry
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		resolved, err := r.Resolve(ctx, employeeID, d)
		if err != nil {
			if err == shift.ErrNoEffectiveShift {
				entries = append(entries, shift.ScheduleEntry{Date: d})
				continue
			}
			return nil, fmt.Errorf("failed to resolve schedule for %s: %w", d.Format("2006-01-02"), err)
		}
		rs := resolved
		entries = append(entries, shift.ScheduleEntry{Date: d, Resolved: &rs})
	}

	if raw, err := json.Marshal(entries); err == nil {
		r.store.Set(ctx, key, raw, r.cfg.Cache.EmployeeScheduleTTL)
	}
	return entries, nil
}

// effectiveShift picks the employee's governing shift on the date: the
// highest-priority covering assignment, falling back to the company
// default shift, with created_at breaking priority ties (newest wins).
func (r *Resolver) effectiveShift(ctx context.Context, employeeID string, date time.Time) (shift.Shift, error) {
	assignments, err := r.ShiftAssignmentRepository.ListActiveCovering(ctx, employeeID, date)
	if err != nil {
		return shift.Shift{}, err
	}

	if len(assignments) == 0 {
		s, err := r.ShiftRepository.GetDefault(ctx)
		if err != nil {
			if err == shift.ErrNoDefaultShift {
				return shift.Shift{}, shift.ErrNoEffectiveShift
			}
			return shift.Shift{}, err
		}
		return s, nil
	}

	// Already ordered priority DESC, created_at DESC by the repository.
	return r.ShiftRepository.GetByID(ctx, assignments[0].ShiftID)
}

// isRamadan checks the Ramadan calendar with a daily cache in front; a
// cached "0" records a negative lookup so off-season days do not hit
// the database.
func (r *Resolver) isRamadan(ctx context.Context, date time.Time) (bool, error) {
	key := cache.RamadanPeriodKey(date)
	if raw, ok := r.store.Get(ctx, key); ok {
		return string(raw) == "1", nil
	}

	period, err := r.RamadanPeriodRepository.GetActiveCovering(ctx, date)
	if err != nil {
		return false, err
	}

	val := []byte("0")
	if period != nil {
		val = []byte("1")
	}
	r.store.Set(ctx, key, val, r.cfg.Cache.RamadanPeriodTTL)
	return period != nil, nil
}
