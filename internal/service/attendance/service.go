package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/config"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/calendar"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/employee"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/leave"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/punch"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
	shiftservice "github.com/sahl-hr/attendance-backend-go/internal/service/shift"
	"golang.org/x/sync/errgroup"
)

type AttendanceServiceImpl struct {
	attendance.LogRepository
	punch.PunchRepository
	employee.EmployeeRepository
	calendar.HolidayRepository
	calendar.RamadanPeriodRepository
	leave.LeaveRepository

	resolver *shiftservice.Resolver
	deriver  Deriver
	loc      *time.Location
	logger   *slog.Logger
}

func NewAttendanceService(
	logRepo attendance.LogRepository,
	punchRepo punch.PunchRepository,
	employeeRepo employee.EmployeeRepository,
	holidayRepo calendar.HolidayRepository,
	ramadanRepo calendar.RamadanPeriodRepository,
	leaveRepo leave.LeaveRepository,
	resolver *shiftservice.Resolver,
	cfg *config.Config,
	logger *slog.Logger,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		LogRepository:           logRepo,
		PunchRepository:         punchRepo,
		EmployeeRepository:      employeeRepo,
		HolidayRepository:       holidayRepo,
		RamadanPeriodRepository: ramadanRepo,
		LeaveRepository:         leaveRepo,
		resolver:                resolver,
		deriver: Deriver{
			WeekendDay:     cfg.Shift.WeekendDay,
			RamadanNoBreak: cfg.Shift.RamadanNoBreakDeduction,
		},
		loc:    cfg.Location(),
		logger: logger,
	}
}

// Recompute re-derives the active log for (employee, date) from current
// punches, shift resolution and leave/holiday state. Manual logs are
// never overwritten; the manual correction stands until removed.
func (s *AttendanceServiceImpl) Recompute(ctx context.Context, employeeID string, date time.Time) error {
	date = shift.DateOnly(date)

	existing, err := s.LogRepository.GetActive(ctx, employeeID, date)
	if err != nil {
		return err
	}
	if existing != nil && existing.Source == attendance.SourceManual {
		return nil
	}

	input, err := s.gatherInputs(ctx, employeeID, date)
	if err != nil {
		return err
	}

	log := s.deriver.Derive(input)
	if _, err := s.LogRepository.Upsert(ctx, log); err != nil {
		return fmt.Errorf("failed to persist derived log: %w", err)
	}
	return nil
}

func (s *AttendanceServiceImpl) gatherInputs(ctx context.Context, employeeID string, date time.Time) (DerivationInput, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return DerivationInput{}, fmt.Errorf("%w: %v", attendance.ErrDerivationIntegrity, err)
	}

	punches, err := s.PunchRepository.ListForDate(ctx, employeeID, date)
	if err != nil {
		return DerivationInput{}, err
	}

	var resolved *shift.ResolvedShift
	r, err := s.resolver.Resolve(ctx, employeeID, date)
	if err != nil {
		if !errors.Is(err, shift.ErrNoEffectiveShift) {
			return DerivationInput{}, err
		}
	} else {
		resolved = &r
	}

	// A midnight-crossing shift owns the next morning's punches; those
	// are stored under the next calendar day. Conversely, this day's
	// early punches may belong to the previous night's shift.
	if resolved != nil && resolved.CrossesMidnight() {
		next, err := s.PunchRepository.ListForDate(ctx, employeeID, date.AddDate(0, 0, 1))
		if err != nil {
			return DerivationInput{}, err
		}
		cutoff := nightCutoff(*resolved)
		for _, p := range next {
			if clockMinutesOf(p.Timestamp) < cutoff {
				punches = append(punches, p)
			}
		}
	}
	if len(punches) > 0 {
		if prev, err := s.resolver.Resolve(ctx, employeeID, date.AddDate(0, 0, -1)); err == nil && prev.CrossesMidnight() {
			cutoff := nightCutoff(prev)
			kept := punches[:0]
			for _, p := range punches {
				if !shift.DateOnly(p.Timestamp).Equal(date) || clockMinutesOf(p.Timestamp) >= cutoff {
					kept = append(kept, p)
				}
			}
			punches = kept
		}
	}

	holiday, err := s.HolidayRepository.GetForDate(ctx, date, emp.DepartmentID)
	if err != nil {
		return DerivationInput{}, err
	}

	approvedLeave, err := s.LeaveRepository.GetApprovedCovering(ctx, employeeID, date)
	if err != nil {
		return DerivationInput{}, err
	}

	period, err := s.RamadanPeriodRepository.GetActiveCovering(ctx, date)
	if err != nil {
		return DerivationInput{}, err
	}

	input := DerivationInput{
		EmployeeID:    employeeID,
		Date:          date,
		Punches:       punches,
		Resolved:      resolved,
		Holiday:       holiday,
		ApprovedLeave: approvedLeave,
		InRamadan:     period != nil,
		IsMuslim:      emp.IsMuslim(),
	}

	// Weekend adjacency only matters on a punchless weekend day.
	if len(punches) == 0 && date.Weekday() == s.deriver.WeekendDay {
		if prev, err := s.LogRepository.GetActive(ctx, employeeID, date.AddDate(0, 0, -1)); err == nil && prev != nil {
			input.PrevDayAttended = prev.Attended()
		}
		if next, err := s.LogRepository.GetActive(ctx, employeeID, date.AddDate(0, 0, 1)); err == nil && next != nil {
			input.NextDayAttended = next.Attended()
		}
	}
	return input, nil
}

// RecomputeRange re-derives every date in [start, end] for one employee.
func (s *AttendanceServiceImpl) RecomputeRange(ctx context.Context, employeeID string, start, end time.Time) error {
	start, end = shift.DateOnly(start), shift.DateOnly(end)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if err := s.Recompute(ctx, employeeID, d); err != nil {
			return fmt.Errorf("recompute %s: %w", d.Format("2006-01-02"), err)
		}
	}
	return nil
}

// RecomputeDateForAll re-derives one date for every active employee,
// bounded-parallel per employee.
func (s *AttendanceServiceImpl) RecomputeDateForAll(ctx context.Context, date time.Time) error {
	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, emp := range employees {
		empID := emp.ID
		g.Go(func() error {
			return s.Recompute(gctx, empID, date)
		})
	}
	return g.Wait()
}

// GetLog returns the active log for (employee, date).
func (s *AttendanceServiceImpl) GetLog(ctx context.Context, employeeID string, date time.Time) (attendance.AttendanceLog, error) {
	log, err := s.LogRepository.GetActive(ctx, employeeID, shift.DateOnly(date))
	if err != nil {
		return attendance.AttendanceLog{}, err
	}
	if log == nil {
		return attendance.AttendanceLog{}, attendance.ErrLogNotFound
	}
	return *log, nil
}

// ListLogs returns filtered logs in a date range with a total count.
func (s *AttendanceServiceImpl) ListLogs(ctx context.Context, filter attendance.LogFilter, start, end time.Time) ([]attendance.AttendanceLog, int64, error) {
	if end.Before(start) {
		return nil, 0, leave.ErrInvalidDateRange
	}
	return s.LogRepository.List(ctx, filter, shift.DateOnly(start), shift.DateOnly(end))
}

// CalendarEvents builds display rows for an employee's month: derived
// logs, holidays, and resolved shift windows for days without a log.
func (s *AttendanceServiceImpl) CalendarEvents(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.CalendarEvent, error) {
	start, end = shift.DateOnly(start), shift.DateOnly(end)
	if end.Before(start) {
		return nil, leave.ErrInvalidDateRange
	}

	logs, err := s.LogRepository.ListForEmployeeRange(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	byDate := make(map[time.Time]attendance.AttendanceLog, len(logs))
	for _, l := range logs {
		byDate[shift.DateOnly(l.Date)] = l
	}

	holidays, err := s.HolidayRepository.ListInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	holidayByDate := make(map[time.Time]calendar.Holiday, len(holidays))
	for _, h := range holidays {
		holidayByDate[shift.DateOnly(h.Date)] = h
	}

	schedule, err := s.resolver.ResolveSchedule(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}

	var events []attendance.CalendarEvent
	for _, entry := range schedule {
		if l, ok := byDate[entry.Date]; ok {
			events = append(events, attendance.CalendarEvent{
				Kind:       attendance.EventAttendance,
				Date:       entry.Date,
				EmployeeID: employeeID,
				Title:      string(l.Status),
				ColorClass: attendance.ColorClassFor(attendance.EventAttendance, l.Status),
				LateBy:     l.LateMinutes,
				EarlyBy:    l.EarlyMinutes,
			})
			continue
		}
		if h, ok := holidayByDate[entry.Date]; ok {
			events = append(events, attendance.CalendarEvent{
				Kind:       attendance.EventHoliday,
				Date:       entry.Date,
				Title:      h.Name,
				ColorClass: attendance.ColorClassFor(attendance.EventHoliday, ""),
			})
			continue
		}
		if entry.Resolved != nil {
			events = append(events, attendance.CalendarEvent{
				Kind:       attendance.EventShift,
				Date:       entry.Date,
				EmployeeID: employeeID,
				Title:      entry.Resolved.ShiftName,
				ColorClass: attendance.ColorClassFor(attendance.EventShift, ""),
				Tooltip: fmt.Sprintf("%s - %s",
					entry.Resolved.StartTime.Format("15:04"),
					entry.Resolved.EndTime.Format("15:04")),
			})
		}
	}
	return events, nil
}

// UpsertManual writes a manual correction. Manual logs are excluded
// from punch-driven recomputation until deactivated.
func (s *AttendanceServiceImpl) UpsertManual(ctx context.Context, log attendance.AttendanceLog) (attendance.AttendanceLog, error) {
	if _, err := s.EmployeeRepository.GetByID(ctx, log.EmployeeID); err != nil {
		return attendance.AttendanceLog{}, err
	}
	log.Date = shift.DateOnly(log.Date)
	log.Source = attendance.SourceManual
	log.IsActive = true
	return s.LogRepository.Upsert(ctx, log)
}

// RemovePunch deactivates one punch and re-derives the day it fed.
// When the last punch goes away and neither leave, holiday nor the
// weekend rule applies, the derived log is removed rather than left
// resting as absent with stale times.
func (s *AttendanceServiceImpl) RemovePunch(ctx context.Context, punchID string) error {
	p, err := s.PunchRepository.GetByID(ctx, punchID)
	if err != nil {
		return err
	}
	if err := s.PunchRepository.Deactivate(ctx, punchID); err != nil {
		return err
	}

	date := shift.DateOnly(p.Timestamp)
	if err := s.recomputeOrClear(ctx, p.EmployeeID, date); err != nil {
		return err
	}

	// An early-morning punch may have fed the previous night's log.
	prevDay := date.AddDate(0, 0, -1)
	if prev, err := s.resolver.Resolve(ctx, p.EmployeeID, prevDay); err == nil &&
		prev.CrossesMidnight() && clockMinutesOf(p.Timestamp) < nightCutoff(prev) {
		return s.recomputeOrClear(ctx, p.EmployeeID, prevDay)
	}
	return nil
}

// recomputeOrClear re-derives one day after a punch deletion,
// tombstoning the log instead when the day has nothing left to show.
func (s *AttendanceServiceImpl) recomputeOrClear(ctx context.Context, employeeID string, date time.Time) error {
	existing, err := s.LogRepository.GetActive(ctx, employeeID, date)
	if err != nil {
		return err
	}
	if existing != nil && existing.Source == attendance.SourceManual {
		return nil
	}

	input, err := s.gatherInputs(ctx, employeeID, date)
	if err != nil {
		return err
	}
	if input.EmptyDay(s.deriver.WeekendDay) {
		if existing == nil {
			return nil
		}
		return s.LogRepository.DeactivateForDate(ctx, employeeID, date)
	}

	log := s.deriver.Derive(input)
	if _, err := s.LogRepository.Upsert(ctx, log); err != nil {
		return fmt.Errorf("failed to persist derived log: %w", err)
	}
	return nil
}
