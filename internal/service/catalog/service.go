package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/calendar"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/employee"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/leave"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
	"github.com/sahl-hr/attendance-backend-go/internal/fixtures"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/cache"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/database"
	"github.com/sahl-hr/attendance-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
)

// CatalogServiceImpl owns the policy catalog: leave types, holidays,
// Ramadan periods, and the cascade rules their mutations trigger.
type CatalogServiceImpl struct {
	db *database.DB
	leave.LeaveTypeRepository
	leave.LeaveBalanceRepository
	employee.EmployeeRepository
	calendar.HolidayRepository
	calendar.RamadanPeriodRepository
	shift.ShiftRepository
	shift.ShiftAssignmentRepository
	attendance.LogRepository

	invalidator *cache.Invalidator
	loc         *time.Location
	logger      *slog.Logger
}

func NewCatalogService(
	db *database.DB,
	typeRepo leave.LeaveTypeRepository,
	balanceRepo leave.LeaveBalanceRepository,
	employeeRepo employee.EmployeeRepository,
	holidayRepo calendar.HolidayRepository,
	ramadanRepo calendar.RamadanPeriodRepository,
	shiftRepo shift.ShiftRepository,
	assignmentRepo shift.ShiftAssignmentRepository,
	logRepo attendance.LogRepository,
	invalidator *cache.Invalidator,
	loc *time.Location,
	logger *slog.Logger,
) *CatalogServiceImpl {
	return &CatalogServiceImpl{
		db:                        db,
		LeaveTypeRepository:       typeRepo,
		LeaveBalanceRepository:    balanceRepo,
		EmployeeRepository:        employeeRepo,
		HolidayRepository:         holidayRepo,
		RamadanPeriodRepository:   ramadanRepo,
		ShiftRepository:           shiftRepo,
		ShiftAssignmentRepository: assignmentRepo,
		LogRepository:             logRepo,
		invalidator:               invalidator,
		loc:                       loc,
		logger:                    logger,
	}
}

// InitLeaveTypes seeds the canonical leave-type catalog and creates the
// current-year balance rows for every active employee. Idempotent: types
// already present are left alone.
func (s *CatalogServiceImpl) InitLeaveTypes(ctx context.Context, dryRun bool) (int, error) {
	created := 0
	for _, lt := range fixtures.DefaultLeaveTypes() {
		_, err := s.LeaveTypeRepository.GetByCode(ctx, lt.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, leave.ErrLeaveTypeNotFound) {
			return created, err
		}
		if dryRun {
			created++
			continue
		}
		if err := s.CreateLeaveType(ctx, lt); err != nil {
			return created, fmt.Errorf("failed to seed leave type %s: %w", lt.Code, err)
		}
		created++
	}
	return created, nil
}

// CreateLeaveType persists the type and bulk-creates balance rows for
// all active employees: accrual-enabled types start at zero, the rest
// at the type's allowance.
func (s *CatalogServiceImpl) CreateLeaveType(ctx context.Context, lt leave.LeaveType) error {
	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		created, err := s.LeaveTypeRepository.Create(txCtx, lt)
		if err != nil {
			return err
		}

		// Shared-balance types ride on their target's balance rows.
		if created.BalanceCalculation == leave.BalanceShared {
			return nil
		}

		employees, err := s.EmployeeRepository.ListActive(txCtx)
		if err != nil {
			return err
		}

		total := created.DaysAllowed
		if created.AccrualEnabled {
			total = decimal.Zero
		}
		year := time.Now().In(s.loc).Year()
		for _, emp := range employees {
			if _, err := s.LeaveBalanceRepository.Create(txCtx, leave.LeaveBalance{
				EmployeeID:  emp.ID,
				LeaveTypeID: created.ID,
				TotalDays:   total,
				Year:        year,
			}); err != nil {
				return fmt.Errorf("failed to create balance for %s: %w", emp.EmployeeNumber, err)
			}
		}
		return nil
	})
}

// CreateHoliday stores a holiday and flushes the affected caches.
func (s *CatalogServiceImpl) CreateHoliday(ctx context.Context, h calendar.Holiday) (calendar.Holiday, error) {
	h.Date = dateOnly(h.Date)
	h.IsActive = true
	created, err := s.HolidayRepository.Create(ctx, h)
	if err != nil {
		return calendar.Holiday{}, err
	}
	s.enqueueHolidayEvent(ctx, created)
	return created, nil
}

// DeleteHoliday deactivates the holiday and removes every
// holiday-sourced log on its date, returning the employee ids whose
// logs need re-derivation.
func (s *CatalogServiceImpl) DeleteHoliday(ctx context.Context, holidayID string) ([]string, error) {
	h, err := s.HolidayRepository.GetByID(ctx, holidayID)
	if err != nil {
		return nil, err
	}

	var affected []string
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if err := s.HolidayRepository.Deactivate(txCtx, holidayID); err != nil {
			return err
		}
		affected, err = s.LogRepository.DeactivateHolidaySourced(txCtx, h.Date)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.enqueueHolidayEvent(ctx, h)
	return affected, nil
}

// GenerateRecurringHolidays materializes every recurring holiday
// template into a concrete row for the given year. Idempotent.
func (s *CatalogServiceImpl) GenerateRecurringHolidays(ctx context.Context, year int, dryRun bool) (int, error) {
	templates, err := s.HolidayRepository.ListRecurring(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, tpl := range templates {
		date := time.Date(year, tpl.Date.Month(), tpl.Date.Day(), 0, 0, 0, 0, s.loc)
		exists, err := s.HolidayRepository.ExistsOn(ctx, date, tpl.Name)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		if dryRun {
			created++
			continue
		}
		if _, err := s.CreateHoliday(ctx, calendar.Holiday{
			Date:         date,
			Name:         tpl.Name,
			HolidayType:  tpl.HolidayType,
			IsPaid:       tpl.IsPaid,
			DepartmentID: tpl.DepartmentID,
		}); err != nil {
			return created, fmt.Errorf("failed to generate holiday %s: %w", tpl.Name, err)
		}
		created++
	}
	return created, nil
}

// CreateRamadanPeriod validates the period invariants: 28-31 days,
// start and end in the same year, one active period per year, no
// overlap with other periods.
func (s *CatalogServiceImpl) CreateRamadanPeriod(ctx context.Context, p calendar.RamadanPeriod) (calendar.RamadanPeriod, error) {
	p.StartDate, p.EndDate = dateOnly(p.StartDate), dateOnly(p.EndDate)
	if err := validateRamadanPeriod(p); err != nil {
		return calendar.RamadanPeriod{}, err
	}

	existing, err := s.RamadanPeriodRepository.GetActiveForYear(ctx, p.Year)
	if err != nil {
		return calendar.RamadanPeriod{}, err
	}
	if existing != nil {
		return calendar.RamadanPeriod{}, calendar.ErrRamadanPeriodDuplicate
	}
	overlapping, err := s.RamadanPeriodRepository.ListOverlapping(ctx, p.StartDate, p.EndDate)
	if err != nil {
		return calendar.RamadanPeriod{}, err
	}
	if len(overlapping) > 0 {
		return calendar.RamadanPeriod{}, calendar.ErrRamadanPeriodOverlap
	}

	p.IsActive = true
	created, err := s.RamadanPeriodRepository.Create(ctx, p)
	if err != nil {
		return calendar.RamadanPeriod{}, err
	}
	s.enqueueRamadanEvent(ctx, created.StartDate, created.EndDate)
	return created, nil
}

// UpdateRamadanPeriod replaces an active period's dates, invalidating
// derived state across the union of the old and new ranges.
func (s *CatalogServiceImpl) UpdateRamadanPeriod(ctx context.Context, p calendar.RamadanPeriod) error {
	p.StartDate, p.EndDate = dateOnly(p.StartDate), dateOnly(p.EndDate)
	if err := validateRamadanPeriod(p); err != nil {
		return err
	}

	old, err := s.RamadanPeriodRepository.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if err := s.RamadanPeriodRepository.Update(ctx, p); err != nil {
		return err
	}

	start, end := p.StartDate, p.EndDate
	if old.StartDate.Before(start) {
		start = dateOnly(old.StartDate)
	}
	if old.EndDate.After(end) {
		end = dateOnly(old.EndDate)
	}
	s.enqueueRamadanEvent(ctx, start, end)
	return nil
}

// DeactivateShift cascades: the shift's active assignments are
// deactivated with it.
func (s *CatalogServiceImpl) DeactivateShift(ctx context.Context, shiftID string) error {
	sh, err := s.ShiftRepository.GetByID(ctx, shiftID)
	if err != nil {
		return err
	}
	assignments, err := s.ShiftAssignmentRepository.ListActiveByShift(ctx, shiftID)
	if err != nil {
		return err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		sh.IsActive = false
		if err := s.ShiftRepository.Update(txCtx, sh); err != nil {
			return err
		}
		for _, a := range assignments {
			if err := s.ShiftAssignmentRepository.Deactivate(txCtx, a.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.EmployeeID)
	}
	s.invalidator.Enqueue(ctx, cache.Event{
		Kind:        cache.EventShiftMutated,
		ShiftID:     &shiftID,
		EmployeeIDs: ids,
	})
	return nil
}

func (s *CatalogServiceImpl) enqueueHolidayEvent(ctx context.Context, h calendar.Holiday) {
	date := dateOnly(h.Date)
	s.invalidator.Enqueue(ctx, cache.Event{
		Kind:         cache.EventHolidayMutated,
		DepartmentID: h.DepartmentID,
		RangeStart:   &date,
		RangeEnd:     &date,
	})
}

func (s *CatalogServiceImpl) enqueueRamadanEvent(ctx context.Context, start, end time.Time) {
	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		s.logger.Warn("Ramadan invalidation sweep failed to list employees", "error", err)
	}
	ids := make([]string, 0, len(employees))
	for _, emp := range employees {
		ids = append(ids, emp.ID)
	}
	s.invalidator.Enqueue(ctx, cache.Event{
		Kind:        cache.EventRamadanMutated,
		EmployeeIDs: ids,
		RangeStart:  &start,
		RangeEnd:    &end,
	})
}

func validateRamadanPeriod(p calendar.RamadanPeriod) error {
	if p.EndDate.Before(p.StartDate) {
		return calendar.ErrRamadanPeriodDuration
	}
	if p.StartDate.Year() != p.EndDate.Year() || p.StartDate.Year() != p.Year {
		return calendar.ErrRamadanPeriodDuration
	}
	if days := p.DurationDays(); days < 28 || days > 31 {
		return calendar.ErrRamadanPeriodDuration
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ListLeaveTypes returns the active leave-type catalog.
func (s *CatalogServiceImpl) ListLeaveTypes(ctx context.Context) ([]leave.LeaveType, error) {
	return s.LeaveTypeRepository.ListActive(ctx)
}

// ListHolidays returns active holidays inside the range.
func (s *CatalogServiceImpl) ListHolidays(ctx context.Context, start, end time.Time) ([]calendar.Holiday, error) {
	return s.HolidayRepository.ListInRange(ctx, start, end)
}

// ListShifts returns the active shift catalog.
func (s *CatalogServiceImpl) ListShifts(ctx context.Context) ([]shift.Shift, error) {
	return s.ShiftRepository.ListActive(ctx)
}

// InitRamadanPeriods seeds the published Ramadan calendar. Years that
// already have an active period are skipped.
func (s *CatalogServiceImpl) InitRamadanPeriods(ctx context.Context, dryRun bool) (int, error) {
	created := 0
	for _, p := range fixtures.DefaultRamadanPeriods(s.loc) {
		existing, err := s.RamadanPeriodRepository.GetActiveForYear(ctx, p.Year)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}
		if !dryRun {
			if _, err := s.CreateRamadanPeriod(ctx, p); err != nil {
				return created, err
			}
		}
		created++
	}
	return created, nil
}
