package shift

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/employee"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/cache"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/database"
	"github.com/sahl-hr/attendance-backend-go/internal/repository/postgresql"
)

type ShiftServiceImpl struct {
	db *database.DB
	shift.ShiftRepository
	shift.ShiftAssignmentRepository
	shift.DateSpecificShiftRepository
	shift.DateSpecificShiftOverrideRepository
	employee.EmployeeRepository

	invalidator *cache.Invalidator
	logger      *slog.Logger
}

func NewShiftService(
	db *database.DB,
	shiftRepo shift.ShiftRepository,
	assignmentRepo shift.ShiftAssignmentRepository,
	dateSpecificRepo shift.DateSpecificShiftRepository,
	overrideRepo shift.DateSpecificShiftOverrideRepository,
	employeeRepo employee.EmployeeRepository,
	invalidator *cache.Invalidator,
	logger *slog.Logger,
) *ShiftServiceImpl {
	return &ShiftServiceImpl{
		db:                                  db,
		ShiftRepository:                     shiftRepo,
		ShiftAssignmentRepository:           assignmentRepo,
		DateSpecificShiftRepository:         dateSpecificRepo,
		DateSpecificShiftOverrideRepository: overrideRepo,
		EmployeeRepository:                  employeeRepo,
		invalidator:                         invalidator,
		logger:                              logger,
	}
}

// CreateShift validates and persists a shift definition. Priority
// defaults from the shift type when the caller leaves it zero.
func (s *ShiftServiceImpl) CreateShift(ctx context.Context, sh shift.Shift) (shift.Shift, error) {
	if sh.StartTime.Hour() == sh.EndTime.Hour() && sh.StartTime.Minute() == sh.EndTime.Minute() {
		return shift.Shift{}, shift.ErrInvalidWindow
	}
	if sh.BreakMinutes < 0 || sh.BreakMinutes > 180 {
		return shift.Shift{}, shift.ErrBreakOutOfRange
	}
	if sh.GraceMinutes < 0 || sh.GraceMinutes > 60 {
		return shift.Shift{}, shift.ErrGraceOutOfRange
	}
	if sh.Priority == 0 {
		sh.Priority = shift.DefaultPriority(sh.Type)
	}
	sh.IsActive = true
	return s.ShiftRepository.Create(ctx, sh)
}

// AssignShift creates a shift assignment under the overlap policy:
// an existing overlapping assignment of equal or higher priority
// rejects the request; a lower-priority single-day assignment is
// deactivated; a lower-priority multi-day assignment is trimmed or
// split around the new range. The employee row is locked so concurrent
// assignments for the same employee serialize.
func (s *ShiftServiceImpl) AssignShift(ctx context.Context, req shift.CreateAssignmentRequest) (shift.ShiftAssignment, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return shift.ShiftAssignment{}, fmt.Errorf("invalid start date: %w", err)
	}
	var end *time.Time
	rangeEnd := start.AddDate(1, 0, 0) // open-ended assignments compare against a horizon
	if req.EndDate != nil {
		e, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return shift.ShiftAssignment{}, fmt.Errorf("invalid end date: %w", err)
		}
		if e.Before(start) {
			return shift.ShiftAssignment{}, shift.ErrInvalidDateRange
		}
		end = &e
		rangeEnd = e
	}

	newShift, err := s.ShiftRepository.GetByID(ctx, req.ShiftID)
	if err != nil {
		return shift.ShiftAssignment{}, err
	}

	var created shift.ShiftAssignment
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if err := s.EmployeeRepository.LockForUpdate(txCtx, req.EmployeeID); err != nil {
			return err
		}

		overlapping, err := s.ShiftAssignmentRepository.ListActiveOverlapping(txCtx, req.EmployeeID, start, rangeEnd)
		if err != nil {
			return err
		}

		for _, existing := range overlapping {
			existingPriority := newShift.Priority
			if existing.ShiftPriority != nil {
				existingPriority = *existing.ShiftPriority
			}
			if existingPriority >= newShift.Priority {
				return shift.ErrAssignmentConflict
			}
			if err := s.displace(txCtx, existing, start, end); err != nil {
				return err
			}
		}

		created, err = s.ShiftAssignmentRepository.Create(txCtx, shift.ShiftAssignment{
			EmployeeID: req.EmployeeID,
			ShiftID:    req.ShiftID,
			StartDate:  start,
			EndDate:    end,
			IsActive:   true,
			CreatedBy:  req.CreatedBy,
		})
		return err
	})
	if err != nil {
		return shift.ShiftAssignment{}, err
	}

	s.invalidateForEmployee(ctx, req.EmployeeID, &req.ShiftID)
	return created, nil
}

// displace resolves a lower-priority overlap: single-day assignments
// are deactivated outright; multi-day ones are trimmed to end before
// the new range, with a tail assignment re-created when the old range
// extends past the new one.
func (s *ShiftServiceImpl) displace(ctx context.Context, existing shift.ShiftAssignment, newStart time.Time, newEnd *time.Time) error {
	if existing.IsSingleDay() {
		return s.ShiftAssignmentRepository.Deactivate(ctx, existing.ID)
	}

	existingStart := shift.DateOnly(existing.StartDate)

	if existingStart.Before(newStart) {
		head := existing
		trimmed := newStart.AddDate(0, 0, -1)
		head.EndDate = &trimmed
		if err := s.ShiftAssignmentRepository.Update(ctx, head); err != nil {
			return err
		}
	} else if err := s.ShiftAssignmentRepository.Deactivate(ctx, existing.ID); err != nil {
		return err
	}

	// Re-create the remainder beyond the new range, when there is one.
	// An open-ended assignment always has a remainder and resumes
	// open-ended the day after the new range closes.
	if newEnd != nil && (existing.EndDate == nil || shift.DateOnly(*existing.EndDate).After(shift.DateOnly(*newEnd))) {
		tailStart := newEnd.AddDate(0, 0, 1)
		_, err := s.ShiftAssignmentRepository.Create(ctx, shift.ShiftAssignment{
			EmployeeID: existing.EmployeeID,
			ShiftID:    existing.ShiftID,
			StartDate:  tailStart,
			EndDate:    existing.EndDate,
			IsActive:   true,
			CreatedBy:  existing.CreatedBy,
		})
		return err
	}
	return nil
}

// EndAssignment deactivates an assignment, keeping the row for history.
func (s *ShiftServiceImpl) EndAssignment(ctx context.Context, id string) error {
	a, err := s.ShiftAssignmentRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ShiftAssignmentRepository.Deactivate(ctx, id); err != nil {
		return err
	}
	s.invalidateForEmployee(ctx, a.EmployeeID, &a.ShiftID)
	return nil
}

// SetDateSpecificWindow replaces one shift's window on one date.
func (s *ShiftServiceImpl) SetDateSpecificWindow(ctx context.Context, d shift.DateSpecificShift) (shift.DateSpecificShift, error) {
	if _, err := s.ShiftRepository.GetByID(ctx, d.ShiftID); err != nil {
		return shift.DateSpecificShift{}, err
	}
	d.Date = shift.DateOnly(d.Date)
	d.IsActive = true

	created, err := s.DateSpecificShiftRepository.Create(ctx, d)
	if err != nil {
		return shift.DateSpecificShift{}, err
	}

	affected, err := s.ShiftAssignmentRepository.ListActiveByShift(ctx, d.ShiftID)
	if err == nil {
		ids := make([]string, 0, len(affected))
		for _, a := range affected {
			ids = append(ids, a.EmployeeID)
		}
		s.invalidator.Enqueue(ctx, cache.Event{
			Kind:        cache.EventShiftMutated,
			ShiftID:     &d.ShiftID,
			EmployeeIDs: ids,
		})
	}
	return created, nil
}

// SetTypeOverride replaces the window of every shift of a type on one
// date (NIGHT overrides in practice).
func (s *ShiftServiceImpl) SetTypeOverride(ctx context.Context, o shift.DateSpecificShiftOverride) (shift.DateSpecificShiftOverride, error) {
	o.Date = shift.DateOnly(o.Date)
	o.IsActive = true

	created, err := s.DateSpecificShiftOverrideRepository.Create(ctx, o)
	if err != nil {
		return shift.DateSpecificShiftOverride{}, err
	}

	// Every shift of the type is affected; flush per-employee keys for
	// all assignees of every active shift of that type.
	shifts, err := s.ShiftRepository.ListActive(ctx)
	if err != nil {
		s.logger.Warn("Override created but invalidation sweep failed", "error", err)
		return created, nil
	}
	for _, sh := range shifts {
		if sh.Type != o.ShiftType {
			continue
		}
		assignees, err := s.ShiftAssignmentRepository.ListActiveByShift(ctx, sh.ID)
		if err != nil {
			continue
		}
		ids := make([]string, 0, len(assignees))
		for _, a := range assignees {
			ids = append(ids, a.EmployeeID)
		}
		shiftID := sh.ID
		s.invalidator.Enqueue(ctx, cache.Event{
			Kind:        cache.EventShiftMutated,
			ShiftID:     &shiftID,
			EmployeeIDs: ids,
		})
	}
	return created, nil
}

func (s *ShiftServiceImpl) invalidateForEmployee(ctx context.Context, employeeID string, shiftID *string) {
	ev := cache.Event{
		Kind:        cache.EventAssignmentMutated,
		EmployeeIDs: []string{employeeID},
		ShiftID:     shiftID,
	}
	if emp, err := s.EmployeeRepository.GetByID(ctx, employeeID); err == nil {
		ev.DepartmentID = emp.DepartmentID
	}
	s.invalidator.Enqueue(ctx, ev)
}
