package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sahl-hr/attendance-backend-go/internal/config"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/calendar"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/employee"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/leave"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/database"
	"github.com/sahl-hr/attendance-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
)

const balanceRetryAttempts = 3

// Recomputer re-derives the attendance log for one (employee, date).
// Satisfied by the attendance service.
type Recomputer interface {
	Recompute(ctx context.Context, employeeID string, date time.Time) error
}

type LeaveServiceImpl struct {
	db *database.DB
	leave.LeaveTypeRepository
	leave.LeaveRepository
	leave.LeaveBalanceRepository
	leave.BeginningBalanceRepository
	employee.EmployeeRepository
	calendar.HolidayRepository
	attendance.LogRepository

	recomputer Recomputer
	ratePer30  decimal.Decimal
	weekendDay time.Weekday
	loc        *time.Location
	logger     *slog.Logger
}

func NewLeaveService(
	db *database.DB,
	typeRepo leave.LeaveTypeRepository,
	leaveRepo leave.LeaveRepository,
	balanceRepo leave.LeaveBalanceRepository,
	beginningRepo leave.BeginningBalanceRepository,
	employeeRepo employee.EmployeeRepository,
	holidayRepo calendar.HolidayRepository,
	logRepo attendance.LogRepository,
	recomputer Recomputer,
	cfg *config.Config,
	logger *slog.Logger,
) (*LeaveServiceImpl, error) {
	rate, err := decimal.NewFromString(cfg.Leave.AccrualRatePer30)
	if err != nil {
		return nil, fmt.Errorf("invalid accrual rate %q: %w", cfg.Leave.AccrualRatePer30, err)
	}
	return &LeaveServiceImpl{
		db:                         db,
		LeaveTypeRepository:        typeRepo,
		LeaveRepository:            leaveRepo,
		LeaveBalanceRepository:     balanceRepo,
		BeginningBalanceRepository: beginningRepo,
		EmployeeRepository:         employeeRepo,
		HolidayRepository:          holidayRepo,
		LogRepository:              logRepo,
		recomputer:                 recomputer,
		ratePer30:                  rate,
		weekendDay:                 cfg.Shift.WeekendDay,
		loc:                        cfg.Location(),
		logger:                     logger,
	}, nil
}

// validationOutcome carries the parsed, checked request through the
// create path so validation runs exactly once.
type validationOutcome struct {
	emp       employee.Employee
	leaveType leave.LeaveType
	start     time.Time
	end       time.Time
	duration  decimal.Decimal
	available *decimal.Decimal
	ruleErr   error
}

func (s *LeaveServiceImpl) validate(ctx context.Context, req leave.CreateLeaveRequest, excludeLeaveID string) (validationOutcome, error) {
	out := validationOutcome{}

	start, err := time.ParseInLocation("2006-01-02", req.StartDate, s.loc)
	if err != nil {
		return out, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.ParseInLocation("2006-01-02", req.EndDate, s.loc)
	if err != nil {
		return out, fmt.Errorf("invalid end date: %w", err)
	}
	out.start, out.end = start, end
	if end.Before(start) {
		out.ruleErr = leave.ErrInvalidDateRange
		return out, nil
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return out, err
	}
	if !emp.IsActive {
		return out, employee.ErrEmployeeNotFound
	}
	out.emp = emp

	lt, err := s.LeaveTypeRepository.GetByCode(ctx, req.Code)
	if err != nil {
		return out, err
	}
	out.leaveType = lt

	holidays, err := s.holidayCountInRange(ctx, start, end, emp.DepartmentID)
	if err != nil {
		return out, err
	}
	out.duration = CountDuration(start, end, holidays, req.StartHalf, req.EndHalf)

	if err := validateRules(lt, emp, req.SubType, out.duration, req.DocumentURL != nil); err != nil {
		out.ruleErr = err
		return out, nil
	}

	if lt.Rules.IsOneTime {
		prior, err := s.LeaveRepository.HasPriorOfCode(ctx, emp.ID, lt.Code)
		if err != nil {
			return out, err
		}
		if prior {
			out.ruleErr = leave.ErrOneTimeAlreadyUsed
			return out, nil
		}
	}

	overlap, err := s.LeaveRepository.HasOverlapping(ctx, emp.ID, start, end, excludeLeaveID)
	if err != nil {
		return out, err
	}
	if overlap {
		out.ruleErr = leave.ErrOverlappingLeave
		return out, nil
	}

	switch lt.BalanceCalculation {
	case leave.BalanceTiered:
		tiers, err := s.tiersFor(ctx, emp.ID, lt, start.Year())
		if err != nil {
			return out, err
		}
		if _, err := allocateTier(tiers, out.duration); err != nil {
			out.ruleErr = err
		}
	case leave.BalanceAccrual, leave.BalanceShared, leave.BalanceFixed:
		available, err := s.availableFor(ctx, emp, lt, start.Year())
		if err != nil {
			return out, err
		}
		out.available = &available
		if out.duration.GreaterThan(available) {
			out.ruleErr = leave.ErrInsufficientBalance
		}
	}
	return out, nil
}

// Validate runs the full rule set without side effects.
func (s *LeaveServiceImpl) Validate(ctx context.Context, req leave.CreateLeaveRequest) (leave.ValidationResult, error) {
	out, err := s.validate(ctx, req, "")
	if err != nil {
		return leave.ValidationResult{}, err
	}
	result := leave.ValidationResult{Valid: out.ruleErr == nil, Duration: out.duration}
	if out.ruleErr != nil {
		if errors.Is(out.ruleErr, leave.ErrInsufficientBalance) && out.available != nil {
			result.Message = fmt.Sprintf("Insufficient balance. Available: %s days", out.available.Round(2))
		} else {
			result.Message = out.ruleErr.Error()
		}
	}
	return result, nil
}

// Create validates and stores a pending leave, reserving its duration
// in pending_days.
func (s *LeaveServiceImpl) Create(ctx context.Context, req leave.CreateLeaveRequest) (leave.Leave, error) {
	out, err := s.validate(ctx, req, "")
	if err != nil {
		return leave.Leave{}, err
	}
	if out.ruleErr != nil {
		return leave.Leave{}, out.ruleErr
	}

	var created leave.Leave
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		created, err = s.LeaveRepository.Create(txCtx, leave.Leave{
			EmployeeID:  out.emp.ID,
			LeaveTypeID: out.leaveType.ID,
			SubType:     req.SubType,
			StartDate:   out.start,
			EndDate:     out.end,
			StartHalf:   req.StartHalf,
			EndHalf:     req.EndHalf,
			Duration:    out.duration,
			Reason:      req.Reason,
			Status:      leave.StatusPending,
			DocumentURL: req.DocumentURL,
		})
		if err != nil {
			return err
		}
		return s.adjustBalance(txCtx, out.emp.ID, out.leaveType, out.start.Year(), decimal.Zero, out.duration)
	})
	if err != nil {
		return leave.Leave{}, err
	}
	return created, nil
}

// Approve transitions a pending leave to approved and applies the side
// effects atomically: leave-status logs for each covered date, balance
// consumption, and tier consumption for tiered types.
func (s *LeaveServiceImpl) Approve(ctx context.Context, leaveID, actorID string) error {
	l, err := s.LeaveRepository.GetByID(ctx, leaveID)
	if err != nil {
		return err
	}
	if l.Status != leave.StatusPending || !l.IsActive {
		return leave.ErrAlreadyProcessed
	}
	lt, err := s.LeaveTypeRepository.GetByID(ctx, l.LeaveTypeID)
	if err != nil {
		return err
	}

	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		now := time.Now().In(s.loc)

		l.Status = leave.StatusApproved
		l.ActorID = &actorID
		l.ActedAt = &now
		if err := s.LeaveRepository.Update(txCtx, l); err != nil {
			return err
		}

		if err := s.writeLeaveLogs(txCtx, l); err != nil {
			return err
		}

		if err := s.adjustBalance(txCtx, l.EmployeeID, lt, l.StartDate.Year(), l.Duration, l.Duration.Neg()); err != nil {
			return err
		}

		if lt.BalanceCalculation == leave.BalanceTiered {
			return s.consumeTier(txCtx, l.EmployeeID, lt, l.StartDate.Year(), l.Duration)
		}
		return nil
	})
}

// Reject transitions a pending leave to rejected and releases its
// pending reservation.
func (s *LeaveServiceImpl) Reject(ctx context.Context, leaveID, actorID, reason string) error {
	l, err := s.LeaveRepository.GetByID(ctx, leaveID)
	if err != nil {
		return err
	}
	if l.Status != leave.StatusPending || !l.IsActive {
		return leave.ErrAlreadyProcessed
	}
	lt, err := s.LeaveTypeRepository.GetByID(ctx, l.LeaveTypeID)
	if err != nil {
		return err
	}

	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		now := time.Now().In(s.loc)

		l.Status = leave.StatusRejected
		l.ActorID = &actorID
		l.ActedAt = &now
		if reason != "" {
			l.RejectReason = &reason
		}
		if err := s.LeaveRepository.Update(txCtx, l); err != nil {
			return err
		}
		return s.adjustBalance(txCtx, l.EmployeeID, lt, l.StartDate.Year(), decimal.Zero, l.Duration.Neg())
	})
}

// Cancel unwinds a pending or approved leave. For approved leaves the
// leave-sourced logs are removed, the balance credited back, and every
// affected date re-derived.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, leaveID, actorID string) error {
	l, err := s.LeaveRepository.GetByID(ctx, leaveID)
	if err != nil {
		return err
	}
	if !l.IsActive || (l.Status != leave.StatusPending && l.Status != leave.StatusApproved) {
		return leave.ErrAlreadyProcessed
	}
	lt, err := s.LeaveTypeRepository.GetByID(ctx, l.LeaveTypeID)
	if err != nil {
		return err
	}

	wasApproved := l.Status == leave.StatusApproved
	var affectedDates []time.Time

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		now := time.Now().In(s.loc)

		l.Status = leave.StatusCancelled
		l.ActorID = &actorID
		l.ActedAt = &now
		if err := s.LeaveRepository.Update(txCtx, l); err != nil {
			return err
		}

		if !wasApproved {
			return s.adjustBalance(txCtx, l.EmployeeID, lt, l.StartDate.Year(), decimal.Zero, l.Duration.Neg())
		}

		affectedDates, err = s.LogRepository.DeactivateLeaveSourced(txCtx, l.ID)
		if err != nil {
			return err
		}
		if err := s.adjustBalance(txCtx, l.EmployeeID, lt, l.StartDate.Year(), l.Duration.Neg(), decimal.Zero); err != nil {
			return err
		}
		if lt.BalanceCalculation == leave.BalanceTiered {
			return s.creditTier(txCtx, l.EmployeeID, lt, l.StartDate.Year(), l.Duration)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.recomputeDates(ctx, l.EmployeeID, l.StartDate, l.EndDate, affectedDates)
	return nil
}

// Delete deactivates a leave, unwinding approval side effects first.
func (s *LeaveServiceImpl) Delete(ctx context.Context, leaveID, actorID string) error {
	l, err := s.LeaveRepository.GetByID(ctx, leaveID)
	if err != nil {
		return err
	}
	if l.IsActive && (l.Status == leave.StatusPending || l.Status == leave.StatusApproved) {
		if err := s.Cancel(ctx, leaveID, actorID); err != nil {
			return err
		}
	}
	return s.LeaveRepository.Deactivate(ctx, leaveID)
}

// List returns filtered leaves with a total count.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.Leave, int64, error) {
	return s.LeaveRepository.List(ctx, filter)
}

// Balances returns the query-time balance view for every leave type the
// employee holds a balance row for, with accrual computed on the fly.
func (s *LeaveServiceImpl) Balances(ctx context.Context, employeeID string, year int) ([]leave.BalanceView, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	balances, err := s.LeaveBalanceRepository.ListForEmployee(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}

	types, err := s.LeaveTypeRepository.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	typeByID := make(map[string]leave.LeaveType, len(types))
	for _, lt := range types {
		typeByID[lt.ID] = lt
	}

	var views []leave.BalanceView
	for _, b := range balances {
		lt, ok := typeByID[b.LeaveTypeID]
		if !ok {
			continue
		}
		view := leave.BalanceView{
			LeaveTypeCode: lt.Code,
			Year:          b.Year,
			TotalDays:     b.TotalDays,
			UsedDays:      b.UsedDays,
			PendingDays:   b.PendingDays,
		}
		if lt.AccrualEnabled {
			accrued, err := s.accruedFor(ctx, emp, lt.ID)
			if err != nil {
				return nil, err
			}
			view.AccruedDays = accrued
		}
		view.AvailableDays = b.TotalDays.Add(view.AccruedDays).Sub(b.UsedDays).Sub(b.PendingDays)
		if lt.BalanceCalculation == leave.BalanceTiered {
			tiers, err := s.LeaveBalanceRepository.ListTiers(ctx, b.ID)
			if err != nil {
				return nil, err
			}
			view.Tiers = tiers
		}
		views = append(views, view)
	}
	return views, nil
}

// writeLeaveLogs upserts a leave-status log for every covered date. A
// machine log with a recorded first-in keeps its punch data; only the
// status flips.
func (s *LeaveServiceImpl) writeLeaveLogs(ctx context.Context, l leave.Leave) error {
	leaveID := l.ID
	for d := shift.DateOnly(l.StartDate); !d.After(shift.DateOnly(l.EndDate)); d = d.AddDate(0, 0, 1) {
		existing, err := s.LogRepository.GetActive(ctx, l.EmployeeID, d)
		if err != nil {
			return err
		}
		if existing != nil && existing.Source == attendance.SourceMachine && existing.FirstInTime != nil {
			existing.Status = attendance.StatusLeave
			existing.LeaveID = &leaveID
			if _, err := s.LogRepository.Upsert(ctx, *existing); err != nil {
				return err
			}
			continue
		}
		log := attendance.AttendanceLog{
			EmployeeID: l.EmployeeID,
			Date:       d,
			Status:     attendance.StatusLeave,
			Source:     attendance.SourceLeave,
			LeaveID:    &leaveID,
			IsActive:   true,
		}
		if _, err := s.LogRepository.Upsert(ctx, log); err != nil {
			return err
		}
	}
	return nil
}

// governingType resolves shared-balance indirection: HALF consumes the
// ANNUAL balance.
func (s *LeaveServiceImpl) governingType(ctx context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	if lt.BalanceCalculation != leave.BalanceShared || lt.SharedBalanceWith == nil {
		return lt, nil
	}
	return s.LeaveTypeRepository.GetByCode(ctx, *lt.SharedBalanceWith)
}

// adjustBalance applies used/pending deltas with the optimistic version
// check, retrying up to three times before giving up with
// ErrBalanceContention.
func (s *LeaveServiceImpl) adjustBalance(ctx context.Context, employeeID string, lt leave.LeaveType, year int, usedDelta, pendingDelta decimal.Decimal) error {
	governing, err := s.governingType(ctx, lt)
	if err != nil {
		return err
	}
	for attempt := 0; attempt < balanceRetryAttempts; attempt++ {
		b, err := s.LeaveBalanceRepository.GetForYear(ctx, employeeID, governing.ID, year)
		if err != nil {
			return err
		}
		if b == nil {
			return leave.ErrBalanceNotFound
		}
		ok, err := s.LeaveBalanceRepository.AdjustUsage(ctx, b.ID, usedDelta, pendingDelta, b.UpdatedAt)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return leave.ErrBalanceContention
}

// availableFor computes opening + accrued - used - pending for the
// governing balance of the type.
func (s *LeaveServiceImpl) availableFor(ctx context.Context, emp employee.Employee, lt leave.LeaveType, year int) (decimal.Decimal, error) {
	governing, err := s.governingType(ctx, lt)
	if err != nil {
		return decimal.Zero, err
	}
	b, err := s.LeaveBalanceRepository.GetForYear(ctx, emp.ID, governing.ID, year)
	if err != nil {
		return decimal.Zero, err
	}
	if b == nil {
		return decimal.Zero, leave.ErrBalanceNotFound
	}
	available := b.Available()
	if governing.AccrualEnabled {
		accrued, err := s.accruedFor(ctx, emp, governing.ID)
		if err != nil {
			return decimal.Zero, err
		}
		available = available.Add(accrued)
	}
	return available, nil
}

// accruedFor computes query-time accrual: working days between the
// anchor date and today times the configured rate per 30.
func (s *LeaveServiceImpl) accruedFor(ctx context.Context, emp employee.Employee, leaveTypeID string) (decimal.Decimal, error) {
	today := shift.DateOnly(time.Now().In(s.loc))

	anchor := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, s.loc)
	if emp.JoinedDate != nil && emp.JoinedDate.After(anchor) {
		anchor = shift.DateOnly(*emp.JoinedDate)
	}
	beginning, err := s.BeginningBalanceRepository.GetLatest(ctx, emp.ID, leaveTypeID)
	if err != nil {
		return decimal.Zero, err
	}
	if beginning != nil {
		anchor = shift.DateOnly(beginning.AsOfDate)
	}

	attended, err := s.LogRepository.ListAttendedDatesInRange(ctx, emp.ID, anchor, today)
	if err != nil {
		return decimal.Zero, err
	}
	holidays, err := s.HolidayRepository.ListInRange(ctx, anchor, today)
	if err != nil {
		return decimal.Zero, err
	}
	var holidayDates []time.Time
	for _, h := range holidays {
		if h.AppliesTo(emp.DepartmentID) {
			holidayDates = append(holidayDates, h.Date)
		}
	}

	working := CountWorkingDays(anchor, today, attended, holidayDates, s.weekendDay)
	return Accrue(working, s.ratePer30), nil
}

// tiersFor returns the employee's tiers for a tiered type's balance.
// Unpersisted balances get tiers computed from the type's rules; the
// read path never writes, materialization happens on first consumption.
func (s *LeaveServiceImpl) tiersFor(ctx context.Context, employeeID string, lt leave.LeaveType, year int) ([]leave.LeaveBalanceTier, error) {
	b, err := s.LeaveBalanceRepository.GetForYear(ctx, employeeID, lt.ID, year)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, leave.ErrBalanceNotFound
	}
	tiers, err := s.LeaveBalanceRepository.ListTiers(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if len(tiers) > 0 {
		return tiers, nil
	}
	return tiersFromRules(b.ID, lt.Rules.Tiers)
}

// materializeTiers persists the rule-derived tiers for the balance when
// none exist yet, returning the stored rows either way.
func (s *LeaveServiceImpl) materializeTiers(ctx context.Context, employeeID string, lt leave.LeaveType, year int) ([]leave.LeaveBalanceTier, error) {
	b, err := s.LeaveBalanceRepository.GetForYear(ctx, employeeID, lt.ID, year)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, leave.ErrBalanceNotFound
	}
	tiers, err := s.LeaveBalanceRepository.ListTiers(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if len(tiers) > 0 {
		return tiers, nil
	}

	fresh, err := tiersFromRules(b.ID, lt.Rules.Tiers)
	if err != nil {
		return nil, err
	}
	for i, t := range fresh {
		created, err := s.LeaveBalanceRepository.CreateTier(ctx, t)
		if err != nil {
			return nil, err
		}
		fresh[i] = created
	}
	return fresh, nil
}

func (s *LeaveServiceImpl) consumeTier(ctx context.Context, employeeID string, lt leave.LeaveType, year int, duration decimal.Decimal) error {
	tiers, err := s.materializeTiers(ctx, employeeID, lt, year)
	if err != nil {
		return err
	}
	tier, err := allocateTier(tiers, duration)
	if err != nil {
		return err
	}
	tier.DaysUsed = tier.DaysUsed.Add(duration)
	return s.LeaveBalanceRepository.UpdateTier(ctx, *tier)
}

func (s *LeaveServiceImpl) creditTier(ctx context.Context, employeeID string, lt leave.LeaveType, year int, duration decimal.Decimal) error {
	tiers, err := s.materializeTiers(ctx, employeeID, lt, year)
	if err != nil {
		return err
	}
	for _, changed := range releaseTiers(tiers, duration) {
		if err := s.LeaveBalanceRepository.UpdateTier(ctx, changed); err != nil {
			return err
		}
	}
	return nil
}

func (s *LeaveServiceImpl) recomputeDates(ctx context.Context, employeeID string, start, end time.Time, extra []time.Time) {
	if s.recomputer == nil {
		return
	}
	seen := make(map[time.Time]struct{})
	for d := shift.DateOnly(start); !d.After(shift.DateOnly(end)); d = d.AddDate(0, 0, 1) {
		seen[d] = struct{}{}
	}
	for _, d := range extra {
		seen[shift.DateOnly(d)] = struct{}{}
	}
	for d := range seen {
		if err := s.recomputer.Recompute(ctx, employeeID, d); err != nil {
			s.logger.Error("Post-cancel recompute failed",
				"employee_id", employeeID, "date", d.Format("2006-01-02"), "error", err)
		}
	}
}

func (s *LeaveServiceImpl) holidayCountInRange(ctx context.Context, start, end time.Time, departmentID *string) (int, error) {
	holidays, err := s.HolidayRepository.ListInRange(ctx, start, end)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, h := range holidays {
		if h.AppliesTo(departmentID) {
			count++
		}
	}
	return count, nil
}

// MonthlyAccrual credits each accrual-enabled balance with the accrual
// earned over [start, end] (typically the previous calendar month).
// Idempotent: a balance whose last accrual date already covers the
// period is skipped.
func (s *LeaveServiceImpl) MonthlyAccrual(ctx context.Context, start, end time.Time, employeeID, leaveTypeCode string, dryRun bool) (int, error) {
	start, end = shift.DateOnly(start), shift.DateOnly(end)
	if end.Before(start) {
		return 0, leave.ErrInvalidDateRange
	}

	types, err := s.LeaveTypeRepository.ListAccrualEnabled(ctx)
	if err != nil {
		return 0, err
	}
	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	credited := 0
	for _, lt := range types {
		if leaveTypeCode != "" && string(lt.Code) != leaveTypeCode {
			continue
		}
		rate := lt.AccrualRate
		if !rate.IsPositive() {
			rate = s.ratePer30
		}

		for _, emp := range employees {
			if employeeID != "" && emp.ID != employeeID {
				continue
			}
			b, err := s.LeaveBalanceRepository.GetForYear(ctx, emp.ID, lt.ID, start.Year())
			if err != nil {
				return credited, err
			}
			if b == nil {
				continue
			}
			if b.LastAccrualDate != nil && !shift.DateOnly(*b.LastAccrualDate).Before(end) {
				continue
			}

			attended, err := s.LogRepository.ListAttendedDatesInRange(ctx, emp.ID, start, end)
			if err != nil {
				return credited, err
			}
			holidays, err := s.HolidayRepository.ListInRange(ctx, start, end)
			if err != nil {
				return credited, err
			}
			var holidayDates []time.Time
			for _, h := range holidays {
				if h.AppliesTo(emp.DepartmentID) {
					holidayDates = append(holidayDates, h.Date)
				}
			}

			working := CountWorkingDays(start, end, attended, holidayDates, s.weekendDay)
			accrued := Accrue(working, rate)
			if !accrued.IsPositive() {
				continue
			}
			if dryRun {
				credited++
				continue
			}

			b.TotalDays = b.TotalDays.Add(accrued)
			last := end
			b.LastAccrualDate = &last
			if err := s.LeaveBalanceRepository.Update(ctx, *b); err != nil {
				return credited, err
			}
			credited++
		}
	}
	return credited, nil
}

// ResetYearlyBalances opens the given year's balance rows for every
// YEARLY-reset leave type: accrual-enabled types start at zero, the
// rest at the type's allowance. Idempotent through the balance upsert.
func (s *LeaveServiceImpl) ResetYearlyBalances(ctx context.Context, year int, dryRun bool) (int, error) {
	types, err := s.LeaveTypeRepository.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, lt := range types {
		if lt.ResetPeriod != leave.ResetYearly || lt.BalanceCalculation == leave.BalanceShared {
			continue
		}
		total := lt.DaysAllowed
		if lt.AccrualEnabled {
			total = decimal.Zero
		}
		for _, emp := range employees {
			existing, err := s.LeaveBalanceRepository.GetForYear(ctx, emp.ID, lt.ID, year)
			if err != nil {
				return created, err
			}
			if existing != nil {
				continue
			}
			if dryRun {
				created++
				continue
			}
			if _, err := s.LeaveBalanceRepository.Create(ctx, leave.LeaveBalance{
				EmployeeID:  emp.ID,
				LeaveTypeID: lt.ID,
				TotalDays:   total,
				Year:        year,
			}); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}
