package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/config"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/calendar"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/employee"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/notification"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/email"
)

const dispatchBatchSize = 100

// ShiftResolver reports the effective shift for (employee, date).
// Satisfied by the shift resolver.
type ShiftResolver interface {
	Resolve(ctx context.Context, employeeID string, date time.Time) (shift.ResolvedShift, error)
}

type NotificationServiceImpl struct {
	notification.NotificationRepository
	shift.ShiftAssignmentRepository
	calendar.RamadanPeriodRepository
	employee.EmployeeRepository

	resolver ShiftResolver
	sender   email.Sender
	notifyTo string
	logger   *slog.Logger
}

func NewNotificationService(
	notificationRepo notification.NotificationRepository,
	assignmentRepo shift.ShiftAssignmentRepository,
	ramadanRepo calendar.RamadanPeriodRepository,
	employeeRepo employee.EmployeeRepository,
	resolver ShiftResolver,
	sender email.Sender,
	cfg *config.Config,
	logger *slog.Logger,
) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		NotificationRepository:    notificationRepo,
		ShiftAssignmentRepository: assignmentRepo,
		RamadanPeriodRepository:   ramadanRepo,
		EmployeeRepository:        employeeRepo,
		resolver:                  resolver,
		sender:                    sender,
		notifyTo:                  cfg.SMTP.NotifyTo,
		logger:                    logger,
	}
}

// ProduceShiftChangeNotices records a notice for every assignment that
// changes the employee's effective shift on the date. Assignments that
// resolve to the shift already in effect the day before stay silent.
// Idempotent through the dedupe key.
func (s *NotificationServiceImpl) ProduceShiftChangeNotices(ctx context.Context, date time.Time) (int, error) {
	date = shift.DateOnly(date)
	assignments, err := s.ShiftAssignmentRepository.ListStartingOn(ctx, date)
	if err != nil {
		return 0, err
	}

	produced := 0
	for _, a := range assignments {
		prev, err := s.resolver.Resolve(ctx, a.EmployeeID, date.AddDate(0, 0, -1))
		if err != nil && !errors.Is(err, shift.ErrNoEffectiveShift) {
			return produced, err
		}
		if err == nil && prev.ShiftID == a.ShiftID {
			continue
		}

		shiftName := a.ShiftID
		if a.ShiftName != nil {
			shiftName = *a.ShiftName
		}
		inserted, err := s.NotificationRepository.CreateIfAbsent(ctx, notification.Notification{
			EmployeeID: a.EmployeeID,
			Kind:       notification.KindShiftChange,
			Subject:    fmt.Sprintf("Shift change effective %s", a.StartDate.Format("2006-01-02")),
			Body:       fmt.Sprintf("Shift %q applies from %s.", shiftName, a.StartDate.Format("2006-01-02")),
			DedupeKey:  fmt.Sprintf("shift_change:%s", a.ID),
		})
		if err != nil {
			return produced, err
		}
		if inserted {
			produced++
		}
	}
	return produced, nil
}

// ProduceRamadanTransitionNotices records notices for every active
// employee when the date is the first day of an active Ramadan period or
// the first day after it ends.
func (s *NotificationServiceImpl) ProduceRamadanTransitionNotices(ctx context.Context, date time.Time) (int, error) {
	date = shift.DateOnly(date)

	var phase, subject, body string
	if p, err := s.RamadanPeriodRepository.GetActiveCovering(ctx, date); err != nil {
		return 0, err
	} else if p != nil && shift.DateOnly(p.StartDate).Equal(date) {
		phase = fmt.Sprintf("start:%d", p.Year)
		subject = "Ramadan working hours begin"
		body = fmt.Sprintf("Ramadan timings apply from %s to %s.",
			p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"))
	} else if p == nil {
		prev, err := s.RamadanPeriodRepository.GetActiveCovering(ctx, date.AddDate(0, 0, -1))
		if err != nil {
			return 0, err
		}
		if prev == nil {
			return 0, nil
		}
		phase = fmt.Sprintf("end:%d", prev.Year)
		subject = "Regular working hours resume"
		body = fmt.Sprintf("Ramadan timings ended on %s.", prev.EndDate.Format("2006-01-02"))
	} else {
		return 0, nil
	}

	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	produced := 0
	for _, emp := range employees {
		inserted, err := s.NotificationRepository.CreateIfAbsent(ctx, notification.Notification{
			EmployeeID: emp.ID,
			Kind:       notification.KindRamadanTransition,
			Subject:    subject,
			Body:       body,
			DedupeKey:  fmt.Sprintf("ramadan_transition:%s:%s", phase, emp.ID),
		})
		if err != nil {
			return produced, err
		}
		if inserted {
			produced++
		}
	}
	return produced, nil
}

// DispatchPending emails queued notices to the operations inbox. A
// failed send leaves the row pending so the next run retries it.
func (s *NotificationServiceImpl) DispatchPending(ctx context.Context) (int, error) {
	pending, err := s.NotificationRepository.ListPending(ctx, dispatchBatchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, n := range pending {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := s.sender.Send(s.notifyTo, n.Subject, n.Body); err != nil {
			s.logger.Warn("Notification dispatch failed, leaving pending",
				"notification_id", n.ID, "error", err)
			continue
		}
		if err := s.NotificationRepository.MarkSent(ctx, n.ID); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}
