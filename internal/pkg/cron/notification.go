package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/domain/calendar"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/employee"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/cache"
)

// NoticeProducer records notices for upcoming shift changes and Ramadan
// transitions.
type NoticeProducer interface {
	ProduceShiftChangeNotices(ctx context.Context, date time.Time) (int, error)
	ProduceRamadanTransitionNotices(ctx context.Context, date time.Time) (int, error)
}

// NoticeDispatcher emails queued notices.
type NoticeDispatcher interface {
	DispatchPending(ctx context.Context) (int, error)
}

// NotificationJobs contains notification cron jobs.
type NotificationJobs struct {
	producer    NoticeProducer
	dispatcher  NoticeDispatcher
	ramadan     calendar.RamadanPeriodRepository
	employees   employee.EmployeeRepository
	invalidator *cache.Invalidator
	loc         *time.Location
}

func NewNotificationJobs(
	producer NoticeProducer,
	dispatcher NoticeDispatcher,
	ramadan calendar.RamadanPeriodRepository,
	employees employee.EmployeeRepository,
	invalidator *cache.Invalidator,
	loc *time.Location,
) *NotificationJobs {
	return &NotificationJobs{
		producer:    producer,
		dispatcher:  dispatcher,
		ramadan:     ramadan,
		employees:   employees,
		invalidator: invalidator,
		loc:         loc,
	}
}

// RegisterJobs registers all notification cron jobs.
func (j *NotificationJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("notify_shift_changes", 1*time.Hour, j.NotifyShiftChanges)
	scheduler.AddJob("ramadan_transition", 1*time.Hour, j.RamadanTransition)
	scheduler.AddJob("dispatch_notifications", 5*time.Minute, j.DispatchNotifications)
}

// NotifyShiftChanges records notices for assignments starting tomorrow.
// Runs at 18:00 so affected staff hear a day ahead; dedupe keys make
// repeated runs no-ops.
func (j *NotificationJobs) NotifyShiftChanges(ctx context.Context) error {
	now := time.Now().In(j.loc)
	if now.Hour() != 18 {
		return nil
	}
	tomorrow := shift.DateOnly(now).AddDate(0, 0, 1)

	produced, err := j.producer.ProduceShiftChangeNotices(ctx, tomorrow)
	if err != nil {
		return err
	}
	if produced > 0 {
		slog.Info("Shift change notices produced", "date", tomorrow.Format("2006-01-02"), "count", produced)
	}
	return nil
}

// RamadanTransition records transition notices and flushes cached
// resolutions when a Ramadan period starts or ends today.
func (j *NotificationJobs) RamadanTransition(ctx context.Context) error {
	now := time.Now().In(j.loc)
	if now.Hour() != 0 {
		return nil
	}
	today := shift.DateOnly(now)

	produced, err := j.producer.ProduceRamadanTransitionNotices(ctx, today)
	if err != nil {
		return err
	}
	if produced == 0 {
		return nil
	}

	// Notices were produced, so the period boundary is today and cached
	// shift resolutions are stale.
	employees, err := j.employees.ListActive(ctx)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(employees))
	for _, emp := range employees {
		ids = append(ids, emp.ID)
	}
	j.invalidator.Enqueue(ctx, cache.Event{
		Kind:        cache.EventRamadanMutated,
		EmployeeIDs: ids,
	})

	slog.Info("Ramadan transition notices produced", "date", today.Format("2006-01-02"), "count", produced)
	return nil
}

// DispatchNotifications emails pending notices. Frequent; failures stay
// pending for the next run.
func (j *NotificationJobs) DispatchNotifications(ctx context.Context) error {
	sent, err := j.dispatcher.DispatchPending(ctx)
	if err != nil {
		return err
	}
	if sent > 0 {
		slog.Info("Notifications dispatched", "count", sent)
	}
	return nil
}
