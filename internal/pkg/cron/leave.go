package cron

import (
	"context"
	"log/slog"
	"time"
)

// AccrualRunner credits balances with the accrual earned over a period.
type AccrualRunner interface {
	MonthlyAccrual(ctx context.Context, start, end time.Time, employeeID, leaveTypeCode string, dryRun bool) (int, error)
	ResetYearlyBalances(ctx context.Context, year int, dryRun bool) (int, error)
}

// HolidayGenerator materializes recurring holidays for a year.
type HolidayGenerator interface {
	GenerateRecurringHolidays(ctx context.Context, year int, dryRun bool) (int, error)
}

// Archiver removes aged closed records.
type Archiver interface {
	ArchiveClosedOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionSweeper hard-deletes aged inactive rows.
type RetentionSweeper interface {
	DeleteInactiveOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// PunchSweeper hard-deletes aged inactive punch events.
type PunchSweeper interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// LeaveJobs contains leave and retention cron jobs.
type LeaveJobs struct {
	accrual       AccrualRunner
	holidays      HolidayGenerator
	leaveArchive  Archiver
	logRetention  RetentionSweeper
	punchSweeper  PunchSweeper
	retentionDays int
	loc           *time.Location
}

func NewLeaveJobs(
	accrual AccrualRunner,
	holidays HolidayGenerator,
	leaveArchive Archiver,
	logRetention RetentionSweeper,
	punchSweeper PunchSweeper,
	retentionDays int,
	loc *time.Location,
) *LeaveJobs {
	return &LeaveJobs{
		accrual:       accrual,
		holidays:      holidays,
		leaveArchive:  leaveArchive,
		logRetention:  logRetention,
		punchSweeper:  punchSweeper,
		retentionDays: retentionDays,
		loc:           loc,
	}
}

// RegisterJobs registers all leave-related cron jobs.
func (j *LeaveJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("monthly_accrual", 1*time.Hour, j.MonthlyAccrual)
	scheduler.AddJob("year_end", 1*time.Hour, j.YearEnd)
}

// MonthlyAccrual credits previous-month accrual on the first day of the
// month. The accrual itself is idempotent through last_accrual_date.
func (j *LeaveJobs) MonthlyAccrual(ctx context.Context) error {
	now := time.Now().In(j.loc)
	if now.Day() != 1 || now.Hour() != 3 {
		return nil
	}

	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, j.loc).AddDate(0, 0, -1)
	start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, j.loc)

	credited, err := j.accrual.MonthlyAccrual(ctx, start, end, "", "", false)
	if err != nil {
		return err
	}
	slog.Info("Monthly accrual credited", "period", start.Format("2006-01"), "balances", credited)
	return nil
}

// YearEnd runs the December close: next year's recurring holidays,
// yearly balance reset, and retention archival. Safe to re-run.
func (j *LeaveJobs) YearEnd(ctx context.Context) error {
	now := time.Now().In(j.loc)
	if now.Month() != time.December || now.Day() != 31 || now.Hour() != 4 {
		return nil
	}

	nextYear := now.Year() + 1
	holidays, err := j.holidays.GenerateRecurringHolidays(ctx, nextYear, false)
	if err != nil {
		return err
	}
	balances, err := j.accrual.ResetYearlyBalances(ctx, nextYear, false)
	if err != nil {
		return err
	}

	cutoff := now.AddDate(0, 0, -j.retentionDays)
	leaves, err := j.leaveArchive.ArchiveClosedOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	logs, err := j.logRetention.DeleteInactiveOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	punches, err := j.punchSweeper.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	slog.Info("Year-end processing completed",
		"year", nextYear, "holidays_created", holidays, "balances_created", balances,
		"leaves_archived", leaves, "logs_purged", logs, "punches_purged", punches)
	return nil
}
