package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
)

// AssignmentExpirer deactivates assignments whose end date has passed.
type AssignmentExpirer interface {
	EndAssignment(ctx context.Context, id string) error
}

// MetricsComputer aggregates one date's logs into cached metrics.
type MetricsComputer interface {
	Compute(ctx context.Context, date time.Time) ([]attendance.DepartmentMetrics, error)
}

// AttendanceJobs contains attendance-related cron jobs.
type AttendanceJobs struct {
	assignments shift.ShiftAssignmentRepository
	expirer     AssignmentExpirer
	metrics     MetricsComputer
	loc         *time.Location
}

func NewAttendanceJobs(
	assignments shift.ShiftAssignmentRepository,
	expirer AssignmentExpirer,
	metrics MetricsComputer,
	loc *time.Location,
) *AttendanceJobs {
	return &AttendanceJobs{
		assignments: assignments,
		expirer:     expirer,
		metrics:     metrics,
		loc:         loc,
	}
}

// RegisterJobs registers all attendance-related cron jobs.
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	// Hourly ticks with an hour gate in the body; the jobs themselves
	// are idempotent within a day.
	scheduler.AddJob("expire_assignments", 1*time.Hour, j.ExpireAssignments)
	scheduler.AddJob("compute_metrics", 1*time.Hour, j.ComputeMetrics)
	scheduler.AddJob("flag_missing_assignments", 1*time.Hour, j.FlagMissingAssignments)
}

// ExpireAssignments deactivates assignments whose end_date is before
// today. Runs in the first hour of the day.
func (j *AttendanceJobs) ExpireAssignments(ctx context.Context) error {
	now := time.Now().In(j.loc)
	if now.Hour() != 0 {
		return nil
	}
	today := shift.DateOnly(now)

	expired, err := j.assignments.ListExpired(ctx, today)
	if err != nil {
		return err
	}
	for _, a := range expired {
		if err := j.expirer.EndAssignment(ctx, a.ID); err != nil {
			return err
		}
	}
	if len(expired) > 0 {
		slog.Info("Expired shift assignments deactivated", "count", len(expired))
	}
	return nil
}

// ComputeMetrics aggregates yesterday's logs into the metrics cache.
// Runs at 01:00 so the previous day is complete.
func (j *AttendanceJobs) ComputeMetrics(ctx context.Context) error {
	now := time.Now().In(j.loc)
	if now.Hour() != 1 {
		return nil
	}
	yesterday := shift.DateOnly(now).AddDate(0, 0, -1)

	rows, err := j.metrics.Compute(ctx, yesterday)
	if err != nil {
		return err
	}
	slog.Info("Department metrics computed", "date", yesterday.Format("2006-01-02"), "departments", len(rows))
	return nil
}

// FlagMissingAssignments lists active employees with no assignment
// covering today. Weekly, Sunday 02:00.
func (j *AttendanceJobs) FlagMissingAssignments(ctx context.Context) error {
	now := time.Now().In(j.loc)
	if now.Weekday() != time.Sunday || now.Hour() != 2 {
		return nil
	}

	ids, err := j.assignments.ListEmployeesWithoutAssignment(ctx, shift.DateOnly(now))
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		slog.Warn("Active employees without a shift assignment", "count", len(ids), "employee_ids", ids)
	}
	return nil
}
