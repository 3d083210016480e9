package attendance

import (
	"context"
	"time"
)

type LogRepository interface {
	// Upsert writes the active log for (employee, date), replacing any
	// existing active row.
	Upsert(ctx context.Context, log AttendanceLog) (AttendanceLog, error)
	// GetActive returns the active log for (employee, date), or nil.
	GetActive(ctx context.Context, employeeID string, date time.Time) (*AttendanceLog, error)
	List(ctx context.Context, filter LogFilter, start, end time.Time) ([]AttendanceLog, int64, error)
	ListForEmployeeRange(ctx context.Context, employeeID string, start, end time.Time) ([]AttendanceLog, error)
	// CountAttendedInRange counts active present/late logs for the
	// employee in [start, end].
	CountAttendedInRange(ctx context.Context, employeeID string, start, end time.Time) (int, error)
	// ListAttendedDatesInRange returns the dates of active present/late
	// logs for the employee in [start, end].
	ListAttendedDatesInRange(ctx context.Context, employeeID string, start, end time.Time) ([]time.Time, error)
	// DeactivateForDate tombstones the active log for (employee, date).
	DeactivateForDate(ctx context.Context, employeeID string, date time.Time) error
	// DeactivateLeaveSourced tombstones logs sourced `leave` linked to
	// the given leave id, returning affected dates.
	DeactivateLeaveSourced(ctx context.Context, leaveID string) ([]time.Time, error)
	// DeactivateHolidaySourced tombstones holiday-sourced logs on a date
	// for all employees, returning affected employee ids.
	DeactivateHolidaySourced(ctx context.Context, date time.Time) ([]string, error)
	// AggregateByDepartment aggregates active logs per department for a
	// date.
	AggregateByDepartment(ctx context.Context, date time.Time) ([]DepartmentMetrics, error)
	// DeleteInactiveOlderThan hard-deletes inactive logs older than the
	// cutoff, returning the number removed.
	DeleteInactiveOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
