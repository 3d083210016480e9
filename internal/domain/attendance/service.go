package attendance

import (
	"context"
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/domain/punch"
)

type AttendanceService interface {
	// Recompute re-derives the (employee, date) log from punches, shift
	// resolution and leave/holiday state. Manual logs are left alone.
	Recompute(ctx context.Context, employeeID string, date time.Time) error
	RecomputeRange(ctx context.Context, employeeID string, start, end time.Time) error
	RecomputeDateForAll(ctx context.Context, date time.Time) error

	GetLog(ctx context.Context, employeeID string, date time.Time) (AttendanceLog, error)
	ListLogs(ctx context.Context, filter LogFilter, start, end time.Time) ([]AttendanceLog, int64, error)
	CalendarEvents(ctx context.Context, employeeID string, start, end time.Time) ([]CalendarEvent, error)

	UpsertManual(ctx context.Context, log AttendanceLog) (AttendanceLog, error)
	RemovePunch(ctx context.Context, punchID string) error
	ImportPunches(ctx context.Context, data []byte) (punch.ImportSummary, error)
}

type MetricsService interface {
	Compute(ctx context.Context, date time.Time) ([]DepartmentMetrics, error)
	Get(ctx context.Context, date time.Time, departmentID *string) (DepartmentMetrics, error)
}
