package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/database"
)

type logRepository struct {
	db *database.DB
}

func NewLogRepository(db *database.DB) attendance.LogRepository {
	return &logRepository{db: db}
}

const logColumns = `
	l.id, l.employee_id, l.date, l.shift_id, l.first_in_time, l.last_out_time,
	l.is_late, l.late_minutes, l.early_departure, l.early_minutes,
	l.total_work_minutes, l.status, l.source, l.leave_id, l.is_active,
	l.created_at, l.updated_at`

func scanLog(row pgx.Row) (attendance.AttendanceLog, error) {
	var l attendance.AttendanceLog
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.Date, &l.ShiftID, &l.FirstInTime, &l.LastOutTime,
		&l.IsLate, &l.LateMinutes, &l.EarlyDeparture, &l.EarlyMinutes,
		&l.TotalWorkMinutes, &l.Status, &l.Source, &l.LeaveID, &l.IsActive,
		&l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

// Upsert implements attendance.LogRepository. The partial unique index
// on (employee_id, date) WHERE is_active guarantees at most one active
// log per pair; the upsert replaces the active row's derived fields.
func (r *logRepository) Upsert(ctx context.Context, log attendance.AttendanceLog) (attendance.AttendanceLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_logs (
			employee_id, date, shift_id, first_in_time, last_out_time,
			is_late, late_minutes, early_departure, early_minutes,
			total_work_minutes, status, source, leave_id, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, true)
		ON CONFLICT (employee_id, date) WHERE is_active DO UPDATE SET
			shift_id = EXCLUDED.shift_id,
			first_in_time = EXCLUDED.first_in_time,
			last_out_time = EXCLUDED.last_out_time,
			is_late = EXCLUDED.is_late,
			late_minutes = EXCLUDED.late_minutes,
			early_departure = EXCLUDED.early_departure,
			early_minutes = EXCLUDED.early_minutes,
			total_work_minutes = EXCLUDED.total_work_minutes,
			status = EXCLUDED.status,
			source = EXCLUDED.source,
			leave_id = EXCLUDED.leave_id,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		log.EmployeeID, log.Date, log.ShiftID, log.FirstInTime, log.LastOutTime,
		log.IsLate, log.LateMinutes, log.EarlyDeparture, log.EarlyMinutes,
		log.TotalWorkMinutes, log.Status, log.Source, log.LeaveID,
	).Scan(&log.ID, &log.CreatedAt, &log.UpdatedAt)
	if err != nil {
		return attendance.AttendanceLog{}, fmt.Errorf("failed to upsert attendance log: %w", err)
	}
	log.IsActive = true
	return log, nil
}

// GetActive implements attendance.LogRepository.
func (r *logRepository) GetActive(ctx context.Context, employeeID string, date time.Time) (*attendance.AttendanceLog, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLog(q.QueryRow(ctx, `
		SELECT`+logColumns+`
		FROM attendance_logs l
		WHERE l.employee_id = $1 AND l.date = $2 AND l.is_active
	`, employeeID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance log: %w", err)
	}
	return &l, nil
}

// List implements attendance.LogRepository.
func (r *logRepository) List(ctx context.Context, filter attendance.LogFilter, start, end time.Time) ([]attendance.AttendanceLog, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"l.is_active", "l.date BETWEEN $1 AND $2"}
	args := []interface{}{start, end}

	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("l.status = $%d", len(args)))
	}
	if filter.Search != nil && *filter.Search != "" {
		args = append(args, "%"+*filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(e.full_name ILIKE $%d OR e.employee_number ILIKE $%d)", len(args), len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `
		SELECT COUNT(*)
		FROM attendance_logs l
		JOIN employees e ON e.id = l.employee_id
		WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance logs: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	query := `
		SELECT` + logColumns + `,
			e.full_name AS employee_name,
			e.employee_number,
			s.name AS shift_name
		FROM attendance_logs l
		JOIN employees e ON e.id = l.employee_id
		LEFT JOIN shifts s ON s.id = l.shift_id
		WHERE ` + where + fmt.Sprintf(`
		ORDER BY l.date DESC, e.employee_number
		LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance logs: %w", err)
	}
	defer rows.Close()

	var result []attendance.AttendanceLog
	for rows.Next() {
		var l attendance.AttendanceLog
		err := rows.Scan(
			&l.ID, &l.EmployeeID, &l.Date, &l.ShiftID, &l.FirstInTime, &l.LastOutTime,
			&l.IsLate, &l.LateMinutes, &l.EarlyDeparture, &l.EarlyMinutes,
			&l.TotalWorkMinutes, &l.Status, &l.Source, &l.LeaveID, &l.IsActive,
			&l.CreatedAt, &l.UpdatedAt,
			&l.EmployeeName, &l.EmployeeNumber, &l.ShiftName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance log: %w", err)
		}
		result = append(result, l)
	}
	return result, total, rows.Err()
}

// ListForEmployeeRange implements attendance.LogRepository.
func (r *logRepository) ListForEmployeeRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.AttendanceLog, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT`+logColumns+`
		FROM attendance_logs l
		WHERE l.employee_id = $1 AND l.is_active AND l.date BETWEEN $2 AND $3
		ORDER BY l.date
	`, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs for employee: %w", err)
	}
	defer rows.Close()

	var result []attendance.AttendanceLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// CountAttendedInRange implements attendance.LogRepository.
func (r *logRepository) CountAttendedInRange(ctx context.Context, employeeID string, start, end time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM attendance_logs
		WHERE employee_id = $1 AND is_active
		  AND date BETWEEN $2 AND $3
		  AND status IN ('present', 'late')
	`, employeeID, start, end).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count attended days: %w", err)
	}
	return count, nil
}

// ListAttendedDatesInRange implements attendance.LogRepository.
func (r *logRepository) ListAttendedDatesInRange(ctx context.Context, employeeID string, start, end time.Time) ([]time.Time, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT date
		FROM attendance_logs
		WHERE employee_id = $1 AND is_active
		  AND date BETWEEN $2 AND $3
		  AND status IN ('present', 'late')
		ORDER BY date
	`, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attended dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// DeactivateForDate implements attendance.LogRepository.
func (r *logRepository) DeactivateForDate(ctx context.Context, employeeID string, date time.Time) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE attendance_logs SET is_active = false, updated_at = NOW()
		WHERE employee_id = $1 AND date = $2 AND is_active
	`, employeeID, date)
	if err != nil {
		return fmt.Errorf("failed to deactivate attendance log: %w", err)
	}
	return nil
}

// DeactivateLeaveSourced implements attendance.LogRepository.
func (r *logRepository) DeactivateLeaveSourced(ctx context.Context, leaveID string) ([]time.Time, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		UPDATE attendance_logs SET is_active = false, updated_at = NOW()
		WHERE leave_id = $1 AND source = 'leave' AND is_active
		RETURNING date
	`, leaveID)
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate leave-sourced logs: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// DeactivateHolidaySourced implements attendance.LogRepository.
func (r *logRepository) DeactivateHolidaySourced(ctx context.Context, date time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		UPDATE attendance_logs SET is_active = false, updated_at = NOW()
		WHERE date = $1 AND source = 'holiday' AND is_active
		RETURNING employee_id
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate holiday-sourced logs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AggregateByDepartment implements attendance.LogRepository.
func (r *logRepository) AggregateByDepartment(ctx context.Context, date time.Time) ([]attendance.DepartmentMetrics, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT
			COALESCE(e.department_id::text, ''),
			COUNT(*) FILTER (WHERE l.status = 'present'),
			COUNT(*) FILTER (WHERE l.status = 'late'),
			COUNT(*) FILTER (WHERE l.status = 'absent'),
			COUNT(*) FILTER (WHERE l.status = 'leave'),
			COUNT(*) FILTER (WHERE l.status = 'holiday'),
			COALESCE(AVG(l.total_work_minutes) FILTER (WHERE l.status IN ('present', 'late')), 0)::int,
			COUNT(DISTINCT l.employee_id)
		FROM attendance_logs l
		JOIN employees e ON e.id = l.employee_id
		WHERE l.date = $1 AND l.is_active
		GROUP BY e.department_id
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate logs: %w", err)
	}
	defer rows.Close()

	var result []attendance.DepartmentMetrics
	for rows.Next() {
		m := attendance.DepartmentMetrics{Date: date}
		err := rows.Scan(
			&m.DepartmentID, &m.PresentCount, &m.LateCount, &m.AbsentCount,
			&m.LeaveCount, &m.HolidayCount, &m.AvgWorkMinutes, &m.TotalEmployees,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan metrics row: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// DeleteInactiveOlderThan implements attendance.LogRepository.
func (r *logRepository) DeleteInactiveOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_logs WHERE NOT is_active AND date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old attendance logs: %w", err)
	}
	return tag.RowsAffected(), nil
}
