package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/leave"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

const leaveColumns = `
	l.id, l.employee_id, l.leave_type_id, l.sub_type, l.start_date, l.end_date,
	l.start_half, l.end_half, l.duration, l.reason, l.status, l.document_url,
	l.actor_id, l.acted_at, l.reject_reason, l.is_active, l.created_at, l.updated_at`

func scanLeave(row pgx.Row) (leave.Leave, error) {
	var l leave.Leave
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.LeaveTypeID, &l.SubType, &l.StartDate, &l.EndDate,
		&l.StartHalf, &l.EndHalf, &l.Duration, &l.Reason, &l.Status, &l.DocumentURL,
		&l.ActorID, &l.ActedAt, &l.RejectReason, &l.IsActive, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

// Create implements leave.LeaveRepository.
func (r *leaveRepository) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leaves (
			employee_id, leave_type_id, sub_type, start_date, end_date,
			start_half, end_half, duration, reason, status, document_url, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, true)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		l.EmployeeID, l.LeaveTypeID, l.SubType, l.StartDate, l.EndDate,
		l.StartHalf, l.EndHalf, l.Duration, l.Reason, l.Status, l.DocumentURL,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to create leave: %w", err)
	}
	l.IsActive = true
	return l, nil
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepository) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLeave(q.QueryRow(ctx, `SELECT`+leaveColumns+` FROM leaves l WHERE l.id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.Leave{}, leave.ErrLeaveNotFound
		}
		return leave.Leave{}, fmt.Errorf("failed to get leave: %w", err)
	}
	return l, nil
}

// List implements leave.LeaveRepository.
func (r *leaveRepository) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.Leave, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"l.is_active"}
	var args []interface{}

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("l.employee_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("l.status = $%d", len(args)))
	}
	if filter.Code != nil {
		args = append(args, *filter.Code)
		conditions = append(conditions, fmt.Sprintf("lt.code = $%d", len(args)))
	}
	if filter.Start != nil {
		args = append(args, *filter.Start)
		conditions = append(conditions, fmt.Sprintf("l.end_date >= $%d", len(args)))
	}
	if filter.End != nil {
		args = append(args, *filter.End)
		conditions = append(conditions, fmt.Sprintf("l.start_date <= $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `
		SELECT COUNT(*)
		FROM leaves l
		JOIN leave_types lt ON lt.id = l.leave_type_id
		WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leaves: %w", err)
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
		SELECT` + leaveColumns + `,
			lt.code AS leave_type_code,
			e.full_name AS employee_name
		FROM leaves l
		JOIN leave_types lt ON lt.id = l.leave_type_id
		JOIN employees e ON e.id = l.employee_id
		WHERE ` + where + fmt.Sprintf(`
		ORDER BY l.created_at DESC
		LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leaves: %w", err)
	}
	defer rows.Close()

	var result []leave.Leave
	for rows.Next() {
		var l leave.Leave
		err := rows.Scan(
			&l.ID, &l.EmployeeID, &l.LeaveTypeID, &l.SubType, &l.StartDate, &l.EndDate,
			&l.StartHalf, &l.EndHalf, &l.Duration, &l.Reason, &l.Status, &l.DocumentURL,
			&l.ActorID, &l.ActedAt, &l.RejectReason, &l.IsActive, &l.CreatedAt, &l.UpdatedAt,
			&l.LeaveTypeCode, &l.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave: %w", err)
		}
		result = append(result, l)
	}
	return result, total, rows.Err()
}

// HasOverlapping implements leave.LeaveRepository.
func (r *leaveRepository) HasOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM leaves
			WHERE employee_id = $1
			  AND is_active
			  AND status IN ('pending', 'approved')
			  AND start_date <= $3
			  AND end_date >= $2
			  AND ($4 = '' OR id <> $4::uuid)
		)
	`, employeeID, start, end, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check overlapping leaves: %w", err)
	}
	return exists, nil
}

// HasPriorOfCode implements leave.LeaveRepository.
func (r *leaveRepository) HasPriorOfCode(ctx context.Context, employeeID string, code leave.Code) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM leaves l
			JOIN leave_types lt ON lt.id = l.leave_type_id
			WHERE l.employee_id = $1
			  AND l.is_active
			  AND l.status IN ('pending', 'approved')
			  AND lt.code = $2
		)
	`, employeeID, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check prior leaves: %w", err)
	}
	return exists, nil
}

// GetApprovedCovering implements leave.LeaveRepository.
func (r *leaveRepository) GetApprovedCovering(ctx context.Context, employeeID string, date time.Time) (*leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLeave(q.QueryRow(ctx, `
		SELECT`+leaveColumns+`
		FROM leaves l
		WHERE l.employee_id = $1
		  AND l.is_active
		  AND l.status = 'approved'
		  AND l.start_date <= $2
		  AND l.end_date >= $2
		ORDER BY l.created_at DESC
		LIMIT 1
	`, employeeID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get covering leave: %w", err)
	}
	return &l, nil
}

// Update implements leave.LeaveRepository.
func (r *leaveRepository) Update(ctx context.Context, l leave.Leave) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE leaves SET
			status = $2, actor_id = $3, acted_at = $4, reject_reason = $5,
			document_url = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
	`, l.ID, l.Status, l.ActorID, l.ActedAt, l.RejectReason, l.DocumentURL, l.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update leave: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveNotFound
	}
	return nil
}

// Deactivate implements leave.LeaveRepository.
func (r *leaveRepository) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE leaves SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate leave: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveNotFound
	}
	return nil
}

// ArchiveClosedOlderThan implements leave.LeaveRepository.
func (r *leaveRepository) ArchiveClosedOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		DELETE FROM leaves
		WHERE end_date < $1
		  AND (NOT is_active OR status IN ('rejected', 'cancelled'))
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to archive old leaves: %w", err)
	}
	return tag.RowsAffected(), nil
}
