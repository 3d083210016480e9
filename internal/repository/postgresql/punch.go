package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/punch"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/database"
)

type punchRepository struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) punch.PunchRepository {
	return &punchRepository{db: db}
}

const punchColumns = `
	p.id, p.employee_id, p.timestamp, p.device, p.event_point, p.verify_type,
	p.description, p.remarks, p.is_active, p.created_at, p.updated_at`

func scanPunch(row pgx.Row) (punch.PunchEvent, error) {
	var p punch.PunchEvent
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.Timestamp, &p.Device, &p.EventPoint, &p.VerifyType,
		&p.Description, &p.Remarks, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// Create implements punch.PunchRepository.
func (r *punchRepository) Create(ctx context.Context, p punch.PunchEvent) (punch.PunchEvent, error) {
	q := GetQuerier(ctx, r.db)

	err := q.QueryRow(ctx, `
		INSERT INTO punch_events (employee_id, timestamp, device, event_point, verify_type, description, remarks, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, p.EmployeeID, p.Timestamp, p.Device, p.EventPoint, p.VerifyType, p.Description, p.Remarks, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return punch.PunchEvent{}, punch.ErrDuplicatePunch
		}
		return punch.PunchEvent{}, fmt.Errorf("failed to create punch event: %w", err)
	}
	return p, nil
}

// GetByID implements punch.PunchRepository.
func (r *punchRepository) GetByID(ctx context.Context, id string) (punch.PunchEvent, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPunch(q.QueryRow(ctx, `SELECT`+punchColumns+` FROM punch_events p WHERE p.id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return punch.PunchEvent{}, punch.ErrPunchNotFound
		}
		return punch.PunchEvent{}, fmt.Errorf("failed to get punch event: %w", err)
	}
	return p, nil
}

// Exists implements punch.PunchRepository.
func (r *punchRepository) Exists(ctx context.Context, employeeID string, ts time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM punch_events WHERE employee_id = $1 AND timestamp = $2 AND is_active
		)
	`, employeeID, ts).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check punch existence: %w", err)
	}
	return exists, nil
}

// ListForDate implements punch.PunchRepository.
func (r *punchRepository) ListForDate(ctx context.Context, employeeID string, date time.Time) ([]punch.PunchEvent, error) {
	q := GetQuerier(ctx, r.db)

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := q.Query(ctx, `
		SELECT`+punchColumns+`
		FROM punch_events p
		WHERE p.employee_id = $1 AND p.is_active
		  AND p.timestamp >= $2 AND p.timestamp < $3
		ORDER BY p.timestamp
	`, employeeID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches for date: %w", err)
	}
	defer rows.Close()

	var result []punch.PunchEvent
	for rows.Next() {
		p, err := scanPunch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan punch event: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// Deactivate implements punch.PunchRepository.
func (r *punchRepository) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE punch_events SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate punch event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return punch.ErrPunchNotFound
	}
	return nil
}

// DeleteOlderThan implements punch.PunchRepository.
func (r *punchRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM punch_events WHERE NOT is_active AND timestamp < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old punch events: %w", err)
	}
	return tag.RowsAffected(), nil
}
