package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

const shiftColumns = `
	s.id, s.name, s.shift_type, s.start_time, s.end_time, s.break_minutes,
	s.grace_minutes, s.ramadan_start_time, s.ramadan_end_time, s.priority,
	s.is_active, s.created_at, s.updated_at`

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	err := row.Scan(
		&s.ID, &s.Name, &s.Type, &s.StartTime, &s.EndTime, &s.BreakMinutes,
		&s.GraceMinutes, &s.RamadanStartTime, &s.RamadanEndTime, &s.Priority,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (
			name, shift_type, start_time, end_time, break_minutes,
			grace_minutes, ramadan_start_time, ramadan_end_time, priority, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.Name, s.Type, s.StartTime, s.EndTime, s.BreakMinutes,
		s.GraceMinutes, s.RamadanStartTime, s.RamadanEndTime, s.Priority, s.IsActive,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}
	return s, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanShift(q.QueryRow(ctx, `SELECT`+shiftColumns+` FROM shifts s WHERE s.id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift by ID: %w", err)
	}
	return s, nil
}

// GetDefault implements shift.ShiftRepository.
func (r *shiftRepository) GetDefault(ctx context.Context) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanShift(q.QueryRow(ctx, `
		SELECT`+shiftColumns+`
		FROM shifts s
		WHERE s.shift_type = 'DEFAULT' AND s.is_active
		ORDER BY s.created_at DESC
		LIMIT 1
	`))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.Shift{}, shift.ErrNoDefaultShift
		}
		return shift.Shift{}, fmt.Errorf("failed to get default shift: %w", err)
	}
	return s, nil
}

// ListActive implements shift.ShiftRepository.
func (r *shiftRepository) ListActive(ctx context.Context) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT`+shiftColumns+` FROM shifts s WHERE s.is_active ORDER BY s.priority DESC, s.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var result []shift.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// Update implements shift.ShiftRepository.
func (r *shiftRepository) Update(ctx context.Context, s shift.Shift) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE shifts
		SET name = $2, shift_type = $3, start_time = $4, end_time = $5,
			break_minutes = $6, grace_minutes = $7, ramadan_start_time = $8,
			ramadan_end_time = $9, priority = $10, is_active = $11, updated_at = NOW()
		WHERE id = $1
	`, s.ID, s.Name, s.Type, s.StartTime, s.EndTime, s.BreakMinutes,
		s.GraceMinutes, s.RamadanStartTime, s.RamadanEndTime, s.Priority, s.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}
