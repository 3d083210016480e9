package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/database"
)

type dateSpecificShiftRepository struct {
	db *database.DB
}

func NewDateSpecificShiftRepository(db *database.DB) shift.DateSpecificShiftRepository {
	return &dateSpecificShiftRepository{db: db}
}

// Create implements shift.DateSpecificShiftRepository.
func (r *dateSpecificShiftRepository) Create(ctx context.Context, d shift.DateSpecificShift) (shift.DateSpecificShift, error) {
	q := GetQuerier(ctx, r.db)

	err := q.QueryRow(ctx, `
		INSERT INTO date_specific_shifts (shift_id, date, start_time, end_time, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, d.ShiftID, d.Date, d.StartTime, d.EndTime, d.IsActive,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shift.DateSpecificShift{}, shift.ErrDuplicateDateShift
		}
		return shift.DateSpecificShift{}, fmt.Errorf("failed to create date-specific shift: %w", err)
	}
	return d, nil
}

// GetForShiftDate implements shift.DateSpecificShiftRepository.
func (r *dateSpecificShiftRepository) GetForShiftDate(ctx context.Context, shiftID string, date time.Time) (*shift.DateSpecificShift, error) {
	q := GetQuerier(ctx, r.db)

	var d shift.DateSpecificShift
	err := q.QueryRow(ctx, `
		SELECT id, shift_id, date, start_time, end_time, is_active, created_at, updated_at
		FROM date_specific_shifts
		WHERE shift_id = $1 AND date = $2 AND is_active
	`, shiftID, date).Scan(&d.ID, &d.ShiftID, &d.Date, &d.StartTime, &d.EndTime, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get date-specific shift: %w", err)
	}
	return &d, nil
}

// Deactivate implements shift.DateSpecificShiftRepository.
func (r *dateSpecificShiftRepository) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE date_specific_shifts SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate date-specific shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

type dateSpecificShiftOverrideRepository struct {
	db *database.DB
}

func NewDateSpecificShiftOverrideRepository(db *database.DB) shift.DateSpecificShiftOverrideRepository {
	return &dateSpecificShiftOverrideRepository{db: db}
}

// Create implements shift.DateSpecificShiftOverrideRepository.
func (r *dateSpecificShiftOverrideRepository) Create(ctx context.Context, o shift.DateSpecificShiftOverride) (shift.DateSpecificShiftOverride, error) {
	q := GetQuerier(ctx, r.db)

	err := q.QueryRow(ctx, `
		INSERT INTO date_specific_shift_overrides (date, shift_type, start_time, end_time, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, o.Date, o.ShiftType, o.StartTime, o.EndTime, o.IsActive,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shift.DateSpecificShiftOverride{}, shift.ErrDuplicateOverride
		}
		return shift.DateSpecificShiftOverride{}, fmt.Errorf("failed to create shift override: %w", err)
	}
	return o, nil
}

// GetForDateType implements shift.DateSpecificShiftOverrideRepository.
func (r *dateSpecificShiftOverrideRepository) GetForDateType(ctx context.Context, date time.Time, shiftType shift.ShiftType) (*shift.DateSpecificShiftOverride, error) {
	q := GetQuerier(ctx, r.db)

	var o shift.DateSpecificShiftOverride
	err := q.QueryRow(ctx, `
		SELECT id, date, shift_type, start_time, end_time, is_active, created_at, updated_at
		FROM date_specific_shift_overrides
		WHERE date = $1 AND shift_type = $2 AND is_active
	`, date, shiftType).Scan(&o.ID, &o.Date, &o.ShiftType, &o.StartTime, &o.EndTime, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shift override: %w", err)
	}
	return &o, nil
}

// Deactivate implements shift.DateSpecificShiftOverrideRepository.
func (r *dateSpecificShiftOverrideRepository) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE date_specific_shift_overrides SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate shift override: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}
