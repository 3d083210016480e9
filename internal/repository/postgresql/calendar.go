package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/calendar"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/database"
)

type holidayRepository struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) calendar.HolidayRepository {
	return &holidayRepository{db: db}
}

const holidayColumns = `
	h.id, h.date, h.name, h.holiday_type, h.is_recurring, h.is_paid,
	h.department_id, h.is_active, h.created_at, h.updated_at`

func scanHoliday(row pgx.Row) (calendar.Holiday, error) {
	var h calendar.Holiday
	err := row.Scan(
		&h.ID, &h.Date, &h.Name, &h.HolidayType, &h.IsRecurring, &h.IsPaid,
		&h.DepartmentID, &h.IsActive, &h.CreatedAt, &h.UpdatedAt,
	)
	return h, err
}

// Create implements calendar.HolidayRepository.
func (r *holidayRepository) Create(ctx context.Context, h calendar.Holiday) (calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	err := q.QueryRow(ctx, `
		INSERT INTO holidays (date, name, holiday_type, is_recurring, is_paid, department_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, h.Date, h.Name, h.HolidayType, h.IsRecurring, h.IsPaid, h.DepartmentID, h.IsActive,
	).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return calendar.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return h, nil
}

// GetByID implements calendar.HolidayRepository.
func (r *holidayRepository) GetByID(ctx context.Context, id string) (calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	h, err := scanHoliday(q.QueryRow(ctx, `SELECT`+holidayColumns+` FROM holidays h WHERE h.id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return calendar.Holiday{}, calendar.ErrHolidayNotFound
		}
		return calendar.Holiday{}, fmt.Errorf("failed to get holiday: %w", err)
	}
	return h, nil
}

// GetForDate implements calendar.HolidayRepository. Department-scoped
// holidays win over company-wide ones on the same date.
func (r *holidayRepository) GetForDate(ctx context.Context, date time.Time, departmentID *string) (*calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	h, err := scanHoliday(q.QueryRow(ctx, `
		SELECT`+holidayColumns+`
		FROM holidays h
		WHERE h.date = $1
		  AND h.is_active
		  AND NOT h.is_recurring
		  AND (h.department_id IS NULL OR h.department_id = $2)
		ORDER BY h.department_id NULLS LAST
		LIMIT 1
	`, date, departmentID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get holiday for date: %w", err)
	}
	return &h, nil
}

// ListInRange implements calendar.HolidayRepository.
func (r *holidayRepository) ListInRange(ctx context.Context, start, end time.Time) ([]calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT`+holidayColumns+`
		FROM holidays h
		WHERE h.date BETWEEN $1 AND $2 AND h.is_active AND NOT h.is_recurring
		ORDER BY h.date
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var result []calendar.Holiday
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		result = append(result, h)
	}
	return result, rows.Err()
}

// ListRecurring implements calendar.HolidayRepository.
func (r *holidayRepository) ListRecurring(ctx context.Context) ([]calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT`+holidayColumns+`
		FROM holidays h
		WHERE h.is_recurring AND h.is_active
		ORDER BY h.date
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring holidays: %w", err)
	}
	defer rows.Close()

	var result []calendar.Holiday
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		result = append(result, h)
	}
	return result, rows.Err()
}

// ExistsOn implements calendar.HolidayRepository.
func (r *holidayRepository) ExistsOn(ctx context.Context, date time.Time, name string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM holidays
			WHERE date = $1 AND name = $2 AND NOT is_recurring AND is_active
		)
	`, date, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check holiday existence: %w", err)
	}
	return exists, nil
}

// Update implements calendar.HolidayRepository.
func (r *holidayRepository) Update(ctx context.Context, h calendar.Holiday) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE holidays
		SET date = $2, name = $3, holiday_type = $4, is_recurring = $5,
			is_paid = $6, department_id = $7, is_active = $8, updated_at = NOW()
		WHERE id = $1
	`, h.ID, h.Date, h.Name, h.HolidayType, h.IsRecurring, h.IsPaid, h.DepartmentID, h.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return calendar.ErrHolidayNotFound
	}
	return nil
}

// Deactivate implements calendar.HolidayRepository.
func (r *holidayRepository) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE holidays SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return calendar.ErrHolidayNotFound
	}
	return nil
}

type ramadanPeriodRepository struct {
	db *database.DB
}

func NewRamadanPeriodRepository(db *database.DB) calendar.RamadanPeriodRepository {
	return &ramadanPeriodRepository{db: db}
}

const ramadanColumns = `
	p.id, p.year, p.start_date, p.end_date, p.is_active, p.created_at, p.updated_at`

func scanRamadan(row pgx.Row) (calendar.RamadanPeriod, error) {
	var p calendar.RamadanPeriod
	err := row.Scan(&p.ID, &p.Year, &p.StartDate, &p.EndDate, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Create implements calendar.RamadanPeriodRepository.
func (r *ramadanPeriodRepository) Create(ctx context.Context, p calendar.RamadanPeriod) (calendar.RamadanPeriod, error) {
	q := GetQuerier(ctx, r.db)

	err := q.QueryRow(ctx, `
		INSERT INTO ramadan_periods (year, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, p.Year, p.StartDate, p.EndDate, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return calendar.RamadanPeriod{}, fmt.Errorf("failed to create ramadan period: %w", err)
	}
	return p, nil
}

// GetByID implements calendar.RamadanPeriodRepository.
func (r *ramadanPeriodRepository) GetByID(ctx context.Context, id string) (calendar.RamadanPeriod, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanRamadan(q.QueryRow(ctx, `SELECT`+ramadanColumns+` FROM ramadan_periods p WHERE p.id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return calendar.RamadanPeriod{}, calendar.ErrRamadanPeriodNotFound
		}
		return calendar.RamadanPeriod{}, fmt.Errorf("failed to get ramadan period: %w", err)
	}
	return p, nil
}

// GetActiveCovering implements calendar.RamadanPeriodRepository.
func (r *ramadanPeriodRepository) GetActiveCovering(ctx context.Context, date time.Time) (*calendar.RamadanPeriod, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanRamadan(q.QueryRow(ctx, `
		SELECT`+ramadanColumns+`
		FROM ramadan_periods p
		WHERE p.is_active AND p.start_date <= $1 AND p.end_date >= $1
		LIMIT 1
	`, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ramadan period for date: %w", err)
	}
	return &p, nil
}

// GetActiveForYear implements calendar.RamadanPeriodRepository.
func (r *ramadanPeriodRepository) GetActiveForYear(ctx context.Context, year int) (*calendar.RamadanPeriod, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanRamadan(q.QueryRow(ctx, `
		SELECT`+ramadanColumns+`
		FROM ramadan_periods p
		WHERE p.is_active AND p.year = $1
		LIMIT 1
	`, year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ramadan period for year: %w", err)
	}
	return &p, nil
}

// ListOverlapping implements calendar.RamadanPeriodRepository.
func (r *ramadanPeriodRepository) ListOverlapping(ctx context.Context, start, end time.Time) ([]calendar.RamadanPeriod, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT`+ramadanColumns+`
		FROM ramadan_periods p
		WHERE p.start_date <= $2 AND p.end_date >= $1
		ORDER BY p.start_date
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list overlapping ramadan periods: %w", err)
	}
	defer rows.Close()

	var result []calendar.RamadanPeriod
	for rows.Next() {
		p, err := scanRamadan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ramadan period: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// Update implements calendar.RamadanPeriodRepository.
func (r *ramadanPeriodRepository) Update(ctx context.Context, p calendar.RamadanPeriod) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE ramadan_periods
		SET year = $2, start_date = $3, end_date = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.Year, p.StartDate, p.EndDate, p.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update ramadan period: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return calendar.ErrRamadanPeriodNotFound
	}
	return nil
}

// Deactivate implements calendar.RamadanPeriodRepository.
func (r *ramadanPeriodRepository) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE ramadan_periods SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate ramadan period: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return calendar.ErrRamadanPeriodNotFound
	}
	return nil
}
