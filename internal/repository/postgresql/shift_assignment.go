package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/database"
)

type shiftAssignmentRepository struct {
	db *database.DB
}

func NewShiftAssignmentRepository(db *database.DB) shift.ShiftAssignmentRepository {
	return &shiftAssignmentRepository{db: db}
}

const assignmentColumns = `
	a.id, a.employee_id, a.shift_id, a.start_date, a.end_date, a.is_active,
	a.created_by, a.created_at, a.updated_at,
	s.name AS shift_name, s.shift_type, s.priority`

func scanAssignment(row pgx.Row) (shift.ShiftAssignment, error) {
	var a shift.ShiftAssignment
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.ShiftID, &a.StartDate, &a.EndDate, &a.IsActive,
		&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
		&a.ShiftName, &a.ShiftType, &a.ShiftPriority,
	)
	return a, err
}

// Create implements shift.ShiftAssignmentRepository.
func (r *shiftAssignmentRepository) Create(ctx context.Context, a shift.ShiftAssignment) (shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_assignments (employee_id, shift_id, start_date, end_date, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.EmployeeID, a.ShiftID, a.StartDate, a.EndDate, a.IsActive, a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return shift.ShiftAssignment{}, fmt.Errorf("failed to create shift assignment: %w", err)
	}
	return a, nil
}

// GetByID implements shift.ShiftAssignmentRepository.
func (r *shiftAssignmentRepository) GetByID(ctx context.Context, id string) (shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAssignment(q.QueryRow(ctx, `
		SELECT`+assignmentColumns+`
		FROM shift_assignments a
		JOIN shifts s ON s.id = a.shift_id
		WHERE a.id = $1
	`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ShiftAssignment{}, shift.ErrAssignmentNotFound
		}
		return shift.ShiftAssignment{}, fmt.Errorf("failed to get assignment by ID: %w", err)
	}
	return a, nil
}

func (r *shiftAssignmentRepository) queryAssignments(ctx context.Context, query string, args ...interface{}) ([]shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var result []shift.ShiftAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// ListActiveCovering implements shift.ShiftAssignmentRepository.
func (r *shiftAssignmentRepository) ListActiveCovering(ctx context.Context, employeeID string, date time.Time) ([]shift.ShiftAssignment, error) {
	return r.queryAssignments(ctx, `
		SELECT`+assignmentColumns+`
		FROM shift_assignments a
		JOIN shifts s ON s.id = a.shift_id
		WHERE a.employee_id = $1
		  AND a.is_active
		  AND a.start_date <= $2
		  AND (a.end_date IS NULL OR a.end_date >= $2)
		ORDER BY s.priority DESC, a.created_at DESC
	`, employeeID, date)
}

// ListActiveOverlapping implements shift.ShiftAssignmentRepository.
func (r *shiftAssignmentRepository) ListActiveOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]shift.ShiftAssignment, error) {
	return r.queryAssignments(ctx, `
		SELECT`+assignmentColumns+`
		FROM shift_assignments a
		JOIN shifts s ON s.id = a.shift_id
		WHERE a.employee_id = $1
		  AND a.is_active
		  AND a.start_date <= $3
		  AND (a.end_date IS NULL OR a.end_date >= $2)
		ORDER BY s.priority DESC, a.created_at DESC
	`, employeeID, start, end)
}

// ListActiveByShift implements shift.ShiftAssignmentRepository.
func (r *shiftAssignmentRepository) ListActiveByShift(ctx context.Context, shiftID string) ([]shift.ShiftAssignment, error) {
	return r.queryAssignments(ctx, `
		SELECT`+assignmentColumns+`
		FROM shift_assignments a
		JOIN shifts s ON s.id = a.shift_id
		WHERE a.shift_id = $1 AND a.is_active
	`, shiftID)
}

// ListExpired implements shift.ShiftAssignmentRepository.
func (r *shiftAssignmentRepository) ListExpired(ctx context.Context, before time.Time) ([]shift.ShiftAssignment, error) {
	return r.queryAssignments(ctx, `
		SELECT`+assignmentColumns+`
		FROM shift_assignments a
		JOIN shifts s ON s.id = a.shift_id
		WHERE a.is_active AND a.end_date IS NOT NULL AND a.end_date < $1
	`, before)
}

// ListStartingOn implements shift.ShiftAssignmentRepository.
func (r *shiftAssignmentRepository) ListStartingOn(ctx context.Context, date time.Time) ([]shift.ShiftAssignment, error) {
	return r.queryAssignments(ctx, `
		SELECT`+assignmentColumns+`
		FROM shift_assignments a
		JOIN shifts s ON s.id = a.shift_id
		WHERE a.is_active AND a.start_date = $1
	`, date)
}

// ListEmployeesWithoutAssignment implements shift.ShiftAssignmentRepository.
func (r *shiftAssignmentRepository) ListEmployeesWithoutAssignment(ctx context.Context, date time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT e.id
		FROM employees e
		WHERE e.is_active
		  AND NOT EXISTS (
			SELECT 1 FROM shift_assignments a
			WHERE a.employee_id = e.id
			  AND a.is_active
			  AND a.start_date <= $1
			  AND (a.end_date IS NULL OR a.end_date >= $1)
		  )
		ORDER BY e.employee_number
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list unassigned employees: %w", err)
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

// Update implements shift.ShiftAssignmentRepository.
func (r *shiftAssignmentRepository) Update(ctx context.Context, a shift.ShiftAssignment) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE shift_assignments
		SET shift_id = $2, start_date = $3, end_date = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1
	`, a.ID, a.ShiftID, a.StartDate, a.EndDate, a.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrAssignmentNotFound
	}
	return nil
}

// Deactivate implements shift.ShiftAssignmentRepository. Inactive rows
// are kept for history, never deleted.
func (r *shiftAssignmentRepository) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE shift_assignments SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrAssignmentNotFound
	}
	return nil
}
