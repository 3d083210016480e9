package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/leave"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/database"
)

type leaveTypeRepository struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepository{db: db}
}

const leaveTypeColumns = `
	lt.id, lt.code, lt.name, lt.category, lt.days_allowed, lt.is_paid,
	lt.requires_document, lt.gender_constraint, lt.accrual_enabled,
	lt.accrual_rate, lt.accrual_period, lt.reset_period,
	lt.balance_calculation, lt.shared_balance_with, lt.validation_rules,
	lt.is_active, lt.created_at, lt.updated_at`

func scanLeaveType(row pgx.Row) (leave.LeaveType, error) {
	var lt leave.LeaveType
	var rules []byte
	err := row.Scan(
		&lt.ID, &lt.Code, &lt.Name, &lt.Category, &lt.DaysAllowed, &lt.IsPaid,
		&lt.RequiresDocument, &lt.GenderConstraint, &lt.AccrualEnabled,
		&lt.AccrualRate, &lt.AccrualPeriod, &lt.ResetPeriod,
		&lt.BalanceCalculation, &lt.SharedBalanceWith, &rules,
		&lt.IsActive, &lt.CreatedAt, &lt.UpdatedAt,
	)
	if err != nil {
		return leave.LeaveType{}, err
	}
	if len(rules) > 0 {
		if err := json.Unmarshal(rules, &lt.Rules); err != nil {
			return leave.LeaveType{}, fmt.Errorf("failed to decode validation rules: %w", err)
		}
	}
	return lt, nil
}

// Create implements leave.LeaveTypeRepository.
func (r *leaveTypeRepository) Create(ctx context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	rules, err := json.Marshal(lt.Rules)
	if err != nil {
		return leave.LeaveType{}, fmt.Errorf("failed to encode validation rules: %w", err)
	}

	query := `
		INSERT INTO leave_types (
			code, name, category, days_allowed, is_paid, requires_document,
			gender_constraint, accrual_enabled, accrual_rate, accrual_period,
			reset_period, balance_calculation, shared_balance_with,
			validation_rules, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (code) DO UPDATE SET updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		lt.Code, lt.Name, lt.Category, lt.DaysAllowed, lt.IsPaid, lt.RequiresDocument,
		lt.GenderConstraint, lt.AccrualEnabled, lt.AccrualRate, lt.AccrualPeriod,
		lt.ResetPeriod, lt.BalanceCalculation, lt.SharedBalanceWith,
		rules, lt.IsActive,
	).Scan(&lt.ID, &lt.CreatedAt, &lt.UpdatedAt)
	if err != nil {
		return leave.LeaveType{}, fmt.Errorf("failed to create leave type: %w", err)
	}
	return lt, nil
}

// GetByID implements leave.LeaveTypeRepository.
func (r *leaveTypeRepository) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	lt, err := scanLeaveType(q.QueryRow(ctx, `SELECT`+leaveTypeColumns+` FROM leave_types lt WHERE lt.id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	return lt, nil
}

// GetByCode implements leave.LeaveTypeRepository.
func (r *leaveTypeRepository) GetByCode(ctx context.Context, code leave.Code) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	lt, err := scanLeaveType(q.QueryRow(ctx, `
		SELECT`+leaveTypeColumns+` FROM leave_types lt WHERE lt.code = $1 AND lt.is_active
	`, code))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type by code: %w", err)
	}
	return lt, nil
}

func (r *leaveTypeRepository) queryTypes(ctx context.Context, query string, args ...interface{}) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave types: %w", err)
	}
	defer rows.Close()

	var result []leave.LeaveType
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave type: %w", err)
		}
		result = append(result, lt)
	}
	return result, rows.Err()
}

// ListActive implements leave.LeaveTypeRepository.
func (r *leaveTypeRepository) ListActive(ctx context.Context) ([]leave.LeaveType, error) {
	return r.queryTypes(ctx, `SELECT`+leaveTypeColumns+` FROM leave_types lt WHERE lt.is_active ORDER BY lt.code`)
}

// ListAccrualEnabled implements leave.LeaveTypeRepository.
func (r *leaveTypeRepository) ListAccrualEnabled(ctx context.Context) ([]leave.LeaveType, error) {
	return r.queryTypes(ctx, `
		SELECT`+leaveTypeColumns+` FROM leave_types lt
		WHERE lt.is_active AND lt.accrual_enabled
		ORDER BY lt.code
	`)
}

// Update implements leave.LeaveTypeRepository.
func (r *leaveTypeRepository) Update(ctx context.Context, lt leave.LeaveType) error {
	q := GetQuerier(ctx, r.db)

	rules, err := json.Marshal(lt.Rules)
	if err != nil {
		return fmt.Errorf("failed to encode validation rules: %w", err)
	}

	tag, err := q.Exec(ctx, `
		UPDATE leave_types SET
			name = $2, category = $3, days_allowed = $4, is_paid = $5,
			requires_document = $6, gender_constraint = $7,
			accrual_enabled = $8, accrual_rate = $9, accrual_period = $10,
			reset_period = $11, balance_calculation = $12,
			shared_balance_with = $13, validation_rules = $14,
			is_active = $15, updated_at = NOW()
		WHERE id = $1
	`, lt.ID, lt.Name, lt.Category, lt.DaysAllowed, lt.IsPaid,
		lt.RequiresDocument, lt.GenderConstraint,
		lt.AccrualEnabled, lt.AccrualRate, lt.AccrualPeriod,
		lt.ResetPeriod, lt.BalanceCalculation,
		lt.SharedBalanceWith, rules, lt.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update leave type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveTypeNotFound
	}
	return nil
}
