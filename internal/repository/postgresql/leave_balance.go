package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/leave"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type leaveBalanceRepository struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepository{db: db}
}

const balanceColumns = `
	b.id, b.employee_id, b.leave_type_id, b.total_days, b.used_days,
	b.pending_days, b.year, b.last_accrual_date, b.is_active,
	b.created_at, b.updated_at`

func scanBalance(row pgx.Row) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.TotalDays, &b.UsedDays,
		&b.PendingDays, &b.Year, &b.LastAccrualDate, &b.IsActive,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// Create implements leave.LeaveBalanceRepository. The conflict target is
// the partial unique index on (employee_id, leave_type_id, year) WHERE
// is_active, so re-initialization is idempotent.
func (r *leaveBalanceRepository) Create(ctx context.Context, b leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (
			employee_id, leave_type_id, total_days, used_days, pending_days,
			year, last_accrual_date, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, true)
		ON CONFLICT (employee_id, leave_type_id, year) WHERE is_active
		DO UPDATE SET updated_at = NOW()
		RETURNING id, total_days, used_days, pending_days, last_accrual_date, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		b.EmployeeID, b.LeaveTypeID, b.TotalDays, b.UsedDays, b.PendingDays,
		b.Year, b.LastAccrualDate,
	).Scan(&b.ID, &b.TotalDays, &b.UsedDays, &b.PendingDays, &b.LastAccrualDate, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}
	b.IsActive = true
	return b, nil
}

// GetForYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) GetForYear(ctx context.Context, employeeID, leaveTypeID string, year int) (*leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	b, err := scanBalance(q.QueryRow(ctx, `
		SELECT`+balanceColumns+`
		FROM leave_balances b
		WHERE b.employee_id = $1 AND b.leave_type_id = $2 AND b.year = $3 AND b.is_active
	`, employeeID, leaveTypeID, year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return &b, nil
}

func (r *leaveBalanceRepository) queryBalances(ctx context.Context, query string, args ...interface{}) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave balances: %w", err)
	}
	defer rows.Close()

	var result []leave.LeaveBalance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

// ListForEmployee implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) ListForEmployee(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	return r.queryBalances(ctx, `
		SELECT`+balanceColumns+`
		FROM leave_balances b
		WHERE b.employee_id = $1 AND b.year = $2 AND b.is_active
	`, employeeID, year)
}

// ListForType implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) ListForType(ctx context.Context, leaveTypeID string, year int) ([]leave.LeaveBalance, error) {
	return r.queryBalances(ctx, `
		SELECT`+balanceColumns+`
		FROM leave_balances b
		WHERE b.leave_type_id = $1 AND b.year = $2 AND b.is_active
	`, leaveTypeID, year)
}

// Update implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) Update(ctx context.Context, b leave.LeaveBalance) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE leave_balances SET
			total_days = $2, used_days = $3, pending_days = $4,
			last_accrual_date = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1
	`, b.ID, b.TotalDays, b.UsedDays, b.PendingDays, b.LastAccrualDate, b.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}
	return nil
}

// AdjustUsage implements leave.LeaveBalanceRepository. The updated_at
// predicate is the optimistic version check: zero rows affected means
// the balance changed underneath and the caller must re-read and retry.
func (r *leaveBalanceRepository) AdjustUsage(ctx context.Context, balanceID string, usedDelta, pendingDelta decimal.Decimal, expectedUpdatedAt time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE leave_balances SET
			used_days = GREATEST(used_days + $2, 0),
			pending_days = GREATEST(pending_days + $3, 0),
			updated_at = NOW()
		WHERE id = $1 AND updated_at = $4
	`, balanceID, usedDelta, pendingDelta, expectedUpdatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to adjust leave balance: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListTiers implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) ListTiers(ctx context.Context, balanceID string) ([]leave.LeaveBalanceTier, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, balance_id, tier_number, tier_name, days_allowed, days_used,
			pay_percentage, created_at, updated_at
		FROM leave_balance_tiers
		WHERE balance_id = $1
		ORDER BY tier_number
	`, balanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list balance tiers: %w", err)
	}
	defer rows.Close()

	var result []leave.LeaveBalanceTier
	for rows.Next() {
		var t leave.LeaveBalanceTier
		err := rows.Scan(
			&t.ID, &t.BalanceID, &t.TierNumber, &t.TierName, &t.DaysAllowed,
			&t.DaysUsed, &t.PayPercentage, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance tier: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// CreateTier implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) CreateTier(ctx context.Context, t leave.LeaveBalanceTier) (leave.LeaveBalanceTier, error) {
	q := GetQuerier(ctx, r.db)

	err := q.QueryRow(ctx, `
		INSERT INTO leave_balance_tiers (balance_id, tier_number, tier_name, days_allowed, days_used, pay_percentage)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (balance_id, tier_number) DO UPDATE SET updated_at = NOW()
		RETURNING id, days_used, created_at, updated_at
	`, t.BalanceID, t.TierNumber, t.TierName, t.DaysAllowed, t.DaysUsed, t.PayPercentage,
	).Scan(&t.ID, &t.DaysUsed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return leave.LeaveBalanceTier{}, fmt.Errorf("failed to create balance tier: %w", err)
	}
	return t, nil
}

// UpdateTier implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) UpdateTier(ctx context.Context, t leave.LeaveBalanceTier) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE leave_balance_tiers SET days_used = $2, updated_at = NOW() WHERE id = $1
	`, t.ID, t.DaysUsed)
	if err != nil {
		return fmt.Errorf("failed to update balance tier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}
	return nil
}

type beginningBalanceRepository struct {
	db *database.DB
}

func NewBeginningBalanceRepository(db *database.DB) leave.BeginningBalanceRepository {
	return &beginningBalanceRepository{db: db}
}

// Create implements leave.BeginningBalanceRepository.
func (r *beginningBalanceRepository) Create(ctx context.Context, b leave.LeaveBeginningBalance) (leave.LeaveBeginningBalance, error) {
	q := GetQuerier(ctx, r.db)

	err := q.QueryRow(ctx, `
		INSERT INTO leave_beginning_balances (employee_id, leave_type_id, as_of_date, days)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, b.EmployeeID, b.LeaveTypeID, b.AsOfDate, b.Days,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return leave.LeaveBeginningBalance{}, fmt.Errorf("failed to create beginning balance: %w", err)
	}
	return b, nil
}

// GetLatest implements leave.BeginningBalanceRepository.
func (r *beginningBalanceRepository) GetLatest(ctx context.Context, employeeID, leaveTypeID string) (*leave.LeaveBeginningBalance, error) {
	q := GetQuerier(ctx, r.db)

	var b leave.LeaveBeginningBalance
	err := q.QueryRow(ctx, `
		SELECT id, employee_id, leave_type_id, as_of_date, days, created_at
		FROM leave_beginning_balances
		WHERE employee_id = $1 AND leave_type_id = $2
		ORDER BY as_of_date DESC
		LIMIT 1
	`, employeeID, leaveTypeID).Scan(&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.AsOfDate, &b.Days, &b.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get beginning balance: %w", err)
	}
	return &b, nil
}
