package postgresql_test

import (
	"context"
	"fmt"
	"os"

	"github.com/sahl-hr/attendance-backend-go/internal/pkg/database"
)

// TestDatabaseSetup wraps a connection to the integration test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL. Callers should skip
// their test when the variable is unset.
func NewTestDatabase() (*TestDatabaseSetup, error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("TEST_DATABASE_URL is not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	return &TestDatabaseSetup{DB: db}, nil
}

// TruncateAllTables clears every table between test cases.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"notifications",
		"leave_balance_tiers",
		"leave_balances",
		"beginning_balances",
		"leaves",
		"leave_types",
		"attendance_logs",
		"punch_events",
		"date_specific_shift_overrides",
		"date_specific_shifts",
		"shift_assignments",
		"shifts",
		"ramadan_periods",
		"holidays",
		"employees",
		"departments",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// Close closes the database connection.
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
