package database

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}
	db, err := NewPostgreSQLDB(dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func TestAdvisoryLockPinsSession(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	const key = int64(424242)

	lock, acquired, err := db.TryAdvisoryLock(ctx, key)
	require.NoError(t, err)
	require.True(t, acquired)

	// The handle holds its connection, so a second attempt lands on a
	// different session and must not get the lock.
	other, acquired, err := db.TryAdvisoryLock(ctx, key)
	require.NoError(t, err)
	assert.False(t, acquired)
	assert.Nil(t, other)

	// Releasing on the owning session frees the key for the next taker.
	require.NoError(t, lock.Release(ctx))

	relock, acquired, err := db.TryAdvisoryLock(ctx, key)
	require.NoError(t, err)
	require.True(t, acquired)
	require.NoError(t, relock.Release(ctx))
}
