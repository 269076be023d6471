package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/focuslog/internal/repository"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"categories",
		"samples",
		"blocks",
		"profiles",
		"suggestions",
		"api_keys",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}

	require.NoError(t, db.RunMigrations(), "migrations must be re-runnable")
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

// TestSampleCategoryOwnership verifies a sample cannot reference another
// user's category.
func TestSampleCategoryOwnership(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name) VALUES (?, ?, ?)`,
		"c1", "u1", "Work")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO samples (id, user_id, timestamp, kind, category_id) VALUES (?, ?, ?, ?, ?)`,
		"s1", "u1", 1000, "window", "c1")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO samples (id, user_id, timestamp, kind, category_id) VALUES (?, ?, ?, ?, ?)`,
		"s2", "u2", 1000, "window", "c1")
	require.Error(t, err, "category belongs to a different user")
	require.True(t, isForeignKeyViolation(err))

	_, err = db.ExecContext(ctx,
		`INSERT INTO samples (id, user_id, timestamp, kind) VALUES (?, ?, ?, ?)`,
		"s3", "u1", 1000, "bogus")
	require.Error(t, err, "kind is constrained")
}

// TestSuggestionUniqueness verifies one suggestion per calendar event and user.
func TestSuggestionUniqueness(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	insert := `INSERT INTO suggestions (id, user_id, external_calendar_event_id, start_time, end_time, status)
		VALUES (?, ?, ?, ?, ?, 'pending')`
	_, err := db.ExecContext(ctx, insert, "a", "u1", "ev1", 0, 1000)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, insert, "b", "u1", "ev1", 0, 1000)
	require.True(t, isUniqueViolation(err))
	_, err = db.ExecContext(ctx, insert, "c", "u2", "ev1", 0, 1000)
	require.NoError(t, err)
}

func TestWriteError(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO samples (id, user_id, timestamp, kind) VALUES (?, ?, ?, ?)`,
		"s1", "u1", 1000, "bogus")
	require.Equal(t, constraintCheck, violated(err))
	require.ErrorIs(t, writeError("create sample", err), repository.ErrInvalidInput)

	_, err = db.ExecContext(ctx,
		`INSERT INTO samples (id, user_id, timestamp, kind, category_id) VALUES (?, ?, ?, ?, ?)`,
		"s2", "u1", 1000, "window", "missing")
	require.ErrorIs(t, writeError("create sample", err), repository.ErrForeignKeyViolation)

	_, err = db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name) VALUES (?, ?, NULL)`, "c1", "u1")
	require.Equal(t, constraintNotNull, violated(err))

	require.Equal(t, constraintNone, violated(nil))
	wrapped := writeError("create sample", errors.New("disk I/O error"))
	require.EqualError(t, wrapped, "failed to create sample: disk I/O error")
}
