// ABOUTME: Tests for the versioned schema migration.
// ABOUTME: Covers fresh installs, v1 upgrades, repair, rollback, and force reset.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// v1Statements is the schema shipped before set completion tracking.
var v1Statements = []string{
	`CREATE TABLE exercises (id TEXT PRIMARY KEY, name TEXT NOT NULL, category TEXT, description TEXT, created_at TEXT NOT NULL)`,
	`CREATE TABLE routines (id TEXT PRIMARY KEY, name TEXT NOT NULL, description TEXT, created_at TEXT NOT NULL)`,
	`CREATE TABLE routine_exercises (routine_id TEXT NOT NULL, exercise_id TEXT NOT NULL, sets INTEGER NOT NULL,
		reps INTEGER NOT NULL, weight REAL, duration INTEGER, notes TEXT, order_index INTEGER NOT NULL,
		created_at TEXT NOT NULL, PRIMARY KEY (routine_id, exercise_id))`,
	`CREATE TABLE sessions (id TEXT PRIMARY KEY, routine_id TEXT, name TEXT NOT NULL, notes TEXT,
		start_time TEXT NOT NULL, end_time TEXT, created_at TEXT NOT NULL)`,
	`CREATE TABLE session_exercises (session_id TEXT NOT NULL, exercise_id TEXT NOT NULL, set_number INTEGER NOT NULL,
		reps INTEGER, weight REAL, duration INTEGER, notes TEXT, created_at TEXT NOT NULL,
		PRIMARY KEY (session_id, exercise_id, set_number))`,
}

func openRaw(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "raw.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func execAll(t *testing.T, db *sql.DB, stmts ...string) {
	t.Helper()
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
}

func TestMigrateFreshInstall(t *testing.T) {
	db := openRaw(t)
	ctx := context.Background()

	summary, err := NewMigrator(Current, quietLogger()).Migrate(ctx, db)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.From)
	assert.Equal(t, Current.Version, summary.To)
	assert.Equal(t, []string{"fresh_install"}, summary.Steps)
	assert.Equal(t, len(Current.Statements), summary.Statements)

	version, err := userVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	for _, table := range Tables {
		n := countRows(t, db, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table)
		assert.Equal(t, 1, n, "table %s", table)
	}
	indexes := countRows(t, db, "SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name LIKE 'idx_%'")
	assert.Equal(t, 9, indexes)

	cols, err := columnNames(ctx, db, "session_exercises")
	require.NoError(t, err)
	assert.True(t, cols["completed"])
	assert.True(t, cols["updated_at"])
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openRaw(t)
	ctx := context.Background()
	m := NewMigrator(Current, quietLogger())

	first, err := m.Migrate(ctx, db)
	require.NoError(t, err)
	assert.NotZero(t, first.Statements)

	second, err := m.Migrate(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 2, second.From)
	assert.Equal(t, 2, second.To)
	assert.Empty(t, second.Steps)
	assert.Zero(t, second.Statements)
	assert.False(t, second.Repaired)
}

func TestMigrateFromVersionOne(t *testing.T) {
	db := openRaw(t)
	ctx := context.Background()
	execAll(t, db, v1Statements...)
	execAll(t, db,
		`INSERT INTO exercises VALUES ('e1', 'Squat', NULL, NULL, '2024-01-01T00:00:00.000Z')`,
		`INSERT INTO sessions VALUES ('s1', NULL, 'Legs', NULL, '2024-01-01T08:00:00.000Z', NULL, '2024-01-01T08:00:00.000Z')`,
		`INSERT INTO session_exercises VALUES ('s1', 'e1', 1, 5, 120, NULL, NULL, '2024-01-01T08:00:00.000Z')`,
		"PRAGMA user_version = 1",
	)

	summary, err := NewMigrator(Current, quietLogger()).Migrate(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.From)
	assert.Equal(t, 2, summary.To)
	assert.Equal(t, []string{"session_exercise_completion"}, summary.Steps)
	assert.Equal(t, 2, summary.Statements)

	cols, err := columnNames(ctx, db, "session_exercises")
	require.NoError(t, err)
	assert.True(t, cols["completed"])
	assert.True(t, cols["updated_at"])

	version, err := userVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	// Existing rows survive with NULL completion.
	var completed sql.NullBool
	require.NoError(t, db.QueryRow("SELECT completed FROM session_exercises WHERE session_id = 's1'").Scan(&completed))
	assert.False(t, completed.Valid)
}

func TestMigrateRepairsMissingCompletedColumn(t *testing.T) {
	db := openRaw(t)
	ctx := context.Background()
	execAll(t, db, v1Statements...)
	execAll(t, db, "PRAGMA user_version = 2")

	summary, err := NewMigrator(Current, quietLogger()).Migrate(ctx, db)
	require.NoError(t, err)
	assert.True(t, summary.Repaired)
	assert.Equal(t, 1, summary.From)
	assert.Equal(t, 2, summary.To)

	cols, err := columnNames(ctx, db, "session_exercises")
	require.NoError(t, err)
	assert.True(t, cols["completed"])
	assert.True(t, cols["updated_at"])
}

func TestMigrateRepairSkipsExistingUpdatedAt(t *testing.T) {
	db := openRaw(t)
	ctx := context.Background()
	execAll(t, db, v1Statements...)
	execAll(t, db,
		"ALTER TABLE session_exercises ADD COLUMN updated_at TEXT",
		"PRAGMA user_version = 2",
	)

	summary, err := NewMigrator(Current, quietLogger()).Migrate(ctx, db)
	require.NoError(t, err)
	assert.True(t, summary.Repaired)
	assert.Equal(t, 1, summary.Statements)
}

func TestMigrateRollsBackOnFailure(t *testing.T) {
	db := openRaw(t)
	ctx := context.Background()
	// Version 1 without session_exercises: the ALTER step cannot succeed.
	execAll(t, db, v1Statements[:4]...)
	execAll(t, db, "PRAGMA user_version = 1")

	_, err := NewMigrator(Current, quietLogger()).Migrate(ctx, db)
	require.Error(t, err)

	version, verr := userVersion(ctx, db)
	require.NoError(t, verr)
	assert.Equal(t, 1, version, "version must stay at its pre-migration value")
}

func TestMigratePropagatesStepError(t *testing.T) {
	db := openRaw(t)
	ctx := context.Background()
	execAll(t, db, v1Statements...)
	execAll(t, db, "PRAGMA user_version = 1")

	m := NewMigrator(Current, quietLogger())
	// A step that finds the column still missing after it ran.
	m.steps[1].Apply = func(ctx context.Context, tx *sql.Tx) (int, error) {
		existing, err := columnNames(ctx, tx, "session_exercises")
		if err != nil {
			return 0, err
		}
		if !existing["completed"] {
			return 0, fmt.Errorf("%w: session_exercises.completed", ErrSchemaDrift)
		}
		return 0, nil
	}

	_, err := m.Migrate(ctx, db)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaDrift))

	version, verr := userVersion(ctx, db)
	require.NoError(t, verr)
	assert.Equal(t, 1, version)
}

func TestOpenFailsOnBrokenDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "broken.db")
	raw, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	execAll(t, raw, v1Statements[:4]...)
	execAll(t, raw, "PRAGMA user_version = 1")
	require.NoError(t, raw.Close())

	db, err := Open(context.Background(), dbPath, quietLogger())
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "migrate database")
}

func TestForceReset(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	s.seedExercises(t, "e1")

	summary, err := s.db.ForceReset(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.From)
	assert.Equal(t, 2, summary.To)
	assert.Equal(t, len(Current.Statements), summary.Statements)

	version, err := s.db.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	// CREATE IF NOT EXISTS leaves existing rows alone.
	e, err := s.exercises.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.NotNil(t, e)
}

func TestOpenEnablesForeignKeysAndWAL(t *testing.T) {
	s := setupTestDB(t)

	var fk int
	require.NoError(t, s.db.SQL().QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	var mode string
	require.NoError(t, s.db.SQL().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}
