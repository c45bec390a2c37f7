// ABOUTME: Shared test helpers for storage tests.
// ABOUTME: Provides isolated databases, a stepping clock, and raw SQL helpers.
package storage

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/fitness/internal/models"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2024, 2, 13, 8, 0, 0, 0, time.UTC)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// steppingClock returns a clock that advances one second per call.
func steppingClock() func() time.Time {
	t := testEpoch
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

type testStore struct {
	db        *DB
	exercises *ExerciseService
	routines  *RoutineService
	sessions  *SessionService
}

func setupTestDB(t *testing.T) *testStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(context.Background(), dbPath, quietLogger())
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetClock(steppingClock())

	return &testStore{
		db:        db,
		exercises: NewExerciseService(db),
		routines:  NewRoutineService(db),
		sessions:  NewSessionService(db),
	}
}

// seedExercises creates exercises with the given ids, named after them.
func (s *testStore) seedExercises(t *testing.T, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := s.exercises.Create(context.Background(), models.NewExercise(id, "Exercise "+id))
		require.NoError(t, err)
	}
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query, args...).Scan(&n))
	return n
}

// totalChanges reports rows modified on the single shared connection.
func totalChanges(t *testing.T, db *sql.DB) int {
	t.Helper()
	return countRows(t, db, "SELECT total_changes()")
}

func ptr[T any](v T) *T {
	return &v
}
