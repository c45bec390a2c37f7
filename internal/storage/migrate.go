// ABOUTME: Versioned schema migration for the fitness database.
// ABOUTME: Uses PRAGMA user_version and applies steps inside one transaction.

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// ErrSchemaDrift is returned when a column a migration promised is missing.
var ErrSchemaDrift = errors.New("schema drift")

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// MigrationStep moves the schema from version From to version To.
// Apply returns the number of statements it executed.
type MigrationStep struct {
	From  int
	To    int
	Name  string
	Apply func(ctx context.Context, tx *sql.Tx) (int, error)
}

// MigrateSummary reports what a Migrate call did.
type MigrateSummary struct {
	From       int
	To         int
	Steps      []string
	Statements int
	Repaired   bool
}

// Migrator brings a database up to a Schema's version.
type Migrator struct {
	schema Schema
	steps  []MigrationStep
	logger *log.Logger
}

// NewMigrator creates a Migrator for schema. A nil logger uses log.Default().
func NewMigrator(schema Schema, logger *log.Logger) *Migrator {
	if logger == nil {
		logger = log.Default()
	}
	m := &Migrator{schema: schema, logger: logger}
	m.steps = []MigrationStep{
		{From: 0, To: schema.Version, Name: "fresh_install", Apply: m.applyFresh},
		{From: 1, To: 2, Name: "session_exercise_completion", Apply: m.addCompletionColumns},
	}
	return m
}

// Migrate repairs a known inconsistent state, then applies every pending step.
// A database already at the target version is left alone without opening a
// transaction. On failure the transaction is rolled back, so the stored version
// is unchanged, and the error is returned.
func (m *Migrator) Migrate(ctx context.Context, db *sql.DB) (*MigrateSummary, error) {
	repaired, err := m.repairCompletionColumn(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("repair schema: %w", err)
	}

	current, err := userVersion(ctx, db)
	if err != nil {
		return nil, err
	}

	summary := &MigrateSummary{From: current, To: current, Repaired: repaired}
	target := m.schema.Version
	if current >= target {
		return summary, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin migration: %w", err)
	}

	if err := m.applySteps(ctx, tx, current, summary); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			m.logger.Error("migration rollback failed", "err", rbErr)
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit migration: %w", err)
	}

	summary.To = target
	m.logger.Info("schema migrated", "from", summary.From, "to", summary.To, "steps", summary.Steps)
	return summary, nil
}

func (m *Migrator) applySteps(ctx context.Context, tx *sql.Tx, current int, summary *MigrateSummary) error {
	target := m.schema.Version
	version := current
	for version < target {
		step, ok := m.stepFrom(version)
		if !ok {
			return fmt.Errorf("no migration from version %d to %d", version, target)
		}
		n, err := step.Apply(ctx, tx)
		if err != nil {
			return fmt.Errorf("migration %s: %w", step.Name, err)
		}
		summary.Steps = append(summary.Steps, step.Name)
		summary.Statements += n
		version = step.To
	}

	// PRAGMA arguments cannot be bound; target is an int from the schema.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", target)); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return nil
}

// stepFrom finds the step starting at version. Anything below 1 is a fresh database.
func (m *Migrator) stepFrom(version int) (MigrationStep, bool) {
	if version < 1 {
		version = 0
	}
	for _, s := range m.steps {
		if s.From == version {
			return s, true
		}
	}
	return MigrationStep{}, false
}

func (m *Migrator) applyFresh(ctx context.Context, tx *sql.Tx) (int, error) {
	for i, stmt := range m.schema.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return i, fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	return len(m.schema.Statements), nil
}

// completionColumns are the columns version 2 added to session_exercises.
var completionColumns = []struct {
	name string
	ddl  string
}{
	{"completed", "ALTER TABLE session_exercises ADD COLUMN completed INTEGER"},
	{"updated_at", "ALTER TABLE session_exercises ADD COLUMN updated_at TEXT"},
}

// addCompletionColumns runs one ALTER per column; SQLite cannot add several
// columns in a single statement.
func (m *Migrator) addCompletionColumns(ctx context.Context, tx *sql.Tx) (int, error) {
	existing, err := columnNames(ctx, tx, "session_exercises")
	if err != nil {
		return 0, err
	}

	executed := 0
	for _, col := range completionColumns {
		if existing[col.name] {
			continue
		}
		if _, err := tx.ExecContext(ctx, col.ddl); err != nil {
			return executed, fmt.Errorf("add column %s: %w", col.name, err)
		}
		executed++
	}

	after, err := columnNames(ctx, tx, "session_exercises")
	if err != nil {
		return executed, err
	}
	for _, col := range completionColumns {
		if !after[col.name] {
			m.logger.Error("column missing after migration", "table", "session_exercises", "column", col.name)
			return executed, fmt.Errorf("%w: session_exercises.%s", ErrSchemaDrift, col.name)
		}
	}
	return executed, nil
}

// repairCompletionColumn handles databases stamped version 2 whose
// session_exercises table never received the completed column. The version is
// put back to 1 so the normal path re-runs the ALTER step.
func (m *Migrator) repairCompletionColumn(ctx context.Context, db *sql.DB) (bool, error) {
	version, err := userVersion(ctx, db)
	if err != nil {
		return false, err
	}
	if version < 2 {
		return false, nil
	}

	cols, err := columnNames(ctx, db, "session_exercises")
	if err != nil {
		return false, err
	}
	if len(cols) == 0 || cols["completed"] {
		return false, nil
	}

	m.logger.Error("schema drift detected, downgrading version",
		"table", "session_exercises", "column", "completed", "version", version)
	if _, err := db.ExecContext(ctx, "PRAGMA user_version = 1"); err != nil {
		return false, fmt.Errorf("downgrade schema version: %w", err)
	}
	return true, nil
}

// userVersion reads PRAGMA user_version; NULL counts as 0.
func userVersion(ctx context.Context, q querier) (int, error) {
	var v sql.NullInt64
	if err := q.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if !v.Valid {
		return 0, nil
	}
	return int(v.Int64), nil
}

// columnNames returns the set of column names of table. A missing table yields an empty set.
func columnNames(ctx context.Context, q querier, table string) (map[string]bool, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan %s column: %w", table, err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}
