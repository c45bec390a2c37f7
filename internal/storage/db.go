// ABOUTME: SQLite database connection and lifecycle management.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required).
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

// DB wraps the single SQLite connection shared by every service.
type DB struct {
	db       *sql.DB
	dbPath   string
	logger   *log.Logger
	migrator *Migrator
	now      func() time.Time
}

// Open opens or creates the database at dbPath, configures it, and migrates
// it to Current. A migration failure closes the connection and is returned.
func Open(ctx context.Context, dbPath string, logger *log.Logger) (*DB, error) {
	if logger == nil {
		logger = log.Default()
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection for the whole process: pragmas are per connection and
	// transactions must not interleave.
	db.SetMaxOpenConns(1)

	if dbPath != ":memory:" {
		if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
			_ = db.Close()
			return nil, fmt.Errorf("set database permissions: %w", err)
		}
	}

	d := &DB{
		db:       db,
		dbPath:   dbPath,
		logger:   logger,
		migrator: NewMigrator(Current, logger),
		now:      time.Now,
	}

	if err := d.configurePragmas(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure pragmas: %w", err)
	}

	if _, err := d.migrator.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return d, nil
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "fitness")
}

// DefaultDBPath returns the default database path following XDG spec.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), Current.Name)
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.dbPath
}

// SQL exposes the underlying handle for inspection and tests.
func (d *DB) SQL() *sql.DB {
	return d.db
}

// SetClock replaces the time source used to stamp created_at and updated_at.
func (d *DB) SetClock(now func() time.Time) {
	d.now = now
}

// Version returns the stored schema version.
func (d *DB) Version(ctx context.Context) (int, error) {
	return userVersion(ctx, d.db)
}

// ForceReset stamps the schema version back to 0 and migrates again.
// It must not run while any other write is in flight.
func (d *DB) ForceReset(ctx context.Context) (*MigrateSummary, error) {
	d.logger.Warn("forcing schema reset", "path", d.dbPath)
	if _, err := d.db.ExecContext(ctx, "PRAGMA user_version = 0"); err != nil {
		return nil, fmt.Errorf("reset schema version: %w", err)
	}
	summary, err := d.migrator.Migrate(ctx, d.db)
	if err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return summary, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// configurePragmas enables WAL and foreign keys once, before migration.
func (d *DB) configurePragmas(ctx context.Context) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := d.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// withTx runs fn between BEGIN and COMMIT. When fn fails the transaction is
// rolled back and fn's error is returned as is.
func (d *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			d.logger.Error("rollback failed", "err", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// timestamp returns the current time at storage precision.
func (d *DB) timestamp() time.Time {
	return d.now().UTC().Truncate(time.Millisecond)
}
