// ABOUTME: Provider owns the database connection and the three services.
// ABOUTME: Built once at startup from Config; migration failure is fatal.
package provider

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harperreed/fitness/internal/config"
	"github.com/harperreed/fitness/internal/seed"
	"github.com/harperreed/fitness/internal/storage"
)

// Provider exposes the storage services once the schema is current.
type Provider struct {
	db        *storage.DB
	logger    *log.Logger
	exercises *storage.ExerciseService
	routines  *storage.RoutineService
	sessions  *storage.SessionService
}

// New opens the database at cfg.DBPath(), migrates it, and builds the
// services. When cfg.Seed is set the sample catalog is inserted.
func New(ctx context.Context, cfg config.Config, logger *log.Logger) (*Provider, error) {
	if logger == nil {
		logger = log.Default()
	}

	db, err := storage.Open(ctx, cfg.DBPath(), logger)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		db:        db,
		logger:    logger,
		exercises: storage.NewExerciseService(db),
		routines:  storage.NewRoutineService(db),
		sessions:  storage.NewSessionService(db),
	}

	if cfg.Seed {
		summary, err := seed.Seed(ctx, p.exercises, p.routines)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("seed database: %w", err)
		}
		logger.Debug("seeded database", "exercises", summary.Exercises, "routines", summary.Routines)
	}

	return p, nil
}

// Exercises returns the exercise service.
func (p *Provider) Exercises() *storage.ExerciseService { return p.exercises }

// Routines returns the routine service.
func (p *Provider) Routines() *storage.RoutineService { return p.routines }

// Sessions returns the session service.
func (p *Provider) Sessions() *storage.SessionService { return p.sessions }

// Exporter returns an Exporter over the three services.
func (p *Provider) Exporter() *storage.Exporter {
	return storage.NewExporter(p.exercises, p.routines, p.sessions)
}

// DB returns the underlying connection.
func (p *Provider) DB() *storage.DB { return p.db }

// ForceReset stamps the schema version to 0 and migrates again.
func (p *Provider) ForceReset(ctx context.Context) (*storage.MigrateSummary, error) {
	return p.db.ForceReset(ctx)
}

// Close closes the database connection.
func (p *Provider) Close() error {
	return p.db.Close()
}
