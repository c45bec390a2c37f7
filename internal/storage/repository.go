// ABOUTME: Repository interfaces for the three fitness services.
// ABOUTME: Callers (CLI, MCP, HTTP, seeding) depend on these, not on *DB.
package storage

import (
	"context"
	"time"

	"github.com/harperreed/fitness/internal/models"
)

// ExerciseRepository is the exercise catalog contract.
type ExerciseRepository interface {
	Create(ctx context.Context, e *models.Exercise) (*models.Exercise, error)
	GetByID(ctx context.Context, id string) (*models.Exercise, error)
	GetAll(ctx context.Context) ([]*models.Exercise, error)
	Update(ctx context.Context, id string, u models.ExerciseUpdate) error
	Delete(ctx context.Context, id string) error
	SearchByName(ctx context.Context, query string) ([]*models.Exercise, error)
	GetByCategory(ctx context.Context, category string) ([]*models.Exercise, error)
}

// RoutineRepository is the routine template contract.
type RoutineRepository interface {
	Create(ctx context.Context, r *models.Routine) (*models.Routine, error)
	GetByID(ctx context.Context, id string) (*models.Routine, error)
	GetAll(ctx context.Context) ([]*models.Routine, error)
	SearchByName(ctx context.Context, query string) ([]*models.Routine, error)
	Links(ctx context.Context, routineID string) ([]models.RoutineExercise, error)
	Update(ctx context.Context, id string, u models.RoutineUpdate) error
	UpdateExercises(ctx context.Context, routineID string, exerciseIDs []string) error
	Delete(ctx context.Context, id string) error
}

// SessionRepository is the workout session contract.
type SessionRepository interface {
	Create(ctx context.Context, s *models.Session, sets []models.SessionExercise) (*models.Session, error)
	GetByID(ctx context.Context, id string) (*models.Session, error)
	GetAll(ctx context.Context) ([]*models.Session, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Session, error)
	GetActiveSession(ctx context.Context, day time.Time) (*models.Session, error)
	Update(ctx context.Context, id string, u models.SessionUpdate) error
	Finish(ctx context.Context, id string, endTime time.Time) (*models.Session, error)
	UpdateExercise(ctx context.Context, key models.SetKey, u models.SessionExerciseUpdate) error
	AddExerciseToSession(ctx context.Context, sessionID string, e models.SessionExercise) (*models.SessionExercise, error)
	RemoveExercise(ctx context.Context, key models.SetKey) error
	Delete(ctx context.Context, id string) error
}

var (
	_ ExerciseRepository = (*ExerciseService)(nil)
	_ RoutineRepository  = (*RoutineService)(nil)
	_ SessionRepository  = (*SessionService)(nil)
)
