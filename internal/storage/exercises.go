// ABOUTME: Exercise CRUD and query operations for SQLite storage.
// ABOUTME: Lookups return nil for missing rows instead of an error.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/fitness/internal/models"
)

const exerciseColumns = `id, name, category, description, created_at`

// ExerciseService reads and writes the exercises table.
type ExerciseService struct {
	db *DB
}

// NewExerciseService binds an ExerciseService to db.
func NewExerciseService(db *DB) *ExerciseService {
	return &ExerciseService{db: db}
}

// Create stores a new exercise, stamping CreatedAt, and returns the stored value.
func (s *ExerciseService) Create(ctx context.Context, e *models.Exercise) (*models.Exercise, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	stored := *e
	stored.CreatedAt = s.db.timestamp()

	_, err := s.db.db.ExecContext(ctx, `
		INSERT INTO exercises (id, name, category, description, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		stored.ID, stored.Name, deref(stored.Category), deref(stored.Description), formatTime(stored.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("create exercise: %w", err)
	}
	return &stored, nil
}

// GetByID returns the exercise or nil when it does not exist.
func (s *ExerciseService) GetByID(ctx context.Context, id string) (*models.Exercise, error) {
	row := s.db.db.QueryRowContext(ctx,
		`SELECT `+exerciseColumns+` FROM exercises WHERE id = ?`, id)
	e, err := scanExercise(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get exercise: %w", err)
	}
	return e, nil
}

// GetAll returns every exercise, newest first.
func (s *ExerciseService) GetAll(ctx context.Context) ([]*models.Exercise, error) {
	return s.list(ctx, "get exercises", "")
}

// SearchByName returns exercises whose name contains query, newest first.
// Matching follows SQLite LIKE (ASCII case-insensitive); an empty query matches all.
func (s *ExerciseService) SearchByName(ctx context.Context, query string) ([]*models.Exercise, error) {
	return s.list(ctx, "search exercises", `WHERE name LIKE ? ESCAPE '\'`, likeContains(query))
}

// GetByCategory returns exercises with exactly this category, newest first.
func (s *ExerciseService) GetByCategory(ctx context.Context, category string) ([]*models.Exercise, error) {
	return s.list(ctx, "get exercises by category", `WHERE category = ?`, category)
}

// Update changes only the provided fields. An empty update issues no statement.
func (s *ExerciseService) Update(ctx context.Context, id string, u models.ExerciseUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	if u.Name != nil && *u.Name == "" {
		return models.NewValidationError("name", "exercise name must not be empty")
	}

	b := newUpdate("exercises")
	if u.Name != nil {
		b.set("name", *u.Name)
	}
	if u.Category != nil {
		b.set("category", *u.Category)
	}
	if u.Description != nil {
		b.set("description", *u.Description)
	}

	query, args := b.build("id = ?", id)
	if _, err := s.db.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update exercise: %w", err)
	}
	return nil
}

// Delete removes the exercise; links in routines and sessions cascade.
// Deleting a missing id is not an error.
func (s *ExerciseService) Delete(ctx context.Context, id string) error {
	if _, err := s.db.db.ExecContext(ctx, "DELETE FROM exercises WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	return nil
}

func (s *ExerciseService) list(ctx context.Context, op, where string, args ...any) ([]*models.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises ` + where + `
		ORDER BY created_at DESC, rowid DESC`
	rows, err := s.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	exercises := []*models.Exercise{}
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(row rowScanner) (*models.Exercise, error) {
	var e models.Exercise
	var category, description sql.NullString
	var createdAt string

	if err := row.Scan(&e.ID, &e.Name, &category, &description, &createdAt); err != nil {
		return nil, err
	}

	t, err := models.ParseTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	e.CreatedAt = t
	e.Category = stringPtr(category)
	e.Description = stringPtr(description)
	return &e, nil
}
