// ABOUTME: Routine CRUD operations for SQLite storage.
// ABOUTME: Multi-row writes on routine_exercises run inside one transaction.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fitness/internal/models"
)

// RoutineService reads and writes routines and their exercise links.
type RoutineService struct {
	db *DB
}

// NewRoutineService binds a RoutineService to db.
func NewRoutineService(db *DB) *RoutineService {
	return &RoutineService{db: db}
}

// Create inserts the routine and one link per exercise id, in order.
// Links get the default 3 sets of 10 reps. Nothing is stored if any insert fails.
func (s *RoutineService) Create(ctx context.Context, r *models.Routine) (*models.Routine, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	stored := *r
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	stored.CreatedAt = s.db.timestamp()
	stored.ExerciseIDs = append([]string{}, r.ExerciseIDs...)

	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO routines (id, name, description, created_at)
			VALUES (?, ?, ?, ?)`,
			stored.ID, stored.Name, deref(stored.Description), formatTime(stored.CreatedAt))
		if err != nil {
			return fmt.Errorf("create routine: %w", err)
		}
		return insertRoutineLinks(ctx, tx, stored.ID, stored.ExerciseIDs, stored.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetByID returns the routine with its ordered exercise ids, or nil.
func (s *RoutineService) GetByID(ctx context.Context, id string) (*models.Routine, error) {
	routines, err := s.query(ctx, "get routine", "WHERE r.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(routines) == 0 {
		return nil, nil
	}
	return routines[0], nil
}

// GetAll returns every routine, newest first.
func (s *RoutineService) GetAll(ctx context.Context) ([]*models.Routine, error) {
	return s.query(ctx, "get routines", "")
}

// SearchByName returns routines whose name contains query, newest first.
func (s *RoutineService) SearchByName(ctx context.Context, query string) ([]*models.Routine, error) {
	return s.query(ctx, "search routines", `WHERE r.name LIKE ? ESCAPE '\'`, likeContains(query))
}

// Links returns the routine's exercise links ordered by position.
func (s *RoutineService) Links(ctx context.Context, routineID string) ([]models.RoutineExercise, error) {
	rows, err := s.db.db.QueryContext(ctx, `
		SELECT routine_id, exercise_id, sets, reps, weight, duration, notes, order_index, created_at
		FROM routine_exercises
		WHERE routine_id = ?
		ORDER BY order_index ASC`, routineID)
	if err != nil {
		return nil, fmt.Errorf("list routine links: %w", err)
	}
	defer rows.Close()

	links := []models.RoutineExercise{}
	for rows.Next() {
		var l models.RoutineExercise
		var weight sql.NullFloat64
		var duration sql.NullInt64
		var notes sql.NullString
		var createdAt string
		if err := rows.Scan(&l.RoutineID, &l.ExerciseID, &l.Sets, &l.Reps, &weight, &duration,
			&notes, &l.OrderIndex, &createdAt); err != nil {
			return nil, fmt.Errorf("scan routine link: %w", err)
		}
		if l.CreatedAt, err = models.ParseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
		}
		l.Weight = floatPtr(weight)
		l.Duration = intPtr(duration)
		l.Notes = stringPtr(notes)
		links = append(links, l)
	}
	return links, rows.Err()
}

// Update changes only the provided fields; links are left alone.
func (s *RoutineService) Update(ctx context.Context, id string, u models.RoutineUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	if u.Name != nil && *u.Name == "" {
		return models.NewValidationError("name", "routine name must not be empty")
	}

	b := newUpdate("routines")
	if u.Name != nil {
		b.set("name", *u.Name)
	}
	if u.Description != nil {
		b.set("description", *u.Description)
	}

	query, args := b.build("id = ?", id)
	if _, err := s.db.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update routine: %w", err)
	}
	return nil
}

// UpdateExercises replaces every link of the routine with exerciseIDs, in order.
func (s *RoutineService) UpdateExercises(ctx context.Context, routineID string, exerciseIDs []string) error {
	if err := models.ValidateExerciseIDs(exerciseIDs); err != nil {
		return err
	}

	now := s.db.timestamp()
	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM routine_exercises WHERE routine_id = ?", routineID); err != nil {
			return fmt.Errorf("clear routine links: %w", err)
		}
		return insertRoutineLinks(ctx, tx, routineID, exerciseIDs, now)
	})
}

// Delete removes the links and then the routine in one transaction.
func (s *RoutineService) Delete(ctx context.Context, id string) error {
	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM routine_exercises WHERE routine_id = ?", id); err != nil {
			return fmt.Errorf("delete routine links: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM routines WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete routine: %w", err)
		}
		return nil
	})
}

// insertRoutineLinks writes one link per id with order_index = position.
func insertRoutineLinks(ctx context.Context, tx *sql.Tx, routineID string, exerciseIDs []string, createdAt time.Time) error {
	for i, exerciseID := range exerciseIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO routine_exercises (routine_id, exercise_id, sets, reps, order_index, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			routineID, exerciseID, models.DefaultRoutineSets, models.DefaultRoutineReps, i, formatTime(createdAt))
		if err != nil {
			return fmt.Errorf("link exercise %s to routine: %w", exerciseID, err)
		}
	}
	return nil
}

// query runs the routine/link left join and folds rows back into routines,
// keeping link order by order_index.
func (s *RoutineService) query(ctx context.Context, op, where string, args ...any) ([]*models.Routine, error) {
	rows, err := s.db.db.QueryContext(ctx, `
		SELECT r.id, r.name, r.description, r.created_at, re.exercise_id
		FROM routines r
		LEFT JOIN routine_exercises re ON re.routine_id = r.id
		`+where+`
		ORDER BY r.created_at DESC, r.rowid DESC, re.order_index ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	routines := []*models.Routine{}
	var current *models.Routine
	for rows.Next() {
		var id, name, createdAt string
		var description, exerciseID sql.NullString
		if err := rows.Scan(&id, &name, &description, &createdAt, &exerciseID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if current == nil || current.ID != id {
			t, err := models.ParseTimestamp(createdAt)
			if err != nil {
				return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
			}
			current = &models.Routine{
				ID:          id,
				Name:        name,
				Description: stringPtr(description),
				ExerciseIDs: []string{},
				CreatedAt:   t,
			}
			routines = append(routines, current)
		}
		if exerciseID.Valid {
			current.ExerciseIDs = append(current.ExerciseIDs, exerciseID.String)
		}
	}
	return routines, rows.Err()
}
