// ABOUTME: Routine and RoutineExercise models for workout templates.
// ABOUTME: A routine owns an ordered list of exercise links.
package models

import (
	"strings"
	"time"
)

// Default link configuration applied when a routine is built from bare exercise ids.
const (
	DefaultRoutineSets = 3
	DefaultRoutineReps = 10
)

// Routine is a named, ordered template of exercises.
type Routine struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description *string   `json:"description,omitempty" yaml:"description,omitempty"`
	ExerciseIDs []string  `json:"exercise_ids" yaml:"exercise_ids"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// NewRoutine creates a Routine over the given exercise ids, in order.
func NewRoutine(name string, exerciseIDs ...string) *Routine {
	ids := make([]string, len(exerciseIDs))
	copy(ids, exerciseIDs)
	return &Routine{Name: name, ExerciseIDs: ids}
}

// WithDescription sets the description.
func (r *Routine) WithDescription(description string) *Routine {
	r.Description = &description
	return r
}

// Validate checks the fields required before insert.
func (r *Routine) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return NewValidationError("name", "routine name is required")
	}
	return ValidateExerciseIDs(r.ExerciseIDs)
}

// ValidateExerciseIDs rejects blank or repeated ids; a routine links each exercise once.
func ValidateExerciseIDs(ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return NewValidationError("exercise_ids", "exercise id must not be empty")
		}
		if seen[id] {
			return NewValidationError("exercise_ids", "duplicate exercise id "+id)
		}
		seen[id] = true
	}
	return nil
}

// RoutineExercise links an exercise into a routine at a position.
type RoutineExercise struct {
	RoutineID  string    `json:"routine_id" yaml:"routine_id"`
	ExerciseID string    `json:"exercise_id" yaml:"exercise_id"`
	Sets       int       `json:"sets" yaml:"sets"`
	Reps       int       `json:"reps" yaml:"reps"`
	Weight     *float64  `json:"weight,omitempty" yaml:"weight,omitempty"`
	Duration   *int      `json:"duration,omitempty" yaml:"duration,omitempty"`
	Notes      *string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	OrderIndex int       `json:"order_index" yaml:"order_index"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// RoutineUpdate holds the fields to change on a routine. Links are not touched.
type RoutineUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// IsEmpty reports whether no field was provided.
func (u RoutineUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil
}
