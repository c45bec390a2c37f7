// ABOUTME: Exercise model for the activity catalog.
// ABOUTME: Exercises are referenced by routines and session sets.
package models

import (
	"strings"
	"time"
)

// Exercise is a named activity definition (push-up, squat, run).
type Exercise struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Category    *string   `json:"category,omitempty" yaml:"category,omitempty"`
	Description *string   `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// NewExercise creates an Exercise with the given id and name.
// CreatedAt is stamped by the storage layer on insert.
func NewExercise(id, name string) *Exercise {
	return &Exercise{ID: id, Name: name}
}

// WithCategory sets the grouping label.
func (e *Exercise) WithCategory(category string) *Exercise {
	e.Category = &category
	return e
}

// WithDescription sets the description.
func (e *Exercise) WithDescription(description string) *Exercise {
	e.Description = &description
	return e
}

// Validate checks the fields required before insert.
func (e *Exercise) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return NewValidationError("id", "exercise id is required")
	}
	if strings.TrimSpace(e.Name) == "" {
		return NewValidationError("name", "exercise name is required")
	}
	return nil
}

// ExerciseUpdate holds the fields to change on an exercise. Nil means untouched.
type ExerciseUpdate struct {
	Name        *string `json:"name,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
}

// IsEmpty reports whether no field was provided.
func (u ExerciseUpdate) IsEmpty() bool {
	return u.Name == nil && u.Category == nil && u.Description == nil
}
