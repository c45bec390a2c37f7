// ABOUTME: Tests for the Exercise model.
// ABOUTME: Validates constructors, builders, and validation errors.
package models

import (
	"errors"
	"testing"
)

func TestNewExercise(t *testing.T) {
	e := NewExercise("squat", "Back Squat")

	if e.ID != "squat" {
		t.Errorf("ID = %s, want squat", e.ID)
	}
	if e.Name != "Back Squat" {
		t.Errorf("Name = %s, want Back Squat", e.Name)
	}
	if e.Category != nil || e.Description != nil {
		t.Error("expected optional fields to be nil")
	}
	if !e.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be left for storage")
	}
}

func TestExerciseBuilders(t *testing.T) {
	e := NewExercise("squat", "Back Squat").WithCategory("legs").WithDescription("High bar")

	if e.Category == nil || *e.Category != "legs" {
		t.Error("expected Category to be legs")
	}
	if e.Description == nil || *e.Description != "High bar" {
		t.Error("expected Description to be set")
	}
}

func TestExerciseValidate(t *testing.T) {
	tests := []struct {
		name  string
		e     *Exercise
		field string
	}{
		{"valid", NewExercise("squat", "Squat"), ""},
		{"empty id", NewExercise("", "Squat"), "id"},
		{"whitespace name", NewExercise("squat", "  "), "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.e.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %s, want %s", verr.Field, tt.field)
			}
			if !errors.Is(err, ErrValidation) {
				t.Error("expected errors.Is(err, ErrValidation)")
			}
		})
	}
}

func TestExerciseUpdateIsEmpty(t *testing.T) {
	if !(ExerciseUpdate{}).IsEmpty() {
		t.Error("zero update should be empty")
	}
	name := "Squat"
	if (ExerciseUpdate{Name: &name}).IsEmpty() {
		t.Error("update with a name should not be empty")
	}
}
