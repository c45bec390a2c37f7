// ABOUTME: Tests for Session and SessionExercise models.
// ABOUTME: Validates builders, day bounds, set keys, and set validation.
package models

import (
	"errors"
	"testing"
	"time"
)

func TestNewSession(t *testing.T) {
	start := time.Date(2024, 2, 13, 8, 0, 0, 0, time.UTC)
	s := NewSession("Morning", start).WithRoutine("r1").WithNotes("easy")

	if s.Name != "Morning" {
		t.Errorf("Name = %s, want Morning", s.Name)
	}
	if !s.StartTime.Equal(start) {
		t.Errorf("StartTime = %v, want %v", s.StartTime, start)
	}
	if s.RoutineID == nil || *s.RoutineID != "r1" {
		t.Error("expected RoutineID to be r1")
	}
	if s.Notes == nil || *s.Notes != "easy" {
		t.Error("expected Notes to be set")
	}
	if !s.IsActive() {
		t.Error("expected a new session to be active")
	}
	if s.Exercises == nil {
		t.Error("expected empty, non-nil Exercises")
	}
}

func TestSessionValidate(t *testing.T) {
	if err := NewSession("Run", time.Now()).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := NewSession("", time.Now()).Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for missing name, got %v", err)
	}
	if err := NewSession("Run", time.Time{}).Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for zero start, got %v", err)
	}
}

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	t0 := time.Date(2024, 3, 10, 23, 30, 0, 0, loc)

	start, end := DayBounds(t0)
	if want := time.Date(2024, 3, 10, 0, 0, 0, 0, loc); !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
	if want := time.Date(2024, 3, 11, 0, 0, 0, 0, loc); !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}
}

func TestSessionIsOn(t *testing.T) {
	s := NewSession("Late", time.Date(2024, 2, 14, 2, 0, 0, 0, time.UTC))
	newYork := time.FixedZone("UTC-5", -5*60*60)

	if !s.IsOn(time.Date(2024, 2, 14, 12, 0, 0, 0, time.UTC)) {
		t.Error("expected session to be on Feb 14 in UTC")
	}
	if !s.IsOn(time.Date(2024, 2, 13, 12, 0, 0, 0, newYork)) {
		t.Error("expected session to be on Feb 13 at UTC-5")
	}
}

func TestSetBuilders(t *testing.T) {
	set := NewSet("e1", 2).WithReps(10).WithWeight(62.5).WithDuration(30).WithCompleted(false)

	if set.ExerciseID != "e1" || set.SetNumber != 2 {
		t.Errorf("got %s set %d, want e1 set 2", set.ExerciseID, set.SetNumber)
	}
	if set.Reps == nil || *set.Reps != 10 {
		t.Error("expected Reps to be 10")
	}
	if set.Weight == nil || *set.Weight != 62.5 {
		t.Error("expected Weight to be 62.5")
	}
	if set.Duration == nil || *set.Duration != 30 {
		t.Error("expected Duration to be 30")
	}
	if set.Completed == nil || *set.Completed {
		t.Error("expected Completed to be false, not unknown")
	}

	base := NewSet("e1", 1)
	_ = base.WithReps(5)
	if base.Reps != nil {
		t.Error("builders must not mutate the receiver")
	}
}

func TestSetKey(t *testing.T) {
	set := NewSet("bench-press", 3)
	set.SessionID = "s-1"

	key := set.Key()
	if key != (SetKey{SessionID: "s-1", ExerciseID: "bench-press", SetNumber: 3}) {
		t.Errorf("Key = %+v", key)
	}
	if key.String() != "s-1-bench-press-3" {
		t.Errorf("String = %s", key.String())
	}

	other := SetKey{SessionID: "s", ExerciseID: "1-bench-press", SetNumber: 3}
	if key == other {
		t.Error("keys with the same rendering must still differ")
	}
}

func TestValidateSets(t *testing.T) {
	tests := []struct {
		name  string
		sets  []SessionExercise
		field string
	}{
		{"empty", nil, ""},
		{"valid", []SessionExercise{NewSet("e1", 1), NewSet("e1", 2), NewSet("e2", 1)}, ""},
		{"missing exercise", []SessionExercise{NewSet("", 1)}, "exercise_id"},
		{"set zero", []SessionExercise{NewSet("e1", 0)}, "set_number"},
		{"negative weight", []SessionExercise{NewSet("e1", 1).WithWeight(-1)}, "weight"},
		{"negative duration", []SessionExercise{NewSet("e1", 1).WithDuration(-1)}, "duration"},
		{"duplicate", []SessionExercise{NewSet("e1", 1), NewSet("e1", 1)}, "set_number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSets(tt.sets)
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
		})
	}
}

func TestSessionUpdateIsEmpty(t *testing.T) {
	if !(SessionUpdate{}).IsEmpty() {
		t.Error("zero update should be empty")
	}
	end := time.Now()
	if (SessionUpdate{EndTime: &end}).IsEmpty() {
		t.Error("update with an end time should not be empty")
	}
	if !(SessionExerciseUpdate{}).IsEmpty() {
		t.Error("zero set update should be empty")
	}
	done := true
	if (SessionExerciseUpdate{Completed: &done}).IsEmpty() {
		t.Error("set update with completion should not be empty")
	}
}

func TestNextSetNumber(t *testing.T) {
	s := NewSession("Push", time.Now())
	if got := s.NextSetNumber("bench"); got != 1 {
		t.Errorf("NextSetNumber on empty session = %d, want 1", got)
	}

	s.Exercises = []SessionExercise{NewSet("bench", 1), NewSet("bench", 3), NewSet("dip", 5)}
	if got := s.NextSetNumber("bench"); got != 4 {
		t.Errorf("NextSetNumber(bench) = %d, want 4", got)
	}
	if got := s.NextSetNumber("row"); got != 1 {
		t.Errorf("NextSetNumber(row) = %d, want 1", got)
	}
}
