// ABOUTME: Session and SessionExercise models for concrete workouts.
// ABOUTME: A session owns its logged sets, keyed by exercise and set number.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Session is a concrete workout instance, optionally derived from a routine.
// A session without EndTime is still in progress.
type Session struct {
	ID        string            `json:"id" yaml:"id"`
	RoutineID *string           `json:"routine_id,omitempty" yaml:"routine_id,omitempty"`
	Name      string            `json:"name" yaml:"name"`
	Notes     *string           `json:"notes,omitempty" yaml:"notes,omitempty"`
	StartTime time.Time         `json:"start_time" yaml:"start_time"`
	EndTime   *time.Time        `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	CreatedAt time.Time         `json:"created_at" yaml:"created_at"`
	Exercises []SessionExercise `json:"exercises" yaml:"exercises"`
}

// NewSession creates a Session starting at startTime.
func NewSession(name string, startTime time.Time) *Session {
	return &Session{Name: name, StartTime: startTime, Exercises: []SessionExercise{}}
}

// WithRoutine records the routine this session was built from.
func (s *Session) WithRoutine(routineID string) *Session {
	s.RoutineID = &routineID
	return s
}

// WithNotes sets notes on the session.
func (s *Session) WithNotes(notes string) *Session {
	s.Notes = &notes
	return s
}

// IsActive reports whether the session has not been finished.
func (s *Session) IsActive() bool {
	return s.EndTime == nil
}

// IsOn reports whether the session started on the same calendar day as day,
// in day's location.
func (s *Session) IsOn(day time.Time) bool {
	start, end := DayBounds(day)
	t := s.StartTime.In(day.Location())
	return !t.Before(start) && t.Before(end)
}

// NextSetNumber returns one past the highest set logged for exerciseID.
func (s *Session) NextSetNumber(exerciseID string) int {
	highest := 0
	for _, e := range s.Exercises {
		if e.ExerciseID == exerciseID && e.SetNumber > highest {
			highest = e.SetNumber
		}
	}
	return highest + 1
}

// Validate checks the fields required before insert.
func (s *Session) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return NewValidationError("name", "session name is required")
	}
	if s.StartTime.IsZero() {
		return NewValidationError("start_time", "session start time is required")
	}
	return nil
}

// DayBounds returns midnight of t's day and midnight of the next day, in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// SetKey identifies one logged set. It replaces string ids built by joining
// the parts, which break when an id contains the delimiter.
type SetKey struct {
	SessionID  string `json:"session_id"`
	ExerciseID string `json:"exercise_id"`
	SetNumber  int    `json:"set_number"`
}

// String renders the key for display.
func (k SetKey) String() string {
	return fmt.Sprintf("%s-%s-%d", k.SessionID, k.ExerciseID, k.SetNumber)
}

// SessionExercise is one set of one exercise within a session.
// Completed is tri-state: nil means unknown.
type SessionExercise struct {
	SessionID  string     `json:"session_id" yaml:"session_id"`
	ExerciseID string     `json:"exercise_id" yaml:"exercise_id"`
	SetNumber  int        `json:"set_number" yaml:"set_number"`
	Reps       *int       `json:"reps,omitempty" yaml:"reps,omitempty"`
	Weight     *float64   `json:"weight,omitempty" yaml:"weight,omitempty"`
	Duration   *int       `json:"duration,omitempty" yaml:"duration,omitempty"`
	Notes      *string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Completed  *bool      `json:"completed,omitempty" yaml:"completed,omitempty"`
	CreatedAt  time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// NewSet creates a SessionExercise entry for exerciseID at setNumber.
func NewSet(exerciseID string, setNumber int) SessionExercise {
	return SessionExercise{ExerciseID: exerciseID, SetNumber: setNumber}
}

// WithReps sets the rep count.
func (e SessionExercise) WithReps(reps int) SessionExercise {
	e.Reps = &reps
	return e
}

// WithWeight sets the load.
func (e SessionExercise) WithWeight(weight float64) SessionExercise {
	e.Weight = &weight
	return e
}

// WithDuration sets the duration in seconds.
func (e SessionExercise) WithDuration(seconds int) SessionExercise {
	e.Duration = &seconds
	return e
}

// WithCompleted sets the completion flag.
func (e SessionExercise) WithCompleted(done bool) SessionExercise {
	e.Completed = &done
	return e
}

// Key returns the composite key of the set.
func (e SessionExercise) Key() SetKey {
	return SetKey{SessionID: e.SessionID, ExerciseID: e.ExerciseID, SetNumber: e.SetNumber}
}

// Validate checks a set entry before insert.
func (e SessionExercise) Validate() error {
	if strings.TrimSpace(e.ExerciseID) == "" {
		return NewValidationError("exercise_id", "exercise id is required")
	}
	if e.SetNumber < 1 {
		return NewValidationError("set_number", "set number must be at least 1")
	}
	if e.Reps != nil && *e.Reps < 0 {
		return NewValidationError("reps", "reps must not be negative")
	}
	if e.Weight != nil && *e.Weight < 0 {
		return NewValidationError("weight", "weight must not be negative")
	}
	if e.Duration != nil && *e.Duration < 0 {
		return NewValidationError("duration", "duration must not be negative")
	}
	return nil
}

// ValidateSets validates each entry and rejects repeated (exercise, set number) pairs.
func ValidateSets(sets []SessionExercise) error {
	seen := make(map[SetKey]bool, len(sets))
	for _, e := range sets {
		if err := e.Validate(); err != nil {
			return err
		}
		k := SetKey{ExerciseID: e.ExerciseID, SetNumber: e.SetNumber}
		if seen[k] {
			return NewValidationError("set_number",
				fmt.Sprintf("set %d of %s listed twice", e.SetNumber, e.ExerciseID))
		}
		seen[k] = true
	}
	return nil
}

// SessionUpdate holds the fields to change on a session. Nil means untouched.
// Empty strings for Notes and RoutineID clear the column.
type SessionUpdate struct {
	Name      *string    `json:"name,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	RoutineID *string    `json:"routine_id,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// IsEmpty reports whether no field was provided.
func (u SessionUpdate) IsEmpty() bool {
	return u.Name == nil && u.Notes == nil && u.RoutineID == nil && u.StartTime == nil && u.EndTime == nil
}

// SessionExerciseUpdate holds the fields to change on one set.
type SessionExerciseUpdate struct {
	Reps      *int     `json:"reps,omitempty"`
	Weight    *float64 `json:"weight,omitempty"`
	Duration  *int     `json:"duration,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
	Completed *bool    `json:"completed,omitempty"`
}

// IsEmpty reports whether no field was provided.
func (u SessionExerciseUpdate) IsEmpty() bool {
	return u.Reps == nil && u.Weight == nil && u.Duration == nil && u.Notes == nil && u.Completed == nil
}
