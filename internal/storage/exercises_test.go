// ABOUTME: Tests for exercise CRUD and queries.
// ABOUTME: Covers round trips, partial updates, search, and validation.
package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harperreed/fitness/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetExercise(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	created, err := s.exercises.Create(ctx, models.NewExercise("e1", "Push-up"))
	require.NoError(t, err)

	got, err := s.exercises.GetByID(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "e1", got.ID)
	assert.Equal(t, "Push-up", got.Name)
	assert.Nil(t, got.Category)
	assert.Nil(t, got.Description)
	assert.Equal(t, testEpoch.Add(time.Second), got.CreatedAt)
	assert.Equal(t, created, got)
}

func TestExerciseRoundTripWithOptionalFields(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	e := models.NewExercise("bench", "Bench Press").
		WithCategory("chest").
		WithDescription("Flat barbell bench, it's a classic")
	created, err := s.exercises.Create(ctx, e)
	require.NoError(t, err)

	got, err := s.exercises.GetByID(ctx, "bench")
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestGetExerciseNotFound(t *testing.T) {
	s := setupTestDB(t)

	got, err := s.exercises.GetByID(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateExerciseValidation(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		exercise *models.Exercise
		field    string
	}{
		{"missing id", models.NewExercise("", "Squat"), "id"},
		{"blank id", models.NewExercise("   ", "Squat"), "id"},
		{"missing name", models.NewExercise("sq", ""), "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.exercises.Create(ctx, tt.exercise)
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrValidation))

			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	all, err := s.exercises.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGetAllExercisesNewestFirst(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	s.seedExercises(t, "a", "b", "c")

	all, err := s.exercises.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
	assert.Equal(t, "a", all[2].ID)
}

func TestUpdateExercise(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	_, err := s.exercises.Create(ctx, models.NewExercise("e1", "Pushup").WithCategory("chest"))
	require.NoError(t, err)

	name := "Push-up"
	require.NoError(t, s.exercises.Update(ctx, "e1", models.ExerciseUpdate{Name: &name}))

	got, err := s.exercises.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Push-up", got.Name)
	require.NotNil(t, got.Category)
	assert.Equal(t, "chest", *got.Category, "untouched fields keep their value")
}

func TestUpdateExerciseEmptyIsNoop(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	s.seedExercises(t, "e1")
	before, err := s.exercises.GetByID(ctx, "e1")
	require.NoError(t, err)

	changes := totalChanges(t, s.db.SQL())
	require.NoError(t, s.exercises.Update(ctx, "e1", models.ExerciseUpdate{}))
	assert.Equal(t, changes, totalChanges(t, s.db.SQL()))

	after, err := s.exercises.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateExerciseQuotesAreSafe(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	s.seedExercises(t, "e1")

	desc := "Farmer's walk'; DROP TABLE exercises; --"
	require.NoError(t, s.exercises.Update(ctx, "e1", models.ExerciseUpdate{Description: &desc}))

	got, err := s.exercises.GetByID(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)
}

func TestDeleteExercise(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	s.seedExercises(t, "e1")

	require.NoError(t, s.exercises.Delete(ctx, "e1"))
	got, err := s.exercises.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Missing ids are fine.
	assert.NoError(t, s.exercises.Delete(ctx, "e1"))
}

func TestDeleteExerciseCascadesToLinks(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	s.seedExercises(t, "e1", "e2")

	r, err := s.routines.Create(ctx, models.NewRoutine("Full body", "e1", "e2"))
	require.NoError(t, err)
	require.NoError(t, s.exercises.Delete(ctx, "e1"))

	got, err := s.routines.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"e2"}, got.ExerciseIDs)
}

func TestSearchExercisesByName(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	for _, e := range []*models.Exercise{
		models.NewExercise("1", "Back Squat"),
		models.NewExercise("2", "Front Squat"),
		models.NewExercise("3", "Deadlift"),
		models.NewExercise("4", "100% Effort Sprint"),
	} {
		_, err := s.exercises.Create(ctx, e)
		require.NoError(t, err)
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"Squat", []string{"2", "1"}},
		{"dead", []string{"3"}},
		{"", []string{"4", "3", "2", "1"}},
		{"%", []string{"4"}},
		{"_", nil},
		{"Bench", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := s.exercises.SearchByName(ctx, tt.query)
			require.NoError(t, err)
			var ids []string
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestGetExercisesByCategory(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	for _, e := range []*models.Exercise{
		models.NewExercise("1", "Squat").WithCategory("legs"),
		models.NewExercise("2", "Lunge").WithCategory("legs"),
		models.NewExercise("3", "Row").WithCategory("back"),
		models.NewExercise("4", "Plank"),
	} {
		_, err := s.exercises.Create(ctx, e)
		require.NoError(t, err)
	}

	legs, err := s.exercises.GetByCategory(ctx, "legs")
	require.NoError(t, err)
	require.Len(t, legs, 2)
	assert.Equal(t, "2", legs[0].ID)

	none, err := s.exercises.GetByCategory(ctx, "Legs")
	require.NoError(t, err)
	assert.Empty(t, none)
}
