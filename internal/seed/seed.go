// ABOUTME: Development seeding of a sample exercise catalog and routine.
// ABOUTME: Writes only through the repository interfaces and skips existing ids.
package seed

import (
	"context"
	"fmt"

	"github.com/harperreed/fitness/internal/models"
	"github.com/harperreed/fitness/internal/storage"
)

// SampleRoutineID identifies the routine created by Seed.
const SampleRoutineID = "sample-full-body"

type catalogEntry struct {
	id, name, category, description string
}

var catalog = []catalogEntry{
	{"push-up", "Push-up", "chest", "Bodyweight press from a plank position"},
	{"bench-press", "Bench Press", "chest", "Barbell press lying on a flat bench"},
	{"squat", "Back Squat", "legs", "Barbell squat with the bar on the upper back"},
	{"lunge", "Walking Lunge", "legs", ""},
	{"deadlift", "Deadlift", "back", "Barbell pulled from the floor to standing"},
	{"pull-up", "Pull-up", "back", ""},
	{"overhead-press", "Overhead Press", "shoulders", "Standing barbell press"},
	{"plank", "Plank", "core", "Timed hold"},
	{"run", "Run", "cardio", "Timed or distance run"},
}

var sampleRoutine = []string{"squat", "bench-press", "pull-up", "plank"}

// Summary counts what Seed inserted.
type Summary struct {
	Exercises int
	Routines  int
}

// Seed inserts the catalog and one sample routine. Running it again is a no-op.
func Seed(ctx context.Context, exercises storage.ExerciseRepository, routines storage.RoutineRepository) (*Summary, error) {
	summary := &Summary{}

	for _, c := range catalog {
		existing, err := exercises.GetByID(ctx, c.id)
		if err != nil {
			return nil, fmt.Errorf("seed exercise %s: %w", c.id, err)
		}
		if existing != nil {
			continue
		}

		e := models.NewExercise(c.id, c.name).WithCategory(c.category)
		if c.description != "" {
			e.WithDescription(c.description)
		}
		if _, err := exercises.Create(ctx, e); err != nil {
			return nil, fmt.Errorf("seed exercise %s: %w", c.id, err)
		}
		summary.Exercises++
	}

	existing, err := routines.GetByID(ctx, SampleRoutineID)
	if err != nil {
		return nil, fmt.Errorf("seed routine: %w", err)
	}
	if existing == nil {
		r := models.NewRoutine("Full Body", sampleRoutine...).WithDescription("Sample routine")
		r.ID = SampleRoutineID
		if _, err := routines.Create(ctx, r); err != nil {
			return nil, fmt.Errorf("seed routine: %w", err)
		}
		summary.Routines++
	}

	return summary, nil
}
