// ABOUTME: Export and import functionality for fitness data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/fitness/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for fitness data.
type ExportData struct {
	Version    string             `json:"version" yaml:"version"`
	ExportedAt time.Time          `json:"exported_at" yaml:"exported_at"`
	Tool       string             `json:"tool" yaml:"tool"`
	Exercises  []*models.Exercise `json:"exercises" yaml:"exercises"`
	Routines   []*ExportRoutine   `json:"routines" yaml:"routines"`
	Sessions   []*models.Session  `json:"sessions" yaml:"sessions"`
}

// ExportRoutine is a routine with its full link configuration. Links are
// informational: Import rebuilds them from ExerciseIDs with the default sets
// and reps, the same as any newly created routine.
type ExportRoutine struct {
	models.Routine `yaml:",inline"`
	Links          []models.RoutineExercise `json:"links" yaml:"links"`
}

// ImportSummary holds counts of imported entities.
type ImportSummary struct {
	Exercises int
	Routines  int
	Sessions  int
	Skipped   int
}

// Exporter reads and writes whole-database snapshots through the services.
type Exporter struct {
	exercises ExerciseRepository
	routines  RoutineRepository
	sessions  SessionRepository
}

// NewExporter creates an Exporter over the three repositories.
func NewExporter(exercises ExerciseRepository, routines RoutineRepository, sessions SessionRepository) *Exporter {
	return &Exporter{exercises: exercises, routines: routines, sessions: sessions}
}

// Data retrieves all data for export.
func (x *Exporter) Data(ctx context.Context) (*ExportData, error) {
	exercises, err := x.exercises.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	routines, err := x.routines.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}
	exported := make([]*ExportRoutine, 0, len(routines))
	for _, r := range routines {
		links, err := x.routines.Links(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("list routine links: %w", err)
		}
		exported = append(exported, &ExportRoutine{Routine: *r, Links: links})
	}

	sessions, err := x.sessions.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "fitness",
		Exercises:  exercises,
		Routines:   exported,
		Sessions:   sessions,
	}, nil
}

// Import writes data through the services. Entities whose id already exists
// are skipped. Creation timestamps are re-stamped on insert. Routine links come
// from ExerciseIDs; the exported Links are not read.
func (x *Exporter) Import(ctx context.Context, data *ExportData) (*ImportSummary, error) {
	summary := &ImportSummary{}

	// Oldest first so created_at ordering matches the source.
	for i := len(data.Exercises) - 1; i >= 0; i-- {
		e := data.Exercises[i]
		existing, err := x.exercises.GetByID(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("import exercise %s: %w", e.ID, err)
		}
		if existing != nil {
			summary.Skipped++
			continue
		}
		if _, err := x.exercises.Create(ctx, e); err != nil {
			return nil, fmt.Errorf("import exercise %s: %w", e.ID, err)
		}
		summary.Exercises++
	}

	for i := len(data.Routines) - 1; i >= 0; i-- {
		r := data.Routines[i]
		existing, err := x.routines.GetByID(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("import routine %s: %w", r.ID, err)
		}
		if existing != nil {
			summary.Skipped++
			continue
		}
		if _, err := x.routines.Create(ctx, &r.Routine); err != nil {
			return nil, fmt.Errorf("import routine %s: %w", r.ID, err)
		}
		summary.Routines++
	}

	for i := len(data.Sessions) - 1; i >= 0; i-- {
		s := data.Sessions[i]
		existing, err := x.sessions.GetByID(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("import session %s: %w", s.ID, err)
		}
		if existing != nil {
			summary.Skipped++
			continue
		}
		if _, err := x.sessions.Create(ctx, s, s.Exercises); err != nil {
			return nil, fmt.Errorf("import session %s: %w", s.ID, err)
		}
		summary.Sessions++
	}

	return summary, nil
}

// JSON exports all data as JSON.
func (x *Exporter) JSON(ctx context.Context) ([]byte, error) {
	data, err := x.Data(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// YAML exports all data as YAML.
func (x *Exporter) YAML(ctx context.Context) ([]byte, error) {
	data, err := x.Data(ctx)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ImportJSON imports data from JSON bytes.
func (x *Exporter) ImportJSON(ctx context.Context, raw []byte) (*ImportSummary, error) {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return x.Import(ctx, &data)
}

// ImportYAML imports data from YAML bytes.
func (x *Exporter) ImportYAML(ctx context.Context, raw []byte) (*ImportSummary, error) {
	var data ExportData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal YAML: %w", err)
	}
	return x.Import(ctx, &data)
}

// Markdown renders session history, newest first, with one table per session.
// A non-nil since drops sessions that started earlier.
func (x *Exporter) Markdown(ctx context.Context, since *time.Time) (string, error) {
	sessions, err := x.sessions.GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("list sessions: %w", err)
	}
	exercises, err := x.exercises.GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("list exercises: %w", err)
	}
	names := make(map[string]string, len(exercises))
	for _, e := range exercises {
		names[e.ID] = e.Name
	}

	var sb strings.Builder
	now := time.Now()
	sb.WriteString(fmt.Sprintf("# Workout History - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	for _, s := range sessions {
		if since != nil && s.StartTime.Before(*since) {
			continue
		}

		status := "in progress"
		if s.EndTime != nil {
			status = fmt.Sprintf("%d min", int(s.EndTime.Sub(s.StartTime).Minutes()))
		}
		sb.WriteString(fmt.Sprintf("## %s - %s (%s)\n\n", s.StartTime.Local().Format("2006-01-02 15:04"), s.Name, status))
		if s.Notes != nil {
			sb.WriteString(*s.Notes + "\n\n")
		}
		if len(s.Exercises) == 0 {
			sb.WriteString("_No sets logged._\n\n")
			continue
		}

		sb.WriteString("| Exercise | Set | Reps | Weight | Done |\n")
		sb.WriteString("|----------|-----|------|--------|------|\n")
		for _, e := range s.Exercises {
			name := names[e.ExerciseID]
			if name == "" {
				name = e.ExerciseID
			}
			sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s |\n",
				name, e.SetNumber, optInt(e.Reps), optFloat(e.Weight), optBool(e.Completed)))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.1f", *v)
}

func optBool(v *bool) string {
	switch {
	case v == nil:
		return ""
	case *v:
		return "yes"
	default:
		return "no"
	}
}
