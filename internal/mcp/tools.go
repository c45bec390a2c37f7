// ABOUTME: MCP tool implementations for exercises, routines, and sessions.
// ABOUTME: Session tools default to today's active session when no id is given.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/fitness/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// errNoActiveSession is returned by session tools that fall back to today's session.
var errNoActiveSession = errors.New("no active session today; start one with start_session")

func (s *Server) registerTools() {
	// add_exercise
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Add an exercise to the catalog (squat, push-up, run, etc.)",
	}, s.handleAddExercise)

	// list_exercises
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_exercises",
		Description: "List exercises, optionally filtered by name substring or category",
	}, s.handleListExercises)

	// create_routine
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_routine",
		Description: "Create a routine from an ordered list of exercise ids",
	}, s.handleCreateRoutine)

	// list_routines
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_routines",
		Description: "List routines, optionally filtered by name substring",
	}, s.handleListRoutines)

	// start_session
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_session",
		Description: "Start a workout session, optionally from a routine",
	}, s.handleStartSession)

	// log_set
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_set",
		Description: "Log one set of an exercise in a session (defaults to today's active session)",
	}, s.handleLogSet)

	// finish_session
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "finish_session",
		Description: "Finish a session (defaults to today's active session)",
	}, s.handleFinishSession)

	// get_active_session
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_active_session",
		Description: "Get today's unfinished session with its sets",
	}, s.handleGetActiveSession)

	// list_sessions
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List sessions, newest first, optionally within a date range",
	}, s.handleListSessions)

	// get_session
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_session",
		Description: "Get a session with all its sets",
	}, s.handleGetSession)

	// delete_session
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a session and its sets",
	}, s.handleDeleteSession)
}

// Tool input/output types

type addExerciseInput struct {
	ID          string `json:"id" jsonschema:"Stable exercise id such as back-squat"`
	Name        string `json:"name" jsonschema:"Display name"`
	Category    string `json:"category,omitempty" jsonschema:"Grouping label such as legs or cardio"`
	Description string `json:"description,omitempty" jsonschema:"Optional description"`
}

type exerciseOutput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type listExercisesInput struct {
	Query    string `json:"query,omitempty" jsonschema:"Name substring to search for"`
	Category string `json:"category,omitempty" jsonschema:"Exact category to filter by"`
}

type createRoutineInput struct {
	Name        string   `json:"name" jsonschema:"Routine name"`
	Description string   `json:"description,omitempty" jsonschema:"Optional description"`
	ExerciseIDs []string `json:"exercise_ids,omitempty" jsonschema:"Exercise ids in the order they are performed"`
}

type routineOutput struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ExerciseIDs []string `json:"exercise_ids"`
	Message     string   `json:"message"`
}

type listRoutinesInput struct {
	Query string `json:"query,omitempty" jsonschema:"Name substring to search for"`
}

type startSessionInput struct {
	Name      string `json:"name,omitempty" jsonschema:"Session name, defaults to the routine name"`
	RoutineID string `json:"routine_id,omitempty" jsonschema:"Routine the session follows"`
	Notes     string `json:"notes,omitempty" jsonschema:"Optional notes"`
	StartTime string `json:"start_time,omitempty" jsonschema:"Start timestamp (ISO 8601), defaults to now"`
}

type sessionOutput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type logSetInput struct {
	SessionID  string   `json:"session_id,omitempty" jsonschema:"Session id, defaults to today's active session"`
	ExerciseID string   `json:"exercise_id" jsonschema:"Exercise id"`
	SetNumber  int      `json:"set_number,omitempty" jsonschema:"Set number starting at 1, defaults to the next one"`
	Reps       *int     `json:"reps,omitempty" jsonschema:"Repetitions"`
	Weight     *float64 `json:"weight,omitempty" jsonschema:"Load"`
	Duration   *int     `json:"duration,omitempty" jsonschema:"Duration in seconds"`
	Notes      string   `json:"notes,omitempty" jsonschema:"Optional notes"`
	Completed  *bool    `json:"completed,omitempty" jsonschema:"Whether the set was completed as planned"`
}

type setOutput struct {
	SessionID  string `json:"session_id"`
	ExerciseID string `json:"exercise_id"`
	SetNumber  int    `json:"set_number"`
	Message    string `json:"message"`
}

type sessionRefInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Session id, defaults to today's active session"`
}

type listSessionsInput struct {
	From  string `json:"from,omitempty" jsonschema:"Earliest start (ISO 8601 or YYYY-MM-DD)"`
	To    string `json:"to,omitempty" jsonschema:"Latest start (ISO 8601 or YYYY-MM-DD)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type sessionIDInput struct {
	ID string `json:"id" jsonschema:"Session id"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input addExerciseInput) (*mcp.CallToolResult, exerciseOutput, error) {
	e := models.NewExercise(input.ID, input.Name)
	if input.Category != "" {
		e.WithCategory(input.Category)
	}
	if input.Description != "" {
		e.WithDescription(input.Description)
	}

	created, err := s.exercises.Create(ctx, e)
	if err != nil {
		return nil, exerciseOutput{}, fmt.Errorf("failed to add exercise: %w", err)
	}

	return nil, exerciseOutput{
		ID:      created.ID,
		Name:    created.Name,
		Message: fmt.Sprintf("Added exercise %s (ID: %s)", created.Name, created.ID),
	}, nil
}

func (s *Server) handleListExercises(ctx context.Context, req *mcp.CallToolRequest, input listExercisesInput) (*mcp.CallToolResult, any, error) {
	var (
		exercises []*models.Exercise
		err       error
	)
	switch {
	case input.Category != "":
		exercises, err = s.exercises.GetByCategory(ctx, input.Category)
	default:
		exercises, err = s.exercises.SearchByName(ctx, input.Query)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list exercises: %w", err)
	}

	if len(exercises) == 0 {
		return nil, map[string]any{"message": "No exercises found."}, nil
	}
	return nil, map[string]any{"exercises": exercises}, nil
}

func (s *Server) handleCreateRoutine(ctx context.Context, req *mcp.CallToolRequest, input createRoutineInput) (*mcp.CallToolResult, routineOutput, error) {
	r := models.NewRoutine(input.Name, input.ExerciseIDs...)
	if input.Description != "" {
		r.WithDescription(input.Description)
	}

	created, err := s.routines.Create(ctx, r)
	if err != nil {
		return nil, routineOutput{}, fmt.Errorf("failed to create routine: %w", err)
	}

	return nil, routineOutput{
		ID:          created.ID,
		Name:        created.Name,
		ExerciseIDs: created.ExerciseIDs,
		Message:     fmt.Sprintf("Created routine %s with %d exercises (ID: %s)", created.Name, len(created.ExerciseIDs), created.ID),
	}, nil
}

func (s *Server) handleListRoutines(ctx context.Context, req *mcp.CallToolRequest, input listRoutinesInput) (*mcp.CallToolResult, any, error) {
	routines, err := s.routines.SearchByName(ctx, input.Query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list routines: %w", err)
	}

	if len(routines) == 0 {
		return nil, map[string]any{"message": "No routines found."}, nil
	}
	return nil, map[string]any{"routines": routines}, nil
}

func (s *Server) handleStartSession(ctx context.Context, req *mcp.CallToolRequest, input startSessionInput) (*mcp.CallToolResult, sessionOutput, error) {
	start := s.now()
	if input.StartTime != "" {
		t, err := parseTime(input.StartTime)
		if err != nil {
			return nil, sessionOutput{}, err
		}
		start = t
	}

	active, err := s.sessions.GetActiveSession(ctx, start)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to check active session: %w", err)
	}
	if active != nil {
		return nil, sessionOutput{}, fmt.Errorf("session %s (%s) is still active; finish it first", active.Name, active.ID)
	}

	name := input.Name
	if input.RoutineID != "" {
		routine, err := s.routines.GetByID(ctx, input.RoutineID)
		if err != nil {
			return nil, sessionOutput{}, fmt.Errorf("failed to get routine: %w", err)
		}
		if routine == nil {
			return nil, sessionOutput{}, fmt.Errorf("routine not found: %s", input.RoutineID)
		}
		if name == "" {
			name = routine.Name
		}
	}

	session := models.NewSession(name, start)
	if input.RoutineID != "" {
		session.WithRoutine(input.RoutineID)
	}
	if input.Notes != "" {
		session.WithNotes(input.Notes)
	}

	created, err := s.sessions.Create(ctx, session, nil)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to start session: %w", err)
	}

	return nil, sessionOutput{
		ID:      created.ID,
		Name:    created.Name,
		Message: fmt.Sprintf("Started %s at %s (ID: %s)", created.Name, created.StartTime.Local().Format("15:04"), created.ID),
	}, nil
}

func (s *Server) handleLogSet(ctx context.Context, req *mcp.CallToolRequest, input logSetInput) (*mcp.CallToolResult, setOutput, error) {
	session, err := s.resolveSession(ctx, input.SessionID)
	if err != nil {
		return nil, setOutput{}, err
	}

	setNumber := input.SetNumber
	if setNumber == 0 {
		setNumber = session.NextSetNumber(input.ExerciseID)
	}

	set := models.NewSet(input.ExerciseID, setNumber)
	set.Reps = input.Reps
	set.Weight = input.Weight
	set.Duration = input.Duration
	set.Completed = input.Completed
	if input.Notes != "" {
		set.Notes = &input.Notes
	}

	added, err := s.sessions.AddExerciseToSession(ctx, session.ID, set)
	if err != nil {
		return nil, setOutput{}, fmt.Errorf("failed to log set: %w", err)
	}

	return nil, setOutput{
		SessionID:  added.SessionID,
		ExerciseID: added.ExerciseID,
		SetNumber:  added.SetNumber,
		Message:    fmt.Sprintf("Logged set %d of %s", added.SetNumber, added.ExerciseID),
	}, nil
}

func (s *Server) handleFinishSession(ctx context.Context, req *mcp.CallToolRequest, input sessionRefInput) (*mcp.CallToolResult, sessionOutput, error) {
	session, err := s.resolveSession(ctx, input.SessionID)
	if err != nil {
		return nil, sessionOutput{}, err
	}

	finished, err := s.sessions.Finish(ctx, session.ID, s.now())
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to finish session: %w", err)
	}
	if finished == nil {
		return nil, sessionOutput{}, fmt.Errorf("session not found: %s", session.ID)
	}

	minutes := int(finished.EndTime.Sub(finished.StartTime).Minutes())
	return nil, sessionOutput{
		ID:      finished.ID,
		Name:    finished.Name,
		Message: fmt.Sprintf("Finished %s after %d min with %d sets", finished.Name, minutes, len(finished.Exercises)),
	}, nil
}

func (s *Server) handleGetActiveSession(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	session, err := s.sessions.GetActiveSession(ctx, s.now())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get active session: %w", err)
	}
	if session == nil {
		return nil, map[string]any{"message": "No active session today."}, nil
	}
	return nil, session, nil
}

func (s *Server) handleListSessions(ctx context.Context, req *mcp.CallToolRequest, input listSessionsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	var (
		sessions []*models.Session
		err      error
	)
	if input.From != "" || input.To != "" {
		from, to, rangeErr := models.ParseRange(input.From, input.To, s.now(), time.Local)
		if rangeErr != nil {
			return nil, nil, rangeErr
		}
		sessions, err = s.sessions.GetByDateRange(ctx, from, to)
	} else {
		sessions, err = s.sessions.GetAll(ctx)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		return nil, map[string]any{"message": "No sessions found."}, nil
	}
	if len(sessions) > input.Limit {
		sessions = sessions[:input.Limit]
	}
	return nil, map[string]any{"sessions": sessions}, nil
}

func (s *Server) handleGetSession(ctx context.Context, req *mcp.CallToolRequest, input sessionIDInput) (*mcp.CallToolResult, any, error) {
	session, err := s.sessions.GetByID(ctx, input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, nil, fmt.Errorf("session not found: %s", input.ID)
	}
	return nil, session, nil
}

func (s *Server) handleDeleteSession(ctx context.Context, req *mcp.CallToolRequest, input sessionIDInput) (*mcp.CallToolResult, simpleOutput, error) {
	session, err := s.sessions.GetByID(ctx, input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, simpleOutput{}, fmt.Errorf("session not found: %s", input.ID)
	}

	if err := s.sessions.Delete(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete session: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted session: %s", input.ID),
	}, nil
}

// resolveSession loads id, or today's active session when id is empty.
func (s *Server) resolveSession(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		session, err := s.sessions.GetActiveSession(ctx, s.now())
		if err != nil {
			return nil, fmt.Errorf("failed to get active session: %w", err)
		}
		if session == nil {
			return nil, errNoActiveSession
		}
		return session, nil
	}

	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return session, nil
}

// parseTime accepts RFC 3339, "2006-01-02 15:04", or a bare date, in local time.
func parseTime(value string) (time.Time, error) {
	t, _, err := models.ParseDateTime(value, time.Local)
	return t, err
}
