// ABOUTME: Session and logged-set operations for SQLite storage.
// ABOUTME: Sessions are read with their sets through one left join.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fitness/internal/models"
)

// ErrSessionFinished is returned when finishing a session that already has an end time.
var ErrSessionFinished = errors.New("session already finished")

// SessionService reads and writes sessions and their logged sets.
type SessionService struct {
	db *DB
}

// NewSessionService binds a SessionService to db.
func NewSessionService(db *DB) *SessionService {
	return &SessionService{db: db}
}

// Create inserts the session and its sets in one transaction and returns the
// in-memory session as stored. A session needs a name and a start time.
func (s *SessionService) Create(ctx context.Context, session *models.Session, sets []models.SessionExercise) (*models.Session, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	if err := models.ValidateSets(sets); err != nil {
		return nil, err
	}

	now := s.db.timestamp()
	stored := *session
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.RoutineID != nil && *stored.RoutineID == "" {
		stored.RoutineID = nil
	}
	stored.StartTime = models.Truncate(session.StartTime)
	stored.EndTime = truncatePtr(session.EndTime)
	stored.CreatedAt = now
	stored.Exercises = make([]models.SessionExercise, len(sets))
	for i, e := range sets {
		e.SessionID = stored.ID
		e.CreatedAt = now
		e.UpdatedAt = nil
		stored.Exercises[i] = e
	}

	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sessions (id, routine_id, name, notes, start_time, end_time, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			stored.ID, emptyToNil(stored.RoutineID), stored.Name, deref(stored.Notes),
			formatTime(stored.StartTime), formatTimePtr(stored.EndTime), formatTime(stored.CreatedAt))
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		for _, e := range stored.Exercises {
			if err := insertSet(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetByID returns the session with its sets, or nil when it does not exist.
func (s *SessionService) GetByID(ctx context.Context, id string) (*models.Session, error) {
	sessions, err := s.query(ctx, "get session", "WHERE s.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return sessions[0], nil
}

// GetAll returns every session, most recent start first.
func (s *SessionService) GetAll(ctx context.Context) ([]*models.Session, error) {
	return s.query(ctx, "get sessions", "")
}

// GetByDateRange returns sessions whose start time lies in [start, end], both inclusive.
func (s *SessionService) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Session, error) {
	return s.query(ctx, "get sessions by date", "WHERE s.start_time >= ? AND s.start_time <= ?",
		formatTime(start), formatTime(end))
}

// GetActiveSession returns the unfinished session that started on day's
// calendar date (in day's location). When several exist the latest start wins;
// nil means there is none.
func (s *SessionService) GetActiveSession(ctx context.Context, day time.Time) (*models.Session, error) {
	from, to := models.DayBounds(day)
	sessions, err := s.query(ctx, "get active session",
		"WHERE s.end_time IS NULL AND s.start_time >= ? AND s.start_time < ?",
		formatTime(from), formatTime(to))
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	if len(sessions) > 1 {
		s.db.logger.Warn("more than one active session", "day", from.Format("2006-01-02"), "count", len(sessions))
	}
	return sessions[0], nil
}

// Update changes only the provided fields. Empty Notes or RoutineID clear the
// column. An empty update issues no statement.
func (s *SessionService) Update(ctx context.Context, id string, u models.SessionUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	if u.Name != nil && *u.Name == "" {
		return models.NewValidationError("name", "session name must not be empty")
	}
	if u.StartTime != nil && u.StartTime.IsZero() {
		return models.NewValidationError("start_time", "session start time must not be zero")
	}
	if u.EndTime != nil && u.EndTime.IsZero() {
		return models.NewValidationError("end_time", "session end time must not be zero")
	}

	b := newUpdate("sessions")
	if u.Name != nil {
		b.set("name", *u.Name)
	}
	if u.Notes != nil {
		b.set("notes", emptyToNil(u.Notes))
	}
	if u.RoutineID != nil {
		b.set("routine_id", emptyToNil(u.RoutineID))
	}
	if u.StartTime != nil {
		b.set("start_time", formatTime(*u.StartTime))
	}
	if u.EndTime != nil {
		b.set("end_time", formatTime(*u.EndTime))
	}

	query, args := b.build("id = ?", id)
	if _, err := s.db.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// Finish stamps the end time on an active session and returns it reloaded.
// It returns nil for an unknown id and ErrSessionFinished when already finished.
func (s *SessionService) Finish(ctx context.Context, id string, endTime time.Time) (*models.Session, error) {
	res, err := s.db.db.ExecContext(ctx,
		"UPDATE sessions SET end_time = ? WHERE id = ? AND end_time IS NULL",
		formatTime(endTime), id)
	if err != nil {
		return nil, fmt.Errorf("finish session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("finish session: %w", err)
	}

	session, err := s.GetByID(ctx, id)
	if err != nil || session == nil {
		return session, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("finish session %s: %w", id, ErrSessionFinished)
	}
	return session, nil
}

// UpdateExercise changes the provided fields of one set and stamps updated_at.
// An empty update issues no statement.
func (s *SessionService) UpdateExercise(ctx context.Context, key models.SetKey, u models.SessionExerciseUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	probe := models.SessionExercise{ExerciseID: key.ExerciseID, SetNumber: key.SetNumber,
		Reps: u.Reps, Weight: u.Weight, Duration: u.Duration}
	if err := probe.Validate(); err != nil {
		return err
	}

	b := newUpdate("session_exercises")
	if u.Reps != nil {
		b.set("reps", *u.Reps)
	}
	if u.Weight != nil {
		b.set("weight", *u.Weight)
	}
	if u.Duration != nil {
		b.set("duration", *u.Duration)
	}
	if u.Notes != nil {
		b.set("notes", *u.Notes)
	}
	if u.Completed != nil {
		b.set("completed", *u.Completed)
	}
	b.set("updated_at", formatTime(s.db.timestamp()))

	query, args := b.build("session_id = ? AND exercise_id = ? AND set_number = ?",
		key.SessionID, key.ExerciseID, key.SetNumber)
	if _, err := s.db.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update session exercise: %w", err)
	}
	return nil
}

// AddExerciseToSession inserts one set. Completed stays NULL unless provided.
func (s *SessionService) AddExerciseToSession(ctx context.Context, sessionID string, e models.SessionExercise) (*models.SessionExercise, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	e.SessionID = sessionID
	e.CreatedAt = s.db.timestamp()
	e.UpdatedAt = nil

	if err := insertSet(ctx, s.db.db, e); err != nil {
		return nil, err
	}
	return &e, nil
}

// RemoveExercise deletes one set. Removing a missing set is not an error.
func (s *SessionService) RemoveExercise(ctx context.Context, key models.SetKey) error {
	_, err := s.db.db.ExecContext(ctx,
		"DELETE FROM session_exercises WHERE session_id = ? AND exercise_id = ? AND set_number = ?",
		key.SessionID, key.ExerciseID, key.SetNumber)
	if err != nil {
		return fmt.Errorf("remove session exercise: %w", err)
	}
	return nil
}

// Delete removes the sets and then the session in one transaction.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM session_exercises WHERE session_id = ?", id); err != nil {
			return fmt.Errorf("delete session exercises: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}

func insertSet(ctx context.Context, q querier, e models.SessionExercise) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO session_exercises
			(session_id, exercise_id, set_number, reps, weight, duration, notes, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.ExerciseID, e.SetNumber, deref(e.Reps), deref(e.Weight), deref(e.Duration),
		deref(e.Notes), deref(e.Completed), formatTime(e.CreatedAt), formatTimePtr(e.UpdatedAt))
	if err != nil {
		return fmt.Errorf("add set %d of %s: %w", e.SetNumber, e.ExerciseID, err)
	}
	return nil
}

// query runs the session/set left join and folds rows back into sessions.
// Sessions without sets get an empty slice: joined rows with a NULL
// exercise_id are skipped.
func (s *SessionService) query(ctx context.Context, op, where string, args ...any) ([]*models.Session, error) {
	rows, err := s.db.db.QueryContext(ctx, `
		SELECT s.id, s.routine_id, s.name, s.notes, s.start_time, s.end_time, s.created_at,
			se.exercise_id, se.set_number, se.reps, se.weight, se.duration, se.notes,
			se.completed, se.created_at, se.updated_at
		FROM sessions s
		LEFT JOIN session_exercises se ON se.session_id = s.id
		`+where+`
		ORDER BY s.start_time DESC, s.rowid DESC, se.rowid ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	sessions := []*models.Session{}
	var current *models.Session
	for rows.Next() {
		var r sessionRow
		if err := r.scan(rows); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if current == nil || current.ID != r.id {
			current, err = r.session()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			sessions = append(sessions, current)
		}
		if !r.exerciseID.Valid {
			continue
		}
		set, err := r.set()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		current.Exercises = append(current.Exercises, set)
	}
	return sessions, rows.Err()
}

// sessionRow is one row of the session/set left join.
type sessionRow struct {
	id, name, startTime, createdAt string
	routineID, notes, endTime      sql.NullString

	exerciseID, setNotes, setCreatedAt, setUpdatedAt sql.NullString
	setNumber, reps, duration                        sql.NullInt64
	weight                                           sql.NullFloat64
	completed                                        sql.NullBool
}

func (r *sessionRow) scan(rows *sql.Rows) error {
	return rows.Scan(&r.id, &r.routineID, &r.name, &r.notes, &r.startTime, &r.endTime, &r.createdAt,
		&r.exerciseID, &r.setNumber, &r.reps, &r.weight, &r.duration, &r.setNotes,
		&r.completed, &r.setCreatedAt, &r.setUpdatedAt)
}

func (r *sessionRow) session() (*models.Session, error) {
	start, err := models.ParseTimestamp(r.startTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start_time %q: %w", r.startTime, err)
	}
	created, err := models.ParseTimestamp(r.createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", r.createdAt, err)
	}
	end, err := timePtr(r.endTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end_time %q: %w", r.endTime.String, err)
	}
	return &models.Session{
		ID:        r.id,
		RoutineID: stringPtr(r.routineID),
		Name:      r.name,
		Notes:     stringPtr(r.notes),
		StartTime: start,
		EndTime:   end,
		CreatedAt: created,
		Exercises: []models.SessionExercise{},
	}, nil
}

func (r *sessionRow) set() (models.SessionExercise, error) {
	created, err := models.ParseTimestamp(r.setCreatedAt.String)
	if err != nil {
		return models.SessionExercise{}, fmt.Errorf("invalid set created_at %q: %w", r.setCreatedAt.String, err)
	}
	updated, err := timePtr(r.setUpdatedAt)
	if err != nil {
		return models.SessionExercise{}, fmt.Errorf("invalid set updated_at %q: %w", r.setUpdatedAt.String, err)
	}
	return models.SessionExercise{
		SessionID:  r.id,
		ExerciseID: r.exerciseID.String,
		SetNumber:  int(r.setNumber.Int64),
		Reps:       intPtr(r.reps),
		Weight:     floatPtr(r.weight),
		Duration:   intPtr(r.duration),
		Notes:      stringPtr(r.setNotes),
		Completed:  boolPtr(r.completed),
		CreatedAt:  created,
		UpdatedAt:  updated,
	}, nil
}
