// ABOUTME: SQLite schema definition for the fitness database.
// ABOUTME: Ordered DDL for exercises, routines, sessions and their link tables.
package storage

// Schema is a versioned list of DDL statements that, run in order against
// an empty database, produce the full schema for Version.
type Schema struct {
	Name       string
	Version    int
	Statements []string
}

// Current is the schema this build reads and writes.
var Current = Schema{
	Name:    "fitness.db",
	Version: 2,
	Statements: []string{
		`CREATE TABLE IF NOT EXISTS exercises (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT,
			description TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS routines (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS routine_exercises (
			routine_id TEXT NOT NULL,
			exercise_id TEXT NOT NULL,
			sets INTEGER NOT NULL,
			reps INTEGER NOT NULL,
			weight REAL,
			duration INTEGER,
			notes TEXT,
			order_index INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (routine_id, exercise_id),
			FOREIGN KEY (routine_id) REFERENCES routines(id) ON DELETE CASCADE,
			FOREIGN KEY (exercise_id) REFERENCES exercises(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			routine_id TEXT,
			name TEXT NOT NULL,
			notes TEXT,
			start_time TEXT NOT NULL,
			end_time TEXT,
			created_at TEXT NOT NULL,
			FOREIGN KEY (routine_id) REFERENCES routines(id) ON DELETE SET NULL
		)`,
		`CREATE TABLE IF NOT EXISTS session_exercises (
			session_id TEXT NOT NULL,
			exercise_id TEXT NOT NULL,
			set_number INTEGER NOT NULL,
			reps INTEGER,
			weight REAL,
			duration INTEGER,
			notes TEXT,
			completed INTEGER,
			created_at TEXT NOT NULL,
			updated_at TEXT,
			PRIMARY KEY (session_id, exercise_id, set_number),
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE,
			FOREIGN KEY (exercise_id) REFERENCES exercises(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exercises_name ON exercises(name)`,
		`CREATE INDEX IF NOT EXISTS idx_exercises_category ON exercises(category)`,
		`CREATE INDEX IF NOT EXISTS idx_routines_name ON routines(name)`,
		`CREATE INDEX IF NOT EXISTS idx_routine_exercises_routine ON routine_exercises(routine_id)`,
		`CREATE INDEX IF NOT EXISTS idx_routine_exercises_exercise ON routine_exercises(exercise_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_routine ON sessions(routine_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_start_time ON sessions(start_time)`,
		`CREATE INDEX IF NOT EXISTS idx_session_exercises_session ON session_exercises(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_session_exercises_exercise ON session_exercises(exercise_id)`,
	},
}

// Tables lists the tables Current creates, parents before children.
var Tables = []string{"exercises", "routines", "routine_exercises", "sessions", "session_exercises"}
