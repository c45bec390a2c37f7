// ABOUTME: CLI commands for workout sessions and their sets.
// ABOUTME: Supports start, log, finish, list, show, edit, set editing, and delete.
package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/harperreed/fitness/internal/models"
	"github.com/spf13/cobra"
)

var (
	sessionRoutine string
	sessionNotes   string
	sessionName    string
	sessionAt      string
	sessionID      string
	sessionFrom    string
	sessionTo      string
	sessionLimit   int

	setNumber   int
	setReps     int
	setWeight   float64
	setDuration int
	setNotes    string
	setDone     bool
)

var errNoActiveSession = errors.New("no active session today; start one with 'fitness session start'")

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"s"},
	Short:   "Track workout sessions",
	Long: `Sessions are concrete workouts. A session is active until it is finished.

WORKFLOW:

  1. Start a session:   fitness session start "Monday" --routine legs
  2. Log sets:          fitness session log squat --reps 5 --weight 100
  3. Finish it:         fitness session finish

Commands that take an optional session id default to today's active session.`,
}

var sessionStartCmd = &cobra.Command{
	Use:   "start <name>",
	Short: "Start a session",
	Long: `Start a new session. Refuses when a session is already active today.

Examples:
  fitness session start "Leg Day"
  fitness session start "Leg Day" --routine legs --at "2024-02-13 07:30"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		start := time.Now()
		if sessionAt != "" {
			t, err := parseTime(sessionAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", sessionAt)
			}
			start = t
		}

		active, err := prov.Sessions().GetActiveSession(ctx, start)
		if err != nil {
			return fmt.Errorf("failed to check active session: %w", err)
		}
		if active != nil {
			return fmt.Errorf("session %s (%s) is still active; finish it first", active.ID, active.Name)
		}

		s := models.NewSession(args[0], start)
		if sessionRoutine != "" {
			s.WithRoutine(sessionRoutine)
		}
		if sessionNotes != "" {
			s.WithNotes(sessionNotes)
		}

		created, err := prov.Sessions().Create(ctx, s, nil)
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}

		out := cmd.OutOrStdout()
		green.Fprintf(out, "✓ Started %s\n", created.Name)
		fmt.Fprintf(out, "  ID: %s\n", created.ID)
		fmt.Fprintf(out, "  Started: %s\n", formatClock(created.StartTime))
		return nil
	},
}

var sessionLogCmd = &cobra.Command{
	Use:   "log <exercise-id>",
	Short: "Log a set",
	Long: `Log one set of an exercise. The set number defaults to the next one
for that exercise; the session defaults to today's active session.

Examples:
  fitness session log squat --reps 5 --weight 100
  fitness session log plank --duration 60 --done
  fitness session log row --set 2 --reps 8 --session 1f2e3d4c-...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := resolveSession(cmd, sessionID)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		set := models.NewSet(args[0], s.NextSetNumber(args[0]))
		if flags.Changed("set") {
			set.SetNumber = setNumber
		}
		if flags.Changed("reps") {
			set = set.WithReps(setReps)
		}
		if flags.Changed("weight") {
			set = set.WithWeight(setWeight)
		}
		if flags.Changed("duration") {
			set = set.WithDuration(setDuration)
		}
		if flags.Changed("done") {
			set = set.WithCompleted(setDone)
		}
		if setNotes != "" {
			set.Notes = &setNotes
		}

		logged, err := prov.Sessions().AddExerciseToSession(ctx, s.ID, set)
		if err != nil {
			return fmt.Errorf("failed to log set: %w", err)
		}

		green.Fprintf(cmd.OutOrStdout(), "✓ %s set %d: %s\n", logged.ExerciseID, logged.SetNumber,
			describeSet(logged.Reps, logged.Weight, logged.Duration))
		return nil
	},
}

var sessionFinishCmd = &cobra.Command{
	Use:   "finish [id]",
	Short: "Finish a session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSession(cmd, firstArg(args))
		if err != nil {
			return err
		}

		end := time.Now()
		if sessionAt != "" {
			t, err := parseTime(sessionAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", sessionAt)
			}
			end = t
		}

		finished, err := prov.Sessions().Finish(cmd.Context(), s.ID, end)
		if err != nil {
			return fmt.Errorf("failed to finish session: %w", err)
		}

		out := cmd.OutOrStdout()
		green.Fprintf(out, "✓ Finished %s\n", finished.Name)
		fmt.Fprintf(out, "  Duration: %s\n", finished.EndTime.Sub(finished.StartTime).Round(time.Minute))
		fmt.Fprintf(out, "  Sets: %d\n", len(finished.Exercises))
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List sessions",
	Long: `List sessions, newest first.

Examples:
  fitness session list
  fitness session list --from 2024-02-01 --to 2024-02-29
  fitness session list -n 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var (
			sessions []*models.Session
			err      error
		)
		if sessionFrom != "" || sessionTo != "" {
			start, end, rangeErr := models.ParseRange(sessionFrom, sessionTo, time.Now(), time.Local)
			if rangeErr != nil {
				return fmt.Errorf("invalid date range: %w", rangeErr)
			}
			sessions, err = prov.Sessions().GetByDateRange(ctx, start, end)
		} else {
			sessions, err = prov.Sessions().GetAll(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}
		if sessionLimit > 0 && len(sessions) > sessionLimit {
			sessions = sessions[:sessionLimit]
		}
		for _, s := range sessions {
			status := faint.Sprint("done")
			if s.IsActive() {
				status = amber.Sprint("active")
			}
			fmt.Fprintf(out, "%s %s %s %s %s\n",
				faint.Sprint(s.ID),
				faint.Sprint(formatClock(s.StartTime)),
				padRight(truncate(s.Name, 24), 24),
				padRight(fmt.Sprintf("%d sets", len(s.Exercises)), 8),
				status)
		}
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a session with its sets",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSession(cmd, firstArg(args))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Session: %s\n", s.ID)
		fmt.Fprintf(out, "Name: %s\n", s.Name)
		if s.RoutineID != nil {
			fmt.Fprintf(out, "Routine: %s\n", *s.RoutineID)
		}
		fmt.Fprintf(out, "Started: %s\n", formatClock(s.StartTime))
		if s.EndTime != nil {
			fmt.Fprintf(out, "Finished: %s\n", formatClock(*s.EndTime))
		} else {
			amber.Fprintln(out, "In progress")
		}
		if s.Notes != nil {
			fmt.Fprintf(out, "Notes: %s\n", *s.Notes)
		}

		if len(s.Exercises) == 0 {
			fmt.Fprintln(out, "\nNo sets logged.")
			return nil
		}
		fmt.Fprintln(out, "\nSets:")
		for _, e := range s.Exercises {
			mark := " "
			if e.Completed != nil && *e.Completed {
				mark = "✓"
			}
			fmt.Fprintf(out, "  %s %s #%d %s\n", mark, padRight(e.ExerciseID, 20), e.SetNumber,
				describeSet(e.Reps, e.Weight, e.Duration))
		}
		return nil
	},
}

var sessionEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a session's name, notes, routine, or times",
	Long: `Change fields of a session. Passing an empty --notes or --routine clears it.

Examples:
  fitness session edit 1f2e3d4c --name "Heavy legs"
  fitness session edit 1f2e3d4c --notes ""`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var u models.SessionUpdate
		flags := cmd.Flags()
		if flags.Changed("name") {
			u.Name = &sessionName
		}
		if flags.Changed("notes") {
			u.Notes = &sessionNotes
		}
		if flags.Changed("routine") {
			u.RoutineID = &sessionRoutine
		}
		if flags.Changed("at") {
			t, err := parseTime(sessionAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", sessionAt)
			}
			u.StartTime = &t
		}
		if u.IsEmpty() {
			return fmt.Errorf("nothing to change: pass --name, --notes, --routine, or --at")
		}

		s, err := resolveSession(cmd, args[0])
		if err != nil {
			return err
		}
		if err := prov.Sessions().Update(cmd.Context(), s.ID, u); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}

		green.Fprintf(cmd.OutOrStdout(), "✓ Updated session %s\n", s.ID)
		return nil
	},
}

var sessionSetCmd = &cobra.Command{
	Use:   "set <session-id> <exercise-id> <set-number>",
	Short: "Change a logged set",
	Long: `Change the measurements of one logged set.

Examples:
  fitness session set 1f2e3d4c squat 2 --reps 6
  fitness session set 1f2e3d4c plank 1 --done`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := setKeyFromArgs(args)
		if err != nil {
			return err
		}

		var u models.SessionExerciseUpdate
		flags := cmd.Flags()
		if flags.Changed("reps") {
			u.Reps = &setReps
		}
		if flags.Changed("weight") {
			u.Weight = &setWeight
		}
		if flags.Changed("duration") {
			u.Duration = &setDuration
		}
		if flags.Changed("notes") {
			u.Notes = &setNotes
		}
		if flags.Changed("done") {
			u.Completed = &setDone
		}
		if u.IsEmpty() {
			return fmt.Errorf("nothing to change: pass --reps, --weight, --duration, --notes, or --done")
		}

		if err := prov.Sessions().UpdateExercise(cmd.Context(), key, u); err != nil {
			return fmt.Errorf("failed to update set: %w", err)
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ Updated %s set %d\n", key.ExerciseID, key.SetNumber)
		return nil
	},
}

var sessionUnsetCmd = &cobra.Command{
	Use:   "unset <session-id> <exercise-id> <set-number>",
	Short: "Remove a logged set",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := setKeyFromArgs(args)
		if err != nil {
			return err
		}
		if err := prov.Sessions().RemoveExercise(cmd.Context(), key); err != nil {
			return fmt.Errorf("failed to remove set: %w", err)
		}
		amber.Fprintf(cmd.OutOrStdout(), "✗ Removed %s set %d\n", key.ExerciseID, key.SetNumber)
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a session and its sets",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSession(cmd, args[0])
		if err != nil {
			return err
		}
		if err := prov.Sessions().Delete(cmd.Context(), s.ID); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		amber.Fprintf(cmd.OutOrStdout(), "✗ Deleted session %s\n", s.Name)
		return nil
	},
}

// resolveSession loads the session with id, or today's active session when id is empty.
func resolveSession(cmd *cobra.Command, id string) (*models.Session, error) {
	ctx := cmd.Context()
	if id == "" {
		s, err := prov.Sessions().GetActiveSession(ctx, time.Now())
		if err != nil {
			return nil, fmt.Errorf("failed to get active session: %w", err)
		}
		if s == nil {
			return nil, errNoActiveSession
		}
		return s, nil
	}

	s, err := prov.Sessions().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return s, nil
}

func setKeyFromArgs(args []string) (models.SetKey, error) {
	n, err := strconv.Atoi(args[2])
	if err != nil {
		return models.SetKey{}, fmt.Errorf("invalid set number: %s", args[2])
	}
	return models.SetKey{SessionID: args[0], ExerciseID: args[1], SetNumber: n}, nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func init() {
	sessionStartCmd.Flags().StringVar(&sessionRoutine, "routine", "", "routine id this session follows")
	sessionStartCmd.Flags().StringVar(&sessionNotes, "notes", "", "notes for the session")
	sessionStartCmd.Flags().StringVar(&sessionAt, "at", "", "start time (YYYY-MM-DD HH:MM)")

	sessionLogCmd.Flags().StringVar(&sessionID, "session", "", "session id (default: today's active session)")
	sessionLogCmd.Flags().IntVar(&setNumber, "set", 0, "set number (default: next)")
	sessionLogCmd.Flags().IntVarP(&setReps, "reps", "r", 0, "repetitions")
	sessionLogCmd.Flags().Float64VarP(&setWeight, "weight", "w", 0, "load in kg")
	sessionLogCmd.Flags().IntVarP(&setDuration, "duration", "d", 0, "duration in seconds")
	sessionLogCmd.Flags().StringVar(&setNotes, "notes", "", "notes for the set")
	sessionLogCmd.Flags().BoolVar(&setDone, "done", false, "mark the set completed")

	sessionFinishCmd.Flags().StringVar(&sessionAt, "at", "", "end time (YYYY-MM-DD HH:MM)")

	sessionListCmd.Flags().StringVar(&sessionFrom, "from", "", "earliest start (YYYY-MM-DD)")
	sessionListCmd.Flags().StringVar(&sessionTo, "to", "", "latest start (YYYY-MM-DD, inclusive)")
	sessionListCmd.Flags().IntVarP(&sessionLimit, "limit", "n", 20, "max number of results")

	sessionEditCmd.Flags().StringVar(&sessionName, "name", "", "new name")
	sessionEditCmd.Flags().StringVar(&sessionNotes, "notes", "", "new notes (empty clears)")
	sessionEditCmd.Flags().StringVar(&sessionRoutine, "routine", "", "new routine id (empty clears)")
	sessionEditCmd.Flags().StringVar(&sessionAt, "at", "", "new start time (YYYY-MM-DD HH:MM)")

	sessionSetCmd.Flags().IntVarP(&setReps, "reps", "r", 0, "repetitions")
	sessionSetCmd.Flags().Float64VarP(&setWeight, "weight", "w", 0, "load in kg")
	sessionSetCmd.Flags().IntVarP(&setDuration, "duration", "d", 0, "duration in seconds")
	sessionSetCmd.Flags().StringVar(&setNotes, "notes", "", "notes for the set")
	sessionSetCmd.Flags().BoolVar(&setDone, "done", false, "mark the set completed")

	sessionCmd.AddCommand(sessionStartCmd, sessionLogCmd, sessionFinishCmd, sessionListCmd, sessionShowCmd,
		sessionEditCmd, sessionSetCmd, sessionUnsetCmd, sessionDeleteCmd)
	rootCmd.AddCommand(sessionCmd)
}
