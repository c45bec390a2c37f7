// ABOUTME: CLI commands for managing routines.
// ABOUTME: Supports add, list, show, edit, reorder, and delete subcommands.
package main

import (
	"fmt"

	"github.com/harperreed/fitness/internal/models"
	"github.com/spf13/cobra"
)

var (
	routineID          string
	routineName        string
	routineDescription string
	routineQuery       string
)

var routineCmd = &cobra.Command{
	Use:     "routine",
	Aliases: []string{"r"},
	Short:   "Manage routines",
	Long: `Routines are ordered templates of exercises.

Each exercise in a routine defaults to 3 sets of 10 reps. The order you list
exercises in is the order they are returned in.`,
}

var routineAddCmd = &cobra.Command{
	Use:   "add <name> [exercise-id...]",
	Short: "Create a routine",
	Long: `Create a routine over existing exercises, in order.

Examples:
  fitness routine add "Leg Day" squat lunge calf-raise
  fitness routine add "Core" plank --id core --description "Finisher"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := models.NewRoutine(args[0], args[1:]...)
		r.ID = routineID
		if routineDescription != "" {
			r.WithDescription(routineDescription)
		}

		created, err := prov.Routines().Create(cmd.Context(), r)
		if err != nil {
			return fmt.Errorf("failed to create routine: %w", err)
		}

		out := cmd.OutOrStdout()
		green.Fprintf(out, "✓ Created routine %s\n", created.Name)
		fmt.Fprintf(out, "  ID: %s\n", created.ID)
		fmt.Fprintf(out, "  Exercises: %d\n", len(created.ExerciseIDs))
		return nil
	},
}

var routineListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List routines",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			routines []*models.Routine
			err      error
		)
		if routineQuery != "" {
			routines, err = prov.Routines().SearchByName(cmd.Context(), routineQuery)
		} else {
			routines, err = prov.Routines().GetAll(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("failed to list routines: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(routines) == 0 {
			fmt.Fprintln(out, "No routines found.")
			return nil
		}
		for _, r := range routines {
			fmt.Fprintf(out, "%s %s %s\n",
				faint.Sprint(padRight(r.ID, 20)),
				padRight(r.Name, 24),
				faint.Sprintf("%d exercises", len(r.ExerciseIDs)))
		}
		return nil
	},
}

var routineShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a routine with its exercises",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		r, err := prov.Routines().GetByID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get routine: %w", err)
		}
		if r == nil {
			return fmt.Errorf("routine not found: %s", args[0])
		}
		links, err := prov.Routines().Links(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("failed to get routine exercises: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Routine: %s\n", r.ID)
		fmt.Fprintf(out, "Name: %s\n", r.Name)
		if r.Description != nil {
			fmt.Fprintf(out, "Description: %s\n", *r.Description)
		}
		if len(links) == 0 {
			fmt.Fprintln(out, "\nNo exercises.")
			return nil
		}
		fmt.Fprintln(out, "\nExercises:")
		for _, l := range links {
			fmt.Fprintf(out, "  %d. %s %s\n", l.OrderIndex+1, padRight(l.ExerciseID, 20),
				faint.Sprintf("%dx%d", l.Sets, l.Reps))
		}
		return nil
	},
}

var routineEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a routine's name or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var u models.RoutineUpdate
		if cmd.Flags().Changed("name") {
			u.Name = &routineName
		}
		if cmd.Flags().Changed("description") {
			u.Description = &routineDescription
		}
		if u.IsEmpty() {
			return fmt.Errorf("nothing to change: pass --name or --description")
		}
		if err := requireRoutine(cmd, args[0]); err != nil {
			return err
		}
		if err := prov.Routines().Update(cmd.Context(), args[0], u); err != nil {
			return fmt.Errorf("failed to update routine: %w", err)
		}

		green.Fprintf(cmd.OutOrStdout(), "✓ Updated routine %s\n", args[0])
		return nil
	},
}

var routineSetExercisesCmd = &cobra.Command{
	Use:   "set-exercises <id> [exercise-id...]",
	Short: "Replace a routine's exercises",
	Long: `Replace the exercises of a routine with the given list, in order.
Passing no exercise ids empties the routine.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRoutine(cmd, args[0]); err != nil {
			return err
		}
		if err := prov.Routines().UpdateExercises(cmd.Context(), args[0], args[1:]); err != nil {
			return fmt.Errorf("failed to update routine exercises: %w", err)
		}

		green.Fprintf(cmd.OutOrStdout(), "✓ Routine %s now has %d exercises\n", args[0], len(args)-1)
		return nil
	},
}

var routineDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a routine",
	Long: `Delete a routine and its exercise list.

Sessions started from the routine are kept and lose the reference.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRoutine(cmd, args[0]); err != nil {
			return err
		}
		if err := prov.Routines().Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete routine: %w", err)
		}

		amber.Fprintf(cmd.OutOrStdout(), "✗ Deleted routine %s\n", args[0])
		return nil
	},
}

func requireRoutine(cmd *cobra.Command, id string) error {
	r, err := prov.Routines().GetByID(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get routine: %w", err)
	}
	if r == nil {
		return fmt.Errorf("routine not found: %s", id)
	}
	return nil
}

func init() {
	routineAddCmd.Flags().StringVar(&routineID, "id", "", "routine id (default: generated)")
	routineAddCmd.Flags().StringVar(&routineDescription, "description", "", "free-form description")

	routineListCmd.Flags().StringVarP(&routineQuery, "query", "q", "", "case-insensitive name search")

	routineEditCmd.Flags().StringVar(&routineName, "name", "", "new name")
	routineEditCmd.Flags().StringVar(&routineDescription, "description", "", "new description")

	routineCmd.AddCommand(routineAddCmd, routineListCmd, routineShowCmd, routineEditCmd,
		routineSetExercisesCmd, routineDeleteCmd)
	rootCmd.AddCommand(routineCmd)
}
