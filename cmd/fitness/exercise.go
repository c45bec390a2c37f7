// ABOUTME: CLI commands for managing the exercise catalog.
// ABOUTME: Supports add, list, show, edit, and delete subcommands.
package main

import (
	"fmt"

	"github.com/harperreed/fitness/internal/models"
	"github.com/spf13/cobra"
)

var (
	exerciseCategory    string
	exerciseDescription string
	exerciseName        string
	exerciseQuery       string
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex", "e"},
	Short:   "Manage the exercise catalog",
	Long: `Manage the exercises that routines and sessions refer to.

Exercise ids are chosen by you and never change, e.g. "squat" or "bench-press".
Deleting an exercise also removes it from every routine.`,
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <id> <name>",
	Short: "Add an exercise",
	Long: `Add an exercise to the catalog.

Examples:
  fitness exercise add squat "Back Squat" --category legs
  fitness exercise add plank Plank --category core --description "Hold a straight line"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := models.NewExercise(args[0], args[1])
		if exerciseCategory != "" {
			e.WithCategory(exerciseCategory)
		}
		if exerciseDescription != "" {
			e.WithDescription(exerciseDescription)
		}

		created, err := prov.Exercises().Create(cmd.Context(), e)
		if err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}

		out := cmd.OutOrStdout()
		green.Fprintf(out, "✓ Added exercise %s\n", created.ID)
		fmt.Fprintf(out, "  %s %s\n", created.Name, faint.Sprint(deref(created.Category)))
		return nil
	},
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List exercises",
	Long: `List exercises, newest first.

Examples:
  fitness exercise list
  fitness exercise list --category legs
  fitness exercise list -q squat`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var (
			exercises []*models.Exercise
			err       error
		)
		switch {
		case exerciseCategory != "":
			exercises, err = prov.Exercises().GetByCategory(ctx, exerciseCategory)
		case exerciseQuery != "":
			exercises, err = prov.Exercises().SearchByName(ctx, exerciseQuery)
		default:
			exercises, err = prov.Exercises().GetAll(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(exercises) == 0 {
			fmt.Fprintln(out, "No exercises found.")
			return nil
		}
		for _, e := range exercises {
			fmt.Fprintf(out, "%s %s %s\n",
				padRight(e.ID, 20),
				padRight(e.Name, 24),
				faint.Sprint(deref(e.Category)))
		}
		return nil
	},
}

var exerciseShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show exercise details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := prov.Exercises().GetByID(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get exercise: %w", err)
		}
		if e == nil {
			return fmt.Errorf("exercise not found: %s", args[0])
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Exercise: %s\n", e.ID)
		fmt.Fprintf(out, "Name: %s\n", e.Name)
		if e.Category != nil {
			fmt.Fprintf(out, "Category: %s\n", *e.Category)
		}
		if e.Description != nil {
			fmt.Fprintf(out, "Description: %s\n", *e.Description)
		}
		fmt.Fprintf(out, "Created: %s\n", formatClock(e.CreatedAt))
		return nil
	},
}

var exerciseEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change an exercise's name, category, or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var u models.ExerciseUpdate
		flags := cmd.Flags()
		if flags.Changed("name") {
			u.Name = &exerciseName
		}
		if flags.Changed("category") {
			u.Category = &exerciseCategory
		}
		if flags.Changed("description") {
			u.Description = &exerciseDescription
		}
		if u.IsEmpty() {
			return fmt.Errorf("nothing to change: pass --name, --category, or --description")
		}

		ctx := cmd.Context()
		existing, err := prov.Exercises().GetByID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get exercise: %w", err)
		}
		if existing == nil {
			return fmt.Errorf("exercise not found: %s", args[0])
		}
		if err := prov.Exercises().Update(ctx, args[0], u); err != nil {
			return fmt.Errorf("failed to update exercise: %w", err)
		}

		green.Fprintf(cmd.OutOrStdout(), "✓ Updated exercise %s\n", args[0])
		return nil
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an exercise",
	Long: `Delete an exercise by id.

The exercise is removed from every routine that lists it. Sessions that
logged sets against it must be deleted first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := prov.Exercises().GetByID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get exercise: %w", err)
		}
		if e == nil {
			return fmt.Errorf("exercise not found: %s", args[0])
		}
		if err := prov.Exercises().Delete(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to delete exercise: %w", err)
		}

		amber.Fprintf(cmd.OutOrStdout(), "✗ Deleted exercise %s\n", e.ID)
		return nil
	},
}

func init() {
	exerciseAddCmd.Flags().StringVarP(&exerciseCategory, "category", "c", "", "category, e.g. legs or core")
	exerciseAddCmd.Flags().StringVar(&exerciseDescription, "description", "", "free-form description")

	exerciseListCmd.Flags().StringVarP(&exerciseCategory, "category", "c", "", "only this category")
	exerciseListCmd.Flags().StringVarP(&exerciseQuery, "query", "q", "", "case-insensitive name search")

	exerciseEditCmd.Flags().StringVar(&exerciseName, "name", "", "new name")
	exerciseEditCmd.Flags().StringVarP(&exerciseCategory, "category", "c", "", "new category")
	exerciseEditCmd.Flags().StringVar(&exerciseDescription, "description", "", "new description")

	exerciseCmd.AddCommand(exerciseAddCmd, exerciseListCmd, exerciseShowCmd, exerciseEditCmd, exerciseDeleteCmd)
	rootCmd.AddCommand(exerciseCmd)
}
