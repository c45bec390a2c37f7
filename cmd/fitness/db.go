// ABOUTME: CLI commands for database maintenance.
// ABOUTME: Reports schema status, seeds the sample catalog, and force-resets migrations.
package main

import (
	"fmt"
	"strings"

	"github.com/harperreed/fitness/internal/seed"
	"github.com/harperreed/fitness/internal/storage"
	"github.com/spf13/cobra"
)

var resetConfirm bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database location and schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		v, err := prov.DB().Version(ctx)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		exercises, err := prov.Exercises().GetAll(ctx)
		if err != nil {
			return err
		}
		routines, err := prov.Routines().GetAll(ctx)
		if err != nil {
			return err
		}
		sessions, err := prov.Sessions().GetAll(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Database: %s\n", prov.DB().Path())
		fmt.Fprintf(out, "Schema: v%d (current v%d)\n", v, storage.Current.Version)
		fmt.Fprintf(out, "Exercises: %d\n", len(exercises))
		fmt.Fprintf(out, "Routines: %d\n", len(routines))
		fmt.Fprintf(out, "Sessions: %d\n", len(sessions))
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample exercise catalog and routine",
	Long: `Insert a starter catalog of common exercises and a sample full-body routine.
Entries that already exist are left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := seed.Seed(cmd.Context(), prov.Exercises(), prov.Routines())
		if err != nil {
			return fmt.Errorf("seed failed: %w", err)
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ Seeded %d exercises, %d routines\n", summary.Exercises, summary.Routines)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Re-run schema migrations from scratch",
	Long: `Reset the schema version to zero and re-apply every migration.

Existing rows are kept. Tables and indexes that are missing are created,
but columns are not added to tables that already exist. A missing
session_exercises.completed column is repaired automatically whenever the
database is opened, without a reset.

  fitness reset --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetConfirm {
			return fmt.Errorf("refusing to reset without --yes")
		}
		summary, err := prov.ForceReset(cmd.Context())
		if err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}

		out := cmd.OutOrStdout()
		green.Fprintf(out, "✓ Schema now at v%d\n", summary.To)
		if len(summary.Steps) > 0 {
			fmt.Fprintf(out, "  Steps: %s\n", strings.Join(summary.Steps, ", "))
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetConfirm, "yes", "y", false, "confirm the reset")
	rootCmd.AddCommand(statusCmd, seedCmd, resetCmd)
}
