// ABOUTME: Root Cobra command for fitness CLI.
// ABOUTME: Handles config, logger, and storage lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/fitness/internal/config"
	"github.com/harperreed/fitness/internal/provider"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfg    *config.Config
	logger *log.Logger
	prov   *provider.Provider

	flagDataDir  string
	flagLogLevel string
	flagSeed     bool
)

var rootCmd = &cobra.Command{
	Use:   "fitness",
	Short: "Personal workout tracker",
	Long: `Fitness is a CLI tool for tracking exercises, routines, and workout sessions.

WHAT IT TRACKS:

  Exercises   a catalog of movements (squat, plank, ...) with categories
  Routines    ordered templates of exercises
  Sessions    concrete workouts with logged sets (reps, weight, duration)

QUICK START:

  $ fitness exercise add squat "Back Squat" --category legs
  $ fitness routine add "Leg Day" squat lunge --id legs
  $ fitness session start "Monday legs" --routine legs
  $ fitness session log squat --reps 5 --weight 100
  $ fitness session finish

MCP AND HTTP:

  $ fitness mcp      # Model Context Protocol server on stdio
  $ fitness serve    # JSON API on 127.0.0.1:8080

DATA STORAGE:

  Data lives in a single SQLite file at ~/.local/share/fitness/fitness.db.
  Override the directory with --data-dir or FITNESS_DATA_DIR.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipStorage(cmd) {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlagOverrides(cmd, cfg)

		logger, err = cfg.NewLogger(os.Stderr)
		if err != nil {
			return err
		}

		prov, err = provider.New(cmd.Context(), *cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeProvider()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fitness %s\n", version)
	},
}

// Execute runs the root command. The provider is closed even when a command
// fails, since cobra skips PersistentPostRunE on error.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := closeProvider(); err == nil {
		err = cerr
	}
	return err
}

func closeProvider() error {
	if prov == nil {
		return nil
	}
	err := prov.Close()
	prov = nil
	return err
}

func skipStorage(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "__complete":
		return true
	}
	return cmd.Parent() != nil && cmd.Parent().Name() == "completion"
}

// applyFlagOverrides lets explicit flags win over file and environment.
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		c.DataDir = flagDataDir
	}
	if flags.Changed("log-level") {
		c.LogLevel = flagLogLevel
	}
	if flags.Changed("seed") {
		c.Seed = flagSeed
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory holding fitness.db")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "debug, info, warn, or error")
	rootCmd.PersistentFlags().BoolVar(&flagSeed, "seed", false, "insert the sample exercise catalog if missing")
	rootCmd.AddCommand(versionCmd)
}
