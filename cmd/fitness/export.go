// ABOUTME: CLI commands for exporting and importing fitness data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harperreed/fitness/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string
	importFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export fitness data",
	Long: `Export fitness data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Markdown tables (for sharing a training log)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include sessions since this date (markdown only)

EXAMPLES:

  fitness export json                        # Export all data as JSON
  fitness export json -o backup.json         # Save to file
  fitness export yaml                        # Export as YAML
  fitness export markdown --since 2024-01-01 # Training log from 2024 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		exporter := prov.Exporter()

		var data []byte
		var err error
		switch args[0] {
		case "json":
			data, err = exporter.JSON(ctx)
		case "yaml":
			data, err = exporter.YAML(ctx)
		case "markdown", "md":
			var since *time.Time
			if exportSince != "" {
				t, parseErr := time.ParseInLocation("2006-01-02", exportSince, time.Local)
				if parseErr != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				since = &t
			}
			var md string
			md, err = exporter.Markdown(ctx, since)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", args[0])
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			green.Fprintf(cmd.OutOrStdout(), "✓ Exported to %s\n", exportOutput)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import fitness data from JSON or YAML",
	Long: `Import fitness data from a file written by 'fitness export'.

Records whose id already exists are skipped, so importing the same file
twice is safe. The format is taken from the file extension unless --format
is given.

EXAMPLES:

  fitness import backup.json
  fitness import backup.yaml
  fitness import dump.txt --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		format := importFormat
		if format == "" {
			format = strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
		}

		var summary *storage.ImportSummary
		switch format {
		case "json":
			summary, err = prov.Exporter().ImportJSON(cmd.Context(), data)
		case "yaml", "yml":
			summary, err = prov.Exporter().ImportYAML(cmd.Context(), data)
		default:
			return fmt.Errorf("unknown import format %q (use --format json or yaml)", format)
		}
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		out := cmd.OutOrStdout()
		green.Fprintf(out, "✓ Imported from %s\n", filename)
		fmt.Fprintf(out, "  Exercises: %d  Routines: %d  Sessions: %d  Skipped: %d\n",
			summary.Exercises, summary.Routines, summary.Sessions, summary.Skipped)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include sessions since date (YYYY-MM-DD)")

	importCmd.Flags().StringVar(&importFormat, "format", "", "json or yaml (default: from extension)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
