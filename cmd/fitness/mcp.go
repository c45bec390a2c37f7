// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/fitness/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout. Add it to an MCP client config:

  {
    "mcpServers": {
      "fitness": {
        "command": "fitness",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  add_exercise        Add an exercise to the catalog
  list_exercises      List or search exercises
  create_routine      Create a routine from exercise ids
  list_routines       List routines
  start_session       Start a workout session
  log_set             Log a set in a session
  finish_session      Finish a session
  get_active_session  Today's unfinished session
  list_sessions       List recent sessions
  get_session         Get a session with its sets
  delete_session      Delete a session

AVAILABLE RESOURCES:

  fitness://today     Today's session and counts
  fitness://recent    Recent sessions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(prov.Exercises(), prov.Routines(), prov.Sessions(), logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
