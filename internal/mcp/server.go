// ABOUTME: MCP server setup for the fitness tracker.
// ABOUTME: Wraps the MCP server around the exercise, routine, and session repositories.
package mcp

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/fitness/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	exercises storage.ExerciseRepository
	routines  storage.RoutineRepository
	sessions  storage.SessionRepository
	logger    *log.Logger
	now       func() time.Time
}

// NewServer creates a new MCP server over the given repositories.
func NewServer(exercises storage.ExerciseRepository, routines storage.RoutineRepository,
	sessions storage.SessionRepository, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fitness",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		exercises: exercises,
		routines:  routines,
		sessions:  sessions,
		logger:    logger,
		now:       time.Now,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.ServeTransport(ctx, &mcp.StdioTransport{})
}

// ServeTransport runs the server on transport until ctx is done or the client disconnects.
func (s *Server) ServeTransport(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("serving MCP")
	return s.mcpServer.Run(ctx, transport)
}
