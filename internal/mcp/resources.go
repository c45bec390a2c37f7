// ABOUTME: MCP resource implementations for workout history.
// ABOUTME: Provides fitness://today and fitness://recent resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/fitness/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	todayURI  = "fitness://today"
	recentURI = "fitness://recent"

	recentLimit = 10
)

func (s *Server) registerResources() {
	// fitness://today - Today's sessions and the active one
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Workouts",
		Description: "Sessions started today, with the active session if any",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// fitness://recent - Last sessions across all days
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentURI,
		Name:        "Recent Workouts",
		Description: "Last 10 sessions with their sets",
		MIMEType:    "application/json",
	}, s.handleRecentResource)
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := s.now()
	start, end := models.DayBounds(now)

	sessions, err := s.sessions.GetByDateRange(ctx, start, end.Add(-1))
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	active, err := s.sessions.GetActiveSession(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}

	sets := 0
	for _, session := range sessions {
		sets += len(session.Exercises)
	}

	result := map[string]any{
		"date":     start.Format("2006-01-02"),
		"active":   active,
		"sessions": sessions,
		"counts": map[string]int{
			"sessions": len(sessions),
			"sets":     sets,
		},
	}
	return jsonResource(todayURI, result)
}

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	sessions, err := s.sessions.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) > recentLimit {
		sessions = sessions[:recentLimit]
	}

	exercises, err := s.exercises.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	names := make(map[string]string, len(exercises))
	for _, e := range exercises {
		names[e.ID] = e.Name
	}

	result := map[string]any{
		"sessions":       sessions,
		"exercise_names": names,
	}
	return jsonResource(recentURI, result)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
