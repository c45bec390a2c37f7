// ABOUTME: Shared parsing and formatting helpers for CLI output.
// ABOUTME: Covers timestamps, optional values, and column padding.
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/fitness/internal/models"
)

var (
	faint = color.New(color.Faint)
	green = color.New(color.FgGreen)
	amber = color.New(color.FgYellow)
)

// parseTime accepts RFC 3339 or local "YYYY-MM-DD[ HH:MM]" forms.
func parseTime(s string) (time.Time, error) {
	t, _, err := models.ParseDateTime(s, time.Local)
	return t, err
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatClock(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// describeSet renders the measured parts of a set, e.g. "5 reps @ 100kg".
func describeSet(reps *int, weight *float64, duration *int) string {
	var parts []string
	if reps != nil {
		parts = append(parts, fmt.Sprintf("%d reps", *reps))
	}
	if weight != nil {
		parts = append(parts, "@ "+strconv.FormatFloat(*weight, 'f', -1, 64)+"kg")
	}
	if duration != nil {
		parts = append(parts, fmt.Sprintf("%ds", *duration))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
