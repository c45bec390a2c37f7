// ABOUTME: Parsing of user-supplied times and inclusive date ranges.
// ABOUTME: Shared by the CLI, HTTP, and MCP surfaces so they filter alike.
package models

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

var localLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	dateLayout,
}

// ParseDateTime accepts RFC 3339, "YYYY-MM-DD HH:MM", "YYYY-MM-DDTHH:MM", or a
// bare date. Forms without an offset are read in loc. dateOnly reports the bare
// date form.
func ParseDateTime(value string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, false, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, layout == dateLayout, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognized time %q: use ISO 8601 or YYYY-MM-DD", value)
}

// ParseRange turns optional from/to values into inclusive bounds for
// GetByDateRange. An empty from is the zero time and an empty to is now.
// A bare-date to covers that whole day.
func ParseRange(from, to string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	var start time.Time
	end := now
	if from != "" {
		t, _, err := ParseDateTime(from, loc)
		if err != nil {
			return start, end, NewValidationError("from", err.Error())
		}
		start = t
	}
	if to != "" {
		t, dateOnly, err := ParseDateTime(to, loc)
		if err != nil {
			return start, end, NewValidationError("to", err.Error())
		}
		end = t
		if dateOnly {
			_, next := DayBounds(t)
			end = next.Add(-time.Millisecond)
		}
	}
	return start, end, nil
}
