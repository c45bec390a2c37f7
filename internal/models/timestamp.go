// ABOUTME: Timestamp encoding shared by every table.
// ABOUTME: Fixed-width UTC ISO-8601 so string order equals time order.
package models

import "time"

// TimestampLayout is the stored form of every timestamp column.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp reads a stored timestamp. RFC3339 is accepted for rows
// written by older builds.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// Truncate drops sub-millisecond precision so values survive a round trip.
func Truncate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
