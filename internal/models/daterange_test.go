// ABOUTME: Tests for user time parsing and inclusive date ranges.
// ABOUTME: Covers accepted forms, bare-date day coverage, and bad input.
package models

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateTime(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	tests := []struct {
		in       string
		want     time.Time
		dateOnly bool
		wantErr  bool
	}{
		{"2024-02-13T08:00:00Z", time.Date(2024, 2, 13, 8, 0, 0, 0, time.UTC), false, false},
		{"2024-02-13 08:30", time.Date(2024, 2, 13, 8, 30, 0, 0, loc), false, false},
		{"2024-02-13T08:30", time.Date(2024, 2, 13, 8, 30, 0, 0, loc), false, false},
		{"2024-02-13", time.Date(2024, 2, 13, 0, 0, 0, 0, loc), true, false},
		{"13-02-2024", time.Time{}, false, true},
		{"", time.Time{}, false, true},
	}
	for _, tt := range tests {
		got, dateOnly, err := ParseDateTime(tt.in, loc)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDateTime(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if !got.Equal(tt.want) || dateOnly != tt.dateOnly {
			t.Errorf("ParseDateTime(%q) = %v, %v; want %v, %v", tt.in, got, dateOnly, tt.want, tt.dateOnly)
		}
	}
}

func TestParseRangeBareDateCoversDay(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	start, end, err := ParseRange("2024-02-13", "2024-02-13", now, time.UTC)
	if err != nil {
		t.Fatalf("ParseRange failed: %v", err)
	}
	if !start.Equal(time.Date(2024, 2, 13, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2024, 2, 13, 23, 59, 59, int(999*time.Millisecond), time.UTC)) {
		t.Errorf("end = %v", end)
	}
}

func TestParseRangeDefaultsAndExactBounds(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	start, end, err := ParseRange("", "", now, time.UTC)
	if err != nil {
		t.Fatalf("ParseRange failed: %v", err)
	}
	if !start.IsZero() || !end.Equal(now) {
		t.Errorf("empty range = %v..%v", start, end)
	}

	_, end, err = ParseRange("", "2024-02-13T08:00:00Z", now, time.UTC)
	if err != nil {
		t.Fatalf("ParseRange failed: %v", err)
	}
	if !end.Equal(time.Date(2024, 2, 13, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("timestamp end should be kept as given, got %v", end)
	}
}

func TestParseRangeRejectsBadInput(t *testing.T) {
	now := time.Now()
	if _, _, err := ParseRange("soon", "", now, time.UTC); !errors.Is(err, ErrValidation) {
		t.Errorf("bad from: err = %v, want ErrValidation", err)
	}
	if _, _, err := ParseRange("", "later", now, time.UTC); !errors.Is(err, ErrValidation) {
		t.Errorf("bad to: err = %v, want ErrValidation", err)
	}
}
