package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	wallClockLayout     = "2006-01-02T15:04:05"
	wallClockOutLayout  = "2006-01-02T15:04:05.000"
	wallClockFracLayout = "2006-01-02T15:04:05.999999999"

	// DateLayout is the calendar-date format used by TimeEntry.Date.
	DateLayout = "2006-01-02"
)

// WallClock is a local wall-clock timestamp with no timezone attached.
// Clients submit local times like "2025-10-07T14:30:00.000"; the value is
// stored and rendered back without any timezone conversion. A trailing "Z" is
// tolerated on input and stripped, not interpreted as UTC.
type WallClock struct {
	t time.Time
}

// ParseWallClock parses a local timestamp with or without a fractional part.
func ParseWallClock(s string) (WallClock, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(s), "Z")
	if trimmed == "" {
		return WallClock{}, fmt.Errorf("%w: empty timestamp", ErrInvalidInput)
	}

	layout := wallClockLayout
	if strings.Contains(trimmed, ".") {
		layout = wallClockFracLayout
	}
	t, err := time.Parse(layout, trimmed)
	if err != nil {
		return WallClock{}, fmt.Errorf("%w: invalid timestamp %q", ErrInvalidInput, s)
	}
	return WallClock{t: t}, nil
}

// ParseDate validates a calendar date in DateLayout and returns it verbatim.
func ParseDate(s string) (string, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("%w: invalid date %q", ErrInvalidInput, s)
	}
	return s, nil
}

// String renders the timestamp in the canonical wire format with
// milliseconds, e.g. "2025-10-07T14:30:00.000".
func (w WallClock) String() string {
	return w.t.Format(wallClockOutLayout)
}

// Time exposes the underlying naive time for ordering comparisons.
func (w WallClock) Time() time.Time {
	return w.t
}

// Equal reports whether two wall-clock values denote the same instant.
func (w WallClock) Equal(other WallClock) bool {
	return w.t.Equal(other.t)
}

// IsZero reports whether the value is the zero wall-clock time.
func (w WallClock) IsZero() bool {
	return w.t.IsZero()
}

// MarshalJSON renders the value as a JSON string in the wire format.
func (w WallClock) MarshalJSON() ([]byte, error) {
	return []byte(`"` + w.String() + `"`), nil
}

// UnmarshalJSON accepts the same inputs as ParseWallClock.
func (w *WallClock) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return fmt.Errorf("%w: null timestamp", ErrInvalidInput)
	}
	parsed, err := ParseWallClock(s)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}
