package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// now is the clock used by commands that default to today.
var now = time.Now

// parseDay parses a YYYY-MM-DD flag value. Empty means the zero time, and
// "today" resolves against the command clock.
func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return time.Time{}, nil
	case "today":
		y, m, d := now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	day, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return day, nil
}

// parseOptionalDay is parseDay for flags where empty means "not set".
func parseOptionalDay(s string) (*time.Time, error) {
	day, err := parseDay(s)
	if err != nil || day.IsZero() {
		return nil, err
	}
	return &day, nil
}

// parseSinceDuration parses a human-friendly duration string like "7d", "30d",
// or "24h" and returns the corresponding time in the past.
func parseSinceDuration(s string) (time.Time, error) {
	current := now().UTC()
	s = strings.TrimSpace(s)
	if s == "" {
		return current.AddDate(0, 0, -7), nil
	}

	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid day duration %q", s)
		}
		return current.AddDate(0, 0, -days), nil
	}

	if strings.HasSuffix(s, "h") {
		hours, err := strconv.Atoi(strings.TrimSuffix(s, "h"))
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid hour duration %q", s)
		}
		return current.Add(-time.Duration(hours) * time.Hour), nil
	}

	return time.Time{}, fmt.Errorf("unsupported duration format %q (use e.g. 7d, 30d, 24h)", s)
}

func formatDue(due *time.Time) string {
	if due == nil {
		return "-"
	}
	return due.Format(time.DateOnly)
}
