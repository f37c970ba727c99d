package utils

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used for all persisted dates
const DateLayout = "2006-01-02"

// FormatDate returns the calendar date of t in its own location
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a calendar date as midnight UTC. Only whole-day
// arithmetic is done on the result, so the zone does not matter.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", date, err)
	}
	return t, nil
}

// DaysBetween returns to - from in whole calendar days
func DaysBetween(from, to string) (int, error) {
	a, err := ParseDate(from)
	if err != nil {
		return 0, err
	}
	b, err := ParseDate(to)
	if err != nil {
		return 0, err
	}
	return int(b.Sub(a).Hours() / 24), nil
}

// AddDays shifts a calendar date by n days
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}

// WeekBounds returns the Monday and Sunday of the week containing date
func WeekBounds(date string) (start, end string, err error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", "", err
	}
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	monday := t.AddDate(0, 0, -offset)
	return monday.Format(DateLayout), monday.AddDate(0, 0, 6).Format(DateLayout), nil
}

// InRange reports whether start <= date <= end. Dates in DateLayout
// order lexically, so string comparison is enough.
func InRange(date, start, end string) bool {
	return date >= start && date <= end
}
