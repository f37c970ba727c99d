package utils

import "testing"

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		from, to string
		want     int
	}{
		{"2024-01-01", "2024-01-02", 1},
		{"2024-01-02", "2024-01-01", -1},
		{"2024-02-28", "2024-03-01", 2},
		{"2023-12-31", "2024-01-01", 1},
	}
	for _, tt := range tests {
		got, err := DaysBetween(tt.from, tt.to)
		if err != nil {
			t.Fatalf("DaysBetween(%s, %s): %v", tt.from, tt.to, err)
		}
		if got != tt.want {
			t.Errorf("DaysBetween(%s, %s) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}

	if _, err := DaysBetween("yesterday", "2024-01-01"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestWeekBounds(t *testing.T) {
	tests := []struct {
		date, start, end string
	}{
		{"2024-01-01", "2024-01-01", "2024-01-07"}, // Monday
		{"2024-01-03", "2024-01-01", "2024-01-07"},
		{"2024-01-07", "2024-01-01", "2024-01-07"}, // Sunday
		{"2024-03-01", "2024-02-26", "2024-03-03"},
	}
	for _, tt := range tests {
		start, end, err := WeekBounds(tt.date)
		if err != nil {
			t.Fatalf("WeekBounds(%s): %v", tt.date, err)
		}
		if start != tt.start || end != tt.end {
			t.Errorf("WeekBounds(%s) = %s..%s, want %s..%s", tt.date, start, end, tt.start, tt.end)
		}
	}
}

func TestAddDaysAndInRange(t *testing.T) {
	got, err := AddDays("2024-01-31", 1)
	if err != nil || got != "2024-02-01" {
		t.Fatalf("AddDays = %q, %v", got, err)
	}
	if !InRange("2024-01-07", "2024-01-01", "2024-01-07") || InRange("2024-01-08", "2024-01-01", "2024-01-07") {
		t.Error("InRange bounds are inclusive")
	}
}
