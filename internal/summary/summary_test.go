package summary_test

import (
	"strings"
	"testing"
	"time"

	"github.com/vladimiradmaev/footprint-helper/internal/domain"
	"github.com/vladimiradmaev/footprint-helper/internal/summary"
)

func fp(v float64) *float64 { return &v }

func entry(date string, hour int, total float64, items ...domain.FoodItem) domain.MealLogEntry {
	day, _ := time.Parse("2006-01-02", date)
	ts := day.Add(time.Duration(hour) * time.Hour)
	return domain.MealLogEntry{
		Date:           date,
		Timestamp:      ts,
		Items:          items,
		TotalFootprint: total,
		Slot:           domain.SlotForHour(hour),
	}
}

func TestSummarizeEmptyReturnsSentinel(t *testing.T) {
	today := time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC)
	if got := summary.Summarize(nil, 7, today); got != summary.NoActivity {
		t.Fatalf("expected sentinel, got %q", got)
	}
	if summary.NoActivity == "" {
		t.Fatalf("sentinel must not be empty")
	}

	old := []domain.MealLogEntry{entry("2023-12-31", 12, 1, domain.FoodItem{Name: "rice"})}
	if got := summary.Summarize(old, 7, today); got != summary.NoActivity {
		t.Fatalf("entries outside the window must be ignored, got %q", got)
	}
}

func TestSummarizeGroupsChronologically(t *testing.T) {
	today := time.Date(2024, 1, 7, 20, 0, 0, 0, time.UTC)
	logs := []domain.MealLogEntry{ // newest first, as the store hands them out
		entry("2024-01-07", 19, 2.0, domain.FoodItem{Name: "beef stew", Quantity: "300 g", Footprint: fp(2.0)}),
		entry("2024-01-07", 8, 0.3, domain.FoodItem{Name: "oats", Quantity: "80 g"}),
		entry("2024-01-02", 12, 0.4, domain.FoodItem{Name: "salad"}),
		entry("2023-12-31", 12, 5.0, domain.FoodItem{Name: "steak"}),
	}

	got := summary.Summarize(logs, 7, today)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 day lines, got %d:\n%s", len(lines), got)
	}

	wantFirst := "Day 1 (Tue 2024-01-02): salad - total 0.40 kg CO2e (Lunch)"
	if lines[0] != wantFirst {
		t.Fatalf("unexpected first line:\n got %q\nwant %q", lines[0], wantFirst)
	}
	wantSecond := "Day 2 (Sun 2024-01-07): oats (80 g) - total 0.30 kg CO2e (Breakfast); " +
		"beef stew (300 g, 2.00 kg CO2e) - total 2.00 kg CO2e (Dinner)"
	if lines[1] != wantSecond {
		t.Fatalf("unexpected second line:\n got %q\nwant %q", lines[1], wantSecond)
	}

	if again := summary.Summarize(logs, 7, today); again != got {
		t.Fatalf("summary must be deterministic")
	}
}

func TestSummarizeNonPositiveWindowMeansToday(t *testing.T) {
	today := time.Date(2024, 1, 7, 20, 0, 0, 0, time.UTC)
	logs := []domain.MealLogEntry{
		entry("2024-01-07", 12, 1, domain.FoodItem{Name: "rice"}),
		entry("2024-01-06", 12, 1, domain.FoodItem{Name: "beans"}),
	}
	got := summary.Summarize(logs, 0, today)
	if strings.Contains(got, "beans") || !strings.Contains(got, "rice") {
		t.Fatalf("expected only today's meal, got %q", got)
	}
}
