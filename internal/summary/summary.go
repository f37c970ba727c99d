// Package summary renders a window of the meal log as plain text for the
// generation service. The output is deterministic for a given log and day.
package summary

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vladimiradmaev/footprint-helper/internal/domain"
	"github.com/vladimiradmaev/footprint-helper/internal/utils"
)

// NoActivity is returned when no meal falls inside the window
const NoActivity = "No meals were logged in this period."

// Summarize renders the entries dated within [today-windowDays+1, today],
// one line per day in chronological order.
func Summarize(logs []domain.MealLogEntry, windowDays int, today time.Time) string {
	if windowDays <= 0 {
		windowDays = 1
	}
	end := utils.FormatDate(today)
	start := utils.FormatDate(today.AddDate(0, 0, -(windowDays - 1)))

	byDate := make(map[string][]domain.MealLogEntry)
	for _, e := range logs {
		if utils.InRange(e.Date, start, end) {
			byDate[e.Date] = append(byDate[e.Date], e)
		}
	}
	if len(byDate) == 0 {
		return NoActivity
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	lines := make([]string, 0, len(dates))
	for i, date := range dates {
		meals := byDate[date]
		sort.SliceStable(meals, func(a, b int) bool {
			return meals[a].Timestamp.Before(meals[b].Timestamp)
		})

		described := make([]string, len(meals))
		for j, m := range meals {
			described[j] = describeMeal(m)
		}
		lines = append(lines, fmt.Sprintf("Day %d (%s): %s", i+1, dayLabel(date), strings.Join(described, "; ")))
	}
	return strings.Join(lines, "\n")
}

func dayLabel(date string) string {
	t, err := utils.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("Mon 2006-01-02")
}

func describeMeal(m domain.MealLogEntry) string {
	items := make([]string, len(m.Items))
	for i, item := range m.Items {
		var details []string
		if item.Quantity != "" {
			details = append(details, item.Quantity)
		}
		if item.Footprint != nil {
			details = append(details, fmt.Sprintf("%.2f kg CO2e", *item.Footprint))
		}
		if len(details) > 0 {
			items[i] = fmt.Sprintf("%s (%s)", item.Name, strings.Join(details, ", "))
		} else {
			items[i] = item.Name
		}
	}
	return fmt.Sprintf("%s - total %.2f kg CO2e (%s)", strings.Join(items, ", "), m.TotalFootprint, m.Slot)
}
