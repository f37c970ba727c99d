package menus

import (
	"fmt"
	"strings"

	"github.com/vladimiradmaev/footprint-helper/internal/domain"
	"github.com/vladimiradmaev/footprint-helper/internal/session"
)

// FormatItems lists food items, one per line
func FormatItems(items []domain.FoodItem) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString("• ")
		b.WriteString(item.Name)
		if item.Quantity != "" {
			fmt.Fprintf(&b, " (%s)", item.Quantity)
		}
		if item.Footprint != nil {
			fmt.Fprintf(&b, ": %.2f kg CO2e", *item.Footprint)
		} else {
			b.WriteString(": unknown")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatAnalysis describes a meal waiting for confirmation
func FormatAnalysis(a session.Analysis) string {
	var b strings.Builder
	b.WriteString("🍽️ Here is what I found:\n\n")
	b.WriteString(FormatItems(a.Items))
	fmt.Fprintf(&b, "\nTotal: %.2f kg CO2e", a.Total)
	if a.Fallback {
		b.WriteString("\n\n⚠️ Estimated from the footprint table, the assistant is unavailable.")
	}
	b.WriteString("\n\nLog this meal?")
	return b.String()
}

// FormatLogResult confirms a logged meal with the updated progress
func FormatLogResult(r session.LogResult) string {
	var b strings.Builder
	e := r.View.Entry
	fmt.Fprintf(&b, "✅ %s logged: %.2f kg CO2e\n", e.Slot, e.TotalFootprint)
	fmt.Fprintf(&b, "🔥 Streak: %d day(s)\n", r.Streak.Effective)
	if !r.View.Persisted {
		b.WriteString("⚠️ Storage is full, this meal is kept only until the bot restarts.\n")
	}
	if c := r.Challenges.Daily; c != nil && c.IsCompleted {
		fmt.Fprintf(&b, "🏆 Daily challenge done: %s\n", c.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatStreak renders the streak view
func FormatStreak(v session.StreakView) string {
	switch {
	case v.Effective == 0 && v.State.Current > 0:
		return fmt.Sprintf("🔥 Your %d-day streak ended on %s. Log a meal today to start a new one.", v.State.Current, v.State.LastLogDate)
	case v.Effective == 0:
		return "🔥 No streak yet. Log a meal to start one."
	default:
		return fmt.Sprintf("🔥 %d day(s) in a row. Last meal logged on %s.", v.Effective, v.State.LastLogDate)
	}
}

// FormatChallenges renders both challenges with progress
func FormatChallenges(set session.ChallengeSet) string {
	var b strings.Builder
	if d := set.Daily; d != nil {
		fmt.Fprintf(&b, "📅 Today (%s): %s\n%s\n", d.Date, d.Description, status(d.IsCompleted))
	} else {
		b.WriteString("📅 No daily challenge.\n")
	}
	b.WriteString("\n")
	if w := set.Weekly; w != nil {
		fmt.Fprintf(&b, "🗓️ This week (%s to %s): %s\n", w.StartDate, w.EndDate, w.Description)
		fmt.Fprintf(&b, "Progress: %s\n%s", progress(*w), status(w.IsCompleted))
	} else {
		b.WriteString("🗓️ No weekly challenge.")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatSwaps lists food swap suggestions
func FormatSwaps(swaps []domain.FoodSwap) string {
	var b strings.Builder
	b.WriteString("🔄 Lower-footprint swaps:\n")
	for _, s := range swaps {
		fmt.Fprintf(&b, "\n• %s → %s", s.From, s.To)
		if s.Savings > 0 {
			fmt.Fprintf(&b, " (saves ~%.1f kg CO2e)", s.Savings)
		}
		if s.Reason != "" {
			fmt.Fprintf(&b, "\n  %s", s.Reason)
		}
	}
	return b.String()
}

func status(done bool) string {
	if done {
		return "✅ Completed"
	}
	return "⏳ In progress"
}

func progress(w domain.WeeklyChallenge) string {
	if w.Kind == domain.WeeklyCO2eUnder {
		return fmt.Sprintf("%.2f of max %.2f kg CO2e", w.CurrentValue, w.Target)
	}
	return fmt.Sprintf("%.0f / %.0f", w.CurrentValue, w.Target)
}
