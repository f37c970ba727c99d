package challenge

import (
	"strings"

	"github.com/vladimiradmaev/footprint-helper/internal/domain"
	"github.com/vladimiradmaev/footprint-helper/internal/utils"
)

// EvaluateDaily checks c against the meals logged on c.Date. Completion
// is sticky: a completed challenge is returned unchanged.
func EvaluateDaily(c domain.DailyChallenge, logs []domain.MealLogEntry) domain.DailyChallenge {
	if c.IsCompleted {
		return c
	}

	var today []domain.MealLogEntry
	for _, e := range logs {
		if e.Date == c.Date {
			today = append(today, e)
		}
	}
	if len(today) == 0 {
		return c
	}

	target := DefaultTarget(c.Kind)
	if c.Target != nil {
		target = *c.Target
	}

	switch c.Kind {
	case domain.DailyLogPlantBased, domain.DailyLogLowCO2eMeal:
		for _, e := range today {
			if e.TotalFootprint < target {
				c.IsCompleted = true
				break
			}
		}
	case domain.DailyCO2eUnderToday:
		var sum float64
		for _, e := range today {
			sum += e.TotalFootprint
		}
		c.IsCompleted = sum <= target
	case domain.DailyAvoidRedMeat:
		for _, e := range today {
			if !ContainsRedMeat(e) {
				c.IsCompleted = true
				break
			}
		}
	case domain.DailyLogThreeMeals:
		slots := make(map[domain.MealSlot]struct{})
		for _, e := range today {
			slots[e.Slot] = struct{}{}
		}
		c.IsCompleted = len(slots) >= 3
	case domain.DailyLogAnyMeal:
		c.IsCompleted = true
	}
	return c
}

// EvaluateWeekly recomputes CurrentValue from the meals dated within
// [StartDate, EndDate] and marks the challenge completed once its
// condition holds. CurrentValue always reflects the logs; completion
// never reverts.
func EvaluateWeekly(c domain.WeeklyChallenge, logs []domain.MealLogEntry) domain.WeeklyChallenge {
	var week []domain.MealLogEntry
	for _, e := range logs {
		if utils.InRange(e.Date, c.StartDate, c.EndDate) {
			week = append(week, e)
		}
	}

	var met bool
	switch c.Kind {
	case domain.WeeklyCO2eUnder:
		var sum float64
		for _, e := range week {
			sum += e.TotalFootprint
		}
		c.CurrentValue = sum
		met = len(week) > 0 && sum <= c.Target
	case domain.WeeklyPlantBasedMeals:
		count := 0
		for _, e := range week {
			if e.TotalFootprint < PlantBasedThreshold {
				count++
			}
		}
		c.CurrentValue = float64(count)
		met = c.CurrentValue >= c.Target
	case domain.WeeklyLogDaysCount:
		days := make(map[string]struct{})
		for _, e := range week {
			days[e.Date] = struct{}{}
		}
		c.CurrentValue = float64(len(days))
		met = c.CurrentValue >= c.Target
	}

	c.IsCompleted = c.IsCompleted || met
	return c
}

// ContainsRedMeat reports whether any item name or the description of the
// meal mentions a red-meat keyword
func ContainsRedMeat(e domain.MealLogEntry) bool {
	texts := make([]string, 0, len(e.Items)+1)
	for _, item := range e.Items {
		texts = append(texts, item.Name)
	}
	texts = append(texts, e.Description)

	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, kw := range RedMeatKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}
