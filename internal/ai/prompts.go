package ai

import (
	"fmt"
)

const persona = `You are a friendly sustainability coach who helps people lower the carbon footprint of their meals.
Footprints are in kilograms of CO2-equivalent (kg CO2e).`

// WeeklyTipPrompt asks for one short, practical tip based on the past week
func WeeklyTipPrompt(summary string) string {
	return fmt.Sprintf(`%s

Here is what the user ate over the past week:
%s

Write ONE practical tip (at most 3 sentences) that would reduce their food footprint next week.
Refer to specific meals when possible. Reply with plain text only.`, persona, summary)
}

// RecommendationPrompt asks for a general recommendation paragraph
func RecommendationPrompt(summary string) string {
	return fmt.Sprintf(`%s

Recent meals:
%s

Give a short, encouraging overall recommendation (one paragraph) about the user's eating pattern and its climate impact.
Reply with plain text only.`, persona, summary)
}

// FoodSwapsPrompt asks for structured swap suggestions
func FoodSwapsPrompt(summary string) string {
	return fmt.Sprintf(`%s

Recent meals:
%s

Suggest up to 3 food swaps that would lower the footprint of these meals.
Respond ONLY with a JSON object of this exact shape:
{"swaps": [{"from": "beef burger", "to": "bean burger", "savings": 2.5, "reason": "..."}]}
"savings" is the estimated kg CO2e saved per portion.`, persona, summary)
}

// ChatPrompt answers a free-form question with the user's log as context
func ChatPrompt(summary, question string) string {
	return fmt.Sprintf(`%s

The user's recent meals:
%s

User question: %s

Answer concisely (at most 5 sentences) in plain text.`, persona, summary, question)
}

// DailyChallengePrompt asks for a challenge for a single day
func DailyChallengePrompt(summary, date string) string {
	return fmt.Sprintf(`%s

Recent meals:
%s

Create one achievable challenge for %s. Pick exactly one "kind" from:
- "log_plant_based": log a plant-based meal (footprint below target, default 0.7)
- "co2e_under_today": keep today's total at or below target kg CO2e (default 2.5)
- "avoid_red_meat_meal": log at least one meal without red meat
- "log_three_meals": log breakfast, lunch and dinner
- "log_low_co2e_meal": log a meal below target kg CO2e (default 0.5)

Respond ONLY with a JSON object:
{"kind": "...", "description": "one motivating sentence", "target": 0.7}
Omit "target" for kinds that do not use one.`, persona, summary, date)
}

// WeeklyChallengePrompt asks for a challenge spanning a Monday..Sunday week
func WeeklyChallengePrompt(summary, start, end string) string {
	return fmt.Sprintf(`%s

Recent meals:
%s

Create one challenge for the week %s to %s. Pick exactly one "kind" from:
- "weekly_co2e_under": keep the week's total footprint at or below target kg CO2e
- "plant_based_meals_count": log at least target meals under 0.7 kg CO2e
- "log_days_count": log meals on at least target different days

Respond ONLY with a JSON object:
{"kind": "...", "description": "one motivating sentence", "target": 14}`, persona, summary, start, end)
}

// MealAnalysisPrompt asks for the food items of a meal with per-item footprints
func MealAnalysisPrompt(description string, hasPhoto bool) string {
	source := "the user's description"
	if hasPhoto {
		source = "the photo and the user's description"
	}
	return fmt.Sprintf(`%s

Identify the food items of this meal from %s and estimate the footprint of each item for the given quantities.
User description: %q

Respond ONLY with a JSON object:
{"items": [{"name": "rice", "quantity": "200 g", "footprint": 0.54}]}
Use an empty "items" array if there is no food.`, persona, source, description)
}
