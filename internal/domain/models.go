package domain

import (
	"time"
)

// MealSlot is the part of the day a meal was logged in
type MealSlot string

const (
	Breakfast MealSlot = "Breakfast"
	Lunch     MealSlot = "Lunch"
	Dinner    MealSlot = "Dinner"
)

// SlotForHour maps a local hour to a meal slot: [4,10) breakfast,
// [10,18) lunch, everything else dinner.
func SlotForHour(hour int) MealSlot {
	switch {
	case hour >= 4 && hour < 10:
		return Breakfast
	case hour >= 10 && hour < 18:
		return Lunch
	default:
		return Dinner
	}
}

// FoodItem is one component of a meal
type FoodItem struct {
	Name      string   `json:"name"`
	Quantity  string   `json:"quantity"`
	Footprint *float64 `json:"footprint,omitempty"` // kg CO2e
}

// MealLogEntry is an immutable record of one logged meal
type MealLogEntry struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Date           string     `json:"date"` // YYYY-MM-DD, local
	Timestamp      time.Time  `json:"timestamp"`
	Items          []FoodItem `json:"items"`
	TotalFootprint float64    `json:"total_footprint"` // kg CO2e
	Slot           MealSlot   `json:"slot"`
	Description    string     `json:"description,omitempty"`
	PhotoKey       string     `json:"photo_key,omitempty"`

	// Image is the raw photo the meal was recognised from. Session-only.
	Image []byte `json:"-"`
}

// Clone returns a deep copy so callers cannot mutate stored entries
func (e MealLogEntry) Clone() MealLogEntry {
	out := e
	out.Items = make([]FoodItem, len(e.Items))
	for i, item := range e.Items {
		out.Items[i] = item
		if item.Footprint != nil {
			fp := *item.Footprint
			out.Items[i].Footprint = &fp
		}
	}
	if e.Image != nil {
		out.Image = append([]byte(nil), e.Image...)
	}
	return out
}

// StreakState is the consecutive-day logging streak
type StreakState struct {
	Current     int    `json:"current"`
	LastLogDate string `json:"last_log_date,omitempty"` // empty when nothing was logged yet
}

// DailyKind enumerates daily challenge rule templates
type DailyKind string

const (
	DailyLogPlantBased  DailyKind = "log_plant_based"
	DailyCO2eUnderToday DailyKind = "co2e_under_today"
	DailyAvoidRedMeat   DailyKind = "avoid_red_meat_meal"
	DailyLogThreeMeals  DailyKind = "log_three_meals"
	DailyLogLowCO2eMeal DailyKind = "log_low_co2e_meal"
	DailyLogAnyMeal     DailyKind = "log_any_meal"
)

// WeeklyKind enumerates weekly challenge rule templates
type WeeklyKind string

const (
	WeeklyCO2eUnder       WeeklyKind = "weekly_co2e_under"
	WeeklyPlantBasedMeals WeeklyKind = "plant_based_meals_count"
	WeeklyLogDaysCount    WeeklyKind = "log_days_count"
)

// DailyChallenge is valid for a single calendar date
type DailyChallenge struct {
	ID           string    `json:"id"`
	Description  string    `json:"description"`
	Kind         DailyKind `json:"kind"`
	Target       *float64  `json:"target,omitempty"`
	IsCompleted  bool      `json:"is_completed"`
	Date         string    `json:"date"`
	FromFallback bool      `json:"from_fallback,omitempty"`
}

// WeeklyChallenge spans a Monday..Sunday window
type WeeklyChallenge struct {
	ID           string     `json:"id"`
	Description  string     `json:"description"`
	Kind         WeeklyKind `json:"kind"`
	Target       float64    `json:"target"`
	CurrentValue float64    `json:"current_value"`
	StartDate    string     `json:"start_date"`
	EndDate      string     `json:"end_date"`
	IsCompleted  bool       `json:"is_completed"`
	FromFallback bool       `json:"from_fallback,omitempty"`
}

// CachedArtifact is a generated value with the time it was produced
type CachedArtifact[T any] struct {
	Value    T         `json:"value"`
	CachedAt time.Time `json:"cached_at"`
}

// FoodSwap suggests a lower-footprint replacement for a logged food
type FoodSwap struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Savings float64 `json:"savings"` // kg CO2e per portion
	Reason  string  `json:"reason,omitempty"`
}
