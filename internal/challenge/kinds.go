package challenge

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/vladimiradmaev/footprint-helper/internal/ai"
	"github.com/vladimiradmaev/footprint-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/footprint-helper/internal/errors"
)

// PlantBasedThreshold is the per-meal footprint under which a meal counts as plant-based
const PlantBasedThreshold = 0.7

// RedMeatKeywords are matched case-insensitively as substrings
var RedMeatKeywords = []string{"beef", "lamb", "steak", "pork", "bacon", "sausage"}

type dailyRule struct {
	usesTarget    bool
	defaultTarget float64
}

var dailyRules = map[domain.DailyKind]dailyRule{
	domain.DailyLogPlantBased:  {usesTarget: true, defaultTarget: PlantBasedThreshold},
	domain.DailyCO2eUnderToday: {usesTarget: true, defaultTarget: 2.5},
	domain.DailyAvoidRedMeat:   {},
	domain.DailyLogThreeMeals:  {},
	domain.DailyLogLowCO2eMeal: {usesTarget: true, defaultTarget: 0.5},
	domain.DailyLogAnyMeal:     {},
}

type weeklyRule struct {
	isCount  bool
	maxValue float64 // 0 = unbounded
}

var weeklyRules = map[domain.WeeklyKind]weeklyRule{
	domain.WeeklyCO2eUnder:       {},
	domain.WeeklyPlantBasedMeals: {isCount: true},
	domain.WeeklyLogDaysCount:    {isCount: true, maxValue: 7},
}

// DailySpec is a validated daily challenge proposal
type DailySpec struct {
	Kind        domain.DailyKind
	Description string
	Target      *float64 // set only for kinds that use a target
}

// WeeklySpec is a validated weekly challenge proposal
type WeeklySpec struct {
	Kind        domain.WeeklyKind
	Description string
	Target      float64
}

type rawSpec struct {
	Kind        string   `json:"kind"`
	Description string   `json:"description"`
	Target      *float64 `json:"target"`
}

func decodeSpec(kind ai.ArtifactKind, raw string) (rawSpec, error) {
	payload, err := ai.ExtractJSON(raw)
	if err != nil {
		return rawSpec{}, apperrors.NewInvalidPayloadError(string(kind), err.Error())
	}
	var spec rawSpec
	if err := json.Unmarshal([]byte(payload), &spec); err != nil {
		return rawSpec{}, apperrors.NewInvalidPayloadError(string(kind), err.Error())
	}
	spec.Description = strings.TrimSpace(spec.Description)
	if spec.Description == "" {
		return rawSpec{}, apperrors.NewInvalidPayloadError(string(kind), "missing description")
	}
	if spec.Target != nil && (math.IsNaN(*spec.Target) || math.IsInf(*spec.Target, 0)) {
		return rawSpec{}, apperrors.NewInvalidPayloadError(string(kind), "target is not a number")
	}
	return spec, nil
}

// ParseDailySpec validates a generated daily challenge payload
func ParseDailySpec(raw string) (DailySpec, error) {
	spec, err := decodeSpec(ai.KindDailyChallenge, raw)
	if err != nil {
		return DailySpec{}, err
	}
	kind := domain.DailyKind(spec.Kind)
	rule, ok := dailyRules[kind]
	if !ok {
		return DailySpec{}, apperrors.NewInvalidPayloadError(string(ai.KindDailyChallenge), fmt.Sprintf("unknown kind %q", spec.Kind))
	}

	out := DailySpec{Kind: kind, Description: spec.Description}
	if rule.usesTarget {
		target := rule.defaultTarget
		if spec.Target != nil {
			if *spec.Target <= 0 {
				return DailySpec{}, apperrors.NewInvalidPayloadError(string(ai.KindDailyChallenge), "target must be positive")
			}
			target = *spec.Target
		}
		out.Target = &target
	}
	return out, nil
}

// ParseWeeklySpec validates a generated weekly challenge payload
func ParseWeeklySpec(raw string) (WeeklySpec, error) {
	spec, err := decodeSpec(ai.KindWeeklyChallenge, raw)
	if err != nil {
		return WeeklySpec{}, err
	}
	kind := domain.WeeklyKind(spec.Kind)
	rule, ok := weeklyRules[kind]
	if !ok {
		return WeeklySpec{}, apperrors.NewInvalidPayloadError(string(ai.KindWeeklyChallenge), fmt.Sprintf("unknown kind %q", spec.Kind))
	}
	if spec.Target == nil || *spec.Target <= 0 {
		return WeeklySpec{}, apperrors.NewInvalidPayloadError(string(ai.KindWeeklyChallenge), "target is required and must be positive")
	}

	target := *spec.Target
	if rule.isCount {
		target = math.Ceil(target)
	}
	if rule.maxValue > 0 && target > rule.maxValue {
		return WeeklySpec{}, apperrors.NewInvalidPayloadError(string(ai.KindWeeklyChallenge), fmt.Sprintf("target %.0f is not reachable", target))
	}
	return WeeklySpec{Kind: kind, Description: spec.Description, Target: target}, nil
}

// FallbackDailySpec is used when daily generation fails: log any meal
func FallbackDailySpec() DailySpec {
	return DailySpec{Kind: domain.DailyLogAnyMeal, Description: "Log any meal today."}
}

// FallbackWeeklySpec is used when weekly generation fails: log on 3 days
func FallbackWeeklySpec() WeeklySpec {
	return WeeklySpec{Kind: domain.WeeklyLogDaysCount, Description: "Log your meals on at least 3 different days this week.", Target: 3}
}

// KnownDailyKind reports whether kind belongs to the closed daily set
func KnownDailyKind(kind domain.DailyKind) bool {
	_, ok := dailyRules[kind]
	return ok
}

// KnownWeeklyKind reports whether kind belongs to the closed weekly set
func KnownWeeklyKind(kind domain.WeeklyKind) bool {
	_, ok := weeklyRules[kind]
	return ok
}

// DefaultTarget returns the target used when a daily challenge carries none
func DefaultTarget(kind domain.DailyKind) float64 {
	return dailyRules[kind].defaultTarget
}
