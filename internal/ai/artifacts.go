package ai

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/vladimiradmaev/footprint-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/footprint-helper/internal/errors"
)

// Fallback texts used when generation fails
const (
	FallbackWeeklyTip      = "Try swapping one red-meat meal this week for beans, lentils or tofu: it is the single biggest cut most diets can make."
	FallbackRecommendation = "Keep logging your meals. Plant-forward dishes, seasonal produce and less food waste are the most reliable ways to lower your footprint."
	FallbackChatAnswer     = "Sorry, I can't answer right now. Please try again in a few minutes."
)

// ParseFoodSwaps decodes {"swaps": [...]}; every swap needs from and to
func ParseFoodSwaps(raw string) ([]domain.FoodSwap, error) {
	payload, err := ExtractJSON(raw)
	if err != nil {
		return nil, apperrors.NewInvalidPayloadError(string(KindFoodSwaps), err.Error())
	}
	var body struct {
		Swaps []domain.FoodSwap `json:"swaps"`
	}
	if err := json.Unmarshal([]byte(payload), &body); err != nil {
		return nil, apperrors.NewInvalidPayloadError(string(KindFoodSwaps), err.Error())
	}
	if len(body.Swaps) == 0 {
		return nil, apperrors.NewInvalidPayloadError(string(KindFoodSwaps), "no swaps")
	}
	for _, s := range body.Swaps {
		if strings.TrimSpace(s.From) == "" || strings.TrimSpace(s.To) == "" {
			return nil, apperrors.NewInvalidPayloadError(string(KindFoodSwaps), "swap missing from/to")
		}
	}
	return body.Swaps, nil
}

// FallbackFoodSwaps is used when swap generation fails
func FallbackFoodSwaps() []domain.FoodSwap {
	return []domain.FoodSwap{
		{From: "beef", To: "lentils", Savings: 5.0, Reason: "Pulses have a fraction of the footprint of beef."},
		{From: "cheese", To: "hummus", Savings: 0.8},
		{From: "rice", To: "potatoes", Savings: 0.3},
	}
}

// ParseMealAnalysis decodes {"items": [...]} into validated food items
func ParseMealAnalysis(raw string) ([]domain.FoodItem, error) {
	payload, err := ExtractJSON(raw)
	if err != nil {
		return nil, apperrors.NewInvalidPayloadError(string(KindMealAnalysis), err.Error())
	}
	var body struct {
		Items []struct {
			Name      string   `json:"name"`
			Quantity  string   `json:"quantity"`
			Footprint *float64 `json:"footprint"`
		} `json:"items"`
	}
	if err := json.Unmarshal([]byte(payload), &body); err != nil {
		return nil, apperrors.NewInvalidPayloadError(string(KindMealAnalysis), err.Error())
	}
	if len(body.Items) == 0 {
		return nil, apperrors.NewInvalidPayloadError(string(KindMealAnalysis), "no items")
	}

	items := make([]domain.FoodItem, 0, len(body.Items))
	for _, it := range body.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return nil, apperrors.NewInvalidPayloadError(string(KindMealAnalysis), "item without name")
		}
		if it.Footprint != nil && (*it.Footprint < 0 || math.IsNaN(*it.Footprint)) {
			return nil, apperrors.NewInvalidPayloadError(string(KindMealAnalysis), "negative footprint")
		}
		items = append(items, domain.FoodItem{Name: name, Quantity: strings.TrimSpace(it.Quantity), Footprint: it.Footprint})
	}
	return items, nil
}

// AnalyzeMeal turns a photo and/or description into food items. Without
// either it fails validation; generation and payload failures are returned
// as generation errors so the caller can pick its own fallback.
func AnalyzeMeal(ctx context.Context, gen Generator, image []byte, description string) ([]domain.FoodItem, error) {
	description = strings.TrimSpace(description)
	if description == "" && len(image) == 0 {
		return nil, apperrors.ErrEmptyDescription
	}
	if gen == nil {
		return nil, apperrors.NewGenerationError(ErrNoGenerator, string(KindMealAnalysis))
	}

	raw, err := gen.Generate(ctx, Request{
		Kind:   KindMealAnalysis,
		Prompt: MealAnalysisPrompt(description, len(image) > 0),
		Image:  image,
	})
	if err != nil {
		return nil, apperrors.NewGenerationError(err, string(KindMealAnalysis))
	}
	return ParseMealAnalysis(raw)
}
