// Package ai wraps the text/image generation backends. Every call site
// goes through Run, which substitutes a fallback value when the backend
// fails or returns something that does not parse.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/vladimiradmaev/footprint-helper/internal/errors"
	"github.com/vladimiradmaev/footprint-helper/internal/logger"
)

// ArtifactKind names what a generation request produces
type ArtifactKind string

const (
	KindWeeklyTip       ArtifactKind = "weekly_tip"
	KindRecommendation  ArtifactKind = "recommendation"
	KindFoodSwaps       ArtifactKind = "food_swaps"
	KindChatAnswer      ArtifactKind = "chat_answer"
	KindDailyChallenge  ArtifactKind = "daily_challenge"
	KindWeeklyChallenge ArtifactKind = "weekly_challenge"
	KindMealAnalysis    ArtifactKind = "meal_analysis"
)

// Request is a single generation call
type Request struct {
	Kind   ArtifactKind
	Prompt string
	Image  []byte // optional JPEG payload, passed through untouched
}

// Generator produces raw text for a request
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to Generator
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// ErrNoGenerator is returned when no backend is configured
var ErrNoGenerator = errors.New("no generation backend configured")

// Outcome is the result of a generation call site: either the parsed
// artifact or the fallback, with the error that caused the fallback.
type Outcome[T any] struct {
	Value    T
	Fallback bool
	Err      error
}

// Run calls gen, parses the response and falls back on any failure.
// Failures are logged, never returned.
func Run[T any](ctx context.Context, gen Generator, req Request, parse func(string) (T, error), fallback T) Outcome[T] {
	if gen == nil {
		return fallbackOutcome(ctx, req.Kind, ErrNoGenerator, fallback)
	}

	raw, err := gen.Generate(ctx, req)
	if err != nil {
		return fallbackOutcome(ctx, req.Kind, apperrors.NewGenerationError(err, string(req.Kind)), fallback)
	}

	value, err := parse(raw)
	if err != nil {
		return fallbackOutcome(ctx, req.Kind, err, fallback)
	}
	return Outcome[T]{Value: value}
}

func fallbackOutcome[T any](ctx context.Context, kind ArtifactKind, err error, fallback T) Outcome[T] {
	logger.GetLogger().WarnContext(ctx, "Generation failed, using fallback", "artifact_kind", kind, "error", err)
	return Outcome[T]{Value: fallback, Fallback: true, Err: err}
}

// Chain tries each generator in order and returns the first success
type Chain []Generator

func (c Chain) Generate(ctx context.Context, req Request) (string, error) {
	if len(c) == 0 {
		return "", ErrNoGenerator
	}
	var errs []error
	for i, g := range c {
		out, err := g.Generate(ctx, req)
		if err == nil {
			return out, nil
		}
		logger.Warn("Generation provider failed", "provider", i, "artifact_kind", req.Kind, "error", err)
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return "", errors.Join(errs...)
}

// ParseText accepts any non-empty response, trimmed
func ParseText(kind ArtifactKind) func(string) (string, error) {
	return func(raw string) (string, error) {
		text := strings.TrimSpace(raw)
		if text == "" {
			return "", apperrors.NewInvalidPayloadError(string(kind), "empty response")
		}
		return text, nil
	}
}

// ExtractJSON returns the outermost JSON object in s. It handles responses
// wrapped in code fences (```json ... ```) or surrounded by prose.
func ExtractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}
