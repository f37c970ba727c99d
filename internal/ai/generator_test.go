package ai_test

import (
	"context"
	"errors"
	"testing"

	"github.com/vladimiradmaev/footprint-helper/internal/ai"
	apperrors "github.com/vladimiradmaev/footprint-helper/internal/errors"
)

func reply(text string, err error) ai.GeneratorFunc {
	return func(context.Context, ai.Request) (string, error) { return text, err }
}

func TestRunPaths(t *testing.T) {
	ctx := context.Background()
	req := ai.Request{Kind: ai.KindWeeklyTip, Prompt: "tip"}
	parse := ai.ParseText(ai.KindWeeklyTip)

	ok := ai.Run(ctx, reply("  eat beans  ", nil), req, parse, "fallback")
	if ok.Fallback || ok.Value != "eat beans" || ok.Err != nil {
		t.Fatalf("expected generated value, got %+v", ok)
	}

	failed := ai.Run(ctx, reply("", errors.New("quota")), req, parse, "fallback")
	if !failed.Fallback || failed.Value != "fallback" {
		t.Fatalf("expected fallback on generator error, got %+v", failed)
	}
	if apperrors.TypeOf(failed.Err) != apperrors.ErrorTypeGeneration {
		t.Fatalf("expected generation error type, got %v", failed.Err)
	}

	empty := ai.Run(ctx, reply("   ", nil), req, parse, "fallback")
	if !empty.Fallback {
		t.Fatalf("expected fallback on invalid payload, got %+v", empty)
	}

	none := ai.Run[string](ctx, nil, req, parse, "fallback")
	if !none.Fallback || !errors.Is(none.Err, ai.ErrNoGenerator) {
		t.Fatalf("expected fallback without generator, got %+v", none)
	}
}

func TestChainFallsThroughProviders(t *testing.T) {
	var calls []string
	first := ai.GeneratorFunc(func(context.Context, ai.Request) (string, error) {
		calls = append(calls, "gemini")
		return "", errors.New("rate limited")
	})
	second := ai.GeneratorFunc(func(context.Context, ai.Request) (string, error) {
		calls = append(calls, "openai")
		return "ok", nil
	})

	out, err := ai.Chain{first, second}.Generate(context.Background(), ai.Request{})
	if err != nil || out != "ok" {
		t.Fatalf("expected second provider result, got %q %v", out, err)
	}
	if len(calls) != 2 {
		t.Fatalf("expected both providers tried, got %v", calls)
	}

	if _, err := (ai.Chain{first}).Generate(context.Background(), ai.Request{}); err == nil {
		t.Fatalf("expected error when every provider fails")
	}
	if _, err := (ai.Chain{}).Generate(context.Background(), ai.Request{}); !errors.Is(err, ai.ErrNoGenerator) {
		t.Fatalf("expected ErrNoGenerator for empty chain, got %v", err)
	}
}

func TestExtractJSON(t *testing.T) {
	got, err := ai.ExtractJSON("Sure!\n```json\n{\"kind\": \"x\"}\n```")
	if err != nil || got != `{"kind": "x"}` {
		t.Fatalf("unexpected extraction %q %v", got, err)
	}
	if _, err := ai.ExtractJSON("no json here"); err == nil {
		t.Fatalf("expected error without an object")
	}
}

func TestParseFoodSwaps(t *testing.T) {
	swaps, err := ai.ParseFoodSwaps(`{"swaps":[{"from":"beef","to":"beans","savings":3}]}`)
	if err != nil || len(swaps) != 1 || swaps[0].To != "beans" {
		t.Fatalf("unexpected swaps %+v %v", swaps, err)
	}
	for _, raw := range []string{`{"swaps":[]}`, `{"swaps":[{"from":"beef"}]}`, `[1,2]`} {
		if _, err := ai.ParseFoodSwaps(raw); err == nil {
			t.Errorf("expected %s to be rejected", raw)
		}
	}
}

func TestParseMealAnalysis(t *testing.T) {
	items, err := ai.ParseMealAnalysis(`{"items":[{"name":"rice","quantity":"200 g","footprint":0.5},{"name":"egg"}]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(items) != 2 || *items[0].Footprint != 0.5 || items[1].Footprint != nil {
		t.Fatalf("unexpected items %+v", items)
	}
	if _, err := ai.ParseMealAnalysis(`{"items":[{"name":"rice","footprint":-1}]}`); err == nil {
		t.Fatalf("expected negative footprint to be rejected")
	}
	if _, err := ai.ParseMealAnalysis(`{"items":[{"quantity":"1"}]}`); err == nil {
		t.Fatalf("expected nameless item to be rejected")
	}
}

func TestAnalyzeMeal(t *testing.T) {
	ctx := context.Background()
	if _, err := ai.AnalyzeMeal(ctx, reply("", nil), nil, "   "); !errors.Is(err, apperrors.ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}

	var got ai.Request
	gen := ai.GeneratorFunc(func(_ context.Context, req ai.Request) (string, error) {
		got = req
		return `{"items":[{"name":"falafel","quantity":"4 pieces"}]}`, nil
	})
	items, err := ai.AnalyzeMeal(ctx, gen, []byte{0xff}, "falafel wrap")
	if err != nil || len(items) != 1 || items[0].Name != "falafel" {
		t.Fatalf("unexpected analysis %+v %v", items, err)
	}
	if got.Kind != ai.KindMealAnalysis || len(got.Image) != 1 {
		t.Fatalf("expected image passed through, got %+v", got)
	}

	if _, err := ai.AnalyzeMeal(ctx, reply("", errors.New("down")), nil, "soup"); apperrors.TypeOf(err) != apperrors.ErrorTypeGeneration {
		t.Fatalf("expected generation error, got %v", err)
	}
}
