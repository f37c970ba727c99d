package errors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestTypeOfSeesThroughWrapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"validation", NewValidationError("bad"), ErrorTypeValidation},
		{"wrapped persistence", fmt.Errorf("save: %w", NewPersistenceError(errors.New("full"), "k")), ErrorTypePersistence},
		{"generation", NewInvalidPayloadError("weekly_tip", "empty"), ErrorTypeGeneration},
		{"foreign", errors.New("boom"), ErrorTypeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeOf(tt.err); got != tt.want {
				t.Errorf("TypeOf = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPredefinedErrorsMatchWithIs(t *testing.T) {
	err := fmt.Errorf("confirm: %w", ErrNoPendingResult)
	if !errors.Is(err, ErrNoPendingResult) {
		t.Fatal("errors.Is should match on type and code")
	}
	if errors.Is(err, ErrEmptyMeal) {
		t.Fatal("different codes must not match")
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(ErrEmptyDescription); got != "Please describe what you ate and how much" {
		t.Errorf("UserMessage = %q", got)
	}
	if !IsValidation(ErrEmptyDescription) || IsValidation(nil) {
		t.Error("IsValidation")
	}
}

func TestHandlerLogsBySeverity(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewTextHandler(&buf, nil)))

	h.Handle(context.Background(), NewGenerationError(errors.New("timeout"), "weekly_tip"))
	h.Handle(context.Background(), errors.New("boom"))
	h.Handle(context.Background(), nil)

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "artifact_kind=weekly_tip") {
		t.Errorf("generation error not logged as warning:\n%s", out)
	}
	if !strings.Contains(out, "level=ERROR") {
		t.Errorf("foreign error not logged as error:\n%s", out)
	}
}
