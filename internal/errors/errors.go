package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// ErrorType classifies failures by how the session recovers from them
type ErrorType string

const (
	// ErrorTypeValidation is missing or malformed user input; shown to the user, operation aborted.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypePersistence is a failed KV write; logged, in-memory state stays authoritative.
	ErrorTypePersistence ErrorType = "persistence"
	// ErrorTypeGeneration is a failed or malformed generation call; replaced by a fallback.
	ErrorTypeGeneration ErrorType = "generation"
	// ErrorTypeNavigation is stale or missing UI flow state; the user is redirected.
	ErrorTypeNavigation ErrorType = "navigation"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]interface{}
	Source   string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches on type and code so predefined errors work with errors.Is
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}

	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  fmt.Sprintf("%s:%d", file, line),
		Context: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error into AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   fmt.Sprintf("%s:%d", file, line),
		Context:  make(map[string]interface{}),
	}
}

// TypeOf returns the ErrorType of err, or ErrorTypeInternal for foreign errors
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsValidation reports whether err should be shown to the user as-is
func IsValidation(err error) bool {
	return err != nil && TypeOf(err) == ErrorTypeValidation
}

// UserMessage returns the message to show for a validation error
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// Handler provides error handling strategies
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new error handler
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle logs an error at the severity its type calls for
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
		return
	}

	switch appErr.Type {
	case ErrorTypeValidation:
		h.logger.InfoContext(ctx, "Validation error", appErr.LogFields()...)
	case ErrorTypeNavigation:
		h.logger.InfoContext(ctx, "Navigation state missing", appErr.LogFields()...)
	case ErrorTypePersistence, ErrorTypeGeneration:
		h.logger.WarnContext(ctx, "Recoverable error", appErr.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Critical error", appErr.LogFields()...)
	}
}

// Predefined errors
var (
	ErrEmptyMeal        = New(ErrorTypeValidation, "EMPTY_MEAL", "A meal needs at least one food item")
	ErrEmptyDescription = New(ErrorTypeValidation, "EMPTY_DESCRIPTION", "Please describe what you ate and how much")
	ErrQuotaExceeded    = New(ErrorTypePersistence, "QUOTA_EXCEEDED", "Storage quota exceeded")
	ErrNoPendingResult  = New(ErrorTypeNavigation, "NO_PENDING_RESULT", "Nothing is waiting to be saved")
)

// NewValidationError reports bad user input
func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, "VALIDATION", message)
}

// NewPersistenceError wraps a failed KV operation
func NewPersistenceError(err error, key string) *AppError {
	return Wrap(err, ErrorTypePersistence, "PERSISTENCE", "Storage operation failed").
		WithContext("key", key)
}

// NewGenerationError wraps a failed generation call
func NewGenerationError(err error, kind string) *AppError {
	return Wrap(err, ErrorTypeGeneration, "GENERATION", fmt.Sprintf("%s generation failed", kind)).
		WithContext("artifact_kind", kind)
}

// NewInvalidPayloadError reports a structurally invalid generated payload
func NewInvalidPayloadError(kind, reason string) *AppError {
	return New(ErrorTypeGeneration, "INVALID_PAYLOAD", fmt.Sprintf("invalid %s payload: %s", kind, reason)).
		WithContext("artifact_kind", kind)
}

// NewNavigationError reports a flow step reached without its prerequisite state
func NewNavigationError(step string) *AppError {
	return New(ErrorTypeNavigation, "NAVIGATION", fmt.Sprintf("%s reached without pending state", step)).
		WithContext("step", step)
}

// NewInternalError wraps an unexpected failure
func NewInternalError(err error) *AppError {
	return Wrap(err, ErrorTypeInternal, "INTERNAL", "Internal error")
}
