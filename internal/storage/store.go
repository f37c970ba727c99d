// Package storage provides the key-value persistence surface used by
// user sessions. Every backend may refuse a write; callers treat that as
// best-effort and keep their in-memory state.
package storage

import (
	"context"
	"fmt"

	apperrors "github.com/vladimiradmaev/footprint-helper/internal/errors"
)

// KVStore is a string key-value store scoped by a size limit
type KVStore interface {
	// Get returns the value and whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// ErrQuotaExceeded is returned by backends that enforce a size limit
var ErrQuotaExceeded = apperrors.ErrQuotaExceeded

// Key namespaces a record name by owner identity
func Key(userID, name string) string {
	return fmt.Sprintf("footprint:%s:%s", userID, name)
}

// Record names used by the session
const (
	MealsRecord          = "meals"
	StreakRecord         = "streak"
	DailyChallengeRecord = "challenge:daily"
	WeekChallengeRecord  = "challenge:weekly"
)

// CacheRecord is the record name for a cached artifact kind
func CacheRecord(kind string) string {
	return "cache:" + kind
}
