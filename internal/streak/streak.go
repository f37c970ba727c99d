// Package streak derives the consecutive-day logging streak.
package streak

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/vladimiradmaev/footprint-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/footprint-helper/internal/errors"
	"github.com/vladimiradmaev/footprint-helper/internal/logger"
	"github.com/vladimiradmaev/footprint-helper/internal/storage"
	"github.com/vladimiradmaev/footprint-helper/internal/utils"
)

// Update returns the streak after a log dated newLogDate.
//
// A log on the same day as the last one keeps the count (bumping 0 to 1),
// the next day extends it, and any larger gap restarts at 1. A log dated
// before the last one leaves the state untouched.
func Update(state domain.StreakState, newLogDate string) domain.StreakState {
	if state.LastLogDate == "" {
		return domain.StreakState{Current: 1, LastLogDate: newLogDate}
	}

	d, err := utils.DaysBetween(state.LastLogDate, newLogDate)
	if err != nil {
		// Unreadable stored date: start over as if nothing was logged.
		return domain.StreakState{Current: 1, LastLogDate: newLogDate}
	}

	switch {
	case d < 0:
		return state
	case d == 0:
		if state.Current == 0 {
			state.Current = 1
		}
	case d == 1:
		state.Current++
	default:
		state.Current = 1
	}
	state.LastLogDate = newLogDate
	return state
}

// Effective is the count to display on today: a streak whose last log is
// older than yesterday is already broken and shows as 0.
func Effective(state domain.StreakState, today string) int {
	if state.LastLogDate == "" {
		return 0
	}
	d, err := utils.DaysBetween(state.LastLogDate, today)
	if err != nil || d > 1 {
		return 0
	}
	return state.Current
}

// Tracker keeps one user's streak and persists it after every change
type Tracker struct {
	kv     storage.KVStore
	userID string
	state  domain.StreakState
	log    *slog.Logger
}

func NewTracker(kv storage.KVStore, userID string) *Tracker {
	return &Tracker{kv: kv, userID: userID, log: logger.WithUser(userID)}
}

func (t *Tracker) key() string {
	return storage.Key(t.userID, storage.StreakRecord)
}

// Load restores the persisted streak. Corrupt data resets it.
func (t *Tracker) Load(ctx context.Context) {
	t.state = domain.StreakState{}
	raw, ok, err := t.kv.Get(ctx, t.key())
	if err != nil {
		t.log.Warn("Failed to read streak", apperrors.NewPersistenceError(err, t.key()).LogFields()...)
		return
	}
	if !ok {
		return
	}
	var state domain.StreakState
	if err := json.Unmarshal([]byte(raw), &state); err != nil || state.Current < 0 {
		t.log.Warn("Discarding corrupt streak", "raw", raw)
		_ = t.kv.Remove(ctx, t.key())
		return
	}
	t.state = state
}

// Record applies a new log date and persists the result best-effort
func (t *Tracker) Record(ctx context.Context, date string) domain.StreakState {
	next := Update(t.state, date)
	if next == t.state {
		return t.state
	}
	t.state = next

	data, err := json.Marshal(next)
	if err == nil {
		err = t.kv.Set(ctx, t.key(), string(data))
	}
	if err != nil {
		t.log.Warn("Streak not persisted", apperrors.NewPersistenceError(err, t.key()).LogFields()...)
	}
	t.log.Debug("Streak updated", "current", next.Current, "last_log_date", next.LastLogDate)
	return next
}

// Reset clears the streak, used when the meal log is cleared
func (t *Tracker) Reset(ctx context.Context) {
	t.state = domain.StreakState{}
	if err := t.kv.Remove(ctx, t.key()); err != nil {
		t.log.Warn("Failed to remove streak", "error", err)
	}
}

// State returns the current streak
func (t *Tracker) State() domain.StreakState {
	return t.state
}
