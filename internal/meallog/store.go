// Package meallog holds the append-only meal log that every derived
// per-user state (streak, challenges, summaries) is computed from.
package meallog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vladimiradmaev/footprint-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/footprint-helper/internal/errors"
	"github.com/vladimiradmaev/footprint-helper/internal/logger"
	"github.com/vladimiradmaev/footprint-helper/internal/storage"
	"github.com/vladimiradmaev/footprint-helper/internal/utils"
)

const (
	DefaultPersistCap = 20
	DefaultMemoryCap  = 100
)

// NewMeal is the input of Append
type NewMeal struct {
	Items          []domain.FoodItem
	TotalFootprint float64 // when zero, the sum of item footprints is used
	Description    string
	PhotoKey       string
	Image          []byte
}

// DerivedLogView is what Append hands back to the caller
type DerivedLogView struct {
	Entry     domain.MealLogEntry
	Entries   []domain.MealLogEntry // newest first
	Persisted bool
}

// Listener is notified after every change with a newest-first snapshot
type Listener func(ctx context.Context, entries []domain.MealLogEntry)

// Options tunes a Store. Zero values fall back to defaults.
type Options struct {
	PersistCap int
	MemoryCap  int
	Location   *time.Location
	Now        func() time.Time
}

func (o Options) withDefaults() Options {
	if o.PersistCap <= 0 {
		o.PersistCap = DefaultPersistCap
	}
	if o.MemoryCap < o.PersistCap {
		o.MemoryCap = max(DefaultMemoryCap, o.PersistCap)
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Store is one user's meal log. It is not safe for concurrent use; the
// owning session serializes access.
type Store struct {
	kv        storage.KVStore
	userID    string
	opts      Options
	entries   []domain.MealLogEntry
	listeners []Listener
	log       *slog.Logger
}

func NewStore(kv storage.KVStore, userID string, opts Options) *Store {
	return &Store{
		kv:     kv,
		userID: userID,
		opts:   opts.withDefaults(),
		log:    logger.WithUser(userID),
	}
}

func (s *Store) key() string {
	return storage.Key(s.userID, storage.MealsRecord)
}

// Load replaces the in-memory log with the persisted projection. A missing,
// unreadable or corrupt projection leaves the log empty.
func (s *Store) Load(ctx context.Context) {
	s.entries = nil

	raw, ok, err := s.kv.Get(ctx, s.key())
	if err != nil {
		s.log.Warn("Failed to read meal log", apperrors.NewPersistenceError(err, s.key()).LogFields()...)
		return
	}
	if !ok {
		return
	}

	var entries []domain.MealLogEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.log.Warn("Discarding corrupt meal log", "error", err)
		if err := s.kv.Remove(ctx, s.key()); err != nil {
			s.log.Warn("Failed to remove corrupt meal log", "error", err)
		}
		return
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	s.entries = entries
	s.log.Debug("Meal log loaded", "entries", len(entries))
}

// Subscribe registers fn to run after every append or clear
func (s *Store) Subscribe(fn Listener) {
	s.listeners = append(s.listeners, fn)
}

// Append validates and records a meal. Only validation errors are
// returned; a failed persist is logged and reported through the view.
func (s *Store) Append(ctx context.Context, meal NewMeal) (DerivedLogView, error) {
	items, total, err := normalize(meal)
	if err != nil {
		return DerivedLogView{}, err
	}

	now := s.opts.Now().In(s.opts.Location)
	entry := domain.MealLogEntry{
		ID:             uuid.NewString(),
		UserID:         s.userID,
		Date:           utils.FormatDate(now),
		Timestamp:      now,
		Items:          items,
		TotalFootprint: total,
		Slot:           domain.SlotForHour(now.Hour()),
		Description:    strings.TrimSpace(meal.Description),
		PhotoKey:       meal.PhotoKey,
		Image:          meal.Image,
	}

	s.entries = append([]domain.MealLogEntry{entry}, s.entries...)
	if len(s.entries) > s.opts.MemoryCap {
		s.entries = s.entries[:s.opts.MemoryCap]
	}

	persisted := s.persist(ctx)
	s.log.Info("Meal logged",
		"date", entry.Date,
		"slot", entry.Slot,
		"items", len(entry.Items),
		"total_kg_co2e", entry.TotalFootprint,
		"persisted", persisted,
	)

	snapshot := s.Entries()
	s.notify(ctx, snapshot)

	return DerivedLogView{
		Entry:     entry.Clone(),
		Entries:   snapshot,
		Persisted: persisted,
	}, nil
}

// Clear drops the whole log, in memory and in storage
func (s *Store) Clear(ctx context.Context) {
	s.entries = nil
	if err := s.kv.Remove(ctx, s.key()); err != nil {
		s.log.Warn("Failed to remove meal log", apperrors.NewPersistenceError(err, s.key()).LogFields()...)
	}
	s.notify(ctx, nil)
}

// Entries returns a newest-first copy of the in-memory log
func (s *Store) Entries() []domain.MealLogEntry {
	out := make([]domain.MealLogEntry, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Clone()
	}
	return out
}

// Len returns the number of entries held in memory
func (s *Store) Len() int {
	return len(s.entries)
}

func (s *Store) persist(ctx context.Context) bool {
	n := min(len(s.entries), s.opts.PersistCap)
	data, err := json.Marshal(s.entries[:n])
	if err != nil {
		s.log.Error("Failed to encode meal log", "error", err)
		return false
	}
	if err := s.kv.Set(ctx, s.key(), string(data)); err != nil {
		s.log.Warn("Meal log not persisted, keeping in-memory state",
			apperrors.NewPersistenceError(err, s.key()).LogFields()...)
		return false
	}
	return true
}

func (s *Store) notify(ctx context.Context, snapshot []domain.MealLogEntry) {
	for _, fn := range s.listeners {
		fn(ctx, snapshot)
	}
}

func normalize(meal NewMeal) ([]domain.FoodItem, float64, error) {
	if len(meal.Items) == 0 {
		return nil, 0, apperrors.ErrEmptyMeal
	}

	items := make([]domain.FoodItem, 0, len(meal.Items))
	var sum float64
	for i, item := range meal.Items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, 0, apperrors.NewValidationError(fmt.Sprintf("Food item %d has no name", i+1))
		}
		out := domain.FoodItem{Name: name, Quantity: strings.TrimSpace(item.Quantity)}
		if item.Footprint != nil {
			fp := *item.Footprint
			if fp < 0 || math.IsNaN(fp) || math.IsInf(fp, 0) {
				return nil, 0, apperrors.NewValidationError(fmt.Sprintf("Footprint of %q must be zero or more", name))
			}
			out.Footprint = &fp
			sum += fp
		}
		items = append(items, out)
	}

	total := meal.TotalFootprint
	if total < 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, 0, apperrors.NewValidationError("Total footprint must be zero or more")
	}
	if total == 0 {
		total = sum
	}
	return items, total, nil
}
