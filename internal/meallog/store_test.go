package meallog_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/vladimiradmaev/footprint-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/footprint-helper/internal/errors"
	"github.com/vladimiradmaev/footprint-helper/internal/meallog"
	"github.com/vladimiradmaev/footprint-helper/internal/storage"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type failingKV struct{ *storage.MemoryStore }

func (failingKV) Set(context.Context, string, string) error { return storage.ErrQuotaExceeded }

func fp(v float64) *float64 { return &v }

func newStore(t *testing.T, kv storage.KVStore, c *clock) *meallog.Store {
	t.Helper()
	return meallog.NewStore(kv, "user-1", meallog.Options{
		PersistCap: 20,
		MemoryCap:  50,
		Location:   time.UTC,
		Now:        c.Now,
	})
}

func TestAppendAssignsDateSlotAndOrder(t *testing.T) {
	ctx := context.Background()
	c := &clock{now: time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC)}
	store := newStore(t, storage.NewMemoryStore(0), c)

	first, err := store.Append(ctx, meallog.NewMeal{Items: []domain.FoodItem{{Name: " oats ", Quantity: "80 g", Footprint: fp(0.2)}}})
	if err != nil {
		t.Fatalf("append breakfast: %v", err)
	}
	if first.Entry.Date != "2024-01-01" || first.Entry.Slot != domain.Breakfast {
		t.Fatalf("unexpected date/slot: %s %s", first.Entry.Date, first.Entry.Slot)
	}
	if first.Entry.Items[0].Name != "oats" {
		t.Fatalf("expected trimmed name, got %q", first.Entry.Items[0].Name)
	}
	if first.Entry.TotalFootprint != 0.2 {
		t.Fatalf("expected total derived from items, got %v", first.Entry.TotalFootprint)
	}

	c.Advance(11 * time.Hour) // 19:30
	second, err := store.Append(ctx, meallog.NewMeal{Items: []domain.FoodItem{{Name: "pasta"}}, TotalFootprint: 1.1})
	if err != nil {
		t.Fatalf("append dinner: %v", err)
	}
	if second.Entry.Slot != domain.Dinner {
		t.Fatalf("expected dinner slot, got %s", second.Entry.Slot)
	}
	if len(second.Entries) != 2 || second.Entries[0].ID != second.Entry.ID {
		t.Fatalf("expected newest-first entries, got %+v", second.Entries)
	}
	if !second.Persisted {
		t.Fatalf("expected persisted view")
	}
}

func TestSlotForHourBands(t *testing.T) {
	cases := map[int]domain.MealSlot{
		0: domain.Dinner, 3: domain.Dinner, 4: domain.Breakfast, 9: domain.Breakfast,
		10: domain.Lunch, 17: domain.Lunch, 18: domain.Dinner, 23: domain.Dinner,
	}
	for hour, want := range cases {
		if got := domain.SlotForHour(hour); got != want {
			t.Errorf("hour %d: expected %s, got %s", hour, want, got)
		}
	}
}

func TestAppendValidation(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, storage.NewMemoryStore(0), &clock{now: time.Now()})

	cases := []struct {
		name string
		meal meallog.NewMeal
	}{
		{"no items", meallog.NewMeal{}},
		{"blank name", meallog.NewMeal{Items: []domain.FoodItem{{Name: "  "}}}},
		{"negative item footprint", meallog.NewMeal{Items: []domain.FoodItem{{Name: "rice", Footprint: fp(-1)}}}},
		{"negative total", meallog.NewMeal{Items: []domain.FoodItem{{Name: "rice"}}, TotalFootprint: -0.1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.Append(ctx, tc.meal)
			if !apperrors.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if store.Len() != 0 {
		t.Fatalf("invalid meals must not be appended, got %d entries", store.Len())
	}
}

func TestPersistedProjectionIsCapped(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore(0)
	c := &clock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := newStore(t, kv, c)

	for i := 0; i < 25; i++ {
		if _, err := store.Append(ctx, meallog.NewMeal{Items: []domain.FoodItem{{Name: "apple"}}, TotalFootprint: float64(i)}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		c.Advance(time.Minute)
	}
	if store.Len() != 25 {
		t.Fatalf("expected 25 entries in memory, got %d", store.Len())
	}

	raw, ok, _ := kv.Get(ctx, storage.Key("user-1", storage.MealsRecord))
	if !ok {
		t.Fatalf("expected persisted projection")
	}
	var persisted []domain.MealLogEntry
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		t.Fatalf("decode projection: %v", err)
	}
	if len(persisted) != 20 {
		t.Fatalf("expected 20 persisted entries, got %d", len(persisted))
	}
	if persisted[0].TotalFootprint != 24 || persisted[19].TotalFootprint != 5 {
		t.Fatalf("expected the most recent 20 entries, got first=%v last=%v", persisted[0].TotalFootprint, persisted[19].TotalFootprint)
	}
}

func TestRoundTripThroughPersistedProjection(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore(0)
	c := &clock{now: time.Date(2024, 3, 5, 13, 0, 0, 0, time.UTC)}
	store := newStore(t, kv, c)

	view, err := store.Append(ctx, meallog.NewMeal{
		Items: []domain.FoodItem{
			{Name: "lentil soup", Quantity: "300 g", Footprint: fp(0.35)},
			{Name: "bread", Quantity: "1 slice"},
		},
		TotalFootprint: 0.45,
		Image:          []byte{0xff, 0xd8},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	reloaded := newStore(t, kv, c)
	reloaded.Load(ctx)
	entries := reloaded.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 reloaded entry, got %d", len(entries))
	}
	got := entries[0]
	if got.Date != view.Entry.Date || got.TotalFootprint != 0.45 || len(got.Items) != 2 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Items[0].Name != "lentil soup" || got.Items[0].Quantity != "300 g" || *got.Items[0].Footprint != 0.35 {
		t.Fatalf("item mismatch: %+v", got.Items[0])
	}
	if got.Items[1].Footprint != nil {
		t.Fatalf("expected absent footprint to stay absent")
	}
	if got.Image != nil {
		t.Fatalf("photo payload must not be persisted")
	}
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, failingKV{storage.NewMemoryStore(0)}, &clock{now: time.Now()})

	view, err := store.Append(ctx, meallog.NewMeal{Items: []domain.FoodItem{{Name: "rice"}}})
	if err != nil {
		t.Fatalf("persist failure must not surface: %v", err)
	}
	if view.Persisted {
		t.Fatalf("expected Persisted=false")
	}
	if store.Len() != 1 {
		t.Fatalf("expected entry kept in memory")
	}
}

func TestLoadDiscardsCorruptProjection(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore(0)
	key := storage.Key("user-1", storage.MealsRecord)
	if err := kv.Set(ctx, key, "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	store := newStore(t, kv, &clock{now: time.Now()})
	store.Load(ctx)
	if store.Len() != 0 {
		t.Fatalf("expected empty log after corrupt projection")
	}
	if _, ok, _ := kv.Get(ctx, key); ok {
		t.Fatalf("expected corrupt projection removed")
	}
}

func TestSubscribersSeeEveryAppend(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, storage.NewMemoryStore(0), &clock{now: time.Now()})

	var calls, lastLen int
	store.Subscribe(func(_ context.Context, entries []domain.MealLogEntry) {
		calls++
		lastLen = len(entries)
	})

	for i := 0; i < 3; i++ {
		if _, err := store.Append(ctx, meallog.NewMeal{Items: []domain.FoodItem{{Name: "tofu"}}}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if calls != 3 || lastLen != 3 {
		t.Fatalf("expected 3 notifications ending with 3 entries, got %d/%d", calls, lastLen)
	}

	store.Clear(ctx)
	if calls != 4 || lastLen != 0 {
		t.Fatalf("expected clear to notify with empty log, got %d/%d", calls, lastLen)
	}
}

func TestEntriesAreCopies(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, storage.NewMemoryStore(0), &clock{now: time.Now()})
	if _, err := store.Append(ctx, meallog.NewMeal{Items: []domain.FoodItem{{Name: "beans", Footprint: fp(0.1)}}}); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries := store.Entries()
	entries[0].Items[0].Name = "beef"
	*entries[0].Items[0].Footprint = 9

	again := store.Entries()
	if again[0].Items[0].Name != "beans" || *again[0].Items[0].Footprint != 0.1 {
		t.Fatalf("stored entry was mutated through a returned copy: %+v", again[0].Items[0])
	}
}

func TestValidationErrorsAreTyped(t *testing.T) {
	store := newStore(t, storage.NewMemoryStore(0), &clock{now: time.Now()})
	_, err := store.Append(context.Background(), meallog.NewMeal{})
	if !errors.Is(err, apperrors.ErrEmptyMeal) {
		t.Fatalf("expected ErrEmptyMeal, got %v", err)
	}
}
