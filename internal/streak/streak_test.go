package streak_test

import (
	"context"
	"testing"

	"github.com/vladimiradmaev/footprint-helper/internal/domain"
	"github.com/vladimiradmaev/footprint-helper/internal/storage"
	"github.com/vladimiradmaev/footprint-helper/internal/streak"
	"github.com/vladimiradmaev/footprint-helper/internal/utils"
)

func TestUpdate(t *testing.T) {
	cases := []struct {
		name  string
		state domain.StreakState
		date  string
		want  domain.StreakState
	}{
		{"first log", domain.StreakState{}, "2024-01-01", domain.StreakState{Current: 1, LastLogDate: "2024-01-01"}},
		{"same day keeps count", domain.StreakState{Current: 4, LastLogDate: "2024-01-01"}, "2024-01-01", domain.StreakState{Current: 4, LastLogDate: "2024-01-01"}},
		{"same day from zero", domain.StreakState{Current: 0, LastLogDate: "2024-01-01"}, "2024-01-01", domain.StreakState{Current: 1, LastLogDate: "2024-01-01"}},
		{"next day extends", domain.StreakState{Current: 4, LastLogDate: "2024-01-01"}, "2024-01-02", domain.StreakState{Current: 5, LastLogDate: "2024-01-02"}},
		{"month boundary", domain.StreakState{Current: 2, LastLogDate: "2024-01-31"}, "2024-02-01", domain.StreakState{Current: 3, LastLogDate: "2024-02-01"}},
		{"gap resets", domain.StreakState{Current: 9, LastLogDate: "2024-01-01"}, "2024-01-03", domain.StreakState{Current: 1, LastLogDate: "2024-01-03"}},
		{"backdated is a no-op", domain.StreakState{Current: 3, LastLogDate: "2024-01-05"}, "2024-01-04", domain.StreakState{Current: 3, LastLogDate: "2024-01-05"}},
		{"corrupt stored date restarts", domain.StreakState{Current: 3, LastLogDate: "yesterday"}, "2024-01-04", domain.StreakState{Current: 1, LastLogDate: "2024-01-04"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := streak.Update(tc.state, tc.date); got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

// The count equals 1 plus the consecutive-day steps since the last gap > 1.
func TestUpdateMatchesConsecutiveRunLength(t *testing.T) {
	offsets := []int{0, 1, 1, 2, 3, 5, 5, 6, 7, 8, 12, 13}
	var state domain.StreakState
	run := 0
	var prev int
	for i, off := range offsets {
		date, err := utils.AddDays("2024-01-01", off)
		if err != nil {
			t.Fatalf("add days: %v", err)
		}
		state = streak.Update(state, date)

		switch {
		case i == 0:
			run = 1
		case off-prev == 1:
			run++
		case off-prev > 1:
			run = 1
		}
		prev = off

		if state.Current != run {
			t.Fatalf("after offset %d expected streak %d, got %d", off, run, state.Current)
		}
	}
}

func TestEffective(t *testing.T) {
	state := domain.StreakState{Current: 5, LastLogDate: "2024-01-10"}
	if got := streak.Effective(state, "2024-01-10"); got != 5 {
		t.Fatalf("same day: expected 5, got %d", got)
	}
	if got := streak.Effective(state, "2024-01-11"); got != 5 {
		t.Fatalf("next day: expected 5, got %d", got)
	}
	if got := streak.Effective(state, "2024-01-12"); got != 0 {
		t.Fatalf("after a missed day: expected 0, got %d", got)
	}
	if got := streak.Effective(domain.StreakState{}, "2024-01-12"); got != 0 {
		t.Fatalf("empty state: expected 0, got %d", got)
	}
}

func TestTrackerPersists(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore(0)

	tracker := streak.NewTracker(kv, "u1")
	tracker.Load(ctx)
	tracker.Record(ctx, "2024-01-01")
	tracker.Record(ctx, "2024-01-02")

	reloaded := streak.NewTracker(kv, "u1")
	reloaded.Load(ctx)
	want := domain.StreakState{Current: 2, LastLogDate: "2024-01-02"}
	if reloaded.State() != want {
		t.Fatalf("expected %+v after reload, got %+v", want, reloaded.State())
	}

	other := streak.NewTracker(kv, "u2")
	other.Load(ctx)
	if other.State() != (domain.StreakState{}) {
		t.Fatalf("streaks must not leak across users, got %+v", other.State())
	}
}

func TestTrackerDiscardsCorruptState(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore(0)
	if err := kv.Set(ctx, storage.Key("u1", storage.StreakRecord), "]["); err != nil {
		t.Fatalf("seed: %v", err)
	}
	tracker := streak.NewTracker(kv, "u1")
	tracker.Load(ctx)
	if tracker.State() != (domain.StreakState{}) {
		t.Fatalf("expected empty state, got %+v", tracker.State())
	}
}
