// Package session ties one user's meal log to everything derived from it:
// streak, challenges, cached advice and meal analysis. Every exported
// method serializes on the session mutex, so events from the same user are
// handled one at a time.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vladimiradmaev/footprint-helper/internal/ai"
	"github.com/vladimiradmaev/footprint-helper/internal/cache"
	"github.com/vladimiradmaev/footprint-helper/internal/challenge"
	"github.com/vladimiradmaev/footprint-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/footprint-helper/internal/errors"
	"github.com/vladimiradmaev/footprint-helper/internal/footprint"
	"github.com/vladimiradmaev/footprint-helper/internal/logger"
	"github.com/vladimiradmaev/footprint-helper/internal/meallog"
	"github.com/vladimiradmaev/footprint-helper/internal/photo"
	"github.com/vladimiradmaev/footprint-helper/internal/storage"
	"github.com/vladimiradmaev/footprint-helper/internal/streak"
	"github.com/vladimiradmaev/footprint-helper/internal/summary"
	"github.com/vladimiradmaev/footprint-helper/internal/utils"
)

// adviceWindowDays is the history given to the generator for advice
const adviceWindowDays = 7

// Deps are the collaborators shared by every session
type Deps struct {
	KV         storage.KVStore
	Generator  ai.Generator
	Photos     photo.Archive     // optional
	Footprints *footprint.Lookup // defaults to the bundled table

	PersistCap  int
	MemoryCap   int
	CacheWindow time.Duration
	Location    *time.Location
	Now         func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.KV == nil {
		d.KV = storage.NewMemoryStore(0)
	}
	if d.Footprints == nil {
		d.Footprints = footprint.Default()
	}
	if d.CacheWindow <= 0 {
		d.CacheWindow = cache.DefaultWindow
	}
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// Session is one user's context
type Session struct {
	mu     sync.Mutex
	userID string
	deps   Deps

	meals      *meallog.Store
	streak     *streak.Tracker
	challenges *challenge.Engine
	cache      *cache.Cache
	log        *slog.Logger
}

// StreakView is the stored streak plus what it amounts to today
type StreakView struct {
	State     domain.StreakState
	Effective int
}

// ChallengeSet holds the current challenges; either may be nil
type ChallengeSet struct {
	Daily  *domain.DailyChallenge
	Weekly *domain.WeeklyChallenge
}

// LogResult is returned by LogMeal
type LogResult struct {
	View       meallog.DerivedLogView
	Streak     StreakView
	Challenges ChallengeSet
}

// Artifact is a generated piece of advice
type Artifact[T any] struct {
	Value    T
	Cached   bool
	Fallback bool
}

// Analysis is a recognised meal waiting for the user to confirm it
type Analysis struct {
	Items       []domain.FoodItem `json:"items"`
	Total       float64           `json:"total"`
	Description string            `json:"description,omitempty"`
	Image       []byte            `json:"image,omitempty"`
	Fallback    bool              `json:"fallback,omitempty"`
}

// Meal converts the analysis into log input
func (a Analysis) Meal() meallog.NewMeal {
	return meallog.NewMeal{
		Items:          a.Items,
		TotalFootprint: a.Total,
		Description:    a.Description,
		Image:          a.Image,
	}
}

// Open restores a user's state from storage and wires recomputation of
// the streak and challenges to meal log changes
func Open(ctx context.Context, deps Deps, userID string) (*Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.NewValidationError("User identity is required")
	}
	deps = deps.withDefaults()

	s := &Session{
		userID: userID,
		deps:   deps,
		meals: meallog.NewStore(deps.KV, userID, meallog.Options{
			PersistCap: deps.PersistCap,
			MemoryCap:  deps.MemoryCap,
			Location:   deps.Location,
			Now:        deps.Now,
		}),
		streak: streak.NewTracker(deps.KV, userID),
		challenges: challenge.NewEngine(deps.KV, deps.Generator, userID, challenge.Options{
			Location: deps.Location,
			Now:      deps.Now,
		}),
		cache: cache.New(deps.KV, deps.Now),
		log:   logger.WithUser(userID),
	}

	s.meals.Load(ctx)
	s.streak.Load(ctx)
	s.challenges.Load(ctx)
	s.meals.Subscribe(s.onLogChange)
	s.challenges.Sync(ctx, s.meals.Entries())

	s.log.Info("Session opened", "entries", s.meals.Len(), "streak", s.streak.State().Current)
	return s, nil
}

// UserID returns the identity the session belongs to
func (s *Session) UserID() string {
	return s.userID
}

func (s *Session) onLogChange(ctx context.Context, entries []domain.MealLogEntry) {
	if len(entries) > 0 {
		s.streak.Record(ctx, entries[0].Date)
	}
	s.challenges.Evaluate(ctx, entries)
}

func (s *Session) now() time.Time {
	return s.deps.Now().In(s.deps.Location)
}

// LogMeal fills missing footprints, archives the photo if any and appends
// the meal. Only validation errors are returned.
func (s *Session) LogMeal(ctx context.Context, meal meallog.NewMeal) (LogResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meal.Items = s.deps.Footprints.Fill(meal.Items)
	if len(meal.Image) > 0 && meal.PhotoKey == "" && s.deps.Photos != nil {
		key, err := s.deps.Photos.Store(ctx, s.userID, meal.Image)
		if err != nil {
			s.log.Warn("Photo not archived", "error", err)
		} else {
			meal.PhotoKey = key
		}
	}

	// A new day needs its challenge before the meal is evaluated against it.
	s.challenges.Sync(ctx, s.meals.Entries())

	view, err := s.meals.Append(ctx, meal)
	if err != nil {
		return LogResult{}, err
	}
	return LogResult{
		View:       view,
		Streak:     s.streakView(),
		Challenges: s.challengeSet(),
	}, nil
}

// Entries returns the meal log, newest first
func (s *Session) Entries() []domain.MealLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meals.Entries()
}

// Summary renders the last days of the log
func (s *Session) Summary(days int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return summary.Summarize(s.meals.Entries(), days, s.now())
}

// Streak returns the current streak
func (s *Session) Streak() StreakView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streakView()
}

func (s *Session) streakView() StreakView {
	state := s.streak.State()
	return StreakView{State: state, Effective: streak.Effective(state, utils.FormatDate(s.now()))}
}

// Challenges replaces stale challenges and returns the current ones
func (s *Session) Challenges(ctx context.Context) ChallengeSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges.Sync(ctx, s.meals.Entries())
	return s.challengeSet()
}

// RefreshChallenges regenerates the selected challenges regardless of date
// and brings the other kind up to date, so callers need no prior Challenges
func (s *Session) RefreshChallenges(ctx context.Context, daily, weekly bool) ChallengeSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.meals.Entries()
	if daily {
		s.challenges.RefreshDaily(ctx, entries)
	}
	if weekly {
		s.challenges.RefreshWeekly(ctx, entries)
	}
	s.challenges.Sync(ctx, entries)
	return s.challengeSet()
}

func (s *Session) challengeSet() ChallengeSet {
	var set ChallengeSet
	if d, ok := s.challenges.Daily(); ok {
		set.Daily = &d
	}
	if w, ok := s.challenges.Weekly(); ok {
		set.Weekly = &w
	}
	return set
}

// WeeklyTip returns a tip for the coming week, cached for the cache window
func (s *Session) WeeklyTip(ctx context.Context, force bool) Artifact[string] {
	s.mu.Lock()
	defer s.mu.Unlock()
	prompt := ai.WeeklyTipPrompt(s.recentSummary())
	return cached(ctx, s, ai.KindWeeklyTip, force, prompt, ai.ParseText(ai.KindWeeklyTip), ai.FallbackWeeklyTip)
}

// Recommendation returns a general recommendation, cached
func (s *Session) Recommendation(ctx context.Context, force bool) Artifact[string] {
	s.mu.Lock()
	defer s.mu.Unlock()
	prompt := ai.RecommendationPrompt(s.recentSummary())
	return cached(ctx, s, ai.KindRecommendation, force, prompt, ai.ParseText(ai.KindRecommendation), ai.FallbackRecommendation)
}

// FoodSwaps returns lower-footprint alternatives to recent meals, cached
func (s *Session) FoodSwaps(ctx context.Context, force bool) Artifact[[]domain.FoodSwap] {
	s.mu.Lock()
	defer s.mu.Unlock()
	prompt := ai.FoodSwapsPrompt(s.recentSummary())
	return cached(ctx, s, ai.KindFoodSwaps, force, prompt, ai.ParseFoodSwaps, ai.FallbackFoodSwaps())
}

// Ask answers a free-form question with the log as context
func (s *Session) Ask(ctx context.Context, question string) (Artifact[string], error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Artifact[string]{}, apperrors.NewValidationError("Please type a question")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := ai.Run(ctx, s.deps.Generator, ai.Request{
		Kind:   ai.KindChatAnswer,
		Prompt: ai.ChatPrompt(s.recentSummary(), question),
	}, ai.ParseText(ai.KindChatAnswer), ai.FallbackChatAnswer)
	return Artifact[string]{Value: out.Value, Fallback: out.Fallback}, nil
}

// AnalyzePhoto recognises the foods in a photo and/or description. When
// generation fails the description is parsed against the footprint table.
func (s *Session) AnalyzePhoto(ctx context.Context, image []byte, description string) (Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	description = strings.TrimSpace(description)
	analysis := Analysis{Description: description, Image: image}

	items, err := ai.AnalyzeMeal(ctx, s.deps.Generator, image, description)
	switch {
	case err == nil:
	case apperrors.IsValidation(err):
		return Analysis{}, err
	default:
		s.log.Warn("Meal analysis failed, using footprint table", "error", err)
		items = s.deps.Footprints.ParseItems(description)
		analysis.Fallback = true
		if len(items) == 0 {
			return Analysis{}, apperrors.NewValidationError("I couldn't recognise this meal. Please describe what you ate.")
		}
	}

	analysis.Items = s.deps.Footprints.Fill(items)
	for _, item := range analysis.Items {
		if item.Footprint != nil {
			analysis.Total += *item.Footprint
		}
	}
	return analysis, nil
}

// Reset clears the log and everything derived from it
func (s *Session) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meals.Clear(ctx)
	s.streak.Reset(ctx)
	s.challenges.Reset(ctx)
	for _, kind := range []ai.ArtifactKind{ai.KindWeeklyTip, ai.KindRecommendation, ai.KindFoodSwaps} {
		s.cache.Invalidate(ctx, s.cacheKey(kind))
	}
	s.log.Info("Session reset")
}

func (s *Session) recentSummary() string {
	return summary.Summarize(s.meals.Entries(), adviceWindowDays, s.now())
}

func (s *Session) cacheKey(kind ai.ArtifactKind) string {
	return storage.Key(s.userID, storage.CacheRecord(string(kind)))
}

// cached serves kind from the cache or generates it. A fallback value is
// returned to the caller but never cached.
func cached[T any](ctx context.Context, s *Session, kind ai.ArtifactKind, force bool, prompt string, parse func(string) (T, error), fallback T) Artifact[T] {
	value, hit, err := cache.Get(ctx, s.cache, s.cacheKey(kind), s.deps.CacheWindow, force, func(ctx context.Context) (T, error) {
		out := ai.Run(ctx, s.deps.Generator, ai.Request{Kind: kind, Prompt: prompt}, parse, fallback)
		if out.Fallback {
			return out.Value, out.Err
		}
		return out.Value, nil
	})
	if err != nil {
		return Artifact[T]{Value: fallback, Fallback: true}
	}
	return Artifact[T]{Value: value, Cached: hit}
}
