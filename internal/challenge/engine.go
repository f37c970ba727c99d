package challenge

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vladimiradmaev/footprint-helper/internal/ai"
	"github.com/vladimiradmaev/footprint-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/footprint-helper/internal/errors"
	"github.com/vladimiradmaev/footprint-helper/internal/logger"
	"github.com/vladimiradmaev/footprint-helper/internal/storage"
	"github.com/vladimiradmaev/footprint-helper/internal/summary"
	"github.com/vladimiradmaev/footprint-helper/internal/utils"
)

// contextDays is how much history the generator sees when proposing a challenge
const contextDays = 7

// Options tunes an Engine. Zero values fall back to defaults.
type Options struct {
	Location *time.Location
	Now      func() time.Time
}

// Engine owns one user's daily and weekly challenge: it creates them
// through the generator, evaluates them against the meal log and
// persists them. Not safe for concurrent use.
type Engine struct {
	kv     storage.KVStore
	gen    ai.Generator
	userID string
	loc    *time.Location
	now    func() time.Time
	daily  *domain.DailyChallenge
	weekly *domain.WeeklyChallenge
	log    *slog.Logger
}

func NewEngine(kv storage.KVStore, gen ai.Generator, userID string, opts Options) *Engine {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		kv:     kv,
		gen:    gen,
		userID: userID,
		loc:    opts.Location,
		now:    opts.Now,
		log:    logger.WithUser(userID),
	}
}

func (e *Engine) localNow() time.Time {
	return e.now().In(e.loc)
}

func (e *Engine) today() string {
	return utils.FormatDate(e.localNow())
}

// Load restores persisted challenges. Corrupt or unknown ones are dropped
// and will be regenerated on the next Sync.
func (e *Engine) Load(ctx context.Context) {
	e.daily, e.weekly = nil, nil

	var daily domain.DailyChallenge
	if e.read(ctx, storage.DailyChallengeRecord, &daily) {
		if KnownDailyKind(daily.Kind) && daily.Date != "" {
			e.daily = &daily
		} else {
			e.drop(ctx, storage.DailyChallengeRecord)
		}
	}

	var weekly domain.WeeklyChallenge
	if e.read(ctx, storage.WeekChallengeRecord, &weekly) {
		if KnownWeeklyKind(weekly.Kind) && weekly.StartDate != "" && weekly.Target > 0 {
			e.weekly = &weekly
		} else {
			e.drop(ctx, storage.WeekChallengeRecord)
		}
	}
}

// Daily returns a copy of the current daily challenge, if any
func (e *Engine) Daily() (domain.DailyChallenge, bool) {
	if e.daily == nil {
		return domain.DailyChallenge{}, false
	}
	c := *e.daily
	if c.Target != nil {
		t := *c.Target
		c.Target = &t
	}
	return c, true
}

// Weekly returns a copy of the current weekly challenge, if any
func (e *Engine) Weekly() (domain.WeeklyChallenge, bool) {
	if e.weekly == nil {
		return domain.WeeklyChallenge{}, false
	}
	return *e.weekly, true
}

// Sync replaces missing or stale challenges and evaluates both against logs.
// The daily one is stale once the date rolls over; the weekly one once the
// current week's Monday differs from its start.
func (e *Engine) Sync(ctx context.Context, logs []domain.MealLogEntry) {
	today := e.today()
	if e.daily == nil || e.daily.Date != today {
		e.RefreshDaily(ctx, logs)
	}

	monday, _, err := utils.WeekBounds(today)
	if err != nil {
		e.log.Error("Failed to compute week bounds", "date", today, "error", err)
		return
	}
	if e.weekly == nil || e.weekly.StartDate != monday {
		e.RefreshWeekly(ctx, logs)
	}

	e.Evaluate(ctx, logs)
}

// RefreshDaily generates a new daily challenge for today regardless of the
// current one, evaluates it and persists it
func (e *Engine) RefreshDaily(ctx context.Context, logs []domain.MealLogEntry) ai.Outcome[domain.DailyChallenge] {
	now := e.localNow()
	today := utils.FormatDate(now)

	outcome := ai.Run(ctx, e.gen, ai.Request{
		Kind:   ai.KindDailyChallenge,
		Prompt: ai.DailyChallengePrompt(summary.Summarize(logs, contextDays, now), today),
	}, ParseDailySpec, FallbackDailySpec())

	c := EvaluateDaily(domain.DailyChallenge{
		ID:           uuid.NewString(),
		Description:  outcome.Value.Description,
		Kind:         outcome.Value.Kind,
		Target:       outcome.Value.Target,
		Date:         today,
		FromFallback: outcome.Fallback,
	}, logs)

	e.daily = &c
	e.write(ctx, storage.DailyChallengeRecord, c)
	e.log.Info("Daily challenge created", "kind", c.Kind, "date", c.Date, "fallback", c.FromFallback)

	out, _ := e.Daily()
	return ai.Outcome[domain.DailyChallenge]{Value: out, Fallback: outcome.Fallback, Err: outcome.Err}
}

// RefreshWeekly generates a new challenge for the current Monday..Sunday week
func (e *Engine) RefreshWeekly(ctx context.Context, logs []domain.MealLogEntry) ai.Outcome[domain.WeeklyChallenge] {
	now := e.localNow()
	start, end, err := utils.WeekBounds(utils.FormatDate(now))
	if err != nil {
		e.log.Error("Failed to compute week bounds", "error", err)
		return ai.Outcome[domain.WeeklyChallenge]{Fallback: true, Err: apperrors.NewInternalError(err)}
	}

	outcome := ai.Run(ctx, e.gen, ai.Request{
		Kind:   ai.KindWeeklyChallenge,
		Prompt: ai.WeeklyChallengePrompt(summary.Summarize(logs, contextDays, now), start, end),
	}, ParseWeeklySpec, FallbackWeeklySpec())

	c := EvaluateWeekly(domain.WeeklyChallenge{
		ID:           uuid.NewString(),
		Description:  outcome.Value.Description,
		Kind:         outcome.Value.Kind,
		Target:       outcome.Value.Target,
		StartDate:    start,
		EndDate:      end,
		FromFallback: outcome.Fallback,
	}, logs)

	e.weekly = &c
	e.write(ctx, storage.WeekChallengeRecord, c)
	e.log.Info("Weekly challenge created", "kind", c.Kind, "start", c.StartDate, "target", c.Target, "fallback", c.FromFallback)

	return ai.Outcome[domain.WeeklyChallenge]{Value: c, Fallback: outcome.Fallback, Err: outcome.Err}
}

// Evaluate re-derives completion and progress from logs and persists
// whatever changed. It reports whether anything changed.
func (e *Engine) Evaluate(ctx context.Context, logs []domain.MealLogEntry) bool {
	changed := false

	if e.daily != nil {
		next := EvaluateDaily(*e.daily, logs)
		if next.IsCompleted != e.daily.IsCompleted {
			e.daily = &next
			e.write(ctx, storage.DailyChallengeRecord, next)
			e.log.Info("Daily challenge completed", "kind", next.Kind, "date", next.Date)
			changed = true
		}
	}

	if e.weekly != nil {
		next := EvaluateWeekly(*e.weekly, logs)
		if next != *e.weekly {
			if next.IsCompleted && !e.weekly.IsCompleted {
				e.log.Info("Weekly challenge completed", "kind", next.Kind, "value", next.CurrentValue, "target", next.Target)
			}
			e.weekly = &next
			e.write(ctx, storage.WeekChallengeRecord, next)
			changed = true
		}
	}

	return changed
}

// Reset forgets both challenges
func (e *Engine) Reset(ctx context.Context) {
	e.daily, e.weekly = nil, nil
	e.drop(ctx, storage.DailyChallengeRecord)
	e.drop(ctx, storage.WeekChallengeRecord)
}

func (e *Engine) read(ctx context.Context, record string, dst any) bool {
	key := storage.Key(e.userID, record)
	raw, ok, err := e.kv.Get(ctx, key)
	if err != nil {
		e.log.Warn("Failed to read challenge", apperrors.NewPersistenceError(err, key).LogFields()...)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		e.log.Warn("Discarding corrupt challenge", "key", key, "error", err)
		e.drop(ctx, record)
		return false
	}
	return true
}

func (e *Engine) write(ctx context.Context, record string, value any) {
	key := storage.Key(e.userID, record)
	data, err := json.Marshal(value)
	if err == nil {
		err = e.kv.Set(ctx, key, string(data))
	}
	if err != nil {
		e.log.Warn("Challenge not persisted", apperrors.NewPersistenceError(err, key).LogFields()...)
	}
}

func (e *Engine) drop(ctx context.Context, record string) {
	key := storage.Key(e.userID, record)
	if err := e.kv.Remove(ctx, key); err != nil {
		e.log.Warn("Failed to remove challenge", "key", key, "error", err)
	}
}
