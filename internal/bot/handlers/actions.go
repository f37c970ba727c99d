package handlers

import (
	"context"
	"encoding/json"

	"github.com/vladimiradmaev/footprint-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/footprint-helper/internal/bot/menus"
	"github.com/vladimiradmaev/footprint-helper/internal/bot/state"
	apperrors "github.com/vladimiradmaev/footprint-helper/internal/errors"
	"github.com/vladimiradmaev/footprint-helper/internal/logger"
	"github.com/vladimiradmaev/footprint-helper/internal/meallog"
	"github.com/vladimiradmaev/footprint-helper/internal/session"
)

const summaryDays = 7

// actions are the operations reachable both from commands and buttons
type actions struct {
	api          API
	deps         Dependencies
	stateManager state.StateManager
	errHandler   *apperrors.Handler
}

// chat identifies who an action runs for and where it replies
type chat struct {
	id         int64
	telegramID int64
	sess       *session.Session
}

// fail reports err to the user. Validation messages are shown as they are,
// anything else gets a generic apology.
func (a *actions) fail(ctx context.Context, c chat, err error) error {
	a.errHandler.Handle(ctx, err)
	text := "Sorry, something went wrong. Please try again."
	if apperrors.IsValidation(err) {
		text = apperrors.UserMessage(err)
	}
	markup := keyboards.BackToMenu()
	return menus.SendText(a.api, c.id, text, &markup)
}

func (a *actions) logItems(ctx context.Context, c chat, text string) error {
	items := a.deps.Footprints.ParseItems(text)
	res, err := c.sess.LogMeal(ctx, meallog.NewMeal{Items: items, Description: text})
	if err != nil {
		return a.fail(ctx, c, err)
	}
	markup := keyboards.BackToMenu()
	return menus.SendText(a.api, c.id, menus.FormatLogResult(res), &markup)
}

func (a *actions) askForMeal(c chat) error {
	a.stateManager.SetUserState(c.telegramID, state.WaitingForMealDescription)
	markup := keyboards.BackToMenu()
	return menus.SendText(a.api, c.id, "📷 Send a photo of your meal or describe it, e.g. \"pasta 120g with tomato sauce\".", &markup)
}

func (a *actions) askForQuestion(c chat) error {
	a.stateManager.SetUserState(c.telegramID, state.WaitingForQuestion)
	markup := keyboards.BackToMenu()
	return menus.SendText(a.api, c.id, "💬 What would you like to know?", &markup)
}

func (a *actions) answer(ctx context.Context, c chat, question string) error {
	out, err := c.sess.Ask(ctx, question)
	if err != nil {
		return a.fail(ctx, c, err)
	}
	a.stateManager.SetUserState(c.telegramID, state.None)
	markup := keyboards.BackToMenu()
	return menus.SendText(a.api, c.id, out.Value, &markup)
}

// analyze runs meal analysis and parks the result until the user confirms it
func (a *actions) analyze(ctx context.Context, c chat, image []byte, description string) error {
	analysis, err := c.sess.AnalyzePhoto(ctx, image, description)
	if err != nil {
		return a.fail(ctx, c, err)
	}

	data, err := json.Marshal(analysis)
	if err != nil {
		return a.fail(ctx, c, apperrors.NewInternalError(err))
	}
	a.stateManager.SetTempData(c.telegramID, state.PendingAnalysisKey, string(data))
	a.stateManager.SetUserState(c.telegramID, state.WaitingForMealConfirmation)

	markup := keyboards.ConfirmMeal()
	return menus.SendText(a.api, c.id, menus.FormatAnalysis(analysis), &markup)
}

// confirm logs the pending analysis. Without one the user is sent back to
// the main menu.
func (a *actions) confirm(ctx context.Context, c chat) error {
	raw, ok := a.stateManager.TakeTempData(c.telegramID, state.PendingAnalysisKey)
	var analysis session.Analysis
	if ok {
		if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
			logger.Warn("Discarding corrupt pending analysis", "telegram_id", c.telegramID, "error", err)
			ok = false
		}
	}
	a.stateManager.ClearTempData(c.telegramID)
	a.stateManager.SetUserState(c.telegramID, state.None)

	if !ok {
		a.errHandler.Handle(ctx, apperrors.NewNavigationError(keyboards.ConfirmMealData))
		if err := menus.SendText(a.api, c.id, "ℹ️ "+apperrors.ErrNoPendingResult.Message+".", nil); err != nil {
			return err
		}
		return menus.SendMainMenu(a.api, c.id)
	}

	res, err := c.sess.LogMeal(ctx, analysis.Meal())
	if err != nil {
		return a.fail(ctx, c, err)
	}
	markup := keyboards.BackToMenu()
	return menus.SendText(a.api, c.id, menus.FormatLogResult(res), &markup)
}

func (a *actions) discard(c chat) error {
	a.stateManager.ClearTempData(c.telegramID)
	a.stateManager.SetUserState(c.telegramID, state.None)
	markup := keyboards.BackToMenu()
	return menus.SendText(a.api, c.id, "🗑️ Discarded.", &markup)
}

func (a *actions) summary(c chat) error {
	markup := keyboards.BackToMenu()
	return menus.SendText(a.api, c.id, "📊 Last 7 days\n\n"+c.sess.Summary(summaryDays), &markup)
}

func (a *actions) streak(c chat) error {
	markup := keyboards.BackToMenu()
	return menus.SendText(a.api, c.id, menus.FormatStreak(c.sess.Streak()), &markup)
}

func (a *actions) challenges(ctx context.Context, c chat) error {
	markup := keyboards.ChallengesMenu()
	return menus.SendText(a.api, c.id, menus.FormatChallenges(c.sess.Challenges(ctx)), &markup)
}

func (a *actions) refresh(ctx context.Context, c chat, daily, weekly bool) error {
	markup := keyboards.ChallengesMenu()
	return menus.SendText(a.api, c.id, menus.FormatChallenges(c.sess.RefreshChallenges(ctx, daily, weekly)), &markup)
}

func (a *actions) tip(ctx context.Context, c chat) error {
	markup := keyboards.BackToMenu()
	return menus.SendText(a.api, c.id, "💡 "+c.sess.WeeklyTip(ctx, false).Value, &markup)
}

func (a *actions) recommend(ctx context.Context, c chat) error {
	markup := keyboards.BackToMenu()
	return menus.SendText(a.api, c.id, "🌱 "+c.sess.Recommendation(ctx, false).Value, &markup)
}

func (a *actions) swaps(ctx context.Context, c chat) error {
	markup := keyboards.BackToMenu()
	return menus.SendText(a.api, c.id, menus.FormatSwaps(c.sess.FoodSwaps(ctx, false).Value), &markup)
}

func (a *actions) mainMenu(c chat) error {
	a.stateManager.SetUserState(c.telegramID, state.None)
	return menus.SendMainMenu(a.api, c.id)
}
