package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/footprint-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/footprint-helper/internal/bot/menus"
	"github.com/vladimiradmaev/footprint-helper/internal/logger"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	*actions
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(a *actions) *CallbackHandler {
	return &CallbackHandler{actions: a}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery, c chat) error {
	// Answer the callback query first
	if _, err := h.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logger.Warn("Failed to answer callback query", "error", err)
	}

	switch query.Data {
	case keyboards.MainMenuData:
		return h.mainMenu(c)
	case keyboards.LogMealData:
		return h.askForMeal(c)
	case keyboards.SummaryData:
		return h.summary(c)
	case keyboards.StreakData:
		return h.streak(c)
	case keyboards.ChallengesData:
		return h.challenges(ctx, c)
	case keyboards.RefreshDailyData:
		return h.refresh(ctx, c, true, false)
	case keyboards.RefreshWeeklyData:
		return h.refresh(ctx, c, false, true)
	case keyboards.TipData:
		return h.tip(ctx, c)
	case keyboards.SwapsData:
		return h.swaps(ctx, c)
	case keyboards.RecommendData:
		return h.recommend(ctx, c)
	case keyboards.AskData:
		return h.askForQuestion(c)
	case keyboards.ConfirmMealData:
		return h.confirm(ctx, c)
	case keyboards.DiscardMealData:
		return h.discard(c)
	case keyboards.HelpData:
		return menus.SendHelp(h.api, c.id)
	default:
		return h.handleUnknownCallback(c)
	}
}

// handleUnknownCallback sends stale buttons back to the main menu
func (h *CallbackHandler) handleUnknownCallback(c chat) error {
	if err := menus.SendText(h.api, c.id, "This button is no longer available.", nil); err != nil {
		return err
	}
	return h.mainMenu(c)
}
