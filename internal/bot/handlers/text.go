package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/footprint-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/footprint-helper/internal/bot/menus"
	"github.com/vladimiradmaev/footprint-helper/internal/bot/state"
)

// TextHandler handles text messages
type TextHandler struct {
	*actions
}

// NewTextHandler creates a new text handler
func NewTextHandler(a *actions) *TextHandler {
	return &TextHandler{actions: a}
}

// Handle processes a text message according to the chat's state
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message, c chat) error {
	switch h.stateManager.GetUserState(c.telegramID) {
	case state.WaitingForMealDescription:
		return h.analyze(ctx, c, nil, message.Text)
	case state.WaitingForQuestion:
		return h.answer(ctx, c, message.Text)
	case state.WaitingForMealConfirmation:
		markup := keyboards.ConfirmMeal()
		return menus.SendText(h.api, c.id, "Please confirm or discard the meal above first.", &markup)
	default:
		return h.handleDefaultText(c.id)
	}
}

// handleDefaultText handles text when no specific state is set
func (h *TextHandler) handleDefaultText(chatID int64) error {
	markup := keyboards.MainMenu()
	return menus.SendText(h.api, chatID, "Please use the menu or /help to choose an action.", &markup)
}
