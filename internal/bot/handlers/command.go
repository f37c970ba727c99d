package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/footprint-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/footprint-helper/internal/bot/menus"
	"github.com/vladimiradmaev/footprint-helper/internal/bot/state"
	"github.com/vladimiradmaev/footprint-helper/internal/logger"
)

// CommandHandler handles bot commands
type CommandHandler struct {
	*actions
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(a *actions) *CommandHandler {
	return &CommandHandler{actions: a}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message, c chat) error {
	logger.Info("Handling command", "command", message.Command(), "telegram_id", c.telegramID)
	args := strings.TrimSpace(message.CommandArguments())

	switch message.Command() {
	case "start":
		h.stateManager.ClearTempData(c.telegramID)
		return h.mainMenu(c)
	case "help":
		return menus.SendHelp(h.api, c.id)
	case "log":
		if args == "" {
			return h.askForMeal(c)
		}
		h.stateManager.SetUserState(c.telegramID, state.None)
		return h.logItems(ctx, c, args)
	case "summary":
		return h.summary(c)
	case "streak":
		return h.streak(c)
	case "challenges":
		return h.challenges(ctx, c)
	case "refresh":
		return h.refresh(ctx, c, true, true)
	case "tip":
		return h.tip(ctx, c)
	case "swaps":
		return h.swaps(ctx, c)
	case "recommend":
		return h.recommend(ctx, c)
	case "ask":
		if args == "" {
			return h.askForQuestion(c)
		}
		return h.answer(ctx, c, args)
	case "reset":
		c.sess.Reset(ctx)
		h.stateManager.ClearTempData(c.telegramID)
		markup := keyboards.BackToMenu()
		return menus.SendText(h.api, c.id, "🧹 Your meal log, streak and challenges were cleared.", &markup)
	default:
		return h.handleUnknownCommand(c.id)
	}
}

// handleUnknownCommand handles unknown commands
func (h *CommandHandler) handleUnknownCommand(chatID int64) error {
	return menus.SendText(h.api, chatID, "Unknown command. Use /help to see what I can do.", nil)
}
