package handlers

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/footprint-helper/internal/bot/state"
	apperrors "github.com/vladimiradmaev/footprint-helper/internal/errors"
	"github.com/vladimiradmaev/footprint-helper/internal/logger"
)

// UpdateHandler handles telegram updates and coordinates other handlers
type UpdateHandler struct {
	deps            Dependencies
	callbackHandler *CallbackHandler
	commandHandler  *CommandHandler
	textHandler     *TextHandler
	photoHandler    *PhotoHandler
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(api API, deps Dependencies, stateManager state.StateManager) *UpdateHandler {
	deps = deps.withDefaults()
	a := &actions{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
		errHandler:   apperrors.NewHandler(logger.GetLogger()),
	}
	return &UpdateHandler{
		deps:            deps,
		callbackHandler: NewCallbackHandler(a),
		commandHandler:  NewCommandHandler(a),
		textHandler:     NewTextHandler(a),
		photoHandler:    NewPhotoHandler(a),
	}
}

// Handle processes a telegram update. The Telegram user ID is the session
// identity.
func (h *UpdateHandler) Handle(ctx context.Context, update tgbotapi.Update) error {
	var c chat
	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		c.telegramID = update.CallbackQuery.From.ID
		c.id = update.CallbackQuery.Message.Chat.ID
	case update.Message != nil && update.Message.From != nil:
		c.telegramID = update.Message.From.ID
		c.id = update.Message.Chat.ID
	default:
		return nil
	}

	sess, err := h.deps.Sessions.Get(ctx, strconv.FormatInt(c.telegramID, 10))
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	c.sess = sess

	if update.CallbackQuery != nil {
		return h.callbackHandler.Handle(ctx, update.CallbackQuery, c)
	}

	message := update.Message
	switch {
	case message.IsCommand():
		return h.commandHandler.Handle(ctx, message, c)
	case len(message.Photo) > 0:
		return h.photoHandler.Handle(ctx, message, c)
	case message.Text != "":
		return h.textHandler.Handle(ctx, message, c)
	}
	return nil
}
