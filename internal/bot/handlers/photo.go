package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/footprint-helper/internal/bot/menus"
	"github.com/vladimiradmaev/footprint-helper/internal/logger"
)

// maxPhotoBytes caps how much of a photo is downloaded
const maxPhotoBytes = 10 << 20

// PhotoHandler handles photo messages
type PhotoHandler struct {
	*actions
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(a *actions) *PhotoHandler {
	return &PhotoHandler{actions: a}
}

// Handle downloads the largest size of the photo and analyses it together
// with the caption
func (h *PhotoHandler) Handle(ctx context.Context, message *tgbotapi.Message, c chat) error {
	photo := message.Photo[len(message.Photo)-1]

	processing, err := h.api.Send(tgbotapi.NewMessage(c.id, "🔍 Analysing your meal..."))
	if err != nil {
		return fmt.Errorf("failed to send processing message: %w", err)
	}
	defer func() {
		if _, err := h.api.Request(tgbotapi.NewDeleteMessage(c.id, processing.MessageID)); err != nil {
			logger.Debug("Failed to delete processing message", "error", err)
		}
	}()

	image, err := h.download(ctx, photo.FileID)
	if err != nil {
		logger.Error("Failed to download photo", "telegram_id", c.telegramID, "error", err)
		return menus.SendText(h.api, c.id, "Sorry, I couldn't download the photo. Please try again.", nil)
	}

	logger.Info("Starting meal analysis", "telegram_id", c.telegramID, "bytes", len(image))
	return h.analyze(ctx, c, image, message.Caption)
}

func (h *PhotoHandler) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := h.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.deps.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download photo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download photo: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
}
