package handlers

import (
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/footprint-helper/internal/footprint"
	"github.com/vladimiradmaev/footprint-helper/internal/session"
)

// API is the part of *tgbotapi.BotAPI the handlers use
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	Sessions   *session.Registry
	Footprints *footprint.Lookup
	HTTPClient *http.Client
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Footprints == nil {
		d.Footprints = footprint.Default()
	}
	if d.HTTPClient == nil {
		d.HTTPClient = http.DefaultClient
	}
	return d
}
