package bot

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/footprint-helper/internal/bot/handlers"
	"github.com/vladimiradmaev/footprint-helper/internal/bot/state"
	"github.com/vladimiradmaev/footprint-helper/internal/logger"
)

// maxInFlight bounds how many updates are handled at once. Updates of the
// same user still run one at a time on the user's session.
const maxInFlight = 16

type Bot struct {
	api           *tgbotapi.BotAPI
	updateHandler *handlers.UpdateHandler
}

// NewBot authorizes against the Bot API and wires the handlers
func NewBot(token string, deps handlers.Dependencies, stateManager state.StateManager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	logger.Info("Bot authorized", "username", api.Self.UserName)

	if stateManager == nil {
		stateManager = state.NewManager()
	}
	return &Bot{
		api:           api,
		updateHandler: handlers.NewUpdateHandler(api, deps, stateManager),
	}, nil
}

// Start long-polls for updates until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	logger.Info("Bot is now listening for updates")

	var wg sync.WaitGroup
	slots := make(chan struct{}, maxInFlight)
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Bot is shutting down")
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			slots <- struct{}{}
			wg.Add(1)
			go func(update tgbotapi.Update) {
				defer func() {
					<-slots
					wg.Done()
				}()
				if err := b.updateHandler.Handle(ctx, update); err != nil {
					logger.Error("Error handling update", "update_id", update.UpdateID, "error", err)
				}
			}(update)
		}
	}
}
