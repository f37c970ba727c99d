package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/footprint-helper/internal/app"
	"github.com/vladimiradmaev/footprint-helper/internal/bot"
	"github.com/vladimiradmaev/footprint-helper/internal/bot/handlers"
	"github.com/vladimiradmaev/footprint-helper/internal/bot/state"
	"github.com/vladimiradmaev/footprint-helper/internal/config"
	"github.com/vladimiradmaev/footprint-helper/internal/logger"
	"github.com/vladimiradmaev/footprint-helper/internal/session"
)

// stateTTL is how long an unfinished conversation step is kept in Redis
const stateTTL = 24 * time.Hour

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.RequireBot(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.InitWithConfig(cfg.Logger.Logger()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Info("Starting Footprint Helper Bot", "storage", cfg.Storage.Backend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := app.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize resources", "error", err)
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Error("Failed to release resources", "error", err)
		}
	}()

	var stateManager state.StateManager = state.NewManager()
	if res.Redis != nil {
		stateManager = state.NewRedisManager(res.Redis, stateTTL)
	}

	deps := handlers.Dependencies{Sessions: session.NewRegistry(res.SessionDeps())}
	telegramBot, err := bot.NewBot(cfg.TelegramToken, deps, stateManager)
	if err != nil {
		logger.Fatal("Failed to create bot", "error", err)
	}

	logger.Info("Bot is running. Press Ctrl+C to stop.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Bot stopped with error", "error", err)
	}
	logger.Info("Bot stopped")
}
