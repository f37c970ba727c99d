package main

import (
	"context"
	"fmt"

	"github.com/vladimiradmaev/footprint-helper/internal/app"
	"github.com/vladimiradmaev/footprint-helper/internal/config"
	"github.com/vladimiradmaev/footprint-helper/internal/logger"
	"github.com/vladimiradmaev/footprint-helper/internal/session"
)

// withSession opens the SQLite-backed session for --user and runs fn on it
func withSession(ctx context.Context, run func(*session.Session) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Storage.Backend = config.BackendSQLite
	cfg.Storage.SQLitePath = dbPath
	cfg.Photo.Bucket = ""

	if verbose {
		err = logger.InitWithConfig(logger.Config{Level: logger.LevelDebug, OutputPath: "stderr", Format: "text"})
	} else {
		logger.Discard()
	}
	if err != nil {
		return err
	}

	res, err := app.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer res.Close()

	sess, err := session.Open(ctx, res.SessionDeps(), userID)
	if err != nil {
		return fmt.Errorf("open log for %q: %w", userID, err)
	}
	return run(sess)
}
