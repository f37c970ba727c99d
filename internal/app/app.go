// Package app builds the runtime collaborators from configuration. Both the
// bot binary and the CLI start from here.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vladimiradmaev/footprint-helper/internal/ai"
	"github.com/vladimiradmaev/footprint-helper/internal/config"
	"github.com/vladimiradmaev/footprint-helper/internal/database"
	"github.com/vladimiradmaev/footprint-helper/internal/logger"
	"github.com/vladimiradmaev/footprint-helper/internal/photo"
	"github.com/vladimiradmaev/footprint-helper/internal/session"
	"github.com/vladimiradmaev/footprint-helper/internal/storage"
)

// Resources are the long-lived clients behind every session
type Resources struct {
	KV        storage.KVStore
	Generator ai.Generator // nil when no provider is configured
	Photos    photo.Archive
	Redis     *redis.Client // set when the redis backend is used

	cfg     *config.Config
	closers []func() error
}

// Open connects the configured storage backend, generation providers and
// photo archive. Close releases whatever was opened, also on error.
func Open(ctx context.Context, cfg *config.Config) (*Resources, error) {
	r := &Resources{cfg: cfg}

	if err := r.openStorage(); err != nil {
		r.Close()
		return nil, err
	}
	if err := r.openGenerators(ctx); err != nil {
		r.Close()
		return nil, err
	}
	if cfg.Photo.Bucket != "" {
		archive, err := photo.NewS3Archive(ctx, cfg.Photo.Bucket, cfg.Photo.Region)
		if err != nil {
			r.Close()
			return nil, err
		}
		r.Photos = archive
		logger.Info("Photo archive enabled", "bucket", cfg.Photo.Bucket)
	}
	return r, nil
}

func (r *Resources) openStorage() error {
	cfg := r.cfg
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		r.KV = storage.NewMemoryStore(cfg.Storage.MemoryQuota)
	case config.BackendRedis:
		client, err := storage.NewRedisClient(cfg.Redis.Host, cfg.Redis.Port)
		if err != nil {
			return err
		}
		r.Redis = client
		r.KV = storage.NewRedisStore(client)
		r.closers = append(r.closers, client.Close)
	case config.BackendPostgres:
		db, err := database.NewPostgresDB(cfg.DB)
		if err != nil {
			return err
		}
		r.KV = storage.NewPostgresStore(db)
		if sqlDB, err := db.DB(); err == nil {
			r.closers = append(r.closers, sqlDB.Close)
		}
	case config.BackendSQLite:
		path := cfg.Storage.SQLitePath
		if path == "" {
			var err error
			if path, err = storage.DefaultSQLitePath(); err != nil {
				return err
			}
		}
		store, err := storage.OpenSQLite(path)
		if err != nil {
			return err
		}
		r.KV = store
		r.closers = append(r.closers, store.Close)
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	logger.Info("Storage backend ready", "backend", cfg.Storage.Backend)
	return nil
}

// openGenerators chains Gemini before OpenAI. With neither key set every
// artifact comes from its fallback.
func (r *Resources) openGenerators(ctx context.Context) error {
	var chain ai.Chain
	if key := r.cfg.AI.GeminiAPIKey; key != "" {
		gemini, err := ai.NewGeminiGenerator(ctx, key, r.cfg.AI.GeminiModel)
		if err != nil {
			return err
		}
		chain = append(chain, gemini)
		r.closers = append(r.closers, gemini.Close)
	}
	if key := r.cfg.AI.OpenAIAPIKey; key != "" {
		chain = append(chain, ai.NewOpenAIGenerator(key, r.cfg.AI.OpenAIModel))
	}

	switch len(chain) {
	case 0:
		logger.Warn("No generation provider configured, using fallback content only")
	case 1:
		r.Generator = chain[0]
	default:
		r.Generator = chain
	}
	return nil
}

// SessionDeps returns the session collaborators for these resources
func (r *Resources) SessionDeps() session.Deps {
	return session.Deps{
		KV:          r.KV,
		Generator:   r.Generator,
		Photos:      r.Photos,
		PersistCap:  r.cfg.Session.PersistCap,
		MemoryCap:   r.cfg.Session.MemoryCap,
		CacheWindow: r.cfg.Session.CacheWindow,
		Location:    r.cfg.Session.Location,
	}
}

// Close releases resources in reverse order of opening
func (r *Resources) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i]())
	}
	r.closers = nil
	return errors.Join(errs...)
}
