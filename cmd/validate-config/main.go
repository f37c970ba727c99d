package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/footprint-helper/internal/config"
)

func main() {
	fmt.Println("🔍 Checking configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Configuration is invalid:\n%v\n", err)
		os.Exit(1)
	}
	if err := cfg.RequireBot(); err != nil {
		fmt.Printf("⚠️  %v (only the CLI will work)\n", err)
	}

	fmt.Println("✅ Configuration is valid!")
	fmt.Printf("📋 Details:\n")
	fmt.Printf("  - Telegram Token: %s\n", maskToken(cfg.TelegramToken))
	fmt.Printf("  - Gemini API Key: %s (model %s)\n", maskToken(cfg.AI.GeminiAPIKey), cfg.AI.GeminiModel)
	fmt.Printf("  - OpenAI API Key: %s (model %s)\n", maskToken(cfg.AI.OpenAIAPIKey), cfg.AI.OpenAIModel)
	fmt.Printf("  - Storage: %s\n", describeStorage(cfg))
	fmt.Printf("  - Meal log caps: %d persisted, %d in memory\n", cfg.Session.PersistCap, cfg.Session.MemoryCap)
	fmt.Printf("  - Advice cache window: %s\n", cfg.Session.CacheWindow)
	fmt.Printf("  - Time zone: %s\n", cfg.Session.Location)
	if cfg.Photo.Bucket != "" {
		fmt.Printf("  - Photo archive: s3://%s (%s)\n", cfg.Photo.Bucket, cfg.Photo.Region)
	}
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func describeStorage(cfg *config.Config) string {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		return fmt.Sprintf("redis %s:%s", cfg.Redis.Host, cfg.Redis.Port)
	case config.BackendPostgres:
		return fmt.Sprintf("postgres %s@%s:%s/%s", cfg.DB.User, cfg.DB.Host, cfg.DB.Port, cfg.DB.DBName)
	case config.BackendSQLite:
		if cfg.Storage.SQLitePath == "" {
			return "sqlite (default path)"
		}
		return "sqlite " + cfg.Storage.SQLitePath
	default:
		return fmt.Sprintf("memory (quota %d bytes)", cfg.Storage.MemoryQuota)
	}
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
