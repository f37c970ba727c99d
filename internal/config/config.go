package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/footprint-helper/internal/logger"
)

// Storage backends accepted in STORAGE_BACKEND
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	TelegramToken string
	AI            AIConfig
	Storage       StorageConfig
	DB            DBConfig
	Redis         RedisConfig
	Session       SessionConfig
	Photo         PhotoConfig
	Logger        LoggerConfig
}

type AIConfig struct {
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
}

type StorageConfig struct {
	Backend     string
	SQLitePath  string
	MemoryQuota int // bytes, 0 means unlimited
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host string
	Port string
}

type SessionConfig struct {
	PersistCap  int
	MemoryCap   int
	CacheWindow time.Duration
	Location    *time.Location
}

type PhotoConfig struct {
	Bucket string
	Region string
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

// Logger converts to the logger package config
func (c LoggerConfig) Logger() logger.Config {
	return logger.Config{Level: c.Level, OutputPath: c.OutputPath, Format: c.Format}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

// Load reads configuration from the environment and validates it.
// The returned error lists every problem found, one per line.
func Load() (*Config, error) {
	var problems []string

	intEnv := func(key string, def int) int {
		raw := os.Getenv(key)
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			problems = append(problems, fmt.Sprintf("%s must be a non-negative integer, got %q", key, raw))
			return def
		}
		return v
	}

	cacheWindow, err := time.ParseDuration(getEnvOrDefault("CACHE_WINDOW", "24h"))
	if err != nil || cacheWindow <= 0 {
		problems = append(problems, fmt.Sprintf("CACHE_WINDOW must be a positive duration, got %q", os.Getenv("CACHE_WINDOW")))
		cacheWindow = 24 * time.Hour
	}

	loc, err := time.LoadLocation(getEnvOrDefault("TIMEZONE", "Local"))
	if err != nil {
		problems = append(problems, fmt.Sprintf("TIMEZONE: %v", err))
		loc = time.Local
	}

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		AI: AIConfig{
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
			OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:  getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Storage: StorageConfig{
			Backend:     strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", BackendMemory)),
			SQLitePath:  os.Getenv("SQLITE_PATH"),
			MemoryQuota: intEnv("MEMORY_QUOTA_BYTES", 5*1024*1024),
		},
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "footprint_helper"),
		},
		Redis: RedisConfig{
			Host: getEnvOrDefault("REDIS_HOST", "localhost"),
			Port: getEnvOrDefault("REDIS_PORT", "6379"),
		},
		Session: SessionConfig{
			PersistCap:  intEnv("PERSIST_LOG_CAP", 20),
			MemoryCap:   intEnv("MEMORY_LOG_CAP", 100),
			CacheWindow: cacheWindow,
			Location:    loc,
		},
		Photo: PhotoConfig{
			Bucket: os.Getenv("PHOTO_BUCKET"),
			Region: getEnvOrDefault("PHOTO_REGION", os.Getenv("AWS_REGION")),
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "logs/app.log"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	problems = append(problems, cfg.validate()...)
	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return cfg, nil
}

func (c *Config) validate() []string {
	var problems []string
	switch c.Storage.Backend {
	case BackendMemory, BackendRedis, BackendPostgres, BackendSQLite:
	default:
		problems = append(problems, fmt.Sprintf("STORAGE_BACKEND must be one of memory, redis, postgres, sqlite; got %q", c.Storage.Backend))
	}
	if c.Session.PersistCap == 0 {
		problems = append(problems, "PERSIST_LOG_CAP must be greater than zero")
	}
	if c.Session.MemoryCap < c.Session.PersistCap {
		problems = append(problems, "MEMORY_LOG_CAP must not be smaller than PERSIST_LOG_CAP")
	}
	if c.Photo.Bucket != "" && c.Photo.Region == "" {
		problems = append(problems, "PHOTO_REGION (or AWS_REGION) is required when PHOTO_BUCKET is set")
	}
	return problems
}

// RequireBot checks the settings only the Telegram front-end needs
func (c *Config) RequireBot() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	return nil
}
