package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	RedisURL string

	// LLM backend selection
	LLMProvider     string
	ModelName       string
	CFAccountID     string
	CFAPIToken      string
	AnthropicAPIKey string

	// Narration retry policy
	NarrationMaxAttempts int
	NarrationBackoff     time.Duration

	// Sessions with no activity for this long are reset on next touch
	SessionIdleTimeout time.Duration
}

func Load() (*Config, error) {
	maxAttempts, err := getEnvInt("NARRATION_MAX_ATTEMPTS", 2)
	if err != nil {
		return nil, err
	}
	backoffMs, err := getEnvInt("NARRATION_BACKOFF_MS", 500)
	if err != nil {
		return nil, err
	}
	idleMinutes, err := getEnvInt("SESSION_IDLE_MINUTES", 30)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),

		RedisURL: getEnv("REDIS_URL", "localhost:6379"),

		LLMProvider:     getEnv("LLM_PROVIDER", "workersai"),
		ModelName:       getEnv("MODEL_NAME", "@cf/meta/llama-3.1-8b-instruct"),
		CFAccountID:     getEnv("CF_ACCOUNT_ID", ""),
		CFAPIToken:      getEnv("CF_API_TOKEN", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),

		NarrationMaxAttempts: maxAttempts,
		NarrationBackoff:     time.Duration(backoffMs) * time.Millisecond,
		SessionIdleTimeout:   time.Duration(idleMinutes) * time.Minute,
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
