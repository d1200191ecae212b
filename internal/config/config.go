package config

import (
	"fmt"
	"log/slog"
	"strings"

	env "github.com/Netflix/go-env"
)

// Config holds server configuration loaded from environment variables.
type Config struct {
	Port             string `env:"PORT,default=8080"`
	MaxConversations int    `env:"MAX_CONVERSATIONS,default=100"`
	SendBuffer       int    `env:"SEND_BUFFER,default=256"`
	LogLevel         string `env:"LOG_LEVEL,default=info"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.MaxConversations <= 0 {
		return Config{}, fmt.Errorf("config: MAX_CONVERSATIONS must be positive, got %d", cfg.MaxConversations)
	}
	if cfg.SendBuffer <= 0 {
		return Config{}, fmt.Errorf("config: SEND_BUFFER must be positive, got %d", cfg.SendBuffer)
	}
	return cfg, nil
}

// Level maps LogLevel to a slog level. Unknown values mean info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
