package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the process-level configuration. Runtime-mutable settings
// (tokens, thresholds, banwords) live in the settings file instead.
type Config struct {
	// Paths; both default to ~/.lzt-donate when empty.
	SettingsPath string `envconfig:"SETTINGS_PATH"`
	DBPath       string `envconfig:"DB_PATH"`

	// OAuth callback catcher.
	AuthPort int `envconfig:"AUTH_CALLBACK_PORT" default:"5228"`

	// Single instance lock.
	LockPort int `envconfig:"INSTANCE_LOCK_PORT" default:"15228"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// API endpoints, overridable for testing against staging.
	LztMarketURL string `envconfig:"LZT_MARKET_URL"`
	LztForumURL  string `envconfig:"LZT_FORUM_URL"`
	DABaseURL    string `envconfig:"DA_BASE_URL"`

	Telegram TelegramConfig
}

// TelegramConfig enables operator notifications when both fields are set.
type TelegramConfig struct {
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID   int64  `envconfig:"TELEGRAM_CHAT_ID"`
}

// Load reads .env if present, then the environment. Empty paths default
// under ~/.lzt-donate.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// No .env file is fine; the environment still applies.
		slog.Debug("no .env file found")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.SettingsPath == "" || cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".lzt-donate")
		if cfg.SettingsPath == "" {
			cfg.SettingsPath = filepath.Join(dir, "settings.json")
		}
		if cfg.DBPath == "" {
			cfg.DBPath = filepath.Join(dir, "donations.db")
		}
	}

	return &cfg, nil
}

// SlogLevel maps the configured log level onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// TelegramEnabled reports whether operator Telegram notifications are
// configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != 0
}
