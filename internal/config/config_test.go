package config_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undff/lzt-donate/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5228, cfg.AuthPort)
	assert.Contains(t, cfg.SettingsPath, ".lzt-donate")
	assert.Contains(t, cfg.DBPath, ".lzt-donate")
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SETTINGS_PATH", "/tmp/custom/settings.json")
	t.Setenv("AUTH_CALLBACK_PORT", "9999")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "123")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom/settings.json", cfg.SettingsPath)
	assert.Equal(t, 9999, cfg.AuthPort)
	assert.True(t, cfg.TelegramEnabled())
	assert.Equal(t, int64(123), cfg.Telegram.ChatID)
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"unknown": slog.LevelInfo,
	}

	for level, want := range tests {
		cfg := &config.Config{LogLevel: level}
		assert.Equal(t, want, cfg.SlogLevel(), "level %q", level)
	}
}
