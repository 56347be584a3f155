package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BotToken    string `env:"TELEGRAM_BOT_TOKEN,required,notEmpty"`
	BotUsername string `env:"BOT_USERNAME"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	RedisURL    string `env:"REDIS_URL"`

	// Admin
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Ops HTTP API
	HTTPAddr     string `env:"HTTP_ADDR" envDefault:":3000"`
	OpsJWTSecret string `env:"OPS_JWT_SECRET"`

	// Ledger defaults, used until an admin overrides them in settings
	DefaultStartBalance   int64  `env:"DEFAULT_START_BALANCE" envDefault:"100"`
	DefaultReferralPoints int64  `env:"DEFAULT_REFERRAL_POINTS" envDefault:"5"`
	RequiredChannelID     string `env:"REQUIRED_CHANNEL_ID" envDefault:"@vectoroad"`
	RequiredChannelLink   string `env:"REQUIRED_CHANNEL_LINK" envDefault:"https://t.me/vectoroad"`

	// Conversation forms
	ConversationTTL time.Duration `env:"CONVERSATION_TTL" envDefault:"10m"`

	// Bot behavior
	DropPendingUpdates bool   `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`

	// Telegram logging
	LogTelegramChatID  int64 `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError      int   `env:"LOG_TOPIC_ERROR"`
	LogTopicRegister   int   `env:"LOG_TOPIC_REGISTRATION"`
	LogTopicReferral   int   `env:"LOG_TOPIC_REFERRAL"`
	LogTopicTask       int   `env:"LOG_TOPIC_TASK"`
	LogTopicDeposit    int   `env:"LOG_TOPIC_DEPOSIT"`
	LogTopicWithdrawal int   `env:"LOG_TOPIC_WITHDRAWAL"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.ConversationTTL <= 0 {
		return nil, fmt.Errorf("parse config: CONVERSATION_TTL must be positive")
	}
	return cfg, nil
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func (c *Config) AdminIDsString() string {
	parts := make([]string, len(c.AdminIDs))
	for i, id := range c.AdminIDs {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
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
