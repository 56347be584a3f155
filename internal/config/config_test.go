package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "postgres://localhost/earnhub")
	t.Setenv("ADMIN_IDS", "1,42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DefaultStartBalance != 100 {
		t.Errorf("expected start balance 100, got %d", cfg.DefaultStartBalance)
	}
	if cfg.DefaultReferralPoints != 5 {
		t.Errorf("expected referral points 5, got %d", cfg.DefaultReferralPoints)
	}
	if cfg.ConversationTTL != 10*time.Minute {
		t.Errorf("expected conversation ttl 10m, got %s", cfg.ConversationTTL)
	}
	if cfg.HTTPAddr != ":3000" {
		t.Errorf("expected http addr :3000, got %q", cfg.HTTPAddr)
	}
	if !cfg.IsAdmin(42) || cfg.IsAdmin(7) {
		t.Errorf("unexpected admin resolution for ids %s", cfg.AdminIDsString())
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/earnhub")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing bot token")
	}
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		cfg := &Config{LogLevel: in}
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
