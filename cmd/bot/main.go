package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/joho/godotenv"
	earnhub "github.com/set-night/earnhub"
	"github.com/set-night/earnhub/internal/cache"
	"github.com/set-night/earnhub/internal/config"
	"github.com/set-night/earnhub/internal/conversation"
	"github.com/set-night/earnhub/internal/handler"
	"github.com/set-night/earnhub/internal/httpapi"
	"github.com/set-night/earnhub/internal/middleware"
	"github.com/set-night/earnhub/internal/repository"
	"github.com/set-night/earnhub/internal/service"
	"github.com/set-night/earnhub/internal/telegram"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(earnhub.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	store := repository.NewStore(pool)

	// Conversation state and rate limiting live in Redis when configured
	var (
		conversations conversation.Store
		limiter       middleware.RateLimiter
	)
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		conversations = conversation.NewRedisStore(rdb, cfg.ConversationTTL)
		limiter = cache.NewRedisRateLimiter(rdb, config.RateLimitMessages, config.RateLimitWindow)
	} else {
		slog.Warn("REDIS_URL not set, keeping conversations in memory")
		memStates := conversation.NewMemoryStore(cfg.ConversationTTL)
		memLimiter := cache.NewMemoryRateLimiter(config.RateLimitMessages, config.RateLimitWindow)
		conversations, limiter = memStates, memLimiter

		go func() {
			ticker := time.NewTicker(config.ConversationSweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if n := memStates.Sweep(); n > 0 {
						slog.Debug("expired conversations dropped", "count", n)
					}
					memLimiter.Sweep()
				}
			}
		}()
	}

	// Initialize services
	settingsService := service.NewSettingsService(store, cfg)
	userService := service.NewUserService(store, settingsService, cfg)
	taskService := service.NewTaskService(store)
	opportunityService := service.NewOpportunityService(store)
	statsService := service.NewStatsService(store)

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.RateLimit(limiter),
			middleware.UserLoader(userService),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			slog.Debug("unhandled update", "update_id", update.ID)
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}
	botUsername := cfg.BotUsername
	if botUsername == "" {
		botUsername = me.Username
	}
	slog.Info("bot info retrieved", "id", me.ID, "username", botUsername)

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Warn("failed to drop pending updates", "error", err)
		}
	}

	membership := service.NewMembershipVerifier(b)
	ledgerService := service.NewLedgerService(store, membership, settingsService)

	// Initialize telegram logger
	tgLogger := telegram.NewTelegramLogger(b, cfg)

	// Initialize handler
	h := handler.New(handler.Deps{
		Bot:           b,
		Cfg:           cfg,
		Users:         userService,
		Ledger:        ledgerService,
		Tasks:         taskService,
		Opportunities: opportunityService,
		Settings:      settingsService,
		Stats:         statsService,
		Membership:    membership,
		Conversations: conversations,
		TgLogger:      tgLogger,
		BotUsername:   botUsername,
	})

	// Register all handlers
	h.Register()

	// Ops HTTP API
	if cfg.OpsJWTSecret == "" {
		slog.Warn("OPS_JWT_SECRET not set, ops API serves /healthz only")
	}
	server := httpapi.NewServer(cfg.HTTPAddr, httpapi.NewRouter(httpapi.Deps{
		Ledger:    ledgerService,
		Secret:    cfg.OpsJWTSecret,
		OnSettled: h.Settled,
	}))
	go func() {
		if err := server.Run(ctx); err != nil {
			slog.Error("http server failed", "error", err)
		}
	}()

	// Start bot
	slog.Info("starting bot", "username", botUsername, "id", me.ID)
	b.Start(ctx)

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}
