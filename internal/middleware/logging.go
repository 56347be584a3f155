package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/earnhub/internal/config"
)

// Logging logs every handled update at debug level, and slow ones as
// warnings.
func Logging() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			start := time.Now()
			next(ctx, b, update)
			elapsed := time.Since(start)

			attrs := append(describe(update).attrs(), "duration", elapsed)
			if elapsed >= config.SlowUpdateThreshold {
				slog.Warn("slow update", attrs...)
				return
			}
			slog.Debug("update processed", attrs...)
		}
	}
}
