package middleware

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Recover keeps a panicking handler from taking the bot down. The panic is
// logged with the action that caused it.
func Recover() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					attrs := append(describe(update).attrs(), "panic", r, "stack", string(debug.Stack()))
					slog.Error("handler panicked", attrs...)
				}
			}()
			next(ctx, b, update)
		}
	}
}
