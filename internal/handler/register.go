package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/earnhub/internal/callback"
	"github.com/set-night/earnhub/internal/middleware"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandlerMatchFunc(isCommand("start"), h.handleStart)
	h.bot.RegisterHandlerMatchFunc(isCommand("menu"), h.handleMenu)
	h.bot.RegisterHandlerMatchFunc(isCommand("admin"), h.handleAdmin)
	h.bot.RegisterHandlerMatchFunc(isCommand("cancel"), h.handleCancel)

	// Every button goes through callback.Parse
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, h.handleCallback)

	// Free-text replies to pending forms
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil || strings.HasPrefix(update.Message.Text, "/") {
			return
		}
		h.handleText(ctx, b, update)
	})
}

// isCommand matches "/name", "/name args" and "/name@bot", but not
// "/nameother".
func isCommand(name string) bot.MatchFunc {
	return func(update *models.Update) bool {
		if update.Message == nil {
			return false
		}
		word, _, _ := strings.Cut(update.Message.Text, " ")
		word, _, _ = strings.Cut(word, "@")
		return word == "/"+name
	}
}

// handleCallback answers the query, parses its data and dispatches it. Admin
// actions are checked against the role of the user loaded for this update.
func (h *Handler) handleCallback(ctx context.Context, _ *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	h.answer(ctx, cq.ID)

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}
	chatID := user.ID
	if cq.Message.Message != nil {
		chatID = cq.Message.Message.Chat.ID
	}

	action, err := callback.Parse(cq.Data)
	if err != nil {
		slog.Warn("unknown callback", "error", err, "user_id", user.ID)
		h.sendText(ctx, chatID, msgInvalidOption)
		return
	}
	if action.Kind == callback.KindNoop {
		return
	}
	if action.Admin() && !user.IsAdmin() {
		slog.Warn("admin action denied", "action", action.String(), "user_id", user.ID)
		h.sendText(ctx, chatID, msgForbidden)
		return
	}

	if err := h.dispatch(ctx, chatID, user, action); err != nil {
		h.fail(ctx, chatID, action.String(), err)
	}
}

func (h *Handler) answer(ctx context.Context, queryID string) {
	if _, err := h.msg.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
	}); err != nil {
		slog.Debug("answer callback query", "error", err)
	}
}
