package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/set-night/earnhub/internal/domain"
	"github.com/set-night/earnhub/internal/menu"
	"github.com/set-night/earnhub/internal/telegram"
)

const (
	msgInvalidOption   = "Please select a valid option."
	msgForbidden       = "⛔ This action is only available to administrators."
	msgTryAgain        = "⚠️ Something went wrong. Please try again later."
	msgUnableToVerify  = "⚠️ Unable to verify. Please try again later."
	msgNotFound        = "❌ Not found. It may have been removed."
	msgNoPendingForm   = "Use /menu to open the main menu."
	msgCancelled       = "✖️ Cancelled."
	msgFormExpired     = "⌛ That form has expired. Please start again from the menu."
	msgVerifyOK        = "✅ Verification successful!"
	msgVerifyJoinFirst = "🚫 Please join the channel before proceeding."
	msgAlreadySettled  = "This transaction is already settled."
)

func (h *Handler) send(ctx context.Context, chatID int64, s telegram.Screen) error {
	return telegram.Send(ctx, h.msg, chatID, s)
}

// sendText sends a plain notice; delivery failures are only logged.
func (h *Handler) sendText(ctx context.Context, chatID int64, text string) {
	if err := telegram.SendText(ctx, h.msg, chatID, text, nil); err != nil {
		slog.Error("send message", "error", err, "chat_id", chatID)
	}
}

// fail reports an error that escaped a handler. Stale ids and forbidden
// actions get their own notice; anything else is logged and mirrored to the
// admin log chat.
func (h *Handler) fail(ctx context.Context, chatID int64, action string, err error) {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrOpportunityNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		slog.Info("stale reference", "action", action, "error", err, "chat_id", chatID)
		h.sendScreen(ctx, chatID, telegram.Screen{Text: msgNotFound, Keyboard: menu.BackKeyboard()})
	case errors.Is(err, domain.ErrAlreadySettled):
		h.sendText(ctx, chatID, msgAlreadySettled)
	case errors.Is(err, domain.ErrForbidden):
		h.sendText(ctx, chatID, msgForbidden)
	case errors.Is(err, domain.ErrUnknownAction), errors.Is(err, domain.ErrUnknownField):
		h.sendText(ctx, chatID, msgInvalidOption)
	case errors.Is(err, domain.ErrMembershipUnknown):
		slog.Warn("membership lookup failed", "action", action, "error", err, "chat_id", chatID)
		h.sendText(ctx, chatID, msgUnableToVerify)
	default:
		slog.Error("handler failed", "action", action, "error", err, "chat_id", chatID)
		h.tgLogger.LogError(err, action)
		h.sendText(ctx, chatID, msgTryAgain)
	}
}

// sendScreen is send for paths that have nowhere to return the error.
func (h *Handler) sendScreen(ctx context.Context, chatID int64, s telegram.Screen) {
	if err := h.send(ctx, chatID, s); err != nil {
		slog.Error("send screen", "error", err, "chat_id", chatID)
	}
}
