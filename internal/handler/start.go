package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/earnhub/internal/domain"
	"github.com/set-night/earnhub/internal/menu"
	"github.com/set-night/earnhub/internal/middleware"
	"github.com/set-night/earnhub/internal/service"
)

func (h *Handler) handleStart(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}
	chatID := update.Message.Chat.ID

	// Deep link payload: referral_<id>
	var referrerID int64
	if _, payload, ok := strings.Cut(update.Message.Text, " "); ok {
		if id, ok := service.ParseReferralPayload(strings.TrimSpace(payload)); ok {
			referrerID = id
		}
	}

	if middleware.IsNewUser(ctx) {
		slog.Info("user registered", "user_id", user.ID, "referrer_id", referrerID)
		h.tgLogger.LogRegistration(user, referrerID)
		if referrerID != 0 {
			h.awardReferral(ctx, referrerID, user.ID)
		}
	}

	h.clearForm(ctx, chatID)

	st, err := h.settings.Snapshot(ctx)
	if err != nil {
		h.fail(ctx, chatID, "start", err)
		return
	}
	h.sendScreen(ctx, chatID, menu.Welcome(st))
}

// awardReferral credits the referrer of a freshly registered user and tells
// them about it. Failures never block the new user's /start.
func (h *Handler) awardReferral(ctx context.Context, referrerID, referredID int64) {
	awarded, points, err := h.ledger.AwardReferral(ctx, referrerID, referredID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			slog.Info("referral from unknown user", "referrer_id", referrerID, "user_id", referredID)
			return
		}
		slog.Error("award referral", "error", err, "referrer_id", referrerID, "user_id", referredID)
		h.tgLogger.LogError(err, "award referral")
		return
	}
	if !awarded {
		return
	}

	slog.Info("referral awarded", "referrer_id", referrerID, "user_id", referredID, "points", points)
	h.tgLogger.LogReferral(referrerID, referredID, points)

	text := fmt.Sprintf("🎉 You've earned %d points for referring a new user!", points)
	if referrer, err := h.users.Get(ctx, referrerID); err == nil {
		text += fmt.Sprintf(" Your new balance is %d points.", referrer.Balance)
	}
	h.sendText(ctx, referrerID, text)
}

func (h *Handler) handleMenu(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}
	h.sendScreen(ctx, update.Message.Chat.ID, menu.MainMenu(user.IsAdmin()))
}

func (h *Handler) handleAdmin(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}
	chatID := update.Message.Chat.ID
	if !user.IsAdmin() {
		h.sendText(ctx, chatID, msgForbidden)
		return
	}
	if err := h.showAdmin(ctx, chatID); err != nil {
		h.fail(ctx, chatID, "admin", err)
	}
}

func (h *Handler) handleCancel(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}
	chatID := update.Message.Chat.ID
	if err := h.cancelForm(ctx, chatID, user); err != nil {
		h.fail(ctx, chatID, "cancel", err)
	}
}

// verifyJoin checks the required channel. An unconfigured channel lets
// everyone through.
func (h *Handler) verifyJoin(ctx context.Context, chatID int64, user *domain.User) error {
	st, err := h.settings.Snapshot(ctx)
	if err != nil {
		return err
	}
	if st.ChannelID != "" {
		member, err := h.membership.IsMember(ctx, st.ChannelID, user.ID)
		if err != nil {
			return err
		}
		if !member {
			h.sendText(ctx, chatID, msgVerifyJoinFirst)
			return nil
		}
	}
	h.sendText(ctx, chatID, msgVerifyOK)
	return h.send(ctx, chatID, menu.MainMenu(user.IsAdmin()))
}
