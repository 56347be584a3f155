package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/earnhub/internal/conversation"
	"github.com/set-night/earnhub/internal/domain"
	"github.com/set-night/earnhub/internal/menu"
	"github.com/set-night/earnhub/internal/middleware"
	"github.com/set-night/earnhub/internal/telegram"
	"github.com/shopspring/decimal"
)

// startForm replaces any pending form of the chat and asks for the first field.
func (h *Handler) startForm(ctx context.Context, chatID int64, form conversation.Form, targetID int64, key string) error {
	st, err := conversation.New(form, targetID, key)
	if err != nil {
		return err
	}
	if err := h.conversations.Put(ctx, chatID, st); err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}
	return h.send(ctx, chatID, menu.FormPrompt(st.Prompt()))
}

func (h *Handler) cancelForm(ctx context.Context, chatID int64, user *domain.User) error {
	if err := h.conversations.Clear(ctx, chatID); err != nil {
		return fmt.Errorf("clear conversation: %w", err)
	}
	return h.send(ctx, chatID, withNotice(msgCancelled, menu.MainMenu(user.IsAdmin())))
}

func (h *Handler) clearForm(ctx context.Context, chatID int64) {
	if err := h.conversations.Clear(ctx, chatID); err != nil {
		slog.Error("clear conversation", "error", err, "chat_id", chatID)
	}
}

// handleText feeds a free-text reply into the chat's pending form.
func (h *Handler) handleText(ctx context.Context, _ *bot.Bot, update *models.Update) {
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}
	chatID := update.Message.Chat.ID
	text := update.Message.Text

	st, err := h.conversations.Get(ctx, chatID)
	if err != nil {
		h.fail(ctx, chatID, "conversation", fmt.Errorf("load conversation: %w", err))
		return
	}
	if st == nil {
		h.sendText(ctx, chatID, msgNoPendingForm)
		return
	}
	if st.Expired(time.Now()) {
		h.clearForm(ctx, chatID)
		h.sendText(ctx, chatID, msgFormExpired)
		return
	}
	if conversation.IsCancel(text) {
		if err := h.cancelForm(ctx, chatID, user); err != nil {
			h.fail(ctx, chatID, "cancel", err)
		}
		return
	}
	if st.Form.AdminOnly() && !user.IsAdmin() {
		slog.Warn("admin form denied", "form", st.Form, "user_id", user.ID)
		h.clearForm(ctx, chatID)
		h.sendText(ctx, chatID, msgForbidden)
		return
	}

	done, err := st.Advance(text)
	if err != nil {
		h.reprompt(ctx, chatID, st, err)
		return
	}
	if !done {
		if err := h.conversations.Put(ctx, chatID, st); err != nil {
			h.fail(ctx, chatID, string(st.Form), fmt.Errorf("save conversation: %w", err))
			return
		}
		h.sendScreen(ctx, chatID, menu.FormPrompt(st.Prompt()))
		return
	}

	h.clearForm(ctx, chatID)
	if err := h.completeForm(ctx, chatID, user, st); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrInvalidAmount) {
			// Ask for the last field again.
			st.Step--
			if perr := h.conversations.Put(ctx, chatID, st); perr != nil {
				h.fail(ctx, chatID, string(st.Form), fmt.Errorf("save conversation: %w", perr))
				return
			}
			h.reprompt(ctx, chatID, st, err)
			return
		}
		h.fail(ctx, chatID, string(st.Form), err)
	}
}

// reprompt explains why the reply was rejected and repeats the question.
func (h *Handler) reprompt(ctx context.Context, chatID int64, st *conversation.State, err error) {
	if !errors.Is(err, domain.ErrInvalidInput) && !errors.Is(err, domain.ErrInvalidAmount) {
		h.fail(ctx, chatID, string(st.Form), err)
		return
	}
	reason := strings.TrimSuffix(err.Error(), ": "+domain.ErrInvalidInput.Error())
	if errors.Is(err, domain.ErrInvalidAmount) {
		reason = "The amount must be greater than zero."
	}
	h.sendScreen(ctx, chatID, menu.FormPrompt("❌ "+telegram.EscapeMarkdown(reason)+"\n\n"+st.Prompt()))
}

// completeForm applies a fully collected form. Admin forms were role-checked
// by the caller against the user loaded for this update.
func (h *Handler) completeForm(ctx context.Context, chatID int64, user *domain.User, st *conversation.State) error {
	switch st.Form {
	case conversation.FormWithdrawalDetail:
		field := domain.WithdrawalField(st.Key)
		if err := h.users.SetWithdrawalDetail(ctx, user.ID, field, st.Value(st.Key)); err != nil {
			return err
		}
		slog.Info("withdrawal detail saved", "user_id", user.ID, "field", field)
		return h.send(ctx, chatID, menu.WithdrawalDetailSaved(field))

	case conversation.FormAddTask:
		task, err := h.tasks.Create(ctx, st.Data)
		if err != nil {
			return err
		}
		slog.Info("task created", "task_id", task.ID, "admin_id", user.ID)
		return h.showAdminTasks(ctx, chatID, fmt.Sprintf("✅ Task #%d created.", task.ID))

	case conversation.FormEditTask:
		task, err := h.tasks.UpdateField(ctx, st.TargetID, st.Key, st.Value(st.Key))
		if err != nil {
			return err
		}
		slog.Info("task updated", "task_id", task.ID, "field", st.Key, "admin_id", user.ID)
		return h.send(ctx, chatID, withNotice("✅ Task updated.", menu.AdminTask(task)))

	case conversation.FormAddOpportunity:
		opp, err := h.opportunities.Create(ctx, st.Data)
		if err != nil {
			return err
		}
		slog.Info("opportunity created", "opportunity_id", opp.ID, "admin_id", user.ID)
		return h.showAdminOpportunities(ctx, chatID, fmt.Sprintf("✅ Opportunity #%d created.", opp.ID))

	case conversation.FormEditOpportunity:
		opp, err := h.opportunities.UpdateField(ctx, st.TargetID, st.Key, st.Value(st.Key))
		if err != nil {
			return err
		}
		slog.Info("opportunity updated", "opportunity_id", opp.ID, "field", st.Key, "admin_id", user.ID)
		return h.send(ctx, chatID, withNotice("✅ Opportunity updated.", menu.AdminOpportunity(opp)))

	case conversation.FormEditSetting:
		if err := h.settings.Update(ctx, st.Key, st.Value(st.Key)); err != nil {
			return err
		}
		slog.Info("setting updated", "path", st.Key, "admin_id", user.ID)
		return h.showAdminSettings(ctx, chatID, "✅ Setting saved.")

	case conversation.FormSettleDeposit:
		amount, err := decimal.NewFromString(st.Value("amount"))
		if err != nil {
			return fmt.Errorf("settle amount: %v: %w", err, domain.ErrInvalidAmount)
		}
		return h.settle(ctx, chatID, st.TargetID, amount)
	}
	return fmt.Errorf("complete form %s: %w", st.Form, domain.ErrUnknownAction)
}
