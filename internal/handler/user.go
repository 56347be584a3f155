package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/set-night/earnhub/internal/domain"
	"github.com/set-night/earnhub/internal/menu"
	"github.com/set-night/earnhub/internal/service"
)

func (h *Handler) showHome(ctx context.Context, chatID int64, user *domain.User) error {
	st, err := h.settings.Snapshot(ctx)
	if err != nil {
		return err
	}
	return h.send(ctx, chatID, menu.Home(user, st))
}

func (h *Handler) showTasks(ctx context.Context, chatID int64, user *domain.User) error {
	tasks, err := h.tasks.List(ctx)
	if err != nil {
		return err
	}
	return h.send(ctx, chatID, menu.Tasks(tasks, user))
}

func (h *Handler) claimTask(ctx context.Context, chatID int64, user *domain.User, taskID int64) error {
	task, balance, err := h.ledger.ClaimTask(ctx, user.ID, taskID)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrTaskAlreadyDone):
		return h.send(ctx, chatID, menu.TaskResult("✅ You have already completed this task."))
	case errors.Is(err, domain.ErrNotMember):
		return h.send(ctx, chatID, menu.TaskResult("🚫 Please join the task channel to claim your reward."))
	case errors.Is(err, domain.ErrMembershipUnknown):
		slog.Warn("task membership lookup failed", "error", err, "user_id", user.ID, "task_id", taskID)
		return h.send(ctx, chatID, menu.TaskResult("⚠️ Unable to verify task completion. Please try again later."))
	default:
		return err
	}

	slog.Info("task completed", "user_id", user.ID, "task_id", task.ID, "points", task.Points)
	h.tgLogger.LogTaskCompleted(user.ID, task, balance)
	return h.send(ctx, chatID, menu.TaskResult(fmt.Sprintf(
		"🎉 Task completed! You've earned %d points. Your new balance is %d points.", task.Points, balance)))
}

func (h *Handler) showRefer(ctx context.Context, chatID int64, user *domain.User) error {
	points, err := h.settings.ReferralPoints(ctx)
	if err != nil {
		return err
	}
	link := service.ReferralLink(h.botUsername, user.ID)
	return h.send(ctx, chatID, menu.Refer(link, user.Referrals, points))
}
