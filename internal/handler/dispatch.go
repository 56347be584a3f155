package handler

import (
	"context"
	"fmt"

	"github.com/set-night/earnhub/internal/callback"
	"github.com/set-night/earnhub/internal/conversation"
	"github.com/set-night/earnhub/internal/domain"
	"github.com/set-night/earnhub/internal/menu"
)

func (h *Handler) dispatch(ctx context.Context, chatID int64, user *domain.User, a callback.Action) error {
	switch a.Kind {
	case callback.KindJoinVerify:
		return h.verifyJoin(ctx, chatID, user)
	case callback.KindMainMenu:
		return h.send(ctx, chatID, menu.MainMenu(user.IsAdmin()))
	case callback.KindHome:
		return h.showHome(ctx, chatID, user)
	case callback.KindTasks:
		return h.showTasks(ctx, chatID, user)
	case callback.KindClaimTask:
		return h.claimTask(ctx, chatID, user, a.ID)
	case callback.KindRefer:
		return h.showRefer(ctx, chatID, user)
	case callback.KindWithdrawalSetup:
		return h.send(ctx, chatID, menu.WithdrawalSetup())
	case callback.KindWithdrawalDetails:
		return h.send(ctx, chatID, menu.WithdrawalDetails(user))
	case callback.KindSetWithdrawal:
		return h.startForm(ctx, chatID, conversation.FormWithdrawalDetail, 0, a.Field)
	case callback.KindCancel:
		return h.cancelForm(ctx, chatID, user)
	case callback.KindEarn:
		return h.showEarn(ctx, chatID)
	case callback.KindDeposit:
		return h.deposit(ctx, chatID, user, a.ID)
	case callback.KindConfirmDeposit:
		return h.confirmDeposit(ctx, chatID, user, a.ID)
	case callback.KindWithdraw:
		return h.withdrawPrompt(ctx, chatID, user, a.ID)
	case callback.KindConfirmWithdraw:
		return h.withdraw(ctx, chatID, user, a.ID)

	case callback.KindAdmin:
		return h.showAdmin(ctx, chatID)
	case callback.KindAdminTasks:
		return h.showAdminTasks(ctx, chatID, "")
	case callback.KindAdminAddTask:
		return h.startForm(ctx, chatID, conversation.FormAddTask, 0, "")
	case callback.KindEditTask:
		return h.showAdminTask(ctx, chatID, a.ID)
	case callback.KindEditTaskField:
		if _, err := h.tasks.Get(ctx, a.ID); err != nil {
			return err
		}
		return h.startForm(ctx, chatID, conversation.FormEditTask, a.ID, a.Field)
	case callback.KindDeleteTask:
		return h.send(ctx, chatID, menu.ConfirmDelete("task", callback.KindConfirmDeleteTask, callback.KindAdminTasks, a.ID))
	case callback.KindConfirmDeleteTask:
		return h.deleteTask(ctx, chatID, a.ID)
	case callback.KindAdminOpportunities:
		return h.showAdminOpportunities(ctx, chatID, "")
	case callback.KindAdminAddOpportunity:
		return h.startForm(ctx, chatID, conversation.FormAddOpportunity, 0, "")
	case callback.KindEditOpportunity:
		return h.showAdminOpportunity(ctx, chatID, a.ID)
	case callback.KindEditOpportunityField:
		if _, err := h.opportunities.Get(ctx, a.ID); err != nil {
			return err
		}
		return h.startForm(ctx, chatID, conversation.FormEditOpportunity, a.ID, a.Field)
	case callback.KindDeleteOpportunity:
		return h.send(ctx, chatID, menu.ConfirmDelete("opportunity", callback.KindConfirmDeleteOpportunity, callback.KindAdminOpportunities, a.ID))
	case callback.KindConfirmDeleteOpportunity:
		return h.deleteOpportunity(ctx, chatID, a.ID)
	case callback.KindAdminSettings:
		return h.showAdminSettings(ctx, chatID, "")
	case callback.KindEditSetting:
		return h.startForm(ctx, chatID, conversation.FormEditSetting, 0, a.Field)
	case callback.KindAdminTransactions:
		return h.showTransactions(ctx, chatID, 0)
	case callback.KindAdminTransactionsPage:
		return h.showTransactions(ctx, chatID, int(a.ID)-1)
	case callback.KindSettleTx:
		return h.settleTransaction(ctx, chatID, a.ID)
	}
	return fmt.Errorf("dispatch %s: %w", a.Kind, domain.ErrUnknownAction)
}
