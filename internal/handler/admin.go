package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/set-night/earnhub/internal/conversation"
	"github.com/set-night/earnhub/internal/domain"
	"github.com/set-night/earnhub/internal/menu"
	"github.com/set-night/earnhub/internal/telegram"
	"github.com/shopspring/decimal"
)

// withNotice prefixes a screen with a one-line status.
func withNotice(notice string, s telegram.Screen) telegram.Screen {
	if notice != "" {
		s.Text = notice + "\n\n" + s.Text
	}
	return s
}

func (h *Handler) showAdmin(ctx context.Context, chatID int64) error {
	st, err := h.stats.Dashboard(ctx)
	if err != nil {
		return err
	}
	return h.send(ctx, chatID, menu.AdminDashboard(st))
}

func (h *Handler) showAdminTasks(ctx context.Context, chatID int64, notice string) error {
	tasks, err := h.tasks.List(ctx)
	if err != nil {
		return err
	}
	return h.send(ctx, chatID, withNotice(notice, menu.AdminTasks(tasks)))
}

func (h *Handler) showAdminTask(ctx context.Context, chatID int64, id int64) error {
	task, err := h.tasks.Get(ctx, id)
	if err != nil {
		return err
	}
	return h.send(ctx, chatID, menu.AdminTask(task))
}

func (h *Handler) deleteTask(ctx context.Context, chatID int64, id int64) error {
	if err := h.tasks.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("task deleted", "task_id", id, "chat_id", chatID)
	return h.showAdminTasks(ctx, chatID, fmt.Sprintf("🗑 Task #%d deleted.", id))
}

func (h *Handler) showAdminOpportunities(ctx context.Context, chatID int64, notice string) error {
	opps, err := h.opportunities.List(ctx)
	if err != nil {
		return err
	}
	return h.send(ctx, chatID, withNotice(notice, menu.AdminOpportunities(opps)))
}

func (h *Handler) showAdminOpportunity(ctx context.Context, chatID int64, id int64) error {
	opp, err := h.opportunities.Get(ctx, id)
	if err != nil {
		return err
	}
	return h.send(ctx, chatID, menu.AdminOpportunity(opp))
}

func (h *Handler) deleteOpportunity(ctx context.Context, chatID int64, id int64) error {
	if err := h.opportunities.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("opportunity deleted", "opportunity_id", id, "chat_id", chatID)
	return h.showAdminOpportunities(ctx, chatID, fmt.Sprintf("🗑 Opportunity #%d deleted.", id))
}

func (h *Handler) showAdminSettings(ctx context.Context, chatID int64, notice string) error {
	st, err := h.settings.Snapshot(ctx)
	if err != nil {
		return err
	}
	return h.send(ctx, chatID, withNotice(notice, menu.AdminSettings(st)))
}

// showTransactions renders one zero-based page of pending transactions.
func (h *Handler) showTransactions(ctx context.Context, chatID int64, page int) error {
	if page < 0 {
		page = 0
	}
	st, err := h.stats.Dashboard(ctx)
	if err != nil {
		return err
	}
	txs, err := h.ledger.PendingTransactions(ctx, page)
	if err != nil {
		return err
	}
	return h.send(ctx, chatID, menu.AdminTransactions(txs, page, st.PendingTransactions))
}

// settleTransaction settles a withdrawal at once; a deposit first asks for
// the amount actually received.
func (h *Handler) settleTransaction(ctx context.Context, chatID int64, txID int64) error {
	tx, err := h.ledger.GetTransaction(ctx, txID)
	if err != nil {
		return err
	}
	if tx.Status == domain.TxStatusCompleted {
		h.sendText(ctx, chatID, fmt.Sprintf("Transaction #%d is already settled.", tx.ID))
		return nil
	}
	if tx.Type == domain.TxTypeDeposit {
		return h.startForm(ctx, chatID, conversation.FormSettleDeposit, tx.ID, "")
	}
	return h.settle(ctx, chatID, tx.ID, decimal.Zero)
}

func (h *Handler) settle(ctx context.Context, chatID int64, txID int64, amount decimal.Decimal) error {
	tx, err := h.ledger.Settle(ctx, txID, amount)
	if err != nil {
		return err
	}
	h.Settled(ctx, tx)
	return h.showTransactions(ctx, chatID, 0)
}

// Settled logs a settlement and tells the owner of the transaction that it
// went through. The ops API calls it too.
func (h *Handler) Settled(ctx context.Context, tx *domain.Transaction) {
	slog.Info("transaction settled", "tx_id", tx.ID, "type", tx.Type, "user_id", tx.UserID, "amount", tx.Amount.String())
	h.tgLogger.LogSettled(tx)

	text := fmt.Sprintf("✅ Your withdrawal of %s %s has been processed.", tx.Amount.String(), tx.Currency)
	if tx.Type == domain.TxTypeDeposit {
		text = fmt.Sprintf("✅ Your deposit of %s %s has been credited to your balance.", tx.Amount.String(), tx.Currency)
	}
	h.sendText(ctx, tx.UserID, text)
}
