package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/set-night/earnhub/internal/domain"
	"github.com/set-night/earnhub/internal/menu"
	"github.com/set-night/earnhub/internal/service"
	"github.com/set-night/earnhub/internal/telegram"
)

func (h *Handler) showEarn(ctx context.Context, chatID int64) error {
	opps, err := h.opportunities.List(ctx)
	if err != nil {
		return err
	}
	return h.send(ctx, chatID, menu.Earn(opps))
}

// deposit shows where to send funds. Nothing is recorded until the user
// confirms.
func (h *Handler) deposit(ctx context.Context, chatID int64, user *domain.User, oppID int64) error {
	opp, err := h.opportunities.Get(ctx, oppID)
	if err != nil {
		return err
	}

	var qr []byte
	if opp.QRCodeURL == "" {
		if qr, err = telegram.QRCodePNG(opp.Address); err != nil {
			slog.Warn("render deposit qr", "error", err, "opportunity_id", opp.ID)
		}
	}
	return h.send(ctx, chatID, menu.Deposit(opp, service.DepositMemo(user.ID), qr))
}

// confirmDeposit records the pending deposit an admin settles later.
func (h *Handler) confirmDeposit(ctx context.Context, chatID int64, user *domain.User, oppID int64) error {
	tx, opp, err := h.ledger.RecordDeposit(ctx, user.ID, oppID)
	if err != nil {
		return err
	}
	slog.Info("deposit confirmed", "user_id", user.ID, "opportunity_id", opp.ID, "tx_id", tx.ID)
	h.tgLogger.LogDeposit(tx, opp)
	return h.send(ctx, chatID, menu.DepositConfirmed(opp, tx))
}

func (h *Handler) withdrawPrompt(ctx context.Context, chatID int64, user *domain.User, oppID int64) error {
	opp, err := h.opportunities.Get(ctx, oppID)
	if err != nil {
		return err
	}
	return h.send(ctx, chatID, menu.WithdrawPrompt(opp, user.CryptoBalance(opp.Currency)))
}

func (h *Handler) withdraw(ctx context.Context, chatID int64, user *domain.User, oppID int64) error {
	tx, opp, err := h.ledger.RecordWithdrawal(ctx, user.ID, oppID)
	if errors.Is(err, domain.ErrInsufficientBalance) && opp != nil {
		return h.send(ctx, chatID, menu.InsufficientBalance(opp, user.CryptoBalance(opp.Currency)))
	}
	if err != nil {
		return err
	}
	slog.Info("withdrawal requested", "user_id", user.ID, "opportunity_id", opp.ID, "tx_id", tx.ID, "amount", tx.Amount.String())
	h.tgLogger.LogWithdrawal(tx, opp)
	return h.send(ctx, chatID, menu.WithdrawalSubmitted(opp, tx))
}
