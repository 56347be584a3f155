package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/set-night/earnhub/internal/config"
	"github.com/set-night/earnhub/internal/domain"
	"github.com/shopspring/decimal"
)

// Membership checks channel subscriptions.
type Membership interface {
	IsMember(ctx context.Context, channel string, userID int64) (bool, error)
}

// LedgerService owns every balance mutation: referral rewards, task rewards,
// deposits, withdrawals and their settlement.
type LedgerService struct {
	store      LedgerStore
	membership Membership
	settings   *SettingsService
	locks      *KeyedMutex
}

func NewLedgerService(store LedgerStore, membership Membership, settings *SettingsService) *LedgerService {
	return &LedgerService{
		store:      store,
		membership: membership,
		settings:   settings,
		locks:      NewKeyedMutex(),
	}
}

// AwardReferral credits referrerID for bringing in referredID. It is a no-op
// for self-referrals and for users that were already referred.
func (s *LedgerService) AwardReferral(ctx context.Context, referrerID, referredID int64) (awarded bool, points int64, err error) {
	if referrerID == referredID {
		return false, 0, nil
	}

	points, err = s.settings.ReferralPoints(ctx)
	if err != nil {
		return false, 0, err
	}

	unlock := s.locks.Lock(referrerID)
	defer unlock()

	awarded, err = s.store.ApplyReferral(ctx, referrerID, referredID, points)
	if err != nil {
		return false, 0, fmt.Errorf("apply referral: %w", err)
	}
	return awarded, points, nil
}

// ClaimTask credits the task's points once the user is verified as a member
// of the task channel. It returns the task and the user's new balance.
func (s *LedgerService) ClaimTask(ctx context.Context, userID, taskID int64) (*domain.Task, int64, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if user.HasCompleted(taskID) {
		return nil, 0, domain.ErrTaskAlreadyDone
	}

	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, 0, err
	}

	ok, err := s.membership.IsMember(ctx, task.ChannelID, userID)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, domain.ErrNotMember
	}

	task, balance, err := s.store.CompleteTask(ctx, userID, taskID)
	if err != nil {
		return nil, 0, err
	}
	return task, balance, nil
}

// DepositMemo is the memo a user attaches to deposits so an admin can match
// incoming funds to them.
func DepositMemo(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// RecordDeposit opens a pending deposit once the user confirms sending funds.
// The amount stays zero until an admin settles it.
func (s *LedgerService) RecordDeposit(ctx context.Context, userID, oppID int64) (*domain.Transaction, *domain.Opportunity, error) {
	opp, err := s.store.GetOpportunity(ctx, oppID)
	if err != nil {
		return nil, nil, err
	}

	t := newTransaction(userID, opp, domain.TxTypeDeposit)
	if err := s.store.CreateTransaction(ctx, t); err != nil {
		return nil, nil, fmt.Errorf("create deposit: %w", err)
	}
	return t, opp, nil
}

// RecordWithdrawal debits the user's whole balance in the opportunity's
// currency and opens a pending withdrawal for it.
func (s *LedgerService) RecordWithdrawal(ctx context.Context, userID, oppID int64) (*domain.Transaction, *domain.Opportunity, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	opp, err := s.store.GetOpportunity(ctx, oppID)
	if err != nil {
		return nil, nil, err
	}

	t := newTransaction(userID, opp, domain.TxTypeWithdrawal)
	if err := s.store.Withdraw(ctx, t, opp.MinWithdrawal); err != nil {
		return nil, opp, err
	}
	return t, opp, nil
}

// Settle completes a pending transaction. amount is required for deposits
// and ignored for withdrawals.
func (s *LedgerService) Settle(ctx context.Context, txID int64, amount decimal.Decimal) (*domain.Transaction, error) {
	t, err := s.store.GetTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}
	if t.Status == domain.TxStatusCompleted {
		return nil, domain.ErrAlreadySettled
	}
	if t.Type == domain.TxTypeDeposit && !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	unlock := s.locks.Lock(t.UserID)
	defer unlock()

	return s.store.Settle(ctx, txID, amount)
}

func (s *LedgerService) GetTransaction(ctx context.Context, txID int64) (*domain.Transaction, error) {
	return s.store.GetTransaction(ctx, txID)
}

// PendingTransactions returns one page of pending transactions, oldest first.
func (s *LedgerService) PendingTransactions(ctx context.Context, page int) ([]*domain.Transaction, error) {
	if page < 0 {
		page = 0
	}
	limit := config.PendingTransactionsPerPage
	return s.store.ListTransactions(ctx, domain.TxStatusPending, limit, page*limit)
}

func newTransaction(userID int64, opp *domain.Opportunity, typ domain.TxType) *domain.Transaction {
	oppID := opp.ID
	return &domain.Transaction{
		UserID:        userID,
		OpportunityID: &oppID,
		Type:          typ,
		Currency:      opp.Currency,
		Amount:        decimal.Zero,
		Status:        domain.TxStatusPending,
		Memo:          DepositMemo(userID),
		Reference:     uuid.NewString(),
	}
}
