package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/earnhub/internal/domain"
	"github.com/shopspring/decimal"
)

// Store combines the single-statement Queries with the operations that must
// change several rows atomically.
type Store struct {
	*Queries
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Queries: New(pool), pool: pool}
}

func (s *Store) inTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(s.Queries.WithTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ApplyReferral writes the referral row and credits the referrer in one
// transaction. applied is false when referredID was already referred.
func (s *Store) ApplyReferral(ctx context.Context, referrerID, referredID, points int64) (applied bool, err error) {
	err = s.inTx(ctx, func(q *Queries) error {
		if _, err := q.GetUserForUpdate(ctx, referrerID); err != nil {
			return fmt.Errorf("lock referrer: %w", err)
		}

		applied, err = q.InsertReferral(ctx, &domain.Referral{
			ReferrerID: referrerID,
			ReferredID: referredID,
			Points:     points,
		})
		if err != nil {
			return fmt.Errorf("insert referral: %w", err)
		}
		if !applied {
			return nil
		}

		if _, err := q.AddUserPoints(ctx, referrerID, points); err != nil {
			return fmt.Errorf("credit referrer: %w", err)
		}
		if err := q.IncrementReferrals(ctx, referrerID); err != nil {
			return fmt.Errorf("increment referrals: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// CompleteTask records the completion and credits the task's points in one
// transaction. It returns the credited task and the user's new balance.
func (s *Store) CompleteTask(ctx context.Context, userID, taskID int64) (task *domain.Task, balance int64, err error) {
	err = s.inTx(ctx, func(q *Queries) error {
		if _, err := q.GetUserForUpdate(ctx, userID); err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		task, err = q.GetTask(ctx, taskID)
		if err != nil {
			return err
		}

		inserted, err := q.InsertTaskCompletion(ctx, userID, taskID)
		if err != nil {
			return fmt.Errorf("insert completion: %w", err)
		}
		if !inserted {
			return domain.ErrTaskAlreadyDone
		}

		balance, err = q.AddUserPoints(ctx, userID, task.Points)
		if err != nil {
			return fmt.Errorf("credit points: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return task, balance, nil
}

// Withdraw debits the user's whole balance in t.Currency and records t as a
// pending withdrawal for that amount. The balance must be positive and at
// least min, otherwise nothing changes.
func (s *Store) Withdraw(ctx context.Context, t *domain.Transaction, min decimal.Decimal) error {
	return s.inTx(ctx, func(q *Queries) error {
		user, err := q.GetUserForUpdate(ctx, t.UserID)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		available := user.CryptoBalance(t.Currency)
		if !available.IsPositive() || available.LessThan(min) {
			return domain.ErrInsufficientBalance
		}

		user.CryptoBalances[t.Currency] = decimal.Zero
		if err := q.SetCryptoBalances(ctx, user.ID, user.CryptoBalances); err != nil {
			return fmt.Errorf("debit balance: %w", err)
		}

		t.Type = domain.TxTypeWithdrawal
		t.Status = domain.TxStatusPending
		t.Amount = available
		if err := q.CreateTransaction(ctx, t); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		return nil
	})
}

// Settle completes a pending transaction. Deposits are credited with amount,
// which must be positive; withdrawals keep the amount already debited.
func (s *Store) Settle(ctx context.Context, txID int64, amount decimal.Decimal) (*domain.Transaction, error) {
	var t *domain.Transaction
	err := s.inTx(ctx, func(q *Queries) error {
		var err error
		t, err = q.GetTransactionForUpdate(ctx, txID)
		if err != nil {
			return err
		}
		if t.Status == domain.TxStatusCompleted {
			return domain.ErrAlreadySettled
		}

		if t.Type == domain.TxTypeDeposit {
			if !amount.IsPositive() {
				return domain.ErrInvalidAmount
			}
			user, err := q.GetUserForUpdate(ctx, t.UserID)
			if err != nil {
				return fmt.Errorf("lock user: %w", err)
			}
			user.CryptoBalances[t.Currency] = user.CryptoBalance(t.Currency).Add(amount)
			if err := q.SetCryptoBalances(ctx, user.ID, user.CryptoBalances); err != nil {
				return fmt.Errorf("credit balance: %w", err)
			}
			t.Amount = amount
		}

		return q.CompleteTransaction(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateSetting applies fn to the stored value of key under a row lock. fn
// receives nil when the key has never been written.
func (s *Store) UpdateSetting(ctx context.Context, key string, fn func(old json.RawMessage) (json.RawMessage, error)) error {
	return s.inTx(ctx, func(q *Queries) error {
		old, err := q.GetSettingForUpdate(ctx, key)
		if err != nil {
			return fmt.Errorf("get setting: %w", err)
		}
		value, err := fn(old)
		if err != nil {
			return err
		}
		return q.UpsertSetting(ctx, key, value)
	})
}

// Stats counts the rows shown on the admin dashboard.
func (s *Store) Stats(ctx context.Context) (domain.Stats, error) {
	var (
		st  domain.Stats
		err error
	)
	if st.Users, err = s.CountUsers(ctx); err != nil {
		return domain.Stats{}, fmt.Errorf("count users: %w", err)
	}
	if st.Referrals, err = s.CountReferrals(ctx); err != nil {
		return domain.Stats{}, fmt.Errorf("count referrals: %w", err)
	}
	if st.Tasks, err = s.CountTasks(ctx); err != nil {
		return domain.Stats{}, fmt.Errorf("count tasks: %w", err)
	}
	if st.Opportunities, err = s.CountOpportunities(ctx); err != nil {
		return domain.Stats{}, fmt.Errorf("count opportunities: %w", err)
	}
	if st.PendingTransactions, err = s.CountTransactions(ctx, domain.TxStatusPending); err != nil {
		return domain.Stats{}, fmt.Errorf("count transactions: %w", err)
	}
	return st, nil
}
