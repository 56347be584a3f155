package repository

import (
	"context"
	"fmt"

	"github.com/set-night/earnhub/internal/domain"
)

const transactionColumns = `id, user_id, opportunity_id, type, currency, amount, status, memo,
	reference::text, created_at, completed_at`

func scanTransaction(row interface{ Scan(...interface{}) error }) (*domain.Transaction, error) {
	var (
		t              domain.Transaction
		txType, status string
	)
	if err := row.Scan(
		&t.ID, &t.UserID, &t.OpportunityID, &txType, &t.Currency, &t.Amount, &status, &t.Memo,
		&t.Reference, &t.CreatedAt, &t.CompletedAt,
	); err != nil {
		return nil, err
	}
	t.Type = domain.TxType(txType)
	t.Status = domain.TxStatus(status)
	return &t, nil
}

// CreateTransaction inserts t and fills in its ID and CreatedAt.
func (q *Queries) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	return q.db.QueryRow(ctx, `
		INSERT INTO transactions (user_id, opportunity_id, type, currency, amount, status, memo, reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::text::uuid)
		RETURNING id, created_at`,
		t.UserID, t.OpportunityID, string(t.Type), t.Currency, t.Amount, string(t.Status), t.Memo, t.Reference,
	).Scan(&t.ID, &t.CreatedAt)
}

func (q *Queries) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	t, err := scanTransaction(q.db.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrTransactionNotFound)
	}
	return t, nil
}

func (q *Queries) GetTransactionForUpdate(ctx context.Context, id int64) (*domain.Transaction, error) {
	t, err := scanTransaction(q.db.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrTransactionNotFound)
	}
	return t, nil
}

// CompleteTransaction marks t completed with its current amount and fills in
// CompletedAt.
func (q *Queries) CompleteTransaction(ctx context.Context, t *domain.Transaction) error {
	err := q.db.QueryRow(ctx, `
		UPDATE transactions SET status = 'completed', amount = $2, completed_at = now()
		WHERE id = $1
		RETURNING completed_at`, t.ID, t.Amount).Scan(&t.CompletedAt)
	if err != nil {
		return notFound(err, domain.ErrTransactionNotFound)
	}
	t.Status = domain.TxStatusCompleted
	return nil
}

// ListTransactions returns transactions with the given status, oldest first.
func (q *Queries) ListTransactions(ctx context.Context, status domain.TxStatus, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE status = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3`, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []*domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (q *Queries) CountTransactions(ctx context.Context, status domain.TxStatus) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM transactions WHERE status = $1`, string(status)).Scan(&n)
	return n, err
}
