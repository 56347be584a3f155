package repository

import (
	"context"
	"fmt"

	"github.com/set-night/earnhub/internal/domain"
)

const opportunityColumns = `id, name, description, address, currency, min_deposit, min_withdrawal,
	processing_time, confirmation_message, qr_code_url, created_at`

func scanOpportunity(row interface{ Scan(...interface{}) error }) (*domain.Opportunity, error) {
	var o domain.Opportunity
	if err := row.Scan(
		&o.ID, &o.Name, &o.Description, &o.Address, &o.Currency, &o.MinDeposit, &o.MinWithdrawal,
		&o.ProcessingTime, &o.ConfirmationMessage, &o.QRCodeURL, &o.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

func (q *Queries) ListOpportunities(ctx context.Context) ([]*domain.Opportunity, error) {
	rows, err := q.db.Query(ctx, `SELECT `+opportunityColumns+` FROM opportunities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query opportunities: %w", err)
	}
	defer rows.Close()

	var opps []*domain.Opportunity
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan opportunity: %w", err)
		}
		opps = append(opps, o)
	}
	return opps, rows.Err()
}

func (q *Queries) GetOpportunity(ctx context.Context, id int64) (*domain.Opportunity, error) {
	o, err := scanOpportunity(q.db.QueryRow(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrOpportunityNotFound)
	}
	return o, nil
}

// CreateOpportunity inserts o and fills in its ID and CreatedAt.
func (q *Queries) CreateOpportunity(ctx context.Context, o *domain.Opportunity) error {
	return q.db.QueryRow(ctx, `
		INSERT INTO opportunities (name, description, address, currency, min_deposit, min_withdrawal,
			processing_time, confirmation_message, qr_code_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		o.Name, o.Description, o.Address, o.Currency, o.MinDeposit, o.MinWithdrawal,
		o.ProcessingTime, o.ConfirmationMessage, o.QRCodeURL,
	).Scan(&o.ID, &o.CreatedAt)
}

func (q *Queries) UpdateOpportunity(ctx context.Context, o *domain.Opportunity) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE opportunities SET name = $2, description = $3, address = $4, currency = $5,
			min_deposit = $6, min_withdrawal = $7, processing_time = $8,
			confirmation_message = $9, qr_code_url = $10
		WHERE id = $1`,
		o.ID, o.Name, o.Description, o.Address, o.Currency, o.MinDeposit, o.MinWithdrawal,
		o.ProcessingTime, o.ConfirmationMessage, o.QRCodeURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOpportunityNotFound
	}
	return nil
}

func (q *Queries) DeleteOpportunity(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM opportunities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOpportunityNotFound
	}
	return nil
}

func (q *Queries) CountOpportunities(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM opportunities`).Scan(&n)
	return n, err
}
