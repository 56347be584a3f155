package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/set-night/earnhub/internal/domain"
	"github.com/shopspring/decimal"
)

const userColumns = `id, username, first_name, last_name, balance, referrals,
	exchange_id, crypto_address, bank_details, crypto_balances, role, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*domain.User, error) {
	var (
		u        domain.User
		role     string
		balances []byte
	)
	if err := row.Scan(
		&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Balance, &u.Referrals,
		&u.Withdrawal.ExchangeID, &u.Withdrawal.CryptoAddress, &u.Withdrawal.BankDetails,
		&balances, &role, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)

	u.CryptoBalances = make(map[string]decimal.Decimal)
	if len(balances) > 0 {
		if err := json.Unmarshal(balances, &u.CryptoBalances); err != nil {
			return nil, fmt.Errorf("decode crypto balances: %w", err)
		}
	}
	return &u, nil
}

func (q *Queries) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	if u.CompletedTasks, err = q.completedTaskIDs(ctx, id); err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserForUpdate locks the user row until the surrounding transaction ends.
func (q *Queries) GetUserForUpdate(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return u, nil
}

func (q *Queries) completedTaskIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := q.db.Query(ctx,
		`SELECT task_id FROM task_completions WHERE user_id = $1 ORDER BY completed_at, task_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateUser inserts the user unless the id already exists. created reports
// whether a row was written.
func (q *Queries) CreateUser(ctx context.Context, nu domain.NewUser) (created bool, err error) {
	role := nu.Role
	if role == "" {
		role = domain.RoleUser
	}
	tag, err := q.db.Exec(ctx, `
		INSERT INTO users (id, username, first_name, last_name, balance, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`,
		nu.ID, nu.Username, nu.FirstName, nu.LastName, nu.Balance, string(role))
	if err != nil {
		return false, fmt.Errorf("insert user: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (q *Queries) UpdateUserProfile(ctx context.Context, id int64, username, firstName, lastName string) error {
	_, err := q.db.Exec(ctx, `
		UPDATE users SET username = $2, first_name = $3, last_name = $4, updated_at = now()
		WHERE id = $1`, id, username, firstName, lastName)
	return err
}

func (q *Queries) SetUserRole(ctx context.Context, id int64, role domain.Role) error {
	tag, err := q.db.Exec(ctx, `UPDATE users SET role = $2, updated_at = now() WHERE id = $1`, id, string(role))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (q *Queries) SetWithdrawalDetail(ctx context.Context, id int64, field domain.WithdrawalField, value string) error {
	var column string
	switch field {
	case domain.WithdrawalExchangeID:
		column = "exchange_id"
	case domain.WithdrawalCryptoAddress:
		column = "crypto_address"
	case domain.WithdrawalBankDetails:
		column = "bank_details"
	default:
		return fmt.Errorf("withdrawal field %q: %w", field, domain.ErrUnknownField)
	}

	tag, err := q.db.Exec(ctx,
		`UPDATE users SET `+column+` = $2, updated_at = now() WHERE id = $1`, id, value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// AddUserPoints adds delta to the point balance and returns the new balance.
func (q *Queries) AddUserPoints(ctx context.Context, id, delta int64) (int64, error) {
	var balance int64
	err := q.db.QueryRow(ctx, `
		UPDATE users SET balance = balance + $2, updated_at = now()
		WHERE id = $1 RETURNING balance`, id, delta).Scan(&balance)
	if err != nil {
		return 0, notFound(err, domain.ErrUserNotFound)
	}
	return balance, nil
}

func (q *Queries) IncrementReferrals(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx,
		`UPDATE users SET referrals = referrals + 1, updated_at = now() WHERE id = $1`, id)
	return err
}

func (q *Queries) SetCryptoBalances(ctx context.Context, id int64, balances map[string]decimal.Decimal) error {
	raw, err := json.Marshal(balances)
	if err != nil {
		return fmt.Errorf("encode crypto balances: %w", err)
	}
	_, err = q.db.Exec(ctx,
		`UPDATE users SET crypto_balances = $2, updated_at = now() WHERE id = $1`, id, raw)
	return err
}

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}
