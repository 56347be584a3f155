package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/set-night/earnhub/internal/domain"
)

// InsertReferral records the referral unless referredID was already
// referred. inserted reports whether a row was written.
func (q *Queries) InsertReferral(ctx context.Context, r *domain.Referral) (inserted bool, err error) {
	err = q.db.QueryRow(ctx, `
		INSERT INTO referrals (referrer_id, referred_id, points) VALUES ($1, $2, $3)
		ON CONFLICT (referred_id) DO NOTHING
		RETURNING id, created_at`,
		r.ReferrerID, r.ReferredID, r.Points).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (q *Queries) CountReferrals(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM referrals`).Scan(&n)
	return n, err
}
