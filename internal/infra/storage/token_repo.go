package storage

import (
	"context"
	"database/sql"
	"time"
)

type TokenRepo struct{ db *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

func (r *TokenRepo) Insert(ctx context.Context, t APIToken) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO api_tokens (user_id, hash, expires_at)
VALUES ($1,$2,$3)
`, t.UserID, t.Hash, t.ExpiresAt)
	return err
}

// Lookup returns the stored token for the exact user/digest pair.
func (r *TokenRepo) Lookup(ctx context.Context, userID string, hash []byte) (APIToken, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT user_id, hash, expires_at
  FROM api_tokens
 WHERE user_id = $1 AND hash = $2
`, userID, hash)

	var t APIToken
	if err := row.Scan(&t.UserID, &t.Hash, &t.ExpiresAt); err == sql.ErrNoRows {
		return APIToken{}, ErrNotFound
	} else if err != nil {
		return APIToken{}, err
	}
	return t, nil
}

// DeleteExpired prunes tokens past their expiry; the janitor runs
// this on a schedule.
func (r *TokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM api_tokens WHERE expires_at < $1
`, now)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
