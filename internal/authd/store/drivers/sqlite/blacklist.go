package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/credstack/authd/internal/authd/domain"
)

type blacklistRepo struct {
	q querier
}

func (r *blacklistRepo) Insert(ctx context.Context, e domain.BlacklistEntry) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO token_blacklist (token, revoked_at, expires_at) VALUES (?, ?, ?)`,
		e.Token, e.RevokedAt.UTC(), e.ExpiresAt.UTC())
	return mapConstraint(err)
}

func (r *blacklistRepo) Exists(ctx context.Context, token string) (bool, error) {
	var one int
	err := r.q.QueryRowContext(ctx,
		`SELECT 1 FROM token_blacklist WHERE token = ?`, token).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *blacklistRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM token_blacklist WHERE expires_at < ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
