package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/credstack/authd/internal/authd/domain"
	"github.com/credstack/authd/internal/authd/store"
	"github.com/credstack/authd/pkg/jwtx"
	"github.com/credstack/authd/pkg/slogx"
)

// Revoker tracks tokens invalidated before their natural expiry. Entries are
// keyed by the exact token string and carry the token's own expiry, which
// bounds blacklist size: once a token would fail decoding anyway, its entry
// is dead weight and eligible for purge.
type Revoker struct {
	Store store.Store
	Codec *jwtx.Codec
}

// IsRevoked reports whether token has been revoked.
func (r *Revoker) IsRevoked(ctx context.Context, token string) (bool, error) {
	return r.Store.Blacklist().Exists(ctx, token)
}

// Revoke records token on the blacklist with its embedded expiry, falling
// back to now + access TTL when the expiry cannot be decoded. Revoking an
// already-revoked token is a no-op.
func (r *Revoker) Revoke(ctx context.Context, token string) error {
	now := time.Now().UTC()

	expiresAt := now.Add(r.Codec.AccessTTL())
	if claims, err := r.Codec.Decode(token); err == nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	err := r.Store.Blacklist().Insert(ctx, domain.BlacklistEntry{
		Token:     token,
		RevokedAt: now,
		ExpiresAt: expiresAt,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil
	}
	if err != nil {
		slogx.FromContext(ctx).Error("blacklist write failed", "err", err)
		return fmt.Errorf("%w: %v", ErrRevocationFailed, err)
	}

	slogx.FromContext(ctx).Info("token revoked", "expires_at", expiresAt)
	return nil
}

// PurgeExpired deletes blacklist entries whose expiry has passed and returns
// the number removed.
func (r *Revoker) PurgeExpired(ctx context.Context) (int64, error) {
	return r.Store.Blacklist().DeleteExpired(ctx, time.Now().UTC())
}
