package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/credstack/authd/internal/authd/domain"
	"github.com/credstack/authd/internal/authd/store"
	"github.com/credstack/authd/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func makeUser(username, email string) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		FullName:     "Test User",
		PasswordHash: "$2a$12$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
	}
}

func TestUsersCreateAndLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeUser("alice", "alice@example.com")
	require.NoError(t, s.Users().Create(ctx, u))

	byName, err := s.Users().GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, u.ID, byName.ID)
	require.Equal(t, "alice@example.com", byName.Email)
	require.False(t, byName.Disabled)
	require.False(t, byName.CreatedAt.IsZero())

	byEmail, err := s.Users().GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = s.Users().GetByUsername(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersUniqueness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users().Create(ctx, makeUser("alice", "alice@example.com")))

	err := s.Users().Create(ctx, makeUser("alice", "other@example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists, "duplicate username")

	err = s.Users().Create(ctx, makeUser("other", "alice@example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists, "duplicate email")
}

func TestUsersSetDisabled(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeUser("bob", "bob@example.com")
	require.NoError(t, s.Users().Create(ctx, u))

	require.NoError(t, s.Users().SetDisabled(ctx, u.ID, true))
	got, err := s.Users().GetByUsername(ctx, "bob")
	require.NoError(t, err)
	require.True(t, got.Disabled)

	require.ErrorIs(t, s.Users().SetDisabled(ctx, "missing-id", true), store.ErrNotFound)
}

func TestUsersUpdatePasswordHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeUser("carol", "carol@example.com")
	require.NoError(t, s.Users().Create(ctx, u))

	require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "new-hash"))
	got, err := s.Users().GetByUsername(ctx, "carol")
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)
}

func TestBlacklistInsertAndExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	entry := domain.BlacklistEntry{
		Token:     "header.payload.signature",
		RevokedAt: now,
		ExpiresAt: now.Add(15 * time.Minute),
	}
	require.NoError(t, s.Blacklist().Insert(ctx, entry))

	exists, err := s.Blacklist().Exists(ctx, entry.Token)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = s.Blacklist().Exists(ctx, "some.other.token")
	require.NoError(t, err)
	require.False(t, exists)

	// Re-revoking the same token reports the duplicate; it must not corrupt
	// the existing entry.
	require.ErrorIs(t, s.Blacklist().Insert(ctx, entry), store.ErrAlreadyExists)
	exists, err = s.Blacklist().Exists(ctx, entry.Token)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestBlacklistDeleteExpired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	stale := domain.BlacklistEntry{Token: "stale", RevokedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	live := domain.BlacklistEntry{Token: "live", RevokedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, s.Blacklist().Insert(ctx, stale))
	require.NoError(t, s.Blacklist().Insert(ctx, live))

	deleted, err := s.Blacklist().DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	exists, err := s.Blacklist().Exists(ctx, "stale")
	require.NoError(t, err)
	require.False(t, exists)

	exists, err = s.Blacklist().Exists(ctx, "live")
	require.NoError(t, err)
	require.True(t, exists)

	// Second purge finds nothing.
	deleted, err = s.Blacklist().DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.Zero(t, deleted)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sentinel := store.ErrAlreadyExists
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().Create(ctx, makeUser("dave", "dave@example.com")); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	_, err = s.Users().GetByUsername(ctx, "dave")
	require.ErrorIs(t, err, store.ErrNotFound, "insert should have been rolled back")
}
