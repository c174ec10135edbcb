// Package store defines the data access interfaces the service consumes.
// Concrete drivers live under drivers/.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/credstack/authd/internal/authd/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface, exposing one sub-repository per
// table to keep concerns separated and independently testable.
type Store interface {
	Users() Users
	Blacklist() Blacklist

	ApplyMigrations() error

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying database handle.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store.
type Tx interface {
	Users() Users
	Blacklist() Blacklist
}

type Users interface {
	// GetByUsername looks up a user by its lower-cased username.
	GetByUsername(ctx context.Context, username string) (domain.User, error)

	// GetByEmail looks up a user by its lower-cased email.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// Create inserts a new user. A username or email collision returns
	// ErrAlreadyExists.
	Create(ctx context.Context, u domain.User) error

	// UpdatePasswordHash replaces the stored hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// SetDisabled flips the active flag and bumps updated_at.
	SetDisabled(ctx context.Context, userID string, disabled bool) error
}

type Blacklist interface {
	// Insert records a revoked token. Re-revoking the same token returns
	// ErrAlreadyExists; callers treat that as success.
	Insert(ctx context.Context, e domain.BlacklistEntry) error

	// Exists reports whether the exact token string has been revoked.
	Exists(ctx context.Context, token string) (bool, error)

	// DeleteExpired removes entries whose expiry is before now and returns
	// how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
