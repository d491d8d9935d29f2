package store

import (
	"context"
	"errors"
	"time"

	"github.com/vantaworks/identity/internal/identity/domain"
)

var (
	ErrNotFound = errors.New("store: not found")

	// Duplicate errors are raised by the storage-level unique constraints,
	// never by an application-level pre-check, so concurrent registrations
	// of the same email/username yield exactly one winner.
	ErrDuplicateEmail    = errors.New("store: email already exists")
	ErrDuplicateUsername = errors.New("store: username already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement it; the driver is selected at startup from the
// database URL.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back when fn
	// returns an error and committing otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrDuplicateEmail or ErrDuplicateUsername when the
	// corresponding unique constraint is violated.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail compares against the lowercased stored form, so the
	// lookup is case-insensitive regardless of the caller's input.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByUsername is case-sensitive.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// UpdateLastLogin sets last_login_at and bumps updated_at.
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error

	// SetActive flips is_active and bumps updated_at.
	SetActive(ctx context.Context, id string, active bool) error
}
