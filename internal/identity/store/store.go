package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface implemented by drivers. Repos
// hang off it as methods so a transaction scoped Store exposes the same
// repos bound to the transaction.
type Store interface {
	Users() Users
	Roles() Roles

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or
	// Rollback the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing if it returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByLogin matches the login case-insensitively.
	GetUserByLogin(ctx context.Context, login string) (domain.User, error)

	// CreateUser returns ErrAlreadyExists if the login is taken.
	CreateUser(ctx context.Context, u domain.User) error

	UpdatePasswordHash(ctx context.Context, userID, hash string) error

	// SetRoles replaces the user's roles. Order is kept.
	SetRoles(ctx context.Context, userID string, roleIDs []string) error

	// RoleNames returns role names in assignment order.
	RoleNames(ctx context.Context, userID string) ([]string, error)

	IsEmpty(ctx context.Context) (bool, error)
}

type Roles interface {
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)

	// CreateRole returns ErrAlreadyExists if the name is taken.
	CreateRole(ctx context.Context, r domain.Role) error

	ListAll(ctx context.Context) ([]domain.Role, error)
}
