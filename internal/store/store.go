// Package store defines the credential store contract shared by all backends.
package store

import (
	"context"
	"errors"

	"github.com/credvault/credvault/internal/model"
)

// Common errors returned by every Store implementation.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
)

// Store persists user accounts.
// Email uniqueness is enforced by the implementation: CreateUser returns
// ErrEmailExists when the email is already taken, including under concurrent inserts.
type Store interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// ListUsers returns every account ordered by creation time.
	ListUsers(ctx context.Context) ([]*model.User, error)
	Ping(ctx context.Context) error
	Close() error
}
