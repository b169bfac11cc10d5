// Package memory provides an in-process Store used by tests and local runs.
package memory

import (
	"context"
	"sync"

	"github.com/credvault/credvault/internal/model"
	"github.com/credvault/credvault/internal/store"
)

// Store keeps accounts in a map keyed by email.
type Store struct {
	mu      sync.RWMutex
	byEmail map[string]*model.User
	order   []string

	// PingErr, when set, is returned by Ping.
	PingErr error
}

// New creates an empty Store.
func New() *Store {
	return &Store{byEmail: make(map[string]*model.User)}
}

// CreateUser inserts user, rejecting duplicate emails.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return store.ErrEmailExists
	}

	stored := *user
	s.byEmail[user.Email] = &stored
	s.order = append(s.order, user.Email)
	return nil
}

// GetUserByEmail returns a copy of the account with the given email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	found := *u
	return &found, nil
}

// ListUsers returns copies of all accounts in insertion order.
func (s *Store) ListUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*model.User, 0, len(s.order))
	for _, email := range s.order {
		u := *s.byEmail[email]
		users = append(users, &u)
	}
	return users, nil
}

// Ping reports PingErr.
func (s *Store) Ping(ctx context.Context) error {
	return s.PingErr
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

var _ store.Store = (*Store)(nil)
