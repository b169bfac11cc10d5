// Package service provides business logic for the application.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/credvault/credvault/internal/auth"
	"github.com/credvault/credvault/internal/metrics"
	"github.com/credvault/credvault/internal/model"
	"github.com/credvault/credvault/internal/store"
)

// Service errors. Every error returned by AccountService either matches one of
// these with errors.Is or is an internal failure.
var (
	ErrValidation      = errors.New("email and password are required")
	ErrConflict        = errors.New("user already exists")
	ErrNotFound        = errors.New("user not found")
	ErrAuthentication  = errors.New("invalid password")
	ErrPasswordTooLong = errors.New("password too long")
)

// UserStore is the subset of store.Store the account service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
}

// Credentials is the input of Register and Login.
type Credentials struct {
	Email    string
	Password string
}

// AccountService registers, authenticates and lists user accounts.
type AccountService struct {
	store   UserStore
	hasher  auth.Hasher
	metrics metrics.Recorder
	now     func() time.Time
}

// NewAccountService creates a new AccountService.
func NewAccountService(users UserStore, hasher auth.Hasher, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		store:   users,
		hasher:  hasher,
		metrics: recorder,
		now:     time.Now,
	}
}

// Register creates an account for creds.Email with a hashed password.
func (s *AccountService) Register(ctx context.Context, creds Credentials) (*model.User, error) {
	user, err := s.register(ctx, creds)
	s.metrics.IncRegistration(registrationOutcome(err))
	return user, err
}

func (s *AccountService) register(ctx context.Context, creds Credentials) (*model.User, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, ErrValidation
	}

	_, err := s.store.GetUserByEmail(ctx, creds.Email)
	switch {
	case err == nil:
		return nil, ErrConflict
	case !errors.Is(err, store.ErrUserNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	start := time.Now()
	hash, err := s.hasher.Hash(creds.Password)
	s.metrics.ObserveHashDuration(time.Since(start))
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &model.User{
		ID:           newID(now),
		Email:        creds.Email,
		PasswordHash: hash,
		CreatedAt:    now,
	}

	// The pre-check above can race with a concurrent registration; the store's
	// uniqueness constraint settles it.
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login checks creds against the stored password hash.
func (s *AccountService) Login(ctx context.Context, creds Credentials) (*model.User, error) {
	user, err := s.login(ctx, creds)
	s.metrics.IncLogin(loginOutcome(err))
	return user, err
}

func (s *AccountService) login(ctx context.Context, creds Credentials) (*model.User, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, ErrValidation
	}

	user, err := s.store.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	start := time.Now()
	ok, err := s.hasher.Verify(creds.Password, user.PasswordHash)
	s.metrics.ObserveHashDuration(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrAuthentication
	}

	return user, nil
}

// ListUsers returns every account. Password hashes are cleared.
func (s *AccountService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	s.metrics.IncUserListing()
	return users, nil
}

// newID generates a ULID for a user created at t.
func newID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}

func registrationOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrValidation), errors.Is(err, ErrPasswordTooLong):
		return metrics.OutcomeInvalid
	case errors.Is(err, ErrConflict):
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeError
	}
}

func loginOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrValidation):
		return metrics.OutcomeInvalid
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrAuthentication):
		return metrics.OutcomeMismatch
	default:
		return metrics.OutcomeError
	}
}
