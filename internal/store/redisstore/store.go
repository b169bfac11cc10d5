// Package redisstore provides a Redis-backed credential store.
//
// All accounts live in a single hash keyed by email, so HSETNX gives an
// atomic uniqueness check without a separate lock.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/credvault/credvault/internal/model"
	"github.com/credvault/credvault/internal/store"
)

// usersKey is the hash holding every account record, field = email.
const usersKey = "credvault:users"

// record is the JSON document stored per account.
type record struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store implements store.Store using a Redis hash.
type Store struct {
	client *redis.Client
}

// New creates a Store from a redis:// or rediss:// URL and verifies connectivity.
func New(ctx context.Context, redisURL string) (*Store, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Connection pool settings
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return NewWithClient(client), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// CreateUser stores user unless its email is already present.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(record{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	created, err := s.client.HSetNX(ctx, usersKey, user.Email, data).Result()
	if err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	if !created {
		return store.ErrEmailExists
	}
	return nil
}

// GetUserByEmail retrieves a user, including the password hash.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	data, err := s.client.HGet(ctx, usersKey, email).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	rec, err := decode(data)
	if err != nil {
		return nil, err
	}
	return &model.User{
		ID:           rec.ID,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
	}, nil
}

// ListUsers returns all users without password hashes, ordered by creation time.
func (s *Store) ListUsers(ctx context.Context) ([]*model.User, error) {
	values, err := s.client.HVals(ctx, usersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]*model.User, 0, len(values))
	for _, v := range values {
		rec, err := decode([]byte(v))
		if err != nil {
			return nil, err
		}
		users = append(users, &model.User{
			ID:        rec.ID,
			Email:     rec.Email,
			CreatedAt: rec.CreatedAt,
		})
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	return users, nil
}

// Ping checks Redis connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func decode(data []byte) (*record, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode user record: %w", err)
	}
	return &rec, nil
}

var _ store.Store = (*Store)(nil)
