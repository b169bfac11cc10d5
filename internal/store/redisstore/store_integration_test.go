//go:build integration

package redisstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/credvault/credvault/internal/store"
	"github.com/credvault/credvault/internal/testutil"
)

func TestIntegrationRedisStore_CreateAndGet(t *testing.T) {
	ctx, s := newRedisTestEnv(t)

	user := testutil.NewTestUser(t, "a@example.com")
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := s.GetUserByEmail(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != user.ID || got.PasswordHash != user.PasswordHash {
		t.Errorf("unexpected user: %+v", got)
	}
}

func TestIntegrationRedisStore_GetUnknown(t *testing.T) {
	ctx, s := newRedisTestEnv(t)

	_, err := s.GetUserByEmail(ctx, "missing@example.com")
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestIntegrationRedisStore_ConcurrentDuplicates(t *testing.T) {
	ctx, s := newRedisTestEnv(t)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.CreateUser(ctx, testutil.NewTestUser(t, "race@example.com"))
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case !errors.Is(err, store.ErrEmailExists):
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("exactly one insert should win, got %d", succeeded)
	}
}

func TestIntegrationRedisStore_ListUsersOrdered(t *testing.T) {
	ctx, s := newRedisTestEnv(t)

	later := testutil.NewTestUser(t, "later@example.com")
	earlier := testutil.NewTestUser(t, "earlier@example.com")
	earlier.CreatedAt = later.CreatedAt.Add(-time.Hour)

	if err := s.CreateUser(ctx, later); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := s.CreateUser(ctx, earlier); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].Email != "earlier@example.com" {
		t.Errorf("expected earliest user first, got %s", users[0].Email)
	}
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Errorf("ListUsers leaked password hash for %s", u.Email)
		}
	}
}

func newRedisTestEnv(t *testing.T) (context.Context, *Store) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	s, err := New(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	testutil.ResetRedis(t, s.client)

	return ctx, s
}
