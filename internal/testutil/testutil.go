// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/credvault/credvault/internal/model"
)

// PlaceholderHash is a syntactically valid bcrypt hash for fixtures that never log in.
const PlaceholderHash = "$2a$04$placeholderplaceholderplaceholderplaceholderplacehold"

// usersLockKey serializes test packages that share the users table.
const usersLockKey int64 = 731001

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// LockDB holds a Postgres advisory lock on a dedicated connection until the test ends.
func LockDB(t testing.TB, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	conn, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire connection for advisory lock: %v", err)
	}
	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", usersLockKey); err != nil {
		conn.Release()
		t.Fatalf("acquire advisory lock: %v", err)
	}

	t.Cleanup(func() {
		defer conn.Release()
		if _, err := conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", usersLockKey); err != nil {
			t.Logf("release advisory lock: %v", err)
		}
	})
}

// ResetUsers empties the users table.
func ResetUsers(t testing.TB, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(context.Background(), "TRUNCATE TABLE users"); err != nil {
		t.Fatalf("truncate users: %v", err)
	}
}

// ResetRedis empties the current Redis database.
func ResetRedis(t testing.TB, client *redis.Client) {
	t.Helper()
	if err := client.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("flush redis: %v", err)
	}
}

// NewTestUser builds an account fixture with a placeholder hash.
// CreatedAt is truncated to the microsecond precision Postgres stores.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	return &model.User{
		ID:           UniqueID(),
		Email:        email,
		PasswordHash: PlaceholderHash,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

// UniqueEmail returns an address that no other fixture uses.
func UniqueEmail(prefix string) string {
	return prefix + "-" + strings.ToLower(ulid.Make().String()) + "@example.com"
}

// UniqueID returns a fresh ULID string.
func UniqueID() string {
	return ulid.Make().String()
}
