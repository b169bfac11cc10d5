package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/credvault/credvault/internal/repository"
	"github.com/credvault/credvault/internal/store"
	"github.com/credvault/credvault/internal/store/memory"
	"github.com/credvault/credvault/internal/store/redisstore"
	"github.com/credvault/credvault/internal/store/sqlite"
)

// Backend names reported by /readyz and in logs.
const (
	backendPostgres = "postgres"
	backendSQLite   = "sqlite"
	backendRedis    = "redis"
	backendMemory   = "memory"
)

// backendFor picks the store implementation from the connection string scheme.
func backendFor(databaseURL string) (string, error) {
	scheme, _, ok := strings.Cut(databaseURL, ":")
	if !ok {
		return "", fmt.Errorf("DATABASE_URL has no scheme")
	}

	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return backendPostgres, nil
	case "sqlite", "file":
		return backendSQLite, nil
	case "redis", "rediss":
		return backendRedis, nil
	case "memory":
		return backendMemory, nil
	default:
		return "", fmt.Errorf("unsupported DATABASE_URL scheme %q", scheme)
	}
}

// sqliteDSN converts sqlite://path into a path go-sqlite3 accepts.
// file: URIs are passed through unchanged.
func sqliteDSN(databaseURL string) string {
	if rest, ok := strings.CutPrefix(databaseURL, "sqlite://"); ok {
		return rest
	}
	return databaseURL
}

// openStore connects to the configured backend. Postgres schemas are migrated first.
func openStore(ctx context.Context, databaseURL string) (store.Store, string, error) {
	backend, err := backendFor(databaseURL)
	if err != nil {
		return nil, "", err
	}

	var s store.Store
	switch backend {
	case backendPostgres:
		if err := repository.Migrate(ctx, databaseURL); err != nil {
			return nil, backend, err
		}
		s, err = repository.New(ctx, databaseURL)
	case backendSQLite:
		s, err = sqlite.Open(ctx, sqliteDSN(databaseURL))
	case backendRedis:
		s, err = redisstore.New(ctx, databaseURL)
	case backendMemory:
		s = memory.New()
	}
	if err != nil {
		return nil, backend, err
	}
	return s, backend, nil
}
