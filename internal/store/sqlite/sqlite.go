// Package sqlite provides a SQLite-backed credential store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/credvault/credvault/internal/model"
	"github.com/credvault/credvault/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL
)`

// Store implements store.Store on top of a SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dsn and ensures the schema exists.
// dsn is anything go-sqlite3 accepts, e.g. "./credvault.db" or "file:credvault.db?_busy_timeout=5000".
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite serializes writers; a single connection avoids SQLITE_BUSY under load.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create users table: %w", err)
	}

	return &Store{db: db}, nil
}

// CreateUser inserts a user.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.Email, user.PasswordHash, user.CreatedAt.UTC(),
	)
	if err != nil {
		if isEmailConflict(err) {
			return store.ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user, including the password hash.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE email = ?", email)

	var user model.User
	var createdAt time.Time
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	user.CreatedAt = createdAt.UTC()
	return &user, nil
}

// ListUsers returns all users without password hashes.
func (s *Store) ListUsers(ctx context.Context) ([]*model.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, email, created_at FROM users ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		var user model.User
		var createdAt time.Time
		if err := rows.Scan(&user.ID, &user.Email, &createdAt); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		user.CreatedAt = createdAt.UTC()
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// isEmailConflict reports whether err is the UNIQUE violation on users.email.
// Other constraint failures, such as a duplicate id, are not email conflicts.
func isEmailConflict(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) &&
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique &&
		strings.Contains(sqliteErr.Error(), "users.email")
}

var _ store.Store = (*Store)(nil)
