package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/credvault/credvault/internal/model"
	"github.com/credvault/credvault/internal/store"
)

func newUser(email string) *model.User {
	return &model.User{
		ID:           "id-" + email,
		Email:        email,
		PasswordHash: "$2a$04$hash",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()

	if err := s.CreateUser(ctx, newUser("a@example.com")); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := s.GetUserByEmail(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != "id-a@example.com" || got.PasswordHash != "$2a$04$hash" {
		t.Errorf("unexpected user: %+v", got)
	}
}

func TestStore_GetUnknown(t *testing.T) {
	t.Parallel()

	_, err := New().GetUserByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestStore_DuplicateEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()

	if err := s.CreateUser(ctx, newUser("dup@example.com")); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	err := s.CreateUser(ctx, newUser("dup@example.com"))
	if !errors.Is(err, store.ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
}

func TestStore_ConcurrentDuplicateInserts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.CreateUser(ctx, newUser("race@example.com"))
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, store.ErrEmailExists) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("exactly one insert should succeed, got %d", succeeded)
	}
}

func TestStore_ListUsersOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()

	for i := 0; i < 3; i++ {
		if err := s.CreateUser(ctx, newUser(fmt.Sprintf("u%d@example.com", i))); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	for i, u := range users {
		if want := fmt.Sprintf("u%d@example.com", i); u.Email != want {
			t.Errorf("users[%d].Email = %s, want %s", i, u.Email, want)
		}
	}
}

func TestStore_ReturnsCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()

	u := newUser("copy@example.com")
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	u.PasswordHash = "mutated"

	got, _ := s.GetUserByEmail(ctx, "copy@example.com")
	if got.PasswordHash == "mutated" {
		t.Error("store must not alias caller-owned records")
	}
}
