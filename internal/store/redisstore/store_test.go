package redisstore

import (
	"context"
	"strings"
	"testing"
)

func TestNew_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), "http://localhost:6379")
	if err == nil {
		t.Fatal("expected error for non-redis URL")
	}
	if !strings.Contains(err.Error(), "parse Redis URL") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDecode_Corrupt(t *testing.T) {
	t.Parallel()

	if _, err := decode([]byte("{not json")); err == nil {
		t.Error("expected error for corrupt record")
	}
}
