package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewHasher(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		algorithm string
		cost      int
		wantErr   bool
	}{
		{"bcrypt default cost", AlgorithmBcrypt, DefaultBcryptCost, false},
		{"bcrypt min cost", AlgorithmBcrypt, bcrypt.MinCost, false},
		{"bcrypt cost too low", AlgorithmBcrypt, 3, true},
		{"bcrypt cost too high", AlgorithmBcrypt, 32, true},
		{"argon2id ignores cost", AlgorithmArgon2id, 0, false},
		{"unknown algorithm", "md5", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, err := NewHasher(tt.algorithm, tt.cost)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewHasher(%q, %d) error = %v, wantErr %v", tt.algorithm, tt.cost, err, tt.wantErr)
			}
			if err == nil && h.Algorithm() != tt.algorithm {
				t.Errorf("Algorithm() = %q, want %q", h.Algorithm(), tt.algorithm)
			}
		})
	}
}

func TestNewHasher_UnknownAlgorithmIsWrapped(t *testing.T) {
	t.Parallel()

	_, err := NewHasher("scrypt", 10)
	if !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestPasswordHasher_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, algorithm := range []string{AlgorithmBcrypt, AlgorithmArgon2id} {
		t.Run(algorithm, func(t *testing.T) {
			t.Parallel()

			h, err := NewHasher(algorithm, bcrypt.MinCost)
			if err != nil {
				t.Fatalf("NewHasher failed: %v", err)
			}

			hash, err := h.Hash("s3cret-pass")
			if err != nil {
				t.Fatalf("Hash failed: %v", err)
			}
			if hash == "s3cret-pass" {
				t.Fatal("hash must not equal plaintext")
			}

			ok, err := h.Verify("s3cret-pass", hash)
			if err != nil || !ok {
				t.Errorf("Verify(correct) = %v, %v; want true, nil", ok, err)
			}

			ok, err = h.Verify("not-it", hash)
			if err != nil || ok {
				t.Errorf("Verify(wrong) = %v, %v; want false, nil", ok, err)
			}
		})
	}
}

func TestPasswordHasher_BcryptUsesConfiguredCost(t *testing.T) {
	t.Parallel()

	h, err := NewHasher(AlgorithmBcrypt, 5)
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}

	hash, err := h.Hash("password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost failed: %v", err)
	}
	if cost != 5 {
		t.Errorf("cost = %d, want 5", cost)
	}
}

func TestPasswordHasher_BcryptTooLong(t *testing.T) {
	t.Parallel()

	h, err := NewHasher(AlgorithmBcrypt, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}

	_, err = h.Hash(strings.Repeat("x", 73))
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}
}

func TestVerifyPassword_CrossAlgorithm(t *testing.T) {
	t.Parallel()

	argonHash, err := hashArgon2id("shared")
	if err != nil {
		t.Fatalf("hashArgon2id failed: %v", err)
	}
	bcryptHash, err := hashBcrypt("shared", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashBcrypt failed: %v", err)
	}

	// A bcrypt-configured hasher still verifies argon2id hashes and vice versa.
	bh, _ := NewHasher(AlgorithmBcrypt, bcrypt.MinCost)
	ah, _ := NewHasher(AlgorithmArgon2id, 0)

	if ok, err := bh.Verify("shared", argonHash); err != nil || !ok {
		t.Errorf("bcrypt hasher failed to verify argon2id hash: %v, %v", ok, err)
	}
	if ok, err := ah.Verify("shared", bcryptHash); err != nil || !ok {
		t.Errorf("argon2id hasher failed to verify bcrypt hash: %v, %v", ok, err)
	}
}

func TestVerifyPassword_UnrecognizedHash(t *testing.T) {
	t.Parallel()

	tests := []string{"", "plaintext", "$1$md5crypt$abc", "$2x$10$abc"}
	for _, hash := range tests {
		if _, err := VerifyPassword("password", hash); err != ErrInvalidHash {
			t.Errorf("VerifyPassword(%q) error = %v, want ErrInvalidHash", hash, err)
		}
	}
}

func TestVerifyPassword_CorruptBcrypt(t *testing.T) {
	t.Parallel()

	_, err := VerifyPassword("password", "$2a$10$short")
	if err != ErrInvalidHash {
		t.Errorf("expected ErrInvalidHash, got %v", err)
	}
}
