package auth

import (
	"errors"
	"fmt"
	"strings"
)

// Supported hashing algorithms.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

var (
	// ErrInvalidHash indicates the hash format is invalid.
	ErrInvalidHash = errors.New("invalid hash format")
	// ErrIncompatibleVersion indicates the hash version is not supported.
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
	// ErrUnknownAlgorithm indicates an unsupported hashing algorithm was requested.
	ErrUnknownAlgorithm = errors.New("unknown password hashing algorithm")
	// ErrPasswordTooLong is returned when a password exceeds bcrypt's 72 byte input limit.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)

// Hasher hashes passwords for storage and verifies candidates against stored hashes.
type Hasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches encoded. A mismatch is not an error.
	Verify(password, encoded string) (bool, error)
}

// PasswordHasher creates new hashes with one algorithm and verifies hashes
// produced by any supported algorithm.
type PasswordHasher struct {
	algorithm  string
	bcryptCost int
}

// NewHasher returns a PasswordHasher for algorithm.
// bcryptCost is ignored for argon2id.
func NewHasher(algorithm string, bcryptCost int) (*PasswordHasher, error) {
	switch algorithm {
	case AlgorithmBcrypt:
		if !ValidBcryptCost(bcryptCost) {
			return nil, fmt.Errorf("bcrypt cost %d out of range", bcryptCost)
		}
	case AlgorithmArgon2id:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}

	return &PasswordHasher{algorithm: algorithm, bcryptCost: bcryptCost}, nil
}

// Algorithm returns the algorithm used for new hashes.
func (h *PasswordHasher) Algorithm() string {
	return h.algorithm
}

// Hash returns a salted one-way hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if h.algorithm == AlgorithmArgon2id {
		return hashArgon2id(password)
	}
	return hashBcrypt(password, h.bcryptCost)
}

// Verify checks password against encoded.
func (h *PasswordHasher) Verify(password, encoded string) (bool, error) {
	return VerifyPassword(password, encoded)
}

// VerifyPassword checks password against a bcrypt or Argon2id hash,
// selecting the algorithm from the hash prefix.
func VerifyPassword(password, encoded string) (bool, error) {
	switch {
	case strings.HasPrefix(encoded, argon2Prefix):
		return verifyArgon2id(password, encoded)
	case isBcryptHash(encoded):
		return verifyBcrypt(password, encoded)
	default:
		return false, ErrInvalidHash
	}
}

var _ Hasher = (*PasswordHasher)(nil)
