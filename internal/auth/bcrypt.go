package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used for new bcrypt hashes.
const DefaultBcryptCost = 10

// ValidBcryptCost reports whether cost is accepted by bcrypt.
func ValidBcryptCost(cost int) bool {
	return cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost
}

func hashBcrypt(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", err
	}
	return string(hash), nil
}

// verifyBcrypt wraps bcrypt.CompareHashAndPassword, which compares in constant time.
// A mismatch is reported as (false, nil).
func verifyBcrypt(password, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		// Such a password could never have been stored.
		return false, nil
	default:
		return false, ErrInvalidHash
	}
}

func isBcryptHash(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}
