// Package auth provides password hashing and verification.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const argon2Prefix = "$argon2id$"

// argon2Params are the cost settings encoded in every Argon2id hash.
type argon2Params struct {
	memory  uint32 // KiB
	time    uint32
	threads uint8
	keyLen  uint32
}

// defaultArgon2Params follow the OWASP minimum for Argon2id.
var defaultArgon2Params = argon2Params{
	memory:  64 * 1024,
	time:    3,
	threads: 4,
	keyLen:  32,
}

const argon2SaltLen = 16

// Upper bounds accepted when reading a stored hash, so a tampered row
// cannot make a single login allocate gigabytes.
const (
	maxArgon2Memory  = 1024 * 1024
	maxArgon2Time    = 16
	maxArgon2KeyLen  = 128
	minArgon2SaltLen = 8
)

var b64 = base64.RawStdEncoding

// hashArgon2id creates an Argon2id hash in PHC string format:
// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<key>
func hashArgon2id(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	return encodeArgon2id(defaultArgon2Params, salt, argonKey(password, salt, defaultArgon2Params)), nil
}

func encodeArgon2id(p argon2Params, salt, key []byte) string {
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix, argon2.Version, p.memory, p.time, p.threads,
		b64.EncodeToString(salt), b64.EncodeToString(key))
}

// decodeArgon2id parses a PHC string produced by encodeArgon2id.
func decodeArgon2id(encoded string) (argon2Params, []byte, []byte, error) {
	var p argon2Params

	fields := strings.Split(strings.TrimPrefix(encoded, argon2Prefix), "$")
	if !strings.HasPrefix(encoded, argon2Prefix) || len(fields) != 4 {
		return p, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[0], "v=%d", &version); err != nil {
		return p, nil, nil, ErrInvalidHash
	}
	if version != argon2.Version {
		return p, nil, nil, ErrIncompatibleVersion
	}

	if _, err := fmt.Sscanf(fields[1], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return p, nil, nil, ErrInvalidHash
	}
	if p.memory == 0 || p.memory > maxArgon2Memory || p.time == 0 || p.time > maxArgon2Time || p.threads == 0 {
		return p, nil, nil, ErrInvalidHash
	}

	salt, err := b64.DecodeString(fields[2])
	if err != nil || len(salt) < minArgon2SaltLen {
		return p, nil, nil, ErrInvalidHash
	}
	key, err := b64.DecodeString(fields[3])
	if err != nil || len(key) == 0 || len(key) > maxArgon2KeyLen {
		return p, nil, nil, ErrInvalidHash
	}
	p.keyLen = uint32(len(key))

	return p, salt, key, nil
}

// verifyArgon2id recomputes the key with the parameters stored in encoded
// and compares in constant time.
func verifyArgon2id(password, encoded string) (bool, error) {
	p, salt, want, err := decodeArgon2id(encoded)
	if err != nil {
		return false, err
	}

	got := argonKey(password, salt, p)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func argonKey(password string, salt []byte, p argon2Params) []byte {
	return argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
}
