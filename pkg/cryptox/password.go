// Package cryptox provides password hashing and random secret generation.
package cryptox

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt cost factor used for new hashes. 12 rounds is slow
// enough to resist offline brute force on current hardware.
const HashCost = 12

// normalizePassword collapses a password of arbitrary byte length into a
// fixed-size input for bcrypt. bcrypt only consumes the first 72 bytes of its
// input, so longer passwords are first reduced to a SHA-256 digest and
// base64-encoded (44 bytes), which keeps the full password bound to the hash.
func normalizePassword(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	normalized := base64.StdEncoding.EncodeToString(sum[:])
	return []byte(normalized)
}

// HashPassword hashes a password with bcrypt using a fresh random salt.
// Two calls with the same password produce distinct digests.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(normalizePassword(password), HashCost)
	if err != nil {
		return "", fmt.Errorf("cryptox: hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a bcrypt digest using
// bcrypt's constant-time comparison. It returns a non-nil error for a
// mismatch or a malformed digest; it never panics on attacker-supplied input.
func VerifyPassword(password, encodedHash string) error {
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), normalizePassword(password))
}
