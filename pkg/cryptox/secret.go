package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// MinSigningKeyBytes is the minimum entropy required for the token signing
// key. HMAC-SHA256 keys shorter than the hash output weaken the signature.
const MinSigningKeyBytes = 32

// GenerateSecret creates a cryptographically secure random secret of the
// given byte length, returned base64url-encoded without padding.
func GenerateSecret(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("cryptox: secret size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: generate secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// MustGenerateSecret is like GenerateSecret but panics on error. Only use
// during initialization where failure is unrecoverable.
func MustGenerateSecret(size int) string {
	s, err := GenerateSecret(size)
	if err != nil {
		panic(err)
	}
	return s
}
