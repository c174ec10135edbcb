package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
		{"over bcrypt 72-byte limit", strings.Repeat("x", 100)},
		{"kilobyte password", strings.Repeat("k", 1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)
			require.True(t, strings.HasPrefix(hash, "$2a$12$"), "expected bcrypt cost 12 digest")

			require.NoError(t, VerifyPassword(tt.password, hash))
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	t.Parallel()

	const password = "samepassword"

	hash1, err := HashPassword(password)
	require.NoError(t, err)
	hash2, err := HashPassword(password)
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2, "salt must be randomized per call")
	require.NoError(t, VerifyPassword(password, hash1))
	require.NoError(t, VerifyPassword(password, hash2))
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	require.Error(t, VerifyPassword("incorrect horse", hash))
	require.Error(t, VerifyPassword("", hash))
}

func TestVerifyPassword_LongPasswordsNotTruncated(t *testing.T) {
	t.Parallel()

	// Raw bcrypt would accept any password sharing the first 72 bytes. The
	// SHA-256 prehash must keep the tail significant.
	base := strings.Repeat("a", 72)
	hash, err := HashPassword(base + "-one")
	require.NoError(t, err)

	require.NoError(t, VerifyPassword(base+"-one", hash))
	require.Error(t, VerifyPassword(base+"-two", hash))
}

func TestVerifyPassword_MalformedDigest(t *testing.T) {
	t.Parallel()

	for _, digest := range []string{"", "not-a-bcrypt-hash", "$2a$12$tooshort"} {
		require.Error(t, VerifyPassword("whatever", digest))
	}
}

func TestGenerateSecret(t *testing.T) {
	t.Parallel()

	s1, err := GenerateSecret(MinSigningKeyBytes)
	require.NoError(t, err)
	s2, err := GenerateSecret(MinSigningKeyBytes)
	require.NoError(t, err)

	require.NotEqual(t, s1, s2)
	require.GreaterOrEqual(t, len(s1), MinSigningKeyBytes)

	_, err = GenerateSecret(0)
	require.Error(t, err)
	_, err = GenerateSecret(-5)
	require.Error(t, err)
}
