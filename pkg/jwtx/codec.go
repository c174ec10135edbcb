// Package jwtx issues and validates the signed bearer tokens used by the
// service. Tokens are self-contained HS256 JWTs carrying the subject, a type
// discriminator, and their own expiry; the codec holds no per-token state.
package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenTypeAccess marks short-lived tokens presented on every request.
	TokenTypeAccess = "access"
	// TokenTypeRefresh marks long-lived tokens used only to mint new access tokens.
	TokenTypeRefresh = "refresh"

	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour

	// MinKeyBytes is the minimum signing key length. HMAC-SHA256 keys below
	// the hash output size reduce the effective signature strength.
	MinKeyBytes = 32
)

var (
	// ErrInvalidToken covers every way a presented token can be unusable:
	// bad signature, wrong algorithm, malformed structure, or past expiry.
	// Collapsing these keeps callers from acting as a validity oracle.
	ErrInvalidToken = errors.New("jwtx: invalid token")

	// ErrMissingSubject reports a structurally valid token without a sub claim.
	ErrMissingSubject = errors.New("jwtx: missing subject claim")

	// ErrKeyTooShort reports a signing key below MinKeyBytes.
	ErrKeyTooShort = fmt.Errorf("jwtx: signing key must be at least %d bytes", MinKeyBytes)
)

// Claims are the claims embedded in every token this service signs.
type Claims struct {
	jwt.RegisteredClaims

	// TokenType discriminates access from refresh tokens so one cannot be
	// presented where the other is expected.
	TokenType string `json:"typ,omitempty"`
}

// Codec signs and validates tokens with a single process-wide symmetric key.
// It is safe for concurrent use.
type Codec struct {
	key        []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec builds a Codec. TTLs of zero or below fall back to the defaults.
func NewCodec(key []byte, issuer string, accessTTL, refreshTTL time.Duration) (*Codec, error) {
	if len(key) < MinKeyBytes {
		return nil, ErrKeyTooShort
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}

	return &Codec{
		key:        key,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// AccessTTL returns the configured access-token lifetime.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// IssueAccess signs a new access token for subject with the configured TTL.
func (c *Codec) IssueAccess(subject string) (string, error) {
	return c.Issue(subject, TokenTypeAccess, c.accessTTL)
}

// IssueRefresh signs a new refresh token for subject with the configured TTL.
func (c *Codec) IssueRefresh(subject string) (string, error) {
	return c.Issue(subject, TokenTypeRefresh, c.refreshTTL)
}

// Issue signs a token of the given type with an explicit lifetime. A negative
// ttl produces a token that is already expired, which is occasionally useful
// in tests.
func (c *Codec) Issue(subject, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        newJTI(),
		},
		TokenType: tokenType,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign token: %w", err)
	}
	return signed, nil
}

// Decode validates the signature and expiry of token and returns its claims.
// Any parse, signature, or expiry failure comes back as ErrInvalidToken; a
// valid token without a subject comes back as ErrMissingSubject.
func (c *Codec) Decode(token string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	if claims.Subject == "" {
		return Claims{}, ErrMissingSubject
	}
	if claims.TokenType == "" {
		// Tokens minted before the typ claim existed are access tokens.
		claims.TokenType = TokenTypeAccess
	}
	return claims, nil
}

func (c *Codec) keyFunc(t *jwt.Token) (any, error) {
	return c.key, nil
}

// newJTI returns a URL-safe random identifier for the jti claim.
func newJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
