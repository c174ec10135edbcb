package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/credstack/authd/internal/authd/domain"
	"github.com/credstack/authd/internal/authd/store"
	"github.com/credstack/authd/pkg/cryptox"
	"github.com/credstack/authd/pkg/idx"
	"github.com/credstack/authd/pkg/jwtx"
	"github.com/credstack/authd/pkg/slogx"
)

// AuthService composes credential verification, token issuance and
// validation, revocation, and login rate limiting. It holds no mutable state
// of its own and is safe for concurrent use.
type AuthService struct {
	Store   store.Store
	Codec   *jwtx.Codec
	Revoker *Revoker
	Limiter *LoginLimiter
}

// RegisterParams are the inputs to Register. Username and email are
// case-normalized before storage.
type RegisterParams struct {
	Username string
	Email    string
	FullName string
	Password string
}

// Register creates a new credential record. Either collision (username or
// email) comes back as ErrAlreadyRegistered; input that fails validation
// comes back wrapping ErrInvalidRequest.
func (s *AuthService) Register(ctx context.Context, p RegisterParams) (domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(p.Username))
	email := strings.ToLower(strings.TrimSpace(p.Email))

	if err := validateUsername(username); err != nil {
		return domain.User{}, err
	}
	if err := validateEmail(email); err != nil {
		return domain.User{}, err
	}
	if err := validatePassword(p.Password); err != nil {
		return domain.User{}, err
	}

	if _, err := s.Store.Users().GetByUsername(ctx, username); err == nil {
		return domain.User{}, ErrAlreadyRegistered
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, fmt.Errorf("lookup username: %w", err)
	}
	if _, err := s.Store.Users().GetByEmail(ctx, email); err == nil {
		return domain.User{}, ErrAlreadyRegistered
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		slogx.FromContext(ctx).Error("password hashing failed", "err", err)
		return domain.User{}, ErrHashingFailure
	}

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(p.FullName),
		PasswordHash: hash,
	}
	if err := s.Store.Users().Create(ctx, u); err != nil {
		// The schema backstops the pre-checks against concurrent registration.
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrAlreadyRegistered
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	slogx.FromContext(ctx).Info("new user registered", "username", username)
	return u, nil
}

// Authenticate verifies a username/password pair. Unknown usernames and
// wrong passwords are indistinguishable to the caller; the disabled check
// runs only after the password verified.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("login attempt for unknown user", "username", username)
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		// Malformed stored hashes land here too; an attacker must not be
		// able to tell them apart from a wrong password.
		log.Warn("failed login attempt", "username", u.Username)
		return domain.User{}, ErrInvalidCredentials
	}

	if u.Disabled {
		log.Warn("login attempt for disabled account", "username", u.Username)
		return domain.User{}, ErrAccountDisabled
	}

	log.Info("successful login", "username", u.Username)
	return u, nil
}

// Login authenticates the credentials and issues an access/refresh token
// pair. Admission is gated per clientKey (normally the client IP) before any
// credential work happens.
func (s *AuthService) Login(ctx context.Context, clientKey, username, password string) (domain.TokenPair, error) {
	if !s.Limiter.Admit(clientKey) {
		slogx.FromContext(ctx).Warn("login rate limit exceeded", "client", clientKey)
		return domain.TokenPair{}, ErrRateLimited
	}

	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return domain.TokenPair{}, err
	}

	access, err := s.Codec.IssueAccess(u.Username)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.Codec.IssueRefresh(u.Username)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

// Refresh validates a refresh token and mints a fresh access token. The
// refresh token itself is not rotated; it stays valid until its own expiry
// or revocation.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	revoked, err := s.Revoker.IsRevoked(ctx, refreshToken)
	if err != nil {
		return "", fmt.Errorf("revocation check: %w", err)
	}
	if revoked {
		return "", ErrTokenRevoked
	}

	claims, err := s.decode(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.TokenType != jwtx.TokenTypeRefresh {
		return "", ErrTokenTypeMismatch
	}

	u, err := s.Store.Users().GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if u.Disabled {
		return "", ErrAccountDisabled
	}

	access, err := s.Codec.IssueAccess(u.Username)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return access, nil
}

// Authorize validates a presented access token and loads its credential
// record. Revocation is checked before decoding so a revoked-but-valid token
// never reaches the signature path with a different outcome.
func (s *AuthService) Authorize(ctx context.Context, accessToken string) (domain.User, error) {
	revoked, err := s.Revoker.IsRevoked(ctx, accessToken)
	if err != nil {
		return domain.User{}, fmt.Errorf("revocation check: %w", err)
	}
	if revoked {
		slogx.FromContext(ctx).Warn("attempt to use revoked token")
		return domain.User{}, ErrTokenRevoked
	}

	claims, err := s.decode(accessToken)
	if err != nil {
		return domain.User{}, err
	}
	if claims.TokenType != jwtx.TokenTypeAccess {
		return domain.User{}, ErrTokenTypeMismatch
	}

	u, err := s.Store.Users().GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidToken
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

// Logout revokes the presented access token. Only a caller whose token
// passes Authorize (and whose account is active) may revoke it; a blacklist
// write failure surfaces so the caller never believes a still-usable token
// is gone.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	u, err := s.Authorize(ctx, accessToken)
	if err != nil {
		return err
	}
	if err := RequireActive(u); err != nil {
		return err
	}

	if err := s.Revoker.Revoke(ctx, accessToken); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("user logged out", "username", u.Username)
	return nil
}

// RequireActive rejects disabled accounts on authenticated paths.
func RequireActive(u domain.User) error {
	if u.Disabled {
		return ErrAccountDisabled
	}
	return nil
}

func (s *AuthService) decode(token string) (jwtx.Claims, error) {
	claims, err := s.Codec.Decode(token)
	if err != nil {
		// ErrMissingSubject included: the caller only learns the token is bad.
		return jwtx.Claims{}, ErrInvalidToken
	}
	return claims, nil
}

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 8
	maxPasswordLen = 128
)

func validateUsername(username string) error {
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return fmt.Errorf("%w: username must be %d-%d characters",
			ErrInvalidRequest, minUsernameLen, maxUsernameLen)
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return fmt.Errorf("%w: username may only contain letters, digits and underscores",
				ErrInvalidRequest)
		}
	}
	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email address", ErrInvalidRequest)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters",
			ErrInvalidRequest, minPasswordLen)
	}
	if len(password) > maxPasswordLen {
		return fmt.Errorf("%w: password must be at most %d characters",
			ErrInvalidRequest, maxPasswordLen)
	}

	var hasDigit, hasUpper, hasLower bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
	}
	if !hasDigit || !hasUpper || !hasLower {
		return fmt.Errorf("%w: password must contain a digit, an uppercase and a lowercase letter",
			ErrInvalidRequest)
	}
	return nil
}
