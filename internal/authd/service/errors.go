package service

import "errors"

// Request-recoverable failure taxonomy. Every one of these is translated to a
// caller-visible outcome at the HTTP boundary; none crash the process.
var (
	// ErrInvalidCredentials is deliberately generic: unknown username and
	// wrong password collapse into it so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrAccountDisabled reports a disabled account. Only returned after the
	// password verified, so an attacker without the password cannot probe
	// disabled state.
	ErrAccountDisabled = errors.New("account_disabled")

	// ErrAlreadyRegistered reports a username or email collision on registration.
	ErrAlreadyRegistered = errors.New("already_registered")

	// ErrInvalidToken covers forged, malformed, and expired tokens alike.
	ErrInvalidToken = errors.New("invalid_token")

	// ErrTokenTypeMismatch reports an access token used where a refresh
	// token was expected, or vice versa.
	ErrTokenTypeMismatch = errors.New("token_type_mismatch")

	// ErrTokenRevoked reports a token revoked before its natural expiry.
	ErrTokenRevoked = errors.New("token_revoked")

	// ErrRateLimited reports that the login rate limiter refused admission.
	ErrRateLimited = errors.New("rate_limited")

	// ErrHashingFailure reports that password hashing itself failed. Should
	// not occur under correct configuration; fatal to the request only.
	ErrHashingFailure = errors.New("hashing_failure")

	// ErrRevocationFailed reports that the blacklist write failed during
	// logout. The logout must not claim success when this happens.
	ErrRevocationFailed = errors.New("revocation_failed")

	// ErrInvalidRequest reports a registration input that failed validation.
	ErrInvalidRequest = errors.New("invalid_request")
)
