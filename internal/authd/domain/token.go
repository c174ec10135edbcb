package domain

import "time"

// TokenPair is what a successful login returns: the short-lived access token
// and the long-lived refresh token, both signed JWTs.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"` // always "bearer"
}

// BlacklistEntry records a token revoked before its natural expiry. Once
// ExpiresAt passes the entry is inert (the token would fail decoding anyway)
// and becomes eligible for purge.
type BlacklistEntry struct {
	Token     string
	RevokedAt time.Time
	ExpiresAt time.Time
}
