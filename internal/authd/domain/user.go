package domain

import "time"

// User is a credential record. Username and email are stored lower-cased and
// are each globally unique; the password is only ever held as a bcrypt hash.
type User struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
