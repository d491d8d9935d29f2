package domain

import "time"

// User is a registered account. Email is stored lowercased; Username keeps
// its original case and compares case-sensitively. PasswordHash is a bcrypt
// hash, the plaintext is never persisted or logged.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}
