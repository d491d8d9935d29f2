package domain

import "time"

// TokenPair is a freshly issued access/refresh token set. Tokens are
// stateless JWTs and are never persisted.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration // access token lifetime
}
