package service

import (
	"errors"
	"time"

	"github.com/vantaworks/identity/internal/identity/domain"
	"github.com/vantaworks/identity/pkg/apperr"
	"github.com/vantaworks/identity/pkg/jwtx"
)

// TokenService issues and verifies the stateless access/refresh token
// pair. It is the only component that talks to the signer.
type TokenService struct {
	Signer     *jwtx.Signer
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// IssuePair mints a fresh access+refresh pair for subject.
func (s *TokenService) IssuePair(subject string, now time.Time) (*domain.TokenPair, error) {
	access, err := s.Signer.Sign(subject, jwtx.TokenTypeAccess, s.AccessTTL, now)
	if err != nil {
		return nil, apperr.Database(err)
	}
	refresh, err := s.Signer.Sign(subject, jwtx.TokenTypeRefresh, s.RefreshTTL, now)
	if err != nil {
		return nil, apperr.Database(err)
	}
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.AccessTTL,
	}, nil
}

// VerifyAccess validates an access token and returns its subject.
// Satisfies httpx.AccessVerifier for the bearer middleware.
func (s *TokenService) VerifyAccess(token string) (string, error) {
	return s.verify(token, jwtx.TokenTypeAccess)
}

// VerifyRefresh validates a refresh token and returns its subject. An
// access token presented here fails as TOKEN_INVALID, never silently
// passes.
func (s *TokenService) VerifyRefresh(token string) (string, error) {
	return s.verify(token, jwtx.TokenTypeRefresh)
}

func (s *TokenService) verify(token string, typ jwtx.TokenType) (string, error) {
	claims, err := s.Signer.Verify(token, typ)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return "", apperr.TokenExpired()
		}
		return "", apperr.TokenInvalid()
	}
	return claims.Subject, nil
}
