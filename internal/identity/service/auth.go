package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/vantaworks/identity/internal/identity/domain"
	"github.com/vantaworks/identity/internal/identity/store"
	"github.com/vantaworks/identity/pkg/apperr"
	"github.com/vantaworks/identity/pkg/cryptox"
	"github.com/vantaworks/identity/pkg/idx"
	"github.com/vantaworks/identity/pkg/slogx"
)

// AuthService owns the register/login/refresh workflows and all password
// policy enforcement. It is the only component that uses the password
// hasher and the token service together.
type AuthService struct {
	Store  store.Store
	Tokens *TokenService

	// MinPasswordLength is deployment policy, injected from config.
	MinPasswordLength int

	// HashCost overrides the bcrypt work factor; zero means the
	// production default. Tests lower it to keep bcrypt off the clock.
	HashCost int
}

func (s *AuthService) hashCost() int {
	if s.HashCost > 0 {
		return s.HashCost
	}
	return cryptox.HashCost
}

// Register creates a user and issues an initial token pair. Uniqueness is
// enforced by the store's unique constraints, so a concurrent duplicate
// registration loses cleanly with a conflict instead of corrupting data.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (domain.User, *domain.TokenPair, error) {
	l := slogx.FromContext(ctx).With("svc", "auth.register")

	email, err := normalizeEmail(email)
	if err != nil {
		return domain.User{}, nil, err
	}
	if err := validateUsername(username); err != nil {
		return domain.User{}, nil, err
	}
	if err := validatePassword(password, s.MinPasswordLength); err != nil {
		return domain.User{}, nil, err
	}

	// Hashing happens before any store call so no pooled connection is
	// held during the deliberately slow bcrypt work.
	hash, err := cryptox.HashPasswordCost(password, s.hashCost())
	if err != nil {
		return domain.User{}, nil, apperr.Database(err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateEmail):
			return domain.User{}, nil, apperr.DuplicateEmail()
		case errors.Is(err, store.ErrDuplicateUsername):
			return domain.User{}, nil, apperr.DuplicateUsername()
		default:
			return domain.User{}, nil, apperr.Database(err)
		}
	}

	pair, err := s.Tokens.IssuePair(user.ID, now)
	if err != nil {
		return domain.User{}, nil, err
	}

	l.Info("user registered", "user_id", user.ID)

	user.PasswordHash = ""
	return user, pair, nil
}

// Login verifies credentials and issues a fresh token pair. Unknown
// identifier, wrong password and deactivated account all fail with the
// same INVALID_CREDENTIALS shape so responses cannot be used to probe for
// accounts.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (domain.User, *domain.TokenPair, error) {
	l := slogx.FromContext(ctx).With("svc", "auth.login")

	user, err := s.lookup(ctx, identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, nil, apperr.InvalidCredentials()
		}
		return domain.User{}, nil, apperr.Database(err)
	}

	if !user.IsActive {
		return domain.User{}, nil, apperr.InvalidCredentials()
	}

	if !cryptox.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, nil, apperr.InvalidCredentials()
	}

	now := time.Now().UTC()

	// Last-login tracking is not part of the login success contract.
	if err := s.Store.Users().UpdateLastLogin(ctx, user.ID, now); err != nil {
		l.Warn("failed to update last_login_at", "user_id", user.ID, "err", err)
	} else {
		user.LastLoginAt = &now
	}

	pair, err := s.Tokens.IssuePair(user.ID, now)
	if err != nil {
		return domain.User{}, nil, err
	}

	l.Info("user logged in", "user_id", user.ID)

	user.PasswordHash = ""
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new pair. The superseded
// refresh token is not invalidated: tokens are stateless and remain valid
// until their embedded expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	subject, err := s.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	if _, err := s.Store.Users().GetUserByID(ctx, subject); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.UserNotFound()
		}
		return nil, apperr.Database(err)
	}

	return s.Tokens.IssuePair(subject, time.Now().UTC())
}

// GetUser loads a user by id with the password hash cleared, for
// protected-route handlers resolving the authenticated subject.
func (s *AuthService) GetUser(ctx context.Context, id string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, apperr.UserNotFound()
		}
		return domain.User{}, apperr.Database(err)
	}
	user.PasswordHash = ""
	return user, nil
}

// lookup resolves a login identifier. Anything containing '@' is treated
// as an email (usernames cannot contain '@'), everything else as a
// username.
func (s *AuthService) lookup(ctx context.Context, identifier string) (domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return s.Store.Users().GetUserByEmail(ctx, identifier)
	}
	return s.Store.Users().GetUserByUsername(ctx, identifier)
}
