// Package jwtx signs and verifies the service's self-contained access and
// refresh tokens. Tokens are stateless: a signed token stays valid until
// its embedded expiry, there is no server-side revocation list.
package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType tags a token as access or refresh. Verification requires the
// expected type so one can never be accepted in place of the other.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// MinSecretLength is the minimum accepted signing secret length in bytes.
const MinSecretLength = 32

var (
	ErrSecretTooShort = errors.New("jwtx: signing secret shorter than 32 bytes")
	ErrUnsupportedAlg = errors.New("jwtx: unsupported signing algorithm")

	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrTypeMismatch = errors.New("jwtx: token type mismatch")
)

// Claims are the service's token claims: registered claims plus the
// access/refresh type tag.
type Claims struct {
	jwt.RegisteredClaims

	TokenType TokenType `json:"typ"`
}

// Signer issues and verifies tokens with a single symmetric secret.
type Signer struct {
	secret []byte
	method jwt.SigningMethod
	issuer string
}

// NewSigner builds a Signer. algorithm must be one of HS256, HS384, HS512;
// the secret must be at least MinSecretLength bytes.
func NewSigner(secret []byte, algorithm, issuer string) (*Signer, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}

	var method jwt.SigningMethod
	switch algorithm {
	case "HS256", "":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlg, algorithm)
	}

	return &Signer{secret: secret, method: method, issuer: issuer}, nil
}

// Sign issues a token of the given type for subject, expiring after ttl.
func (s *Signer) Sign(subject string, typ TokenType, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        newJTI(),
		},
		TokenType: typ,
	}

	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Verify parses and validates token, requiring the expected type, and
// returns its claims. Expiry failures surface as ErrExpired; every other
// failure mode (bad signature, malformed payload, wrong issuer, wrong
// type) surfaces as one of the invalid-token sentinels.
func (s *Signer) Verify(token string, want TokenType) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, s.keyFunc,
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		default:
			return Claims{}, ErrMalformed
		}
	}

	if s.issuer != "" && claims.Issuer != s.issuer {
		return Claims{}, ErrMalformed
	}
	if claims.TokenType != want {
		return Claims{}, ErrTypeMismatch
	}
	if claims.Subject == "" {
		return Claims{}, ErrMalformed
	}

	return claims, nil
}

func (s *Signer) keyFunc(_ *jwt.Token) (any, error) {
	return s.secret, nil
}
