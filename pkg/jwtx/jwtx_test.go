package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testIssuer = "identity-test"

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner(testSecret, "HS256", testIssuer)
	require.NoError(t, err)
	return s
}

func TestNewSigner(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secrets", func(t *testing.T) {
		_, err := NewSigner([]byte("short"), "HS256", testIssuer)
		require.ErrorIs(t, err, ErrSecretTooShort)
	})

	t.Run("rejects asymmetric algorithms", func(t *testing.T) {
		for _, alg := range []string{"RS256", "ES256", "none"} {
			_, err := NewSigner(testSecret, alg, testIssuer)
			require.ErrorIs(t, err, ErrUnsupportedAlg)
		}
	})

	t.Run("accepts the HMAC family", func(t *testing.T) {
		for _, alg := range []string{"", "HS256", "HS384", "HS512"} {
			_, err := NewSigner(testSecret, alg, testIssuer)
			require.NoError(t, err)
		}
	})
}

func TestSignVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestSigner(t)
	now := time.Now()

	for _, typ := range []TokenType{TokenTypeAccess, TokenTypeRefresh} {
		t.Run(string(typ), func(t *testing.T) {
			token, err := s.Sign("user-1", typ, time.Minute, now)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := s.Verify(token, typ)
			require.NoError(t, err)
			require.Equal(t, "user-1", claims.Subject)
			require.Equal(t, typ, claims.TokenType)
			require.Equal(t, testIssuer, claims.Issuer)
			require.WithinDuration(t, now.Add(time.Minute), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestVerifyRejectsTypeConfusion(t *testing.T) {
	t.Parallel()

	s := newTestSigner(t)
	now := time.Now()

	access, err := s.Sign("user-1", TokenTypeAccess, time.Minute, now)
	require.NoError(t, err)
	refresh, err := s.Sign("user-1", TokenTypeRefresh, time.Minute, now)
	require.NoError(t, err)

	_, err = s.Verify(access, TokenTypeRefresh)
	require.ErrorIs(t, err, ErrTypeMismatch)

	_, err = s.Verify(refresh, TokenTypeAccess)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestVerifyExpiredToken(t *testing.T) {
	t.Parallel()

	s := newTestSigner(t)

	// Issued with expiry already in the past.
	token, err := s.Sign("user-1", TokenTypeAccess, -time.Minute, time.Now())
	require.NoError(t, err)

	_, err = s.Verify(token, TokenTypeAccess)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsTampering(t *testing.T) {
	t.Parallel()

	s := newTestSigner(t)
	token, err := s.Sign("user-1", TokenTypeAccess, time.Minute, time.Now())
	require.NoError(t, err)

	t.Run("flipped payload byte", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		payload := []byte(parts[1])
		payload[0] ^= 0x01
		_, err := s.Verify(parts[0]+"."+string(payload)+"."+parts[2], TokenTypeAccess)
		require.Error(t, err)
	})

	t.Run("different secret", func(t *testing.T) {
		other, err := NewSigner([]byte("ffffffffffffffffffffffffffffffff"), "HS256", testIssuer)
		require.NoError(t, err)
		_, err = other.Verify(token, TokenTypeAccess)
		require.ErrorIs(t, err, ErrInvalidSig)
	})

	t.Run("garbage strings", func(t *testing.T) {
		for _, bad := range []string{"", "a.b.c", "not a token"} {
			_, err := s.Verify(bad, TokenTypeAccess)
			require.ErrorIs(t, err, ErrMalformed)
		}
	})
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	other, err := NewSigner(testSecret, "HS256", "someone-else")
	require.NoError(t, err)
	token, err := other.Sign("user-1", TokenTypeAccess, time.Minute, time.Now())
	require.NoError(t, err)

	s := newTestSigner(t)
	_, err = s.Verify(token, TokenTypeAccess)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestUniqueJTI(t *testing.T) {
	t.Parallel()

	s := newTestSigner(t)
	now := time.Now()

	a, err := s.Sign("user-1", TokenTypeAccess, time.Minute, now)
	require.NoError(t, err)
	b, err := s.Sign("user-1", TokenTypeAccess, time.Minute, now)
	require.NoError(t, err)

	require.NotEqual(t, a, b, "same-second tokens must still differ via jti")
}
