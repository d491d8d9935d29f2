package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vantaworks/identity/internal/identity/store/drivers/sqlite"
	"github.com/vantaworks/identity/pkg/apperr"
	"github.com/vantaworks/identity/pkg/jwtx"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	signer, err := jwtx.NewSigner([]byte(testSecret), "HS256", "identity")
	require.NoError(t, err)

	return &AuthService{
		Store: s,
		Tokens: &TokenService{
			Signer:     signer,
			AccessTTL:  30 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		MinPasswordLength: 8,
		HashCost:          bcrypt.MinCost,
	}
}

func requireCode(t *testing.T, err error, code apperr.Code) {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperr.IsCode(err, code), "want %s, got %v", code, err)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	auth := newTestAuth(t)
	ctx := context.Background()

	user, pair, err := auth.Register(ctx, "Alice@Example.COM", "alice", "Str0ng!pass")
	require.NoError(t, err)

	require.NotEmpty(t, user.ID)
	require.Equal(t, "alice@example.com", user.Email, "email is normalized to lowercase")
	require.Equal(t, "alice", user.Username)
	require.True(t, user.IsActive)
	require.Empty(t, user.PasswordHash, "hash must not leave the service")
	require.Nil(t, user.LastLoginAt)

	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, 30*time.Minute, pair.ExpiresIn)

	subject, err := auth.Tokens.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, subject)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	auth := newTestAuth(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		username string
		password string
		code     apperr.Code
	}{
		{"bad email", "not-an-email", "alice", "Str0ng!pass", apperr.CodeInvalidEmail},
		{"email without dot", "alice@localhost", "alice", "Str0ng!pass", apperr.CodeInvalidEmail},
		{"short username", "a@example.com", "ab", "Str0ng!pass", apperr.CodeValidationError},
		{"username with space", "a@example.com", "al ice", "Str0ng!pass", apperr.CodeValidationError},
		{"short password", "a@example.com", "alice", "S0r!t", apperr.CodeWeakPassword},
		{"no uppercase", "a@example.com", "alice", "str0ng!pass", apperr.CodeWeakPassword},
		{"no lowercase", "a@example.com", "alice", "STR0NG!PASS", apperr.CodeWeakPassword},
		{"no digit", "a@example.com", "alice", "Strong!pass", apperr.CodeWeakPassword},
		{"no special", "a@example.com", "alice", "Str0ngpass", apperr.CodeWeakPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := auth.Register(ctx, tc.email, tc.username, tc.password)
			requireCode(t, err, tc.code)
		})
	}
}

func TestRegisterDuplicates(t *testing.T) {
	t.Parallel()

	auth := newTestAuth(t)
	ctx := context.Background()

	_, _, err := auth.Register(ctx, "alice@example.com", "alice", "Str0ng!pass")
	require.NoError(t, err)

	t.Run("duplicate email case-insensitive", func(t *testing.T) {
		_, _, err := auth.Register(ctx, "ALICE@example.com", "alice2", "Str0ng!pass")
		requireCode(t, err, apperr.CodeDuplicateEmail)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, _, err := auth.Register(ctx, "alice2@example.com", "alice", "Str0ng!pass")
		requireCode(t, err, apperr.CodeDuplicateUsername)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	auth := newTestAuth(t)
	ctx := context.Background()

	reg, _, err := auth.Register(ctx, "alice@example.com", "alice", "Str0ng!pass")
	require.NoError(t, err)

	t.Run("by email", func(t *testing.T) {
		user, pair, err := auth.Login(ctx, "Alice@Example.com", "Str0ng!pass")
		require.NoError(t, err)
		require.Equal(t, reg.ID, user.ID)
		require.Empty(t, user.PasswordHash)
		require.NotNil(t, user.LastLoginAt)
		require.NotEmpty(t, pair.AccessToken)
	})

	t.Run("by username", func(t *testing.T) {
		user, _, err := auth.Login(ctx, "alice", "Str0ng!pass")
		require.NoError(t, err)
		require.Equal(t, reg.ID, user.ID)
	})

	t.Run("last login persisted", func(t *testing.T) {
		stored, err := auth.Store.Users().GetUserByID(ctx, reg.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.LastLoginAt)
	})
}

// Login failures are indistinguishable regardless of cause so the endpoint
// cannot be used to enumerate accounts.
func TestLoginInvalidCredentials(t *testing.T) {
	t.Parallel()

	auth := newTestAuth(t)
	ctx := context.Background()

	reg, _, err := auth.Register(ctx, "alice@example.com", "alice", "Str0ng!pass")
	require.NoError(t, err)

	t.Run("unknown identifier", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "nobody@example.com", "Str0ng!pass")
		requireCode(t, err, apperr.CodeInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "alice", "Wr0ng!pass")
		requireCode(t, err, apperr.CodeInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		require.NoError(t, auth.Store.Users().SetActive(ctx, reg.ID, false))
		_, _, err := auth.Login(ctx, "alice", "Str0ng!pass")
		requireCode(t, err, apperr.CodeInvalidCredentials)
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	auth := newTestAuth(t)
	ctx := context.Background()

	reg, pair, err := auth.Register(ctx, "alice@example.com", "alice", "Str0ng!pass")
	require.NoError(t, err)

	t.Run("rotates pair", func(t *testing.T) {
		fresh, err := auth.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		require.NotEmpty(t, fresh.AccessToken)
		require.NotEmpty(t, fresh.RefreshToken)

		subject, err := auth.Tokens.VerifyAccess(fresh.AccessToken)
		require.NoError(t, err)
		require.Equal(t, reg.ID, subject)
	})

	t.Run("access token rejected", func(t *testing.T) {
		_, err := auth.Refresh(ctx, pair.AccessToken)
		requireCode(t, err, apperr.CodeTokenInvalid)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := auth.Refresh(ctx, "not.a.jwt")
		requireCode(t, err, apperr.CodeTokenInvalid)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		past := time.Now().UTC().Add(-48 * time.Hour)
		expired, err := auth.Tokens.Signer.Sign(reg.ID, jwtx.TokenTypeRefresh, time.Hour, past)
		require.NoError(t, err)

		_, err = auth.Refresh(ctx, expired)
		requireCode(t, err, apperr.CodeTokenExpired)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		other, err := jwtx.NewSigner([]byte("ffffffffffffffffffffffffffffffff"), "HS256", "identity")
		require.NoError(t, err)
		forged, err := other.Sign(reg.ID, jwtx.TokenTypeRefresh, time.Hour, time.Now().UTC())
		require.NoError(t, err)

		_, err = auth.Refresh(ctx, forged)
		requireCode(t, err, apperr.CodeTokenInvalid)
	})
}

func TestRefreshDeletedUser(t *testing.T) {
	t.Parallel()

	auth := newTestAuth(t)
	ctx := context.Background()

	// A refresh token for a subject that does not exist in the store.
	pair, err := auth.Tokens.IssuePair("01ARZ3NDEKTSV4RRFFQ69G5FAV", time.Now().UTC())
	require.NoError(t, err)

	_, err = auth.Refresh(ctx, pair.RefreshToken)
	requireCode(t, err, apperr.CodeUserNotFound)
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	auth := newTestAuth(t)
	ctx := context.Background()

	reg, _, err := auth.Register(ctx, "alice@example.com", "alice", "Str0ng!pass")
	require.NoError(t, err)

	got, err := auth.GetUser(ctx, reg.ID)
	require.NoError(t, err)
	require.Equal(t, reg.Email, got.Email)
	require.Empty(t, got.PasswordHash)

	_, err = auth.GetUser(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	requireCode(t, err, apperr.CodeUserNotFound)
}
