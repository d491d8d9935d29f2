package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vantaworks/identity/internal/identity/domain"
	"github.com/vantaworks/identity/internal/identity/store"
	"github.com/vantaworks/identity/pkg/idx"
)

// newTestStore starts a throwaway postgres container, connects the pgx
// store to it, and applies migrations.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "identity",
				"POSTGRES_PASSWORD": "identity",
				"POSTGRES_DB":       "identity_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://identity:identity@%s:%s/identity_test?sslmode=disable",
		host, port.Port())

	var s *Store
	// The port can be open before postgres accepts authentication.
	require.Eventually(t, func() bool {
		s, err = NewStore(ctx, dsn)
		if err != nil {
			return false
		}
		if err = s.Ping(ctx); err != nil {
			_ = s.Close()
			return false
		}
		return true
	}, 30*time.Second, 500*time.Millisecond)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func testUser(email, username string) domain.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: "$2a$04$notarealhashnotarealhashnotarealha",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestPostgresUsersRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := testUser("Alice@Example.com", "alice")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	got, err := s.Users().GetUserByEmail(ctx, "ALICE@example.COM")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, "alice@example.com", got.Email, "stored lowercased")
	require.Nil(t, got.LastLoginAt)

	at := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, s.Users().UpdateLastLogin(ctx, u.ID, at))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	require.WithinDuration(t, at, *got.LastLoginAt, time.Second)
}

func TestPostgresDuplicateMapping(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users().CreateUser(ctx, testUser("dup@example.com", "taken")))

	err := s.Users().CreateUser(ctx, testUser("dup@example.com", "other"))
	require.ErrorIs(t, err, store.ErrDuplicateEmail)

	err = s.Users().CreateUser(ctx, testUser("other@example.com", "taken"))
	require.ErrorIs(t, err, store.ErrDuplicateUsername)

	_, err = s.Users().GetUserByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostgresConcurrentDuplicateRegistration(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Users().CreateUser(ctx, testUser("race@example.com", idx.New().String()))
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		require.ErrorIs(t, err, store.ErrDuplicateEmail)
	}
	require.Equal(t, 1, wins, "exactly one registration may succeed")
}
