package identity_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httpapi "github.com/vantaworks/identity/internal/identity/http"
	"github.com/vantaworks/identity/internal/identity/service"
	"github.com/vantaworks/identity/internal/identity/store/drivers/sqlite"
	"github.com/vantaworks/identity/pkg/jwtx"
)

/*
 * Common helpers for identity service end-to-end tests. The full router
 * runs behind a real HTTP listener with a real sqlite store; tests speak
 * JSON over the wire exactly like an external client.
 */

const (
	testPassword = "Str0ng!pass"
	testSecret   = "0123456789abcdef0123456789abcdef"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "e2e.db") +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewSigner([]byte(testSecret), "HS256", "identity")
	require.NoError(t, err)

	tokens := &service.TokenService{
		Signer:     signer,
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}

	router := httpapi.NewRouter("e2e", false, st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	router.TokenService = tokens
	router.AuthService = &service.AuthService{
		Store:             st,
		Tokens:            tokens,
		MinPasswordLength: 8,
		HashCost:          bcrypt.MinCost,
	}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	resp, err := http.Post(url, "application/json", &buf)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func getWithBearer(t *testing.T, url, token string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func decodeResponse[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return decode[T](t, raw)
}

func jsonBody(t *testing.T, body any) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	return &buf
}
