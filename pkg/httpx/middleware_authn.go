package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/vantaworks/identity/pkg/apperr"
)

type ctxKey string

// CtxKeyUserID carries the authenticated subject (user id) for downstream
// handlers.
const CtxKeyUserID ctxKey = "user_id"

// AccessVerifier validates a bearer access token and returns the subject
// it asserts identity for.
type AccessVerifier interface {
	VerifyAccess(token string) (subject string, err error)
}

// Authn verifies the Authorization bearer access token and injects the
// subject into the request context. Failures render through the standard
// envelope (TOKEN_INVALID / TOKEN_EXPIRED).
func (eh ErrorHandler) Authn(v AccessVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				eh.WriteError(w, r, apperr.TokenInvalid())
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			subject, err := v.VerifyAccess(raw)
			if err != nil {
				eh.WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), CtxKeyUserID, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated subject, or "" when the
// request did not pass through Authn.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(CtxKeyUserID).(string)
	return id
}
