package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vantaworks/identity/pkg/idx"
)

// RequestIDHeader is honoured on inbound requests and always set on
// responses so callers can correlate with server logs.
const RequestIDHeader = "X-Request-ID"

// HTTPMiddleware assigns a correlation id, attaches a contextual logger,
// and logs a start and a completion event around every request. Request
// bodies are never logged, so credentials and tokens stay out of the log
// stream.
func HTTPMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = idx.New().String()
			}
			w.Header().Set(RequestIDHeader, reqID)

			logger := base.With(
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			ctx := WithContext(r.Context(), logger)
			ctx = WithRequestID(ctx, reqID)
			logger = FromContext(ctx)
			r = r.WithContext(ctx)

			logger.Debug("request_start")

			next.ServeHTTP(rw, r)

			logger.Info("http_request",
				"status", rw.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"user_agent", r.UserAgent(),
			)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter

	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
