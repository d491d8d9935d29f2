package httpx

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/vantaworks/identity/pkg/apperr"
	"github.com/vantaworks/identity/pkg/slogx"
)

// ErrorEnvelope is the uniform client-facing error body across all
// endpoints. It never carries stack traces or raw internal error text.
type ErrorEnvelope struct {
	Detail     string    `json:"detail"`
	ErrorCode  string    `json:"error_code"`
	StatusCode int       `json:"status_code"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id"`
}

// HandlerFunc is an http handler that reports failure instead of writing
// its own error response. Every returned error crosses exactly one
// boundary, ErrorHandler, which renders the envelope.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ErrorHandler is the pipeline's single error-rendering boundary.
// Verbose surfaces internal error text for server-fault categories and is
// only ever enabled in development.
type ErrorHandler struct {
	Verbose bool
}

// Wrap adapts a HandlerFunc into an http.Handler with error rendering.
func (eh ErrorHandler) Wrap(h HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			eh.WriteError(w, r, err)
		}
	})
}

// WriteError maps err through the failure taxonomy and writes the
// envelope. Client-fault categories log at WARN, server-fault at ERROR
// with the internal cause kept server-side.
func (eh ErrorHandler) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	e := apperr.From(err)
	log := slogx.FromContext(r.Context())

	if e.ClientFault() {
		log.Warn("request_failed",
			"error_code", string(e.Code),
			"status", e.Status,
			"detail", e.Detail,
		)
	} else {
		log.Error("request_failed",
			"error_code", string(e.Code),
			"status", e.Status,
			"err", err,
		)
	}

	detail := e.Detail
	if eh.Verbose && !e.ClientFault() && e.Err != nil {
		detail = e.Err.Error()
	}

	WriteJSON(w, e.Status, ErrorEnvelope{
		Detail:     detail,
		ErrorCode:  string(e.Code),
		StatusCode: e.Status,
		Timestamp:  time.Now().UTC(),
		RequestID:  slogx.RequestIDFromContext(r.Context()),
	})
}

// Recover converts panics below the pipeline into a generic 500 envelope,
// logging the stack trace server-side only.
func (eh ErrorHandler) Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slogx.FromContext(r.Context()).Error("panic recovered",
						"panic", rec,
						"stack", string(debug.Stack()),
					)
					WriteJSON(w, http.StatusInternalServerError, ErrorEnvelope{
						Detail:     "internal server error",
						ErrorCode:  string(apperr.CodeDatabaseError),
						StatusCode: http.StatusInternalServerError,
						Timestamp:  time.Now().UTC(),
						RequestID:  slogx.RequestIDFromContext(r.Context()),
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
