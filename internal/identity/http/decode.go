package http

import (
	"encoding/json"
	"net/http"

	"github.com/vantaworks/identity/pkg/apperr"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// decodeJSON reads a JSON request body into v. Malformed or oversized
// bodies report VALIDATION_ERROR rather than a bare 400.
func decodeJSON(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("request body is not valid JSON")
	}
	return nil
}
