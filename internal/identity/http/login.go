package http

import (
	"net/http"

	"github.com/vantaworks/identity/internal/identity/service"
	"github.com/vantaworks/identity/pkg/apperr"
	"github.com/vantaworks/identity/pkg/httpx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

// Handle authenticates a user and issues a token pair.
//
//	@Summary		Log in
//	@Description	Verifies credentials against the stored bcrypt hash and returns a
//	@Description	fresh access/refresh pair. The identifier may be an email or a
//	@Description	username. All authentication failures return the same error shape.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Login credentials"
//	@Success		200		{object}	AuthResponse		"Authenticated user and token pair"
//	@Failure		401		{object}	httpx.ErrorEnvelope	"Invalid credentials"
//	@Failure		422		{object}	httpx.ErrorEnvelope	"Malformed body"
//	@Failure		500		{object}	httpx.ErrorEnvelope	"Internal server error"
//	@Router			/auth/login [post].
func (h *LoginHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if req.identifier() == "" || req.Password == "" {
		return apperr.Validation("identifier and password are required")
	}

	user, pair, err := h.AuthService.Login(r.Context(), req.identifier(), req.Password)
	if err != nil {
		return err
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, AuthResponse{
		User:          toUserResponse(user),
		TokenResponse: toTokenResponse(pair),
	})
	return nil
}
