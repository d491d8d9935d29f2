package http

import (
	"net/http"

	"github.com/vantaworks/identity/internal/identity/service"
	"github.com/vantaworks/identity/pkg/apperr"
	"github.com/vantaworks/identity/pkg/httpx"
)

type RefreshHandler struct {
	AuthService *service.AuthService
}

// Handle exchanges a refresh token for a new token pair.
//
//	@Summary		Refresh tokens
//	@Description	Validates a refresh token and returns a rotated access/refresh pair.
//	@Description	Access tokens are rejected here; the superseded refresh token stays
//	@Description	valid until its own expiry.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	TokenResponse		"Rotated token pair"
//	@Failure		401		{object}	httpx.ErrorEnvelope	"Invalid or expired token"
//	@Failure		404		{object}	httpx.ErrorEnvelope	"Subject no longer exists"
//	@Failure		422		{object}	httpx.ErrorEnvelope	"Malformed body"
//	@Failure		500		{object}	httpx.ErrorEnvelope	"Internal server error"
//	@Router			/auth/refresh [post].
func (h *RefreshHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	var req RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if req.RefreshToken == "" {
		return apperr.Validation("refresh_token is required")
	}

	pair, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toTokenResponse(pair))
	return nil
}
