package http

import (
	"net/http"

	"github.com/vantaworks/identity/internal/identity/service"
	"github.com/vantaworks/identity/pkg/apperr"
	"github.com/vantaworks/identity/pkg/httpx"
)

type MeHandler struct {
	AuthService *service.AuthService
}

// Handle returns the authenticated user.
//
//	@Summary		Get current user
//	@Description	Returns the account belonging to the bearer access token.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	UserResponse		"Current user"
//	@Failure		401	{object}	httpx.ErrorEnvelope	"Invalid or missing access token"
//	@Failure		404	{object}	httpx.ErrorEnvelope	"Account no longer exists"
//	@Failure		500	{object}	httpx.ErrorEnvelope	"Internal server error"
//	@Router			/auth/me [get].
func (h *MeHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	userID := httpx.UserIDFromContext(r.Context())
	if userID == "" {
		return apperr.TokenInvalid()
	}

	user, err := h.AuthService.GetUser(r.Context(), userID)
	if err != nil {
		return err
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
	return nil
}
