package http

import (
	"net/http"

	"github.com/vantaworks/identity/internal/identity/service"
	"github.com/vantaworks/identity/pkg/httpx"
)

type RegisterHandler struct {
	AuthService *service.AuthService
}

// Handle creates a new user account and issues an initial token pair.
//
//	@Summary		Register a new user
//	@Description	Creates a user account. Email is normalized to lowercase and must be
//	@Description	unique case-insensitively; username is case-sensitive and unique.
//	@Description	The password must satisfy the configured complexity policy.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest	true	"Registration details"
//	@Success		201		{object}	AuthResponse			"Created user and token pair"
//	@Failure		400		{object}	httpx.ErrorEnvelope		"Weak password or invalid email"
//	@Failure		409		{object}	httpx.ErrorEnvelope		"Email or username already taken"
//	@Failure		422		{object}	httpx.ErrorEnvelope		"Malformed body or invalid username"
//	@Failure		500		{object}	httpx.ErrorEnvelope		"Internal server error"
//	@Router			/auth/register [post].
func (h *RegisterHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	user, pair, err := h.AuthService.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		return err
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, AuthResponse{
		User:          toUserResponse(user),
		TokenResponse: toTokenResponse(pair),
	})
	return nil
}
