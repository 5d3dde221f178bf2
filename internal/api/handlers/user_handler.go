package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Udhay-Adithya/form-builder-backend/internal/auth"
)

// UserHandler handles HTTP requests about user accounts.
type UserHandler struct{}

// NewUserHandler creates a new UserHandler.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// GetMe returns the currently authenticated user, as resolved by the
// access guard.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user from context")
		writeDetail(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	writeJSON(w, http.StatusOK, user)
}
