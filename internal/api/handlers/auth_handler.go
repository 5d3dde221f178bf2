package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Udhay-Adithya/form-builder-backend/internal/auth"
	"github.com/Udhay-Adithya/form-builder-backend/internal/services"
)

// AuthHandler handles registration and token issuance.
type AuthHandler struct {
	users  services.UserServiceProvider
	tokens *auth.TokenService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	IsActive    *bool  `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

// TokenPayload defines the JSON structure for login requests.
type TokenPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := mail.ParseAddress(payload.Email); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid email address")
		return
	}
	if len(payload.Password) < 8 {
		writeDetail(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	isActive := true
	if payload.IsActive != nil {
		isActive = *payload.IsActive
	}

	user, err := h.users.CreateUser(payload.Email, payload.Password, isActive, payload.IsSuperuser)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			writeDetail(w, http.StatusBadRequest, "The user with this email already exists in the system.")
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		writeDetail(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Token handles user authentication and access-token issuance. It accepts
// the OAuth2 password form (username carries the email) as well as a JSON
// body with email and password fields.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	email, password, ok := credentials(r)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.AuthenticateUser(email, password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			log.Warn().Str("email", email).Msg("Failed authentication attempt")
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		case errors.Is(err, services.ErrInactiveUser):
			writeDetail(w, http.StatusBadRequest, "Inactive user")
		default:
			log.Error().Err(err).Str("email", email).Msg("Authentication failed")
			writeDetail(w, http.StatusInternalServerError, "Authentication failed")
		}
		return
	}

	token, err := h.tokens.Issue(user.Email)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate token")
		writeDetail(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func credentials(r *http.Request) (email, password string, ok bool) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var payload TokenPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return "", "", false
		}
		return payload.Email, payload.Password, payload.Email != ""
	}

	if err := r.ParseForm(); err != nil {
		return "", "", false
	}
	email = r.PostFormValue("username")
	password = r.PostFormValue("password")
	return email, password, email != ""
}
