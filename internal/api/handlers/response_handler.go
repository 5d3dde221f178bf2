package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Udhay-Adithya/form-builder-backend/internal/auth"
	"github.com/Udhay-Adithya/form-builder-backend/internal/services"
)

// ResponseHandler handles HTTP requests for form submissions.
type ResponseHandler struct {
	forms     services.FormServiceProvider
	responses services.ResponseServiceProvider
}

// NewResponseHandler creates a new ResponseHandler.
func NewResponseHandler(forms services.FormServiceProvider, responses services.ResponseServiceProvider) *ResponseHandler {
	return &ResponseHandler{forms: forms, responses: responses}
}

// ResponseCreatePayload defines the structure for submission requests. The
// data map keys are field ids; values are whatever the submitter entered.
type ResponseCreatePayload struct {
	Data map[string]any `json:"data"`
}

// Create handles a public submission against a form. No authentication is
// required; the form only has to exist.
func (h *ResponseHandler) Create(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "id")
	if _, err := h.forms.GetFormByID(formID); err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			writeDetail(w, http.StatusNotFound, "Form not found")
			return
		}
		log.Error().Err(err).Str("form_id", formID).Msg("Failed to get form")
		writeDetail(w, http.StatusInternalServerError, "Failed to retrieve form")
		return
	}

	var payload ResponseCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Data == nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// TODO: validate the submitted answers against the form's field
	// definitions (required fields, option membership, min/max length)
	// and reject mismatches with a 400.

	response, err := h.responses.CreateResponse(formID, payload.Data)
	if err != nil {
		log.Error().Err(err).Str("form_id", formID).Msg("Failed to create response")
		writeDetail(w, http.StatusInternalServerError, "Failed to create response")
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

// List returns a form's submissions, oldest first. Only the form's owner
// may read them; existence is checked before ownership.
func (h *ResponseHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	formID := chi.URLParam(r, "id")
	form, err := h.forms.GetFormByID(formID)
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			writeDetail(w, http.StatusNotFound, "Form not found")
			return
		}
		log.Error().Err(err).Str("form_id", formID).Msg("Failed to get form")
		writeDetail(w, http.StatusInternalServerError, "Failed to retrieve form")
		return
	}
	if form.OwnerID != user.ID {
		writeDetail(w, http.StatusForbidden, "Not enough permissions")
		return
	}

	skip, limit, ok := pagination(r, 1000, 5000)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "Invalid skip or limit parameter")
		return
	}

	responses, err := h.responses.GetResponsesByForm(formID, skip, limit)
	if err != nil {
		log.Error().Err(err).Str("form_id", formID).Msg("Failed to list responses")
		writeDetail(w, http.StatusInternalServerError, "Failed to retrieve responses")
		return
	}

	writeJSON(w, http.StatusOK, responses)
}
