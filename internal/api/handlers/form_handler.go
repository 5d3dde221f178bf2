package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Udhay-Adithya/form-builder-backend/internal/auth"
	"github.com/Udhay-Adithya/form-builder-backend/internal/models"
	"github.com/Udhay-Adithya/form-builder-backend/internal/services"
)

// FormHandler handles HTTP requests for form definitions.
type FormHandler struct {
	service services.FormServiceProvider
}

// NewFormHandler creates a new FormHandler.
func NewFormHandler(service services.FormServiceProvider) *FormHandler {
	return &FormHandler{service: service}
}

// FormCreatePayload defines the structure for form creation requests.
type FormCreatePayload struct {
	Data models.FormData `json:"data"`
}

// FormUpdatePayload defines the structure for form update requests. A nil
// Data means the document is left untouched.
type FormUpdatePayload struct {
	Data *models.FormData `json:"data"`
}

// Create handles the request to create a new form owned by the caller.
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	var payload FormCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Data.Title == "" {
		writeDetail(w, http.StatusBadRequest, "Form title is required")
		return
	}

	form, err := h.service.CreateForm(user.ID, payload.Data)
	if err != nil {
		log.Error().Err(err).Str("owner_id", user.ID).Msg("Failed to create form")
		writeDetail(w, http.StatusInternalServerError, "Failed to create form")
		return
	}

	writeJSON(w, http.StatusCreated, form)
}

// List handles the request to list the caller's own forms, newest first.
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	skip, limit, ok := pagination(r, 100, 200)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "Invalid skip or limit parameter")
		return
	}

	forms, err := h.service.GetFormsByOwner(user.ID, skip, limit)
	if err != nil {
		log.Error().Err(err).Str("owner_id", user.ID).Msg("Failed to list forms")
		writeDetail(w, http.StatusInternalServerError, "Failed to retrieve forms")
		return
	}

	writeJSON(w, http.StatusOK, forms)
}

// Get handles the request to fetch a single form. Reading a form definition
// is public so that submitters can render it.
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	form, err := h.service.GetFormByID(id)
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			writeDetail(w, http.StatusNotFound, "Form not found")
			return
		}
		log.Error().Err(err).Str("form_id", id).Msg("Failed to get form")
		writeDetail(w, http.StatusInternalServerError, "Failed to retrieve form")
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// Update replaces a form's data document. Only the owner may update, and
// existence is checked before ownership so a missing id is a 404 even for
// non-owners.
func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	id := chi.URLParam(r, "id")
	form, err := h.service.GetFormByID(id)
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			writeDetail(w, http.StatusNotFound, "Form not found")
			return
		}
		log.Error().Err(err).Str("form_id", id).Msg("Failed to get form")
		writeDetail(w, http.StatusInternalServerError, "Failed to retrieve form")
		return
	}
	if form.OwnerID != user.ID {
		writeDetail(w, http.StatusForbidden, "Not enough permissions")
		return
	}

	var payload FormUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Whole-document replace: when no data document is supplied there is
	// nothing to change and the current form is returned as-is.
	if payload.Data == nil {
		writeJSON(w, http.StatusOK, form)
		return
	}

	updated, err := h.service.UpdateForm(id, *payload.Data)
	if err != nil {
		log.Error().Err(err).Str("form_id", id).Msg("Failed to update form")
		writeDetail(w, http.StatusInternalServerError, "Failed to update form")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a form and all of its responses. Only the owner may
// delete; the deleted form is returned.
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	id := chi.URLParam(r, "id")
	form, err := h.service.GetFormByID(id)
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			writeDetail(w, http.StatusNotFound, "Form not found")
			return
		}
		log.Error().Err(err).Str("form_id", id).Msg("Failed to get form")
		writeDetail(w, http.StatusInternalServerError, "Failed to retrieve form")
		return
	}
	if form.OwnerID != user.ID {
		writeDetail(w, http.StatusForbidden, "Not enough permissions")
		return
	}

	deleted, err := h.service.DeleteForm(id)
	if err != nil {
		log.Error().Err(err).Str("form_id", id).Msg("Failed to delete form")
		writeDetail(w, http.StatusInternalServerError, "Failed to delete form")
		return
	}

	writeJSON(w, http.StatusOK, deleted)
}
