package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Udhay-Adithya/form-builder-backend/internal/models"
)

// ResponseServiceProvider defines the interface for response services.
type ResponseServiceProvider interface {
	CreateResponse(formID string, data map[string]any) (models.Response, error)
	GetResponsesByForm(formID string, skip, limit int) ([]models.Response, error)
}

// ResponseService provides business logic for form submissions.
type ResponseService struct {
	db *sql.DB
}

// NewResponseService creates a new ResponseService.
func NewResponseService(db *sql.DB) *ResponseService {
	return &ResponseService{db: db}
}

// CreateResponse stores a submission against a form. The answer map is
// persisted as given; it is not checked against the form's field
// definitions (see the router-level TODO).
func (s *ResponseService) CreateResponse(formID string, data map[string]any) (models.Response, error) {
	response := models.Response{
		ID:        uuid.New().String(),
		FormID:    formID,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
	response.PrepareForSave()

	tx, err := s.db.Begin()
	if err != nil {
		return models.Response{}, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO responses(id, form_id, data_json, created_at) VALUES(?, ?, ?, ?)",
		response.ID, response.FormID, response.DataJSON, response.CreatedAt,
	)
	if err != nil {
		return models.Response{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Response{}, err
	}

	return response, nil
}

// GetResponsesByForm retrieves submissions for a form, oldest first.
func (s *ResponseService) GetResponsesByForm(formID string, skip, limit int) ([]models.Response, error) {
	rows, err := s.db.Query(
		"SELECT id, form_id, data_json, created_at, updated_at FROM responses WHERE form_id = ? ORDER BY created_at ASC LIMIT ? OFFSET ?",
		formID, limit, skip,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := []models.Response{}
	for rows.Next() {
		var response models.Response
		var updatedAt sql.NullTime
		if err := rows.Scan(&response.ID, &response.FormID, &response.DataJSON, &response.CreatedAt, &updatedAt); err != nil {
			return nil, err
		}
		if updatedAt.Valid {
			response.UpdatedAt = &updatedAt.Time
		}
		if err := response.PrepareForAPI(); err != nil {
			return nil, fmt.Errorf("corrupt response data for %s: %w", response.ID, err)
		}
		responses = append(responses, response)
	}
	return responses, rows.Err()
}
