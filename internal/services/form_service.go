package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Udhay-Adithya/form-builder-backend/internal/models"
)

// FormServiceProvider defines the interface for form services.
type FormServiceProvider interface {
	CreateForm(ownerID string, data models.FormData) (models.Form, error)
	GetFormByID(id string) (models.Form, error)
	GetFormsByOwner(ownerID string, skip, limit int) ([]models.Form, error)
	UpdateForm(id string, data models.FormData) (models.Form, error)
	DeleteForm(id string) (models.Form, error)
}

// FormService provides business logic for form definitions.
type FormService struct {
	db *sql.DB
}

// NewFormService creates a new FormService.
func NewFormService(db *sql.DB) *FormService {
	return &FormService{db: db}
}

const formSelect = `
	SELECT f.id, f.owner_id, f.data_json, f.created_at, f.updated_at,
	       u.id, u.email, u.is_active, u.is_superuser, u.created_at, u.updated_at
	FROM forms f
	JOIN users u ON u.id = f.owner_id`

// scanForm is a helper to scan a form plus its owner from a row or rows object.
func scanForm(scanner interface{ Scan(...interface{}) error }) (models.Form, error) {
	var form models.Form
	var owner models.User
	var formUpdated, ownerUpdated sql.NullTime

	err := scanner.Scan(
		&form.ID, &form.OwnerID, &form.DataJSON, &form.CreatedAt, &formUpdated,
		&owner.ID, &owner.Email, &owner.IsActive, &owner.IsSuperuser, &owner.CreatedAt, &ownerUpdated,
	)
	if err != nil {
		return form, err
	}

	if formUpdated.Valid {
		form.UpdatedAt = &formUpdated.Time
	}
	if ownerUpdated.Valid {
		owner.UpdatedAt = &ownerUpdated.Time
	}
	form.Owner = &owner

	if err := form.PrepareForAPI(); err != nil {
		return form, fmt.Errorf("corrupt form data for %s: %w", form.ID, err)
	}
	return form, nil
}

// CreateForm inserts a new form owned by ownerID and re-reads it so the
// caller gets the fully hydrated object, owner included.
func (s *FormService) CreateForm(ownerID string, data models.FormData) (models.Form, error) {
	form := models.Form{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
	form.PrepareForSave()

	tx, err := s.db.Begin()
	if err != nil {
		return models.Form{}, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO forms(id, owner_id, data_json, created_at) VALUES(?, ?, ?, ?)",
		form.ID, form.OwnerID, form.DataJSON, form.CreatedAt,
	)
	if err != nil {
		return models.Form{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Form{}, err
	}

	return s.GetFormByID(form.ID)
}

// GetFormByID retrieves a single form by its ID with the owner attached.
func (s *FormService) GetFormByID(id string) (models.Form, error) {
	row := s.db.QueryRow(formSelect+" WHERE f.id = ?", id)
	form, err := scanForm(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Form{}, ErrFormNotFound
		}
		return models.Form{}, err
	}
	return form, nil
}

// GetFormsByOwner retrieves forms owned by a user, newest first.
func (s *FormService) GetFormsByOwner(ownerID string, skip, limit int) ([]models.Form, error) {
	rows, err := s.db.Query(
		formSelect+" WHERE f.owner_id = ? ORDER BY f.created_at DESC LIMIT ? OFFSET ?",
		ownerID, limit, skip,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	forms := []models.Form{}
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, rows.Err()
}

// UpdateForm replaces a form's data document wholesale. Other columns are
// not mutable through this path.
func (s *FormService) UpdateForm(id string, data models.FormData) (models.Form, error) {
	form := models.Form{Data: data}
	form.PrepareForSave()

	tx, err := s.db.Begin()
	if err != nil {
		return models.Form{}, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"UPDATE forms SET data_json = ?, updated_at = ? WHERE id = ?",
		form.DataJSON, time.Now().UTC(), id,
	)
	if err != nil {
		return models.Form{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Form{}, err
	}
	if affected == 0 {
		return models.Form{}, ErrFormNotFound
	}
	if err := tx.Commit(); err != nil {
		return models.Form{}, err
	}

	return s.GetFormByID(id)
}

// DeleteForm removes a form and, through the cascade on responses.form_id,
// every response submitted against it. Returns the pre-delete snapshot.
func (s *FormService) DeleteForm(id string) (models.Form, error) {
	form, err := s.GetFormByID(id)
	if err != nil {
		return models.Form{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Form{}, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM forms WHERE id = ?", id); err != nil {
		return models.Form{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Form{}, err
	}

	return form, nil
}
