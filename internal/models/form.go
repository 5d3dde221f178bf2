package models

import (
	"encoding/json"
	"time"
)

// FormFieldOption is one selectable choice of a multiple_choice, checkbox or
// dropdown field.
type FormFieldOption struct {
	ID    string `json:"id"`
	Value string `json:"value"`
	Label string `json:"label"`
}

// FormField is a single input definition inside a form. Field names on the
// wire are camelCase where the frontend builder expects them that way.
type FormField struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"` // text, email, multiple_choice, checkbox, dropdown, textarea, description
	Order       int               `json:"order"`
	Label       string            `json:"label,omitempty"` // absent for 'description' fields
	Required    bool              `json:"required"`
	Placeholder string            `json:"placeholder,omitempty"`
	MinLength   *int              `json:"minLength,omitempty"`
	MaxLength   *int              `json:"maxLength,omitempty"`
	Options     []FormFieldOption `json:"options,omitempty"`
	OtherOption *bool             `json:"otherOption,omitempty"` // multiple_choice only
	Text        string            `json:"text,omitempty"`        // 'description' fields only
	Validation  map[string]any    `json:"validation,omitempty"`
	Config      map[string]any    `json:"config,omitempty"`
}

// FormData is the structured document stored in a form's data column.
type FormData struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Settings    map[string]any `json:"settings,omitempty"` // e.g. requireLogin, once implemented
	Fields      []FormField    `json:"fields"`
}

// Form is an owner-authored document describing a set of input fields.
type Form struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"owner_id"`
	Data      FormData   `json:"data"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	Owner     *User      `json:"owner,omitempty"`

	// JSON string field for DB storage
	DataJSON string `json:"-"`
}

// PrepareForSave marshals the structured data document into its JSON string
// for DB storage.
func (f *Form) PrepareForSave() {
	dataBytes, _ := json.Marshal(f.Data)
	f.DataJSON = string(dataBytes)
}

// PrepareForAPI unmarshals the stored JSON string back into the structured
// data document for API responses.
func (f *Form) PrepareForAPI() error {
	if f.DataJSON == "" {
		return nil
	}
	return json.Unmarshal([]byte(f.DataJSON), &f.Data)
}
