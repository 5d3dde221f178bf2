package models

import (
	"encoding/json"
	"time"
)

// Response is one submitter's set of answers to a form, keyed by field id.
// Values are untyped: scalars or lists, as submitted.
type Response struct {
	ID        string         `json:"id"`
	FormID    string         `json:"form_id"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt *time.Time     `json:"updated_at"`

	// JSON string field for DB storage
	DataJSON string `json:"-"`
}

// PrepareForSave marshals the answer map into its JSON string for DB storage.
func (r *Response) PrepareForSave() {
	dataBytes, _ := json.Marshal(r.Data)
	r.DataJSON = string(dataBytes)
}

// PrepareForAPI unmarshals the stored JSON string back into the answer map.
func (r *Response) PrepareForAPI() error {
	if r.DataJSON == "" {
		return nil
	}
	return json.Unmarshal([]byte(r.DataJSON), &r.Data)
}
