package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeDetail emits the {"detail": "..."} error body the API contract uses.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// pagination parses and bounds-checks skip/limit query parameters. A
// negative skip, or a limit outside [1, maxLimit], is rejected rather than
// clamped.
func pagination(r *http.Request, defaultLimit, maxLimit int) (skip, limit int, ok bool) {
	skip, limit = 0, defaultLimit

	if raw := r.URL.Query().Get("skip"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return 0, 0, false
		}
		skip = v
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxLimit {
			return 0, 0, false
		}
		limit = v
	}
	return skip, limit, true
}
