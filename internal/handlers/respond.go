package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/beerlog/backend/internal/repository"
	"github.com/beerlog/backend/internal/services"
)

// decodeJSON decodes the request body into v, answering 400 itself on
// malformed input. Returns false when the request is already handled.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid JSON"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps service error kinds to HTTP responses.
// Validation problems come back as a field map so forms can render
// field-level feedback; unexpected failures are logged and surfaced as
// a generic 500 without storage detail.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "errors": verr.Fields})
	case errors.Is(err, services.ErrPermission):
		writeJSON(w, http.StatusForbidden, map[string]any{"ok": false, "error": "insufficient permissions"})
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "not found"})
	default:
		log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "internal error"})
	}
}
