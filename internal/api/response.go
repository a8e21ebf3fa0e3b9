package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/najdeno/najdeno/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// storeError maps store errors to HTTP statuses. Validation failures are the
// caller's fault, state conflicts mean the resource moved on, everything else
// is logged and hidden behind the fallback message.
func storeError(w http.ResponseWriter, err error, fallback string) {
	var verr *store.ValidationError
	var serr *store.InvalidStateError
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "not found")
	case errors.As(err, &verr):
		jsonError(w, http.StatusBadRequest, verr.Reason)
	case errors.As(err, &serr):
		jsonError(w, http.StatusConflict, serr.Reason)
	default:
		slog.Error(fallback, "error", err)
		jsonError(w, http.StatusInternalServerError, fallback)
	}
}
