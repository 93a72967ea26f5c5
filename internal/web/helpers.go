package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"teamup-app/internal/completion"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondCompletionError maps the workflow error taxonomy onto HTTP status
// codes. 425 keeps "story before confirmation" distinct from the 409 a
// duplicate confirm gets.
func respondCompletionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, completion.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, completion.ErrUnauthorized):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, completion.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, completion.ErrConflict):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, completion.ErrNotReady):
		respondError(w, http.StatusTooEarly, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
