package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/kalstad/office-pong/internal/ladder"
	"github.com/kalstad/office-pong/internal/processor"
	"github.com/kalstad/office-pong/internal/rating"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// respondError maps the error taxonomy onto HTTP statuses: unknown ids are
// 404, rejected input is 400, a stale delete is 409 and anything else is a
// store failure surfacing as 500.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ladder.ErrUnknownPlayer),
		errors.Is(err, ladder.ErrUnknownOffice),
		errors.Is(err, ladder.ErrUnknownMatch):
		status = http.StatusNotFound
	case errors.Is(err, ladder.ErrInvalidName),
		errors.Is(err, rating.ErrUnknownFunction),
		errors.Is(err, processor.ErrSamePlayer),
		errors.Is(err, processor.ErrPlayerNotInOffice),
		errors.Is(err, processor.ErrSameOffice):
		status = http.StatusBadRequest
	case errors.Is(err, processor.ErrStaleDelete):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

func respondBadRequest(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Error("Failed to decode request body", "error", err)
		respondBadRequest(w, "invalid JSON body")
		return false
	}
	return true
}

// officeIDParam reads the officeId query parameter shared by the listing and
// stats endpoints.
func officeIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	officeID := r.URL.Query().Get("officeId")
	if officeID == "" {
		respondBadRequest(w, "officeId is required")
		return "", false
	}
	return officeID, true
}
