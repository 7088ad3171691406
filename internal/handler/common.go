package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dukerupert/chorequest/internal/engine"
	"github.com/dukerupert/chorequest/internal/vault"
)

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// errStatus maps domain errors to HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrNotFound), errors.Is(err, vault.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrInsufficientCoins),
		errors.Is(err, engine.ErrRosterFull),
		errors.Is(err, engine.ErrLastChild):
		return http.StatusConflict
	case errors.Is(err, engine.ErrInvalidPin), errors.Is(err, engine.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
