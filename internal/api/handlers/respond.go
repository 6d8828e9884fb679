package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JackRW23/xva-desk-simulator/internal/book"
	"github.com/JackRW23/xva-desk-simulator/internal/xva"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, xva.ErrInvalidParameter), errors.Is(err, xva.ErrShapeMismatch):
		return http.StatusBadRequest
	case errors.Is(err, book.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
