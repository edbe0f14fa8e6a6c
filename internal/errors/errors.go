package errors

import (
	"encoding/json"
	"errors"
	"net/http"
)

var (
	// ErrMissingAPIKey is returned before any upstream call when no Gemini
	// API key is configured.
	ErrMissingAPIKey = errors.New("GEMINI_API_KEY not found in environment variables")
	// ErrExhausted is returned when every (api-version, model) candidate failed.
	ErrExhausted = errors.New("all Gemini candidates exhausted")
)

type jsonError struct {
	Error string `json:"error"`
}

// WriteError writes a JSON error body of the form {"error": message}.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(jsonError{Error: message})
}
