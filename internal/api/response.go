package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"job-board/internal/storage"
)

// Response is the success envelope returned by every endpoint.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// APIError is an error with a client-facing status and message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

func apiError(status int, msg string) *APIError {
	return &APIError{StatusCode: status, Message: msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] failed to encode response: %v", err)
	}
}

func respond(w http.ResponseWriter, status int, data any, msg string) {
	if data == nil {
		data = struct{}{}
	}
	writeJSON(w, status, Response{StatusCode: status, Data: data, Message: msg, Success: status < 400})
}

// writeError maps err onto the error envelope. Anything that is not an
// APIError or a storage sentinel is logged and reported as a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.Is(err, storage.ErrNotFound):
		apiErr = apiError(http.StatusNotFound, "Resource not found")
	case errors.Is(err, storage.ErrDuplicate):
		apiErr = apiError(http.StatusConflict, "Resource already exists")
	default:
		log.Printf("[API] %s %s: %v", r.Method, r.URL.Path, err)
		apiErr = apiError(http.StatusInternalServerError, "Internal server error")
	}
	writeJSON(w, apiErr.StatusCode, ErrorResponse{
		StatusCode: apiErr.StatusCode,
		Message:    apiErr.Message,
		Success:    false,
		Errors:     []string{},
	})
}

// decodeJSON reads a JSON body into v, turning syntax errors into 400s.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		return apiError(http.StatusBadRequest, "Invalid JSON body")
	}
	return nil
}
