package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/RustamTech/Medical-Request-System-Flow/internal/domain"
)

// ErrorResponse is the boundary error body.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

// MapDomainError resolves the HTTP status and error label for a domain error.
func MapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Resource not found"
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest, "Bad request"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "Conflict"
	case errors.Is(err, domain.ErrExternal):
		return http.StatusServiceUnavailable, "External service not available"
	default:
		return http.StatusInternalServerError, "Unexpected error"
	}
}

func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, label := MapDomainError(err)
	WriteJSON(w, status, ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     label,
		Message:   err.Error(),
		Path:      r.URL.Path,
	})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// PathID parses the uuid path segment named by key; a malformed id is a bad
// request, not a missing resource.
func PathID(r *http.Request, key string) (uuid.UUID, error) {
	raw := r.PathValue(key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid id %q", domain.ErrBadRequest, raw)
	}
	return id, nil
}

// StatusFilter reads the optional ?status= query parameter.
func StatusFilter(r *http.Request) (*domain.RequestStatus, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, nil
	}
	s, err := domain.ParseRequestStatus(raw)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
