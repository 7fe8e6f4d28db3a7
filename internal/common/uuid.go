package common

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ParseUUID parses a UUID string from a request body field, returning a
// BadRequest AppError when malformed.
func ParseUUID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, BadRequest("invalid "+field, err)
	}
	return id, nil
}

// UUIDParam parses a chi URL parameter as a UUID, returning a BadRequest
// AppError when malformed.
func UUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, BadRequest("invalid "+name, err)
	}
	return id, nil
}
