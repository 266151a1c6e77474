package gateway

import (
	"errors"
	"net/http"
)

var (
	ErrUnavailable        = errors.New("service unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrNoSession          = errors.New("not signed in")
)

// APIError is an error reported by the remote service. Message is the
// service's own text and is what the user sees.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap maps the status onto the package sentinels so callers can use
// errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch {
	case e.Code == "invalid_grant" || e.Code == "invalid_credentials":
		return ErrInvalidCredentials
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return ErrUnauthorized
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusConflict || e.Code == "23505" || e.Code == "user_already_exists":
		return ErrConflict
	case e.Status >= http.StatusInternalServerError:
		return ErrUnavailable
	}
	return nil
}
