package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrEmptyBody is returned when a message body is empty after trimming.
	// No request is issued.
	ErrEmptyBody = errors.New("message body is empty")

	// ErrMissingTarget is returned when the conversation key does not carry
	// a usable target for the requested scope.
	ErrMissingTarget = errors.New("conversation target missing or invalid")
)

// APIError is a non-2xx response from the server. Message holds the
// server-provided text when the body carried one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error (%d %s)", e.Status, http.StatusText(e.Status))
}
