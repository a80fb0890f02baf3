// Package apierr defines the single error type every request path raises and
// the responder that turns it into the JSON error envelope.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// Error carries an HTTP status and a client-safe message. Err, when set, is
// the underlying cause and is only ever logged.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "Internal server error", Err: err}
}

type envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Write logs the error and responds with the {status, message} envelope.
// Anything that is not an *Error is treated as internal and its detail is
// suppressed from the client.
func Write(w http.ResponseWriter, logger *slog.Logger, err error) {
	apiErr := &Error{}
	if !errors.As(err, &apiErr) {
		apiErr = Internal(err)
	}

	if logger != nil {
		if apiErr.Status >= http.StatusInternalServerError {
			logger.Error("request failed", "status", apiErr.Status, "error", err)
		} else {
			logger.Debug("request rejected", "status", apiErr.Status, "message", apiErr.Message)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	_ = json.NewEncoder(w).Encode(envelope{Status: apiErr.Status, Message: apiErr.Message})
}
