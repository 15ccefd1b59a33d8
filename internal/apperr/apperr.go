// Package apperr classifies sandbox delivery errors for transport layers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrNotFound = errors.New("delivery not found")

// ValidationError reports malformed caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Kind() string { return "validation" }

// SimulatedError is a failure the caller asked for on purpose.
type SimulatedError struct {
	Reason string
}

func (e *SimulatedError) Error() string {
	return "simulated error: " + e.Reason
}

func (e *SimulatedError) Kind() string { return "simulated_error" }

func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

type kinder interface {
	Kind() string
}

func Kind(err error) string {
	if err == nil {
		return ""
	}

	var k kinder
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.As(err, &k):
		return k.Kind()
	default:
		return "internal"
	}
}

func HTTPStatus(err error) int {
	switch Kind(err) {
	case "":
		return http.StatusOK
	case "not_found":
		return http.StatusNotFound
	case "validation", "simulated_error":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text safe to show a caller. Internal errors are masked.
func Message(err error) string {
	var se *SimulatedError
	var ve *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return ErrNotFound.Error()
	case errors.As(err, &se):
		return se.Reason
	case errors.As(err, &ve):
		return ve.Error()
	default:
		return "internal server error"
	}
}
