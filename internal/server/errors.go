package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Yates-Labs/storyteller/internal/narrative"
)

const (
	invalidInputPrefix    = "Invalid input"
	typeErrorPrefix       = "Type error"
	unexpectedErrorPrefix = "An unexpected error occurred"
)

// ErrorResponse is the body of every 4xx/5xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// bindError marks a request body that could not be bound.
type bindError struct {
	err error
}

func (e *bindError) Error() string { return e.err.Error() }
func (e *bindError) Unwrap() error { return e.err }

// errorStatus maps an error to its HTTP status and detail message.
// Only bad input is a 400; everything else is reported with its raw message.
func errorStatus(err error) (int, string) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return http.StatusBadRequest, typeErrorPrefix + ": " + err.Error()
	}

	var bindErr *bindError
	if errors.As(err, &bindErr) || errors.Is(err, narrative.ErrInvalidPrompt) {
		return http.StatusBadRequest, invalidInputPrefix + ": " + err.Error()
	}

	return http.StatusInternalServerError, unexpectedErrorPrefix + ": " + err.Error()
}
