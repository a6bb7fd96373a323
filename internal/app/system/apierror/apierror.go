// Package apierror renders failures as the content API's JSON error envelope.
//
// There are three kinds of failure a caller can see: validation problems
// (400 with per-field details), persistence problems (500 wrapping the
// underlying message) and access problems (401/403/404/409/429). Callers
// never get structured codes beyond the HTTP status and the error name.
package apierror

import (
	"errors"
	"net/http"

	"github.com/dalemusser/cercadeti/internal/app/system/jsonio"
	"go.uber.org/zap"
)

// Error names, as exposed in the "name" field.
const (
	NameValidation   = "ValidationError"
	NameServer       = "ApplicationError"
	NameNotFound     = "NotFoundError"
	NameForbidden    = "ForbiddenError"
	NameUnauthorized = "UnauthorizedError"
	NameConflict     = "ConflictError"
	NameRateLimit    = "RateLimitError"
	NameTooLarge     = "PayloadTooLargeError"
)

// Detail describes one field problem.
type Detail struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
	Name    string   `json:"name"`
}

// Error is an HTTP-facing failure.
type Error struct {
	Status  int
	Name    string
	Message string
	Details []Detail
	cause   error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the underlying failure, if any.
func (e *Error) Unwrap() error { return e.cause }

// Validation returns a 400 error listing the given field problems.
func Validation(message string, details ...Detail) *Error {
	if message == "" {
		message = "Validation failed"
	}
	return &Error{Status: http.StatusBadRequest, Name: NameValidation, Message: message, Details: details}
}

// Required builds the detail for a missing field.
func Required(field string) Detail {
	return Detail{Path: []string{field}, Message: field + " must be defined.", Name: NameValidation}
}

// Server wraps a persistence failure as a 500.
func Server(err error) *Error {
	msg := "Internal Server Error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Status: http.StatusInternalServerError, Name: NameServer, Message: msg, cause: err}
}

// NotFound returns a 404.
func NotFound(message string) *Error {
	if message == "" {
		message = "Not Found"
	}
	return &Error{Status: http.StatusNotFound, Name: NameNotFound, Message: message}
}

// Forbidden returns a 403.
func Forbidden() *Error {
	return &Error{Status: http.StatusForbidden, Name: NameForbidden, Message: "Forbidden"}
}

// Unauthorized returns a 401.
func Unauthorized(message string) *Error {
	if message == "" {
		message = "Missing or invalid credentials"
	}
	return &Error{Status: http.StatusUnauthorized, Name: NameUnauthorized, Message: message}
}

// Conflict returns a 409.
func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Name: NameConflict, Message: message}
}

// TooManyRequests returns a 429.
func TooManyRequests(message string) *Error {
	if message == "" {
		message = "Too many requests, please try again later."
	}
	return &Error{Status: http.StatusTooManyRequests, Name: NameRateLimit, Message: message}
}

// TooLarge returns a 413.
func TooLarge(message string) *Error {
	if message == "" {
		message = "Request entity too large"
	}
	return &Error{Status: http.StatusRequestEntityTooLarge, Name: NameTooLarge, Message: message}
}

// BadBody maps a request decoding failure: an oversized body is a 413, any
// other decoding problem a 400.
func BadBody(err error) *Error {
	if errors.Is(err, jsonio.ErrTooLarge) {
		return TooLarge(err.Error())
	}
	return Validation(err.Error())
}

type body struct {
	Data  any       `json:"data"`
	Error errorBody `json:"error"`
}

type errorBody struct {
	Status  int          `json:"status"`
	Name    string       `json:"name"`
	Message string       `json:"message"`
	Details *detailsBody `json:"details"`
}

type detailsBody struct {
	Errors []Detail `json:"errors,omitempty"`
}

// Write renders err. Errors that are not *Error are treated as server errors.
// Server errors are logged; client errors are not.
func Write(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var ae *Error
	if !errors.As(err, &ae) {
		ae = Server(err)
	}
	if ae.Status >= http.StatusInternalServerError && log != nil {
		log.Error("request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))
	}
	jsonio.WriteJSON(w, ae.Status, body{
		Data: nil,
		Error: errorBody{
			Status:  ae.Status,
			Name:    ae.Name,
			Message: ae.Message,
			Details: &detailsBody{Errors: ae.Details},
		},
	})
}
