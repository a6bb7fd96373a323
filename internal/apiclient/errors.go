package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error is a non-2xx API response.
type Error struct {
	Status  int
	Name    string
	Message string
	Details []FieldError
}

// FieldError is one validation problem.
type FieldError struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

func (e *Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %d %s: %s", e.Status, e.Name, e.Message)
}

// IsStatus reports whether err is an *Error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var env struct {
		Error struct {
			Status  int    `json:"status"`
			Name    string `json:"name"`
			Message string `json:"message"`
			Details struct {
				Errors []FieldError `json:"errors"`
			} `json:"details"`
		} `json:"error"`
	}
	out := &Error{Status: resp.StatusCode}
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Name != "" {
		out.Name = env.Error.Name
		out.Message = env.Error.Message
		out.Details = env.Error.Details.Errors
		return out
	}
	out.Message = strings.TrimSpace(string(body))
	if out.Message == "" {
		out.Message = http.StatusText(resp.StatusCode)
	}
	return out
}
