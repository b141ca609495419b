package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrMissingID is returned when an operation that addresses a single record
// is called with an empty uuid or email.
var ErrMissingID = errors.New("missing id")

// Error is a non-2xx response from the controller. Body holds the raw
// response text.
type Error struct {
	StatusCode int
	Body       string
}

// Error returns the body with surrounding whitespace trimmed, or the status
// line when the body is empty. Body itself is left as received.
func (e *Error) Error() string {
	if b := strings.TrimSpace(e.Body); b != "" {
		return b
	}
	return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Message returns the text of the controller's {"error": "..."} envelope,
// or Error() when the body is not one.
func (e *Error) Message() string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(e.Body), &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	return e.Error()
}

// IsUnauthorized reports whether err is a 401 or 403 from the controller.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 from the controller.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Message returns a short text for showing err to a user. Controller errors
// are reduced to their message; anything else is returned as is.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}
