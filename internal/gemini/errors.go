package gemini

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNoAPIKey is returned when a request is attempted without a key.
	ErrNoAPIKey = errors.New("gemini: no API key")
	// ErrEmptyResponse is returned when the API answered without any text.
	ErrEmptyResponse = errors.New("no content in response")
)

// APIError is a non-200 answer from the Gemini API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// InvalidKey reports whether the API rejected the key itself.
func (e *APIError) InvalidKey() bool {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	case http.StatusBadRequest:
		return strings.Contains(e.Body, "API_KEY_INVALID") || strings.Contains(e.Body, "API key not valid")
	}
	return false
}

// transportError wraps network-level failures, which are always retried
type transportError struct {
	err error
}

func (e *transportError) Error() string { return "sending request: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	var tErr *transportError
	if errors.As(err, &tErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return false
}
