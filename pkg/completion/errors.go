package completion

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingCredential indicates no API key is configured. Callers treat it as a no-op.
	ErrMissingCredential = errors.New("missing API key")

	// ErrUnauthorized indicates the remote endpoint rejected the credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrEmptyResponse indicates the endpoint answered without any choice.
	ErrEmptyResponse = errors.New("empty completion response")
)

// APIError is a non-success answer from the completion endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("completion API error (status %d): %s", e.StatusCode, e.Body)
}

// Is maps authentication failures onto ErrUnauthorized.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// Transient reports whether retrying the same request may succeed.
func (e *APIError) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// IsTransient reports whether err is worth retrying. Network failures, including a single
// attempt timing out, are transient; credential, client-side and decoding failures are not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}

	var netErr *transportError
	return errors.As(err, &netErr)
}

// transportError wraps failures to reach the endpoint at all.
type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return "completion request failed: " + e.err.Error()
}

func (e *transportError) Unwrap() error {
	return e.err
}
