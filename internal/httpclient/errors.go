package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrNetwork is returned for transport failures and unexpected statuses.
	ErrNetwork = errors.New("network error")
)

// StatusError carries the status code of a rejected response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d", e.StatusCode)
}

// RetryableError marks a failure worth another attempt (transport errors, 5xx).
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

func checkStatus(code int) error {
	switch {
	case code >= http.StatusOK && code < http.StatusMultipleChoices:
		return nil
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, &StatusError{StatusCode: code})
	case code >= http.StatusInternalServerError || code == http.StatusTooManyRequests:
		return &RetryableError{Err: fmt.Errorf("%w: %w", ErrNetwork, &StatusError{StatusCode: code})}
	default:
		return fmt.Errorf("%w: %w", ErrNetwork, &StatusError{StatusCode: code})
	}
}

// StatusCode extracts the HTTP status code from err, 0 when there is none.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
