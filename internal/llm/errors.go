package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrUnavailable indicates the endpoint could not be reached
	// (connection refused, DNS failure, reset).
	ErrUnavailable = errors.New("generation endpoint unavailable")

	// ErrTimeout indicates an attempt or the whole call ran out of time.
	ErrTimeout = errors.New("generation request timed out")

	// ErrUnauthorized indicates the credential was rejected.
	ErrUnauthorized = errors.New("generation request unauthorized")

	// ErrInvalidOutput indicates a success response that could not be
	// decoded or carried no candidates.
	ErrInvalidOutput = errors.New("invalid generation output")

	// ErrRetryExhausted indicates all attempts failed retryably.
	ErrRetryExhausted = errors.New("generation retry attempts exhausted")

	// ErrDisabled indicates the client has no credential configured.
	ErrDisabled = errors.New("generation disabled")
)

// StatusError is a non-200 reply from the endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the status is 429 or a 5xx.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 and 403 replies.
func (e *StatusError) Is(target error) bool {
	if target == ErrUnauthorized {
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	}
	return false
}

// CallError is returned by Complete on failure and records how many network
// attempts were made.
type CallError struct {
	Attempts int
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("generation failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// AttemptsOf returns the attempt count carried by err, or 0.
func AttemptsOf(err error) int {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Attempts
	}
	return 0
}

// IsRetryable classifies a single attempt failure. Connectivity errors,
// attempt timeouts, 429 and 5xx are retryable. Caller cancellation, auth
// failures, other 4xx and malformed responses are terminal.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func isRateLimited(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests
}

func errorCode(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	case errors.Is(err, ErrDisabled):
		return "DISABLED"
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.As(err, &se):
		switch {
		case se.StatusCode == http.StatusTooManyRequests:
			return "RATE_LIMITED"
		case se.StatusCode >= 500:
			return "SERVER_ERROR"
		default:
			return fmt.Sprintf("HTTP_%d", se.StatusCode)
		}
	default:
		return "UNKNOWN"
	}
}
