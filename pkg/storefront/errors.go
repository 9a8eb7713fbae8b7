package storefront

import (
	"errors"

	internalTypes "github.com/souqly/storefront-go/internal/types"
)

var (
	// ErrNotAuthenticated is returned for 401 responses
	ErrNotAuthenticated = internalTypes.ErrNotAuthenticated

	// ErrForbidden is returned for 403 responses
	ErrForbidden = internalTypes.ErrForbidden

	// ErrSessionExpired is returned when a stored token has expired
	ErrSessionExpired = internalTypes.ErrSessionExpired

	// ErrNotFound is returned for 404 responses
	ErrNotFound = internalTypes.ErrNotFound

	// ErrConflict is returned for 409 responses
	ErrConflict = internalTypes.ErrConflict

	// ErrRateLimited is returned for 429 responses
	ErrRateLimited = internalTypes.ErrRateLimited

	// ErrTimeout is returned for 408 and 504 responses
	ErrTimeout = internalTypes.ErrTimeout

	// ErrServerError is returned for 5xx responses
	ErrServerError = internalTypes.ErrServerError

	// ErrMalformedResponse is returned when a success body does not match its contract
	ErrMalformedResponse = internalTypes.ErrMalformedResponse

	// ErrInvalidRequest is returned when a call is rejected before it is sent
	ErrInvalidRequest = errors.New("invalid request")
)

// Error represents an API error. Message holds the backend's message verbatim.
type Error = internalTypes.Error

// NewError creates a new API error
func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an error with additional context
func WrapError(err error, code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// StatusCode returns the HTTP status carried by err, or 0 when err did not
// come from a backend response
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsAuthError checks if error is authentication related
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrSessionExpired)
}

// IsRetryable checks if error is retryable. The client never retries on its
// own; this is for callers that choose to.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrServerError) {
		return true
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == 429
	}

	return false
}
