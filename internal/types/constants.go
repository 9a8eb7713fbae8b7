package types

import (
	"errors"
	"time"
)

const (
	// DefaultBaseURL is the default storefront API base URL
	DefaultBaseURL = "http://localhost:5000/api"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	// UserAgent is the user agent string
	UserAgent = "storefront-go/1.0.0"

	// DefaultTokenSlot is the storage slot holding the bearer token
	DefaultTokenSlot = "authToken"
)

// Common errors
var (
	// ErrNotAuthenticated is returned when authentication is required or rejected
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrForbidden is returned when the authenticated user lacks permission
	ErrForbidden = errors.New("forbidden")

	// ErrSessionExpired is returned when the stored token has expired
	ErrSessionExpired = errors.New("session expired")

	// ErrNotFound is returned when resource not found
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when the backend reports a conflicting resource
	ErrConflict = errors.New("conflict")

	// ErrRateLimited is returned when rate limited
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout is returned on timeout
	ErrTimeout = errors.New("request timeout")

	// ErrServerError is returned for server errors
	ErrServerError = errors.New("server error")

	// ErrMalformedResponse is returned when a success response does not match its contract
	ErrMalformedResponse = errors.New("malformed response")
)
