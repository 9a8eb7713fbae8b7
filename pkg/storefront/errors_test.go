package storefront

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		auth      bool
		retryable bool
	}{
		{
			name:   "unauthorized",
			err:    &Error{Code: "UNAUTHORIZED", StatusCode: 401, Err: ErrNotAuthenticated},
			status: 401,
			auth:   true,
		},
		{
			name:   "forbidden wrapped twice",
			err:    errors.Wrap(fmt.Errorf("outer: %w", &Error{Code: "FORBIDDEN", StatusCode: 403, Err: ErrForbidden}), "ctx"),
			status: 403,
			auth:   true,
		},
		{
			name:      "rate limited",
			err:       &Error{Code: "RATE_LIMITED", StatusCode: 429, Err: ErrRateLimited},
			status:    429,
			retryable: true,
		},
		{
			name:      "unmapped 5xx",
			err:       &Error{Code: "HTTP_ERROR", StatusCode: 599},
			status:    599,
			retryable: true,
		},
		{
			name:   "bad request",
			err:    &Error{Code: "BAD_REQUEST", StatusCode: 400},
			status: 400,
		},
		{
			name: "plain error",
			err:  errors.New("dial tcp: refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, StatusCode(tt.err))
			assert.Equal(t, tt.auth, IsAuthError(tt.err))
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}
}

func TestError_MatchesByCode(t *testing.T) {
	err := errors.Wrap(NewError("CONFLICT", "Store name taken"), "failed to create store")

	assert.True(t, errors.Is(err, NewError("CONFLICT", "")))
	assert.False(t, errors.Is(err, NewError("NOT_FOUND", "")))
	assert.Equal(t, "failed to create store: Store name taken", err.Error())
}

func TestWrapError(t *testing.T) {
	cause := errors.New("boom")
	err := WrapError(cause, "STORAGE", "")

	assert.Equal(t, "boom", err.Error())
	assert.True(t, errors.Is(err, cause))
}
