package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/souqly/storefront-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticToken(token string) types.TokenSource {
	return func(context.Context) (string, error) { return token, nil }
}

func TestHandleHTTPError_UsesBackendMessage(t *testing.T) {
	transport := &RESTTransport{}

	tests := []struct {
		name         string
		statusCode   int
		responseBody []byte
		expectedMsg  string
		expectedCode string
		sentinel     error
	}{
		{
			name:         "401 with message",
			statusCode:   401,
			responseBody: []byte(`{"message": "Invalid email or password"}`),
			expectedMsg:  "Invalid email or password",
			expectedCode: "UNAUTHORIZED",
			sentinel:     types.ErrNotAuthenticated,
		},
		{
			name:         "403 with error field",
			statusCode:   403,
			responseBody: []byte(`{"error": "Not a store owner"}`),
			expectedMsg:  "Not a store owner",
			expectedCode: "FORBIDDEN",
			sentinel:     types.ErrForbidden,
		},
		{
			name:         "404 with empty body",
			statusCode:   404,
			responseBody: nil,
			expectedMsg:  "HTTP error! status: 404",
			expectedCode: "NOT_FOUND",
			sentinel:     types.ErrNotFound,
		},
		{
			name:         "409 conflict",
			statusCode:   409,
			responseBody: []byte(`{"message": "Store already exists"}`),
			expectedMsg:  "Store already exists",
			expectedCode: "CONFLICT",
			sentinel:     types.ErrConflict,
		},
		{
			name:         "502 with HTML body",
			statusCode:   502,
			responseBody: []byte(`<html><body>Bad Gateway</body></html>`),
			expectedMsg:  "HTTP error! status: 502",
			expectedCode: "SERVER_ERROR",
			sentinel:     types.ErrServerError,
		},
		{
			name:         "500 with JSON message",
			statusCode:   500,
			responseBody: []byte(`{"message": "Database connection failed"}`),
			expectedMsg:  "Database connection failed",
			expectedCode: "SERVER_ERROR",
			sentinel:     types.ErrServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := transport.handleHTTPError(tt.statusCode, tt.responseBody)

			assert.Equal(t, tt.expectedMsg, err.Error())
			assert.Equal(t, tt.expectedCode, err.Code)
			assert.Equal(t, tt.statusCode, err.StatusCode)
			assert.True(t, errors.Is(err, tt.sentinel))
		})
	}
}

func TestHandleHTTPError_UnmappedStatusHasNoSentinel(t *testing.T) {
	transport := &RESTTransport{}

	err := transport.handleHTTPError(422, []byte(`not json`))

	assert.Equal(t, "HTTP_ERROR", err.Code)
	assert.Equal(t, "HTTP error! status: 422", err.Message)
	assert.Nil(t, err.Err)
}

func TestDo_AttachesBearerOnlyWhenTokenPresent(t *testing.T) {
	var gotAuth []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	anon := NewRESTTransport(&Options{BaseURL: server.URL, Tokens: staticToken("")})
	authed := NewRESTTransport(&Options{BaseURL: server.URL, Tokens: staticToken("tok-123")})

	var out []map[string]interface{}
	require.NoError(t, anon.Do(context.Background(), &Request{Path: "/products"}, &out))
	require.NoError(t, authed.Do(context.Background(), &Request{Path: "/products"}, &out))

	require.Len(t, gotAuth, 2)
	assert.Equal(t, "", gotAuth[0])
	assert.Equal(t, "Bearer tok-123", gotAuth[1])
}

func TestDo_SendsMethodPathAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/stores/my-store/orders/o1/status", r.URL.Path)
		assert.Equal(t, "yes", r.Header.Get("X-Extra"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"status":"Shipped"}`, string(body))

		_, _ = w.Write([]byte(`{"_id":"o1","status":"Shipped"}`))
	}))
	defer server.Close()

	transport := NewRESTTransport(&Options{BaseURL: server.URL + "/api/"})

	var result struct {
		ID     string `json:"_id"`
		Status string `json:"status"`
	}
	err := transport.Do(context.Background(), &Request{
		Method:  http.MethodPatch,
		Path:    "/stores/my-store/orders/o1/status",
		Body:    map[string]string{"status": "Shipped"},
		Headers: map[string]string{"X-Extra": "yes"},
	}, &result)

	require.NoError(t, err)
	assert.Equal(t, "o1", result.ID)
	assert.Equal(t, "Shipped", result.Status)
}

func TestDo_DefaultsToGETWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, int64(0), r.ContentLength)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	transport := NewRESTTransport(&Options{BaseURL: server.URL})

	var result map[string]interface{}
	require.NoError(t, transport.Do(context.Background(), &Request{Path: "/users/me"}, &result))
	assert.Nil(t, result)
}

func TestDo_ErrorResponseCarriesRequestID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not authorized, no token"}`))
	}))
	defer server.Close()

	transport := NewRESTTransport(&Options{BaseURL: server.URL})

	err := transport.Do(context.Background(), &Request{Method: http.MethodPost, Path: "/products/p1/comments", Body: map[string]string{"text": "great"}}, nil)

	var apiErr *types.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Not authorized, no token", apiErr.Message)
	assert.NotEmpty(t, apiErr.RequestID)
	assert.True(t, errors.Is(err, types.ErrNotAuthenticated))
}

func TestDo_MalformedSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	transport := NewRESTTransport(&Options{BaseURL: server.URL})

	var result map[string]interface{}
	err := transport.Do(context.Background(), &Request{Path: "/stores"}, &result)

	assert.True(t, errors.Is(err, types.ErrMalformedResponse))
}

func TestDo_NetworkErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	var hookErr error
	transport := NewRESTTransport(&Options{
		BaseURL: url,
		Hooks: &types.Hooks{
			OnError: func(ctx context.Context, err error) { hookErr = err },
		},
	})

	err := transport.Do(context.Background(), &Request{Path: "/stores"}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GET /stores failed")
	assert.Error(t, hookErr)

	var apiErr *types.Error
	assert.False(t, errors.As(err, &apiErr), "transport failures are not API errors")
}

func TestDo_TokenSourceFailureStopsRequest(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	transport := NewRESTTransport(&Options{
		BaseURL: server.URL,
		Tokens: func(context.Context) (string, error) {
			return "", errors.New("disk unavailable")
		},
	})

	err := transport.Do(context.Background(), &Request{Path: "/stores"}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk unavailable")
	assert.False(t, called)
}

func TestUpload_SendsMultipartWithBearer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/upload", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary="))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "photo.png", header.Filename)
		assert.Equal(t, "PNGDATA", string(data))

		_ = json.NewEncoder(w).Encode(map[string]string{"url": "/uploads/photo.png"})
	}))
	defer server.Close()

	transport := NewRESTTransport(&Options{BaseURL: server.URL, Tokens: staticToken("tok-1")})

	var result struct {
		URL string `json:"url"`
	}
	err := transport.Upload(context.Background(), "/upload", "image", "photo.png", strings.NewReader("PNGDATA"), &result)

	require.NoError(t, err)
	assert.Equal(t, "/uploads/photo.png", result.URL)
}

func TestUpload_FailureUsesStatusFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
	}))
	defer server.Close()

	transport := NewRESTTransport(&Options{BaseURL: server.URL})

	err := transport.Upload(context.Background(), "/upload", "image", "big.jpg", strings.NewReader("x"), nil)

	var apiErr *types.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusRequestEntityTooLarge, apiErr.StatusCode)
	assert.Equal(t, "HTTP error! status: 413", apiErr.Message)
}

func TestDo_HooksObserveRequestAndResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	var sawRequest, sawResponse bool
	transport := NewRESTTransport(&Options{
		BaseURL: server.URL,
		Hooks: &types.Hooks{
			OnRequest:  func(ctx context.Context, req *http.Request) { sawRequest = req.URL.Path == "/stats" },
			OnResponse: func(ctx context.Context, resp *http.Response, _ time.Duration) { sawResponse = resp.StatusCode == 200 },
		},
	})

	require.NoError(t, transport.Do(context.Background(), &Request{Path: "/stats"}, nil))
	assert.True(t, sawRequest)
	assert.True(t, sawResponse)
}

func TestDo_RetryConfigRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	transport := NewRESTTransport(&Options{
		BaseURL:     server.URL,
		RetryConfig: &types.RetryConfig{MaxRetries: 2, RetryWait: time.Millisecond, MaxWait: 5 * time.Millisecond},
	})

	var result struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, transport.Do(context.Background(), &Request{Path: "/stores"}, &result))
	assert.True(t, result.OK)
	assert.Equal(t, 2, attempts)
}

func TestDo_NoRetryByDefault(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	transport := NewRESTTransport(&Options{BaseURL: server.URL})

	err := transport.Do(context.Background(), &Request{Path: "/stores"}, nil)

	assert.True(t, errors.Is(err, types.ErrServerError))
	assert.Equal(t, 1, attempts)
}
