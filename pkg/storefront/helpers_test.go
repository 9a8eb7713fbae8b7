package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTransport is a mock implementation of the Transport interface
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Do(ctx context.Context, req *Request, result interface{}) error {
	args := m.Called(ctx, req, result)

	// If mock provides result data, unmarshal it
	if args.Get(0) != nil && result != nil {
		resultJSON := args.Get(0).(string)
		if err := json.Unmarshal([]byte(resultJSON), result); err != nil {
			return err
		}
	}

	return args.Error(1)
}

func (m *MockTransport) Upload(ctx context.Context, path, field, filename string, file io.Reader, result interface{}) error {
	args := m.Called(ctx, path, field, filename, file, result)

	if args.Get(0) != nil && result != nil {
		resultJSON := args.Get(0).(string)
		if err := json.Unmarshal([]byte(resultJSON), result); err != nil {
			return err
		}
	}

	return args.Error(1)
}

func newMockClient(mockTransport *MockTransport) *Client {
	client := &Client{
		transport: mockTransport,
		tokens:    NewMemoryTokenStore(""),
		options:   &ClientOptions{},
		baseURL:   "https://api.test.com",
	}
	client.initServices()
	return client
}

// recordedRequest is what the fake backend saw
type recordedRequest struct {
	Method      string
	Path        string
	RawQuery    string
	Auth        string
	ContentType string
	Body        []byte
}

// fakeBackend serves canned responses under /api and records every request
type fakeBackend struct {
	server *httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []recordedRequest
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	b := &fakeBackend{routes: map[string]http.HandlerFunc{}}
	b.server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	path := strings.TrimPrefix(r.URL.Path, "/api")

	b.mu.Lock()
	b.requests = append(b.requests, recordedRequest{
		Method:      r.Method,
		Path:        path,
		RawQuery:    r.URL.RawQuery,
		Auth:        r.Header.Get("Authorization"),
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})
	handler, ok := b.routes[r.Method+" "+path]
	b.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Route not found"}`))
		return
	}
	handler(w, r)
}

// respond registers a canned JSON response for method and path
func (b *fakeBackend) respond(method, path string, status int, body string) {
	b.handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func (b *fakeBackend) handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	b.routes[method+" "+path] = h
	b.mu.Unlock()
}

func (b *fakeBackend) client(t *testing.T, tokens TokenStore) *Client {
	t.Helper()

	if tokens == nil {
		tokens = NewMemoryTokenStore("")
	}
	client, err := NewClient(&ClientOptions{
		BaseURL:    b.server.URL + "/api",
		TokenStore: tokens,
	})
	require.NoError(t, err)
	return client
}

func (b *fakeBackend) recorded() []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]recordedRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

func (b *fakeBackend) last(t *testing.T) recordedRequest {
	t.Helper()
	reqs := b.recorded()
	require.NotEmpty(t, reqs, "expected at least one request")
	return reqs[len(reqs)-1]
}

const (
	ownerJSON = `{"_id":"u1","name":"Sara","email":"sara@example.com","role":"store-owner"}`
	buyerJSON = `{"_id":"u2","name":"Omar","email":"omar@example.com","role":"user"}`
)

func authJSON(token, userJSON string) string {
	return `{"token":"` + token + `","user":` + userJSON + `}`
}

// failingTokenStore fails the operations it is told to
type failingTokenStore struct {
	TokenStore
	failSave  bool
	failClear bool
}

func (f *failingTokenStore) Save(ctx context.Context, token string) error {
	if f.failSave {
		return errTokenStore
	}
	return f.TokenStore.Save(ctx, token)
}

func (f *failingTokenStore) Clear(ctx context.Context) error {
	if f.failClear {
		return errTokenStore
	}
	return f.TokenStore.Clear(ctx)
}

var errTokenStore = NewError("STORAGE", "token storage unavailable")
