package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/souqly/storefront-go/internal/types"
)

const (
	authHeaderKey  = "Authorization"
	requestIDKey   = "X-Request-ID"
	deviceIDKey    = "device-uuid"
	contentTypeKey = "Content-Type"
	contentType    = "application/json"
)

// Request describes one call against the backend
type Request struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// RESTTransport handles HTTP communication with the storefront backend
type RESTTransport struct {
	baseURL     string
	httpClient  *http.Client
	retryClient *retryablehttp.Client
	headers     map[string]string
	tokens      types.TokenSource
	logger      types.Logger
	hooks       *types.Hooks
}

// NewRESTTransport creates a new REST transport
func NewRESTTransport(opts *Options) *RESTTransport {
	if opts == nil {
		opts = &Options{}
	}

	// Set defaults
	if opts.BaseURL == "" {
		opts.BaseURL = types.DefaultBaseURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: types.DefaultTimeout,
		}
	}

	// Create retry client if configured
	var retryClient *retryablehttp.Client
	if opts.RetryConfig != nil {
		retryClient = retryablehttp.NewClient()
		retryClient.HTTPClient = opts.HTTPClient
		retryClient.RetryMax = opts.RetryConfig.MaxRetries
		retryClient.RetryWaitMin = opts.RetryConfig.RetryWait
		retryClient.RetryWaitMax = opts.RetryConfig.MaxWait
		// hand the final response back so the status mapping below still applies
		retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

		if opts.Logger != nil {
			retryClient.Logger = &retryLogger{logger: opts.Logger}
		} else {
			retryClient.Logger = nil
		}
	}

	headers := map[string]string{
		"Accept":     contentType,
		"User-Agent": types.UserAgent,
		deviceIDKey:  uuid.New().String(),
	}

	// Merge custom headers
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return &RESTTransport{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		httpClient:  opts.HTTPClient,
		retryClient: retryClient,
		headers:     headers,
		tokens:      opts.Tokens,
		logger:      opts.Logger,
		hooks:       opts.Hooks,
	}
}

// Do sends a JSON request and decodes a JSON response into result
func (t *RESTTransport) Do(ctx context.Context, req *Request, result interface{}) error {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request")
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, t.baseURL+req.Path, body)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	httpReq.Header.Set(contentTypeKey, contentType)

	if err := t.prepare(ctx, httpReq, req.Headers); err != nil {
		return err
	}

	return t.send(ctx, httpReq, result)
}

// Upload sends a single file as multipart form data under field and decodes the JSON result
func (t *RESTTransport) Upload(ctx context.Context, path, field, filename string, file io.Reader, result interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return errors.Wrap(err, "failed to create form file")
	}

	if _, err := io.Copy(part, file); err != nil {
		return errors.Wrap(err, "failed to write file data")
	}

	if err := writer.Close(); err != nil {
		return errors.Wrap(err, "failed to close multipart writer")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, &buf)
	if err != nil {
		return errors.Wrap(err, "failed to create upload request")
	}

	// The boundary comes from the multipart writer, never a JSON content type
	httpReq.Header.Set(contentTypeKey, writer.FormDataContentType())

	if err := t.prepare(ctx, httpReq, nil); err != nil {
		return err
	}

	return t.send(ctx, httpReq, result)
}

// prepare applies default headers, the bearer token and per-call headers
func (t *RESTTransport) prepare(ctx context.Context, httpReq *http.Request, extra map[string]string) error {
	for k, v := range t.headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set(requestIDKey, uuid.New().String())

	// Token is read once per request; a concurrent logout does not affect this call
	if t.tokens != nil {
		token, err := t.tokens(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to read auth token")
		}
		if token != "" {
			httpReq.Header.Set(authHeaderKey, "Bearer "+token)
		}
	}

	for k, v := range extra {
		httpReq.Header.Set(k, v)
	}

	return nil
}

func (t *RESTTransport) send(ctx context.Context, httpReq *http.Request, result interface{}) error {
	// Call request hook
	if t.hooks != nil && t.hooks.OnRequest != nil {
		t.hooks.OnRequest(ctx, httpReq)
	}

	requestID := httpReq.Header.Get(requestIDKey)

	if t.logger != nil {
		t.logger.Debug("API request", "method", httpReq.Method, "path", httpReq.URL.Path, "request_id", requestID)
	}

	start := time.Now()
	resp, err := t.doRequest(httpReq)
	duration := time.Since(start)

	if err != nil {
		if t.hooks != nil && t.hooks.OnError != nil {
			t.hooks.OnError(ctx, err)
		}
		return errors.Wrapf(err, "%s %s failed", httpReq.Method, httpReq.URL.Path)
	}
	defer resp.Body.Close()

	// Call response hook
	if t.hooks != nil && t.hooks.OnResponse != nil {
		t.hooks.OnResponse(ctx, resp, duration)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}

	if t.logger != nil {
		t.logger.Debug("API response", "status", resp.StatusCode, "duration", duration, "size", len(respBody), "request_id", requestID)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := t.handleHTTPError(resp.StatusCode, respBody)
		apiErr.RequestID = requestID
		return apiErr
	}

	if result == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return &types.Error{
			Code:       "MALFORMED_RESPONSE",
			Message:    fmt.Sprintf("malformed response: %v", err),
			StatusCode: resp.StatusCode,
			RequestID:  requestID,
			Err:        types.ErrMalformedResponse,
		}
	}

	return nil
}

// doRequest executes the HTTP request with retry if configured
func (t *RESTTransport) doRequest(req *http.Request) (*http.Response, error) {
	if t.retryClient != nil {
		retryReq, err := retryablehttp.FromRequest(req)
		if err != nil {
			return nil, err
		}
		return t.retryClient.Do(retryReq)
	}
	return t.httpClient.Do(req)
}

// handleHTTPError builds the error for a non-2xx response. The backend's
// message is kept verbatim; a missing or unparseable body falls back to
// a message carrying only the status code.
func (t *RESTTransport) handleHTTPError(statusCode int, body []byte) *types.Error {
	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}

	_ = json.Unmarshal(body, &errResp)

	msg := errResp.Message
	if msg == "" {
		msg = errResp.Error
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP error! status: %d", statusCode)
	}

	apiErr := &types.Error{
		Code:       "HTTP_ERROR",
		Message:    msg,
		StatusCode: statusCode,
	}

	switch statusCode {
	case http.StatusBadRequest:
		apiErr.Code = "BAD_REQUEST"
	case http.StatusUnauthorized:
		apiErr.Code = "UNAUTHORIZED"
		apiErr.Err = types.ErrNotAuthenticated
	case http.StatusForbidden:
		apiErr.Code = "FORBIDDEN"
		apiErr.Err = types.ErrForbidden
	case http.StatusNotFound:
		apiErr.Code = "NOT_FOUND"
		apiErr.Err = types.ErrNotFound
	case http.StatusConflict:
		apiErr.Code = "CONFLICT"
		apiErr.Err = types.ErrConflict
	case http.StatusTooManyRequests:
		apiErr.Code = "RATE_LIMITED"
		apiErr.Err = types.ErrRateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		apiErr.Code = "TIMEOUT"
		apiErr.Err = types.ErrTimeout
	default:
		if statusCode >= 500 {
			apiErr.Code = "SERVER_ERROR"
			apiErr.Err = types.ErrServerError
		}
	}

	return apiErr
}

// Options for REST transport
type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	Headers     map[string]string
	Tokens      types.TokenSource
	RetryConfig *types.RetryConfig
	Logger      types.Logger
	Hooks       *types.Hooks
}

// retryLogger adapts our logger to retryablehttp
type retryLogger struct {
	logger types.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keysAndValues...)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, keysAndValues...)
}
