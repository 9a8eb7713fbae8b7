package storefront

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/souqly/storefront-go/internal/transport"
	internalTypes "github.com/souqly/storefront-go/internal/types"
)

const (
	// DefaultBaseURL is the default storefront API base URL
	DefaultBaseURL = internalTypes.DefaultBaseURL

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = internalTypes.DefaultTimeout

	// UserAgent is the user agent string
	UserAgent = internalTypes.UserAgent
)

// Client is the main storefront API client
type Client struct {
	// Service interfaces
	Auth     AuthService
	Stores   StoreService
	Products ProductService
	Orders   OrderService
	Upload   UploadService
	Admin    AdminService

	// Session tracks who is logged in; it shares the client's token store
	Session *SessionStore

	// Internal fields
	baseURL    string
	httpClient *http.Client
	transport  Transport
	tokens     TokenStore
	options    *ClientOptions
}

// ClientOptions configures the client
type ClientOptions struct {
	// BaseURL overrides the default API base URL
	BaseURL string

	// HTTPClient allows using a custom HTTP client
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout
	Timeout time.Duration

	// Token seeds the token store with an existing bearer token
	Token string

	// TokenStore is the durable slot holding the bearer token
	TokenStore TokenStore

	// TokenFile persists the token to a file when TokenStore is nil
	TokenFile string

	// Headers are added to every request
	Headers map[string]string

	// Logger for debug logging
	Logger Logger

	// Clock drives token expiry checks; defaults to the real clock
	Clock clockwork.Clock

	// RetryConfig opts in to retries; nil means one attempt per call
	RetryConfig *RetryConfig

	// RateLimiter for rate limiting
	RateLimiter RateLimiter

	// Hooks for observability
	Hooks *Hooks

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions
}

// Logger interface for logging
type Logger = internalTypes.Logger

// Hooks provides lifecycle hooks for requests
type Hooks = internalTypes.Hooks

// RetryConfig configures retry behavior
type RetryConfig = internalTypes.RetryConfig

// Request describes one call against the backend
type Request = transport.Request

// RateLimiter interface for rate limiting
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// Transport handles HTTP communication
type Transport interface {
	Do(ctx context.Context, req *Request, result interface{}) error
	Upload(ctx context.Context, path, field, filename string, file io.Reader, result interface{}) error
}

// NewClient creates a new storefront client
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	// Initialize Sentry if DSN is provided
	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		sentryOpts := sentry.ClientOptions{}

		if opts.SentryOptions != nil {
			sentryOpts = *opts.SentryOptions
		}

		if opts.SentryDSN != "" {
			sentryOpts.Dsn = opts.SentryDSN
		}

		if sentryOpts.Environment == "" {
			sentryOpts.Environment = "production"
		}

		// Log error but don't fail client creation
		if err := sentry.Init(sentryOpts); err != nil && opts.Logger != nil {
			opts.Logger.Error("Failed to initialize Sentry", "error", err)
		}
	}

	// Set defaults
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}

	if opts.Timeout > 0 {
		opts.HTTPClient.Timeout = opts.Timeout
	}

	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	tokens := opts.TokenStore
	if tokens == nil {
		if opts.TokenFile != "" {
			tokens = NewFileTokenStore(opts.TokenFile, "", opts.Clock, opts.Logger)
		} else {
			tokens = NewMemoryTokenStore("")
		}
	}

	if opts.Token != "" {
		if err := tokens.Save(context.Background(), opts.Token); err != nil {
			return nil, errors.Wrap(err, "failed to store token")
		}
	}

	trans := transport.NewRESTTransport(&transport.Options{
		BaseURL:     opts.BaseURL,
		HTTPClient:  opts.HTTPClient,
		Headers:     opts.Headers,
		Tokens:      tokens.Load,
		RetryConfig: opts.RetryConfig,
		Logger:      opts.Logger,
		Hooks:       opts.Hooks,
	})

	c := &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		transport:  trans,
		tokens:     tokens,
		options:    opts,
	}

	c.initServices()

	return c, nil
}

// NewClientWithToken creates a client with an auth token
func NewClientWithToken(token string) (*Client, error) {
	return NewClient(&ClientOptions{
		Token: token,
	})
}

// initServices initializes all service implementations
func (c *Client) initServices() {
	c.Auth = &authService{client: c}
	c.Stores = &storeService{client: c}
	c.Products = &productService{client: c}
	c.Orders = &orderService{client: c}
	c.Upload = &uploadService{client: c}
	c.Admin = &adminService{client: c}

	var clock clockwork.Clock
	var logger Logger
	if c.options != nil {
		clock = c.options.Clock
		logger = c.options.Logger
	}
	c.Session = NewSessionStore(c.Auth, c.tokens, &SessionOptions{
		Clock:  clock,
		Logger: logger,
	})
}

// Tokens returns the token store shared by the transport and the session
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

// SetToken stores a bearer token for subsequent requests
func (c *Client) SetToken(ctx context.Context, token string) error {
	return c.tokens.Save(ctx, token)
}

// do executes a JSON call and validates the decoded result
func (c *Client) do(ctx context.Context, req *Request, result interface{}) error {
	return c.execute(ctx, req.Method, req.Path, result, func() error {
		return c.transport.Do(ctx, req, result)
	})
}

// upload executes a multipart call and validates the decoded result
func (c *Client) upload(ctx context.Context, path, field, filename string, file io.Reader, result interface{}) error {
	return c.execute(ctx, http.MethodPost, path, result, func() error {
		return c.transport.Upload(ctx, path, field, filename, file, result)
	})
}

func (c *Client) execute(ctx context.Context, method, path string, result interface{}, call func() error) error {
	if method == "" {
		method = http.MethodGet
	}

	// Rate limiting
	if c.options != nil && c.options.RateLimiter != nil {
		if err := c.options.RateLimiter.Wait(ctx); err != nil {
			c.capture(ctx, err, method, path, 0)
			return errors.Wrap(err, "rate limiter")
		}
	}

	start := time.Now()
	err := call()
	duration := time.Since(start)

	if err == nil {
		err = internalTypes.ValidateResponse(result)
	}

	if err != nil {
		c.capture(ctx, err, method, path, duration)
	}

	return err
}

// capture reports a failed call to Sentry
func (c *Client) capture(ctx context.Context, err error, method, path string, duration time.Duration) {
	report := func(scope *sentry.Scope, captureErr func(error)) {
		scope.SetTag("http.method", method)
		scope.SetTag("http.path", path)
		if code := StatusCode(err); code != 0 {
			scope.SetTag("http.status_code", fmt.Sprintf("%d", code))
		}
		scope.SetContext("storefront", map[string]interface{}{
			"duration": duration.String(),
		})
		captureErr(err)
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			report(scope, func(e error) { hub.CaptureException(e) })
		})
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		report(scope, func(e error) { sentry.CaptureException(e) })
	})
}

// Close flushes any pending Sentry events and performs cleanup
func (c *Client) Close() {
	sentry.Flush(2 * time.Second)
}
