package storefront

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/souqly/storefront-go/internal/auth"
	"golang.org/x/sync/singleflight"
)

// SessionState is where the session is in its lifecycle
type SessionState int

const (
	// StateUnknown is the state before Initialize resolves
	StateUnknown SessionState = iota
	// StateAnonymous means no user is logged in
	StateAnonymous
	// StateAuthenticated means a user profile is loaded
	StateAuthenticated
)

// String returns the state name
func (s SessionState) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// SessionOptions configures a SessionStore
type SessionOptions struct {
	Clock  clockwork.Clock
	Logger Logger
}

// SessionStore is the single source of truth for who is logged in. The
// bearer token lives in the TokenStore; the store owns the user profile.
type SessionStore struct {
	auth   AuthService
	tokens TokenStore
	clock  clockwork.Clock
	logger Logger

	mu    sync.RWMutex
	user  *User
	state SessionState

	initGroup singleflight.Group
}

// NewSessionStore creates a session store over an auth service and token store
func NewSessionStore(authService AuthService, tokens TokenStore, opts *SessionOptions) *SessionStore {
	if opts == nil {
		opts = &SessionOptions{}
	}

	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &SessionStore{
		auth:   authService,
		tokens: tokens,
		clock:  clock,
		logger: opts.Logger,
		state:  StateUnknown,
	}
}

// Initialize restores the session from a stored token. Any failure to
// fetch the profile clears the token and leaves the session anonymous; an
// error is returned only when the token store itself fails. Concurrent
// calls share one profile fetch.
func (s *SessionStore) Initialize(ctx context.Context) error {
	_, err, _ := s.initGroup.Do("initialize", func() (interface{}, error) {
		return nil, s.initialize(ctx)
	})
	return err
}

func (s *SessionStore) initialize(ctx context.Context) error {
	token, err := s.tokens.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load session token")
	}

	if token == "" {
		s.setAnonymous()
		return nil
	}

	if auth.Expired(token, s.clock.Now()) {
		s.debug("Stored token expired, clearing session")
		return s.dropToken(ctx, token)
	}

	user, err := s.auth.Me(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Info("No logged-in user", "error", err)
		}
		return s.dropToken(ctx, token)
	}

	replaced, err := s.replaced(ctx, token)
	if err != nil || replaced {
		return err
	}

	s.mu.Lock()
	s.user = user
	s.state = StateAuthenticated
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("Session restored", "user_id", user.ID, "role", user.Role)
	}
	return nil
}

// dropToken clears token and marks the session anonymous, unless a login
// stored a different token while the profile was being fetched
func (s *SessionStore) dropToken(ctx context.Context, token string) error {
	replaced, err := s.replaced(ctx, token)
	if err != nil || replaced {
		return err
	}

	s.setAnonymous()
	if err := s.tokens.Clear(ctx); err != nil {
		return errors.Wrap(err, "failed to clear session token")
	}
	return nil
}

// replaced reports whether the stored token is no longer token. A session
// still in StateUnknown is settled as anonymous.
func (s *SessionStore) replaced(ctx context.Context, token string) (bool, error) {
	current, err := s.tokens.Load(ctx)
	if err != nil {
		return false, errors.Wrap(err, "failed to load session token")
	}
	if current == token {
		return false, nil
	}

	s.debug("Session token changed while restoring, keeping the new one")
	s.mu.Lock()
	if s.state == StateUnknown {
		s.state = StateAnonymous
	}
	s.mu.Unlock()
	return true, nil
}

// Login authenticates with email and password. On failure the session is
// left exactly as it was.
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	resp, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.establish(ctx, resp)
}

// Signup registers an account and logs it in. On failure the session is
// left exactly as it was.
func (s *SessionStore) Signup(ctx context.Context, params *SignupParams) error {
	resp, err := s.auth.Signup(ctx, params)
	if err != nil {
		return err
	}
	return s.establish(ctx, resp)
}

func (s *SessionStore) establish(ctx context.Context, resp *AuthResponse) error {
	if err := s.tokens.Save(ctx, resp.Token); err != nil {
		return errors.Wrap(err, "failed to save session token")
	}

	s.mu.Lock()
	s.user = resp.User
	s.state = StateAuthenticated
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("Logged in", "user_id", resp.User.ID, "role", resp.User.Role)
	}
	return nil
}

// Logout clears the token and the user. It never fails; a token store
// error is logged.
func (s *SessionStore) Logout() {
	s.setAnonymous()

	if err := s.tokens.Clear(context.Background()); err != nil && s.logger != nil {
		s.logger.Warn("Failed to clear session token", "error", err)
	}

	s.debug("Logged out")
}

// Refresh re-fetches the profile of an authenticated session so role
// changes made by the backend become visible. A stored JWT that has expired
// ends the session with ErrSessionExpired; other failures leave the session
// untouched.
func (s *SessionStore) Refresh(ctx context.Context) (*User, error) {
	if !s.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	token, err := s.tokens.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load session token")
	}
	if auth.Expired(token, s.clock.Now()) {
		if err := s.dropToken(ctx, token); err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}

	user, err := s.auth.Me(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// a logout that raced the fetch wins
	if s.state != StateAuthenticated {
		return nil, ErrNotAuthenticated
	}
	s.user = user

	copied := *user
	return &copied, nil
}

func (s *SessionStore) setAnonymous() {
	s.mu.Lock()
	s.user = nil
	s.state = StateAnonymous
	s.mu.Unlock()
}

// User returns a copy of the current user, or nil when anonymous
func (s *SessionStore) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

// State returns the lifecycle state
func (s *SessionStore) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Loading is true until Initialize, Login or Signup has resolved the session
func (s *SessionStore) Loading() bool {
	return s.State() == StateUnknown
}

// IsAuthenticated reports whether a user is logged in
func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// IsStoreOwner reports whether the logged-in user owns a store
func (s *SessionStore) IsStoreOwner() bool {
	return s.hasRole(RoleStoreOwner)
}

// IsAdmin reports whether the logged-in user is an administrator
func (s *SessionStore) IsAdmin() bool {
	return s.hasRole(RoleAdmin)
}

func (s *SessionStore) hasRole(role Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role == role
}

func (s *SessionStore) debug(msg string) {
	if s.logger != nil {
		s.logger.Debug(msg)
	}
}
