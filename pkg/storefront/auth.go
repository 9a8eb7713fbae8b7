package storefront

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

// authService implements the AuthService interface
type authService struct {
	client *Client
}

// Signup registers a new account
func (s *authService) Signup(ctx context.Context, params *SignupParams) (*AuthResponse, error) {
	if params == nil {
		return nil, errors.Wrap(ErrInvalidRequest, "signup params are required")
	}

	var result AuthResponse
	if err := s.client.do(ctx, &Request{
		Method: http.MethodPost,
		Path:   "/users/signup",
		Body:   params,
	}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to sign up")
	}

	return &result, nil
}

// Login exchanges credentials for a token
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
	}

	var result AuthResponse
	if err := s.client.do(ctx, &Request{
		Method: http.MethodPost,
		Path:   "/users/login",
		Body:   body,
	}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to log in")
	}

	return &result, nil
}

// Me retrieves the profile of the token holder
func (s *authService) Me(ctx context.Context) (*User, error) {
	var user User
	if err := s.client.do(ctx, &Request{Path: "/users/me"}, &user); err != nil {
		return nil, errors.Wrap(err, "failed to get profile")
	}

	return &user, nil
}
