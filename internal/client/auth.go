package client

import (
	"context"
	"net/http"

	"github.com/jonathan/resume-builder/internal/types"
)

// Register creates an account. The returned token authenticates later calls.
func (c *Client) Register(ctx context.Context, req types.CreateUserRequest) (*types.LoginResponse, error) {
	var resp types.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*types.LoginResponse, error) {
	var resp types.LoginResponse
	req := types.LoginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me returns the account the token belongs to.
func (c *Client) Me(ctx context.Context) (*types.User, error) {
	var user types.User
	if err := c.doJSON(ctx, http.MethodGet, "/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword changes the caller's password.
func (c *Client) UpdatePassword(ctx context.Context, current, next string) error {
	req := types.UpdatePasswordRequest{CurrentPassword: current, NewPassword: next}
	return c.doJSON(ctx, http.MethodPut, "/auth/password", nil, req, nil)
}
