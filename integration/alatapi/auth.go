package alatapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sarpras/alatclient/core/session"
)

// LoginResponse is the backend's successful login payload. TTLSeconds may
// be zero when the backend relies on the token's own expiry.
type LoginResponse struct {
	Token      string       `json:"token"`
	User       session.User `json:"user"`
	TTLSeconds int64        `json:"ttl_seconds"`
}

// ProfileResponse carries the authoritative profile returned by the
// backend on revalidation. A positive TTLSeconds signals a token renewal.
type ProfileResponse struct {
	User       session.User `json:"user"`
	TTLSeconds int64        `json:"ttl_seconds"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token and profile. The caller decides
// whether to persist the result into the session store.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResponse, error) {
	if username == "" || password == "" {
		return LoginResponse{}, fmt.Errorf("%w: username and password are required", ErrInvalidConfig)
	}

	var resp LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{
		Username: username,
		Password: password,
	}, &resp, false)
	if err != nil {
		return LoginResponse{}, err
	}
	if resp.Token == "" || !resp.User.Complete() {
		return LoginResponse{}, fmt.Errorf("%w: login response missing token or profile", ErrServer)
	}
	return resp, nil
}

// Logout invalidates the current token server-side. Best effort by
// contract: callers clear local state regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil, true)
}

// Profile fetches the authenticated user's profile, confirming the token
// is still accepted. Returns session.ErrAuthRejected on an explicit 401;
// any transport failure is inconclusive and surfaces as ErrUnavailable.
func (c *Client) Profile(ctx context.Context) (ProfileResponse, error) {
	var resp ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &resp, true); err != nil {
		return ProfileResponse{}, err
	}
	if !resp.User.Complete() {
		return ProfileResponse{}, fmt.Errorf("%w: profile response incomplete", ErrServer)
	}
	return resp, nil
}
