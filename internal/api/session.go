package api

import (
	"context"
	"fmt"
	"net/http"

	"wgcAdmin/internal/models"
)

// Health reports the controller's health. It needs no session.
func (c *Client) Health(ctx context.Context) (models.Health, error) {
	var h models.Health
	if err := c.do(ctx, http.MethodGet, c.endpoint("health"), nil, &h); err != nil {
		return models.Health{}, fmt.Errorf("health: %w", err)
	}
	return h, nil
}

// PreLogin checks whether the stored session cookie is still valid. A 401
// means the user has to log in.
func (c *Client) PreLogin(ctx context.Context) (models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, c.endpoint("prelogin"), nil, &resp); err != nil {
		return models.LoginResponse{}, fmt.Errorf("prelogin: %w", err)
	}
	return resp, nil
}

// Login opens a session. The session cookie is kept by the client.
func (c *Client) Login(ctx context.Context, body models.LoginBody) (models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, c.endpoint("login"), body, &resp); err != nil {
		return models.LoginResponse{}, fmt.Errorf("login: %w", err)
	}
	if resp.Email == "" {
		resp.Email = body.Email
	}
	return resp, nil
}

// Logout ends the session on the controller and drops the local cookie,
// even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, c.endpoint("logout"), nil, nil)
	if rerr := c.jar.Reset(); rerr != nil && err == nil {
		err = rerr
	}
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
