package api

import (
	"context"
	"net/http"

	"hotelbook/models"
)

// Login exchanges credentials for a token and role.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.Response, error) {
	return c.doEnvelope(ctx, request{method: http.MethodPost, path: "/auth/login", body: req})
}

// Register creates a customer account.
func (c *Client) Register(ctx context.Context, req models.RegistrationRequest) (*models.Response, error) {
	return c.doEnvelope(ctx, request{method: http.MethodPost, path: "/auth/register", body: req})
}
