package api

import (
	"context"
	"net/http"

	"hotelbook/models"
)

// Account returns the logged in user's profile.
func (c *Client) Account(ctx context.Context) (*models.User, error) {
	resp, err := c.doEnvelope(ctx, request{method: http.MethodGet, path: "/users/account", authenticated: true})
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

// MyBookings returns the logged in user's bookings.
func (c *Client) MyBookings(ctx context.Context) ([]models.Booking, error) {
	resp, err := c.doEnvelope(ctx, request{method: http.MethodGet, path: "/users/bookings", authenticated: true})
	if err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

// DeleteAccount removes the logged in user's account.
func (c *Client) DeleteAccount(ctx context.Context) error {
	_, err := c.doEnvelope(ctx, request{method: http.MethodDelete, path: "/users/delete", authenticated: true})
	return err
}
