package api

import (
	"context"
	"net/http"
	"net/url"

	"hotelbook/models"
)

// BookingByReference looks a booking up by its reference. No session needed.
func (c *Client) BookingByReference(ctx context.Context, reference string) (*models.Booking, error) {
	resp, err := c.doEnvelope(ctx, request{method: http.MethodGet, path: "/bookings/" + url.PathEscape(reference)})
	if err != nil {
		return nil, err
	}
	return resp.Booking, nil
}

// CreateBooking reserves a room and returns the service's answer, which
// carries the new booking reference.
func (c *Client) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Response, error) {
	return c.doEnvelope(ctx, request{method: http.MethodPost, path: "/bookings", body: req, authenticated: true})
}

// AllBookings lists every booking (admin).
func (c *Client) AllBookings(ctx context.Context) ([]models.Booking, error) {
	resp, err := c.doEnvelope(ctx, request{method: http.MethodGet, path: "/bookings/all", authenticated: true})
	if err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

// UpdateBooking changes a booking's status (admin).
func (c *Client) UpdateBooking(ctx context.Context, update models.BookingUpdate) (*models.Response, error) {
	return c.doEnvelope(ctx, request{method: http.MethodPut, path: "/bookings/update", body: update, authenticated: true})
}
