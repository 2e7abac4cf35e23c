package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"hotelbook/models"
)

// RoomTypes returns the room type vocabulary. The service answers with a
// bare JSON array.
func (c *Client) RoomTypes(ctx context.Context) ([]string, error) {
	var types []string
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "/rooms/types"}, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// AllRooms lists the room catalog.
func (c *Client) AllRooms(ctx context.Context) ([]models.Room, error) {
	resp, err := c.doEnvelope(ctx, request{method: http.MethodGet, path: "/rooms/all"})
	if err != nil {
		return nil, err
	}
	return resp.Rooms, nil
}

// Room returns a single room.
func (c *Client) Room(ctx context.Context, id int64) (*models.Room, error) {
	resp, err := c.doEnvelope(ctx, request{method: http.MethodGet, path: "/rooms/" + strconv.FormatInt(id, 10)})
	if err != nil {
		return nil, err
	}
	return resp.Room, nil
}

// AvailableRooms queries availability. Dates must already be YYYY-MM-DD.
func (c *Client) AvailableRooms(ctx context.Context, checkIn, checkOut, roomType string) ([]models.Room, error) {
	q := url.Values{}
	q.Set("checkInDate", checkIn)
	q.Set("checkOutDate", checkOut)
	q.Set("roomType", roomType)
	resp, err := c.doEnvelope(ctx, request{method: http.MethodGet, path: "/rooms/available", query: q})
	if err != nil {
		return nil, err
	}
	return resp.Rooms, nil
}

// AddRoom creates a room (admin). The image travels as a multipart file.
func (c *Client) AddRoom(ctx context.Context, form models.RoomForm) (*models.Response, error) {
	body, contentType, err := encodeRoomForm(form, false)
	if err != nil {
		return nil, err
	}
	return c.doEnvelope(ctx, request{
		method:        http.MethodPost,
		path:          "/rooms/add",
		raw:           body,
		contentType:   contentType,
		authenticated: true,
	})
}

// UpdateRoom changes a room (admin). Only set fields are sent.
func (c *Client) UpdateRoom(ctx context.Context, form models.RoomForm) (*models.Response, error) {
	if form.ID <= 0 {
		return nil, fmt.Errorf("room id is required for an update")
	}
	body, contentType, err := encodeRoomForm(form, true)
	if err != nil {
		return nil, err
	}
	return c.doEnvelope(ctx, request{
		method:        http.MethodPut,
		path:          "/rooms/update",
		raw:           body,
		contentType:   contentType,
		authenticated: true,
	})
}

// DeleteRoom removes a room (admin).
func (c *Client) DeleteRoom(ctx context.Context, id int64) error {
	_, err := c.do(ctx, request{
		method:        http.MethodDelete,
		path:          "/rooms/delete/" + strconv.FormatInt(id, 10),
		authenticated: true,
	})
	return err
}

func encodeRoomForm(form models.RoomForm, update bool) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{}
	if update {
		fields["id"] = strconv.FormatInt(form.ID, 10)
	}
	if form.RoomNumber != 0 || !update {
		fields["roomNumber"] = strconv.Itoa(form.RoomNumber)
	}
	if form.Type != "" {
		fields["type"] = form.Type
	}
	if form.PricePerNight != 0 || !update {
		fields["pricePerNight"] = strconv.FormatFloat(form.PricePerNight, 'f', 2, 64)
	}
	if form.Capacity != 0 || !update {
		fields["capacity"] = strconv.Itoa(form.Capacity)
	}
	if form.Description != "" {
		fields["description"] = form.Description
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("failed to write room field %s: %w", k, err)
		}
	}

	if len(form.Image) > 0 {
		name := form.ImageName
		if name == "" {
			name = "room.jpg"
		}
		part, err := w.CreateFormFile("imageFile", name)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create image part: %w", err)
		}
		if _, err := part.Write(form.Image); err != nil {
			return nil, "", fmt.Errorf("failed to write image part: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close room form: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
