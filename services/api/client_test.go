package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"hotelbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticToken string

func (s staticToken) Token() (string, bool) {
	return string(s), s != ""
}

func newTestClient(t *testing.T, h http.HandlerFunc, tokens TokenSource, breaker bool) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Options{BaseURL: srv.URL + "/api", CircuitBreaker: breaker, Logger: zap.NewNop()}, tokens)
	require.NoError(t, err)
	return c
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "::not a url", Logger: zap.NewNop()}, nil)
	assert.Error(t, err)
}

func TestClient_BearerHeader(t *testing.T) {
	var got string
	h := func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_ = json.NewEncoder(w).Encode(models.Response{Status: 200, Bookings: []models.Booking{{BookingReference: "BK-1"}}})
	}

	c := newTestClient(t, h, staticToken("tok-123"), false)
	bookings, err := c.AllBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", got)
	require.Len(t, bookings, 1)

	anon := newTestClient(t, h, staticToken(""), false)
	_, err = anon.AllBookings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClient_PublicCallsOmitBearer(t *testing.T) {
	var got string
	h := func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		assert.Equal(t, "/api/rooms/types", r.URL.Path)
		_, _ = w.Write([]byte(`["SINGLE","DOUBLE","SUITE"]`))
	}
	c := newTestClient(t, h, staticToken("tok-123"), false)

	types, err := c.RoomTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"SINGLE", "DOUBLE", "SUITE"}, types)
	assert.Empty(t, got)
}

func TestClient_StructuredErrorMessage(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":400,"message":"check in date cannot be before today"}`))
	}
	c := newTestClient(t, h, nil, false)

	_, err := c.AvailableRooms(context.Background(), "2020-01-01", "2020-01-02", "SUITE")
	require.Error(t, err)
	assert.Equal(t, "check in date cannot be before today", ErrorMessage(err))
	assert.True(t, IsStatus(err, http.StatusBadRequest))
}

func TestClient_GenericErrorMessage(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}
	c := newTestClient(t, h, nil, false)

	_, err := c.AllRooms(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Request failed with status code 500", ErrorMessage(err))
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	c, err := NewClient(Options{BaseURL: base, Logger: zap.NewNop()}, nil)
	require.NoError(t, err)

	_, err = c.AllRooms(context.Background())
	require.Error(t, err)
	assert.Equal(t, GenericTransportMessage, ErrorMessage(err))
}

func TestClient_AvailableRoomsQuery(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/rooms/available", r.URL.Path)
		assert.Equal(t, "2025-06-01", r.URL.Query().Get("checkInDate"))
		assert.Equal(t, "2025-06-03", r.URL.Query().Get("checkOutDate"))
		assert.Equal(t, "Deluxe", r.URL.Query().Get("roomType"))
		_ = json.NewEncoder(w).Encode(models.Response{Status: 200, Rooms: []models.Room{{ID: 1}, {ID: 2}}})
	}
	c := newTestClient(t, h, nil, false)

	rooms, err := c.AvailableRooms(context.Background(), "2025-06-01", "2025-06-03", "Deluxe")
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
}

func TestClient_CreatePaymentSecret(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/payments/pay", r.URL.Path)
		assert.Equal(t, PaymentIdempotencyKey("BK-100", "250.00"), r.Header.Get("Idempotency-Key"))

		var req models.PaymentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.PaymentRequest{BookingReference: "BK-100", Amount: "250.00"}, req)

		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("pi_123_secret_456"))
	}
	c := newTestClient(t, h, staticToken("tok"), false)

	secret, err := c.CreatePaymentSecret(context.Background(), models.PaymentRequest{BookingReference: "BK-100", Amount: "250.00"})
	require.NoError(t, err)
	assert.Equal(t, "pi_123_secret_456", secret)
}

func TestClient_CreatePaymentSecret_QuotedJSON(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`"pi_9_secret_9"`))
	}
	c := newTestClient(t, h, nil, false)

	secret, err := c.CreatePaymentSecret(context.Background(), models.PaymentRequest{BookingReference: "BK-9", Amount: "1"})
	require.NoError(t, err)
	assert.Equal(t, "pi_9_secret_9", secret)
}

func TestClient_UpdatePaymentBody(t *testing.T) {
	var body map[string]any
	h := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/payments/update", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	}
	c := newTestClient(t, h, staticToken("tok"), false)

	err := c.UpdatePayment(context.Background(), models.NewPaymentUpdate("BK-100", "250.00", models.Succeeded("tx_1")))
	require.NoError(t, err)
	assert.Equal(t, "tx_1", body["transactionId"])
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "failureReason")

	err = c.UpdatePayment(context.Background(), models.NewPaymentUpdate("BK-100", "250.00", models.Failed("card declined")))
	require.NoError(t, err)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "card declined", body["failureReason"])
	assert.NotContains(t, body, "transactionId")
}

func TestClient_AddRoomMultipart(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "101", r.FormValue("roomNumber"))
		assert.Equal(t, "SUITE", r.FormValue("type"))
		assert.Equal(t, "199.50", r.FormValue("pricePerNight"))

		f, hdr, err := r.FormFile("imageFile")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "suite.png", hdr.Filename)
		assert.Equal(t, []byte("png-bytes"), data)

		_ = json.NewEncoder(w).Encode(models.Response{Status: 200, Message: "Room added"})
	}
	c := newTestClient(t, h, staticToken("admin"), false)

	resp, err := c.AddRoom(context.Background(), models.RoomForm{
		RoomNumber:    101,
		Type:          "SUITE",
		PricePerNight: 199.5,
		Capacity:      2,
		Description:   "sea view",
		ImageName:     "suite.png",
		Image:         []byte("png-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Room added", resp.Message)
}

func TestClient_UpdateRoomRequiresID(t *testing.T) {
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) {}, nil, false)
	_, err := c.UpdateRoom(context.Background(), models.RoomForm{Type: "SUITE"})
	assert.Error(t, err)
}

func TestClient_EnvelopeStatus(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":404,"message":"Booking not found"}`))
	}
	c := newTestClient(t, h, nil, false)

	_, err := c.BookingByReference(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Equal(t, "Booking not found", ErrorMessage(err))
}

func TestClient_CircuitBreakerOpens(t *testing.T) {
	calls := 0
	h := func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}
	c := newTestClient(t, h, nil, true)

	for i := 0; i < 3; i++ {
		_, err := c.AllRooms(context.Background())
		require.Error(t, err)
	}
	_, err := c.AllRooms(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, GenericTransportMessage, ErrorMessage(err))

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Zero(t, te.StatusCode)
}

func TestClient_BreakerIgnoresClientErrors(t *testing.T) {
	calls := 0
	h := func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}
	c := newTestClient(t, h, nil, true)

	for i := 0; i < 5; i++ {
		_, _ = c.Room(context.Background(), 42)
	}
	assert.Equal(t, 5, calls)
}
