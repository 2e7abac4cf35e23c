package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"hotelbook/models"

	"github.com/google/uuid"
)

// idempotencyNamespace scopes the deterministic keys sent with payment calls.
var idempotencyNamespace = uuid.MustParse("5b0f6d8e-2c43-4a8e-9d63-2f4f3c1a7e10")

// PaymentIdempotencyKey derives a stable key from the natural key of a
// payment attempt, so a resent request cannot open a second checkout.
func PaymentIdempotencyKey(bookingReference, amount string) string {
	return uuid.NewSHA1(idempotencyNamespace, []byte(bookingReference+"|"+amount)).String()
}

// ReconciliationIdempotencyKey derives a stable key for one terminal outcome.
func ReconciliationIdempotencyKey(update models.PaymentUpdate) string {
	status := "failed"
	if update.Success {
		status = "succeeded"
	}
	return uuid.NewSHA1(idempotencyNamespace,
		[]byte(update.BookingReference+"|"+update.Amount+"|"+status+"|"+update.TransactionID)).String()
}

// CreatePaymentSecret asks the service to open a checkout with the payment
// provider and returns the client secret. The service answers with the bare
// secret as text.
func (c *Client) CreatePaymentSecret(ctx context.Context, req models.PaymentRequest) (string, error) {
	data, err := c.do(ctx, request{
		method:         http.MethodPost,
		path:           "/payments/pay",
		body:           req,
		authenticated:  true,
		idempotencyKey: PaymentIdempotencyKey(req.BookingReference, req.Amount),
	})
	if err != nil {
		return "", err
	}

	secret := strings.TrimSpace(string(data))
	if strings.HasPrefix(secret, `"`) {
		var s string
		if err := json.Unmarshal([]byte(secret), &s); err == nil {
			secret = s
		}
	}
	if secret == "" {
		return "", &TransportError{Message: "The booking service did not return a payment secret"}
	}
	return secret, nil
}

// UpdatePayment reports the provider's terminal outcome for a booking.
func (c *Client) UpdatePayment(ctx context.Context, update models.PaymentUpdate) error {
	_, err := c.do(ctx, request{
		method:         http.MethodPut,
		path:           "/payments/update",
		body:           update,
		authenticated:  true,
		idempotencyKey: ReconciliationIdempotencyKey(update),
	})
	return err
}
