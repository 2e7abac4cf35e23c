package models

import "time"

// PaymentRequest exchanges a booking reference and amount for a client secret.
// Amount travels as the text it was navigated with.
type PaymentRequest struct {
	BookingReference string `json:"bookingReference" validate:"required"`
	Amount           string `json:"amount" validate:"required"`
}

// PaymentSession lives from entering the payment page until the provider
// resolves the checkout.
type PaymentSession struct {
	BookingReference string    `json:"bookingReference"`
	Amount           string    `json:"amount"`
	ClientSecret     string    `json:"clientSecret"` // single use, one checkout attempt
	CreatedAt        time.Time `json:"createdAt"`
}

// PaymentOutcome is the terminal result reported by the payment provider.
// Exactly one of TransactionID or FailureReason is meaningful.
type PaymentOutcome struct {
	Success       bool
	TransactionID string
	FailureReason string
}

func Succeeded(transactionID string) PaymentOutcome {
	return PaymentOutcome{Success: true, TransactionID: transactionID}
}

func Failed(reason string) PaymentOutcome {
	return PaymentOutcome{FailureReason: reason}
}

// PaymentUpdate is the reconciliation record sent to /payments/update.
type PaymentUpdate struct {
	BookingReference string `json:"bookingReference"`
	Amount           string `json:"amount"`
	TransactionID    string `json:"transactionId,omitempty"` // success only
	Success          bool   `json:"success"`
	FailureReason    string `json:"failureReason,omitempty"` // failure only
}

// NewPaymentUpdate builds the reconciliation record for an outcome.
func NewPaymentUpdate(bookingReference, amount string, outcome PaymentOutcome) PaymentUpdate {
	update := PaymentUpdate{
		BookingReference: bookingReference,
		Amount:           amount,
		Success:          outcome.Success,
	}
	if outcome.Success {
		update.TransactionID = outcome.TransactionID
	} else {
		update.FailureReason = outcome.FailureReason
	}
	return update
}
