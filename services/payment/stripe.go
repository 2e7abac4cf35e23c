package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotelbook/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// DefaultPaymentMethod is Stripe's test card that always succeeds.
const DefaultPaymentMethod = "pm_card_visa"

// StripeProvider confirms the PaymentIntent behind a client secret using the
// publishable key, the same call the browser SDK makes.
type StripeProvider struct {
	client        paymentintent.Client
	paymentMethod string
	returnURL     string
}

// StripeOptions configures a StripeProvider. Backend may be nil to use
// Stripe's API.
type StripeOptions struct {
	PublishableKey string
	PaymentMethod  string
	ReturnURL      string
	Backend        stripe.Backend
}

func NewStripeProvider(opts StripeOptions) (*StripeProvider, error) {
	if opts.PublishableKey == "" {
		return nil, errors.New("stripe publishable key is not configured")
	}
	backend := opts.Backend
	if backend == nil {
		backend = stripe.GetBackend(stripe.APIBackend)
	}
	method := opts.PaymentMethod
	if method == "" {
		method = DefaultPaymentMethod
	}
	return &StripeProvider{
		client:        paymentintent.Client{B: backend, Key: opts.PublishableKey},
		paymentMethod: method,
		returnURL:     opts.ReturnURL,
	}, nil
}

// IntentID extracts the PaymentIntent id from a client secret of the form
// pi_..._secret_....
func IntentID(clientSecret string) (string, error) {
	id, _, ok := strings.Cut(clientSecret, "_secret_")
	if !ok || !strings.HasPrefix(id, "pi_") {
		return "", fmt.Errorf("not a payment intent client secret")
	}
	return id, nil
}

// Collect confirms the intent. Declines come back as a Failed outcome; only
// transport problems are returned as errors.
func (p *StripeProvider) Collect(ctx context.Context, session models.PaymentSession) (models.PaymentOutcome, error) {
	id, err := IntentID(session.ClientSecret)
	if err != nil {
		return models.PaymentOutcome{}, err
	}

	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(p.paymentMethod),
	}
	if p.returnURL != "" {
		params.ReturnURL = stripe.String(p.returnURL)
	}
	params.Context = ctx
	params.AddExtra("client_secret", session.ClientSecret)

	pi, err := p.client.Confirm(id, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
			return models.Failed(stripeErr.Msg), nil
		}
		return models.PaymentOutcome{}, err
	}
	return intentOutcome(pi), nil
}

func intentOutcome(pi *stripe.PaymentIntent) models.PaymentOutcome {
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return models.Succeeded(pi.ID)
	case stripe.PaymentIntentStatusRequiresAction:
		return models.Failed("Payment requires additional authentication")
	}
	if pi.LastPaymentError != nil && pi.LastPaymentError.Msg != "" {
		return models.Failed(pi.LastPaymentError.Msg)
	}
	return models.Failed(fmt.Sprintf("Payment %s", pi.Status))
}
