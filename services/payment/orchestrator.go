package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"hotelbook/models"
	"hotelbook/services/api"
	"hotelbook/services/navigation"
	"hotelbook/utils"

	"go.uber.org/zap"
)

// State is a step of one checkout.
type State int

const (
	StateInitializing State = iota
	StateAwaitingProviderResult
	StateReconciling
	StateDone
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAwaitingProviderResult:
		return "awaiting_provider_result"
	case StateReconciling:
		return "reconciling"
	case StateDone:
		return "done"
	case StateErrored:
		return "errored"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateDone || s == StateErrored
}

// ErrNotAwaiting is returned for a provider outcome that arrives when the
// checkout is not waiting for one. The outcome is ignored.
var ErrNotAwaiting = errors.New("payment is not awaiting a provider result")

// Gateway is the part of the booking service a checkout talks to.
type Gateway interface {
	CreatePaymentSecret(ctx context.Context, req models.PaymentRequest) (string, error)
	UpdatePayment(ctx context.Context, update models.PaymentUpdate) error
}

// Navigator moves the user to the view for a finished checkout.
type Navigator interface {
	Navigate(path string) error
}

// ReconciliationError is a failed write of a terminal outcome back to the
// booking service. It is logged and not retried.
type ReconciliationError struct {
	BookingReference string
	Err              error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("failed to reconcile payment for booking %s: %v", e.BookingReference, e.Err)
}

func (e *ReconciliationError) Unwrap() error {
	return e.Err
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Gateway   Gateway
	Secrets   SecretStore
	Navigator Navigator
	Logger    *zap.Logger
}

// Orchestrator drives one checkout for a booking: it obtains a client
// secret, waits for the provider's single terminal outcome and writes that
// outcome back to the booking service. The amount is used exactly as given.
type Orchestrator struct {
	bookingReference string
	amount           string
	deps             Deps

	startMu sync.Mutex

	mu           sync.Mutex
	state        State
	session      *models.PaymentSession
	err          error
	outcome      *models.PaymentOutcome
	reconcileErr error
	done         chan struct{}
}

func NewOrchestrator(bookingReference, amount string, deps Deps) *Orchestrator {
	if deps.Secrets == nil {
		deps.Secrets = NewMemorySecretStore(DefaultSessionTTL)
	}
	if deps.Logger == nil {
		deps.Logger = utils.GetLogger()
	}
	return &Orchestrator{
		bookingReference: bookingReference,
		amount:           amount,
		deps:             deps,
		state:            StateInitializing,
		done:             make(chan struct{}),
	}
}

func (o *Orchestrator) BookingReference() string { return o.bookingReference }
func (o *Orchestrator) Amount() string           { return o.amount }

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Session returns the checkout session once a secret has been obtained.
func (o *Orchestrator) Session() (models.PaymentSession, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.session == nil {
		return models.PaymentSession{}, false
	}
	return *o.session, true
}

// Err is the failure that moved the checkout to Errored, if any.
func (o *Orchestrator) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Outcome is the provider result that was honoured, if any.
func (o *Orchestrator) Outcome() (models.PaymentOutcome, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.outcome == nil {
		return models.PaymentOutcome{}, false
	}
	return *o.outcome, true
}

// ReconciliationErr is the logged reconciliation failure, if any.
func (o *Orchestrator) ReconciliationErr() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.reconcileErr
}

// Done is closed when the checkout reaches a terminal state.
func (o *Orchestrator) Done() <-chan struct{} {
	return o.done
}

// Start obtains the client secret. Calling it again returns the session
// already obtained, or the error that ended the checkout.
func (o *Orchestrator) Start(ctx context.Context) (models.PaymentSession, error) {
	o.startMu.Lock()
	defer o.startMu.Unlock()

	o.mu.Lock()
	if o.state != StateInitializing {
		defer o.mu.Unlock()
		if o.session != nil && !o.state.Terminal() {
			return *o.session, nil
		}
		if o.err != nil {
			return models.PaymentSession{}, o.err
		}
		return models.PaymentSession{}, ErrNotAwaiting
	}
	o.mu.Unlock()

	logger := o.deps.Logger.With(zap.String("bookingReference", o.bookingReference))
	session, err := o.deps.Secrets.Acquire(ctx, o.bookingReference, o.amount, func(ctx context.Context) (string, error) {
		return o.deps.Gateway.CreatePaymentSecret(ctx, models.PaymentRequest{
			BookingReference: o.bookingReference,
			Amount:           o.amount,
		})
	})
	if err != nil {
		if ctx.Err() != nil {
			// Abandoned; a later Start may try again.
			return models.PaymentSession{}, ctx.Err()
		}
		logger.Warn("failed to obtain payment secret", zap.Error(err))
		o.mu.Lock()
		o.state = StateErrored
		o.err = err
		o.mu.Unlock()
		close(o.done)
		o.navigate(navigation.PaymentFailedPath)
		return models.PaymentSession{}, err
	}

	o.mu.Lock()
	o.session = &session
	o.state = StateAwaitingProviderResult
	o.mu.Unlock()
	logger.Info("payment awaiting provider result", zap.String("amount", o.amount))
	return session, nil
}

// OnSuccess reports a charge the provider accepted.
func (o *Orchestrator) OnSuccess(ctx context.Context, transactionID string) error {
	return o.Resolve(ctx, models.Succeeded(transactionID))
}

// OnFailure reports a charge the provider declined or could not complete.
func (o *Orchestrator) OnFailure(ctx context.Context, reason string) error {
	return o.Resolve(ctx, models.Failed(reason))
}

// Resolve honours the first provider outcome and ignores the rest. The
// outcome is reconciled exactly once, then the user is sent to the success
// or failure view.
func (o *Orchestrator) Resolve(ctx context.Context, outcome models.PaymentOutcome) error {
	o.mu.Lock()
	if o.state != StateAwaitingProviderResult {
		o.mu.Unlock()
		return ErrNotAwaiting
	}
	o.state = StateReconciling
	o.outcome = &outcome
	o.mu.Unlock()

	logger := o.deps.Logger.With(zap.String("bookingReference", o.bookingReference))
	update := models.NewPaymentUpdate(o.bookingReference, o.amount, outcome)
	var reconcileErr error
	if err := o.deps.Gateway.UpdatePayment(ctx, update); err != nil {
		reconcileErr = &ReconciliationError{BookingReference: o.bookingReference, Err: err}
		logger.Error("payment reconciliation failed",
			zap.Bool("success", outcome.Success),
			zap.String("message", api.ErrorMessage(err)),
			zap.Error(reconcileErr))
	} else {
		logger.Info("payment status was updated", zap.Bool("success", outcome.Success))
	}

	if err := o.deps.Secrets.Discard(ctx, o.bookingReference, o.amount); err != nil {
		logger.Warn("failed to discard payment session", zap.Error(err))
	}

	o.mu.Lock()
	o.reconcileErr = reconcileErr
	if outcome.Success {
		o.state = StateDone
	} else {
		o.state = StateErrored
		o.err = errors.New(outcome.FailureReason)
	}
	o.mu.Unlock()
	close(o.done)

	if outcome.Success {
		o.navigate(navigation.PaymentSuccessPath)
	} else {
		o.navigate(navigation.PaymentFailedPath)
	}
	return nil
}

func (o *Orchestrator) navigate(pattern string) {
	if o.deps.Navigator == nil {
		return
	}
	path := navigation.Path(pattern, o.bookingReference)
	if err := o.deps.Navigator.Navigate(path); err != nil {
		o.deps.Logger.Warn("navigation after payment failed", zap.String("path", path), zap.Error(err))
	}
}

// Provider collects payment for a session and reports the terminal outcome.
type Provider interface {
	Collect(ctx context.Context, session models.PaymentSession) (models.PaymentOutcome, error)
}

// Run performs the whole checkout with a provider that reports its outcome
// synchronously. Cancelling ctx while the provider is collecting abandons
// the checkout without reconciling.
func (o *Orchestrator) Run(ctx context.Context, provider Provider) error {
	session, err := o.Start(ctx)
	if err != nil {
		return err
	}
	outcome, err := provider.Collect(ctx, session)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		outcome = models.Failed(err.Error())
	}
	if err := o.Resolve(ctx, outcome); err != nil {
		return err
	}
	if !outcome.Success {
		return o.Err()
	}
	return nil
}
