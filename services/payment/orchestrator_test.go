package payment

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hotelbook/models"
	"hotelbook/services/api"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGateway struct {
	mu        sync.Mutex
	secret    string
	secretErr error
	updateErr error
	delay     time.Duration

	secretCalls int32
	updates     []models.PaymentUpdate
}

func (g *fakeGateway) CreatePaymentSecret(ctx context.Context, req models.PaymentRequest) (string, error) {
	atomic.AddInt32(&g.secretCalls, 1)
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if g.secretErr != nil {
		return "", g.secretErr
	}
	return g.secret, nil
}

func (g *fakeGateway) UpdatePayment(_ context.Context, update models.PaymentUpdate) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updates = append(g.updates, update)
	return g.updateErr
}

type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNavigator) Navigate(path string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
	return nil
}

type stubProvider struct {
	outcome models.PaymentOutcome
	err     error
	seen    models.PaymentSession
}

func (p *stubProvider) Collect(_ context.Context, session models.PaymentSession) (models.PaymentOutcome, error) {
	p.seen = session
	return p.outcome, p.err
}

func newOrchestrator(g *fakeGateway, nav *recordingNavigator, secrets SecretStore) *Orchestrator {
	if secrets == nil {
		secrets = NewMemorySecretStore(DefaultSessionTTL)
	}
	deps := Deps{Gateway: g, Secrets: secrets, Logger: zap.NewNop()}
	if nav != nil {
		deps.Navigator = nav
	}
	return NewOrchestrator("BK-100", "250.00", deps)
}

func TestOrchestrator_Success(t *testing.T) {
	g := &fakeGateway{secret: "pi_1_secret_1"}
	nav := &recordingNavigator{}
	o := newOrchestrator(g, nav, nil)
	assert.Equal(t, StateInitializing, o.State())

	session, err := o.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret_1", session.ClientSecret)
	assert.Equal(t, StateAwaitingProviderResult, o.State())

	require.NoError(t, o.OnSuccess(context.Background(), "tx_1"))
	assert.Equal(t, StateDone, o.State())

	require.Len(t, g.updates, 1)
	assert.Equal(t, models.PaymentUpdate{
		BookingReference: "BK-100",
		Amount:           "250.00",
		TransactionID:    "tx_1",
		Success:          true,
	}, g.updates[0])
	assert.Equal(t, []string{"/payment-success/BK-100"}, nav.paths)

	select {
	case <-o.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestOrchestrator_ProviderFailure(t *testing.T) {
	g := &fakeGateway{secret: "pi_1_secret_1"}
	nav := &recordingNavigator{}
	o := newOrchestrator(g, nav, nil)

	_, err := o.Start(context.Background())
	require.NoError(t, err)
	require.NoError(t, o.OnFailure(context.Background(), "Your card was declined."))

	assert.Equal(t, StateErrored, o.State())
	require.Len(t, g.updates, 1)
	assert.False(t, g.updates[0].Success)
	assert.Equal(t, "Your card was declined.", g.updates[0].FailureReason)
	assert.Empty(t, g.updates[0].TransactionID)
	assert.Equal(t, []string{"/payment-failed/BK-100"}, nav.paths)
	assert.EqualError(t, o.Err(), "Your card was declined.")
}

func TestOrchestrator_CallbacksAreOneShot(t *testing.T) {
	g := &fakeGateway{secret: "pi_1_secret_1"}
	nav := &recordingNavigator{}
	o := newOrchestrator(g, nav, nil)
	_, err := o.Start(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	var honoured int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				err = o.OnSuccess(context.Background(), "tx_1")
			} else {
				err = o.OnFailure(context.Background(), "declined")
			}
			if err == nil {
				atomic.AddInt32(&honoured, 1)
			} else {
				assert.ErrorIs(t, err, ErrNotAwaiting)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), honoured)
	assert.Len(t, g.updates, 1)
	assert.Len(t, nav.paths, 1)
}

func TestOrchestrator_OutcomeBeforeStartIgnored(t *testing.T) {
	g := &fakeGateway{secret: "pi_1_secret_1"}
	o := newOrchestrator(g, &recordingNavigator{}, nil)

	assert.ErrorIs(t, o.OnSuccess(context.Background(), "tx_1"), ErrNotAwaiting)
	assert.Empty(t, g.updates)
	assert.Equal(t, StateInitializing, o.State())
}

func TestOrchestrator_SecretFailure(t *testing.T) {
	g := &fakeGateway{secretErr: &api.TransportError{StatusCode: 404, Message: "Booking reference not found"}}
	nav := &recordingNavigator{}
	o := newOrchestrator(g, nav, nil)

	_, err := o.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Booking reference not found", api.ErrorMessage(err))
	assert.Equal(t, StateErrored, o.State())
	assert.Equal(t, []string{"/payment-failed/BK-100"}, nav.paths)
	assert.Empty(t, g.updates)

	_, err = o.Start(context.Background())
	assert.Equal(t, "Booking reference not found", api.ErrorMessage(err))
	assert.Equal(t, int32(1), g.secretCalls)
}

func TestOrchestrator_ReconciliationFailureIsLoggedOnly(t *testing.T) {
	g := &fakeGateway{secret: "pi_1_secret_1", updateErr: errors.New("connection reset")}
	nav := &recordingNavigator{}
	o := newOrchestrator(g, nav, nil)
	_, err := o.Start(context.Background())
	require.NoError(t, err)

	require.NoError(t, o.OnSuccess(context.Background(), "tx_1"))
	assert.Equal(t, StateDone, o.State())
	assert.Len(t, g.updates, 1)
	assert.Equal(t, []string{"/payment-success/BK-100"}, nav.paths)

	var rerr *ReconciliationError
	require.ErrorAs(t, o.ReconciliationErr(), &rerr)
	assert.Equal(t, "BK-100", rerr.BookingReference)
}

func TestOrchestrator_RestartReusesSession(t *testing.T) {
	g := &fakeGateway{secret: "pi_1_secret_1"}
	secrets := NewMemorySecretStore(DefaultSessionTTL)

	first := newOrchestrator(g, nil, secrets)
	s1, err := first.Start(context.Background())
	require.NoError(t, err)
	s1again, err := first.Start(context.Background())
	require.NoError(t, err)

	second := newOrchestrator(g, nil, secrets)
	s2, err := second.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, s1, s1again)
	assert.Equal(t, s1, s2)
	assert.Equal(t, int32(1), g.secretCalls)
}

func TestOrchestrator_ConcurrentStartsShareRequest(t *testing.T) {
	g := &fakeGateway{secret: "pi_1_secret_1", delay: 50 * time.Millisecond}
	secrets := NewMemorySecretStore(DefaultSessionTTL)

	var wg sync.WaitGroup
	secretsSeen := make([]string, 5)
	for i := range secretsSeen {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := newOrchestrator(g, nil, secrets).Start(context.Background())
			assert.NoError(t, err)
			secretsSeen[i] = s.ClientSecret
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), g.secretCalls)
	for _, s := range secretsSeen {
		assert.Equal(t, "pi_1_secret_1", s)
	}
}

func TestOrchestrator_ResolutionDiscardsSession(t *testing.T) {
	g := &fakeGateway{secret: "pi_1_secret_1"}
	secrets := NewMemorySecretStore(DefaultSessionTTL)

	o := newOrchestrator(g, nil, secrets)
	_, err := o.Start(context.Background())
	require.NoError(t, err)
	require.NoError(t, o.OnFailure(context.Background(), "declined"))

	_, err = newOrchestrator(g, nil, secrets).Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), g.secretCalls)
}

func TestOrchestrator_AbandonedStart(t *testing.T) {
	g := &fakeGateway{secret: "pi_1_secret_1", delay: time.Second}
	nav := &recordingNavigator{}
	o := newOrchestrator(g, nav, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := o.Start(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StateInitializing, o.State())
	assert.Empty(t, nav.paths)
}

func TestOrchestrator_Run(t *testing.T) {
	g := &fakeGateway{secret: "pi_1_secret_1"}
	nav := &recordingNavigator{}
	o := newOrchestrator(g, nav, nil)
	p := &stubProvider{outcome: models.Succeeded("tx_1")}

	require.NoError(t, o.Run(context.Background(), p))
	assert.Equal(t, "pi_1_secret_1", p.seen.ClientSecret)
	assert.Equal(t, "250.00", p.seen.Amount)
	assert.Equal(t, []string{"/payment-success/BK-100"}, nav.paths)

	g2 := &fakeGateway{secret: "pi_2_secret_2"}
	nav2 := &recordingNavigator{}
	err := newOrchestrator(g2, nav2, nil).Run(context.Background(), &stubProvider{err: errors.New("card reader offline")})
	assert.EqualError(t, err, "card reader offline")
	require.Len(t, g2.updates, 1)
	assert.Equal(t, "card reader offline", g2.updates[0].FailureReason)
	assert.Equal(t, []string{"/payment-failed/BK-100"}, nav2.paths)
}

func TestRedisSecretStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	g := &fakeGateway{secret: "pi_1_secret_1"}
	first := newOrchestrator(g, nil, NewRedisSecretStore(client, time.Minute))
	s1, err := first.Start(context.Background())
	require.NoError(t, err)

	key := sessionKey("BK-100", "250.00")
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	// A second process sharing redis resumes the same checkout.
	second := newOrchestrator(g, nil, NewRedisSecretStore(client, time.Minute))
	s2, err := second.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, s1.ClientSecret, s2.ClientSecret)
	assert.Equal(t, int32(1), g.secretCalls)

	require.NoError(t, second.OnSuccess(context.Background(), "tx_1"))
	assert.False(t, mr.Exists(key))
}

func TestRegistry(t *testing.T) {
	g := &fakeGateway{secret: "pi_1_secret_1"}
	r := NewRegistry(Deps{Gateway: g, Logger: zap.NewNop()})

	o := r.Get("BK-100", "250.00")
	assert.Same(t, o, r.Get("BK-100", "250.00"))
	assert.NotSame(t, o, r.Get("BK-200", "250.00"))

	_, err := o.Start(context.Background())
	require.NoError(t, err)
	require.NoError(t, o.OnSuccess(context.Background(), "tx_1"))

	found, ok := r.Lookup("BK-100", "250.00")
	require.True(t, ok)
	assert.Same(t, o, found)
	assert.NotSame(t, o, r.Get("BK-100", "250.00"))

	_, ok = r.Lookup("BK-999", "1")
	assert.False(t, ok)
}

func TestRegistry_Prune(t *testing.T) {
	g := &fakeGateway{secretErr: errors.New("boom")}
	r := NewRegistry(Deps{Gateway: g, Logger: zap.NewNop()})
	_, _ = r.Get("BK-1", "1").Start(context.Background())
	r.Get("BK-2", "1")

	assert.Equal(t, 1, r.Prune())
	_, ok := r.Lookup("BK-2", "1")
	assert.True(t, ok)
}
