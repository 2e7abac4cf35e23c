package payment

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"hotelbook/models"
	"hotelbook/services/api"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/singleflight"
)

const (
	paymentSessionPrefix = "hotelbook:payment:"
	// DefaultSessionTTL bounds how long an unresolved checkout is reused.
	DefaultSessionTTL = 30 * time.Minute
)

// CreateSecretFunc asks the booking service for a fresh client secret.
type CreateSecretFunc func(ctx context.Context) (string, error)

// SecretStore hands out one payment session per (bookingReference, amount)
// until it is discarded. Concurrent acquisitions for the same pair share a
// single request.
type SecretStore interface {
	Acquire(ctx context.Context, bookingReference, amount string, create CreateSecretFunc) (models.PaymentSession, error)
	Discard(ctx context.Context, bookingReference, amount string) error
}

// sessionKV persists unresolved payment sessions.
type sessionKV interface {
	get(ctx context.Context, key string) (*models.PaymentSession, error)
	put(ctx context.Context, key string, session models.PaymentSession) error
	del(ctx context.Context, key string) error
}

type secretStore struct {
	kv    sessionKV
	group singleflight.Group
	now   func() time.Time
}

// NewMemorySecretStore keeps sessions in process memory.
func NewMemorySecretStore(ttl time.Duration) SecretStore {
	return &secretStore{kv: newMemoryKV(ttl), now: time.Now}
}

// NewRedisSecretStore keeps sessions in redis so a restarted shell, or a
// second terminal, resumes the same checkout.
func NewRedisSecretStore(client *redis.Client, ttl time.Duration) SecretStore {
	return &secretStore{kv: &redisKV{client: client, ttl: ttl}, now: time.Now}
}

func sessionKey(bookingReference, amount string) string {
	return paymentSessionPrefix + api.PaymentIdempotencyKey(bookingReference, amount)
}

func (s *secretStore) Acquire(ctx context.Context, bookingReference, amount string, create CreateSecretFunc) (models.PaymentSession, error) {
	key := sessionKey(bookingReference, amount)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		existing, err := s.kv.get(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return *existing, nil
		}

		secret, err := create(ctx)
		if err != nil {
			return nil, err
		}
		session := models.PaymentSession{
			BookingReference: bookingReference,
			Amount:           amount,
			ClientSecret:     secret,
			CreatedAt:        s.now(),
		}
		if err := s.kv.put(ctx, key, session); err != nil {
			return nil, err
		}
		return session, nil
	})
	if err != nil {
		return models.PaymentSession{}, err
	}
	return v.(models.PaymentSession), nil
}

func (s *secretStore) Discard(ctx context.Context, bookingReference, amount string) error {
	return s.kv.del(ctx, sessionKey(bookingReference, amount))
}

type memoryEntry struct {
	session models.PaymentSession
	expires time.Time
}

type memoryKV struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

func newMemoryKV(ttl time.Duration) *memoryKV {
	return &memoryKV{ttl: ttl, entries: make(map[string]memoryEntry)}
}

func (m *memoryKV) get(_ context.Context, key string) (*models.PaymentSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	if m.ttl > 0 && time.Now().After(e.expires) {
		delete(m.entries, key)
		return nil, nil
	}
	s := e.session
	return &s, nil
}

func (m *memoryKV) put(_ context.Context, key string, session models.PaymentSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{session: session, expires: time.Now().Add(m.ttl)}
	return nil
}

func (m *memoryKV) del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

type redisKV struct {
	client *redis.Client
	ttl    time.Duration
}

func (r *redisKV) get(ctx context.Context, key string) (*models.PaymentSession, error) {
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session models.PaymentSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *redisKV) put(ctx context.Context, key string, session models.PaymentSession) error {
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, b, r.ttl).Err()
}

func (r *redisKV) del(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
