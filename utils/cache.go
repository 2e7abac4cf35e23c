// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hotelbook/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CredentialClient backs the shared credential store.
	CredentialClient *redis.Client
	// PaymentClient holds in-flight payment sessions.
	PaymentClient *redis.Client

	redisMu sync.Mutex
)

func newRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis db %d: %w", db, err)
	}
	return client, nil
}

// GetCredentialClient returns the redis client for credential storage.
func GetCredentialClient() (*redis.Client, error) {
	redisMu.Lock()
	defer redisMu.Unlock()
	if CredentialClient == nil {
		client, err := newRedisClient(config.AppConfig.RedisCredentialDB)
		if err != nil {
			return nil, err
		}
		CredentialClient = client
	}
	return CredentialClient, nil
}

// GetPaymentClient returns the redis client for payment sessions.
func GetPaymentClient() (*redis.Client, error) {
	redisMu.Lock()
	defer redisMu.Unlock()
	if PaymentClient == nil {
		client, err := newRedisClient(config.AppConfig.RedisPaymentDB)
		if err != nil {
			return nil, err
		}
		PaymentClient = client
	}
	return PaymentClient, nil
}
