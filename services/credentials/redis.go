package credentials

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "hotelbook:credentials:"

// RedisBackend keeps ciphertext in redis so several terminals can share one
// login.
type RedisBackend struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

func NewRedisBackend(client *redis.Client, scope string) *RedisBackend {
	prefix := redisKeyPrefix
	if scope != "" {
		prefix += scope + ":"
	}
	return &RedisBackend{client: client, prefix: prefix, timeout: 2 * time.Second}
}

func (r *RedisBackend) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisBackend) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *RedisBackend) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.prefix + k
	}
	return r.client.Del(ctx, full...).Err()
}
