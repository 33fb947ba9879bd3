package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/anniv/internal/common"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "anniv:session:"

// RedisBackend stores sessions in Redis under a random key carried by the
// cookie. Logout deletes the key.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBackendFromURL connects to redisURL and checks it with a ping.
func NewRedisBackendFromURL(ctx context.Context, redisURL string, ttl time.Duration) (*RedisBackend, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisBackend(client, ttl), nil
}

func NewRedisBackend(client *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

func (b *RedisBackend) Issue(ctx context.Context, accountID string) (string, error) {
	token, err := common.MakeRandHexString(32)
	if err != nil {
		return "", err
	}
	if err := b.client.Set(ctx, redisKeyPrefix+token, accountID, b.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set: %w", err)
	}
	return token, nil
}

func (b *RedisBackend) Resolve(ctx context.Context, token string) (string, error) {
	id, err := b.client.Get(ctx, redisKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return id, nil
}

func (b *RedisBackend) Revoke(ctx context.Context, token string) error {
	if err := b.client.Del(ctx, redisKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}
