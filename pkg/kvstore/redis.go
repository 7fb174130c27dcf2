package kvstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "scribe:"

// Redis stores values as plain strings under a scribe: prefix.
type Redis struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedis connects to the server described by a redis:// or rediss:// URL.
func NewRedis(ctx context.Context, logger *slog.Logger, redisURL string) (*Redis, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	store := NewRedisWithClient(redis.NewClient(options), logger)

	if err := store.HealthCheck(ctx); err != nil {
		_ = store.Close()

		return nil, err
	}

	return store, nil
}

func NewRedisWithClient(client *redis.Client, logger *slog.Logger) *Redis {
	return &Redis{
		client: client,
		logger: logger.With("module", "kvstore_redis"),
	}
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	if err := checkKey("get", key); err != nil {
		return "", err
	}

	value, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", &StoreError{Op: "get", Key: key, Err: ErrNotFound}
	}

	if err != nil {
		return "", &StoreError{Op: "get", Key: key, Err: err}
	}

	return value, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := checkKey("set", key); err != nil {
		return err
	}

	if err := r.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return &StoreError{Op: "set", Key: key, Err: err}
	}

	r.logger.DebugContext(ctx, "Stored value", "key", key)

	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := checkKey("delete", key); err != nil {
		return err
	}

	if err := r.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return &StoreError{Op: "delete", Key: key, Err: err}
	}

	return nil
}

func (r *Redis) HealthCheck(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}

	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
