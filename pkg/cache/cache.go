// Package cache is a thin JSON cache over Redis. When Redis is not connected
// every call is a miss or a no-op, so callers never branch on availability.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shashiranjanraj/galeria/config"
)

const prefix = "galeria:"

var RDB *redis.Client

// Connect initialises the Redis client and verifies the connection with a ping.
// On failure RDB stays nil and the cache degrades to no-ops.
func Connect(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		RDB = nil
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	RDB = client
	return nil
}

// Close releases the Redis connection.
func Close() error {
	if RDB == nil {
		return nil
	}
	err := RDB.Close()
	RDB = nil
	return err
}

func Available() bool { return RDB != nil }

// Get retrieves a cached value by key and unmarshals into dest.
// Returns true on a cache hit, false on miss or error.
func Get(ctx context.Context, key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}

	val, err := RDB.Get(ctx, prefix+key).Bytes()
	if err != nil {
		return false
	}

	return json.Unmarshal(val, dest) == nil
}

// Set stores value under key for the given TTL.
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return RDB.Set(ctx, prefix+key, data, ttl).Err()
}

// Forget removes one or more keys.
func Forget(ctx context.Context, keys ...string) error {
	if RDB == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = prefix + k
	}
	return RDB.Del(ctx, full...).Err()
}

// Remember returns the cached value for key, or calls load, caches its result
// for ttl and returns it. Cache write failures are ignored.
func Remember[T any](ctx context.Context, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if Get(ctx, key, &cached) {
		return cached, nil
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	_ = Set(ctx, key, v, ttl)
	return v, nil
}

// Hit increments a fixed-window counter and returns the new count. The window
// starts on the first hit. ok is false when Redis is unavailable.
func Hit(ctx context.Context, key string, window time.Duration) (count int64, ok bool) {
	if RDB == nil {
		return 0, false
	}

	pipe := RDB.TxPipeline()
	incr := pipe.Incr(ctx, prefix+key)
	pipe.ExpireNX(ctx, prefix+key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, false
	}
	return incr.Val(), true
}
