package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Key prefix separating route-cache entries from anything else in the
// same Redis database.
const redisKeyPrefix = "routecache:"

// Redis-backed route cache shared between service instances.
//
// Entries are written without a TTL: invalidation happens only through
// Clear, driven by the task-mutation workflow.
type RedisRouteCache struct {
	rdb *redis.Client
}

func NewRedisRouteCache(rdb *redis.Client) *RedisRouteCache {
	return &RedisRouteCache{rdb: rdb}
}

// Get returns the entry for key and whether it was present.
func (r *RedisRouteCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis route cache get: %w", err)
	}
	return v, true, nil
}

// Set stores value under key with no expiry.
func (r *RedisRouteCache) Set(ctx context.Context, key string, value []byte) error {
	if err := r.rdb.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis route cache set: %w", err)
	}
	return nil
}

// Clear deletes every route-cache key via a prefix scan, leaving unrelated
// keys in the database untouched.
func (r *RedisRouteCache) Clear(ctx context.Context) error {
	iter := r.rdb.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()

	batch := make([]string, 0, 128)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := r.rdb.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis route cache clear: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis route cache scan: %w", err)
	}

	if len(batch) > 0 {
		if err := r.rdb.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis route cache clear: %w", err)
		}
	}

	return nil
}
