package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"review_insights/internal/adapters/observability"
)

// Cache stores JSON-encoded values under a common key prefix.
type Cache struct {
	c      redis.UniversalClient
	prefix string
}

func New(addr, pass string, db int) *Cache {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), "review-insights:")
}

func NewWithClient(c redis.UniversalClient, prefix string) *Cache {
	return &Cache{c: c, prefix: prefix}
}

func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveCache("redis", "hit")
	if err := json.Unmarshal(v, dst); err != nil {
		return false, fmt.Errorf("redis: decode %s: %w", key, err)
	}
	return true, nil
}

func (r *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("redis: encode %s: %w", key, err)
	}
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, r.prefix+key, b, time.Duration(ttlSec)*time.Second).Err()
}

func (r *Cache) Del(ctx context.Context, key string) error {
	observability.ObserveCache("redis", "del")
	return r.c.Del(ctx, r.prefix+key).Err()
}

func (r *Cache) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Cache) Close() error { return r.c.Close() }
