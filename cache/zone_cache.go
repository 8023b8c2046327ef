package cache

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// Invalidator is the zone-cache surface the workflow engine needs. The
// engine only bumps the version, it never reads listings itself.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

const (
	versionKey = "zones:ver"
	listingTTL = 5 * time.Minute
)

// ZoneCache caches serialized zone listings in Redis. Instead of scanning
// for keys to delete, every zone-affecting write increments a version
// counter and listing keys embed the version, so stale entries simply stop
// being addressed and expire on their own TTL.
type ZoneCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewZoneCache(rdb *redis.Client) *ZoneCache {
	return &ZoneCache{rdb: rdb, ttl: listingTTL}
}

// NewRedisClient builds the shared Redis client from environment variables.
func NewRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
}

func (c *ZoneCache) version(ctx context.Context) (int64, error) {
	v, err := c.rdb.Get(ctx, versionKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

func (c *ZoneCache) listingKey(version int64, signature string) string {
	return fmt.Sprintf("zones:list:v%d:%s", version, signature)
}

// Get returns the cached listing payload for the filter signature, if the
// entry belongs to the current version.
func (c *ZoneCache) Get(ctx context.Context, signature string) (string, bool) {
	v, err := c.version(ctx)
	if err != nil {
		return "", false
	}
	payload, err := c.rdb.Get(ctx, c.listingKey(v, signature)).Result()
	if err != nil {
		return "", false
	}
	return payload, true
}

// Set stores a listing payload under the current version.
func (c *ZoneCache) Set(ctx context.Context, signature string, payload string) error {
	v, err := c.version(ctx)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.listingKey(v, signature), payload, c.ttl).Err()
}

// Invalidate bumps the version counter. One INCR retires every cached
// listing at once; the orphaned keys expire via TTL.
func (c *ZoneCache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, versionKey).Err()
}
