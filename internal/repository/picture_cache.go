package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const pictureCacheTTL = 10 * time.Minute

// PictureCache is a read-through cache for profile pictures. Misses and
// cache failures are soft: callers fall back to the repository.
type PictureCache struct {
	client *redis.Client
}

// NewPictureCache wraps a redis client. A nil client disables caching.
func NewPictureCache(client *redis.Client) *PictureCache {
	return &PictureCache{client: client}
}

// Get returns a cached picture, or (nil, false) on miss or error.
func (c *PictureCache) Get(ctx context.Context, policyNumber string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, cacheKey(policyNumber)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores a picture with a fixed TTL.
func (c *PictureCache) Set(ctx context.Context, policyNumber string, picture []byte) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Set(ctx, cacheKey(policyNumber), picture, pictureCacheTTL).Err()
}

// Invalidate drops the cached picture for a policy number.
func (c *PictureCache) Invalidate(ctx context.Context, policyNumber string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, cacheKey(policyNumber)).Err()
}

func cacheKey(policyNumber string) string {
	return "profile_picture:" + policyNumber
}
