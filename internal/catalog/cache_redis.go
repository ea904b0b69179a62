package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// CategoryCache holds the category list between upstream fetches. The list
// changes rarely but is requested on every storefront page load.
type CategoryCache interface {
	Get(ctx context.Context) ([]Category, bool)
	Set(ctx context.Context, categories []Category)
}

const categoryCacheKey = "catalog:categories"

// RedisCategoryCache caches categories in Redis with a short TTL.
type RedisCategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCategoryCache(client *redis.Client, ttl time.Duration) *RedisCategoryCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCategoryCache{client: client, ttl: ttl}
}

func (c *RedisCategoryCache) Get(ctx context.Context) ([]Category, bool) {
	raw, err := c.client.Get(ctx, categoryCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var out []Category
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (c *RedisCategoryCache) Set(ctx context.Context, categories []Category) {
	raw, err := json.Marshal(categories)
	if err != nil {
		return
	}
	// cache failures are invisible to callers; the upstream list still serves
	c.client.Set(ctx, categoryCacheKey, raw, c.ttl)
}
