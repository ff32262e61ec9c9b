package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/catalog-service/internal/domain"
)

const (
	productCountKey   = "catalog:product_count"
	featuredKeyPrefix = "catalog:featured:"
	featuredKeySet    = "catalog:featured_keys"
)

// CatalogCache is a best-effort read-through cache for hot catalog
// reads. Misses and redis errors both fall back to the repository; a
// nil cache is a no-op.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache wraps a redis client.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// GetFeatured returns the cached featured listing for the given limit.
func (c *CatalogCache) GetFeatured(ctx context.Context, limit int) ([]domain.Product, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, featuredKey(limit)).Bytes()
	if err != nil {
		return nil, false
	}
	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false
	}
	return products, true
}

// SetFeatured caches a featured listing and tracks its key for
// invalidation.
func (c *CatalogCache) SetFeatured(ctx context.Context, limit int, products []domain.Product) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return
	}
	key := featuredKey(limit)
	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, raw, c.ttl)
	pipe.SAdd(ctx, featuredKeySet, key)
	_, _ = pipe.Exec(ctx)
}

// GetProductCount returns the cached product count.
func (c *CatalogCache) GetProductCount(ctx context.Context) (int64, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	raw, err := c.client.Get(ctx, productCountKey).Result()
	if err != nil {
		return 0, false
	}
	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

// SetProductCount caches the product count.
func (c *CatalogCache) SetProductCount(ctx context.Context, count int64) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Set(ctx, productCountKey, strconv.FormatInt(count, 10), c.ttl).Err()
}

// Invalidate drops all catalog cache entries. Called after any product
// mutation via the event dispatcher.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	keys, err := c.client.SMembers(ctx, featuredKeySet).Result()
	if err == nil && len(keys) > 0 {
		_ = c.client.Del(ctx, keys...).Err()
	}
	return c.client.Del(ctx, featuredKeySet, productCountKey).Err()
}

func featuredKey(limit int) string {
	return fmt.Sprintf("%s%d", featuredKeyPrefix, limit)
}
