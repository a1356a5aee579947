package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ProductCacheTTL is the time-to-live for cached products.
	ProductCacheTTL = 24 * time.Hour

	// EvictionFenceTTL is how long Delete blocks Set for the same product.
	// It must outlast a read-through store query.
	EvictionFenceTTL = 10 * time.Second

	productCacheKeyPrefix = "product"
	fenceKeySuffix        = ":fence"
)

// setUnlessFenced writes the hash and its TTL only when no eviction fence
// exists for the product. KEYS[1] is the hash, KEYS[2] the fence.
// Returns 1 when written, 0 when fenced.
var setUnlessFenced = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return 0
end
redis.call("DEL", KEYS[1])
redis.call("HSET", KEYS[1], "name", ARGV[1], "description", ARGV[2], "stock", ARGV[3], "cantidad", ARGV[4])
redis.call("EXPIRE", KEYS[1], ARGV[5])
return 1
`)

// CachedProduct is the denormalized read model stored in Redis as a hash.
type CachedProduct struct {
	ID          int64
	Name        string
	Description string
	Stock       string
	Cantidad    int64
}

// ProductCache provides structured read/write operations for product cache entries.
// Key format: "product:{id}"
type ProductCache struct {
	client *RedisClient
}

// NewProductCache creates a new ProductCache backed by the given RedisClient.
// A nil client yields a nil cache, which callers treat as disabled.
func NewProductCache(r *RedisClient) *ProductCache {
	if r == nil {
		return nil
	}
	return &ProductCache{client: r}
}

// Get retrieves a cached product by ID.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *ProductCache) Get(ctx context.Context, id int64) (*CachedProduct, error) {
	vals, err := c.client.Client().HGetAll(ctx, c.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil // key not found
	}

	cantidad, err := strconv.ParseInt(vals["cantidad"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse cantidad: %w", err)
	}

	return &CachedProduct{
		ID:          id,
		Name:        vals["name"],
		Description: vals["description"],
		Stock:       vals["stock"],
		Cantidad:    cantidad,
	}, nil
}

// Set writes a cached product as a Redis hash with a 24-hour TTL.
// The write is skipped while an eviction fence from Delete is live, so a
// read-through that loaded the product before a concurrent update or delete
// cannot put the old snapshot back. A skipped write is not an error.
func (c *ProductCache) Set(ctx context.Context, p *CachedProduct) error {
	err := setUnlessFenced.Run(ctx, c.client.Client(),
		[]string{c.key(p.ID), c.fenceKey(p.ID)},
		p.Name, p.Description, p.Stock,
		strconv.FormatInt(p.Cantidad, 10),
		int64(ProductCacheTTL/time.Second),
	).Err()
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached product and raises its eviction fence for
// EvictionFenceTTL. Both happen in one MULTI block.
func (c *ProductCache) Delete(ctx context.Context, id int64) error {
	pipe := c.client.Client().TxPipeline()
	pipe.Del(ctx, c.key(id))
	pipe.Set(ctx, c.fenceKey(id), "1", EvictionFenceTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// key builds the Redis key: "product:{id}"
func (c *ProductCache) key(id int64) string {
	return productCacheKeyPrefix + ":" + strconv.FormatInt(id, 10)
}

func (c *ProductCache) fenceKey(id int64) string {
	return c.key(id) + fenceKeySuffix
}
