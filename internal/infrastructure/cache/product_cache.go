package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	catalogapp "github.com/KirshnaLighting/Krishna-Lighting/internal/application/catalog"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/catalog"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const productKeyPrefix = "catalog:product:"

// Ensure RedisProductCache implements ProductCache
var _ catalogapp.ProductCache = (*RedisProductCache)(nil)

// RedisProductCache caches product aggregates as JSON in Redis. Cache
// failures degrade to repository reads and are never surfaced to callers.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisProductCache creates a cache backed by a new Redis connection
func NewRedisProductCache(cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisProductCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisProductCacheWithClient(client, ttl, logger), nil
}

// NewRedisProductCacheWithClient creates a cache with an existing Redis
// client. Useful for testing or when sharing a client across components.
func NewRedisProductCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisProductCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisProductCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached product, or false on a miss or cache error
func (c *RedisProductCache) Get(ctx context.Context, id uuid.UUID) (*catalog.Product, bool) {
	data, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("product cache read failed",
				zap.String("product_id", id.String()),
				zap.Error(err))
		}
		return nil, false
	}

	var product catalog.Product
	if err := json.Unmarshal(data, &product); err != nil {
		c.logger.Warn("product cache entry corrupt, dropping",
			zap.String("product_id", id.String()),
			zap.Error(err))
		c.Invalidate(ctx, id)
		return nil, false
	}
	return &product, true
}

// Set stores the product with the configured TTL
func (c *RedisProductCache) Set(ctx context.Context, product *catalog.Product) {
	data, err := json.Marshal(product)
	if err != nil {
		c.logger.Warn("product cache marshal failed",
			zap.String("product_id", product.ID.String()),
			zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, productKey(product.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("product cache write failed",
			zap.String("product_id", product.ID.String()),
			zap.Error(err))
	}
}

// Invalidate drops the cached product
func (c *RedisProductCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, productKey(id)).Err(); err != nil {
		c.logger.Warn("product cache invalidation failed",
			zap.String("product_id", id.String()),
			zap.Error(err))
	}
}

// Close releases the underlying Redis connection
func (c *RedisProductCache) Close() error {
	return c.client.Close()
}

func productKey(id uuid.UUID) string {
	return productKeyPrefix + id.String()
}
