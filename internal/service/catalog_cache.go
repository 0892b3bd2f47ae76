package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/bcod/campus-market/internal/domain"
	"github.com/bcod/campus-market/pkg/redis"
)

// ProductCache is the read-through cache in front of single-product lookups
type ProductCache interface {
	// Get returns a cached product; false on miss or cache trouble
	Get(ctx context.Context, id int64) (*domain.Product, bool)
	// Set stores a product under its id
	Set(ctx context.Context, p *domain.Product) error
	// Invalidate drops a product after a write
	Invalidate(ctx context.Context, id int64) error
}

const productCacheTTL = 5 * time.Minute

// RedisProductCache caches products in Redis with a short TTL
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProductCache creates a cache on top of the shared Redis client
func NewRedisProductCache(client *redis.Client) *RedisProductCache {
	return &RedisProductCache{client: client, ttl: productCacheTTL}
}

func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *RedisProductCache) Get(ctx context.Context, id int64) (*domain.Product, bool) {
	raw, err := c.client.Client().Get(ctx, productKey(id)).Bytes()
	if err != nil {
		// Misses and transport errors look the same to the caller: go to the DB
		return nil, false
	}
	p := &domain.Product{}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, false
	}
	return p, true
}

func (c *RedisProductCache) Set(ctx context.Context, p *domain.Product) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Client().Set(ctx, productKey(p.ID), raw, c.ttl).Err()
}

func (c *RedisProductCache) Invalidate(ctx context.Context, id int64) error {
	err := c.client.Client().Del(ctx, productKey(id)).Err()
	if err == goredis.Nil {
		return nil
	}
	return err
}

// noopProductCache is used when Redis is not configured
type noopProductCache struct{}

func (noopProductCache) Get(ctx context.Context, id int64) (*domain.Product, bool) { return nil, false }
func (noopProductCache) Set(ctx context.Context, p *domain.Product) error          { return nil }
func (noopProductCache) Invalidate(ctx context.Context, id int64) error            { return nil }
