package product

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a read-through Redis layer over a Repository. Point and batch
// lookups are cached; admin writes invalidate the touched ids. Any Redis
// failure falls back to the inner repository.
type Cache struct {
	inner Repository
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCache(inner Repository, rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{inner: inner, rdb: rdb, ttl: ttl}
}

func cacheKey(id string) string { return "product:" + id }

func (c *Cache) get(ctx context.Context, id string) *Product {
	raw, err := c.rdb.Get(ctx, cacheKey(id)).Result()
	if err != nil {
		return nil
	}
	var p Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil
	}
	return &p
}

func (c *Cache) put(ctx context.Context, p *Product) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(p.ID), raw, c.ttl).Err(); err != nil {
		log.Printf("[cache] set %s: %v", p.ID, err)
	}
}

func (c *Cache) invalidate(ctx context.Context, id string) {
	if err := c.rdb.Del(ctx, cacheKey(id)).Err(); err != nil {
		log.Printf("[cache] del %s: %v", id, err)
	}
}

func (c *Cache) GetByID(ctx context.Context, id string) (*Product, error) {
	if p := c.get(ctx, id); p != nil {
		return p, nil
	}
	p, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.put(ctx, p)
	return p, nil
}

func (c *Cache) GetByIDs(ctx context.Context, ids []string) (map[string]*Product, error) {
	out := make(map[string]*Product, len(ids))
	var missing []string
	for _, id := range ids {
		if p := c.get(ctx, id); p != nil {
			out[id] = p
		} else {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return out, nil
	}
	fetched, err := c.inner.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, p := range fetched {
		c.put(ctx, p)
		out[id] = p
	}
	return out, nil
}

// List always hits the store: search terms vary per request and the
// catalog listing must reflect admin writes immediately.
func (c *Cache) List(ctx context.Context, q string) ([]Product, error) {
	return c.inner.List(ctx, q)
}

func (c *Cache) Create(ctx context.Context, p *Product) error {
	return c.inner.Create(ctx, p)
}

func (c *Cache) Update(ctx context.Context, p *Product) error {
	if err := c.inner.Update(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, p.ID)
	return nil
}

func (c *Cache) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := c.inner.Delete(ctx, id)
	if err == nil && ok {
		c.invalidate(ctx, id)
	}
	return ok, err
}
