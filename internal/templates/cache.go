package templates

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "templates:bank:"

// Cache keeps resolved layouts in Redis so the print path does not hit
// Postgres for every staged cheque. A nil client degrades to pass-through.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get loads a cached layout; the second return reports a hit.
func (c *Cache) Get(ctx context.Context, bankName string) (Config, bool) {
	if c == nil || c.client == nil {
		return Config{}, false
	}
	raw, err := c.client.Get(ctx, cacheKeyPrefix+bankName).Bytes()
	if err != nil {
		return Config{}, false
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, false
	}
	return cfg, true
}

// Set stores a resolved layout.
func (c *Cache) Set(ctx context.Context, cfg Config) error {
	if c == nil || c.client == nil {
		return nil
	}
	if cfg.BankName == "" {
		return errors.New("templates: cache requires bank name")
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKeyPrefix+cfg.BankName, raw, c.ttl).Err()
}

// Invalidate drops the cached layout after a calibration.
func (c *Cache) Invalidate(ctx context.Context, bankName string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, cacheKeyPrefix+bankName).Err()
}
