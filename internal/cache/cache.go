package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrCacheMiss is returned when a key is not found in cache.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores serialized content records by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeleteByPattern removes all values matching a Redis-style pattern (e.g. "cache:listings:*").
	DeleteByPattern(ctx context.Context, pattern string) error
	Close() error
}

// Key prefixes for content caching.
const (
	KeyPrefixListings  = "cache:listings"
	KeyPrefixListing   = "cache:listing"
	KeyPrefixCities    = "cache:cities"
	KeyPrefixCity      = "cache:city"
	KeyPrefixStates    = "cache:states"
	KeyPrefixState     = "cache:state"
	KeyPrefixServices  = "cache:services"
	KeyPrefixService   = "cache:service"
	KeyPrefixFeatured  = "cache:featured-service"
	KeyPrefixBasicInfo = "cache:basic-info"
)

// Options selects and configures a Cache implementation.
type Options struct {
	RedisURL string
	Disabled bool
}

// New returns a no-op cache when disabled, a Redis cache when a URL is
// configured, and an in-memory cache otherwise.
func New(opts Options) (Cache, error) {
	switch {
	case opts.Disabled:
		return NewNoOpCache(), nil
	case strings.TrimSpace(opts.RedisURL) != "":
		return NewRedisCache(opts.RedisURL)
	default:
		return NewMemoryCache(), nil
	}
}

// Key joins a prefix and its parts with colons.
func Key(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}
	return prefix + ":" + strings.Join(parts, ":")
}

// GetJSON reads key and decodes it into dest. A miss returns ErrCacheMiss.
func GetJSON(ctx context.Context, c Cache, key string, dest any) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode cached %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes value and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cached %s: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}
