// Package cache stores computed layouts and rendered artifacts.
//
// # Backends
//
//   - [NullCache]: stores nothing; caching disabled
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
//
// # Keys
//
// A [Keyer] derives keys from content hashes and the options that change
// the output, so equal requests share entries:
//
//	key := keyer.LayoutKey(cache.Hash(input), cache.LayoutKeyOpts{Width: 176})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a byte store with per-entry expiration.
// Implementations are safe for concurrent use.
type Cache interface {
	// Get returns the stored value and whether it was found. Expired
	// entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Default entry lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// GetJSON decodes the entry under key into v. It returns ErrCacheMiss when
// the key is absent or the entry does not decode.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !hit {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheMiss, err)
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return c.Set(ctx, key, data, ttl)
}
