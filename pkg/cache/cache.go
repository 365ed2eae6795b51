// Package cache stores fetched hierarchy documents as opaque bytes.
//
// Three backends share the [Cache] interface:
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON entry file per key under a directory (CLI)
//   - [RedisCache]: a shared Redis instance (server deployments)
//
// Keys are produced by a [Keyer] so that the same document source always maps
// to the same entry regardless of backend:
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().DocumentKey("https://example.org/tree.json")
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by helpers that turn a miss into an error.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// MustGet is Get with a miss reported as [ErrCacheMiss].
func MustGet(ctx context.Context, c Cache, key string) ([]byte, error) {
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, ErrCacheMiss
	}
	return data, nil
}

// Keyer builds cache keys.
type Keyer interface {
	// DocumentKey returns the key for the raw document fetched from source.
	DocumentKey(source string) string
}

// DefaultKeyer hashes the source into a fixed-length key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() DefaultKeyer { return DefaultKeyer{} }

// DocumentKey implements [Keyer].
func (DefaultKeyer) DocumentKey(source string) string {
	return hashKey("doc", source)
}

// ScopedKeyer prefixes every key of an inner Keyer. It keeps several
// deployments apart when they share one Redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner. A nil inner uses [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) *ScopedKeyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DocumentKey implements [Keyer].
func (k *ScopedKeyer) DocumentKey(source string) string {
	return k.prefix + k.inner.DocumentKey(source)
}

var (
	_ Keyer = DefaultKeyer{}
	_ Keyer = (*ScopedKeyer)(nil)
)
