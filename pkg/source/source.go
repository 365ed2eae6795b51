// Package source fetches raw hierarchy documents.
//
// A [Source] yields the bytes of one JSON document; decoding is left to
// package hierarchy. [Open] picks an implementation from a location string:
//
//	tree.json, file:///data/tree.json         -> File
//	https://example.org/tree.json             -> HTTP
//	mongodb://host/db?collection=c&name=n     -> Mongo
//
// Fetches run once. Failures are reported with the NETWORK_ERROR code (or
// NOT_FOUND for missing files and documents) and are never retried.
package source

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/biotree/pkg/cache"
	"github.com/matzehuels/biotree/pkg/errors"
)

// ErrUnsupported is wrapped by [Open] for locations it cannot serve.
var ErrUnsupported = stderrors.New("unsupported source")

// Source yields the raw bytes of a hierarchy document.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)

	// String returns the location for logs and cache keys.
	String() string
}

// DefaultTTL is how long fetched remote documents stay cached.
const DefaultTTL = 24 * time.Hour

// maxDocumentSize bounds how much of a remote document is read.
const maxDocumentSize = 64 << 20

type options struct {
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	refresh bool
	client  *http.Client
}

// Option configures sources created by [Open], [NewHTTP] and [NewMongo].
type Option func(*options)

// WithCache stores fetched remote documents in c.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(o *options) {
		if c != nil {
			o.cache = c
		}
		o.ttl = ttl
	}
}

// WithKeyer overrides the cache key scheme.
func WithKeyer(k cache.Keyer) Option {
	return func(o *options) {
		if k != nil {
			o.keyer = k
		}
	}
}

// WithRefresh bypasses cached entries. Fresh results are still stored.
func WithRefresh(refresh bool) Option {
	return func(o *options) { o.refresh = refresh }
}

// WithHTTPClient replaces the HTTP client used by HTTP sources.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.client = c
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		cache:  cache.NewNullCache(),
		keyer:  cache.NewDefaultKeyer(),
		ttl:    DefaultTTL,
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open returns the source for location.
func Open(location string, opts ...Option) (Source, error) {
	switch {
	case location == "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "document source cannot be empty")
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewHTTP(location, opts...)
	case strings.HasPrefix(location, "mongodb://"), strings.HasPrefix(location, "mongodb+srv://"):
		return NewMongo(location, opts...)
	case strings.HasPrefix(location, "file://"):
		return NewFile(strings.TrimPrefix(location, "file://")), nil
	case strings.Contains(location, "://"):
		scheme, _, _ := strings.Cut(location, "://")
		return nil, errors.Wrap(errors.ErrCodeUnsupported, ErrUnsupported, "scheme %q", scheme)
	default:
		return NewFile(location), nil
	}
}

// cached wraps a remote fetch with the configured cache. Cache failures are
// ignored: the document is fetched as if the entry were missing.
func (o options) cached(ctx context.Context, location string, fetch func() ([]byte, error)) ([]byte, error) {
	key := o.keyer.DocumentKey(location)
	if !o.refresh {
		if data, err := cache.MustGet(ctx, o.cache, key); err == nil {
			observabilityCacheHit(ctx)
			return data, nil
		}
		observabilityCacheMiss(ctx)
	}

	data, err := fetch()
	if err != nil {
		return nil, err
	}
	if err := o.cache.Set(ctx, key, data, o.ttl); err == nil {
		observabilityCacheSet(ctx, len(data))
	}
	return data, nil
}
