package source

import (
	"context"
	"time"

	"github.com/matzehuels/biotree/pkg/observability"
)

const cacheKeyType = "doc"

func observabilityCacheHit(ctx context.Context)  { observability.Cache().OnCacheHit(ctx, cacheKeyType) }
func observabilityCacheMiss(ctx context.Context) { observability.Cache().OnCacheMiss(ctx, cacheKeyType) }
func observabilityCacheSet(ctx context.Context, size int) {
	observability.Cache().OnCacheSet(ctx, cacheKeyType, size)
}

// instrument reports a fetch to the registered source hooks.
func instrument(ctx context.Context, kind, location string, fetch func() ([]byte, error)) ([]byte, error) {
	hooks := observability.Source()
	hooks.OnFetch(ctx, kind, location)
	start := time.Now()
	data, err := fetch()
	hooks.OnFetchComplete(ctx, kind, location, len(data), time.Since(start), err)
	return data, err
}
