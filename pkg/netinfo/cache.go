package netinfo

import (
	"context"
	"time"

	"github.com/projectdiscovery/gcache"
)

const cacheKey = "default"

// DefaultCacheExpiration bounds how long a cached configuration is reused
var DefaultCacheExpiration = time.Minute

// Cached queries the wrapped provider once and reuses the answer until it
// expires or Refresh is called.
type Cached struct {
	provider Provider
	cache    gcache.Cache[string, Info]
}

// NewCached wraps provider. A non-positive expiration uses DefaultCacheExpiration.
func NewCached(provider Provider, expiration time.Duration) *Cached {
	if expiration <= 0 {
		expiration = DefaultCacheExpiration
	}
	return &Cached{
		provider: provider,
		cache: gcache.New[string, Info](1).
			LRU().
			Expiration(expiration).
			Build(),
	}
}

// GetLocalNetworkConfig returns the cached configuration, loading it when absent
func (c *Cached) GetLocalNetworkConfig(ctx context.Context) (Info, error) {
	if info, err := c.cache.Get(cacheKey); err == nil {
		return info, nil
	}
	info, err := c.provider.GetLocalNetworkConfig(ctx)
	if err != nil {
		return Info{}, err
	}
	_ = c.cache.Set(cacheKey, info)
	return info, nil
}

// Refresh drops the cached configuration and loads it again
func (c *Cached) Refresh(ctx context.Context) (Info, error) {
	c.cache.Remove(cacheKey)
	return c.GetLocalNetworkConfig(ctx)
}
