package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// RistrettoRatesCache caches the rate mapping per base currency. The entry TTL
// is read from ttl() at Set time, so interval edits apply on the next write.
type RistrettoRatesCache struct {
	cache *ristretto.Cache
	ttl   func() time.Duration
}

func NewRatesCache(maxItems int64, ttl func() time.Duration) (*RistrettoRatesCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
		// Each entry costs 1; without this ristretto adds ~80 bytes of
		// internal cost per item, blowing the budget after one entry and
		// evicting every base on the next write.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create rates cache failed: %w", err)
	}
	return &RistrettoRatesCache{cache: c, ttl: ttl}, nil
}

func (c *RistrettoRatesCache) Get(base string) (map[string]float64, bool) {
	if v, ok := c.cache.Get(base); ok {
		rates, ok := v.(map[string]float64)
		return rates, ok
	}
	return nil, false
}

func (c *RistrettoRatesCache) Set(base string, rates map[string]float64) {
	c.cache.SetWithTTL(base, rates, 1, c.ttl())
	// ristretto applies writes asynchronously; readers must observe the entry
	// as soon as Set returns
	c.cache.Wait()
}

func (c *RistrettoRatesCache) Invalidate(base string) {
	c.cache.Del(base)
}

func (c *RistrettoRatesCache) InvalidateAll() {
	c.cache.Clear()
}

func (c *RistrettoRatesCache) IsFresh(base string) bool {
	_, ok := c.Get(base)
	return ok
}

func (c *RistrettoRatesCache) Close() { c.cache.Close() }
