package engine

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// resultCache is the engine's only shared mutable state: a bounded LRU of
// committed results plus single-flight de-duplication of in-flight keys.
// Entries are committed only after a pipeline run completes successfully;
// errors and abandoned runs never populate it.
type resultCache struct {
	entries *lru.Cache[string, cacheEntry]
	flight  singleflight.Group
	ttl     time.Duration
}

type cacheEntry struct {
	result   *FilteredResult
	storedAt time.Time
}

func newResultCache(size int, ttl time.Duration) (*resultCache, error) {
	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	return &resultCache{entries: entries, ttl: ttl}, nil
}

// get returns the committed result for key, evicting it first if it has
// outlived the TTL
func (c *resultCache) get(key string) (*FilteredResult, bool) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && time.Since(entry.storedAt) > c.ttl {
		c.entries.Remove(key)
		return nil, false
	}
	return entry.result, true
}

// add commits a successful result for key
func (c *resultCache) add(key string, result *FilteredResult) {
	c.entries.Add(key, cacheEntry{result: result, storedAt: time.Now()})
}

// do runs fn under single-flight for key: concurrent callers with the same
// key share one execution. shared reports whether this caller joined a run
// started by another.
func (c *resultCache) do(key string, fn func() (*FilteredResult, error)) (*FilteredResult, bool, error) {
	v, err, shared := c.flight.Do(key, func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return nil, shared, err
	}
	return v.(*FilteredResult), shared, nil
}
