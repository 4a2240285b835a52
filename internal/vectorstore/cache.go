package vectorstore

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kailas-cloud/unidex/internal/domain/search/mode"
	"github.com/kailas-cloud/unidex/internal/domain/search/request"
	"github.com/kailas-cloud/unidex/internal/domain/search/result"
)

// defaultCacheTTL bounds query-result cache entry lifetime.
const defaultCacheTTL = 5 * time.Minute

// cacheKey normalizes a request into the cache key: lowercased query plus
// every option that affects the result set.
func cacheKey(m mode.Mode, req *request.Request) string {
	return fmt.Sprintf("%s|%s|%s|%s|%d|%g",
		m,
		strings.ToLower(req.Query()),
		req.Domain(),
		req.EntityType(),
		req.TopK(),
		req.Threshold(),
	)
}

type cacheEntry struct {
	results    []result.Result
	insertedAt time.Time
}

// queryCache is the TTL-evicting query-result cache, created lazily on first
// search and cleared on demand or expiry.
type queryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

func newQueryCache(ttl time.Duration) *queryCache {
	return &queryCache{ttl: ttl, now: time.Now}
}

// Get returns cached results when present and unexpired. Expired entries are
// evicted on access.
func (c *queryCache) Get(key string) ([]result.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries == nil {
		return nil, false
	}
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.insertedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.results, true
}

// Put stores results under key.
func (c *queryCache) Put(key string, results []result.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries == nil {
		c.entries = make(map[string]cacheEntry)
	}
	c.entries[key] = cacheEntry{results: results, insertedAt: c.now()}
}

// Clear purges all entries.
func (c *queryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}

// EntryInfo describes one cache entry for observability. Age is reported in
// whole minutes.
type EntryInfo struct {
	Key        string `json:"key"`
	AgeMinutes int    `json:"ageMinutes"`
}

// CacheStats holds cache observability data.
type CacheStats struct {
	Count   int         `json:"count"`
	Entries []EntryInfo `json:"entries"`
}

// stats snapshots the live (unexpired) entries.
func (c *queryCache) stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := CacheStats{Entries: []EntryInfo{}}
	now := c.now()
	for key, entry := range c.entries {
		age := now.Sub(entry.insertedAt)
		if age > c.ttl {
			continue
		}
		stats.Entries = append(stats.Entries, EntryInfo{
			Key:        key,
			AgeMinutes: int(age.Minutes()),
		})
	}
	stats.Count = len(stats.Entries)
	return stats
}

// ClearCache purges the query-result cache.
func (s *Store) ClearCache() {
	s.cache.Clear()
}

// GetCacheStats reports query cache contents with entry ages in minutes.
func (s *Store) GetCacheStats() CacheStats {
	return s.cache.stats()
}
