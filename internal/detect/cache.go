package detect

import (
	"sync"
	"time"

	"github.com/embersql/embersql/internal/document"
)

// DefaultCacheTTL is how long a cached region set stays valid even when the
// document version has not changed.
const DefaultCacheTTL = 5000 * time.Millisecond

// RegionCache stores the last computed region list per document, keyed by URI.
// A hit requires an exact version match and a fresh timestamp; either failing,
// the entry is evicted. Entries are replaced wholesale, never mutated.
type RegionCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time // injectable for tests
	entries map[string]cacheEntry
}

type cacheEntry struct {
	version int
	regions []Region
	stamp   time.Time
}

// NewRegionCache creates a cache with the given TTL; ttl <= 0 uses the default.
func NewRegionCache(ttl time.Duration) *RegionCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RegionCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached regions for the document, or false on a version
// mismatch or expired entry (both evict).
func (c *RegionCache) Get(doc *document.Document) ([]Region, bool) {
	if doc == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[doc.URI]
	if !ok {
		return nil, false
	}
	if e.version != doc.Version || c.now().Sub(e.stamp) >= c.ttl {
		delete(c.entries, doc.URI)
		return nil, false
	}
	return e.regions, true
}

// Put stores the region list for the document's current version.
func (c *RegionCache) Put(doc *document.Document, regions []Region) {
	if doc == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[doc.URI] = cacheEntry{
		version: doc.Version,
		regions: regions,
		stamp:   c.now(),
	}
}

// Invalidate drops the entry for a URI. Called on every text change and on
// document close.
func (c *RegionCache) Invalidate(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, uri)
}

// Clear drops all entries.
func (c *RegionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry)
}
