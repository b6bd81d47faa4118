// Package timeparse memoizes the decomposition of raw server timestamp
// strings into display date/time components. The split is purely
// textual: the returned values are byte-identical slices of the
// server-provided wall-clock string, never timezone-converted.
package timeparse

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/campuspulse/activity-rank/internal/model"
)

// DefaultMaxEntries bounds the cache. Once full the cache stops
// storing new entries until invalidated; correctness is unaffected,
// only the memoization benefit is lost.
const DefaultMaxEntries = 100

// Cache is a concurrent-safe, bounded memoization layer over Split.
// It is an explicit injectable object rather than a package-level
// singleton so tests can construct isolated instances and assert on
// hit/miss behavior.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]model.ParsedTimestamp
	maxEntries int
	hits       atomic.Int64
	misses     atomic.Int64
}

// Stats reports cache performance counters.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// NewCache creates a Cache bounded to maxEntries live entries.
// A non-positive bound falls back to DefaultMaxEntries.
func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		entries:    make(map[string]model.ParsedTimestamp),
		maxEntries: maxEntries,
	}
}

// Parse returns the date/time decomposition of raw, memoized. On a hit
// the cached value is returned with no recomputation.
func (c *Cache) Parse(raw string) model.ParsedTimestamp {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.entries[raw]; ok {
		c.hits.Add(1)
		return cached
	}
	c.misses.Add(1)

	parsed := Split(raw)
	if len(c.entries) < c.maxEntries {
		c.entries[raw] = parsed
	}
	return parsed
}

// Invalidate clears the whole cache. Callers must invoke it on forced
// data refreshes so a new data epoch cannot be served stale memoized
// values for a coincidentally identical raw string.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]model.ParsedTimestamp)
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	entries := len(c.entries)
	c.mu.Unlock()
	return Stats{
		Entries: entries,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

// Split decomposes a raw timestamp string into its date and clock-time
// components without any timezone interpretation. Accepted shapes are
// "YYYY-MM-DD HH:MM[:SS]", "YYYY-MM-DDTHH:MM[:SS...]" and bare
// "YYYY-MM-DD"; anything else degrades to best-effort splitting.
func Split(raw string) model.ParsedTimestamp {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.ParsedTimestamp{}
	}

	sep := strings.IndexAny(raw, " T")
	if sep < 0 {
		return model.ParsedTimestamp{Date: raw}
	}

	clock := raw[sep+1:]
	if len(clock) > 5 {
		clock = clock[:5]
	}
	return model.ParsedTimestamp{Date: raw[:sep], Time: clock}
}
