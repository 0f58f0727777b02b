// Package cache provides a small in-memory TTL cache for the dashboard
// summary list. Summary recomputation fans out to the model service for
// every resident, so the handler layer caches the result briefly and
// invalidates explicitly on any observation write.
package cache

import (
	"log"
	"sync"
	"time"

	"github.com/carebridge/wellness-service/internal/core/domain"
)

const janitorInterval = 10 * time.Minute

type entry struct {
	summaries []*domain.ResidentSummary
	expiresAt time.Time
}

// SummaryCache is a TTL cache keyed by an opaque string (the request's
// filter key). Safe for concurrent use.
type SummaryCache struct {
	ttl         time.Duration
	entries     sync.Map
	janitorStop chan bool
}

// NewSummaryCache creates a summary cache with the given TTL and starts
// the background janitor.
func NewSummaryCache(ttl time.Duration) *SummaryCache {
	c := &SummaryCache{
		ttl:         ttl,
		janitorStop: make(chan bool),
	}
	go c.startJanitor(janitorInterval)
	return c
}

// Get returns the cached summaries for key, or false when absent or
// expired.
func (c *SummaryCache) Get(key string) ([]*domain.ResidentSummary, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		return nil, false
	}
	e := v.(entry)
	if time.Now().After(e.expiresAt) {
		c.entries.Delete(key)
		return nil, false
	}
	return e.summaries, true
}

// Set stores summaries under key for the cache's TTL
func (c *SummaryCache) Set(key string, summaries []*domain.ResidentSummary) {
	c.entries.Store(key, entry{
		summaries: summaries,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// Invalidate drops one key
func (c *SummaryCache) Invalidate(key string) {
	c.entries.Delete(key)
}

// Clear drops every cached entry. Called after observation writes: any
// write can flip a resident's risk level or attention flag.
func (c *SummaryCache) Clear() {
	c.entries.Range(func(key, _ interface{}) bool {
		c.entries.Delete(key)
		return true
	})
}

// startJanitor periodically sweeps expired entries
func (c *SummaryCache) startJanitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			deleted := 0
			c.entries.Range(func(key, value interface{}) bool {
				if e, ok := value.(entry); ok && now.After(e.expiresAt) {
					c.entries.Delete(key)
					deleted++
				}
				return true
			})
			if deleted > 0 {
				log.Printf("Summary cache janitor: purged %d expired entries", deleted)
			}
		case <-c.janitorStop:
			return
		}
	}
}

// Stop stops the background janitor (for graceful shutdown)
func (c *SummaryCache) Stop() {
	close(c.janitorStop)
}
