package recommender

import (
	"sync"
	"time"

	"github.com/REHANAMD/InternGenie/pkg/models"
)

// Cache memoizes ranked recommendation lists per candidate, keyed against a
// catalog generation counter. It is a single-process, in-memory cache; losing
// it on restart is acceptable and every miss degrades to a recompute.
type Cache struct {
	mu         sync.RWMutex
	ttl        time.Duration
	generation uint64
	entries    map[int]*cacheEntry

	now func() time.Time // injectable clock for tests
}

type cacheEntry struct {
	recommendations []models.Recommendation
	generation      uint64
	expiresAt       time.Time
}

// NewCache creates a cache with the given entry TTL
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[int]*cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached list for a candidate if it is fresh: same catalog
// generation and not past its TTL. The returned slice is a copy.
func (c *Cache) Get(candidateID int) ([]models.Recommendation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[candidateID]
	if !ok || entry.generation != c.generation || c.now().After(entry.expiresAt) {
		return nil, false
	}

	out := make([]models.Recommendation, len(entry.recommendations))
	copy(out, entry.recommendations)
	return out, true
}

// Put stores a ranked list for a candidate under the current generation
func (c *Cache) Put(candidateID int, recommendations []models.Recommendation) {
	stored := make([]models.Recommendation, len(recommendations))
	copy(stored, recommendations)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[candidateID] = &cacheEntry{
		recommendations: stored,
		generation:      c.generation,
		expiresAt:       c.now().Add(c.ttl),
	}
}

// InvalidateCandidate drops one candidate's entry (profile update,
// application submitted or withdrawn).
func (c *Cache) InvalidateCandidate(candidateID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, candidateID)
}

// InvalidateCatalog bumps the generation, expiring every entry at once
// (posting created or toggled).
func (c *Cache) InvalidateCatalog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
}

// Generation exposes the current catalog generation for health reporting
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Purge removes expired and stale-generation entries; called periodically by
// the background cleanup task.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := c.now()
	for id, entry := range c.entries {
		if entry.generation != c.generation || now.After(entry.expiresAt) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}
