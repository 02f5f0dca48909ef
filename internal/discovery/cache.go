package discovery

import (
	"fmt"
	"sync"

	"histomap/internal/domain"
)

// Cache holds the process-wide discovery state: classified events (including
// rejection tombstones) keyed by article id, and the set of visited grid
// cells. Entries are write-once per id; the mutex makes it safe under the
// orchestrator's parallel fan-out.
type Cache struct {
	mu       sync.Mutex
	articles map[int]*domain.ClassifiedEvent // nil value = tombstone
	grid     map[string]struct{}
}

// NewCache builds an empty cache.
func NewCache() *Cache {
	return &Cache{
		articles: map[int]*domain.ClassifiedEvent{},
		grid:     map[string]struct{}{},
	}
}

// CellKey renders a grid-cell key at two-decimal precision.
func CellKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f|%.2f", lat, lon)
}

// ClaimCell marks a grid cell visited and reports whether it was new. Cells
// are claimed before their fetch completes, so a failed fetch still burns the
// cell for the session.
func (c *Cache) ClaimCell(lat, lon float64) bool {
	key := CellKey(lat, lon)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.grid[key]; ok {
		return false
	}
	c.grid[key] = struct{}{}
	return true
}

// Contains reports whether the id was already processed, accepted or not.
func (c *Cache) Contains(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.articles[id]
	return ok
}

// StoreEvent records an accepted event.
func (c *Cache) StoreEvent(event domain.ClassifiedEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.articles[event.ID] = &event
}

// StoreTombstone records a permanently rejected id so it is never rescored.
func (c *Cache) StoreTombstone(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.articles[id] = nil
}

// Event returns the cached event for an id; ok is false for tombstones and
// unknown ids alike.
func (c *Cache) Event(id int) (domain.ClassifiedEvent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ev, found := c.articles[id]; found && ev != nil {
		return *ev, true
	}
	return domain.ClassifiedEvent{}, false
}
