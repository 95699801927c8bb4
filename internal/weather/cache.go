package weather

import (
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when no reading is cached for a coordinate.
var ErrNotFound = errors.New("no weather reading for coordinate")

// Cache is a concurrency-safe in-memory store holding the latest
// reading per coordinate. Readings expire after maxAge (0 = never).
type Cache struct {
	mu     sync.RWMutex
	data   map[string]Reading
	maxAge time.Duration
}

// NewCache creates a Cache with an optional max reading age.
func NewCache(maxAge time.Duration) *Cache {
	return &Cache{
		data:   make(map[string]Reading),
		maxAge: maxAge,
	}
}

// Save stores the latest reading for its coordinate, replacing any
// previous one.
func (c *Cache) Save(reading Reading) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[reading.Coordinate.Key()] = reading
}

// Latest returns the cached reading for a coordinate, or ErrNotFound
// when absent or expired.
func (c *Cache) Latest(coord Coordinate) (Reading, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	reading, ok := c.data[coord.Key()]
	if !ok {
		return Reading{}, ErrNotFound
	}
	if c.maxAge > 0 && time.Since(reading.Timestamp) > c.maxAge {
		return Reading{}, ErrNotFound
	}
	return reading, nil
}
