package server

import (
	"sort"
	"sync"
	"time"

	"github.com/HBDK/Tilted/internal/db"
)

// ReadingCache is a thread-safe in-memory cache of the newest reading per
// sensor. Entries expire after the TTL so sensors that stopped reporting drop
// out of the latest view instead of showing stale data forever.
type ReadingCache struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[string]cacheEntry
}

type cacheEntry struct {
	r  db.LatestReading
	at time.Time
}

// NewReadingCache creates a cache with the given TTL. If ttl <= 0, it
// defaults to 1h.
func NewReadingCache(ttl time.Duration) *ReadingCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ReadingCache{ttl: ttl, data: make(map[string]cacheEntry, 16)}
}

// Set stores the reading as the newest for its sensor.
func (c *ReadingCache) Set(r db.LatestReading) {
	c.mu.Lock()
	c.data[r.SensorID] = cacheEntry{r: r, at: time.Now()}
	c.mu.Unlock()
}

// Get returns the cached reading if it exists and hasn't expired.
func (c *ReadingCache) Get(sensorID string) (db.LatestReading, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.data[sensorID]
	if !ok {
		return db.LatestReading{}, false
	}
	if time.Since(e.at) > c.ttl {
		delete(c.data, sensorID)
		return db.LatestReading{}, false
	}
	return e.r, true
}

// All returns the unexpired readings ordered by sensor ID.
func (c *ReadingCache) All() []db.LatestReading {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]db.LatestReading, 0, len(c.data))
	for id, e := range c.data {
		if time.Since(e.at) > c.ttl {
			delete(c.data, id)
			continue
		}
		out = append(out, e.r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SensorID < out[j].SensorID })
	return out
}
