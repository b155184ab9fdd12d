package utilities

import (
	"sync"

	"github.com/antonio-alexander/go-employee-stats/internal/data"
)

type counter struct {
	hit  int
	miss int
}

type cacheCounter struct {
	sync.RWMutex
	counters map[string]*counter
}

// Counter keeps track of cache hits and misses per key (e.g. the
// operation that attempted to read from the cache)
type Counter interface {
	Read(key string) (hitCount, missCount int)
	ReadAll() *data.CacheCounters
	IncrementHit(key string) (hitCount int)
	IncrementMiss(key string) (missCount int)
	Reset()
}

func NewCounter() Counter {
	return &cacheCounter{
		counters: make(map[string]*counter),
	}
}

func (c *cacheCounter) get(key string) *counter {
	cntr, found := c.counters[key]
	if !found {
		cntr = &counter{}
		c.counters[key] = cntr
	}
	return cntr
}

func (c *cacheCounter) Read(key string) (int, int) {
	c.RLock()
	defer c.RUnlock()

	if counter, found := c.counters[key]; found {
		return counter.hit, counter.miss
	}
	return -1, -1
}

func (c *cacheCounter) ReadAll() *data.CacheCounters {
	c.RLock()
	defer c.RUnlock()

	counters := &data.CacheCounters{
		CounterHits:   make(map[string]int, len(c.counters)),
		CounterMisses: make(map[string]int, len(c.counters)),
	}
	for key, value := range c.counters {
		counters.CounterHits[key] = value.hit
		counters.CounterMisses[key] = value.miss
	}
	return counters
}

func (c *cacheCounter) Reset() {
	c.Lock()
	defer c.Unlock()

	c.counters = make(map[string]*counter)
}

func (c *cacheCounter) IncrementHit(key string) int {
	c.Lock()
	defer c.Unlock()

	cntr := c.get(key)
	cntr.hit++
	return cntr.hit
}

func (c *cacheCounter) IncrementMiss(key string) int {
	c.Lock()
	defer c.Unlock()

	cntr := c.get(key)
	cntr.miss++
	return cntr.miss
}
