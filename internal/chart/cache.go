package chart

import (
	"sync"
	"time"

	"github.com/couchcryptid/flood-flow-dashboard/internal/observability"
)

// FigureBuilder builds a figure for a selection.
type FigureBuilder interface {
	Build(sel Selection) Figure
}

// CachedBuilder wraps a FigureBuilder with an in-memory LRU cache. The
// underlying table never changes, so cached figures stay valid for the life
// of the builder.
type CachedBuilder struct {
	inner   FigureBuilder
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedBuilder creates a cache decorator around a builder.
func NewCachedBuilder(inner FigureBuilder, maxEntries int, metrics *observability.Metrics) *CachedBuilder {
	return &CachedBuilder{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedBuilder) Build(sel Selection) Figure {
	key := sel.Key()
	if fig, ok := c.cache.get(key); ok {
		c.metrics.ChartCache.WithLabelValues("hit").Inc()
		return fig
	}
	c.metrics.ChartCache.WithLabelValues("miss").Inc()

	start := time.Now()
	fig := c.inner.Build(sel)
	c.metrics.ChartBuildDuration.Observe(time.Since(start).Seconds())
	c.metrics.ChartBuilds.Inc()

	c.cache.put(key, fig)
	return fig
}

// lruCache is a simple thread-safe LRU cache of figures.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value Figure
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (Figure, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Figure{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value Figure) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
