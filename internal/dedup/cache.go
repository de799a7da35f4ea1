package dedup

import (
	"container/list"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Defaults match the server's configuration defaults.
const (
	DefaultTTL      = 600 * time.Second
	DefaultCapacity = 10000
)

// Config holds cache limits.
type Config struct {
	TTL      time.Duration // Entry lifetime from insertion (default: 600s)
	Capacity int           // Max live entries (default: 10,000)
}

// DefaultConfig returns the standard limits.
func DefaultConfig() Config {
	return Config{
		TTL:      DefaultTTL,
		Capacity: DefaultCapacity,
	}
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Entries     int   `json:"entries"`
	Hits        int64 `json:"hits"`
	Misses      int64 `json:"misses"`
	Stores      int64 `json:"stores"`
	Evictions   int64 `json:"evictions"`   // capacity evictions
	Expirations int64 `json:"expirations"` // entries dropped after TTL
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	clock clockwork.Clock
}

// WithClock sets the time source (tests use a fake clock).
func WithClock(c clockwork.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// Cache is a TTL- and capacity-bounded map from request identity to outcome.
// It is safe for concurrent use.
type Cache[V any] struct {
	ttl      time.Duration
	capacity int
	clock    clockwork.Clock

	mu      sync.Mutex
	order   *list.List // front = oldest insertion
	entries map[string]*list.Element
	stats   Stats
}

// New creates an empty cache. Zero-valued limits fall back to the defaults.
func New[V any](cfg Config, opts ...Option) *Cache[V] {
	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	return &Cache[V]{
		ttl:      cfg.TTL,
		capacity: cfg.Capacity,
		clock:    o.clock,
		order:    list.New(),
		entries:  make(map[string]*list.Element, cfg.Capacity),
	}
}

// Lookup returns the outcome stored for id, if present and not expired.
func (c *Cache[V]) Lookup(id string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.entries[id]
	if !ok {
		c.stats.Misses++
		return zero, false
	}

	e := el.Value.(*entry[V])
	if !c.clock.Now().Before(e.expiresAt) {
		c.removeElement(el)
		c.stats.Expirations++
		c.stats.Misses++
		return zero, false
	}

	c.stats.Hits++
	return e.value, true
}

// Store inserts or overwrites the outcome for id. The TTL restarts from now and
// the entry becomes the newest insertion. The oldest entries are evicted while
// the cache is over capacity.
func (c *Cache[V]) Store(id string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clock.Now().Add(c.ttl)
	c.stats.Stores++

	if el, ok := c.entries[id]; ok {
		e := el.Value.(*entry[V])
		e.value = value
		e.expiresAt = expiresAt
		c.order.MoveToBack(el)
		return
	}

	c.entries[id] = c.order.PushBack(&entry[V]{key: id, value: value, expiresAt: expiresAt})

	for len(c.entries) > c.capacity {
		c.removeElement(c.order.Front())
		c.stats.Evictions++
	}
}

// Purge drops every expired entry and returns how many were removed.
func (c *Cache[V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	removed := 0
	// Insertion order equals expiry order because the TTL is fixed.
	for el := c.order.Front(); el != nil; el = c.order.Front() {
		if now.Before(el.Value.(*entry[V]).expiresAt) {
			break
		}
		c.removeElement(el)
		removed++
	}
	c.stats.Expirations += int64(removed)
	return removed
}

// Len returns the number of physically present entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns current counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = len(c.entries)
	return s
}

// TTL returns the configured entry lifetime.
func (c *Cache[V]) TTL() time.Duration {
	return c.ttl
}

// Capacity returns the configured entry limit.
func (c *Cache[V]) Capacity() int {
	return c.capacity
}

func (c *Cache[V]) removeElement(el *list.Element) {
	e := c.order.Remove(el).(*entry[V])
	delete(c.entries, e.key)
}
