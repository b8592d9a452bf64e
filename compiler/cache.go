package compiler

import "sync"

// Cache maps final code to the unit instantiated from it. Scripts holding
// a unit count as references; the entry is evicted as soon as the last
// one is released.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	onEvict func(*Unit)
}

type cacheEntry struct {
	unit *Unit
	refs int
}

// NewCache returns an empty cache. onEvict, if set, runs after an entry is
// removed.
func NewCache(onEvict func(*Unit)) *Cache {
	return &Cache{entries: make(map[string]*cacheEntry), onEvict: onEvict}
}

// Get returns the unit cached for code.
func (c *Cache) Get(code string) (*Unit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[code]
	if !ok {
		return nil, false
	}
	return e.unit, true
}

// Insert caches u under its code. It reports false, leaving the cache
// untouched, when the code already has an entry.
func (c *Cache) Insert(u *Unit) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[u.code]; ok {
		return false
	}
	c.entries[u.code] = &cacheEntry{unit: u}
	u.cache = c
	return true
}

// Acquire records a new holder of u. Units not in the cache are ignored.
func (c *Cache) Acquire(u *Unit) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[u.code]; ok && e.unit == u {
		e.refs++
	}
}

// Release drops a holder of u and evicts the entry when none remain. The
// entry is only touched while it still holds u, so releasing a stale unit
// never evicts a newer one cached for the same code.
func (c *Cache) Release(u *Unit) {
	c.mu.Lock()
	e, ok := c.entries[u.code]
	if !ok || e.unit != u {
		c.mu.Unlock()
		return
	}
	e.refs--
	if e.refs > 0 {
		c.mu.Unlock()
		return
	}
	delete(c.entries, u.code)
	c.mu.Unlock()
	if c.onEvict != nil {
		c.onEvict(u)
	}
}

// Discard evicts u regardless of its holders.
func (c *Cache) Discard(u *Unit) {
	c.mu.Lock()
	e, ok := c.entries[u.code]
	if !ok || e.unit != u {
		c.mu.Unlock()
		return
	}
	delete(c.entries, u.code)
	c.mu.Unlock()
	if c.onEvict != nil {
		c.onEvict(u)
	}
}

// Refs returns the number of holders of the entry for code.
func (c *Cache) Refs(code string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[code]; ok {
		return e.refs
	}
	return 0
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear evicts every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	evicted := make([]*Unit, 0, len(c.entries))
	for code, e := range c.entries {
		evicted = append(evicted, e.unit)
		delete(c.entries, code)
	}
	c.mu.Unlock()
	if c.onEvict != nil {
		for _, u := range evicted {
			c.onEvict(u)
		}
	}
}
