// Package cache memoizes derived views for the lifetime of a dataset.
//
// Keys are content fingerprints of the computation identity (view name,
// filter parameters, dataset version), not object identities, so
// correctness never depends on reference equality. The dataset version
// is bumped on every successful fetch; Invalidate drops everything.
package cache

import (
	"fmt"
	"sync"

	"github.com/mitchellh/hashstructure/v2"
)

// Key identifies one derived-view computation over one dataset version.
type Key uint64

// Fingerprint derives a Key from the view name, the dataset version, and
// any hashable parameter struct. Hashing a plain struct of strings/ints
// cannot fail; a hash error falls back to a collision-safe-enough
// formatted key so GetOrCompute stays total.
func Fingerprint(view string, version uint64, params any) Key {
	h, err := hashstructure.Hash(struct {
		View    string
		Version uint64
		Params  any
	}{view, version, params}, hashstructure.FormatV2, nil)
	if err != nil {
		h, _ = hashstructure.Hash(fmt.Sprintf("%s|%d|%+v", view, version, params), hashstructure.FormatV2, nil)
	}
	return Key(h)
}

// Cache is a session-scoped store of derived views.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]any
	version uint64
}

// New returns an empty cache at dataset version 1.
func New() *Cache {
	return &Cache{entries: make(map[Key]any), version: 1}
}

// Version is the current dataset version, mixed into fingerprints so
// entries from a replaced ResultSet can never be returned.
func (c *Cache) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Invalidate clears all entries and bumps the dataset version. Call it
// whenever a new fetch replaces the active ResultSet, including forced
// refreshes.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]any)
	c.version++
}

// GetOrCompute returns the cached value for key, computing and storing
// it on first use. Each distinct key is computed at most once per
// dataset version.
func GetOrCompute[T any](c *Cache, key Key, compute func() T) T {
	c.mu.Lock()
	if v, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return v.(T)
	}
	c.mu.Unlock()

	// Compute outside the lock; aggregation can be expensive and the UI
	// loop must not block other readers on it.
	v := compute()

	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
	return v
}

// Len reports the number of cached entries, for tests and debug output.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
