package resolve

import "github.com/sells-group/geocode-cli/internal/model"

// Cache maps canonical addresses to their outcome for the lifetime of the
// process. Entries are never evicted.
type Cache struct {
	entries map[string]model.Outcome
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]model.Outcome)}
}

// Lookup returns the cached outcome for key.
func (c *Cache) Lookup(key string) (model.Outcome, bool) {
	o, ok := c.entries[key]
	return o, ok
}

// Store records the outcome for key.
func (c *Cache) Store(key string, o model.Outcome) {
	c.entries[key] = o
}

// Len returns the number of cached addresses.
func (c *Cache) Len() int {
	return len(c.entries)
}
