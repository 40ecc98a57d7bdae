// Package catcache caches the category name list used to build
// classification prompts. The list is small and changes only on admin
// writes, so it is loaded once and invalidated explicitly.
package catcache

import (
	"context"
	"fmt"
	"sync"
)

// Loader fetches the current category names from the backing store.
type Loader func(ctx context.Context) ([]string, error)

type NameCache struct {
	mu     sync.RWMutex
	names  []string
	loaded bool
	load   Loader
}

func New(load Loader) *NameCache {
	return &NameCache{load: load}
}

// GetOrLoad returns the cached names, loading them on first use. The
// returned slice is a copy; callers may mutate it freely.
func (c *NameCache) GetOrLoad(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	if c.loaded {
		names := append([]string(nil), c.names...)
		c.mu.RUnlock()
		return names, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return append([]string(nil), c.names...), nil
	}
	names, err := c.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load category names: %w", err)
	}
	c.names = names
	c.loaded = true
	return append([]string(nil), c.names...), nil
}

// Invalidate drops the cached list so the next GetOrLoad reloads it.
func (c *NameCache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.names = nil
	c.mu.Unlock()
}
