package server

import (
	"sync"
	"time"

	"github.com/mj1618/pinit/internal/model"
)

// WindowCache provides a TTL-based cache for the window list, so agents
// polling list_windows do not enumerate every window on each call.
type WindowCache struct {
	mu        sync.Mutex
	windows   []model.Window
	timestamp time.Time
	valid     bool
	ttl       time.Duration
}

// NewWindowCache creates a new cache. A ttl of 0 disables caching.
func NewWindowCache(ttl time.Duration) *WindowCache {
	return &WindowCache{ttl: ttl}
}

// List returns the cached windows if within TTL, otherwise calls fn.
func (c *WindowCache) List(fn func() ([]model.Window, error)) ([]model.Window, error) {
	if c.ttl <= 0 {
		return fn()
	}

	c.mu.Lock()
	if c.valid && time.Since(c.timestamp) < c.ttl {
		windows := c.windows
		c.mu.Unlock()
		return windows, nil
	}
	c.mu.Unlock()

	windows, err := fn()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.windows = windows
	c.timestamp = time.Now()
	c.valid = true
	c.mu.Unlock()

	return windows, nil
}

// Invalidate drops the cached list.
func (c *WindowCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.windows = nil
	c.valid = false
}
