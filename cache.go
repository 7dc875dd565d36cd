package spritesort

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Resolution is the cached lookup outcome for one EntityID.
// A non-nil Err is the unresolved marker: the id is not looked up again this run.
type Resolution struct {
	Attributes []string
	Err        error
}

// Resolved reports whether the lookup succeeded.
func (r Resolution) Resolved() bool {
	return r.Err == nil
}

// ResolveFunc performs the lookup for one id on a cache miss.
type ResolveFunc func(ctx context.Context, id EntityID) Resolution

// AttributeCache maps EntityID to Resolution for the lifetime of one run.
// It is safe for concurrent use; at most one ResolveFunc call happens per id.
type AttributeCache struct {
	mu      sync.RWMutex
	entries map[EntityID]Resolution
	group   singleflight.Group
	calls   atomic.Int64
}

// NewAttributeCache returns an empty cache.
func NewAttributeCache() *AttributeCache {
	return &AttributeCache{entries: make(map[EntityID]Resolution)}
}

// GetOrResolve returns the stored Resolution for id, calling fn only when no
// entry exists. Concurrent callers for the same unseen id share one fn call
// and all receive its result.
func (c *AttributeCache) GetOrResolve(ctx context.Context, id EntityID, fn ResolveFunc) Resolution {
	if res, ok := c.lookup(id); ok {
		return res
	}

	v, _, _ := c.group.Do(strconv.Itoa(int(id)), func() (any, error) {
		// A caller that missed above may arrive after the winning call has
		// already stored the entry and left the group.
		if res, ok := c.lookup(id); ok {
			return res, nil
		}
		c.calls.Add(1)
		res := fn(ctx, id)

		c.mu.Lock()
		c.entries[id] = res
		c.mu.Unlock()
		return res, nil
	})
	return v.(Resolution)
}

// Len returns the number of ids with a stored Resolution.
func (c *AttributeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Calls returns how many times a ResolveFunc has been invoked.
func (c *AttributeCache) Calls() int {
	return int(c.calls.Load())
}

// Unresolved returns the number of ids whose lookup failed.
func (c *AttributeCache) Unresolved() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, res := range c.entries {
		if !res.Resolved() {
			n++
		}
	}
	return n
}

func (c *AttributeCache) lookup(id EntityID) (Resolution, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.entries[id]
	return res, ok
}
