package cache

import (
	"slices"
	"sync"
)

// NodeCache maps placemark names to the IDs of the nodes built for them
type NodeCache struct {
	mu    sync.RWMutex
	nodes map[string][]string
}

// NewNodeCache creates a new NodeCache
func NewNodeCache() *NodeCache {
	return &NodeCache{
		nodes: make(map[string][]string),
	}
}

// Get returns a copy of the node IDs recorded for name
func (c *NodeCache) Get(name string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids, ok := c.nodes[name]
	return slices.Clone(ids), ok
}

// Add records node IDs under name. Placemark names are not unique, so IDs accumulate.
func (c *NodeCache) Add(name string, ids ...string) {
	if len(ids) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes[name] = append(c.nodes[name], ids...)
}

// Delete removes ids from name, or the whole name when no ids are given.
// A name left without IDs is dropped.
func (c *NodeCache) Delete(name string, ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(ids) == 0 {
		delete(c.nodes, name)
		return
	}
	kept := slices.DeleteFunc(c.nodes[name], func(id string) bool {
		return slices.Contains(ids, id)
	})
	if len(kept) == 0 {
		delete(c.nodes, name)
		return
	}
	c.nodes[name] = kept
}

// Len returns the number of distinct names
func (c *NodeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.nodes)
}

// Reset clears all entries from the cache
func (c *NodeCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes = make(map[string][]string)
}
