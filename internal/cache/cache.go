package cache

import (
	"sync"

	"github.com/OCAP2/kmlscene/pkg/core"
)

// DocumentCache keeps the documents started in the current run, keyed by
// source path, so a source is never persisted twice.
type DocumentCache struct {
	m    sync.Mutex
	docs map[string]core.Document
}

func NewDocumentCache() *DocumentCache {
	return &DocumentCache{
		docs: make(map[string]core.Document),
	}
}

func (c *DocumentCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.docs = make(map[string]core.Document)
}

func (c *DocumentCache) Get(source string) (core.Document, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	if d, ok := c.docs[source]; ok {
		return d, true
	}
	return core.Document{}, false
}

// Add stores d under its Source.
func (c *DocumentCache) Add(d core.Document) {
	c.m.Lock()
	defer c.m.Unlock()
	c.docs[d.Source] = d
}

// Remove forgets the document loaded from source.
func (c *DocumentCache) Remove(source string) {
	c.m.Lock()
	defer c.m.Unlock()
	delete(c.docs, source)
}

func (c *DocumentCache) Len() int {
	c.m.Lock()
	defer c.m.Unlock()
	return len(c.docs)
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}

// Add increments the counter by n.
func (c *SafeCounter) Add(n int) {
	c.mu.Lock()
	c.v += n
	c.mu.Unlock()
}
