// Package index keeps a spatial index of built annotation nodes.
package index

import (
	"sync"

	"github.com/OCAP2/kmlscene/internal/scene"
	"github.com/OCAP2/kmlscene/pkg/core"
	"github.com/dhconnelly/rtreego"
)

// epsilon is the minimum edge of an indexed box. R-tree rectangles must
// have non-zero size, so points get a ~11m box at the equator.
const epsilon = 0.0001

// entry wraps a node for R-tree storage.
type entry struct {
	node   scene.Node
	bounds core.Bounds
}

// Bounds implements rtreego.Spatial.
func (e *entry) Bounds() rtreego.Rect {
	return toRect(e.bounds)
}

func toRect(b core.Bounds) rtreego.Rect {
	point := rtreego.Point{b.MinX, b.MinY}
	lengths := []float64{
		max(b.MaxX-b.MinX, epsilon),
		max(b.MaxY-b.MinY, epsilon),
	}
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

// Index is a thread-safe 2D R-tree over node bounds.
type Index struct {
	mu   sync.RWMutex
	tree *rtreego.Rtree
	byID map[string]*entry
}

// New creates an empty index.
func New() *Index {
	return &Index{
		tree: rtreego.NewTree(2, 25, 50),
		byID: make(map[string]*entry),
	}
}

// Insert adds n. Nodes without bounds are not indexed and Insert reports false.
// Re-inserting a node replaces its previous entry.
func (ix *Index) Insert(n scene.Node) bool {
	b := n.Bounds()
	if !b.Valid {
		return false
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if old, ok := ix.byID[n.ID()]; ok {
		ix.tree.Delete(old)
	}
	e := &entry{node: n, bounds: b}
	ix.tree.Insert(e)
	ix.byID[n.ID()] = e
	return true
}

// InsertTree indexes every non-group node under root and returns how many were added.
func (ix *Index) InsertTree(root scene.Node) int {
	added := 0
	scene.Walk(root, func(n scene.Node, _ *scene.Group, _ int) bool {
		if n.Kind() != scene.KindGroup && ix.Insert(n) {
			added++
		}
		return true
	})
	return added
}

// Remove drops the node with the given ID.
func (ix *Index) Remove(id string) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	e, ok := ix.byID[id]
	if !ok {
		return false
	}
	delete(ix.byID, id)
	return ix.tree.Delete(e)
}

// Search returns the nodes whose bounds intersect b.
func (ix *Index) Search(b core.Bounds) []scene.Node {
	if !b.Valid {
		return nil
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	spatials := ix.tree.SearchIntersect(toRect(b))
	out := make([]scene.Node, 0, len(spatials))
	for _, s := range spatials {
		out = append(out, s.(*entry).node)
	}
	return out
}

// Nearest returns up to k nodes closest to p.
func (ix *Index) Nearest(p core.Position3D, k int) []scene.Node {
	if k <= 0 {
		return nil
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	spatials := ix.tree.NearestNeighbors(k, rtreego.Point{p.X, p.Y})
	out := make([]scene.Node, 0, len(spatials))
	for _, s := range spatials {
		if s == nil {
			continue
		}
		out = append(out, s.(*entry).node)
	}
	return out
}

// Len returns the number of indexed nodes.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.byID)
}
