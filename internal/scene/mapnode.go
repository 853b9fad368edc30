package scene

import "github.com/OCAP2/kmlscene/internal/geo"

// MapNode is the root of a map scene. Draped features register in its overlay group.
type MapNode struct {
	SRS     geo.SRS
	root    *Group
	overlay *Group
}

// NewMapNode creates a map node rendering in srs.
func NewMapNode(srs geo.SRS) *MapNode {
	return &MapNode{
		SRS:     srs,
		root:    NewGroup("map"),
		overlay: NewGroup("overlay"),
	}
}

// Root returns the top-level container of the map.
func (m *MapNode) Root() *Group {
	return m.root
}

// Overlay returns the group of nodes draped over the terrain.
func (m *MapNode) Overlay() *Group {
	return m.overlay
}
