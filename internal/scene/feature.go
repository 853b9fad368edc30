package scene

import (
	"github.com/OCAP2/kmlscene/internal/geo"
	"github.com/OCAP2/kmlscene/internal/style"
	"github.com/OCAP2/kmlscene/pkg/core"
)

// Feature is a geometry in a reference system together with its style.
type Feature struct {
	Geometry *geo.Geometry
	SRS      geo.SRS
	Style    *style.Style
}

// NewFeature creates a feature. The style is copied.
func NewFeature(g *geo.Geometry, srs geo.SRS, st *style.Style) *Feature {
	return &Feature{Geometry: g, SRS: srs, Style: st.Clone()}
}

// FeatureNode renders a compiled feature, either at its own altitude or draped
// over the terrain through the map node's overlay group.
type FeatureNode struct {
	annotation
	MapNode    *MapNode
	Feature    *Feature
	Compiled   *geo.Geometry // in the map SRS
	Instancing bool
	draped     bool
}

// NewFeatureNode creates a feature node and applies the draped state.
func NewFeatureNode(mapNode *MapNode, f *Feature, compiled *geo.Geometry, draped, instancing bool) *FeatureNode {
	n := &FeatureNode{
		annotation: newAnnotation(),
		MapNode:    mapNode,
		Feature:    f,
		Compiled:   compiled,
		Instancing: instancing,
	}
	n.SetDraped(draped)
	return n
}

func (n *FeatureNode) Kind() Kind { return KindFeature }

// Bounds returns the extent in the feature's own reference system.
func (n *FeatureNode) Bounds() core.Bounds {
	if n.Feature == nil || n.Feature.Geometry == nil {
		return core.Bounds{}
	}
	return n.Feature.Geometry.Bounds()
}

// Draped reports whether the node is projected onto the terrain.
func (n *FeatureNode) Draped() bool {
	return n.draped
}

// SetDraped toggles draping. Without a map node draping stays disabled.
func (n *FeatureNode) SetDraped(draped bool) {
	if n.MapNode == nil {
		n.draped = false
		return
	}
	if draped == n.draped {
		return
	}
	n.draped = draped
	if draped {
		n.MapNode.Overlay().AddChild(n)
	} else {
		n.MapNode.Overlay().RemoveChild(n)
	}
}
