package scene

import (
	"github.com/OCAP2/kmlscene/internal/style"
	"github.com/OCAP2/kmlscene/pkg/core"
)

// PlaceNode is an icon marker with an optional text label.
type PlaceNode struct {
	annotation
	MapNode  *MapNode
	Position core.GeoPoint
	Style    *style.Style
}

// NewPlaceNode creates a place marker. The style is copied.
func NewPlaceNode(mapNode *MapNode, pos core.GeoPoint, st *style.Style) *PlaceNode {
	n := &PlaceNode{annotation: newAnnotation(), MapNode: mapNode, Position: pos, Style: st.Clone()}
	if t := n.Style.Text(); t != nil {
		n.name = t.Content
	}
	return n
}

func (n *PlaceNode) Kind() Kind          { return KindPlace }
func (n *PlaceNode) Bounds() core.Bounds { return pointBounds(n.Position) }

// Text returns the label content, or "" when the style has no text symbol.
func (n *PlaceNode) Text() string {
	if t := n.Style.Text(); t != nil {
		return t.Content
	}
	return ""
}

// LabelNode is a text-only marker.
type LabelNode struct {
	annotation
	MapNode  *MapNode
	Position core.GeoPoint
	Style    *style.Style
}

// NewLabelNode creates a label. The style is copied.
func NewLabelNode(mapNode *MapNode, pos core.GeoPoint, st *style.Style) *LabelNode {
	n := &LabelNode{annotation: newAnnotation(), MapNode: mapNode, Position: pos, Style: st.Clone()}
	if t := n.Style.Text(); t != nil {
		n.name = t.Content
	}
	return n
}

func (n *LabelNode) Kind() Kind          { return KindLabel }
func (n *LabelNode) Bounds() core.Bounds { return pointBounds(n.Position) }

// Text returns the label content.
func (n *LabelNode) Text() string {
	if t := n.Style.Text(); t != nil {
		return t.Content
	}
	return ""
}

// ModelNode places a 3D model.
type ModelNode struct {
	annotation
	MapNode  *MapNode
	Position core.GeoPoint
	Style    *style.Style
}

// NewModelNode creates a model node. The style is copied.
func NewModelNode(mapNode *MapNode, st *style.Style) *ModelNode {
	return &ModelNode{annotation: newAnnotation(), MapNode: mapNode, Style: st.Clone()}
}

// SetPosition moves the model.
func (n *ModelNode) SetPosition(pos core.GeoPoint) {
	n.Position = pos
}

func (n *ModelNode) Kind() Kind          { return KindModel }
func (n *ModelNode) Bounds() core.Bounds { return pointBounds(n.Position) }

// URL returns the model location from the style.
func (n *ModelNode) URL() string {
	if m := n.Style.Model(); m != nil {
		return m.URL
	}
	return ""
}
