// Package scene defines the annotation nodes produced from placemarks and the
// containers they are attached to. It holds no rendering state beyond what a
// renderer needs to decide how to draw a node.
package scene

import (
	"maps"
	"slices"

	"github.com/OCAP2/kmlscene/pkg/core"
	"github.com/google/uuid"
)

// Kind identifies the concrete node type.
type Kind uint8

const (
	KindGroup Kind = iota
	KindPlace
	KindLabel
	KindModel
	KindFeature
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindPlace:
		return "place"
	case KindLabel:
		return "label"
	case KindModel:
		return "model"
	case KindFeature:
		return "feature"
	default:
		return "unknown"
	}
}

// Node is the common handle for every attachable scene node.
// Concrete types are *Group, *PlaceNode, *LabelNode, *ModelNode and *FeatureNode.
type Node interface {
	ID() string
	Kind() Kind
	Name() string
	SetName(name string)
	Visible() bool
	SetVisible(v bool)
	StateSet() *StateSet
	Meta(key string) string
	SetMeta(key, value string)
	MetaKeys() []string
	Bounds() core.Bounds
}

// Container receives child nodes.
type Container interface {
	AddChild(n Node)
}

// StateSet carries render hints consumed by the renderer.
type StateSet struct {
	declutter bool
}

// SetDeclutter marks the node as eligible for decluttering.
func (s *StateSet) SetDeclutter(enabled bool) {
	s.declutter = enabled
}

// Declutter reports whether decluttering is enabled.
func (s *StateSet) Declutter() bool {
	return s.declutter
}

// annotation holds the fields shared by all node types.
type annotation struct {
	id     string
	name   string
	hidden bool
	state  StateSet
	meta   map[string]string
}

func newAnnotation() annotation {
	return annotation{id: uuid.NewString()}
}

func (a *annotation) ID() string             { return a.id }
func (a *annotation) Name() string           { return a.name }
func (a *annotation) SetName(name string)    { a.name = name }
func (a *annotation) Visible() bool          { return !a.hidden }
func (a *annotation) SetVisible(v bool)      { a.hidden = !v }
func (a *annotation) StateSet() *StateSet    { return &a.state }
func (a *annotation) Meta(key string) string { return a.meta[key] }

func (a *annotation) SetMeta(key, value string) {
	if a.meta == nil {
		a.meta = make(map[string]string)
	}
	a.meta[key] = value
}

// MetaKeys returns metadata keys in sorted order.
func (a *annotation) MetaKeys() []string {
	return slices.Sorted(maps.Keys(a.meta))
}

func pointBounds(p core.GeoPoint) core.Bounds {
	var b core.Bounds
	b.Expand(p.Position)
	return b
}
