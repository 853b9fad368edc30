package scene

import "github.com/OCAP2/kmlscene/pkg/core"

// Group is a plain container node.
type Group struct {
	annotation
	children []Node
}

// NewGroup creates an empty group.
func NewGroup(name string) *Group {
	g := &Group{annotation: newAnnotation()}
	g.name = name
	return g
}

func (g *Group) Kind() Kind { return KindGroup }

// AddChild appends n. Nil nodes are ignored.
func (g *Group) AddChild(n Node) {
	if n == nil {
		return
	}
	g.children = append(g.children, n)
}

// RemoveChild removes the first occurrence of n and reports whether it was found.
func (g *Group) RemoveChild(n Node) bool {
	for i, c := range g.children {
		if c == n {
			g.children = append(g.children[:i], g.children[i+1:]...)
			return true
		}
	}
	return false
}

// Children returns the direct children in attach order.
func (g *Group) Children() []Node {
	return g.children
}

// NumChildren returns the number of direct children.
func (g *Group) NumChildren() int {
	return len(g.children)
}

// Bounds is the union of the children's bounds.
func (g *Group) Bounds() core.Bounds {
	var b core.Bounds
	for _, c := range g.children {
		b = b.Union(c.Bounds())
	}
	return b
}
