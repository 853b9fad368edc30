package geo

import (
	"github.com/OCAP2/kmlscene/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// ComponentType classifies the dominant component of a geometry
type ComponentType uint8

const (
	TypeUnknown ComponentType = iota
	TypePointSet
	TypeLine
	TypePolygon
)

func (t ComponentType) String() string {
	switch t {
	case TypePointSet:
		return "pointset"
	case TypeLine:
		return "line"
	case TypePolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

type shape uint8

const (
	shapePoints shape = iota
	shapeLine
	shapeRing
	shapePolygon
	shapeMulti
)

// Geometry is an immutable parsed geometry. Coordinates are kept in the
// reference system they were parsed in; see Transform.
type Geometry struct {
	shape  shape
	points []core.Position3D   // points, line and ring shapes
	rings  [][]core.Position3D // polygon: outer ring first
	parts  []*Geometry         // multi
}

// NewPoint creates a single-point geometry.
func NewPoint(p core.Position3D) *Geometry {
	return &Geometry{shape: shapePoints, points: []core.Position3D{p}}
}

// NewPointSet creates a geometry of unconnected points.
func NewPointSet(ps []core.Position3D) *Geometry {
	return &Geometry{shape: shapePoints, points: clonePositions(ps)}
}

// NewLineString creates an open line.
func NewLineString(ps []core.Position3D) *Geometry {
	return &Geometry{shape: shapeLine, points: clonePositions(ps)}
}

// NewRing creates a closed line that is not filled.
func NewRing(ps []core.Position3D) *Geometry {
	return &Geometry{shape: shapeRing, points: clonePositions(ps)}
}

// NewPolygon creates a polygon from an outer ring and optional holes.
func NewPolygon(outer []core.Position3D, holes ...[]core.Position3D) *Geometry {
	rings := make([][]core.Position3D, 0, len(holes)+1)
	rings = append(rings, clonePositions(outer))
	for _, h := range holes {
		rings = append(rings, clonePositions(h))
	}
	return &Geometry{shape: shapePolygon, rings: rings}
}

// NewMulti creates a collection. Nil parts are dropped.
func NewMulti(parts ...*Geometry) *Geometry {
	g := &Geometry{shape: shapeMulti}
	for _, p := range parts {
		if p != nil {
			g.parts = append(g.parts, p)
		}
	}
	return g
}

func clonePositions(ps []core.Position3D) []core.Position3D {
	out := make([]core.Position3D, len(ps))
	copy(out, ps)
	return out
}

// ComponentType returns the component classification. A collection takes
// the type of its first part.
func (g *Geometry) ComponentType() ComponentType {
	switch g.shape {
	case shapePoints:
		return TypePointSet
	case shapeLine, shapeRing:
		return TypeLine
	case shapePolygon:
		return TypePolygon
	case shapeMulti:
		if len(g.parts) == 0 {
			return TypeUnknown
		}
		return g.parts[0].ComponentType()
	}
	return TypeUnknown
}

// TotalPointCount returns the number of coordinates across all components.
func (g *Geometry) TotalPointCount() int {
	if g == nil {
		return 0
	}
	n := len(g.points)
	for _, r := range g.rings {
		n += len(r)
	}
	for _, p := range g.parts {
		n += p.TotalPointCount()
	}
	return n
}

// Positions returns every coordinate in traversal order.
func (g *Geometry) Positions() []core.Position3D {
	out := make([]core.Position3D, 0, g.TotalPointCount())
	g.each(func(p core.Position3D) { out = append(out, p) })
	return out
}

func (g *Geometry) each(fn func(core.Position3D)) {
	for _, p := range g.points {
		fn(p)
	}
	for _, r := range g.rings {
		for _, p := range r {
			fn(p)
		}
	}
	for _, part := range g.parts {
		part.each(fn)
	}
}

// Bounds returns the 3D extent of all coordinates.
func (g *Geometry) Bounds() core.Bounds {
	var b core.Bounds
	g.each(b.Expand)
	return b
}

// Parts returns the members of a collection, or nil for simple geometries.
func (g *Geometry) Parts() []*Geometry {
	return g.parts
}

// Rings returns the rings of a polygon, outer ring first.
func (g *Geometry) Rings() [][]core.Position3D {
	return g.rings
}

// Transform returns a copy with every coordinate converted from one system to another.
func (g *Geometry) Transform(from, to SRS) *Geometry {
	out := &Geometry{shape: g.shape}
	if g.points != nil {
		out.points = from.TransformAll(to, g.points)
	}
	for _, r := range g.rings {
		out.rings = append(out.rings, from.TransformAll(to, r))
	}
	for _, p := range g.parts {
		out.parts = append(out.parts, p.Transform(from, to))
	}
	return out
}

// Geom renders the geometry as a simplefeatures geometry with XYZ coordinates.
func (g *Geometry) Geom() geom.Geometry {
	switch g.shape {
	case shapePoints:
		if len(g.points) == 1 {
			return geom.NewPoint(toCoordinates(g.points[0])).AsGeometry()
		}
		pts := make([]geom.Point, len(g.points))
		for i, p := range g.points {
			pts[i] = geom.NewPoint(toCoordinates(p))
		}
		return geom.NewMultiPoint(pts).AsGeometry()
	case shapeLine:
		return geom.NewLineString(toSequence(g.points)).AsGeometry()
	case shapeRing:
		return geom.NewLineString(toSequence(closeRing(g.points))).AsGeometry()
	case shapePolygon:
		rings := make([]geom.LineString, len(g.rings))
		for i, r := range g.rings {
			rings[i] = geom.NewLineString(toSequence(closeRing(r)))
		}
		return geom.NewPolygon(rings).AsGeometry()
	default:
		geoms := make([]geom.Geometry, len(g.parts))
		for i, p := range g.parts {
			geoms[i] = p.Geom()
		}
		return geom.NewGeometryCollection(geoms).AsGeometry()
	}
}

// WKT returns the well-known text form of Geom.
func (g *Geometry) WKT() string {
	return g.Geom().AsText()
}

func toCoordinates(p core.Position3D) geom.Coordinates {
	return geom.Coordinates{
		XY:   geom.XY{X: p.X, Y: p.Y},
		Z:    p.Z,
		Type: geom.DimXYZ,
	}
}

func toSequence(ps []core.Position3D) geom.Sequence {
	flat := make([]float64, 0, len(ps)*3)
	for _, p := range ps {
		flat = append(flat, p.X, p.Y, p.Z)
	}
	return geom.NewSequence(flat, geom.DimXYZ)
}

// closeRing appends the first coordinate when the ring is open.
func closeRing(ps []core.Position3D) []core.Position3D {
	if len(ps) == 0 || ps[0] == ps[len(ps)-1] {
		return ps
	}
	out := clonePositions(ps)
	return append(out, ps[0])
}
