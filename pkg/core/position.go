// pkg/core/position.go
package core

// Position3D represents a 3D coordinate without GIS dependencies
type Position3D struct {
	X float64 `json:"x"` // longitude or easting
	Y float64 `json:"y"` // latitude or northing
	Z float64 `json:"z"` // altitude
}

// AltitudeMode tells a renderer how to interpret the Z of a position.
// The zero value is AltitudeRelative, matching KML's implicit clamp-to-ground.
type AltitudeMode uint8

const (
	// AltitudeRelative means Z is an offset from the terrain surface.
	AltitudeRelative AltitudeMode = iota
	// AltitudeAbsolute means Z is a height above the vertical datum.
	AltitudeAbsolute
)

func (m AltitudeMode) String() string {
	switch m {
	case AltitudeRelative:
		return "relative"
	case AltitudeAbsolute:
		return "absolute"
	default:
		return "unknown"
	}
}

// GeoPoint is a position in a named reference system.
type GeoPoint struct {
	EPSG         int          `json:"epsg"`
	Position     Position3D   `json:"position"`
	AltitudeMode AltitudeMode `json:"altitudeMode"`
}

// Bounds is an axis-aligned 3D box. An empty Bounds has Valid set to false.
type Bounds struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
	Valid            bool
}

// Expand grows the box to include p.
func (b *Bounds) Expand(p Position3D) {
	if !b.Valid {
		*b = Bounds{MinX: p.X, MinY: p.Y, MinZ: p.Z, MaxX: p.X, MaxY: p.Y, MaxZ: p.Z, Valid: true}
		return
	}
	b.MinX = min(b.MinX, p.X)
	b.MinY = min(b.MinY, p.Y)
	b.MinZ = min(b.MinZ, p.Z)
	b.MaxX = max(b.MaxX, p.X)
	b.MaxY = max(b.MaxY, p.Y)
	b.MaxZ = max(b.MaxZ, p.Z)
}

// Union returns the smallest box containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	if !o.Valid {
		return b
	}
	if !b.Valid {
		return o
	}
	b.Expand(Position3D{X: o.MinX, Y: o.MinY, Z: o.MinZ})
	b.Expand(Position3D{X: o.MaxX, Y: o.MaxY, Z: o.MaxZ})
	return b
}

// Center returns the midpoint of the box.
func (b Bounds) Center() Position3D {
	return Position3D{
		X: (b.MinX + b.MaxX) / 2,
		Y: (b.MinY + b.MaxY) / 2,
		Z: (b.MinZ + b.MaxZ) / 2,
	}
}
