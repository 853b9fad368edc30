package style

import "image/color"

// Symbol is one rendering intent.
type Symbol interface {
	Kind() Kind
	Clone() Symbol
}

// Clamping describes how altitude relates to the terrain.
// ClampUnset means no clamping was declared.
type Clamping uint8

const (
	ClampUnset Clamping = iota
	ClampNone
	ClampToTerrain
	ClampRelativeToTerrain
	ClampAbsolute
)

func (c Clamping) String() string {
	switch c {
	case ClampNone:
		return "none"
	case ClampToTerrain:
		return "terrain"
	case ClampRelativeToTerrain:
		return "relative"
	case ClampAbsolute:
		return "absolute"
	default:
		return "unset"
	}
}

// IconSymbol renders a point as an image marker.
type IconSymbol struct {
	URL     string
	Scale   float64
	Heading float64
}

func (s *IconSymbol) Kind() Kind { return KindIcon }

func (s *IconSymbol) Clone() Symbol {
	c := *s
	return &c
}

// ModelSymbol renders a point as a 3D model.
type ModelSymbol struct {
	URL     string
	Scale   float64
	Heading float64
}

func (s *ModelSymbol) Kind() Kind { return KindModel }

func (s *ModelSymbol) Clone() Symbol {
	c := *s
	return &c
}

// TextSymbol renders a text label. Content is the literal text.
type TextSymbol struct {
	Content string
	Size    float64
	Fill    color.RGBA
}

func (s *TextSymbol) Kind() Kind { return KindText }

func (s *TextSymbol) Clone() Symbol {
	c := *s
	return &c
}

// ExtrusionSymbol turns a footprint into a volume.
type ExtrusionSymbol struct {
	Height  float64
	Flatten bool
}

func (s *ExtrusionSymbol) Kind() Kind { return KindExtrusion }

func (s *ExtrusionSymbol) Clone() Symbol {
	c := *s
	return &c
}

// AltitudeSymbol controls terrain clamping.
type AltitudeSymbol struct {
	Clamping Clamping
}

func (s *AltitudeSymbol) Kind() Kind { return KindAltitude }

func (s *AltitudeSymbol) Clone() Symbol {
	c := *s
	return &c
}

// IsSetTo reports whether clamping was declared and equals c.
func (s *AltitudeSymbol) IsSetTo(c Clamping) bool {
	return s.Clamping != ClampUnset && s.Clamping == c
}

// LineSymbol strokes lines and polygon outlines.
type LineSymbol struct {
	Stroke color.RGBA
	Width  float64
}

func (s *LineSymbol) Kind() Kind { return KindLine }

func (s *LineSymbol) Clone() Symbol {
	c := *s
	return &c
}

// PolygonSymbol fills polygons.
type PolygonSymbol struct {
	Fill    color.RGBA
	Filled  bool
	Outline bool
}

func (s *PolygonSymbol) Kind() Kind { return KindPolygon }

func (s *PolygonSymbol) Clone() Symbol {
	c := *s
	return &c
}
