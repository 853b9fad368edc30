package kml

import (
	"github.com/OCAP2/kmlscene/internal/geo"
	"github.com/OCAP2/kmlscene/internal/markup"
	"github.com/OCAP2/kmlscene/internal/style"
	"github.com/OCAP2/kmlscene/pkg/core"
)

// DefaultGeometryBuilder parses the KML geometry elements of a placemark.
type DefaultGeometryBuilder struct{}

// Build returns the first geometry found among the placemark's children, or nil.
func (b DefaultGeometryBuilder) Build(conf *markup.Config, cx *Context, st *style.Style) *geo.Geometry {
	for _, child := range conf.Children("") {
		if g, ok := b.buildChild(child, cx, st); ok {
			return g
		}
	}
	return nil
}

// buildChild reports false when child is not a geometry element.
func (b DefaultGeometryBuilder) buildChild(child *markup.Config, cx *Context, st *style.Style) (*geo.Geometry, bool) {
	switch child.Key() {
	case "point":
		parseAltitude(child, st)
		ps := coordinates(child, cx)
		if len(ps) == 0 {
			return nil, true
		}
		return geo.NewPoint(ps[0]), true

	case "linestring":
		parseAltitude(child, st)
		return geo.NewLineString(coordinates(child, cx)), true

	case "linearring":
		parseAltitude(child, st)
		return geo.NewRing(coordinates(child, cx)), true

	case "polygon":
		parseAltitude(child, st)
		outer := coordinates(child.Child("outerboundaryis").Child("linearring"), cx)
		var holes [][]core.Position3D
		for _, inner := range child.Children("innerboundaryis") {
			if ring := coordinates(inner.Child("linearring"), cx); len(ring) > 0 {
				holes = append(holes, ring)
			}
		}
		return geo.NewPolygon(outer, holes...), true

	case "multigeometry":
		var parts []*geo.Geometry
		for _, part := range child.Children("") {
			if g, ok := b.buildChild(part, cx, st); ok && g != nil {
				parts = append(parts, g)
			}
		}
		return geo.NewMulti(parts...), true

	case "model":
		return buildModel(child, cx, st), true
	}
	return nil, false
}

// buildModel places a ModelSymbol at the model's location.
func buildModel(conf *markup.Config, cx *Context, st *style.Style) *geo.Geometry {
	parseAltitude(conf, st)

	loc := conf.Child("location")
	if loc == nil {
		cx.logger().Warn("model has no location")
		return nil
	}
	pos := core.Position3D{
		X: parseFloat(loc.Value("longitude"), 0),
		Y: parseFloat(loc.Value("latitude"), 0),
		Z: parseFloat(loc.Value("altitude"), 0),
	}

	if href := conf.Child("link").Value("href"); href != "" {
		st.Add(&style.ModelSymbol{
			URL:     href,
			Scale:   parseFloat(conf.Child("scale").Value("x"), 1),
			Heading: parseFloat(conf.Child("orientation").Value("heading"), 0),
		})
	}
	return geo.NewPoint(pos)
}

func coordinates(conf *markup.Config, cx *Context) []core.Position3D {
	raw := conf.Value("coordinates")
	ps, err := geo.ParseCoordinates(raw)
	if err != nil {
		cx.logger().Warn("skipping malformed coordinates", "coordinates", raw, "error", err)
		return nil
	}
	return ps
}

// parseAltitude maps a declared KML altitudeMode of a geometry element onto
// the style's altitude and extrusion symbols. An undeclared mode leaves the
// style untouched. Clamped geometry never extrudes.
func parseAltitude(conf *markup.Config, st *style.Style) {
	extrude := conf.Value("extrude") == "1"

	switch conf.Value("altitudemode") {
	case "":
		return
	case "clampToGround", "clampToSeaFloor":
		st.GetOrCreateAltitude().Clamping = style.ClampToTerrain
		return
	case "relativeToGround", "relativeToSeaFloor":
		st.GetOrCreateAltitude().Clamping = style.ClampRelativeToTerrain
	case "absolute":
		st.GetOrCreateAltitude().Clamping = style.ClampNone
	default:
		return
	}

	if extrude {
		st.GetOrCreateExtrusion()
	}
}
