package convert

import (
	"encoding/json"

	"github.com/OCAP2/kmlscene/internal/model"
	"github.com/OCAP2/kmlscene/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// pointToPosition3D converts a geom.Point and its stored elevation to a core.Position3D
func pointToPosition3D(p geom.Point, elevation float64) core.Position3D {
	coord, ok := p.Coordinates()
	if !ok {
		return core.Position3D{Z: elevation}
	}
	return core.Position3D{X: coord.XY.X, Y: coord.XY.Y, Z: elevation}
}

func parseAltitudeMode(s string) core.AltitudeMode {
	if s == core.AltitudeAbsolute.String() {
		return core.AltitudeAbsolute
	}
	return core.AltitudeRelative
}

// DocumentToCore converts a GORM Document to a core.Document.
func DocumentToCore(d model.Document) core.Document {
	return core.Document{
		ID:        d.ID,
		Name:      d.Name,
		Source:    d.Source,
		LoadedAt:  d.LoadedAt,
		Placemark: d.Placemarks,
		Built:     d.Built,
	}
}

// SceneNodeToCore converts a GORM SceneNode to a core.NodeRecord.
func SceneNodeToCore(n model.SceneNode) core.NodeRecord {
	var symbols []string
	if len(n.Symbols) > 0 {
		_ = json.Unmarshal(n.Symbols, &symbols)
	}
	if len(symbols) == 0 {
		symbols = nil
	}

	var meta map[string]string
	if len(n.Metadata) > 0 {
		_ = json.Unmarshal(n.Metadata, &meta)
	}
	if len(meta) == 0 {
		meta = nil
	}

	return core.NodeRecord{
		ID:         n.ID,
		DocumentID: n.DocumentID,
		ParentID:   n.ParentID.String,
		Kind:       n.Kind,
		Name:       n.Name,
		Position: core.GeoPoint{
			EPSG:         n.EPSG,
			Position:     pointToPosition3D(n.Position, n.Elevation),
			AltitudeMode: parseAltitudeMode(n.AltitudeMode),
		},
		Bounds: core.Bounds{
			MinX:  n.Bounds.MinX,
			MinY:  n.Bounds.MinY,
			MinZ:  n.Bounds.MinZ,
			MaxX:  n.Bounds.MaxX,
			MaxY:  n.Bounds.MaxY,
			MaxZ:  n.Bounds.MaxZ,
			Valid: n.Bounds.Valid,
		},
		Draped:     n.Draped,
		Instancing: n.Instancing,
		Declutter:  n.Declutter,
		Visible:    n.Visible,
		Symbols:    symbols,
		Geometry:   n.Geometry,
		Metadata:   meta,
	}
}
