// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"database/sql"
	"encoding/json"

	"github.com/OCAP2/kmlscene/internal/model"
	"github.com/OCAP2/kmlscene/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

// position3DToPoint converts a core.Position3D to a 2D geom.Point; Z is stored separately
func position3DToPoint(p core.Position3D) geom.Point {
	coords := geom.Coordinates{XY: geom.XY{X: p.X, Y: p.Y}, Type: geom.DimXY}
	return geom.NewPoint(coords)
}

// symbolsToJSON converts a []string to datatypes.JSON for DB storage.
func symbolsToJSON(symbols []string) datatypes.JSON {
	if len(symbols) == 0 {
		return datatypes.JSON("[]")
	}
	data, _ := json.Marshal(symbols)
	return datatypes.JSON(data)
}

func metadataToJSON(meta map[string]string) datatypes.JSON {
	if len(meta) == 0 {
		return datatypes.JSON("{}")
	}
	data, _ := json.Marshal(meta)
	return datatypes.JSON(data)
}

// CoreToDocument converts a core.Document to a GORM model.Document.
func CoreToDocument(d core.Document) model.Document {
	doc := model.Document{
		Name:       d.Name,
		Source:     d.Source,
		LoadedAt:   d.LoadedAt,
		Placemarks: d.Placemark,
		Built:      d.Built,
	}
	doc.ID = d.ID
	return doc
}

// CoreToSceneNode converts a core.NodeRecord to a GORM model.SceneNode.
// ordinal is the record's position in walk order.
func CoreToSceneNode(r core.NodeRecord, ordinal uint) model.SceneNode {
	var parent sql.NullString
	if r.ParentID != "" {
		parent = sql.NullString{String: r.ParentID, Valid: true}
	}

	return model.SceneNode{
		ID:           r.ID,
		DocumentID:   r.DocumentID,
		ParentID:     parent,
		Ordinal:      ordinal,
		Kind:         r.Kind,
		Name:         r.Name,
		EPSG:         r.Position.EPSG,
		AltitudeMode: r.Position.AltitudeMode.String(),
		Position:     position3DToPoint(r.Position.Position),
		Elevation:    r.Position.Position.Z,
		Bounds: model.Bounds{
			MinX:  r.Bounds.MinX,
			MinY:  r.Bounds.MinY,
			MinZ:  r.Bounds.MinZ,
			MaxX:  r.Bounds.MaxX,
			MaxY:  r.Bounds.MaxY,
			MaxZ:  r.Bounds.MaxZ,
			Valid: r.Bounds.Valid,
		},
		Draped:     r.Draped,
		Instancing: r.Instancing,
		Declutter:  r.Declutter,
		Visible:    r.Visible,
		Symbols:    symbolsToJSON(r.Symbols),
		Metadata:   metadataToJSON(r.Metadata),
		Geometry:   r.Geometry,
	}
}

// CoreToBuildRun converts core.BuildStats to a GORM model.BuildRun.
func CoreToBuildRun(documentID uint, s core.BuildStats) model.BuildRun {
	return model.BuildRun{
		DocumentID: documentID,
		Placemarks: uint(s.Placemarks),
		Skipped:    uint(s.Skipped),
		Places:     uint(s.Places),
		Labels:     uint(s.Labels),
		Models:     uint(s.Models),
		Features:   uint(s.Features),
		Groups:     uint(s.Groups),
		DurationMs: float64(s.Duration.Microseconds()) / 1000,
	}
}
