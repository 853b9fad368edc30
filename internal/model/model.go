package model

import (
	"database/sql"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Document{},
	&SceneNode{},
	&BuildRun{},
}

////////////////////////
// DOCUMENTS
////////////////////////

// Document is one loaded KML source
type Document struct {
	gorm.Model
	Name       string    `json:"name" gorm:"size:255"`
	Source     string    `json:"source" gorm:"size:1024;index:idx_document_source"`
	LoadedAt   time.Time `json:"loadedAt"`
	Placemarks uint      `json:"placemarks"` // placemarks seen
	Built      uint      `json:"built"`      // placemarks that produced nodes
}

func (*Document) TableName() string {
	return "documents"
}

// BuildRun records the statistics of one document build
type BuildRun struct {
	ID         uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time       time.Time `json:"time" gorm:"index:idx_buildrun_time"`
	DocumentID uint      `json:"documentId" gorm:"index:idx_buildrun_document_id"`
	Document   Document  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:DocumentID;"`
	Placemarks uint      `json:"placemarks"`
	Skipped    uint      `json:"skipped"`
	Places     uint      `json:"places"`
	Labels     uint      `json:"labels"`
	Models     uint      `json:"models"`
	Features   uint      `json:"features"`
	Groups     uint      `json:"groups"`
	DurationMs float64   `json:"durationMs"`
}

func (*BuildRun) TableName() string {
	return "build_runs"
}

////////////////////////
// SCENE
////////////////////////

// SceneNode is one node of a built scene tree
type SceneNode struct {
	ID         string         `json:"id" gorm:"primarykey;size:36"`
	DocumentID uint           `json:"documentId" gorm:"index:idx_scenenode_document_id"`
	Document   Document       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:DocumentID;"`
	ParentID   sql.NullString `json:"parentId" gorm:"size:36;index:idx_scenenode_parent_id"` // null for top-level nodes
	Ordinal    uint           `json:"ordinal"`                                               // walk order within the document
	Kind       string         `json:"kind" gorm:"size:16;index:idx_scenenode_kind"`          // group, place, label, model, feature
	Name       string         `json:"name" gorm:"size:255"`

	EPSG         int        `json:"epsg"`
	AltitudeMode string     `json:"altitudeMode" gorm:"size:16"`
	Position     geom.Point `json:"position"` // Anchor position as 2D point
	Elevation    float64    `json:"elevation"`
	Bounds       Bounds     `json:"bounds" gorm:"embedded;embeddedPrefix:bounds_"`

	Draped     bool           `json:"draped" gorm:"default:false"`
	Instancing bool           `json:"instancing" gorm:"default:false"`
	Declutter  bool           `json:"declutter" gorm:"default:false"`
	Visible    bool           `json:"visible"`
	Symbols    datatypes.JSON `json:"symbols"`
	Metadata   datatypes.JSON `json:"metadata"`
	// Geometry is WKT in the map SRS, set for feature nodes only
	Geometry string `json:"geometry" gorm:"type:text"`
}

func (*SceneNode) TableName() string {
	return "scene_nodes"
}

// Bounds is the extent of a node in its anchor's reference system
type Bounds struct {
	MinX  float64 `json:"minX"`
	MinY  float64 `json:"minY"`
	MinZ  float64 `json:"minZ"`
	MaxX  float64 `json:"maxX"`
	MaxY  float64 `json:"maxY"`
	MaxZ  float64 `json:"maxZ"`
	Valid bool    `json:"valid"`
}
