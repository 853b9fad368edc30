// pkg/core/document.go
package core

import (
	"errors"
	"time"
)

// ErrNoDocument is returned when nodes are stored before a document was started.
var ErrNoDocument = errors.New("no document started")

// Document represents one loaded KML source and the scene built from it
type Document struct {
	ID        uint
	Name      string
	Source    string
	LoadedAt  time.Time
	Placemark uint // placemarks seen
	Built     uint // placemarks that produced at least one node
}

// NodeRecord is a flattened scene node suitable for persistence.
// ParentID is empty for nodes attached directly to the document root.
type NodeRecord struct {
	ID         string
	DocumentID uint
	ParentID   string
	Kind       string
	Name       string
	Position   GeoPoint
	Bounds     Bounds
	Draped     bool
	Instancing bool
	Declutter  bool
	Visible    bool
	Symbols    []string
	Geometry   string // WKT in the map SRS, feature nodes only
	Metadata   map[string]string
}

// BuildStats summarizes one document build
type BuildStats struct {
	Document   string
	Placemarks int
	Skipped    int
	Places     int
	Labels     int
	Models     int
	Features   int
	Groups     int
	Duration   time.Duration
}
