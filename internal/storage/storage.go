// internal/storage/storage.go
package storage

import "github.com/OCAP2/kmlscene/pkg/core"

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Document management (StartDocument assigns ID to the passed pointer)
	StartDocument(doc *core.Document) error
	EndDocument(stats core.BuildStats) error

	// Scene recording
	AddNode(n *core.NodeRecord) error
}

// Reader is an optional interface for backends that can return stored scenes.
type Reader interface {
	Documents() ([]core.Document, error)
	Nodes(documentID uint) ([]core.NodeRecord, error)
}

// Exporter is an optional interface for backends that write the scene to a file.
type Exporter interface {
	ExportedFilePath() string
}
