// internal/storage/memory/memory.go
package memory

import (
	"fmt"
	"sync"

	"github.com/OCAP2/kmlscene/internal/config"
	"github.com/OCAP2/kmlscene/pkg/core"
)

// DocumentRecord groups a document with its scene nodes and build statistics
type DocumentRecord struct {
	Document core.Document
	Nodes    []core.NodeRecord
	Stats    core.BuildStats
}

// Backend stores scenes in memory and exports each finished document to JSON
type Backend struct {
	cfg       config.MemoryConfig
	current   *DocumentRecord
	documents []*DocumentRecord

	idCounter      uint
	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartDocument begins recording a new document and assigns its ID
func (b *Backend) StartDocument(doc *core.Document) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	doc.ID = b.idCounter

	b.current = &DocumentRecord{Document: *doc}
	b.documents = append(b.documents, b.current)
	return nil
}

// AddNode records a scene node for the current document
func (b *Backend) AddNode(n *core.NodeRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return core.ErrNoDocument
	}
	n.DocumentID = b.current.Document.ID
	b.current.Nodes = append(b.current.Nodes, *n)
	return nil
}

// EndDocument stores the build statistics and exports the document when an
// output directory is configured
func (b *Backend) EndDocument(stats core.BuildStats) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return core.ErrNoDocument
	}
	rec := b.current
	b.current = nil

	rec.Stats = stats
	rec.Document.Placemark = uint(stats.Placemarks)
	rec.Document.Built = uint(stats.Placemarks - stats.Skipped)

	if b.cfg.OutputDir == "" {
		return nil
	}
	if err := b.exportJSON(rec); err != nil {
		return fmt.Errorf("failed to export document %q: %w", rec.Document.Name, err)
	}
	return nil
}

// Documents returns all recorded documents in start order
func (b *Backend) Documents() ([]core.Document, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]core.Document, len(b.documents))
	for i, rec := range b.documents {
		out[i] = rec.Document
	}
	return out, nil
}

// Nodes returns the recorded nodes of a document in insertion order
func (b *Backend) Nodes(documentID uint) ([]core.NodeRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, rec := range b.documents {
		if rec.Document.ID == documentID {
			return append([]core.NodeRecord(nil), rec.Nodes...), nil
		}
	}
	return nil, nil
}

// ExportedFilePath returns the path of the last exported file
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
