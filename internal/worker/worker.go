package worker

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/OCAP2/kmlscene/internal/cache"
	"github.com/OCAP2/kmlscene/internal/config"
	"github.com/OCAP2/kmlscene/internal/index"
	"github.com/OCAP2/kmlscene/internal/influx"
	"github.com/OCAP2/kmlscene/internal/kml"
	"github.com/OCAP2/kmlscene/internal/scene"
	"github.com/OCAP2/kmlscene/internal/storage"
)

var (
	// ErrAlreadyLoaded is returned when a source was loaded earlier in this run.
	ErrAlreadyLoaded = errors.New("document already loaded")
	// ErrNotLoaded is returned when unloading a source that is not loaded.
	ErrNotLoaded = errors.New("document not loaded")
)

// Dependencies holds the state shared by the loader handlers
type Dependencies struct {
	Documents *cache.DocumentCache
	Names     *cache.NodeCache
	Index     *index.Index
	Influx    *influx.Manager // nil when influx is disabled
	Logger    *slog.Logger
	Build     config.BuildConfig
}

// Manager builds KML documents into scenes and persists them
type Manager struct {
	deps    Dependencies
	backend storage.Backend
	builder kml.DocumentBuilder

	mu    sync.Mutex
	nodes map[string][]scene.Node // by source

	loaded  cache.SafeCounter
	skipped cache.SafeCounter
}

// NewManager creates a new worker manager. Missing caches and index are created.
func NewManager(deps Dependencies, backend storage.Backend) *Manager {
	if deps.Documents == nil {
		deps.Documents = cache.NewDocumentCache()
	}
	if deps.Names == nil {
		deps.Names = cache.NewNodeCache()
	}
	if deps.Index == nil {
		deps.Index = index.New()
	}
	return &Manager{
		deps:    deps,
		backend: backend,
		nodes:   make(map[string][]scene.Node),
	}
}

func (m *Manager) logger() *slog.Logger {
	if m.deps.Logger == nil {
		return slog.Default()
	}
	return m.deps.Logger
}

// Index returns the spatial index of every node built so far.
func (m *Manager) Index() *index.Index {
	return m.deps.Index
}

// Loaded returns how many documents were loaded by this manager.
func (m *Manager) Loaded() int {
	return m.loaded.Value()
}

// Skipped returns how many placemarks were skipped across all loads.
func (m *Manager) Skipped() int {
	return m.skipped.Value()
}
