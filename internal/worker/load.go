package worker

import (
	"context"
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/OCAP2/kmlscene/internal/dispatcher"
	"github.com/OCAP2/kmlscene/internal/geo"
	"github.com/OCAP2/kmlscene/internal/kml"
	"github.com/OCAP2/kmlscene/internal/logging"
	"github.com/OCAP2/kmlscene/internal/markup"
	"github.com/OCAP2/kmlscene/internal/scene"
	"github.com/OCAP2/kmlscene/internal/style"
	"github.com/OCAP2/kmlscene/pkg/core"
)

// Commands understood by the handlers registered in RegisterHandlers.
const (
	CmdLoad    = ":LOAD:"
	CmdUnload  = ":UNLOAD:"
	CmdSearch  = ":SEARCH:"
	CmdNearest = ":NEAREST:"
	CmdFind    = ":FIND:"
)

// DefaultNearest is the number of nodes :NEAREST: returns when no count is given.
const DefaultNearest = 5

// RegisterHandlers registers the loader commands with the dispatcher.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	// loads share one storage backend, so they run one at a time off the queue
	d.Register(CmdLoad, m.handleLoad, dispatcher.Buffered(100), dispatcher.Blocking(), dispatcher.Logged())

	d.Register(CmdUnload, m.handleUnload, dispatcher.Logged())

	d.Register(CmdSearch, m.handleSearch, dispatcher.Logged())
	d.Register(CmdNearest, m.handleNearest, dispatcher.Logged())
	d.Register(CmdFind, m.handleFind)
}

func (m *Manager) handleLoad(e dispatcher.Event) (any, error) {
	if len(e.Args) == 0 {
		return nil, fmt.Errorf("%s needs a file path", CmdLoad)
	}
	return m.Load(context.Background(), e.Args[0])
}

func (m *Manager) handleUnload(e dispatcher.Event) (any, error) {
	if len(e.Args) == 0 {
		return nil, fmt.Errorf("%s needs a file path", CmdUnload)
	}
	return m.Unload(e.Args[0])
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q: %w", a, err)
		}
		out[i] = f
	}
	return out, nil
}

// handleSearch returns the nodes intersecting a lon/lat box given as
// minX, minY, maxX, maxY.
func (m *Manager) handleSearch(e dispatcher.Event) (any, error) {
	if len(e.Args) != 4 {
		return nil, fmt.Errorf("%s needs 4 arguments, got %d", CmdSearch, len(e.Args))
	}
	v, err := parseFloats(e.Args)
	if err != nil {
		return nil, err
	}
	var b core.Bounds
	b.Expand(core.Position3D{X: v[0], Y: v[1]})
	b.Expand(core.Position3D{X: v[2], Y: v[3]})
	return m.deps.Index.Search(b), nil
}

// handleNearest returns the nodes closest to a lon/lat position given as
// x, y and an optional count.
func (m *Manager) handleNearest(e dispatcher.Event) (any, error) {
	if len(e.Args) != 2 && len(e.Args) != 3 {
		return nil, fmt.Errorf("%s needs 2 or 3 arguments, got %d", CmdNearest, len(e.Args))
	}
	v, err := parseFloats(e.Args[:2])
	if err != nil {
		return nil, err
	}
	k := DefaultNearest
	if len(e.Args) == 3 {
		if k, err = strconv.Atoi(strings.TrimSpace(e.Args[2])); err != nil || k <= 0 {
			return nil, fmt.Errorf("invalid count %q", e.Args[2])
		}
	}
	return m.deps.Index.Nearest(core.Position3D{X: v[0], Y: v[1]}, k), nil
}

// handleFind returns the IDs of the nodes built for a placemark name.
func (m *Manager) handleFind(e dispatcher.Event) (any, error) {
	if len(e.Args) == 0 {
		return nil, fmt.Errorf("%s needs a name", CmdFind)
	}
	ids, _ := m.deps.Names.Get(e.Args[0])
	return ids, nil
}

// Load parses the KML file at path, builds its scene, indexes the nodes and
// writes the document to the storage backend.
func (m *Manager) Load(ctx context.Context, path string) (core.BuildStats, error) {
	source := sourcePath(path)
	if _, ok := m.deps.Documents.Get(source); ok {
		return core.BuildStats{}, fmt.Errorf("%w: %s", ErrAlreadyLoaded, source)
	}

	root, err := markup.DecodeFile(path)
	if err != nil {
		return core.BuildStats{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	name := documentName(root, path)
	ctx = logging.WithDocument(ctx, name)
	log := m.logger().With("document", name)

	mapNode := scene.NewMapNode(geo.SRS{EPSG: m.deps.Build.MapSRS})
	opts := m.options()
	cx, err := kml.NewContext(mapNode, opts, log)
	if err != nil {
		return core.BuildStats{}, err
	}

	group, stats := m.builder.Build(root, cx)
	if group.Name() == "" {
		group.SetName(name)
	}
	stats.Document = name
	if opts.IconAndLabelGroup != nil && opts.IconAndLabelGroup.NumChildren() > 0 {
		group.AddChild(opts.IconAndLabelGroup)
	}
	mapNode.Root().AddChild(group)

	indexed := m.deps.Index.InsertTree(group)
	var nodes []scene.Node
	scene.Walk(group, func(n scene.Node, _ *scene.Group, _ int) bool {
		if n == scene.Node(group) {
			return true
		}
		nodes = append(nodes, n)
		if n.Name() != "" {
			m.deps.Names.Add(n.Name(), n.ID())
		}
		return true
	})

	doc := &core.Document{Name: name, Source: source, LoadedAt: time.Now()}
	if m.backend != nil {
		if err := m.persist(doc, group, stats); err != nil {
			return stats, err
		}
	}
	doc.Placemark = uint(stats.Placemarks)
	doc.Built = uint(stats.Placemarks - stats.Skipped)
	m.deps.Documents.Add(*doc)
	m.mu.Lock()
	m.nodes[source] = nodes
	m.mu.Unlock()
	m.loaded.Inc()
	m.skipped.Add(stats.Skipped)

	if m.deps.Influx != nil {
		if err := m.deps.Influx.WriteBuildStats(stats, doc.LoadedAt); err != nil {
			log.WarnContext(ctx, "Failed to write build stats", "error", err)
		}
	}

	log.InfoContext(ctx, "Document loaded",
		"source", source,
		"id", doc.ID,
		"indexed", indexed,
		"features", stats.Features,
		"places", stats.Places,
		"labels", stats.Labels,
		"models", stats.Models,
	)
	return stats, nil
}

// Unload drops the nodes of a loaded source from the index and the name cache
// so the source can be loaded again. Stored rows are kept. It returns how many
// indexed nodes were removed.
func (m *Manager) Unload(path string) (int, error) {
	source := sourcePath(path)
	m.mu.Lock()
	nodes, ok := m.nodes[source]
	delete(m.nodes, source)
	m.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotLoaded, source)
	}

	removed := 0
	for _, n := range nodes {
		if m.deps.Index.Remove(n.ID()) {
			removed++
		}
		if n.Name() != "" {
			m.deps.Names.Delete(n.Name(), n.ID())
		}
	}
	m.deps.Documents.Remove(source)
	m.logger().Info("Document unloaded", "source", source, "removed", removed)
	return removed, nil
}

func sourcePath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func (m *Manager) persist(doc *core.Document, group *scene.Group, stats core.BuildStats) error {
	if err := m.backend.StartDocument(doc); err != nil {
		return fmt.Errorf("failed to start document: %w", err)
	}
	for _, rec := range scene.Records(group, doc.ID) {
		if err := m.backend.AddNode(&rec); err != nil {
			return fmt.Errorf("failed to store node %s: %w", rec.ID, err)
		}
	}
	if err := m.backend.EndDocument(stats); err != nil {
		return fmt.Errorf("failed to end document: %w", err)
	}
	return nil
}

// options turns the build configuration into load options.
func (m *Manager) options() kml.Options {
	b := m.deps.Build
	opts := kml.Options{Declutter: b.Declutter}
	if b.DefaultIconHref != "" {
		opts.DefaultIconSymbol = &style.IconSymbol{URL: b.DefaultIconHref, Scale: b.DefaultIconScale}
	}
	if b.DefaultTextSize > 0 {
		opts.DefaultTextSymbol = &style.TextSymbol{
			Size: b.DefaultTextSize,
			Fill: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		}
	}
	if b.IconAndLabelGroup {
		opts.IconAndLabelGroup = scene.NewGroup("icons and labels")
	}
	return opts
}

// documentName is the name of the top Document or Folder, or the file name
// without extension.
func documentName(root *markup.Config, path string) string {
	if name := root.Value("name"); name != "" {
		return name
	}
	for _, key := range []string{"document", "folder"} {
		if name := root.Child(key).Value("name"); name != "" {
			return name
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
