// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/OCAP2/kmlscene/pkg/core"
)

// SceneExport is the root JSON structure of an exported document
type SceneExport struct {
	Name       string     `json:"name"`
	Source     string     `json:"source"`
	LoadedAt   string     `json:"loadedAt"`
	Placemarks int        `json:"placemarks"`
	Skipped    int        `json:"skipped"`
	DurationMs float64    `json:"durationMs"`
	Nodes      []NodeJSON `json:"nodes"`
}

// NodeJSON represents one scene node and its children
type NodeJSON struct {
	ID           string            `json:"id"`
	Kind         string            `json:"kind"`
	Name         string            `json:"name,omitempty"`
	EPSG         int               `json:"epsg,omitempty"`
	Position     []float64         `json:"position,omitempty"` // [x, y, z]
	AltitudeMode string            `json:"altitudeMode,omitempty"`
	Bounds       []float64         `json:"bounds,omitempty"` // [minX, minY, minZ, maxX, maxY, maxZ]
	Draped       bool              `json:"draped,omitempty"`
	Instancing   bool              `json:"instancing,omitempty"`
	Declutter    bool              `json:"declutter,omitempty"`
	Hidden       bool              `json:"hidden,omitempty"`
	Symbols      []string          `json:"symbols,omitempty"`
	Geometry     string            `json:"geometry,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Children     []NodeJSON        `json:"children,omitempty"`
}

// exportJSON writes the document to a JSON file, gzipped if configured
func (b *Backend) exportJSON(rec *DocumentRecord) error {
	export := buildExport(rec)

	// Build filename
	name := strings.ReplaceAll(rec.Document.Name, " ", "_")
	name = strings.ReplaceAll(name, ":", "_")
	name = strings.ReplaceAll(name, string(filepath.Separator), "_")
	if name == "" {
		name = "document"
	}
	timestamp := rec.Document.LoadedAt.Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s.json.gz", name, timestamp)
	} else {
		filename = fmt.Sprintf("%s_%s.json", name, timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if b.cfg.CompressOutput {
		if err := writeGzipJSON(outputPath, export); err != nil {
			return err
		}
	} else {
		if err := writeJSON(outputPath, export); err != nil {
			return err
		}
	}

	b.lastExportPath = outputPath
	return nil
}

// buildExport nests the flat node records under their parents. Records whose
// parent is unknown are attached at the top level.
func buildExport(rec *DocumentRecord) SceneExport {
	export := SceneExport{
		Name:       rec.Document.Name,
		Source:     rec.Document.Source,
		LoadedAt:   rec.Document.LoadedAt.UTC().Format(time.RFC3339),
		Placemarks: rec.Stats.Placemarks,
		Skipped:    rec.Stats.Skipped,
		DurationMs: float64(rec.Stats.Duration.Microseconds()) / 1000,
		Nodes:      make([]NodeJSON, 0),
	}

	children := make(map[string][]core.NodeRecord)
	known := make(map[string]bool, len(rec.Nodes))
	for _, n := range rec.Nodes {
		known[n.ID] = true
	}
	var top []core.NodeRecord
	for _, n := range rec.Nodes {
		if n.ParentID == "" || !known[n.ParentID] {
			top = append(top, n)
			continue
		}
		children[n.ParentID] = append(children[n.ParentID], n)
	}

	var build func(n core.NodeRecord) NodeJSON
	build = func(n core.NodeRecord) NodeJSON {
		out := nodeToJSON(n)
		for _, c := range children[n.ID] {
			out.Children = append(out.Children, build(c))
		}
		return out
	}
	for _, n := range top {
		export.Nodes = append(export.Nodes, build(n))
	}
	return export
}

func nodeToJSON(n core.NodeRecord) NodeJSON {
	out := NodeJSON{
		ID:         n.ID,
		Kind:       n.Kind,
		Name:       n.Name,
		Draped:     n.Draped,
		Instancing: n.Instancing,
		Declutter:  n.Declutter,
		Hidden:     !n.Visible,
		Symbols:    n.Symbols,
		Geometry:   n.Geometry,
		Metadata:   n.Metadata,
	}
	if n.Kind != "group" {
		p := n.Position
		out.EPSG = p.EPSG
		out.Position = []float64{p.Position.X, p.Position.Y, p.Position.Z}
		out.AltitudeMode = p.AltitudeMode.String()
	}
	if b := n.Bounds; b.Valid {
		out.Bounds = []float64{b.MinX, b.MinY, b.MinZ, b.MaxX, b.MaxY, b.MaxZ}
	}
	return out
}

func writeJSON(path string, data SceneExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func writeGzipJSON(path string, data SceneExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}
