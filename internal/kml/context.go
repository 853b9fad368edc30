// Package kml turns KML placemarks into scene annotation nodes.
package kml

import (
	"fmt"
	"log/slog"

	"github.com/OCAP2/kmlscene/internal/geo"
	"github.com/OCAP2/kmlscene/internal/markup"
	"github.com/OCAP2/kmlscene/internal/scene"
	"github.com/OCAP2/kmlscene/internal/style"
)

// StyleScanner parses an inline <Style> element.
type StyleScanner interface {
	Scan(conf *markup.Config, cx *Context) *style.Style
}

// GeometryBuilder parses the geometry of a placemark. It may add altitude,
// extrusion or model symbols to st.
type GeometryBuilder interface {
	Build(conf *markup.Config, cx *Context, st *style.Style) *geo.Geometry
}

// CompilerOptions tune feature compilation.
type CompilerOptions struct {
	// Instancing substitutes a model at every point of the geometry.
	Instancing bool
}

// GeometryCompiler turns a feature into a renderable node.
type GeometryCompiler interface {
	Compile(f *scene.Feature, draped bool, opts CompilerOptions) *scene.FeatureNode
}

// FeatureDecorator applies the generic KML feature properties to a produced node.
type FeatureDecorator interface {
	Decorate(conf *markup.Config, cx *Context, n scene.Node)
}

// Options are the load options shared by every build of a document.
type Options struct {
	// DefaultIconSymbol is injected into placemarks that have neither icon nor model.
	DefaultIconSymbol *style.IconSymbol
	// DefaultTextSymbol is used when a placemark style has no text symbol. It is never mutated.
	DefaultTextSymbol *style.TextSymbol
	// IconAndLabelGroup, when set, receives every standalone icon and label node.
	IconAndLabelGroup *scene.Group
	Declutter         bool
}

// Context is the state shared by the placemark builds of one document.
type Context struct {
	MapNode *scene.MapNode
	SRS     geo.SRS
	Sheet   *style.Sheet
	Options Options
	Logger  *slog.Logger

	Scanner   StyleScanner
	Geometry  GeometryBuilder
	Compiler  GeometryCompiler
	Decorator FeatureDecorator

	metrics *Metrics
}

// NewContext creates a context for KML sources in WGS84 with the default collaborators.
func NewContext(mapNode *scene.MapNode, opts Options, logger *slog.Logger) (*Context, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m, err := NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("creating kml metrics: %w", err)
	}
	return &Context{
		MapNode:   mapNode,
		SRS:       geo.WGS84,
		Sheet:     style.NewSheet(),
		Options:   opts,
		Logger:    logger,
		Scanner:   DefaultStyleScanner{},
		Geometry:  DefaultGeometryBuilder{},
		Compiler:  DefaultGeometryCompiler{MapNode: mapNode},
		Decorator: DefaultFeatureDecorator{},
		metrics:   m,
	}, nil
}

func (cx *Context) logger() *slog.Logger {
	if cx.Logger == nil {
		return slog.Default()
	}
	return cx.Logger
}
