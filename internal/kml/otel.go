package kml

import (
	"context"
	"fmt"

	"github.com/OCAP2/kmlscene/internal/scene"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/OCAP2/kmlscene/internal/kml"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics counts placemark builds. Uses the global OTel meter (no-op if not configured).
type Metrics struct {
	built   metric.Int64Counter
	skipped metric.Int64Counter
	nodes   metric.Int64Counter
}

// NewMetrics registers the build counters.
func NewMetrics() (*Metrics, error) {
	m := meter()
	var (
		out Metrics
		err error
	)

	out.built, err = m.Int64Counter(
		"kml.placemarks.built",
		metric.WithDescription("Placemarks that produced at least one node"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating built counter: %w", err)
	}

	out.skipped, err = m.Int64Counter(
		"kml.placemarks.skipped",
		metric.WithDescription("Placemarks without usable geometry"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating skipped counter: %w", err)
	}

	out.nodes, err = m.Int64Counter(
		"kml.nodes.created",
		metric.WithDescription("Annotation nodes created, by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating nodes counter: %w", err)
	}

	return &out, nil
}

func (m *Metrics) placemarkBuilt() {
	if m != nil {
		m.built.Add(context.Background(), 1)
	}
}

func (m *Metrics) placemarkSkipped() {
	if m != nil {
		m.skipped.Add(context.Background(), 1)
	}
}

func (m *Metrics) nodeCreated(k scene.Kind) {
	if m != nil {
		m.nodes.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", k.String())))
	}
}
