package kml

import (
	"github.com/OCAP2/kmlscene/internal/markup"
	"github.com/OCAP2/kmlscene/internal/scene"
)

// Metadata keys written by DefaultFeatureDecorator.
const (
	MetaID          = "id"
	MetaDescription = "description"
	MetaStyleURL    = "styleUrl"
)

// DefaultFeatureDecorator copies the common KML feature properties onto a node.
type DefaultFeatureDecorator struct{}

// Decorate sets name, visibility and metadata from the placemark.
func (DefaultFeatureDecorator) Decorate(conf *markup.Config, _ *Context, n scene.Node) {
	if conf.HasValue("name") {
		n.SetName(conf.Value("name"))
	}
	if conf.Value("visibility") == "0" {
		n.SetVisible(false)
	}
	for key, meta := range map[string]string{"id": MetaID, "description": MetaDescription, "styleurl": MetaStyleURL} {
		if conf.HasValue(key) {
			n.SetMeta(meta, conf.Value(key))
		}
	}

	ext := conf.Child("extendeddata")
	for _, d := range ext.Children("data") {
		if d.HasValue("name") {
			n.SetMeta(d.Value("name"), d.Value("value"))
		}
	}
	for _, sd := range ext.Children("schemadata") {
		for _, field := range sd.Children("simpledata") {
			if field.HasValue("name") {
				n.SetMeta(field.Value("name"), field.Text())
			}
		}
	}
}
