package kml

import (
	"log/slog"

	"github.com/OCAP2/kmlscene/internal/geo"
	"github.com/OCAP2/kmlscene/internal/markup"
	"github.com/OCAP2/kmlscene/internal/scene"
	"github.com/OCAP2/kmlscene/internal/style"
	"github.com/OCAP2/kmlscene/pkg/core"
)

// PlacemarkBuilder decides which annotation nodes represent a placemark.
type PlacemarkBuilder struct{}

// Build creates the nodes for one placemark and attaches them to parent.
// It returns the nodes attached at the top level, which is empty when the
// placemark has no geometry.
func (PlacemarkBuilder) Build(conf *markup.Config, cx *Context, parent scene.Container) []scene.Node {
	log := cx.logger()
	st := resolveStyle(conf, cx)

	var g *geo.Geometry
	if cx.Geometry != nil {
		g = cx.Geometry.Build(conf, cx, st)
	}

	// KML's default altitude mode is clampToGround. The declared symbol is kept
	// for the drape decision; the synthesized default only sets the position mode.
	declaredAlt := st.Altitude()
	altMode := core.AltitudeRelative
	if declaredAlt == nil {
		st.Add(&style.AltitudeSymbol{Clamping: style.ClampRelativeToTerrain})
	} else if !declaredAlt.IsSetTo(style.ClampRelativeToTerrain) {
		altMode = core.AltitudeAbsolute
	}

	points := g.TotalPointCount()
	if points == 0 {
		log.Debug("placemark has no geometry, skipping", logAttrs(conf)...)
		cx.metrics.placemarkSkipped()
		return nil
	}

	isPoly := g.ComponentType() == geo.TypePolygon
	position := core.GeoPoint{
		EPSG:         cx.SRS.EPSG,
		Position:     g.Bounds().Center(),
		AltitudeMode: altMode,
	}

	model := st.Model()
	icon := st.Icon()
	text := st.Text()
	hadModel := model != nil

	if text == nil && cx.Options.DefaultTextSymbol != nil {
		text = cx.Options.DefaultTextSymbol.Clone().(*style.TextSymbol)
		st.Add(text)
	}

	name := conf.Value("name")
	if text != nil && name != "" {
		text.Content = name
	}

	var iconNode, modelNode, featureNode scene.Node

	if model != nil || icon != nil || text != nil || points == 1 {
		if model == nil && icon == nil && cx.Options.DefaultIconSymbol != nil {
			icon = cx.Options.DefaultIconSymbol.Clone().(*style.IconSymbol)
			st.Add(icon)
		}

		if model != nil {
			n := scene.NewModelNode(cx.MapNode, st)
			n.SetPosition(position)
			modelNode = n
		}

		if text == nil && name != "" {
			text = st.GetOrCreateText()
			text.Content = name
		}

		if icon != nil {
			iconNode = scene.NewPlaceNode(cx.MapNode, position, st)
		} else if text != nil && name != "" {
			iconNode = scene.NewLabelNode(cx.MapNode, position, st)
		}
	}

	if points > 1 {
		extruded := st.Extrusion() != nil

		if model != nil {
			st.Remove(style.KindModel)
		}
		if icon != nil {
			st.Remove(style.KindIcon)
		}
		if text != nil {
			st.Remove(style.KindText)
		}

		draped := isPoly && !extruded &&
			(declaredAlt == nil || declaredAlt.Clamping == style.ClampToTerrain)

		opts := CompilerOptions{Instancing: hadModel}
		feature := scene.NewFeature(g, cx.SRS, st)
		if cx.Compiler != nil {
			if fn := cx.Compiler.Compile(feature, draped, opts); fn != nil {
				featureNode = fn
			}
		}
	}

	for _, n := range []scene.Node{iconNode, modelNode, featureNode} {
		if n != nil {
			cx.metrics.nodeCreated(n.Kind())
			log.Debug("created node", append(logAttrs(conf), slog.String("kind", n.Kind().String()))...)
		}
	}

	out := assemble(conf, cx, parent, iconNode, modelNode, featureNode)
	if len(out) > 0 {
		cx.metrics.placemarkBuilt()
	}
	return out
}

func resolveStyle(conf *markup.Config, cx *Context) *style.Style {
	switch {
	case conf.HasValue("styleurl"):
		url := conf.Value("styleurl")
		if ref, ok := cx.Sheet.Style(url); ok {
			return ref.Clone()
		}
		cx.logger().Debug("style not found", "styleUrl", url)
	case conf.HasChild("style"):
		if cx.Scanner != nil {
			if st := cx.Scanner.Scan(conf.Child("style"), cx); st != nil {
				return st
			}
		}
	}
	return style.New("")
}

// assemble attaches the produced nodes. A marker combined with a feature is
// grouped and decorated after all nodes are attached; otherwise each node is
// decorated right after it is attached.
func assemble(conf *markup.Config, cx *Context, parent scene.Container, iconNode, modelNode, featureNode scene.Node) []scene.Node {
	if (iconNode != nil || modelNode != nil) && featureNode != nil {
		group := scene.NewGroup("")
		group.AddChild(featureNode)
		if iconNode != nil {
			group.AddChild(iconNode)
		}
		if modelNode != nil {
			group.AddChild(modelNode)
		}
		parent.AddChild(group)

		if iconNode != nil && cx.Options.Declutter {
			iconNode.StateSet().SetDeclutter(true)
		}

		for _, n := range []scene.Node{iconNode, modelNode, featureNode} {
			if n != nil {
				decorate(conf, cx, n)
			}
		}
		return []scene.Node{group}
	}

	var out []scene.Node
	if iconNode != nil {
		if cx.Options.IconAndLabelGroup != nil {
			cx.Options.IconAndLabelGroup.AddChild(iconNode)
		} else {
			parent.AddChild(iconNode)
			if cx.Options.Declutter {
				iconNode.StateSet().SetDeclutter(true)
			}
		}
		decorate(conf, cx, iconNode)
		out = append(out, iconNode)
	}
	if modelNode != nil {
		parent.AddChild(modelNode)
		decorate(conf, cx, modelNode)
		out = append(out, modelNode)
	}
	if featureNode != nil {
		parent.AddChild(featureNode)
		decorate(conf, cx, featureNode)
		out = append(out, featureNode)
	}
	return out
}

func decorate(conf *markup.Config, cx *Context, n scene.Node) {
	if cx.Decorator == nil {
		return
	}
	cx.Decorator.Decorate(conf, cx, n)
}

// logAttrs describes a placemark for log records.
func logAttrs(conf *markup.Config) []any {
	return []any{slog.String("name", conf.Value("name")), slog.String("id", conf.Value("id"))}
}
