package kml

import (
	"time"

	"github.com/OCAP2/kmlscene/internal/markup"
	"github.com/OCAP2/kmlscene/internal/scene"
	"github.com/OCAP2/kmlscene/pkg/core"
)

// DocumentBuilder walks a KML tree and builds every placemark into a group hierarchy
// mirroring its Document and Folder elements.
type DocumentBuilder struct {
	Placemarks PlacemarkBuilder
}

type docWalk struct {
	cx    *Context
	stack []*scene.Group
	stats core.BuildStats
}

func (w *docWalk) top() *scene.Group {
	return w.stack[len(w.stack)-1]
}

// Build processes root, which is either a <kml> element or a Document or Folder.
// The returned group holds everything built from the document.
func (b DocumentBuilder) Build(root *markup.Config, cx *Context) (*scene.Group, core.BuildStats) {
	start := time.Now()
	out := scene.NewGroup(root.Value("name"))
	w := &docWalk{cx: cx, stack: []*scene.Group{out}}
	w.stats.Document = out.Name()

	if root.Key() == "kml" {
		b.container(w, root)
	} else {
		b.element(w, root)
	}

	w.stats.Duration = time.Since(start)
	cx.logger().Info("document built",
		"document", w.stats.Document,
		"placemarks", w.stats.Placemarks,
		"skipped", w.stats.Skipped,
		"duration", w.stats.Duration,
	)
	return out, w.stats
}

// container registers the styles of conf before building its features, so
// placemarks may reference styles declared after them.
func (b DocumentBuilder) container(w *docWalk, conf *markup.Config) {
	for _, child := range conf.Children("") {
		switch child.Key() {
		case "style":
			if w.cx.Scanner != nil {
				w.cx.Sheet.Add(w.cx.Scanner.Scan(child, w.cx))
			}
		case "stylemap":
			b.styleMap(w, child)
		}
	}
	for _, child := range conf.Children("") {
		b.element(w, child)
	}
}

func (b DocumentBuilder) styleMap(w *docWalk, conf *markup.Config) {
	id := conf.Value("id")
	if id == "" {
		return
	}
	for _, pair := range conf.Children("pair") {
		if pair.Value("key") != "normal" {
			continue
		}
		if pair.HasValue("styleurl") {
			w.cx.Sheet.AddMap(id, pair.Value("styleurl"))
		} else if pair.HasChild("style") && w.cx.Scanner != nil {
			if st := w.cx.Scanner.Scan(pair.Child("style"), w.cx); st != nil {
				st.Name = id
				w.cx.Sheet.Add(st)
			}
		}
		return
	}
}

func (b DocumentBuilder) element(w *docWalk, conf *markup.Config) {
	switch conf.Key() {
	case "document", "folder":
		group := scene.NewGroup(conf.Value("name"))
		w.top().AddChild(group)
		decorate(conf, w.cx, group)
		w.stats.Groups++

		w.stack = append(w.stack, group)
		b.container(w, conf)
		w.stack = w.stack[:len(w.stack)-1]

	case "placemark":
		w.stats.Placemarks++
		nodes := b.Placemarks.Build(conf, w.cx, w.top())
		if len(nodes) == 0 {
			w.stats.Skipped++
			return
		}
		for _, n := range nodes {
			w.count(n)
		}

	case "networklink", "groundoverlay", "screenoverlay", "photooverlay":
		w.cx.logger().Debug("skipping unsupported feature", "element", conf.Key(), "name", conf.Value("name"))
	}
}

func (w *docWalk) count(n scene.Node) {
	counts := scene.CountByKind(n)
	w.stats.Places += counts[scene.KindPlace]
	w.stats.Labels += counts[scene.KindLabel]
	w.stats.Models += counts[scene.KindModel]
	w.stats.Features += counts[scene.KindFeature]
	w.stats.Groups += counts[scene.KindGroup]
}
