package scene

import (
	"strings"

	"github.com/OCAP2/kmlscene/internal/style"
	"github.com/OCAP2/kmlscene/pkg/core"
)

// Records flattens the tree under root into persistable records, in walk
// order. The root itself is not recorded; its direct children get an empty
// ParentID.
func Records(root *Group, documentID uint) []core.NodeRecord {
	var out []core.NodeRecord
	Walk(root, func(n Node, parent *Group, _ int) bool {
		if n == Node(root) {
			return true
		}
		rec := core.NodeRecord{
			ID:         n.ID(),
			DocumentID: documentID,
			Kind:       n.Kind().String(),
			Name:       n.Name(),
			Bounds:     n.Bounds(),
			Declutter:  n.StateSet().Declutter(),
			Visible:    n.Visible(),
		}
		if parent != nil && parent != root {
			rec.ParentID = parent.ID()
		}
		if keys := n.MetaKeys(); len(keys) > 0 {
			rec.Metadata = make(map[string]string, len(keys))
			for _, k := range keys {
				rec.Metadata[k] = n.Meta(k)
			}
		}

		switch v := n.(type) {
		case *PlaceNode:
			rec.Position = v.Position
			rec.Symbols = symbolNames(v.Style)
		case *LabelNode:
			rec.Position = v.Position
			rec.Symbols = symbolNames(v.Style)
		case *ModelNode:
			rec.Position = v.Position
			rec.Symbols = symbolNames(v.Style)
		case *FeatureNode:
			rec.Draped = v.Draped()
			rec.Instancing = v.Instancing
			if v.Feature != nil {
				rec.Position = core.GeoPoint{EPSG: v.Feature.SRS.EPSG, Position: rec.Bounds.Center()}
				rec.Symbols = symbolNames(v.Feature.Style)
			}
			if v.Compiled != nil {
				rec.Geometry = v.Compiled.WKT()
			}
		}
		out = append(out, rec)
		return true
	})
	return out
}

func symbolNames(st *style.Style) []string {
	kinds := st.Kinds()
	if len(kinds) == 0 {
		return nil
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = strings.ToLower(k.String())
	}
	return names
}
