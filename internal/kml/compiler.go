package kml

import "github.com/OCAP2/kmlscene/internal/scene"

// DefaultGeometryCompiler projects features into the map's reference system.
type DefaultGeometryCompiler struct {
	MapNode *scene.MapNode
}

// Compile builds a feature node. Without a map node the geometry is kept in the feature's SRS.
func (c DefaultGeometryCompiler) Compile(f *scene.Feature, draped bool, opts CompilerOptions) *scene.FeatureNode {
	if f == nil || f.Geometry == nil {
		return nil
	}
	compiled := f.Geometry
	if c.MapNode != nil {
		compiled = f.Geometry.Transform(f.SRS, c.MapNode.SRS)
	}
	return scene.NewFeatureNode(c.MapNode, f, compiled, draped, opts.Instancing)
}
