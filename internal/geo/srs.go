package geo

import (
	"fmt"

	"github.com/OCAP2/kmlscene/pkg/core"
	"github.com/wroge/wgs84"
)

// SRS identifies a spatial reference system by EPSG code.
type SRS struct {
	EPSG int
}

var (
	// WGS84 is the geographic system KML coordinates are expressed in.
	WGS84 = SRS{EPSG: 4326}
	// WebMercator is the default map projection.
	WebMercator = SRS{EPSG: 3857}
)

func (s SRS) String() string {
	return fmt.Sprintf("EPSG:%d", s.EPSG)
}

// IsGeographic reports whether coordinates are longitude/latitude degrees.
func (s SRS) IsGeographic() bool {
	return s.EPSG == 4326
}

// Transform converts p from s into to. Identical systems return p unchanged.
func (s SRS) Transform(to SRS, p core.Position3D) core.Position3D {
	if s.EPSG == to.EPSG || s.EPSG == 0 || to.EPSG == 0 {
		return p
	}
	epsg := wgs84.EPSG()
	f := epsg.Transform(s.EPSG, to.EPSG)
	x, y, z := f(p.X, p.Y, p.Z)
	return core.Position3D{X: x, Y: y, Z: z}
}

// TransformAll converts every position of ps into to.
func (s SRS) TransformAll(to SRS, ps []core.Position3D) []core.Position3D {
	out := make([]core.Position3D, len(ps))
	for i, p := range ps {
		out[i] = s.Transform(to, p)
	}
	return out
}
