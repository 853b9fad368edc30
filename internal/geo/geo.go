package geo

import (
	"errors"
	"strconv"
	"strings"

	"github.com/OCAP2/kmlscene/pkg/core"
)

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// Position3DFromString parses a "long,lat" or "long,lat,elev" string into a core.Position3D.
func Position3DFromString(coords string) (core.Position3D, error) {
	coordsSplit := strings.Split(strings.TrimSpace(coords), ",")
	if len(coordsSplit) < 2 {
		return core.Position3D{}, ErrInvalidCoordinates
	}
	long, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[0]), 64)
	if err != nil {
		return core.Position3D{}, ErrInvalidCoordinates
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[1]), 64)
	if err != nil {
		return core.Position3D{}, ErrInvalidCoordinates
	}
	var elev float64
	if len(coordsSplit) > 2 && strings.TrimSpace(coordsSplit[2]) != "" {
		elev, err = strconv.ParseFloat(strings.TrimSpace(coordsSplit[2]), 64)
		if err != nil {
			return core.Position3D{}, ErrInvalidCoordinates
		}
	}
	return core.Position3D{X: long, Y: lat, Z: elev}, nil
}

// ParseCoordinates parses a KML coordinate list: whitespace separated "long,lat[,elev]" tuples.
// An empty list is valid and yields no positions.
func ParseCoordinates(input string) ([]core.Position3D, error) {
	tuples := strings.Fields(input)
	out := make([]core.Position3D, 0, len(tuples))
	for _, tuple := range tuples {
		pos, err := Position3DFromString(tuple)
		if err != nil {
			return nil, err
		}
		out = append(out, pos)
	}
	return out, nil
}
