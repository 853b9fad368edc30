// Package style holds the declarative rendering intents attached to placemarks.
package style

//go:generate go tool stringer -type=Kind -trimprefix=Kind

// Kind identifies a symbol type. A Style holds at most one symbol per Kind.
type Kind uint8

const (
	KindIcon Kind = iota
	KindModel
	KindText
	KindExtrusion
	KindAltitude
	KindLine
	KindPolygon
)

// Kinds lists every symbol kind in declaration order.
var Kinds = []Kind{KindIcon, KindModel, KindText, KindExtrusion, KindAltitude, KindLine, KindPolygon}
