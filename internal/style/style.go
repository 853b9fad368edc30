package style

// Style is a sparse set of symbols keyed by Kind.
// The zero value is an empty, usable style.
type Style struct {
	Name    string
	symbols map[Kind]Symbol
}

// New creates an empty named style.
func New(name string) *Style {
	return &Style{Name: name, symbols: make(map[Kind]Symbol)}
}

// Add stores sym, replacing any symbol of the same kind. A nil sym is ignored.
func (s *Style) Add(sym Symbol) {
	if sym == nil {
		return
	}
	if s.symbols == nil {
		s.symbols = make(map[Kind]Symbol)
	}
	s.symbols[sym.Kind()] = sym
}

// Get returns the symbol of the given kind.
func (s *Style) Get(k Kind) (Symbol, bool) {
	if s == nil {
		return nil, false
	}
	sym, ok := s.symbols[k]
	return sym, ok
}

// Has reports whether a symbol of kind k is present.
func (s *Style) Has(k Kind) bool {
	_, ok := s.Get(k)
	return ok
}

// Remove deletes the symbol of kind k.
func (s *Style) Remove(k Kind) {
	delete(s.symbols, k)
}

// Len returns the number of symbols held.
func (s *Style) Len() int {
	if s == nil {
		return 0
	}
	return len(s.symbols)
}

// Kinds returns the kinds present, in declaration order.
func (s *Style) Kinds() []Kind {
	var out []Kind
	for _, k := range Kinds {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// Clone returns a deep copy; symbols are cloned so the copy can be mutated freely.
func (s *Style) Clone() *Style {
	if s == nil {
		return New("")
	}
	c := New(s.Name)
	for k, sym := range s.symbols {
		c.symbols[k] = sym.Clone()
	}
	return c
}

// Merge copies every symbol of o into s, replacing same-kind symbols.
func (s *Style) Merge(o *Style) {
	if o == nil {
		return
	}
	for _, sym := range o.symbols {
		s.Add(sym.Clone())
	}
}

// Icon returns the icon symbol, or nil if the style has none.
func (s *Style) Icon() *IconSymbol {
	sym, _ := s.Get(KindIcon)
	v, _ := sym.(*IconSymbol)
	return v
}

// Model returns the model symbol, or nil if the style has none.
func (s *Style) Model() *ModelSymbol {
	sym, _ := s.Get(KindModel)
	v, _ := sym.(*ModelSymbol)
	return v
}

// Text returns the text symbol, or nil if the style has none.
func (s *Style) Text() *TextSymbol {
	sym, _ := s.Get(KindText)
	v, _ := sym.(*TextSymbol)
	return v
}

// Extrusion returns the extrusion symbol, or nil if the style has none.
func (s *Style) Extrusion() *ExtrusionSymbol {
	sym, _ := s.Get(KindExtrusion)
	v, _ := sym.(*ExtrusionSymbol)
	return v
}

// Altitude returns the altitude symbol, or nil if the style has none.
func (s *Style) Altitude() *AltitudeSymbol {
	sym, _ := s.Get(KindAltitude)
	v, _ := sym.(*AltitudeSymbol)
	return v
}

// Line returns the line symbol, or nil if the style has none.
func (s *Style) Line() *LineSymbol {
	sym, _ := s.Get(KindLine)
	v, _ := sym.(*LineSymbol)
	return v
}

// Polygon returns the polygon symbol, or nil if the style has none.
func (s *Style) Polygon() *PolygonSymbol {
	sym, _ := s.Get(KindPolygon)
	v, _ := sym.(*PolygonSymbol)
	return v
}

// GetOrCreateAltitude returns the altitude symbol, adding an empty one if needed.
func (s *Style) GetOrCreateAltitude() *AltitudeSymbol {
	if a := s.Altitude(); a != nil {
		return a
	}
	a := &AltitudeSymbol{}
	s.Add(a)
	return a
}

// GetOrCreateText returns the text symbol, adding an empty one if needed.
func (s *Style) GetOrCreateText() *TextSymbol {
	if t := s.Text(); t != nil {
		return t
	}
	t := &TextSymbol{}
	s.Add(t)
	return t
}

// GetOrCreateExtrusion returns the extrusion symbol, adding an empty one if needed.
func (s *Style) GetOrCreateExtrusion() *ExtrusionSymbol {
	if e := s.Extrusion(); e != nil {
		return e
	}
	e := &ExtrusionSymbol{}
	s.Add(e)
	return e
}
