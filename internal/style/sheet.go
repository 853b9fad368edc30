package style

import (
	"strings"
	"sync"
)

// Sheet is a registry of named styles shared across placemark builds.
type Sheet struct {
	mu     sync.RWMutex
	styles map[string]*Style
	maps   map[string]string // StyleMap id -> style url of its "normal" pair
}

// NewSheet creates an empty Sheet
func NewSheet() *Sheet {
	return &Sheet{
		styles: make(map[string]*Style),
		maps:   make(map[string]string),
	}
}

// normalizeName strips the document-local "#" prefix of a style url.
func normalizeName(name string) string {
	if i := strings.LastIndex(name, "#"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Add registers st under its Name
func (sh *Sheet) Add(st *Style) {
	if st == nil || st.Name == "" {
		return
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.styles[normalizeName(st.Name)] = st
}

// AddMap registers a style map whose normal state points at url
func (sh *Sheet) AddMap(id, url string) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.maps[normalizeName(id)] = normalizeName(url)
}

// Style looks up a style by name or url. Style maps are followed one level.
func (sh *Sheet) Style(name string) (*Style, bool) {
	if sh == nil {
		return nil, false
	}
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	key := normalizeName(name)
	if st, ok := sh.styles[key]; ok {
		return st, true
	}
	if target, ok := sh.maps[key]; ok {
		st, ok := sh.styles[target]
		return st, ok
	}
	return nil, false
}

// Len returns the number of registered styles
func (sh *Sheet) Len() int {
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return len(sh.styles)
}

// Reset clears all styles and maps
func (sh *Sheet) Reset() {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.styles = make(map[string]*Style)
	sh.maps = make(map[string]string)
}
