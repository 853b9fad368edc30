package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/OCAP2/kmlscene/internal/config"
	"github.com/OCAP2/kmlscene/internal/dispatcher"
	"github.com/OCAP2/kmlscene/internal/scene"
	"github.com/OCAP2/kmlscene/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sitesKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
<Document>
	<name>Sites</name>
	<Style id="hut"><IconStyle><Icon><href>hut.png</href></Icon></IconStyle></Style>
	<Placemark>
		<name>Hut</name>
		<styleUrl>#hut</styleUrl>
		<Point><coordinates>10.5,45.5,0</coordinates></Point>
	</Placemark>
	<Placemark>
		<name>Field</name>
		<Polygon><outerBoundaryIs><LinearRing>
			<coordinates>10,45 11,45 11,46 10,46 10,45</coordinates>
		</LinearRing></outerBoundaryIs></Polygon>
	</Placemark>
	<Placemark><name>Nowhere</name></Placemark>
</Document>
</kml>`

func writeKML(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func newTestManager(t *testing.T, build config.BuildConfig) (*Manager, *memory.Backend) {
	t.Helper()
	backend := memory.New(config.MemoryConfig{})
	require.NoError(t, backend.Init())
	return NewManager(Dependencies{Build: build}, backend), backend
}

func defaultBuild() config.BuildConfig {
	return config.BuildConfig{Declutter: true, MapSRS: 3857}
}

func TestManager_Load(t *testing.T) {
	m, backend := newTestManager(t, defaultBuild())
	path := writeKML(t, "sites.kml", sitesKML)

	stats, err := m.Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Sites", stats.Document)
	assert.Equal(t, 3, stats.Placemarks)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Places)
	assert.Equal(t, 1, stats.Features)

	docs, err := backend.Documents()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Sites", docs[0].Name)
	assert.Equal(t, uint(3), docs[0].Placemark)
	assert.Equal(t, uint(2), docs[0].Built)

	nodes, err := backend.Nodes(docs[0].ID)
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "group", nodes[0].Kind)
	assert.Empty(t, nodes[0].ParentID)
	assert.Equal(t, "place", nodes[1].Kind)
	assert.Equal(t, nodes[0].ID, nodes[1].ParentID)
	assert.True(t, nodes[1].Declutter)
	assert.Equal(t, "feature", nodes[2].Kind)
	assert.True(t, nodes[2].Draped)
	assert.Contains(t, nodes[2].Geometry, "POLYGON")

	ids, ok := m.deps.Names.Get("Hut")
	require.True(t, ok)
	assert.Equal(t, []string{nodes[1].ID}, ids)
	assert.Equal(t, 1, m.deps.Documents.Len())
}

func TestManager_LoadTwice(t *testing.T) {
	m, _ := newTestManager(t, defaultBuild())
	path := writeKML(t, "sites.kml", sitesKML)

	_, err := m.Load(context.Background(), path)
	require.NoError(t, err)

	_, err = m.Load(context.Background(), path)
	assert.ErrorIs(t, err, ErrAlreadyLoaded)
}

func TestManager_LoadMissingFile(t *testing.T) {
	m, _ := newTestManager(t, defaultBuild())

	_, err := m.Load(context.Background(), filepath.Join(t.TempDir(), "missing.kml"))
	assert.ErrorContains(t, err, "failed to parse")
}

func TestManager_LoadNamesFromFile(t *testing.T) {
	m, backend := newTestManager(t, defaultBuild())
	path := writeKML(t, "trail.kml", `<kml><Placemark><name>P</name>
		<Point><coordinates>1,2</coordinates></Point></Placemark></kml>`)

	stats, err := m.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "trail", stats.Document)

	docs, err := backend.Documents()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "trail", docs[0].Name)
}

func TestManager_LoadIconAndLabelGroup(t *testing.T) {
	build := defaultBuild()
	build.IconAndLabelGroup = true
	m, backend := newTestManager(t, build)
	path := writeKML(t, "sites.kml", sitesKML)

	_, err := m.Load(context.Background(), path)
	require.NoError(t, err)

	docs, err := backend.Documents()
	require.NoError(t, err)
	nodes, err := backend.Nodes(docs[0].ID)
	require.NoError(t, err)

	var group, place string
	for _, n := range nodes {
		switch {
		case n.Kind == "group" && n.Name == "icons and labels":
			group = n.ID
		case n.Kind == "place":
			place = n.ParentID
		}
	}
	require.NotEmpty(t, group)
	assert.Equal(t, group, place)
	assert.False(t, nodes[0].Declutter)
}

func TestManager_DefaultSymbols(t *testing.T) {
	build := defaultBuild()
	build.DefaultIconHref = "default.png"
	build.DefaultIconScale = 2
	build.DefaultTextSize = 20
	m, _ := newTestManager(t, build)

	opts := m.options()
	require.NotNil(t, opts.DefaultIconSymbol)
	assert.Equal(t, "default.png", opts.DefaultIconSymbol.URL)
	assert.Equal(t, 2.0, opts.DefaultIconSymbol.Scale)
	require.NotNil(t, opts.DefaultTextSymbol)
	assert.Equal(t, 20.0, opts.DefaultTextSymbol.Size)
	assert.True(t, opts.Declutter)
	assert.Nil(t, opts.IconAndLabelGroup)
}

func TestManager_Handlers(t *testing.T) {
	m, _ := newTestManager(t, defaultBuild())
	d, err := dispatcher.New(m.logger())
	require.NoError(t, err)
	m.RegisterHandlers(d)

	path := writeKML(t, "sites.kml", sitesKML)
	result, err := d.Dispatch(dispatcher.Event{Command: CmdLoad, Args: []string{path}})
	require.NoError(t, err)
	assert.Equal(t, "queued", result)
	d.Close()

	assert.Equal(t, 1, m.deps.Documents.Len())

	// the dispatcher is closed, so query the handlers directly
	found, err := m.handleSearch(dispatcher.Event{Args: []string{"10.4", "45.4", "10.6", "45.6"}})
	require.NoError(t, err)
	var names []string
	for _, n := range found.([]scene.Node) {
		names = append(names, n.Name())
	}
	assert.Contains(t, names, "Hut")

	ids, err := m.handleFind(dispatcher.Event{Args: []string{"Field"}})
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	// east of the field edge, the field is closer than the hut inside it
	near, err := m.handleNearest(dispatcher.Event{Args: []string{"12", "45.5", "1"}})
	require.NoError(t, err)
	require.Len(t, near, 1)
	assert.Equal(t, "Field", near.([]scene.Node)[0].Name())

	near, err = m.handleNearest(dispatcher.Event{Args: []string{"10.5", "45.5"}})
	require.NoError(t, err)
	assert.Len(t, near, 2, "fewer nodes than the default count")

	_, err = m.handleNearest(dispatcher.Event{Args: []string{"10.5", "45.5", "0"}})
	assert.Error(t, err)
	_, err = m.handleNearest(dispatcher.Event{Args: []string{"10.5"}})
	assert.Error(t, err)
	_, err = m.handleUnload(dispatcher.Event{})
	assert.Error(t, err)

	_, err = m.handleSearch(dispatcher.Event{Args: []string{"1", "2"}})
	assert.Error(t, err)
	_, err = m.handleSearch(dispatcher.Event{Args: []string{"a", "2", "3", "4"}})
	assert.Error(t, err)
	_, err = m.handleLoad(dispatcher.Event{})
	assert.Error(t, err)
}

func TestManager_Counters(t *testing.T) {
	m, _ := newTestManager(t, defaultBuild())

	_, err := m.Load(context.Background(), writeKML(t, "a.kml", sitesKML))
	require.NoError(t, err)
	_, err = m.Load(context.Background(), writeKML(t, "b.kml", sitesKML))
	require.NoError(t, err)
	_, err = m.Load(context.Background(), filepath.Join(t.TempDir(), "missing.kml"))
	require.Error(t, err)

	assert.Equal(t, 2, m.Loaded())
	assert.Equal(t, 2, m.Skipped())
}

func TestManager_Unload(t *testing.T) {
	m, _ := newTestManager(t, defaultBuild())
	path := writeKML(t, "sites.kml", sitesKML)

	_, err := m.Load(context.Background(), path)
	require.NoError(t, err)
	indexed := m.Index().Len()
	require.Equal(t, 2, indexed)

	removed, err := m.Unload(path)
	require.NoError(t, err)
	assert.Equal(t, indexed, removed)
	assert.Zero(t, m.Index().Len())
	assert.Zero(t, m.deps.Documents.Len())
	_, ok := m.deps.Names.Get("Hut")
	assert.False(t, ok)

	_, err = m.Unload(path)
	assert.ErrorIs(t, err, ErrNotLoaded)

	// an unloaded source can be loaded again
	_, err = m.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, indexed, m.Index().Len())
}
