package gormstorage

import (
	"fmt"
	"testing"
	"time"

	"github.com/OCAP2/kmlscene/internal/database"
	"github.com/OCAP2/kmlscene/internal/model"
	"github.com/OCAP2/kmlscene/internal/queue"
	"github.com/OCAP2/kmlscene/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T, batchSize int) *Backend {
	t.Helper()
	db, err := database.OpenSqlite("")
	require.NoError(t, err)
	b := New(db, Options{BatchSize: batchSize})
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func node(id, parent, kind string) *core.NodeRecord {
	return &core.NodeRecord{
		ID:       id,
		ParentID: parent,
		Kind:     kind,
		Name:     "node " + id,
		Visible:  true,
		Position: core.GeoPoint{EPSG: 4326, Position: core.Position3D{X: 8.5, Y: 47.1, Z: 420}},
		Symbols:  []string{"text"},
	}
}

func TestNew_Defaults(t *testing.T) {
	b := New(nil, Options{})
	assert.Equal(t, DefaultBatchSize, b.opts.BatchSize)
	assert.NotNil(t, b.opts.Logger)
	assert.Nil(t, b.DB())
}

func TestNoDatabase(t *testing.T) {
	b := New(nil, Options{})

	assert.ErrorIs(t, b.Init(), ErrNotInitialized)
	assert.ErrorIs(t, b.StartDocument(&core.Document{}), ErrNotInitialized)
	assert.ErrorIs(t, b.AddNode(node("a", "", "place")), core.ErrNoDocument)
	_, err := b.Documents()
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.NoError(t, b.Close())
}

func TestStartDocument_AssignsID(t *testing.T) {
	b := newTestBackend(t, 10)

	loaded := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	doc := core.Document{Name: "Peaks", Source: "peaks.kml", LoadedAt: loaded}
	require.NoError(t, b.StartDocument(&doc))
	assert.NotZero(t, doc.ID)

	docs, err := b.Documents()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Peaks", docs[0].Name)
	assert.Equal(t, doc.ID, docs[0].ID)
	assert.True(t, loaded.Equal(docs[0].LoadedAt), "loadedAt read back as %v", docs[0].LoadedAt)
}

func TestAddNode_BeforeDocument(t *testing.T) {
	b := newTestBackend(t, 10)
	assert.ErrorIs(t, b.AddNode(node("a", "", "place")), core.ErrNoDocument)
	assert.ErrorIs(t, b.EndDocument(core.BuildStats{}), core.ErrNoDocument)
}

func TestAddNode_QueuesUntilBatchFull(t *testing.T) {
	b := newTestBackend(t, 3)

	doc := core.Document{Name: "batch"}
	require.NoError(t, b.StartDocument(&doc))

	require.NoError(t, b.AddNode(node("a", "", "group")))
	require.NoError(t, b.AddNode(node("b", "a", "place")))
	assert.Equal(t, 2, b.Pending())

	require.NoError(t, b.AddNode(node("c", "a", "feature")))
	assert.Equal(t, 0, b.Pending())

	var count int64
	require.NoError(t, b.DB().Model(&model.SceneNode{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestEndDocument_PersistsNodesAndRun(t *testing.T) {
	b := newTestBackend(t, 100)

	doc := core.Document{Name: "trails", LoadedAt: time.Now()}
	require.NoError(t, b.StartDocument(&doc))

	want := []*core.NodeRecord{node("g", "", "group"), node("f", "g", "feature"), node("p", "g", "place")}
	want[1].Draped = true
	want[1].Geometry = "POLYGON((0 0,1 0,1 1,0 0))"
	want[2].Metadata = map[string]string{"id": "pm-1"}
	for _, n := range want {
		require.NoError(t, b.AddNode(n))
		assert.Equal(t, doc.ID, n.DocumentID)
	}

	require.NoError(t, b.EndDocument(core.BuildStats{Placemarks: 4, Skipped: 1, Features: 1, Places: 1, Groups: 1, Duration: time.Millisecond}))
	assert.Equal(t, 0, b.Pending())

	got, err := b.Nodes(doc.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range want {
		assert.Equal(t, *want[i], got[i])
	}

	docs, err := b.Documents()
	require.NoError(t, err)
	assert.Equal(t, uint(4), docs[0].Placemark)
	assert.Equal(t, uint(3), docs[0].Built)

	var run model.BuildRun
	require.NoError(t, b.DB().Where("document_id = ?", doc.ID).First(&run).Error)
	assert.Equal(t, uint(1), run.Skipped)
	assert.False(t, run.Time.IsZero())
	assert.Equal(t, 1.0, run.DurationMs)
}

func TestStartDocument_FlushesPrevious(t *testing.T) {
	b := newTestBackend(t, 100)

	first := core.Document{Name: "one"}
	require.NoError(t, b.StartDocument(&first))
	for i := range 5 {
		require.NoError(t, b.AddNode(node(fmt.Sprintf("n%d", i), "", "label")))
	}

	second := core.Document{Name: "two"}
	require.NoError(t, b.StartDocument(&second))
	assert.Equal(t, 0, b.Pending())

	nodes, err := b.Nodes(first.ID)
	require.NoError(t, err)
	assert.Len(t, nodes, 5)

	nodes, err = b.Nodes(second.ID)
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestFlush_FailedBatchIsRequeued(t *testing.T) {
	b := newTestBackend(t, 100)

	doc := core.Document{Name: "dupes"}
	require.NoError(t, b.StartDocument(&doc))
	require.NoError(t, b.AddNode(node("same", "", "place")))
	require.NoError(t, b.AddNode(node("same", "", "place")))

	err := b.EndDocument(core.BuildStats{})
	require.Error(t, err)
	assert.Equal(t, 2, b.Pending())
}

type deferredChild struct {
	ID       uint
	ParentID uint
}

func TestWriteBatch_FailedCommitIsRequeued(t *testing.T) {
	db, err := database.OpenSqlite("")
	require.NoError(t, err)
	// the foreign key is only checked at commit
	require.NoError(t, db.Exec(`CREATE TABLE parents (id INTEGER PRIMARY KEY)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE deferred_children (
		id INTEGER PRIMARY KEY,
		parent_id INTEGER REFERENCES parents(id) DEFERRABLE INITIALLY DEFERRED
	)`).Error)

	q := queue.New[deferredChild]()
	q.Push(deferredChild{ID: 1, ParentID: 7}, deferredChild{ID: 2, ParentID: 7})

	err = writeBatch(db, q, 10)
	require.ErrorContains(t, err, "failed to commit 2 rows")
	require.Equal(t, 2, q.Len())
	assert.Equal(t, []deferredChild{{ID: 1, ParentID: 7}, {ID: 2, ParentID: 7}}, q.PopBatch(2))
}
