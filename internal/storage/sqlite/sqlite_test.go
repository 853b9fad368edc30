package sqlitestorage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OCAP2/kmlscene/internal/database"
	"github.com/OCAP2/kmlscene/internal/model"
	gormstorage "github.com/OCAP2/kmlscene/internal/storage/gorm"
	"github.com/OCAP2/kmlscene/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScene(t *testing.T, b *Backend) core.Document {
	t.Helper()
	doc := core.Document{Name: "scene", LoadedAt: time.Now()}
	require.NoError(t, b.StartDocument(&doc))
	require.NoError(t, b.AddNode(&core.NodeRecord{ID: "n1", Kind: "label", Name: "Hut", Visible: true}))
	require.NoError(t, b.EndDocument(core.BuildStats{Placemarks: 1, Labels: 1}))
	return doc
}

func TestInMemory_DumpsOnClose(t *testing.T) {
	dumpPath := filepath.Join(t.TempDir(), "dump", "scene.db")
	b, err := New(Config{DumpPath: dumpPath}, gormstorage.Options{})
	require.NoError(t, err)
	require.NoError(t, b.Init())

	doc := writeScene(t, b)
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	require.FileExists(t, dumpPath)

	disk, err := database.OpenSqlite(dumpPath)
	require.NoError(t, err)
	var nodes []model.SceneNode
	require.NoError(t, disk.Where("document_id = ?", doc.ID).Find(&nodes).Error)
	require.Len(t, nodes, 1)
	assert.Equal(t, "Hut", nodes[0].Name)
}

func TestInMemory_PeriodicDump(t *testing.T) {
	dumpPath := filepath.Join(t.TempDir(), "periodic.db")
	b, err := New(Config{DumpPath: dumpPath, DumpInterval: 10 * time.Millisecond}, gormstorage.Options{})
	require.NoError(t, err)
	require.NoError(t, b.Init())
	defer b.Close()

	writeScene(t, b)
	assert.Eventually(t, func() bool {
		_, err := os.Stat(dumpPath)
		return err == nil
	}, time.Second, 10*time.Millisecond)
}

func TestFileDatabase_NoDump(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.db")
	dumpPath := filepath.Join(dir, "unused.db")

	b, err := New(Config{Path: path, DumpPath: dumpPath, DumpInterval: time.Millisecond}, gormstorage.Options{})
	require.NoError(t, err)
	require.NoError(t, b.Init())

	doc := writeScene(t, b)
	require.NoError(t, b.Close())
	assert.NoFileExists(t, dumpPath)

	nodes, err := b.Nodes(doc.ID)
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
}
