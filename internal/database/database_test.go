package database

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OCAP2/kmlscene/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSqlite_InMemoryDatabasesAreIsolated(t *testing.T) {
	a, err := OpenSqlite("")
	require.NoError(t, err)
	b, err := OpenSqlite("")
	require.NoError(t, err)

	require.NoError(t, Migrate(a))
	require.NoError(t, a.Create(&model.Document{Name: "only in a"}).Error)

	assert.True(t, a.Migrator().HasTable(&model.Document{}))
	assert.False(t, b.Migrator().HasTable(&model.Document{}))
}

func TestMigrate_CreatesTables(t *testing.T) {
	db, err := OpenSqlite("")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, m := range model.DatabaseModels {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
}

func TestDumpMemoryDBToDisk(t *testing.T) {
	db, err := OpenSqlite("")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	loaded := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	require.NoError(t, db.Create(&model.Document{Name: "dumped", LoadedAt: loaded}).Error)

	path := filepath.Join(t.TempDir(), "out", "scene.db")
	require.NoError(t, DumpMemoryDBToDisk(db, path))
	// a second dump replaces the first
	require.NoError(t, DumpMemoryDBToDisk(db, path))
	require.FileExists(t, path)

	disk, err := OpenSqlite(path)
	require.NoError(t, err)
	var doc model.Document
	require.NoError(t, disk.First(&doc).Error)
	assert.Equal(t, "dumped", doc.Name)
	assert.True(t, loaded.Equal(doc.LoadedAt))
}

func TestDumpMemoryDBToDisk_InvalidPath(t *testing.T) {
	db, err := OpenSqlite("")
	require.NoError(t, err)

	assert.Error(t, DumpMemoryDBToDisk(db, ""))
	assert.Error(t, DumpMemoryDBToDisk(db, "/tmp/it's.db"))
}

func TestManager_SetupAndDump(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager(zerolog.New(&buf))

	assert.Error(t, m.Setup())

	m.DB, _ = OpenSqlite("")
	m.SqliteFilePath = filepath.Join(t.TempDir(), "manager.db")
	require.NoError(t, m.Setup())
	require.NoError(t, m.DumpMemoryToDisk())

	assert.Contains(t, buf.String(), "Database setup complete")
	assert.FileExists(t, m.SqliteFilePath)
}

func TestGetBackupDBPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.db", "b.db", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.db"), 0755))

	paths, err := GetBackupDBPaths(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(dir, "a.db"), filepath.Join(dir, "b.db")}, paths)
}
