package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/OCAP2/kmlscene/internal/config"
	"github.com/OCAP2/kmlscene/internal/database"
	"github.com/OCAP2/kmlscene/internal/dispatcher"
	"github.com/OCAP2/kmlscene/internal/scene"
	"github.com/OCAP2/kmlscene/internal/storage"
)

type searchHit struct {
	ID     string    `json:"id"`
	Kind   string    `json:"kind"`
	Name   string    `json:"name,omitempty"`
	Bounds []float64 `json:"bounds"`
}

// query loads files, then runs one index command and prints the nodes it
// returns.
func (a *app) query(ctx context.Context, files []string, cmd string, args []string) error {
	manager, d, err := a.newLoader()
	if err != nil {
		return err
	}
	defer d.Close()

	for _, f := range files {
		if _, err := manager.Load(ctx, f); err != nil {
			a.logger.Error("Failed to load file", "file", f, "error", err)
		}
	}

	result, err := d.Dispatch(dispatcher.Event{Command: cmd, Args: args})
	if err != nil {
		return err
	}
	return printJSON(searchHits(result.([]scene.Node)))
}

func searchHits(nodes []scene.Node) []searchHit {
	hits := make([]searchHit, 0, len(nodes))
	for _, n := range nodes {
		b := n.Bounds()
		hits = append(hits, searchHit{
			ID:     n.ID(),
			Kind:   n.Kind().String(),
			Name:   n.Name(),
			Bounds: []float64{b.MinX, b.MinY, b.MaxX, b.MaxY},
		})
	}
	return hits
}

func (a *app) reader() (storage.Reader, error) {
	backend, err := a.openStorage()
	if err != nil {
		return nil, err
	}
	r, ok := backend.(storage.Reader)
	if !ok {
		return nil, fmt.Errorf("%s storage cannot be queried", config.GetStorageConfig().Type)
	}
	return r, nil
}

func (a *app) listDocuments() error {
	r, err := a.reader()
	if err != nil {
		return err
	}
	docs, err := r.Documents()
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	if len(docs) == 0 {
		fmt.Println("No documents stored.")
		return nil
	}
	for _, d := range docs {
		fmt.Printf("%d\t%s\t%s\t%d/%d built\t%s\n",
			d.ID, d.LoadedAt.Format("2006-01-02 15:04:05"), d.Name, d.Built, d.Placemark, d.Source)
	}
	return nil
}

func (a *app) printNodes(arg string) error {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid document ID %q: %w", arg, err)
	}
	r, err := a.reader()
	if err != nil {
		return err
	}
	nodes, err := r.Nodes(uint(id))
	if err != nil {
		return fmt.Errorf("failed to read nodes of document %d: %w", id, err)
	}
	return printJSON(nodes)
}

// migrate creates the schema in Postgres, or in a SQLite dump when Postgres is
// unreachable.
func (a *app) migrate() error {
	m := database.NewManager(a.zerolog)
	if err := m.Connect(config.GetDBConfig()); err != nil {
		return err
	}
	if err := m.Setup(); err != nil {
		return err
	}
	if m.ShouldSaveLocal {
		m.SqliteFilePath = config.GetStorageConfig().SQLite.DumpPath
		if err := m.DumpMemoryToDisk(); err != nil {
			return err
		}
		fmt.Println("Postgres unreachable, empty schema written to", m.SqliteFilePath)
	}
	return m.SqlDB.Close()
}

func (a *app) listBackups() error {
	dir := filepath.Dir(config.GetStorageConfig().SQLite.DumpPath)
	paths, err := database.GetBackupDBPaths(dir)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Println("No backups found.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
