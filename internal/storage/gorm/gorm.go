// Package gormstorage implements the storage.Backend interface on any GORM
// database. Scene nodes are queued and written in batched transactions.
package gormstorage

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/OCAP2/kmlscene/internal/database"
	"github.com/OCAP2/kmlscene/internal/model"
	"github.com/OCAP2/kmlscene/internal/model/convert"
	"github.com/OCAP2/kmlscene/internal/queue"
	"github.com/OCAP2/kmlscene/pkg/core"

	"gorm.io/gorm"
)

// DefaultBatchSize is used when Options.BatchSize is not positive.
const DefaultBatchSize = 500

// ErrNotInitialized is returned when the backend has no database.
var ErrNotInitialized = errors.New("storage backend has no database")

// Options holds settings shared by the GORM-based backends.
type Options struct {
	BatchSize int
	Logger    *slog.Logger
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
type Backend struct {
	db    *gorm.DB
	opts  Options
	nodes *queue.Queue[model.SceneNode]

	mu         sync.Mutex
	documentID uint
	ordinal    uint
}

// New creates a new GORM storage backend. db may be nil until a wrapping
// backend connects.
func New(db *gorm.DB, opts Options) *Backend {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Backend{
		db:    db,
		opts:  opts,
		nodes: queue.New[model.SceneNode](),
	}
}

// DB returns the underlying database.
func (b *Backend) DB() *gorm.DB {
	return b.db
}

// Init runs schema migration.
func (b *Backend) Init() error {
	if b.db == nil {
		return ErrNotInitialized
	}
	b.opts.Logger.Info("Migrating schema", "dialect", b.db.Dialector.Name())
	return database.Migrate(b.db)
}

// Close writes any queued nodes.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flush()
}

// StartDocument inserts the document and assigns the DB-generated ID.
func (b *Backend) StartDocument(doc *core.Document) error {
	if b.db == nil {
		return ErrNotInitialized
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.flush(); err != nil {
		return err
	}

	gormDoc := convert.CoreToDocument(*doc)
	if err := b.db.Create(&gormDoc).Error; err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	doc.ID = gormDoc.ID
	b.documentID = gormDoc.ID
	b.ordinal = 0
	return nil
}

// AddNode converts a node record and queues it, writing a batch when the
// queue is full.
func (b *Backend) AddNode(n *core.NodeRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.documentID == 0 {
		return core.ErrNoDocument
	}
	n.DocumentID = b.documentID
	b.nodes.Push(convert.CoreToSceneNode(*n, b.ordinal))
	b.ordinal++

	if b.nodes.Len() >= b.opts.BatchSize {
		return b.flush()
	}
	return nil
}

// EndDocument writes the remaining nodes, updates the document counters and
// records the build run.
func (b *Backend) EndDocument(stats core.BuildStats) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.documentID == 0 {
		return core.ErrNoDocument
	}
	documentID := b.documentID
	b.documentID = 0

	if err := b.flush(); err != nil {
		return err
	}

	err := b.db.Model(&model.Document{}).Where("id = ?", documentID).Updates(map[string]any{
		"placemarks": uint(stats.Placemarks),
		"built":      uint(stats.Placemarks - stats.Skipped),
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	run := convert.CoreToBuildRun(documentID, stats)
	run.Time = time.Now()
	if err := b.db.Create(&run).Error; err != nil {
		return fmt.Errorf("failed to insert build run: %w", err)
	}
	return nil
}

// Documents returns all stored documents ordered by ID.
func (b *Backend) Documents() ([]core.Document, error) {
	if b.db == nil {
		return nil, ErrNotInitialized
	}
	var rows []model.Document
	if err := b.db.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	out := make([]core.Document, len(rows))
	for i, r := range rows {
		out[i] = convert.DocumentToCore(r)
	}
	return out, nil
}

// Nodes returns the stored nodes of a document in insertion order.
func (b *Backend) Nodes(documentID uint) ([]core.NodeRecord, error) {
	if b.db == nil {
		return nil, ErrNotInitialized
	}
	var rows []model.SceneNode
	if err := b.db.Where("document_id = ?", documentID).Order("ordinal").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query scene nodes: %w", err)
	}
	out := make([]core.NodeRecord, len(rows))
	for i, r := range rows {
		out[i] = convert.SceneNodeToCore(r)
	}
	return out, nil
}

// Pending returns the number of queued nodes.
func (b *Backend) Pending() int {
	return b.nodes.Len()
}

// flush drains the node queue in batches. A failed batch is put back at the
// head of the queue and the error returned. Callers hold b.mu.
func (b *Backend) flush() error {
	for !b.nodes.Empty() {
		if err := writeBatch(b.db, b.nodes, b.opts.BatchSize); err != nil {
			b.opts.Logger.Error("Error writing scene nodes", "error", err, "pending", b.nodes.Len())
			return err
		}
	}
	return nil
}

// writeBatch writes up to n items from a queue to the database in a transaction.
func writeBatch[T any](db *gorm.DB, q *queue.Queue[T], n int) error {
	items := q.PopBatch(n)
	if len(items) == 0 {
		return nil
	}

	tx := db.Begin()
	if err := tx.Create(&items).Error; err != nil {
		tx.Rollback()
		q.PushFront(items...)
		return fmt.Errorf("failed to create %d rows: %w", len(items), err)
	}
	if err := tx.Commit().Error; err != nil {
		q.PushFront(items...)
		return fmt.Errorf("failed to commit %d rows: %w", len(items), err)
	}
	return nil
}
