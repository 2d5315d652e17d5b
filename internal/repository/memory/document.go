// Package memory is an in-process DocumentRepository for tests and for
// running the chat CLI without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"cinedesk/internal/domain"
	"cinedesk/internal/domain/models"
	"cinedesk/internal/domain/repositories"
)

// DocumentStore holds documents in a map guarded by a mutex.
// It also implements TransactionManager: transactions run one at a time and
// a rollback restores only the rows the failed transaction wrote.
// Like a database sequence, ids handed out inside a rolled back
// transaction are not reused.
type DocumentStore struct {
	mu     sync.Mutex
	docs   map[int64]models.Document
	nextID int64
	now    func() time.Time

	// txMu serializes ExecTx calls
	txMu sync.Mutex
}

// undoLog remembers the pre-transaction state of every row a transaction wrote
type undoLog struct {
	prev    map[int64]models.Document
	existed map[int64]bool
	order   []int64
}

type undoLogKey struct{}

func newUndoLog() *undoLog {
	return &undoLog{prev: make(map[int64]models.Document), existed: make(map[int64]bool)}
}

// undoFrom returns the undo log of the transaction in ctx, nil outside one
func undoFrom(ctx context.Context) *undoLog {
	log, _ := ctx.Value(undoLogKey{}).(*undoLog)
	return log
}

// touch records the current state of id before its first write. Caller holds s.mu.
func (s *DocumentStore) touch(ctx context.Context, id int64) {
	log := undoFrom(ctx)
	if log == nil {
		return
	}
	if _, seen := log.existed[id]; seen {
		return
	}
	doc, ok := s.docs[id]
	log.existed[id] = ok
	if ok {
		log.prev[id] = doc
	}
	log.order = append(log.order, id)
}

// rollback restores the rows recorded in log
func (s *DocumentStore) rollback(log *undoLog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(log.order) - 1; i >= 0; i-- {
		id := log.order[i]
		if log.existed[id] {
			s.docs[id] = log.prev[id]
		} else {
			delete(s.docs, id)
		}
	}
}

// NewDocumentStore creates an empty store using time.Now for created_at.
func NewDocumentStore() *DocumentStore {
	return NewDocumentStoreWithClock(time.Now)
}

// NewDocumentStoreWithClock creates an empty store with a custom clock.
func NewDocumentStoreWithClock(now func() time.Time) *DocumentStore {
	return &DocumentStore{
		docs:   make(map[int64]models.Document),
		nextID: 1,
		now:    now,
	}
}

var (
	_ repositories.DocumentRepository = (*DocumentStore)(nil)
	_ repositories.TransactionManager = (*DocumentStore)(nil)
)

// Insert stores doc as-is (including Active and CreatedAt). Test seeding only.
func (s *DocumentStore) Insert(doc models.Document) models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.ID == 0 {
		doc.ID = s.nextID
	}
	if doc.ID >= s.nextID {
		s.nextID = doc.ID + 1
	}
	s.docs[doc.ID] = doc
	return doc
}

// Len returns the number of stored rows, active or not.
func (s *DocumentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func (s *DocumentStore) Create(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc.ID = s.nextID
	doc.Active = true
	doc.CreatedAt = s.now()
	s.nextID++
	s.touch(ctx, doc.ID)
	s.docs[doc.ID] = *doc
	return nil
}

func (s *DocumentStore) GetActive(ctx context.Context, id, ownerID int64) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok || doc.OwnerID != ownerID || !doc.Active {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("document %d not found", id)}
	}
	return &doc, nil
}

func (s *DocumentStore) ListActive(ctx context.Context, ownerID int64, limit int) ([]models.Document, error) {
	return s.filter(ownerID, limit, func(models.Document) bool { return true }), nil
}

func (s *DocumentStore) Search(ctx context.Context, ownerID int64, query string, limit int) ([]models.Document, error) {
	needle := strings.ToLower(query)
	return s.filter(ownerID, limit, func(d models.Document) bool {
		return strings.Contains(strings.ToLower(d.Title), needle) ||
			strings.Contains(strings.ToLower(d.Content), needle)
	}), nil
}

func (s *DocumentStore) Update(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.docs[doc.ID]
	if !ok || existing.OwnerID != doc.OwnerID || !existing.Active {
		return &domain.NotFoundError{Message: fmt.Sprintf("document %d not found", doc.ID)}
	}
	s.touch(ctx, doc.ID)
	existing.Title = doc.Title
	existing.Content = doc.Content
	s.docs[doc.ID] = existing
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, id, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok || doc.OwnerID != ownerID || !doc.Active {
		return &domain.NotFoundError{Message: fmt.Sprintf("document %d not found", id)}
	}
	s.touch(ctx, id)
	delete(s.docs, id)
	return nil
}

func (s *DocumentStore) DeleteAllActive(ctx context.Context, ownerID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, doc := range s.docs {
		if doc.OwnerID == ownerID && doc.Active {
			s.touch(ctx, id)
			delete(s.docs, id)
			n++
		}
	}
	return n, nil
}

// ExecTx runs fn as a transaction. Writes made through the ctx passed to fn
// are undone when fn returns an error or panics; writes by other callers
// in the meantime are kept. A nested ExecTx joins the outer transaction.
func (s *DocumentStore) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if undoFrom(ctx) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	log := newUndoLog()
	committed := false
	defer func() {
		if !committed {
			s.rollback(log)
		}
	}()

	if err := fn(context.WithValue(ctx, undoLogKey{}, log)); err != nil {
		return err
	}
	committed = true
	return nil
}

// filter returns matching active documents of ownerID, most recent first.
func (s *DocumentStore) filter(ownerID int64, limit int, match func(models.Document) bool) []models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]models.Document, 0)
	for _, doc := range s.docs {
		if doc.OwnerID == ownerID && doc.Active && match(doc) {
			result = append(result, doc)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}
