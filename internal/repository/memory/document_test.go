package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"cinedesk/internal/domain"
	"cinedesk/internal/domain/models"
)

func countActive(t *testing.T, s *DocumentStore, ownerID int64) int {
	t.Helper()
	docs, err := s.ListActive(context.Background(), ownerID, 0)
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	return len(docs)
}

func TestExecTx_RollbackKeepsOtherCallersWrites(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	err := store.ExecTx(ctx, func(txCtx context.Context) error {
		if err := store.Create(txCtx, &models.Document{OwnerID: 1, Title: "draft", Content: "x"}); err != nil {
			return err
		}
		// user 2 commits outside user 1's transaction
		if err := store.Create(ctx, &models.Document{OwnerID: 2, Title: "kept", Content: "y"}); err != nil {
			return err
		}
		_, err := store.GetActive(txCtx, 999, 1)
		return err
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("ExecTx() error = %v, want not found", err)
	}

	if n := countActive(t, store, 2); n != 1 {
		t.Errorf("user 2 docs after user 1 rollback = %d, want 1", n)
	}
	if n := countActive(t, store, 1); n != 0 {
		t.Errorf("user 1 docs after rollback = %d, want 0", n)
	}
}

func TestExecTx_OverlappingTransactions(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	store.Insert(models.Document{OwnerID: 1, Title: "original", Content: "v1", Active: true})

	started := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	var secondErr error

	err := store.ExecTx(ctx, func(txCtx context.Context) error {
		go func() {
			defer wg.Done()
			close(started)
			secondErr = store.ExecTx(ctx, func(txCtx context.Context) error {
				return store.Create(txCtx, &models.Document{OwnerID: 2, Title: "second", Content: "z"})
			})
		}()
		<-started

		if err := store.Update(txCtx, &models.Document{ID: 1, OwnerID: 1, Title: "changed", Content: "v2"}); err != nil {
			return err
		}
		if _, err := store.DeleteAllActive(txCtx, 1); err != nil {
			return err
		}
		return errors.New("abort")
	})
	wg.Wait()

	if err == nil || err.Error() != "abort" {
		t.Fatalf("first ExecTx() error = %v, want abort", err)
	}
	if secondErr != nil {
		t.Fatalf("second ExecTx() error = %v", secondErr)
	}

	doc, err := store.GetActive(ctx, 1, 1)
	if err != nil {
		t.Fatalf("GetActive() error = %v, want the restored row", err)
	}
	if doc.Title != "original" || doc.Content != "v1" {
		t.Errorf("restored doc = %+v, want the pre-transaction row", doc)
	}
	if n := countActive(t, store, 2); n != 1 {
		t.Errorf("user 2 docs = %d, want 1 committed by the second transaction", n)
	}
}

func TestExecTx_CommitAndNested(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	err := store.ExecTx(ctx, func(txCtx context.Context) error {
		return store.ExecTx(txCtx, func(inner context.Context) error {
			return store.Create(inner, &models.Document{OwnerID: 1, Title: "t", Content: "c"})
		})
	})
	if err != nil {
		t.Fatalf("ExecTx() error = %v", err)
	}
	if n := countActive(t, store, 1); n != 1 {
		t.Errorf("docs = %d, want 1", n)
	}
}

func TestExecTx_PanicRollsBack(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic should propagate")
			}
		}()
		_ = store.ExecTx(ctx, func(txCtx context.Context) error {
			_ = store.Create(txCtx, &models.Document{OwnerID: 1, Title: "t", Content: "c"})
			panic("boom")
		})
	}()

	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after panic", store.Len())
	}
}
