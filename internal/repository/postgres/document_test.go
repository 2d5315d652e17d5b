package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"cinedesk/internal/domain"
	"cinedesk/internal/domain/models"

	"github.com/pashagolub/pgxmock/v4"
)

var documentRowColumns = []string{"id", "owner_id", "title", "content", "active", "created_at"}

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PostgresDocumentRepository) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool() error = %v", err)
	}
	t.Cleanup(mock.Close)

	repo := NewDocumentRepository(&RepositoryConfig{
		Pool:   mock,
		Tables: NewTableNames("test_"),
	}).(*PostgresDocumentRepository)

	return mock, repo
}

func TestPostgresDocumentRepository_Create(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO test_documents (owner_id, title, content, active)")).
		WithArgs(int64(42), "Budget Plan", "quarterly budget notes").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	doc := &models.Document{OwnerID: 42, Title: "Budget Plan", Content: "quarterly budget notes"}
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if doc.ID != 7 || !doc.CreatedAt.Equal(now) || !doc.Active {
		t.Errorf("Create() filled %+v", doc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresDocumentRepository_GetActive(t *testing.T) {
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND owner_id = $2 AND active = TRUE")).
			WithArgs(int64(1), int64(42)).
			WillReturnRows(pgxmock.NewRows(documentRowColumns).AddRow(int64(1), int64(42), "T", "C", true, now))

		doc, err := repo.GetActive(context.Background(), 1, 42)
		if err != nil {
			t.Fatalf("GetActive() error = %v", err)
		}
		if doc.Title != "T" || doc.Content != "C" || doc.OwnerID != 42 {
			t.Errorf("GetActive() = %+v", doc)
		}
	})

	t.Run("other owner is not found", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND owner_id = $2 AND active = TRUE")).
			WithArgs(int64(1), int64(99)).
			WillReturnRows(pgxmock.NewRows(documentRowColumns))

		_, err := repo.GetActive(context.Background(), 1, 99)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("GetActive() error = %v, want ErrNotFound", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}

func TestPostgresDocumentRepository_ListActive(t *testing.T) {
	mock, repo := newMockRepo(t)
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id DESC")).
		WithArgs(int64(42), 10).
		WillReturnRows(pgxmock.NewRows(documentRowColumns).
			AddRow(int64(2), int64(42), "second", "b", true, t2).
			AddRow(int64(1), int64(42), "first", "a", true, t1))

	docs, err := repo.ListActive(context.Background(), 42, 10)
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(docs) != 2 || docs[0].ID != 2 || docs[1].ID != 1 {
		t.Errorf("ListActive() = %+v", docs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresDocumentRepository_SearchEscapesWildcards(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("(title ILIKE $2 OR content ILIKE $2)")).
		WithArgs(int64(42), `%50\% off\_sale%`, 5).
		WillReturnRows(pgxmock.NewRows(documentRowColumns))

	docs, err := repo.Search(context.Background(), 42, "50% off_sale", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("Search() = %+v, want empty", docs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresDocumentRepository_UpdateNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE test_documents")).
		WithArgs("T", "C", int64(5), int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &models.Document{ID: 5, OwnerID: 42, Title: "T", Content: "C"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestPostgresDocumentRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "deleted", affected: 1},
		{name: "missing", affected: 0, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, repo := newMockRepo(t)
			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM test_documents")).
				WithArgs(int64(3), int64(42)).
				WillReturnResult(pgxmock.NewResult("DELETE", tt.affected))

			err := repo.Delete(context.Background(), 3, 42)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Delete() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPostgresDocumentRepository_DeleteAllActive(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("WHERE owner_id = $1 AND active = TRUE")).
		WithArgs(int64(42)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	n, err := repo.DeleteAllActive(context.Background(), 42)
	if err != nil {
		t.Fatalf("DeleteAllActive() error = %v", err)
	}
	if n != 0 {
		t.Errorf("DeleteAllActive() = %d, want 0", n)
	}
}
