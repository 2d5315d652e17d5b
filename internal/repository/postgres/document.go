package postgres

import (
	"context"
	"fmt"
	"strings"

	"cinedesk/internal/domain"
	"cinedesk/internal/domain/models"
	"cinedesk/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
)

const documentColumns = "id, owner_id, title, content, active, created_at"

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   repositories.Pool
	tables *TableNames
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new active document and fills in ID and CreatedAt
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, title, content, active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, created_at
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.OwnerID,
		doc.Title,
		doc.Content,
	).Scan(&doc.ID, &doc.CreatedAt)

	if err != nil {
		if isPgCheckViolation(err) {
			return &domain.ValidationError{Message: "document violates table constraints"}
		}
		return fmt.Errorf("create document: %w", err)
	}

	doc.Active = true
	return nil
}

// GetActive retrieves an active document owned by ownerID
func (r *PostgresDocumentRepository) GetActive(ctx context.Context, id, ownerID int64) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND owner_id = $2 AND active = TRUE
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	doc, err := scanDocument(executor.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("document %d not found", id)}
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// ListActive returns up to limit active documents of ownerID, most recent first
func (r *PostgresDocumentRepository) ListActive(ctx context.Context, ownerID int64, limit int) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1 AND active = TRUE
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	docs, err := collectDocuments(rows)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Search matches query as a case-insensitive substring of title or content.
// LIKE wildcards in query are escaped so they match literally.
func (r *PostgresDocumentRepository) Search(ctx context.Context, ownerID int64, query string, limit int) ([]models.Document, error) {
	sqlQuery := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1 AND active = TRUE
		  AND (title ILIKE $2 OR content ILIKE $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, documentColumns, r.tables.Documents)

	pattern := "%" + escapeLikePattern(query) + "%"

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, sqlQuery, ownerID, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}

	docs, err := collectDocuments(rows)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	return docs, nil
}

// Update writes title and content of an active owned document
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, content = $2
		WHERE id = $3 AND owner_id = $4 AND active = TRUE
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		doc.Title,
		doc.Content,
		doc.ID,
		doc.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("document %d not found", doc.ID)}
	}

	return nil
}

// Delete hard-deletes an active owned document
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id, ownerID int64) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2 AND active = TRUE
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("document %d not found", id)}
	}

	return nil
}

// DeleteAllActive hard-deletes every active document of ownerID
func (r *PostgresDocumentRepository) DeleteAllActive(ctx context.Context, ownerID int64) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE owner_id = $1 AND active = TRUE
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete all documents: %w", err)
	}

	return result.RowsAffected(), nil
}

func scanDocument(row pgx.Row) (*models.Document, error) {
	var doc models.Document
	err := row.Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.Title,
		&doc.Content,
		&doc.Active,
		&doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func collectDocuments(rows pgx.Rows) ([]models.Document, error) {
	defer rows.Close()

	docs := make([]models.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLikePattern escapes the LIKE metacharacters %, _ and the default escape \
func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}
