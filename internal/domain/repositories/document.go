package repositories

import (
	"context"

	"cinedesk/internal/domain/models"
)

// DocumentRepository defines data access operations for documents.
// Every method is scoped to an owner and only sees active rows.
type DocumentRepository interface {
	// Create inserts a document and fills in ID and CreatedAt
	Create(ctx context.Context, doc *models.Document) error

	// GetActive retrieves an active document owned by ownerID
	GetActive(ctx context.Context, id, ownerID int64) (*models.Document, error)

	// ListActive returns up to limit active documents, most recent first
	ListActive(ctx context.Context, ownerID int64, limit int) ([]models.Document, error)

	// Search matches query case-insensitively against title or content, most recent first
	Search(ctx context.Context, ownerID int64, query string, limit int) ([]models.Document, error)

	// Update writes title and content of an active owned document
	Update(ctx context.Context, doc *models.Document) error

	// Delete hard-deletes an active owned document
	Delete(ctx context.Context, id, ownerID int64) error

	// DeleteAllActive hard-deletes every active document of ownerID and returns the count
	DeleteAllActive(ctx context.Context, ownerID int64) (int64, error)
}
