package services

import (
	"context"

	"cinedesk/internal/domain/models"
)

// DocumentService handles document business logic: validation, title
// truncation and transactional mutations. All methods are owner-scoped.
type DocumentService interface {
	// ListDocuments returns up to limit active documents, most recent first
	ListDocuments(ctx context.Context, ownerID int64, limit int) ([]models.Document, error)

	// GetDocument retrieves one active owned document
	GetDocument(ctx context.Context, id, ownerID int64) (*models.Document, error)

	// CreateDocument validates, truncates the title and inserts a document
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*models.Document, error)

	// UpdateDocument applies the provided fields to an active owned document
	UpdateDocument(ctx context.Context, req *UpdateDocumentRequest) (*models.Document, error)

	// DeleteDocument hard-deletes an active owned document
	DeleteDocument(ctx context.Context, id, ownerID int64) error

	// DeleteAllDocuments hard-deletes every active document of the owner
	DeleteAllDocuments(ctx context.Context, ownerID int64) (int64, error)

	// SearchDocuments matches query against title or content, case-insensitively
	SearchDocuments(ctx context.Context, ownerID int64, query string, limit int) ([]models.Document, error)
}

// CreateDocumentRequest represents a document creation request
type CreateDocumentRequest struct {
	OwnerID int64  `json:"owner_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateDocumentRequest represents a partial document update.
// Nil fields are left unchanged.
type UpdateDocumentRequest struct {
	ID      int64   `json:"id"`
	OwnerID int64   `json:"owner_id"`
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}
