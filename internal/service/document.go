package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"cinedesk/internal/config"
	"cinedesk/internal/domain"
	"cinedesk/internal/domain/models"
	"cinedesk/internal/domain/repositories"
	"cinedesk/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// documentService implements the DocumentService interface
type documentService struct {
	docRepo   repositories.DocumentRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:   docRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// ListDocuments returns the owner's most recent active documents
func (s *documentService) ListDocuments(ctx context.Context, ownerID int64, limit int) ([]models.Document, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	return s.docRepo.ListActive(ctx, ownerID, normalizeLimit(limit))
}

// GetDocument retrieves one active owned document
func (s *documentService) GetDocument(ctx context.Context, id, ownerID int64) (*models.Document, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	return s.docRepo.GetActive(ctx, id, ownerID)
}

// CreateDocument trims and validates the request, truncates the title and
// inserts the row in a transaction
func (s *documentService) CreateDocument(ctx context.Context, req *services.CreateDocumentRequest) (*models.Document, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	doc := &models.Document{
		OwnerID: req.OwnerID,
		Title:   truncateRunes(req.Title, config.MaxDocumentTitleLength),
		Content: req.Content,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.docRepo.Create(txCtx, doc)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document created",
		"document_id", doc.ID,
		"user_id", doc.OwnerID,
		"title_truncated", doc.Title != req.Title,
	)

	return doc, nil
}

// UpdateDocument applies the provided fields to an active owned document.
// Read and write happen in one transaction.
func (s *documentService) UpdateDocument(ctx context.Context, req *services.UpdateDocumentRequest) (*models.Document, error) {
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		req.Title = &trimmed
	}
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, err
	}

	var doc *models.Document
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		existing, err := s.docRepo.GetActive(txCtx, req.ID, req.OwnerID)
		if err != nil {
			return err
		}

		if req.Title != nil {
			existing.Title = truncateRunes(*req.Title, config.MaxDocumentTitleLength)
		}
		if req.Content != nil {
			existing.Content = *req.Content
		}

		if err := s.docRepo.Update(txCtx, existing); err != nil {
			return err
		}
		doc = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document updated",
		"document_id", doc.ID,
		"user_id", doc.OwnerID,
		"title_changed", req.Title != nil,
		"content_changed", req.Content != nil,
	)

	return doc, nil
}

// DeleteDocument hard-deletes an active owned document
func (s *documentService) DeleteDocument(ctx context.Context, id, ownerID int64) error {
	if err := validateOwner(ownerID); err != nil {
		return err
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.docRepo.Delete(txCtx, id, ownerID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("document deleted",
		"document_id", id,
		"user_id", ownerID,
	)

	return nil
}

// DeleteAllDocuments hard-deletes every active document of the owner.
// Zero deleted rows is not an error.
func (s *documentService) DeleteAllDocuments(ctx context.Context, ownerID int64) (int64, error) {
	if err := validateOwner(ownerID); err != nil {
		return 0, err
	}

	var deleted int64
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		deleted, err = s.docRepo.DeleteAllActive(txCtx, ownerID)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("documents deleted",
		"user_id", ownerID,
		"count", deleted,
	)

	return deleted, nil
}

// SearchDocuments matches query case-insensitively against title or content
func (s *documentService) SearchDocuments(ctx context.Context, ownerID int64, query string, limit int) ([]models.Document, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &domain.ValidationError{Message: "query cannot be empty"}
	}

	return s.docRepo.Search(ctx, ownerID, query, normalizeLimit(limit))
}

// validateCreateRequest validates a document creation request.
// Title is already trimmed; content is checked after trimming but stored as given.
func (s *documentService) validateCreateRequest(req *services.CreateDocumentRequest) error {
	trimmedContent := strings.TrimSpace(req.Content)
	err := validation.ValidateStruct(req,
		validation.Field(&req.OwnerID, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.Title, validation.Required),
		validation.Field(&req.Content, validation.By(func(interface{}) error {
			return validation.Validate(trimmedContent, validation.Required)
		})),
	)
	return asValidationError(err)
}

// validateUpdateRequest requires at least one field; provided fields must not be blank
func (s *documentService) validateUpdateRequest(req *services.UpdateDocumentRequest) error {
	if req.Title == nil && req.Content == nil {
		return &domain.ValidationError{Message: "provide a title or content to update"}
	}

	err := validation.ValidateStruct(req,
		validation.Field(&req.ID, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.OwnerID, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.Title, validation.NilOrNotEmpty),
		validation.Field(&req.Content, validation.By(func(interface{}) error {
			if req.Content == nil {
				return nil
			}
			return validation.Validate(strings.TrimSpace(*req.Content), validation.Required)
		})),
	)
	return asValidationError(err)
}

// asValidationError converts ozzo validation errors to a domain ValidationError.
// Internal rule errors pass through unchanged.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}
	return &domain.ValidationError{Message: err.Error()}
}

func validateOwner(ownerID int64) error {
	if ownerID <= 0 {
		return &domain.ValidationError{Message: "owner id must be a positive integer"}
	}
	return nil
}

// normalizeLimit maps non-positive limits to the default and clamps large ones
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return config.DefaultDocumentLimit
	}
	if limit > config.MaxDocumentLimit {
		return config.MaxDocumentLimit
	}
	return limit
}

// truncateRunes cuts s to at most n runes
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
