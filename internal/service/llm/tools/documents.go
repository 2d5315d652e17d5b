package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cinedesk/internal/domain"
	"cinedesk/internal/domain/models"
	"cinedesk/internal/domain/services"
)

// Document tool names
const (
	ToolListDocuments        = "list_documents"
	ToolGetDocument          = "get_document"
	ToolCreateDocument       = "create_document"
	ToolUpdateDocument       = "update_document"
	ToolDeleteDocument       = "delete_document"
	ToolDeleteAllDocuments   = "delete_all_documents"
	ToolSearchQueryDocuments = "search_query_documents"
)

const (
	msgDocumentNotFound = "Document not found"
	msgNoDocuments      = "You have no recent documents."
	msgNoMatches        = "No documents matched your query."
)

type listDocumentsArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"description=Maximum number of documents to return,default=10,minimum=1"`
}

type documentIDArgs struct {
	DocumentID int64 `json:"document_id" jsonschema:"required,description=ID of the document"`
}

type createDocumentArgs struct {
	Title   string `json:"title" jsonschema:"required,description=Document title (at most 120 characters)"`
	Content string `json:"content" jsonschema:"required,description=Document body text"`
}

type updateDocumentArgs struct {
	DocumentID int64  `json:"document_id" jsonschema:"required,description=ID of the document to update"`
	Title      string `json:"title,omitempty" jsonschema:"description=New title; omit to keep the current one"`
	Content    string `json:"content,omitempty" jsonschema:"description=New content; omit to keep the current one"`
}

type searchDocumentsArgs struct {
	Query string `json:"query" jsonschema:"required,description=Text to look for in titles and contents"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Maximum number of documents to return,default=10,minimum=1"`
}

type noArgs struct{}

// documentTool holds what every document tool needs
type documentTool struct {
	toolSpec
	docs   services.DocumentService
	config *ToolConfig
	logger *slog.Logger
}

func newDocumentTool(spec toolSpec, docs services.DocumentService, config *ToolConfig, logger *slog.Logger) documentTool {
	if config == nil {
		config = DefaultToolConfig()
	}
	return documentTool{toolSpec: spec, docs: docs, config: config, logger: logger}
}

// failure converts a service error into an error payload.
// Unexpected errors are logged and reported generically as "Failed to <op>".
func (t *documentTool) failure(ctx context.Context, op string, err error, attrs ...any) map[string]interface{} {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return ErrorResult(KindInvalidArgument, validationErr.Message)
	case errors.Is(err, domain.ErrValidation):
		return ErrorResult(KindInvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return ErrorResult(KindNotFound, msgDocumentNotFound)
	}

	t.logger.ErrorContext(ctx, "document tool failed",
		append([]any{"tool", t.name, "error", err}, attrs...)...)
	return ErrorResult(KindDownstream, "Failed to "+op)
}

// caller resolves the user id, or returns the identity error payload.
func caller(ctx context.Context) (int64, map[string]interface{}) {
	userID, err := UserIDFromContext(ctx)
	if err != nil {
		return 0, ErrorResult(KindIdentity, err.Error())
	}
	return userID, nil
}

// ListDocumentsTool implements 'list_documents'.
type ListDocumentsTool struct{ documentTool }

// NewListDocumentsTool creates a new ListDocumentsTool instance.
func NewListDocumentsTool(docs services.DocumentService, config *ToolConfig, logger *slog.Logger) *ListDocumentsTool {
	return &ListDocumentsTool{newDocumentTool(toolSpec{
		name:        ToolListDocuments,
		description: "List the current user's most recent documents (id and title), newest first.",
		schema:      SchemaFor[listDocumentsArgs](),
	}, docs, config, logger)}
}

// Execute implements ToolExecutor interface.
// Input parameters:
//   - limit (integer, optional): defaults to 10, non-positive or malformed values fall back to the default
//
// Returns:
//   - {success, documents: [{id, title}], count[, message]}
func (t *ListDocumentsTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	userID, errPayload := caller(ctx)
	if errPayload != nil {
		return errPayload, nil
	}

	limit := limitArg(input, t.config.DocumentDefaultLimit, t.config.DocumentMaxLimit)
	docs, err := t.docs.ListDocuments(ctx, userID, limit)
	if err != nil {
		return t.failure(ctx, "list documents", err, "user_id", userID), nil
	}

	result := SuccessResult(map[string]interface{}{
		"documents": summarize(docs, 0),
		"count":     len(docs),
	})
	if len(docs) == 0 {
		result["message"] = msgNoDocuments
	}
	return result, nil
}

// GetDocumentTool implements 'get_document'.
type GetDocumentTool struct{ documentTool }

// NewGetDocumentTool creates a new GetDocumentTool instance.
func NewGetDocumentTool(docs services.DocumentService, config *ToolConfig, logger *slog.Logger) *GetDocumentTool {
	return &GetDocumentTool{newDocumentTool(toolSpec{
		name:        ToolGetDocument,
		description: "Get the title and full content of one of the current user's documents by id.",
		schema:      SchemaFor[documentIDArgs](),
	}, docs, config, logger)}
}

// Execute implements ToolExecutor interface.
// Returns {success, id, title, content}.
func (t *GetDocumentTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	userID, errPayload := caller(ctx)
	if errPayload != nil {
		return errPayload, nil
	}

	docID, ok := positiveID(input, "document_id")
	if !ok {
		return ErrorResult(KindInvalidArgument, "document_id must be a positive integer"), nil
	}

	doc, err := t.docs.GetDocument(ctx, docID, userID)
	if err != nil {
		return t.failure(ctx, "get document", err, "user_id", userID, "document_id", docID), nil
	}

	return SuccessResult(map[string]interface{}{
		"id":      doc.ID,
		"title":   doc.Title,
		"content": doc.Content,
	}), nil
}

// CreateDocumentTool implements 'create_document'.
type CreateDocumentTool struct{ documentTool }

// NewCreateDocumentTool creates a new CreateDocumentTool instance.
func NewCreateDocumentTool(docs services.DocumentService, config *ToolConfig, logger *slog.Logger) *CreateDocumentTool {
	return &CreateDocumentTool{newDocumentTool(toolSpec{
		name:        ToolCreateDocument,
		description: "Create a new document for the current user. Titles longer than 120 characters are truncated.",
		schema:      SchemaFor[createDocumentArgs](),
	}, docs, config, logger)}
}

// Execute implements ToolExecutor interface.
// Returns {success, id, title, content, created_at}.
func (t *CreateDocumentTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	userID, errPayload := caller(ctx)
	if errPayload != nil {
		return errPayload, nil
	}

	title, _ := stringArg(input, "title")
	content, _ := stringArg(input, "content")

	doc, err := t.docs.CreateDocument(ctx, &services.CreateDocumentRequest{
		OwnerID: userID,
		Title:   title,
		Content: content,
	})
	if err != nil {
		return t.failure(ctx, "create document", err, "user_id", userID), nil
	}

	return SuccessResult(documentRecord(doc)), nil
}

// UpdateDocumentTool implements 'update_document'.
type UpdateDocumentTool struct{ documentTool }

// NewUpdateDocumentTool creates a new UpdateDocumentTool instance.
func NewUpdateDocumentTool(docs services.DocumentService, config *ToolConfig, logger *slog.Logger) *UpdateDocumentTool {
	return &UpdateDocumentTool{newDocumentTool(toolSpec{
		name:        ToolUpdateDocument,
		description: "Update the title and/or content of one of the current user's documents. Fields that are omitted stay unchanged.",
		schema:      SchemaFor[updateDocumentArgs](),
	}, docs, config, logger)}
}

// Execute implements ToolExecutor interface.
// Returns {success, id, title, content, created_at}.
func (t *UpdateDocumentTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	userID, errPayload := caller(ctx)
	if errPayload != nil {
		return errPayload, nil
	}

	docID, ok := positiveID(input, "document_id")
	if !ok {
		return ErrorResult(KindInvalidArgument, "document_id must be a positive integer"), nil
	}

	req := &services.UpdateDocumentRequest{ID: docID, OwnerID: userID}
	if title, present := stringArg(input, "title"); present {
		req.Title = &title
	}
	if content, present := stringArg(input, "content"); present {
		req.Content = &content
	}

	doc, err := t.docs.UpdateDocument(ctx, req)
	if err != nil {
		return t.failure(ctx, "update document", err, "user_id", userID, "document_id", docID), nil
	}

	return SuccessResult(documentRecord(doc)), nil
}

// DeleteDocumentTool implements 'delete_document'.
type DeleteDocumentTool struct{ documentTool }

// NewDeleteDocumentTool creates a new DeleteDocumentTool instance.
func NewDeleteDocumentTool(docs services.DocumentService, config *ToolConfig, logger *slog.Logger) *DeleteDocumentTool {
	return &DeleteDocumentTool{newDocumentTool(toolSpec{
		name:        ToolDeleteDocument,
		description: "Permanently delete one of the current user's documents by id.",
		schema:      SchemaFor[documentIDArgs](),
	}, docs, config, logger)}
}

// Execute implements ToolExecutor interface.
// Returns {success, id, message}.
func (t *DeleteDocumentTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	userID, errPayload := caller(ctx)
	if errPayload != nil {
		return errPayload, nil
	}

	docID, ok := positiveID(input, "document_id")
	if !ok {
		return ErrorResult(KindInvalidArgument, "document_id must be a positive integer"), nil
	}

	if err := t.docs.DeleteDocument(ctx, docID, userID); err != nil {
		return t.failure(ctx, "delete document", err, "user_id", userID, "document_id", docID), nil
	}

	return SuccessResult(map[string]interface{}{
		"id":      docID,
		"message": "Document deleted",
	}), nil
}

// DeleteAllDocumentsTool implements 'delete_all_documents'.
type DeleteAllDocumentsTool struct{ documentTool }

// NewDeleteAllDocumentsTool creates a new DeleteAllDocumentsTool instance.
func NewDeleteAllDocumentsTool(docs services.DocumentService, config *ToolConfig, logger *slog.Logger) *DeleteAllDocumentsTool {
	return &DeleteAllDocumentsTool{newDocumentTool(toolSpec{
		name:        ToolDeleteAllDocuments,
		description: "Permanently delete all of the current user's documents.",
		schema:      SchemaFor[noArgs](),
	}, docs, config, logger)}
}

// Execute implements ToolExecutor interface.
// Returns {success, deleted_count, message}. Deleting nothing is a success.
func (t *DeleteAllDocumentsTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	userID, errPayload := caller(ctx)
	if errPayload != nil {
		return errPayload, nil
	}

	deleted, err := t.docs.DeleteAllDocuments(ctx, userID)
	if err != nil {
		return t.failure(ctx, "delete documents", err, "user_id", userID), nil
	}

	return SuccessResult(map[string]interface{}{
		"deleted_count": deleted,
		"message":       fmt.Sprintf("Deleted %d document(s)", deleted),
	}), nil
}

// SearchQueryDocumentsTool implements 'search_query_documents'.
type SearchQueryDocumentsTool struct{ documentTool }

// NewSearchQueryDocumentsTool creates a new SearchQueryDocumentsTool instance.
func NewSearchQueryDocumentsTool(docs services.DocumentService, config *ToolConfig, logger *slog.Logger) *SearchQueryDocumentsTool {
	return &SearchQueryDocumentsTool{newDocumentTool(toolSpec{
		name:        ToolSearchQueryDocuments,
		description: "Search the current user's documents for text in the title or content (case-insensitive), newest first.",
		schema:      SchemaFor[searchDocumentsArgs](),
	}, docs, config, logger)}
}

// Execute implements ToolExecutor interface.
// Returns {success, documents: [{id, title, preview}], count[, message]}.
func (t *SearchQueryDocumentsTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	userID, errPayload := caller(ctx)
	if errPayload != nil {
		return errPayload, nil
	}

	query, _ := stringArg(input, "query")
	limit := limitArg(input, t.config.DocumentDefaultLimit, t.config.DocumentMaxLimit)

	docs, err := t.docs.SearchDocuments(ctx, userID, query, limit)
	if err != nil {
		return t.failure(ctx, "search documents", err, "user_id", userID), nil
	}

	result := SuccessResult(map[string]interface{}{
		"documents": summarize(docs, t.config.PreviewLength),
		"count":     len(docs),
	})
	if len(docs) == 0 {
		result["message"] = msgNoMatches
	}
	return result, nil
}

// NewDocumentTools returns every document tool, in declaration order.
func NewDocumentTools(docs services.DocumentService, config *ToolConfig, logger *slog.Logger) []Tool {
	return []Tool{
		NewListDocumentsTool(docs, config, logger),
		NewGetDocumentTool(docs, config, logger),
		NewCreateDocumentTool(docs, config, logger),
		NewUpdateDocumentTool(docs, config, logger),
		NewDeleteDocumentTool(docs, config, logger),
		NewDeleteAllDocumentsTool(docs, config, logger),
		NewSearchQueryDocumentsTool(docs, config, logger),
	}
}

// summarize projects documents for the model. previewLen 0 omits the preview.
func summarize(docs []models.Document, previewLen int) []map[string]interface{} {
	list := make([]map[string]interface{}, len(docs))
	for i, doc := range docs {
		item := map[string]interface{}{
			"id":    doc.ID,
			"title": doc.Title,
		}
		if previewLen > 0 {
			item["preview"] = preview(doc.Content, previewLen)
		}
		list[i] = item
	}
	return list
}

func documentRecord(doc *models.Document) map[string]interface{} {
	return map[string]interface{}{
		"id":         doc.ID,
		"title":      doc.Title,
		"content":    doc.Content,
		"created_at": doc.CreatedAt.Format(time.RFC3339),
	}
}

// preview returns the first n runes of content, with "..." when cut
func preview(content string, n int) string {
	runes := []rune(content)
	if len(runes) <= n {
		return content
	}
	return string(runes[:n]) + "..."
}
