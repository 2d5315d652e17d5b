package tools

import (
	"log/slog"

	"cinedesk/internal/domain/services"
	"cinedesk/internal/service/llm/tools/external"
)

// ToolRegistryBuilder provides a fluent API for building tool registries.
// Each With* method registers one family of tools.
type ToolRegistryBuilder struct {
	registry *ToolRegistry
	config   *ToolConfig
	logger   *slog.Logger
}

// NewToolRegistryBuilder creates a new builder with a fresh registry.
func NewToolRegistryBuilder(logger *slog.Logger) *ToolRegistryBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ToolRegistryBuilder{
		registry: NewToolRegistry(),
		config:   DefaultToolConfig(),
		logger:   logger,
	}
}

// WithConfig sets custom tool configuration.
// If not called, defaults will be used. Call it before the With*Tools methods.
func (b *ToolRegistryBuilder) WithConfig(config *ToolConfig) *ToolRegistryBuilder {
	if config != nil {
		b.config = config
	}
	return b
}

// WithDocumentTools registers the seven document tools backed by docs.
func (b *ToolRegistryBuilder) WithDocumentTools(docs services.DocumentService) *ToolRegistryBuilder {
	for _, tool := range NewDocumentTools(docs, b.config, b.logger) {
		b.registry.Register(tool)
	}
	return b
}

// WithMovieTools registers search_movies and get_movie_details.
// Only registers if both a movie client and a permission checker are provided.
func (b *ToolRegistryBuilder) WithMovieTools(client external.MovieClient, perms services.PermissionChecker) *ToolRegistryBuilder {
	if client == nil || perms == nil {
		b.logger.Warn("movie tools disabled: movie client or permission checker not configured")
		return b
	}
	for _, tool := range NewMovieTools(client, perms, b.config, b.logger) {
		b.registry.Register(tool)
	}
	return b
}

// Build returns the constructed tool registry.
func (b *ToolRegistryBuilder) Build() *ToolRegistry {
	return b.registry
}
