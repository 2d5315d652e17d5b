package tools

import "cinedesk/internal/config"

// ToolConfig centralizes limits shared by the tool implementations.
type ToolConfig struct {
	// Document list/search tools
	DocumentDefaultLimit int
	DocumentMaxLimit     int
	PreviewLength        int // runes of content in search results

	// Movie search tool
	MovieDefaultLimit int
	MovieMaxLimit     int
}

// DefaultToolConfig returns the default tool configuration.
func DefaultToolConfig() *ToolConfig {
	return &ToolConfig{
		DocumentDefaultLimit: config.DefaultDocumentLimit,
		DocumentMaxLimit:     config.MaxDocumentLimit,
		PreviewLength:        config.DocumentPreviewLength,

		MovieDefaultLimit: config.DefaultMovieLimit,
		MovieMaxLimit:     config.MaxMovieLimit,
	}
}
