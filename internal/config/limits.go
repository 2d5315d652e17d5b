package config

const (
	// MaxDocumentTitleLength is the maximum length for document titles, in runes.
	// Matches the VARCHAR(120) title column. Longer titles are truncated, not rejected.
	MaxDocumentTitleLength = 120

	// DocumentPreviewLength is how much content search results carry, in runes.
	DocumentPreviewLength = 200

	// Document list/search limits
	DefaultDocumentLimit = 10
	MaxDocumentLimit     = 100

	// Movie search limits
	DefaultMovieLimit = 5
	MaxMovieLimit     = 20
)
