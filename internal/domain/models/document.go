package models

import (
	"time"
)

// Document is one row of the per-user document table.
// Owner-scoped and soft-deletable: only Active rows are visible to tools.
type Document struct {
	ID        int64     `json:"id" db:"id"`
	OwnerID   int64     `json:"owner_id" db:"owner_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DocumentSummary is the list/search projection of a document (no full content).
type DocumentSummary struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Preview string `json:"preview,omitempty"`
}
