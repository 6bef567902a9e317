package store

import (
	"strings"
	"time"
)

// Document is one uploaded file after indexing: the extracted text split into
// chunks plus one embedding vector per chunk. Chunks[i] and Embeddings[i]
// describe the same passage. The two slices may differ in length when the
// embedding step failed partway; consumers must only iterate the shared
// prefix (see PairCount). A Document is never mutated after creation, so it
// is safe to share by reference across sessions and goroutines.
type Document struct {
	ID         string      `json:"id"`
	Filename   string      `json:"filename"`
	Chunks     []string    `json:"chunks"`
	Embeddings [][]float32 `json:"-"`
	CreatedAt  time.Time   `json:"created_at"`
}

// SessionDocuments maps document id to Document for a single session.
type SessionDocuments map[string]*Document

// PairCount returns the number of usable chunk/embedding pairs.
func (d *Document) PairCount() int {
	if len(d.Chunks) < len(d.Embeddings) {
		return len(d.Chunks)
	}
	return len(d.Embeddings)
}

// IsBlankChunk reports whether the chunk at i carries no retrievable text.
func (d *Document) IsBlankChunk(i int) bool {
	return strings.TrimSpace(d.Chunks[i]) == ""
}
