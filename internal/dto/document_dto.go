// FILE: internal/dto/document_dto.go
package dto

import "time"

type UploadDocumentResponse struct {
	DocumentId string `json:"document_id"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
}

type DocumentListItem struct {
	Id         string    `json:"id"`
	Filename   string    `json:"filename"`
	ChunkCount int       `json:"chunk_count"`
	IndexedAt  time.Time `json:"indexed_at"`
}

// IngestDocumentPayload travels over the in-process ingest bus between
// upload and indexing.
type IngestDocumentPayload struct {
	SessionId  string `json:"session_id"`
	DocumentId string `json:"document_id"`
	Filename   string `json:"filename"`
	Path       string `json:"path"`
}
