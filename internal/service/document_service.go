// FILE: internal/service/document_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/pkg/store"

	"github.com/google/uuid"
)

// StatusIndexing is returned on upload: chunking and embedding run on the
// ingest bus after the response has been sent.
const StatusIndexing = "indexing"

var allowedDocumentExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

type IDocumentService interface {
	Upload(ctx context.Context, sessionId string, file *multipart.FileHeader) (*dto.UploadDocumentResponse, error)
	List(ctx context.Context, sessionId string) ([]*dto.DocumentListItem, error)
	Remove(ctx context.Context, sessionId string, documentId string) error
}

type documentService struct {
	documents        *store.DocumentStore
	activity         *store.ActivityTracker
	publisherService IPublisherService
	uploadDir        string
}

func NewDocumentService(
	documents *store.DocumentStore,
	activity *store.ActivityTracker,
	publisherService IPublisherService,
	uploadDir string,
) IDocumentService {
	return &documentService{
		documents:        documents,
		activity:         activity,
		publisherService: publisherService,
		uploadDir:        uploadDir,
	}
}

func (ds *documentService) Upload(ctx context.Context, sessionId string, file *multipart.FileHeader) (*dto.UploadDocumentResponse, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedDocumentExtensions[ext] {
		return nil, serverutils.NewInvalidInput(fmt.Sprintf("unsupported document type '%s', expected .txt or .md", ext))
	}

	documentId := uuid.New().String()
	path := filepath.Join(ds.uploadDir, UploadFileName(sessionId, documentId, ext))

	if err := ds.saveFile(file, path); err != nil {
		return nil, fmt.Errorf("save uploaded document: %w", err)
	}

	payload := dto.IngestDocumentPayload{
		SessionId:  sessionId,
		DocumentId: documentId,
		Filename:   file.Filename,
		Path:       path,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if err := ds.publisherService.Publish(ctx, payloadJson); err != nil {
		return nil, fmt.Errorf("publish ingest message: %w", err)
	}

	ds.activity.Touch(sessionId)

	return &dto.UploadDocumentResponse{
		DocumentId: documentId,
		Filename:   file.Filename,
		Status:     StatusIndexing,
	}, nil
}

func (ds *documentService) List(ctx context.Context, sessionId string) ([]*dto.DocumentListItem, error) {
	ds.activity.Touch(sessionId)

	docs := ds.documents.ListDocuments(sessionId)
	items := make([]*dto.DocumentListItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, &dto.DocumentListItem{
			Id:         doc.ID,
			Filename:   doc.Filename,
			ChunkCount: len(doc.Chunks),
			IndexedAt:  doc.CreatedAt,
		})
	}
	return items, nil
}

func (ds *documentService) Remove(ctx context.Context, sessionId string, documentId string) error {
	doc, ok := ds.documents.GetDocument(sessionId, documentId)
	if !ok {
		return serverutils.NewNotFound(fmt.Sprintf("document %s not found", documentId))
	}

	ds.documents.RemoveDocument(sessionId, documentId)
	ds.activity.Touch(sessionId)

	path := filepath.Join(ds.uploadDir, UploadFileName(sessionId, documentId, filepath.Ext(doc.Filename)))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove document file: %w", err)
	}
	return nil
}

func (ds *documentService) saveFile(file *multipart.FileHeader, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// UploadFileName builds the on-disk name for a stored document. The session
// prefix is what lets cleanup reclaim files without a database lookup.
func UploadFileName(sessionId, documentId, ext string) string {
	return sessionId + "__" + documentId + strings.ToLower(ext)
}
