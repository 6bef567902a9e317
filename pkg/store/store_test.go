package store

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func testDoc(id, filename string, chunks ...string) *Document {
	embeddings := make([][]float32, len(chunks))
	for i := range chunks {
		embeddings[i] = []float32{1, 0}
	}
	return &Document{
		ID:         id,
		Filename:   filename,
		Chunks:     chunks,
		Embeddings: embeddings,
		CreatedAt:  time.Now(),
	}
}

func TestPairCount(t *testing.T) {
	tests := []struct {
		name       string
		chunks     int
		embeddings int
		want       int
	}{
		{name: "aligned", chunks: 3, embeddings: 3, want: 3},
		{name: "embedding step failed partway", chunks: 5, embeddings: 2, want: 2},
		{name: "more embeddings than chunks", chunks: 1, embeddings: 4, want: 1},
		{name: "empty document", chunks: 0, embeddings: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{
				Chunks:     make([]string, tt.chunks),
				Embeddings: make([][]float32, tt.embeddings),
			}
			if got := doc.PairCount(); got != tt.want {
				t.Errorf("PairCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAddAndListDocuments(t *testing.T) {
	s := NewDocumentStore()

	first := testDoc("doc-1", "a.txt", "alpha")
	second := testDoc("doc-2", "b.txt", "beta")
	second.CreatedAt = first.CreatedAt.Add(time.Second)

	s.AddDocument("session-1", first)
	s.AddDocument("session-1", second)

	docs := s.ListDocuments("session-1")
	if len(docs) != 2 {
		t.Fatalf("ListDocuments returned %d documents, want 2", len(docs))
	}
	if docs[0].ID != "doc-1" || docs[1].ID != "doc-2" {
		t.Errorf("documents out of creation order: %s, %s", docs[0].ID, docs[1].ID)
	}

	if _, ok := s.GetDocument("session-1", "doc-1"); !ok {
		t.Error("GetDocument did not find stored document")
	}
	if _, ok := s.GetDocument("other-session", "doc-1"); ok {
		t.Error("GetDocument leaked a document across sessions")
	}
}

func TestRemoveDocument(t *testing.T) {
	s := NewDocumentStore()
	s.AddDocument("session-1", testDoc("doc-1", "a.txt", "alpha"))

	if removed := s.RemoveDocument("session-1", "missing"); removed {
		t.Error("RemoveDocument reported true for unknown document")
	}
	if removed := s.RemoveDocument("session-1", "doc-1"); !removed {
		t.Error("RemoveDocument reported false for stored document")
	}
	if got := s.SessionCount(); got != 0 {
		t.Errorf("empty session kept alive, SessionCount = %d", got)
	}
}

func TestResolveDocumentsPrefersOwnSession(t *testing.T) {
	s := NewDocumentStore()
	s.AddDocument("mine", testDoc("doc-1", "a.txt", "alpha"))
	s.AddDocument("other", testDoc("doc-2", "b.txt", "beta"))

	docs := s.ResolveDocuments("mine")
	if len(docs) != 1 {
		t.Fatalf("ResolveDocuments returned %d documents, want 1", len(docs))
	}
	if _, ok := docs["doc-1"]; !ok {
		t.Error("ResolveDocuments dropped the session's own document")
	}
}

func TestResolveDocumentsConsolidatesWhenSessionEmpty(t *testing.T) {
	s := NewDocumentStore()
	s.AddDocument("uploader-a", testDoc("doc-1", "a.txt", "alpha"))
	s.AddDocument("uploader-b", testDoc("doc-2", "b.txt", "beta"))

	docs := s.ResolveDocuments("newcomer")
	if len(docs) != 2 {
		t.Fatalf("consolidated view has %d documents, want 2", len(docs))
	}

	// The union must now be persisted under the requesting session.
	if _, ok := s.GetDocument("newcomer", "doc-1"); !ok {
		t.Error("consolidated set was not persisted under the requesting session")
	}
	if _, ok := s.GetDocument("newcomer", "doc-2"); !ok {
		t.Error("consolidated set was not persisted under the requesting session")
	}
}

func TestResolveDocumentsWithoutSessionIDDoesNotPersist(t *testing.T) {
	s := NewDocumentStore()
	s.AddDocument("uploader-a", testDoc("doc-1", "a.txt", "alpha"))

	docs := s.ResolveDocuments("")
	if len(docs) != 1 {
		t.Fatalf("consolidated view has %d documents, want 1", len(docs))
	}
	if got := s.SessionCount(); got != 1 {
		t.Errorf("anonymous resolve persisted a session, SessionCount = %d", got)
	}
}

func TestResolveDocumentsEmptyStore(t *testing.T) {
	s := NewDocumentStore()
	if docs := s.ResolveDocuments("any"); len(docs) != 0 {
		t.Errorf("empty store resolved %d documents, want 0", len(docs))
	}
	if got := s.SessionCount(); got != 0 {
		t.Errorf("resolve on empty store persisted a session, SessionCount = %d", got)
	}
}

func TestDeleteSession(t *testing.T) {
	s := NewDocumentStore()
	s.AddDocument("session-1", testDoc("doc-1", "a.txt", "alpha"))
	s.AddDocument("session-2", testDoc("doc-2", "b.txt", "beta"))

	s.DeleteSession("session-1")

	if _, ok := s.GetDocument("session-1", "doc-1"); ok {
		t.Error("deleted session still serves documents")
	}
	if got := s.DocumentCount(); got != 1 {
		t.Errorf("DocumentCount = %d, want 1", got)
	}
}

func TestConcurrentStoreAccess(t *testing.T) {
	s := NewDocumentStore()
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			sessionID := fmt.Sprintf("session-%d", n%4)
			docID := fmt.Sprintf("doc-%d", n)
			s.AddDocument(sessionID, testDoc(docID, "f.txt", "chunk"))
			s.ResolveDocuments(sessionID)
			s.ListDocuments(sessionID)
			s.GetDocument(sessionID, docID)
		}(i)
	}
	wg.Wait()

	if got := s.DocumentCount(); got < 16 {
		t.Errorf("DocumentCount = %d, want at least 16", got)
	}
}
