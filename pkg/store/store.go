package store

import (
	"sort"
	"sync"
)

// DocumentStore holds every session's indexed documents for the lifetime of
// the process. There is no durability: a restart starts empty. All methods
// are safe for concurrent use; read-modify-write sequences (lookup-then-insert,
// consolidate-then-store) run under a single write lock.
type DocumentStore struct {
	mu       sync.RWMutex
	sessions map[string]SessionDocuments
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		sessions: make(map[string]SessionDocuments),
	}
}

// AddDocument registers a document under the given session, creating the
// session entry on first use.
func (s *DocumentStore) AddDocument(sessionID string, doc *Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.sessions[sessionID]
	if !ok {
		docs = make(SessionDocuments)
		s.sessions[sessionID] = docs
	}
	docs[doc.ID] = doc
}

func (s *DocumentStore) GetDocument(sessionID, documentID string) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.sessions[sessionID][documentID]
	return doc, ok
}

// ListDocuments returns the session's documents ordered by creation time.
func (s *DocumentStore) ListDocuments(sessionID string) []*Document {
	s.mu.RLock()
	docs := make([]*Document, 0, len(s.sessions[sessionID]))
	for _, doc := range s.sessions[sessionID] {
		docs = append(docs, doc)
	}
	s.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].CreatedAt.Before(docs[j].CreatedAt)
	})
	return docs
}

// RemoveDocument drops one document from a session. It reports whether the
// document existed.
func (s *DocumentStore) RemoveDocument(sessionID, documentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.sessions[sessionID]
	if !ok {
		return false
	}
	if _, ok := docs[documentID]; !ok {
		return false
	}
	delete(docs, documentID)
	if len(docs) == 0 {
		delete(s.sessions, sessionID)
	}
	return true
}

// ResolveDocuments returns the corpus a retrieval for sessionID should run
// over. When the session already owns documents the result is a snapshot of
// those. When it owns none, the union of every known session's documents is
// returned instead, and for a non-empty sessionID that union is persisted
// back under it so later turns of the same session see a stable corpus.
// The fallback tolerates the race where a chat turn arrives before the session
// cookie from the upload round-trip does; it assumes a single-tenant
// deployment, since it deliberately shares documents across session ids.
func (s *DocumentStore) ResolveDocuments(sessionID string) SessionDocuments {
	s.mu.Lock()
	defer s.mu.Unlock()

	if docs := s.sessions[sessionID]; len(docs) > 0 {
		return copyDocs(docs)
	}

	union := make(SessionDocuments)
	for _, docs := range s.sessions {
		for id, doc := range docs {
			union[id] = doc
		}
	}
	if sessionID != "" && len(union) > 0 {
		s.sessions[sessionID] = copyDocs(union)
	}
	return union
}

// DeleteSession removes a session and all its document references.
func (s *DocumentStore) DeleteSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// SessionCount returns the number of sessions currently holding documents.
func (s *DocumentStore) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// DocumentCount returns the total number of stored documents across sessions.
func (s *DocumentStore) DocumentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, docs := range s.sessions {
		n += len(docs)
	}
	return n
}

func copyDocs(docs SessionDocuments) SessionDocuments {
	out := make(SessionDocuments, len(docs))
	for id, doc := range docs {
		out[id] = doc
	}
	return out
}
