package memory

import (
	"context"
	"sync"

	"doc-attest/internal/model"
	"doc-attest/internal/repository"
)

// Store is an in-memory DocumentStore used by the tests and by the dev
// server when no database is configured. Documents are copied through the
// portable record on the way in and out, so callers never share slices
// with the store.
type Store struct {
	mu   sync.RWMutex
	docs map[string]repository.StoredDocument
	// insertion order, so LoadAll is deterministic
	order []string
}

func NewStore() *Store {
	return &Store{docs: make(map[string]repository.StoredDocument)}
}

func (s *Store) LoadAll(ctx context.Context) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]model.Document, 0, len(s.order))
	for _, id := range s.order {
		doc, err := s.docs[id].ToModel()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *Store) SaveAll(ctx context.Context, docs []model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = make(map[string]repository.StoredDocument, len(docs))
	s.order = s.order[:0]
	for _, doc := range docs {
		s.docs[doc.ID] = repository.NewStoredDocument(doc)
		s.order = append(s.order, doc.ID)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.docs[id]
	if !ok {
		return model.Document{}, repository.ErrNotFound
	}
	return stored.ToModel()
}

func (s *Store) Put(ctx context.Context, doc model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[doc.ID]; !exists {
		s.order = append(s.order, doc.ID)
	}
	s.docs[doc.ID] = repository.NewStoredDocument(doc)
	return nil
}
