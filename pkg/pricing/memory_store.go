package pricing

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// inMemStore is a DocumentStore backed by a map. Documents are cloned on the
// way in and out so callers cannot mutate stored state.
type inMemStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewInMemStore returns an in-memory DocumentStore seeded with docs.
func NewInMemStore(docs ...*Document) DocumentStore {
	s := &inMemStore{docs: make(map[string]*Document, len(docs))}
	for _, d := range docs {
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		s.docs[d.ID] = d.Clone()
	}
	return s
}

func (s *inMemStore) Get(ctx context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrPricingNotFound
	}
	return doc.Clone(), nil
}

func (s *inMemStore) Save(ctx context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	s.docs[doc.ID] = doc.Clone()
	return nil
}

func (s *inMemStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return ErrPricingNotFound
	}
	delete(s.docs, id)
	return nil
}
