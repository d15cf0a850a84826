package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/pipewright/pkg/domain"
)

// Store implements ports.DocumentStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Document
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Document),
	}
}

func copyDocument(doc *domain.Document) *domain.Document {
	ret := *doc
	ret.Pipeline = doc.Pipeline.Clone()
	return &ret
}

// Save persists the document in memory.
func (s *Store) Save(ctx context.Context, name string, doc *domain.Document) error {
	copied := copyDocument(doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = copied
	return nil
}

// Load retrieves the document from memory.
func (s *Store) Load(ctx context.Context, name string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.data[name]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}

	// Copy on read so callers can't mutate the stored pipeline.
	return copyDocument(doc), nil
}

// Delete removes the document.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns stored document names in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
