package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
	"github.com/evidenzia-labs/evidenzia-cli/internal/core/ports/driven"
)

// Ensure DocStore implements the interface.
var _ driven.DocStore = (*DocStore)(nil)

// DocStore is an in-memory implementation of driven.DocStore.
type DocStore struct {
	mu   sync.RWMutex
	docs map[string]domain.Extraction
}

// NewDocStore creates a new in-memory document store.
func NewDocStore() *DocStore {
	return &DocStore{
		docs: make(map[string]domain.Extraction),
	}
}

// SaveDoc stores or replaces the extraction for a filename.
func (s *DocStore) SaveDoc(_ context.Context, filename string, ex domain.Extraction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[filename] = ex
	return nil
}

// GetDoc retrieves the stored extraction for a filename.
func (s *DocStore) GetDoc(_ context.Context, filename string) (domain.Extraction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ex, ok := s.docs[filename]
	if !ok {
		return domain.Extraction{}, domain.ErrNotFound
	}
	return ex, nil
}

// DeleteDoc removes a stored document. Unknown filenames are a no-op.
func (s *DocStore) DeleteDoc(_ context.Context, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, filename)
	return nil
}

// ListFilenames returns the stored filenames in lexical order.
func (s *DocStore) ListFilenames(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
