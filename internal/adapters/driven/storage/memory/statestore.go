package memory

import (
	"context"
	"sync"

	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
	"github.com/evidenzia-labs/evidenzia-cli/internal/core/ports/driven"
)

// Ensure StateStore implements the interface.
var _ driven.StateStore = (*StateStore)(nil)

// StateStore is an in-memory implementation of driven.StateStore.
type StateStore struct {
	mu    sync.RWMutex
	state domain.MappingState
	set   bool
}

// NewStateStore creates a new in-memory state store.
func NewStateStore() *StateStore {
	return &StateStore{}
}

// LoadState reads the stored mapping state.
func (s *StateStore) LoadState(_ context.Context) (domain.MappingState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return domain.MappingState{}, false, nil
	}
	return s.state.Clone(), true, nil
}

// SaveState stores the full mapping state. Last write wins.
func (s *StateStore) SaveState(_ context.Context, state domain.MappingState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
	s.set = true
	return nil
}
