package driven

import (
	"context"

	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
)

// StateStore persists the user-editable mapping state. Two implementations
// sit behind this one interface: a local synchronous store (authoritative
// for the running session) and a remote debounced best-effort store.
type StateStore interface {
	// LoadState reads the persisted mapping state. The boolean is false
	// when the store holds no state yet; that is not an error.
	LoadState(ctx context.Context) (domain.MappingState, bool, error)

	// SaveState writes the full mapping state. Last write wins.
	SaveState(ctx context.Context, state domain.MappingState) error
}
