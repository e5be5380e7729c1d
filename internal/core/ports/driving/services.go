package driving

import (
	"context"

	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
)

// ParseService drives document extraction and the stored-document lifecycle.
type ParseService interface {
	// Parse extracts one document. A malformed container fails with
	// domain.ErrInvalidDocument.
	Parse(ctx context.Context, up domain.Upload) (domain.Extraction, error)

	// ParseAll extracts a batch. Files are processed independently; one
	// file's failure is reported in the result's Errors without aborting
	// the others.
	ParseAll(ctx context.Context, ups []domain.Upload) domain.BatchResult

	// Upload parses and persists a batch, then returns the aggregate of
	// all stored documents (including previously uploaded ones).
	Upload(ctx context.Context, ups []domain.Upload) (domain.BatchResult, error)

	// Aggregate returns the union of all stored documents' rows.
	Aggregate(ctx context.Context) (domain.BatchResult, error)

	// Delete removes a stored document by filename.
	Delete(ctx context.Context, filename string) error

	// Filenames lists stored filenames in lexical order.
	Filenames(ctx context.Context) ([]string, error)
}

// StateService manages the mapping-state aggregate: local storage is
// authoritative and written synchronously; a remote store, when configured,
// is written best-effort after a debounce delay.
type StateService interface {
	// Load initializes state from local storage merged with a single
	// startup fetch from the remote store. An unreachable remote is
	// tolerated silently.
	Load(ctx context.Context) error

	// Get returns a copy of the current mapping state.
	Get() domain.MappingState

	// Patch applies a partial update, persists it, and returns the
	// resulting state.
	Patch(ctx context.Context, patch domain.StatePatch) (domain.MappingState, error)

	// Close flushes any pending debounced remote write.
	Close() error
}

// AnnotationService recomputes the linked, categorized view model from the
// in-memory data and mapping state. Results are memoized on the current
// (data, state) combination.
type AnnotationService interface {
	// SetData replaces the underlying extraction rows.
	SetData(data domain.BatchResult)

	// SetState replaces the mapping state used for resolution.
	SetState(state domain.MappingState)

	// Annotations returns the linked annotation list, one entry per
	// comment, each carrying its resolved category and display color.
	Annotations() []domain.LinkedAnnotation
}
