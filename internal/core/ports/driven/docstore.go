package driven

import (
	"context"

	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
)

// DocStore persists parsed documents, one record per filename. A re-upload
// replaces the stored extraction wholesale; individual rows are never
// mutated.
type DocStore interface {
	// SaveDoc stores or replaces the extraction for a filename.
	SaveDoc(ctx context.Context, filename string, ex domain.Extraction) error

	// GetDoc retrieves the stored extraction for a filename.
	// Returns domain.ErrNotFound when the filename is unknown.
	GetDoc(ctx context.Context, filename string) (domain.Extraction, error)

	// DeleteDoc removes a stored document. Deleting an unknown filename
	// is not an error.
	DeleteDoc(ctx context.Context, filename string) error

	// ListFilenames returns the stored filenames in lexical order.
	ListFilenames(ctx context.Context) ([]string, error)
}
