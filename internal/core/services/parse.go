package services

import (
	"context"
	"fmt"

	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
	"github.com/evidenzia-labs/evidenzia-cli/internal/core/ports/driven"
	"github.com/evidenzia-labs/evidenzia-cli/internal/core/ports/driving"
	"github.com/evidenzia-labs/evidenzia-cli/internal/docx"
	"github.com/evidenzia-labs/evidenzia-cli/internal/logger"
)

// Ensure ParseService implements the interface.
var _ driving.ParseService = (*ParseService)(nil)

// ParseService runs the extraction engine over uploaded documents and
// manages their persisted results. Extraction itself is pure and per-file;
// the store is only touched by Upload, Aggregate and Delete.
type ParseService struct {
	docStore driven.DocStore
}

// NewParseService creates a new parse service. docStore may be nil for
// parse-only use (the CLI extract command); store-backed operations then
// return domain.ErrNotImplemented.
func NewParseService(docStore driven.DocStore) *ParseService {
	return &ParseService{docStore: docStore}
}

// Parse extracts one document.
func (s *ParseService) Parse(_ context.Context, up domain.Upload) (domain.Extraction, error) {
	return docx.Parse(up.Data, up.Filename)
}

// ParseAll extracts a batch of documents. Each file is processed
// independently: a malformed file contributes an error entry and the
// remaining files' rows are kept.
func (s *ParseService) ParseAll(_ context.Context, ups []domain.Upload) domain.BatchResult {
	var batch domain.BatchResult
	for _, up := range ups {
		ex, err := docx.Parse(up.Data, up.Filename)
		if err != nil {
			logger.Debug("parse failed for %s: %v", up.Filename, err)
			batch.Errors = append(batch.Errors, domain.FileError{
				Filename: up.Filename,
				Message:  err.Error(),
			})
			continue
		}
		logger.Debug("parsed %s: %d highlights, %d comments, %d paragraphs",
			up.Filename, len(ex.Highlights), len(ex.Comments), len(ex.Paragraphs))
		batch.Merge(ex)
	}
	return batch
}

// Upload parses and persists a batch, then returns the aggregate of all
// stored documents. Parse failures are carried over into the aggregate's
// error list.
func (s *ParseService) Upload(ctx context.Context, ups []domain.Upload) (domain.BatchResult, error) {
	if s.docStore == nil {
		return domain.BatchResult{}, domain.ErrNotImplemented
	}

	var fileErrors []domain.FileError
	for _, up := range ups {
		ex, err := docx.Parse(up.Data, up.Filename)
		if err != nil {
			fileErrors = append(fileErrors, domain.FileError{Filename: up.Filename, Message: err.Error()})
			continue
		}
		if err := s.docStore.SaveDoc(ctx, up.Filename, ex); err != nil {
			return domain.BatchResult{}, fmt.Errorf("saving document %s: %w", up.Filename, err)
		}
	}

	agg, err := s.Aggregate(ctx)
	if err != nil {
		return domain.BatchResult{}, err
	}
	agg.Errors = append(agg.Errors, fileErrors...)
	return agg, nil
}

// Aggregate returns the unioned rows of all stored documents, ordered by
// filename.
func (s *ParseService) Aggregate(ctx context.Context) (domain.BatchResult, error) {
	if s.docStore == nil {
		return domain.BatchResult{}, domain.ErrNotImplemented
	}

	names, err := s.docStore.ListFilenames(ctx)
	if err != nil {
		return domain.BatchResult{}, fmt.Errorf("listing documents: %w", err)
	}

	var batch domain.BatchResult
	for _, name := range names {
		ex, err := s.docStore.GetDoc(ctx, name)
		if err != nil {
			return domain.BatchResult{}, fmt.Errorf("loading document %s: %w", name, err)
		}
		batch.Merge(ex)
	}
	return batch, nil
}

// Delete removes a stored document.
func (s *ParseService) Delete(ctx context.Context, filename string) error {
	if s.docStore == nil {
		return domain.ErrNotImplemented
	}
	return s.docStore.DeleteDoc(ctx, filename)
}

// Filenames lists stored filenames.
func (s *ParseService) Filenames(ctx context.Context) ([]string, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.docStore.ListFilenames(ctx)
}
