package services

import (
	"sync"

	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
	"github.com/evidenzia-labs/evidenzia-cli/internal/core/ports/driving"
	"github.com/evidenzia-labs/evidenzia-cli/internal/linker"
)

var _ driving.AnnotationService = (*AnnotationService)(nil)

// AnnotationService links each comment to its best-matching highlight and
// resolves its category against the mapping state. Computed annotations are
// cached until the data or the state changes.
type AnnotationService struct {
	mu    sync.Mutex
	data  domain.BatchResult
	state domain.MappingState

	cached []domain.LinkedAnnotation
	dirty  bool
}

// NewAnnotationService creates an annotation service seeded with the default
// mapping state and no data.
func NewAnnotationService() *AnnotationService {
	return &AnnotationService{
		state: domain.DefaultMappingState(),
		dirty: true,
	}
}

// SetData replaces the extraction rows and invalidates the cache.
func (s *AnnotationService) SetData(data domain.BatchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.dirty = true
}

// SetState replaces the mapping state and invalidates the cache.
func (s *AnnotationService) SetState(state domain.MappingState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
	s.dirty = true
}

// Annotations returns one linked, categorized entry per comment, in the
// comments' stored order.
func (s *AnnotationService) Annotations() []domain.LinkedAnnotation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return s.cached
	}

	out := make([]domain.LinkedAnnotation, 0, len(s.data.Comments))
	for _, c := range s.data.Comments {
		h := linker.Best(c.Quoted, highlightsFor(c.Filename, s.data.Highlights), paragraphsFor(c.Filename, s.data.Paragraphs))
		res := Resolve(c, h, s.state)
		out = append(out, domain.LinkedAnnotation{
			Comment:    c,
			Highlight:  h,
			Category:   res.Category,
			MacroKey:   res.MacroKey,
			MacroLabel: res.MacroLabel,
			Color:      res.Color,
		})
	}
	s.cached = out
	s.dirty = false
	return out
}

// highlightsFor restricts linking candidates to the comment's own file.
func highlightsFor(filename string, all []domain.HighlightSpan) []domain.HighlightSpan {
	out := make([]domain.HighlightSpan, 0, len(all))
	for _, h := range all {
		if h.Filename == filename {
			out = append(out, h)
		}
	}
	return out
}

func paragraphsFor(filename string, all []domain.ParagraphRef) []domain.ParagraphRef {
	out := make([]domain.ParagraphRef, 0, len(all))
	for _, p := range all {
		if p.Filename == filename {
			out = append(out, p)
		}
	}
	return out
}
