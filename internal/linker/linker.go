// Package linker infers which highlighted span a comment most likely
// annotates, by fuzzy substring matching over the comment's quoted range.
//
// The heuristic carries no hard guarantee of correctness; what it does
// guarantee is a deterministic, reproducible tie-break order, which is
// itself the testable contract.
package linker

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
)

// Best returns the single best-matching highlight for a quoted text, or nil
// when there is none. The highlights and paragraphs must belong to the same
// document as the quote. An empty quote, or an empty highlight set, yields
// no link; that is an expected outcome, not an error.
func Best(quoted string, highlights []domain.HighlightSpan, paragraphs []domain.ParagraphRef) *domain.HighlightSpan {
	quote := normalize(quoted)
	if quote == "" || len(highlights) == 0 {
		return nil
	}

	// Narrow to highlights whose paragraph plausibly contains the quote.
	// When narrowing finds nothing, or no candidate survives under the
	// restriction, fall back to all highlights in the document.
	idxSet, textSet := matchingParagraphs(quote, paragraphs)
	var candidates []*domain.HighlightSpan
	if len(idxSet) > 0 || len(textSet) > 0 {
		restricted := restrict(highlights, idxSet, textSet)
		candidates = substringMatches(quote, restricted)
	}
	if len(candidates) == 0 {
		candidates = substringMatches(quote, spanPointers(highlights))
	}
	if len(candidates) == 0 {
		return nil
	}

	// Rank by an explicit ladder of comparator keys, in order: exact
	// equality, highlight-contains-quote, quote-contains-highlight,
	// smaller length difference, smaller paragraph index, shorter text.
	sort.SliceStable(candidates, func(i, j int) bool {
		return less(rank(quote, candidates[i]), rank(quote, candidates[j]))
	})
	return candidates[0]
}

// rankKey is the ordered comparator ladder; smaller is better on every key.
type rankKey struct {
	notExact  int
	notHHasQ  int
	notQHasH  int
	lenDiff   int
	paraIndex int
	textLen   int
}

func rank(quote string, h *domain.HighlightSpan) rankKey {
	text := normalize(h.Text)
	k := rankKey{
		notExact:  1,
		notHHasQ:  1,
		notQHasH:  1,
		lenDiff:   abs(utf8.RuneCountInString(text) - utf8.RuneCountInString(quote)),
		paraIndex: h.ParaIndex,
		textLen:   utf8.RuneCountInString(text),
	}
	if text == quote {
		k.notExact = 0
	}
	if strings.Contains(text, quote) {
		k.notHHasQ = 0
	}
	if strings.Contains(quote, text) {
		k.notQHasH = 0
	}
	return k
}

func less(a, b rankKey) bool {
	if a.notExact != b.notExact {
		return a.notExact < b.notExact
	}
	if a.notHHasQ != b.notHHasQ {
		return a.notHHasQ < b.notHHasQ
	}
	if a.notQHasH != b.notQHasH {
		return a.notQHasH < b.notQHasH
	}
	if a.lenDiff != b.lenDiff {
		return a.lenDiff < b.lenDiff
	}
	if a.paraIndex != b.paraIndex {
		return a.paraIndex < b.paraIndex
	}
	return a.textLen < b.textLen
}

// matchingParagraphs collects the identities (index and text) of paragraphs
// whose normalized text contains the normalized quote.
func matchingParagraphs(quote string, paragraphs []domain.ParagraphRef) (map[int]struct{}, map[string]struct{}) {
	idxSet := make(map[int]struct{})
	textSet := make(map[string]struct{})
	for _, p := range paragraphs {
		if strings.Contains(normalize(p.Text), quote) {
			idxSet[p.ParaIndex] = struct{}{}
			textSet[normalize(p.Text)] = struct{}{}
		}
	}
	return idxSet, textSet
}

// restrict keeps highlights belonging to one of the matched paragraphs.
func restrict(highlights []domain.HighlightSpan, idxSet map[int]struct{}, textSet map[string]struct{}) []*domain.HighlightSpan {
	var out []*domain.HighlightSpan
	for i := range highlights {
		h := &highlights[i]
		if _, ok := idxSet[h.ParaIndex]; ok {
			out = append(out, h)
			continue
		}
		if _, ok := textSet[normalize(h.Paragraph)]; ok {
			out = append(out, h)
		}
	}
	return out
}

// substringMatches keeps highlights whose normalized text contains the
// quote or is contained by it. A highlight with empty text never matches.
func substringMatches(quote string, highlights []*domain.HighlightSpan) []*domain.HighlightSpan {
	var out []*domain.HighlightSpan
	for _, h := range highlights {
		text := normalize(h.Text)
		if text == "" {
			continue
		}
		if strings.Contains(text, quote) || strings.Contains(quote, text) {
			out = append(out, h)
		}
	}
	return out
}

func spanPointers(highlights []domain.HighlightSpan) []*domain.HighlightSpan {
	out := make([]*domain.HighlightSpan, len(highlights))
	for i := range highlights {
		out[i] = &highlights[i]
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(domain.NormalizeText(s))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
