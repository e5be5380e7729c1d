package docx

import (
	"strings"
	"unicode/utf8"

	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
)

// runColor returns the run's normalized highlight color, or nil when the
// run carries no highlight. Absence is always nil, never "".
func runColor(r runXML) *string {
	if r.Properties.Highlight == nil {
		return nil
	}
	c := domain.NormalizeColor(r.Properties.Highlight.Val)
	if c == "" || c == "none" {
		return nil
	}
	return &c
}

// mergeHighlights merges contiguous same-colored runs of one paragraph into
// highlight spans. Offsets are character (rune) offsets into the original
// paragraph text, taken at the point the first contributing run began; the
// whitespace collapse applied to Text never shifts them.
func mergeHighlights(filename string, paraIndex int, paraText string, runs []runXML) []domain.HighlightSpan {
	var spans []domain.HighlightSpan

	idx := 0
	var buf []string
	var curColor *string
	segStart := 0

	flush := func() {
		if curColor == nil || len(buf) == 0 {
			return
		}
		joined := strings.Join(buf, "")
		text := domain.NormalizeText(joined)
		if text == "" {
			return
		}
		spans = append(spans, domain.HighlightSpan{
			Filename:    filename,
			Type:        "highlight",
			Color:       *curColor,
			Text:        text,
			Context:     sentenceWindow(paraText, segStart),
			Paragraph:   paraText,
			OffsetStart: segStart,
			OffsetEnd:   segStart + utf8.RuneCountInString(joined),
			ParaIndex:   paraIndex,
		})
	}

	for _, r := range runs {
		text := r.text()
		if text == "" {
			continue
		}
		color := runColor(r)
		switch {
		case color == nil:
			// end of a highlighted segment
			flush()
			buf = nil
			curColor = nil
		case curColor == nil:
			curColor = color
			segStart = idx
			buf = []string{text}
		case *color == *curColor:
			buf = append(buf, text)
		default:
			flush()
			curColor = color
			segStart = idx
			buf = []string{text}
		}
		idx += utf8.RuneCountInString(text)
	}
	flush()

	return spans
}

// sentenceWindow returns the sentence whose cumulative character range
// contains startIndex. Sentences end at '.', '!' or '?' followed by
// whitespace. When no sentence matches (boundary-splitting edge cases),
// the full trimmed paragraph is returned.
func sentenceWindow(text string, startIndex int) string {
	parts := splitSentences(text)
	cum := 0
	for _, s := range parts {
		n := utf8.RuneCountInString(s)
		if cum <= startIndex && startIndex < cum+n+1 {
			return strings.TrimSpace(s)
		}
		cum += n + 1
	}
	return strings.TrimSpace(text)
}

// splitSentences splits after sentence-final punctuation followed by
// whitespace; the whitespace run between sentences is consumed.
func splitSentences(text string) []string {
	var parts []string
	runes := []rune(text)
	start := 0
	i := 0
	for i < len(runes) {
		c := runes[i]
		if (c == '.' || c == '!' || c == '?') && i+1 < len(runes) && isSpace(runes[i+1]) {
			parts = append(parts, string(runes[start:i+1]))
			i++
			for i < len(runes) && isSpace(runes[i]) {
				i++
			}
			start = i
			continue
		}
		i++
	}
	if start < len(runes) {
		parts = append(parts, string(runes[start:]))
	}
	return parts
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
