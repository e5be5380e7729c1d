package domain

import "strings"

// HighlightSpan is a merged run of same-colored highlighted text within one
// paragraph. It is created once per extraction pass and never mutated; a
// re-upload of the document replaces the whole list.
type HighlightSpan struct {
	// Filename is the source document name.
	Filename string `json:"filename"`

	// Type discriminates annotation rows in mixed exports. Always "highlight".
	Type string `json:"type"`

	// Color is the normalized lowercase highlight color token.
	// Emitted spans always carry a color; colorless runs never form spans.
	Color string `json:"highlight_color"`

	// Text is the merged span text with internal whitespace collapsed.
	Text string `json:"text"`

	// Context is the sentence enclosing the span's start offset, or the
	// trimmed paragraph when no sentence boundary matches.
	Context string `json:"context"`

	// Paragraph is the full paragraph text, untrimmed, so that OffsetStart
	// and OffsetEnd index into it directly.
	Paragraph string `json:"paragraph"`

	// OffsetStart and OffsetEnd are raw character offsets into the original
	// (untrimmed, uncollapsed) paragraph text.
	OffsetStart int `json:"offset_start"`
	OffsetEnd   int `json:"offset_end"`

	// ParaIndex is the paragraph's stable ordinal within its document.
	ParaIndex int `json:"para_index"`
}

// Comment is a reviewer comment extracted from the document's comments part,
// merged with the text of the body range it anchors to.
type Comment struct {
	// ID is assigned by the source format and unique within a document.
	// It is stable across re-extraction of the same unmodified document.
	ID int `json:"id"`

	Author string `json:"author"`

	// Date is an ISO-ish string as found in the document; format is
	// not guaranteed and it is never parsed by the engine.
	Date string `json:"date"`

	// Text is the full raw comment body.
	Text string `json:"text"`

	// Quoted is the text of the anchored document range. Empty when the
	// anchor could not be resolved, which is not an error.
	Quoted string `json:"quoted"`

	Filename string `json:"filename"`

	// Code is the first recognized classification token, nil when the
	// comment carries none.
	Code *string `json:"code"`

	// Codes is the ordered, case-insensitively de-duplicated set of
	// recognized classification tokens scanned from Text.
	Codes []string `json:"codes"`
}

// ClassificationPair is one (code, label) pair parsed from a comment body.
// Either side may be nil, never both: a pair with both sides empty after
// trimming is discarded by the parser.
type ClassificationPair struct {
	Code  *string `json:"code"`
	Label *string `json:"label"`
}

// CommentRow is a Comment exploded per classification pair, the shape the
// export boundary consumes. An unclassified comment still yields exactly one
// row with nil code and label.
type CommentRow struct {
	Filename string  `json:"filename"`
	Type     string  `json:"type"`
	ID       int     `json:"comment_id"`
	Author   string  `json:"author"`
	Date     string  `json:"date"`
	Quoted   string  `json:"quoted_text"`
	Text     string  `json:"comment_text"`
	Code     *string `json:"code"`
	Label    *string `json:"label"`
}

// ParagraphRef is one paragraph row, supplied to the presentation layer to
// support paragraph-restricted linking.
type ParagraphRef struct {
	Filename  string `json:"filename"`
	ParaIndex int    `json:"para_index"`
	Text      string `json:"text"`
}

// Extraction is the full output of one document's extraction pass.
type Extraction struct {
	Highlights []HighlightSpan `json:"highlights"`
	Comments   []Comment       `json:"comments"`
	Paragraphs []ParagraphRef  `json:"paragraphs"`
}

// FileError reports a single file's parse failure within a batch.
type FileError struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// BatchResult is the unioned outcome of a multi-file upload. A per-file
// failure lands in Errors without discarding the other files' rows.
type BatchResult struct {
	Highlights []HighlightSpan `json:"highlights"`
	Comments   []Comment       `json:"comments"`
	Paragraphs []ParagraphRef  `json:"paragraphs"`
	Errors     []FileError     `json:"errors,omitempty"`
}

// Merge appends another extraction's rows to the batch.
func (b *BatchResult) Merge(e Extraction) {
	b.Highlights = append(b.Highlights, e.Highlights...)
	b.Comments = append(b.Comments, e.Comments...)
	b.Paragraphs = append(b.Paragraphs, e.Paragraphs...)
}

// NormalizeText collapses whitespace runs to single spaces and trims the
// ends. It is the shared normalization used by the highlight merger and by
// the span-linker's substring comparisons.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
