package domain

import (
	"fmt"
	"strings"
)

// MappingState is the user-editable category mapping configuration. It is
// process-wide, independent of any one document, and read (never mutated)
// by the resolution pipeline. Persistence is last-write-wins per key.
type MappingState struct {
	// ColorMap maps a normalized highlight color token to a category label.
	// Legacy path, for documents classified purely by highlight color.
	ColorMap map[string]string `json:"colorMap"`

	// CodeMap maps a classification code to a category label. Preferred
	// path; falls back to the built-in taxonomy when no entry exists.
	CodeMap map[string]string `json:"codeMap"`

	// CategoryColors maps a category label to a user-assigned display color.
	CategoryColors map[string]string `json:"categoryColors"`

	// CatOverride maps an override key (see OverrideKey) to a category
	// label that wins over any code- or color-derived resolution.
	CatOverride map[string]string `json:"catOverride"`

	// Meta holds per-filename metadata, e.g. the document type attribute
	// ("tipo") used to partition exports.
	Meta map[string]map[string]string `json:"meta"`

	// ExtraCategories are user-declared codes beyond the built-in taxonomy.
	ExtraCategories []string `json:"extraCategories"`
}

// StateKeys are the allowed top-level persistence keys, in storage order.
var StateKeys = []string{"colorMap", "codeMap", "categoryColors", "catOverride", "meta", "extraCategories"}

// DefaultMappingState returns the built-in defaults.
func DefaultMappingState() MappingState {
	return MappingState{
		ColorMap:        map[string]string{},
		CodeMap:         map[string]string{},
		CategoryColors:  map[string]string{},
		CatOverride:     map[string]string{},
		Meta:            map[string]map[string]string{},
		ExtraCategories: []string{"XX_X"},
	}
}

// Clone returns a deep copy. Services hand out clones so callers can never
// mutate the shared state behind the resolver's back.
func (s MappingState) Clone() MappingState {
	out := MappingState{
		ColorMap:       cloneStringMap(s.ColorMap),
		CodeMap:        cloneStringMap(s.CodeMap),
		CategoryColors: cloneStringMap(s.CategoryColors),
		CatOverride:    cloneStringMap(s.CatOverride),
		Meta:           map[string]map[string]string{},
	}
	for k, v := range s.Meta {
		out.Meta[k] = cloneStringMap(v)
	}
	out.ExtraCategories = append([]string(nil), s.ExtraCategories...)
	return out
}

func cloneStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Tipo returns the document-type attribute recorded for a filename, or ""
// when none is set.
func (s MappingState) Tipo(filename string) string {
	if meta, ok := s.Meta[filename]; ok {
		return meta["tipo"]
	}
	return ""
}

// OverrideKey builds the per-comment override key: filename and comment id.
func OverrideKey(filename string, commentID int) string {
	return fmt.Sprintf("%s#%d", filename, commentID)
}

// NormalizeColor lowers and trims a raw highlight color token, stripping
// any namespace or enum-path prefix (everything up to the last '.').
// Absent colors are represented as nil by callers, never "".
func NormalizeColor(raw string) string {
	s := raw
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// LinkedAnnotation is a Comment enriched with its best-matching highlight
// and resolved categorization. It is a view, not a stored entity: it is
// recomputed whenever the underlying data or mapping state changes.
type LinkedAnnotation struct {
	Comment Comment `json:"comment"`

	// Highlight is the single best-matching span, nil when the linker
	// found no candidate. An absent link is a common non-error outcome.
	Highlight *HighlightSpan `json:"highlight,omitempty"`

	// Category is the effective category label.
	Category string `json:"category"`

	// MacroKey and MacroLabel identify the resolved macro-category;
	// both empty when unresolvable.
	MacroKey   string `json:"macro_key,omitempty"`
	MacroLabel string `json:"macro_label,omitempty"`

	// Color is the resolved display color.
	Color string `json:"color"`
}
