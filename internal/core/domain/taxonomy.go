package domain

import "strings"

// CodeInfo is the taxonomy record for one classification code.
type CodeInfo struct {
	// Label is the human-readable category label.
	Label string
	// MacroKey is the coarse grouping the code rolls up into.
	MacroKey string
}

// Macro is one macro-category: a coarse grouping of codes and labels.
type Macro struct {
	Key   string
	Label string
	// Color is the default display color for categories under this macro.
	Color string
}

// UncategorizedLabel is the fixed category for comments that resolve to
// neither a code nor a highlight color mapping.
const UncategorizedLabel = "uncategorized"

// NeutralColor is the last-resort display color.
const NeutralColor = "#9e9e9e"

// Macros are the built-in macro-categories, keyed by code prefix.
// The taxonomy is open-ended: unknown codes discovered in documents fall
// back to a deterministic default label rather than being rejected.
var Macros = []Macro{
	{Key: "CE", Label: "Coinvolgimento esterno", Color: "#1e88e5"},
	{Key: "CS", Label: "Coinvolgimento scolastico", Color: "#43a047"},
	{Key: "BE", Label: "Benessere", Color: "#fb8c00"},
	{Key: "IN", Label: "Inclusione", Color: "#8e24aa"},
	{Key: "CC", Label: "Cittadinanza e comunità", Color: "#e53935"},
	{Key: "A", Label: "Altro", Color: "#757575"},
}

// BuiltinCodes maps known classification tokens to their taxonomy record.
// User-defined code mappings override these entries; codes absent from both
// default to their normalized display form.
var BuiltinCodes = map[string]CodeInfo{
	"CE_T": {Label: "Territorio", MacroKey: "CE"},
	"CE_P": {Label: "Coinvolgimento progettuale", MacroKey: "CE"},
	"CE_S": {Label: "Coinvolgimento scolastico", MacroKey: "CE"},
	"CE_F": {Label: "Famiglie", MacroKey: "CE"},
	"CS_D": {Label: "Didattica", MacroKey: "CS"},
	"CS_O": {Label: "Organizzazione", MacroKey: "CS"},
	"BE_R": {Label: "Relazioni", MacroKey: "BE"},
	"BE_A": {Label: "Ambiente", MacroKey: "BE"},
	"IN_D": {Label: "Disabilità", MacroKey: "IN"},
	"IN_L": {Label: "Lingua", MacroKey: "IN"},
	"CC_P": {Label: "Partecipazione", MacroKey: "CC"},
	"A":    {Label: "Altro", MacroKey: "A"},
}

// MacroByKey returns the macro-category for an exact key.
func MacroByKey(key string) (Macro, bool) {
	for _, m := range Macros {
		if m.Key == key {
			return m, true
		}
	}
	return Macro{}, false
}

// MacroForCode resolves a code to its macro-category: first by the built-in
// taxonomy record, then by exact key match, then by code-prefix match
// against the known macro keys.
func MacroForCode(code string) (Macro, bool) {
	code = NormalizeCode(code)
	if code == "" {
		return Macro{}, false
	}
	if info, ok := BuiltinCodes[code]; ok {
		return MacroByKey(info.MacroKey)
	}
	if m, ok := MacroByKey(code); ok {
		return m, true
	}
	if prefix, _, ok := strings.Cut(code, "_"); ok {
		return MacroByKey(prefix)
	}
	return Macro{}, false
}

// KnownCode reports whether a token is recognized against the taxonomy:
// either an exact built-in code or a prefix matching a known macro key.
func KnownCode(code string) bool {
	code = NormalizeCode(code)
	if code == "" {
		return false
	}
	if _, ok := BuiltinCodes[code]; ok {
		return true
	}
	prefix := code
	if p, _, ok := strings.Cut(code, "_"); ok {
		prefix = p
	}
	_, ok := MacroByKey(prefix)
	return ok
}

// NormalizeCode returns the canonical uppercase form of a token.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DefaultLabelForCode is the deterministic fallback label for a code with
// no user mapping and no built-in entry: its normalized display form.
func DefaultLabelForCode(code string) string {
	if info, ok := BuiltinCodes[NormalizeCode(code)]; ok {
		return info.Label
	}
	return NormalizeCode(code)
}
