package services

import (
	"strings"

	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
)

// Resolution is the categorization outcome for one comment.
type Resolution struct {
	Category   string
	MacroKey   string
	MacroLabel string
	Color      string
}

// Resolve produces the effective category for a comment, given its linked
// highlight (may be nil) and the current mapping state. Precedence:
// per-comment override, then extracted codes, then the linked highlight's
// color, then the fixed "uncategorized" default. Resolution never fails;
// unmapped inputs fall back to deterministic defaults.
func Resolve(c domain.Comment, h *domain.HighlightSpan, state domain.MappingState) Resolution {
	if label, ok := state.CatOverride[domain.OverrideKey(c.Filename, c.ID)]; ok {
		return finish(label, macroForLabel(label), state)
	}

	if len(c.Codes) > 0 {
		// First code with a known label wins; a code is "known" via the
		// user code map or the built-in taxonomy.
		for _, code := range c.Codes {
			if label, ok := state.CodeMap[code]; ok {
				m, _ := domain.MacroForCode(code)
				return finish(label, m, state)
			}
			if info, ok := domain.BuiltinCodes[domain.NormalizeCode(code)]; ok {
				m, _ := domain.MacroByKey(info.MacroKey)
				return finish(info.Label, m, state)
			}
		}
		// No code resolved to a known label: default to the first code's
		// normalized display form.
		m, _ := domain.MacroForCode(c.Codes[0])
		return finish(domain.DefaultLabelForCode(c.Codes[0]), m, state)
	}

	if h != nil && h.Color != "" {
		label, ok := state.ColorMap[h.Color]
		if !ok {
			label = h.Color
		}
		return finish(label, macroForLabel(label), state)
	}

	return Resolution{Category: domain.UncategorizedLabel, Color: displayColor(domain.UncategorizedLabel, domain.Macro{}, state)}
}

// finish assembles the resolution with its display color: a user-assigned
// per-label color overrides the macro default, which overrides the neutral
// last resort.
func finish(label string, m domain.Macro, state domain.MappingState) Resolution {
	return Resolution{
		Category:   label,
		MacroKey:   m.Key,
		MacroLabel: m.Label,
		Color:      displayColor(label, m, state),
	}
}

func displayColor(label string, m domain.Macro, state domain.MappingState) string {
	if c, ok := state.CategoryColors[label]; ok && c != "" {
		return c
	}
	if m.Color != "" {
		return m.Color
	}
	return domain.NeutralColor
}

// macroForLabel maps a label back onto the built-in taxonomy: an exact
// (case-insensitive) label match on a built-in code wins, then a macro
// label match.
func macroForLabel(label string) domain.Macro {
	for _, info := range domain.BuiltinCodes {
		if strings.EqualFold(info.Label, label) {
			if m, ok := domain.MacroByKey(info.MacroKey); ok {
				return m
			}
		}
	}
	for _, m := range domain.Macros {
		if strings.EqualFold(m.Label, label) {
			return m
		}
	}
	return domain.Macro{}
}
