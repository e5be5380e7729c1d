// Package codes parses classification tokens and (code, label) pairs out of
// free-text reviewer comments.
//
// Comments in the wild mix several ad-hoc conventions; the parser applies a
// layered grammar with deterministic precedence and exact-pair
// de-duplication, so the same comment always yields the same pairs in the
// same order.
package codes

import (
	"regexp"
	"strings"

	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
)

var (
	// XML-like pairs, possibly repeated. The optional backslash before the
	// closing tag name tolerates a malformed input seen in real documents.
	xmlPairRe = regexp.MustCompile(`(?is)<\s*codice\s*>(.*?)<\s*/?\\?\s*codice\s*>\s*<\s*commento\s*>(.*?)<\s*/?\\?\s*commento\s*>`)

	// key=value pairs: codice=TOKEN followed by commento=text across a
	// separator of ';', ',', '|' or whitespace.
	kvPairRe = regexp.MustCompile(`(?i)(?:codice|code)\s*=\s*([A-Za-z0-9_]+)[;,|\s]+(?:commento|label)\s*=\s*([^;,|\n\r]+)`)

	// Line-oriented forms, tried per line after ;/| are normalized to
	// newlines. Bracket-prefixed first, then colon/dash-separated.
	bracketLineRe = regexp.MustCompile(`^\[\s*([A-Za-z0-9_]+)\s*\]\s+(.+)$`)
	colonLineRe   = regexp.MustCompile(`^([A-Za-z0-9_]+)\s*[:\-–]\s*(.+)$`)

	lineSepRe = regexp.MustCompile(`[;|]+`)
)

// ParsePairs extracts (code, label) classification pairs from a comment
// body. All strategies run (none short-circuits); their results are
// concatenated and de-duplicated by exact pair, preserving first-seen
// order. A pair survives only if code or label is non-empty after trimming.
func ParsePairs(text string) []domain.ClassificationPair {
	t := strings.TrimSpace(text)
	if t == "" {
		return nil
	}

	var found []domain.ClassificationPair

	// 1) XML-like tags, possibly repeated.
	for _, m := range xmlPairRe.FindAllStringSubmatch(t, -1) {
		found = appendPair(found, m[1], m[2])
	}

	// 2) key=value within the text, possibly repeated.
	for _, m := range kvPairRe.FindAllStringSubmatch(t, -1) {
		found = appendPair(found, m[1], m[2])
	}

	// 3) Line-based / bracketed forms; first match wins per line.
	for _, line := range strings.Split(lineSepRe.ReplaceAllString(t, "\n"), "\n") {
		s := strings.TrimSpace(line)
		if s == "" {
			continue
		}
		if m := bracketLineRe.FindStringSubmatch(s); m != nil {
			found = appendPair(found, m[1], m[2])
			continue
		}
		if m := colonLineRe.FindStringSubmatch(s); m != nil {
			found = appendPair(found, m[1], m[2])
		}
	}

	return dedupPairs(found)
}

// appendPair trims both sides and appends the pair unless both are empty.
// Empty sides are recorded as nil, never "".
func appendPair(pairs []domain.ClassificationPair, code, label string) []domain.ClassificationPair {
	code = strings.TrimSpace(code)
	label = strings.TrimSpace(label)
	if code == "" && label == "" {
		return pairs
	}
	var p domain.ClassificationPair
	if code != "" {
		p.Code = &code
	}
	if label != "" {
		p.Label = &label
	}
	return append(pairs, p)
}

// dedupPairs removes exact (code, label) duplicates, preserving first-seen
// order. De-duplication is deliberately exact: near-duplicates differing
// only in whitespace are distinct pairs.
func dedupPairs(pairs []domain.ClassificationPair) []domain.ClassificationPair {
	seen := make(map[[2]string]struct{}, len(pairs))
	var out []domain.ClassificationPair
	for _, p := range pairs {
		key := [2]string{deref(p.Code), deref(p.Label)}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
