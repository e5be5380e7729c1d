package codes

import (
	"regexp"
	"strings"

	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
)

// tokenRe matches candidate classification tokens: 1-4 uppercase letters,
// optionally underscore-separated with 1-4 more.
var tokenRe = regexp.MustCompile(`\b[A-Z]{1,4}(?:_[A-Z]{1,4})?\b`)

// Scan extracts the ordered set of classification tokens from free comment
// text, independent of the structured pair grammar. Only tokens recognized
// against the taxonomy survive (exact code match, or a prefix matching a
// known macro key); duplicates are dropped case-insensitively.
func Scan(text string) []string {
	if text == "" {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	for _, raw := range tokenRe.FindAllString(text, -1) {
		token := domain.NormalizeCode(raw)
		if token == "" || !domain.KnownCode(token) {
			continue
		}
		key := strings.ToLower(token)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, token)
	}
	return out
}
