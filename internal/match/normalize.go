package match

import (
	"strings"
	"unicode"
)

// Words ignored when comparing game titles against folder names. Edition
// suffixes and articles carry no identity information.
var ignoreWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "of": {}, "and": {},
	"remake": {}, "intergrade": {}, "edition": {}, "goty": {},
	"demo": {}, "trial": {}, "play": {}, "launch": {},
	"definitive": {}, "enhanced": {}, "complete": {}, "collection": {},
	"hd": {}, "ultra": {}, "deluxe": {}, "year": {},
	"server": {}, "client": {}, "directx": {}, "redist": {},
	"sdk": {}, "runtime": {},
}

// Normalize casefolds s, replaces every non-alphanumeric rune with a space
// and collapses runs of whitespace. The result is the canonical form both
// sides of every comparison are reduced to.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokens splits a normalized string into its word set.
func Tokens(normalized string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(normalized) {
		set[tok] = struct{}{}
	}
	return set
}

// significantTokens drops ignore-words from a token set unless that would
// empty it; "The Game" must still be comparable to something.
func significantTokens(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for tok := range set {
		if _, skip := ignoreWords[tok]; !skip {
			out[tok] = struct{}{}
		}
	}
	if len(out) == 0 {
		return set
	}
	return out
}

// collapse removes all spaces from a normalized string, for the
// whitespace-insensitive exact comparison.
func collapse(normalized string) string {
	return strings.ReplaceAll(normalized, " ", "")
}

// Slug prepares a title for literal use inside a template path: strip
// runes that are illegal or decorative in folder names, collapse
// whitespace, keep the original casing.
func Slug(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		switch r {
		case '™', '®', '©', ':', '/', '\\', '*', '?', '"', '<', '>', '|':
			// dropped from folder names by both games and launchers
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
