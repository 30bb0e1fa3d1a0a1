package match

import (
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/Matteo842/SaveState/internal/core"
)

// Blend weights for the two similarity halves. Token-set similarity
// dominates because word reordering ("Emerald Pokemon") is common in
// folder names while character noise is not.
const (
	tokenSetWeight  = 0.6
	editRatioWeight = 0.4
)

// AliasSet answers whether two titles belong to the same alias group
// (regional variants, well-known abbreviations). Implemented by the
// knowledge base.
type AliasSet interface {
	SameGroup(a, b string) bool
}

// Matcher computes title-to-folder-name similarity in [0,1]. It is pure
// and deterministic; the same inputs always produce the same score.
type Matcher struct {
	aliases AliasSet
}

// New creates a Matcher. aliases may be nil when no alias knowledge is
// available.
func New(aliases AliasSet) *Matcher {
	return &Matcher{aliases: aliases}
}

// Score compares a path segment against the query title. Exact normalized
// matches, alias-group hits and generated-abbreviation hits short-circuit
// to 1.0; otherwise the score is a weighted blend of token-set similarity
// and an edit-distance ratio.
func (m *Matcher) Score(segment string, q core.Query) float64 {
	normSegment := Normalize(segment)
	normTitle := q.NormalizedTitle
	if normSegment == "" || normTitle == "" {
		return 0
	}

	if normSegment == normTitle || collapse(normSegment) == collapse(normTitle) {
		return 1.0
	}
	if m.aliases != nil && m.aliases.SameGroup(segment, q.Title) {
		return 1.0
	}
	for _, abbr := range q.Abbreviations {
		if normSegment == Normalize(abbr) || collapse(normSegment) == collapse(Normalize(abbr)) {
			return 1.0
		}
	}

	score := tokenSetWeight*tokenSetSimilarity(normSegment, normTitle) +
		editRatioWeight*editRatio(normSegment, normTitle)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// tokenSetSimilarity is |intersection| / |union| over significant word
// sets; symmetric by construction.
func tokenSetSimilarity(normA, normB string) float64 {
	setA := significantTokens(Tokens(normA))
	setB := significantTokens(Tokens(normB))
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	common := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			common++
		}
	}
	union := len(setA) + len(setB) - common
	if union == 0 {
		return 0
	}
	return float64(common) / float64(union)
}

// editRatio maps Levenshtein distance onto [0,1], 1 meaning identical.
func editRatio(normA, normB string) float64 {
	a := collapse(normA)
	b := collapse(normB)
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	dist := fuzzy.LevenshteinDistance(a, b)
	ratio := 1.0 - float64(dist)/float64(longest)
	if ratio < 0 {
		return 0
	}
	return ratio
}
