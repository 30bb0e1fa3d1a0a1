package rank

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Matteo842/SaveState/internal/core"
)

// DefaultNestingMargin is how much a shallower candidate must outscore a
// nested deeper one to be preferred over it.
const DefaultNestingMargin = 0.15

// Ranker merges generator and scanner output into the final ordered,
// nesting-free candidate list.
type Ranker struct {
	log    *zerolog.Logger
	margin float64
}

// New creates a Ranker; margin <= 0 selects the default.
func New(log *zerolog.Logger, margin float64) *Ranker {
	if margin <= 0 {
		margin = DefaultNestingMargin
	}
	return &Ranker{log: log, margin: margin}
}

// Rank computes adjusted scores, resolves duplicate and nested paths and
// returns the result ordered by descending adjusted score. Ties break by
// source priority (template, steam_userdata, deep_scan), then by path
// length descending, so runs are reproducible.
func (r *Ranker) Rank(q core.Query, generated, scanned []core.Candidate, truncated bool) core.ResolutionResult {
	merged := r.dedupe(append(append([]core.Candidate{}, generated...), scanned...))
	kept := r.resolveNesting(merged)

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.AdjustedScore != b.AdjustedScore {
			return a.AdjustedScore > b.AdjustedScore
		}
		if a.Source.Priority() != b.Source.Priority() {
			return a.Source.Priority() < b.Source.Priority()
		}
		return len(a.Path) > len(b.Path)
	})

	r.log.Debug().Str("title", q.Title).
		Int("merged", len(merged)).
		Int("ranked", len(kept)).
		Msg("ranking done")

	return core.ResolutionResult{
		Query:      q,
		Candidates: kept,
		Truncated:  truncated,
	}
}

// dedupe collapses candidates sharing a path, keeping the strongest one,
// and fixes each survivor's adjusted score.
func (r *Ranker) dedupe(cands []core.Candidate) []core.Candidate {
	byPath := make(map[string]int)
	var out []core.Candidate
	for _, c := range cands {
		c.Path = filepath.Clean(c.Path)
		c.AdjustedScore = clamp01(c.RawScore * c.Source.Weight())

		i, ok := byPath[c.Path]
		if !ok {
			byPath[c.Path] = len(out)
			out = append(out, c)
			continue
		}
		if c.AdjustedScore > out[i].AdjustedScore ||
			(c.AdjustedScore == out[i].AdjustedScore && c.Source.Priority() < out[i].Source.Priority()) {
			out[i] = c
		}
	}
	return out
}

// resolveNesting drops one of every ancestor/descendant pair: the deeper,
// more specific path wins unless the shallower one outscores it by more
// than the margin.
func (r *Ranker) resolveNesting(cands []core.Candidate) []core.Candidate {
	byDepth := append([]core.Candidate{}, cands...)
	sort.SliceStable(byDepth, func(i, j int) bool {
		return byDepth[i].Depth() < byDepth[j].Depth()
	})

	dropped := make(map[string]bool)
	for i := 0; i < len(byDepth); i++ {
		shallow := byDepth[i]
		if dropped[shallow.Path] {
			continue
		}
		for j := i + 1; j < len(byDepth); j++ {
			deep := byDepth[j]
			if dropped[deep.Path] || !isAncestor(shallow.Path, deep.Path) {
				continue
			}
			if shallow.AdjustedScore > deep.AdjustedScore+r.margin {
				dropped[deep.Path] = true
			} else {
				dropped[shallow.Path] = true
				break
			}
		}
	}

	var out []core.Candidate
	for _, c := range byDepth {
		if !dropped[c.Path] {
			out = append(out, c)
		}
	}
	return out
}

// isAncestor reports whether parent is a strict filesystem ancestor of
// child. Both paths must be clean.
func isAncestor(parent, child string) bool {
	if parent == child {
		return false
	}
	sep := string(filepath.Separator)
	if parent == sep {
		return strings.HasPrefix(child, sep)
	}
	return strings.HasPrefix(child, parent+sep)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
