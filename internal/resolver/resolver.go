package resolver

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/Matteo842/SaveState/internal/core"
	"github.com/Matteo842/SaveState/internal/generate"
	"github.com/Matteo842/SaveState/internal/kb"
	"github.com/Matteo842/SaveState/internal/match"
	"github.com/Matteo842/SaveState/internal/paths"
	"github.com/Matteo842/SaveState/internal/rank"
	"github.com/Matteo842/SaveState/internal/scan"
)

// DefaultConfidenceThreshold is the adjusted score the cheap phase must
// reach for the deep-scan fallback to be skipped.
const DefaultConfidenceThreshold = 0.55

// Options tunes one Resolver. Zero values select the documented defaults.
type Options struct {
	ConfidenceThreshold float64
	NestingMargin       float64
	ScanMinScore        float64
	ScanExcludeNames    []string
	// ScanProgress is forwarded to the deep scanner; see scan.Options.
	ScanProgress    func(visited int64)
	Budget          core.Budget
	DisableDeepScan bool
}

// Resolver coordinates the pipeline: generate and rank first, and only
// when no candidate clears the confidence threshold fall back to the
// budgeted deep scan. Stateless apart from the shared read-only knowledge
// base; concurrent Resolve calls are safe.
type Resolver struct {
	fs        afero.Fs
	base      *kb.KnowledgeBase
	gen       *generate.Generator
	scanner   *scan.Scanner
	ranker    *rank.Ranker
	log       *zerolog.Logger
	threshold float64
	budget    core.Budget
	noDeep    bool
}

// New wires a Resolver on top of fs and an already-loaded knowledge base.
func New(fs afero.Fs, base *kb.KnowledgeBase, log *zerolog.Logger, opts Options) *Resolver {
	threshold := opts.ConfidenceThreshold
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	// Each axis defaults independently so a caller can cap just one of them.
	budget := opts.Budget
	def := core.DefaultBudget()
	if budget.MaxDepth <= 0 {
		budget.MaxDepth = def.MaxDepth
	}
	if budget.MaxVisited <= 0 {
		budget.MaxVisited = def.MaxVisited
	}
	if budget.MaxWallTime <= 0 {
		budget.MaxWallTime = def.MaxWallTime
	}

	matcher := match.New(base)
	scanner := scan.New(fs, base, matcher, log, scan.Options{
		MinScore:     opts.ScanMinScore,
		ExcludeNames: opts.ScanExcludeNames,
		Progress:     opts.ScanProgress,
	})
	return &Resolver{
		fs:        fs,
		base:      base,
		gen:       generate.New(fs, base, matcher, log),
		scanner:   scanner,
		ranker:    rank.New(log, opts.NestingMargin),
		log:       log,
		threshold: threshold,
		budget:    budget,
		noDeep:    opts.DisableDeepScan,
	}
}

// Resolve runs one lookup. An empty candidate list is a valid, non-error
// outcome; the only error surfaced is an unusable knowledge base.
func (r *Resolver) Resolve(ctx context.Context, q core.Query, pathCtx core.PathContext) (core.ResolutionResult, error) {
	if r.base == nil {
		return core.ResolutionResult{}, core.NewConfigurationError("knowledge base not loaded", core.ErrNoKnowledge)
	}

	generated := r.gen.Generate(q, pathCtx)
	result := r.ranker.Rank(q, generated, nil, false)

	top := 0.0
	if len(result.Candidates) > 0 {
		top = result.Candidates[0].AdjustedScore
	}
	if top >= r.threshold || r.noDeep {
		r.log.Info().Str("title", q.Title).
			Float64("confidence", top).
			Int("candidates", len(result.Candidates)).
			Msg("resolved from templates")
		return result, nil
	}

	roots := paths.ScanRoots(r.fs, pathCtx, q.InstallPath)
	r.log.Info().Str("title", q.Title).
		Float64("confidence", top).
		Strs("roots", roots).
		Msg("confidence below threshold, deep scanning")

	scanned := r.scanner.Scan(ctx, roots, q, pathCtx, r.budget)
	result = r.ranker.Rank(q, generated, scanned.Candidates, scanned.Truncated)

	r.log.Info().Str("title", q.Title).
		Int("candidates", len(result.Candidates)).
		Bool("truncated", result.Truncated).
		Msg("resolution done")
	return result, nil
}
