package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/Matteo842/SaveState/internal/core"
	"github.com/Matteo842/SaveState/internal/kb"
	"github.com/Matteo842/SaveState/internal/match"
)

// Options tunes the scanner beyond the per-call budget.
type Options struct {
	// MinScore is the floor a folder-name match must reach to be emitted.
	MinScore float64
	// ExcludeNames extends the knowledge base's banned-folder vocabulary.
	ExcludeNames []string
	// Progress, when set, is called with the running visited count after
	// each directory. Called from one goroutine per root concurrently.
	Progress func(visited int64)
}

// Result carries the scan output. Truncated is true when any budget axis
// (wall time, visited entries, cancellation) cut the traversal short;
// partial candidates are still returned.
type Result struct {
	Candidates []core.Candidate
	Truncated  bool
}

// Scanner is the bounded breadth-first fallback used when templates fail
// to produce a confident candidate. Breadth-first so shallow strong
// matches are found before the budget burns down a deep unrelated branch.
type Scanner struct {
	fs       afero.Fs
	base     *kb.KnowledgeBase
	matcher  *match.Matcher
	log      *zerolog.Logger
	minScore float64
	exclude  map[string]struct{}
	progress func(visited int64)
}

// New creates a Scanner reading through fs.
func New(fs afero.Fs, base *kb.KnowledgeBase, matcher *match.Matcher, log *zerolog.Logger, opts Options) *Scanner {
	minScore := opts.MinScore
	if minScore <= 0 {
		minScore = 0.35
	}
	exclude := make(map[string]struct{}, len(opts.ExcludeNames))
	for _, name := range opts.ExcludeNames {
		exclude[strings.ToLower(name)] = struct{}{}
	}
	return &Scanner{
		fs:       fs,
		base:     base,
		matcher:  matcher,
		log:      log,
		minScore: minScore,
		exclude:  exclude,
		progress: opts.Progress,
	}
}

type queueItem struct {
	path        string
	depth       int
	score       float64
	parentScore float64
}

// Scan walks each root breadth-first under a shared budget, one worker
// per root. Filesystem errors and unreadable entries are skipped, never
// fatal. Cancellation via ctx aborts promptly with Truncated set.
func (s *Scanner) Scan(ctx context.Context, roots []string, q core.Query, pathCtx core.PathContext, budget core.Budget) Result {
	def := core.DefaultBudget()
	if budget.MaxDepth <= 0 {
		budget.MaxDepth = def.MaxDepth
	}
	if budget.MaxVisited <= 0 {
		budget.MaxVisited = def.MaxVisited
	}
	if budget.MaxWallTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget.MaxWallTime)
		defer cancel()
	}

	var (
		mu        sync.Mutex
		out       []core.Candidate
		visited   atomic.Int64
		truncated atomic.Bool
		wg        sync.WaitGroup
	)

	for _, root := range roots {
		wg.Add(1)
		go func(root string) {
			defer wg.Done()
			cands, cut := s.scanRoot(ctx, root, q, pathCtx, budget, &visited)
			if cut {
				truncated.Store(true)
			}
			mu.Lock()
			out = append(out, cands...)
			mu.Unlock()
		}(root)
	}
	wg.Wait()

	s.log.Debug().
		Int("roots", len(roots)).
		Int64("visited", visited.Load()).
		Int("candidates", len(out)).
		Bool("truncated", truncated.Load()).
		Msg("deep scan done")

	return Result{Candidates: out, Truncated: truncated.Load()}
}

// scanRoot runs the breadth-first walk for one root. The visited counter
// is shared across roots so the aggregate cap holds.
func (s *Scanner) scanRoot(ctx context.Context, root string, q core.Query, pathCtx core.PathContext, budget core.Budget, visited *atomic.Int64) ([]core.Candidate, bool) {
	root = filepath.Clean(root)
	queue := []queueItem{{
		path:  root,
		depth: 0,
		score: s.matcher.Score(filepath.Base(root), q),
	}}

	var out []core.Candidate
	for len(queue) > 0 {
		if ctx.Err() != nil {
			return out, true
		}
		item := queue[0]
		queue = queue[1:]

		n := visited.Add(1)
		if n > budget.MaxVisited {
			return out, true
		}
		if s.progress != nil {
			s.progress(n)
		}

		entries, err := afero.ReadDir(s.fs, item.path)
		if err != nil {
			// Permission errors and dangling links cost us one entry,
			// never the scan.
			continue
		}

		if cand, ok := s.evaluate(item, entries); ok {
			out = append(out, cand)
		}

		if item.depth >= budget.MaxDepth {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			name := entry.Name()
			if s.skip(item.path, name, pathCtx) {
				continue
			}
			queue = append(queue, queueItem{
				path:        filepath.Join(item.path, name),
				depth:       item.depth + 1,
				score:       s.matcher.Score(name, q),
				parentScore: item.score,
			})
		}
	}
	return out, false
}

// evaluate decides whether the visited directory itself is a candidate:
// either its name clears the floor, or it is a conventional save subdir
// directly below a matching folder.
func (s *Scanner) evaluate(item queueItem, entries []os.FileInfo) (core.Candidate, bool) {
	name := filepath.Base(item.path)

	var raw float64
	var evidence []string
	switch {
	case item.score >= s.minScore:
		raw = item.score
		evidence = append(evidence, fmt.Sprintf("folder name match %.2f", item.score))
	case s.base.IsSaveSubdir(name) && item.parentScore >= s.minScore:
		raw = item.parentScore
		evidence = append(evidence, fmt.Sprintf("save subdir below match %.2f", item.parentScore))
	default:
		return core.Candidate{}, false
	}

	for _, entry := range entries {
		if !entry.IsDir() && s.base.LooksLikeSaveFile(entry.Name()) {
			evidence = append(evidence, "contains save-looking files")
			break
		}
	}

	return core.Candidate{
		Path:     item.path,
		Source:   core.SourceDeepScan,
		RawScore: raw,
		Evidence: evidence,
	}, true
}

// skip applies the exclusion rules: banned noise folders, the configured
// exclusions, the application's own backup output, other users' home
// directories and — the Steam Awareness rule — other accounts' numeric id
// folders inside a Steam userdata tree.
func (s *Scanner) skip(parent, name string, pathCtx core.PathContext) bool {
	lower := strings.ToLower(name)
	if s.base.IsBannedDir(lower) {
		return true
	}
	if _, ok := s.exclude[lower]; ok {
		return true
	}

	full := filepath.Join(parent, name)
	if pathCtx.BackupDir != "" && full == filepath.Clean(pathCtx.BackupDir) {
		return true
	}

	// Do not wander into other users' profiles.
	if pathCtx.Home != "" && parent == filepath.Dir(pathCtx.Home) && full != pathCtx.Home {
		return true
	}

	// Steam Awareness: inside a userdata tree, only the resolved user's
	// numeric folder may be entered.
	if filepath.Base(parent) == "userdata" && isAllDigits(name) {
		if pathCtx.SteamUserID == "" || name != pathCtx.SteamUserID {
			return true
		}
	}

	return false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
