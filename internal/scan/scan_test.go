package scan

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matteo842/SaveState/internal/core"
	"github.com/Matteo842/SaveState/internal/kb"
	"github.com/Matteo842/SaveState/internal/logging"
	"github.com/Matteo842/SaveState/internal/match"
)

func newScanner(t *testing.T, fs afero.Fs, opts Options) *Scanner {
	t.Helper()
	log := logging.NewTest(io.Discard)
	base, err := kb.Load(fs, log)
	require.NoError(t, err)
	return New(fs, base, match.New(base), log, opts)
}

func hasPath(cands []core.Candidate, path string) bool {
	for _, c := range cands {
		if c.Path == path {
			return true
		}
	}
	return false
}

func TestScanFindsMatchAndNestedSaveSubdir(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	game := "/home/tester/.local/share/HollowKnight"
	require.NoError(t, fs.MkdirAll(filepath.Join(game, "saves"), 0o755))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(game, "saves", "user1.dat"), []byte("x"), 0o644))
	require.NoError(t, fs.MkdirAll("/home/tester/.local/share/unrelated", 0o755))

	s := newScanner(t, fs, Options{})
	q := match.BuildQuery("Hollow Knight", match.QueryOptions{})

	res := s.Scan(context.Background(), []string{"/home/tester/.local/share"}, q,
		core.PathContext{Home: "/home/tester"}, core.DefaultBudget())

	require.False(t, res.Truncated)
	assert.True(t, hasPath(res.Candidates, game))
	assert.True(t, hasPath(res.Candidates, filepath.Join(game, "saves")),
		"save subdir below a match inherits the parent's score")
	assert.False(t, hasPath(res.Candidates, "/home/tester/.local/share/unrelated"))

	for _, c := range res.Candidates {
		assert.Equal(t, core.SourceDeepScan, c.Source)
		assert.GreaterOrEqual(t, c.RawScore, 0.35)
		assert.LessOrEqual(t, c.RawScore, 1.0)
	}
}

func TestScanRespectsMaxDepth(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	deep := "/r/a/b/c/d/HollowKnight"
	require.NoError(t, fs.MkdirAll(deep, 0o755))

	s := newScanner(t, fs, Options{})
	q := match.BuildQuery("Hollow Knight", match.QueryOptions{})

	budget := core.DefaultBudget()
	budget.MaxDepth = 3

	res := s.Scan(context.Background(), []string{"/r"}, q, core.PathContext{}, budget)
	assert.False(t, hasPath(res.Candidates, deep), "beyond max depth must not be visited")

	budget.MaxDepth = 6
	res = s.Scan(context.Background(), []string{"/r"}, q, core.PathContext{}, budget)
	assert.True(t, hasPath(res.Candidates, deep))
}

func TestScanVisitedBudgetTruncates(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	for i := 0; i < 50; i++ {
		require.NoError(t, fs.MkdirAll(fmt.Sprintf("/r/dir%02d/sub", i), 0o755))
	}

	s := newScanner(t, fs, Options{})
	q := match.BuildQuery("Hollow Knight", match.QueryOptions{})

	budget := core.DefaultBudget()
	budget.MaxVisited = 5

	res := s.Scan(context.Background(), []string{"/r"}, q, core.PathContext{}, budget)
	assert.True(t, res.Truncated, "exhausting the visit budget must set truncated")
}

func TestScanCancellation(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/r/HollowKnight", 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newScanner(t, fs, Options{})
	q := match.BuildQuery("Hollow Knight", match.QueryOptions{})

	start := time.Now()
	res := s.Scan(ctx, []string{"/r"}, q, core.PathContext{}, core.DefaultBudget())

	assert.True(t, res.Truncated, "cancellation mid-scan reports truncated")
	assert.Less(t, time.Since(start), time.Second, "cancelled scan must return promptly")
}

func TestScanSteamAwareness(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	steamRoot := "/home/tester/.steam/steam"
	mine := filepath.Join(steamRoot, "userdata", "123456", "HollowKnight")
	theirs := filepath.Join(steamRoot, "userdata", "999999", "HollowKnight")
	require.NoError(t, fs.MkdirAll(mine, 0o755))
	require.NoError(t, fs.MkdirAll(theirs, 0o755))

	s := newScanner(t, fs, Options{})
	q := match.BuildQuery("Hollow Knight", match.QueryOptions{})
	pathCtx := core.PathContext{
		Home:        "/home/tester",
		SteamRoot:   steamRoot,
		SteamUserID: "123456",
	}

	res := s.Scan(context.Background(), []string{steamRoot}, q, pathCtx, core.DefaultBudget())

	assert.True(t, hasPath(res.Candidates, mine))
	assert.False(t, hasPath(res.Candidates, theirs),
		"other accounts' userdata folders are excluded entirely")
}

func TestScanSkipsBannedAndConfiguredNames(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/r/cache/HollowKnight", 0o755))
	require.NoError(t, fs.MkdirAll("/r/MyStuff/HollowKnight", 0o755))
	require.NoError(t, fs.MkdirAll("/r/Games/HollowKnight", 0o755))

	s := newScanner(t, fs, Options{ExcludeNames: []string{"MyStuff"}})
	q := match.BuildQuery("Hollow Knight", match.QueryOptions{})

	res := s.Scan(context.Background(), []string{"/r"}, q, core.PathContext{}, core.DefaultBudget())

	assert.True(t, hasPath(res.Candidates, "/r/Games/HollowKnight"))
	assert.False(t, hasPath(res.Candidates, "/r/cache/HollowKnight"))
	assert.False(t, hasPath(res.Candidates, "/r/MyStuff/HollowKnight"))
}

func TestScanSkipsOtherUsersHomes(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/home/tester/HollowKnight", 0o755))
	require.NoError(t, fs.MkdirAll("/home/other/HollowKnight", 0o755))

	s := newScanner(t, fs, Options{})
	q := match.BuildQuery("Hollow Knight", match.QueryOptions{})

	res := s.Scan(context.Background(), []string{"/home"}, q,
		core.PathContext{Home: "/home/tester"}, core.DefaultBudget())

	assert.True(t, hasPath(res.Candidates, "/home/tester/HollowKnight"))
	assert.False(t, hasPath(res.Candidates, "/home/other/HollowKnight"))
}

func TestScanSkipsBackupDir(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/r/backups/HollowKnight", 0o755))
	require.NoError(t, fs.MkdirAll("/r/Games/HollowKnight", 0o755))

	s := newScanner(t, fs, Options{})
	q := match.BuildQuery("Hollow Knight", match.QueryOptions{})
	pathCtx := core.PathContext{BackupDir: "/r/backups"}

	res := s.Scan(context.Background(), []string{"/r"}, q, pathCtx, core.DefaultBudget())

	assert.True(t, hasPath(res.Candidates, "/r/Games/HollowKnight"))
	assert.False(t, hasPath(res.Candidates, "/r/backups/HollowKnight"),
		"our own backup output must never be proposed")
}

func TestScanReportsProgress(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/r/Games/HollowKnight", 0o755))
	require.NoError(t, fs.MkdirAll("/r/Music", 0o755))

	var ticks atomic.Int64
	s := newScanner(t, fs, Options{
		Progress: func(visited int64) { ticks.Add(1) },
	})
	q := match.BuildQuery("Hollow Knight", match.QueryOptions{})

	s.Scan(context.Background(), []string{"/r"}, q, core.PathContext{}, core.DefaultBudget())

	assert.Greater(t, ticks.Load(), int64(0), "progress callback never invoked")
}

func TestScanPartialBudgetDefaultsMissingAxes(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/r/Games/HollowKnight", 0o755))

	s := newScanner(t, fs, Options{})
	q := match.BuildQuery("Hollow Knight", match.QueryOptions{})

	// Only the wall-time axis is set; depth and visited caps must still
	// fall back to their defaults instead of zero.
	budget := core.Budget{MaxWallTime: 2 * time.Second}
	res := s.Scan(context.Background(), []string{"/r"}, q, core.PathContext{}, budget)

	assert.False(t, res.Truncated)
	assert.True(t, hasPath(res.Candidates, "/r/Games/HollowKnight"))
}
