package generate

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matteo842/SaveState/internal/core"
	"github.com/Matteo842/SaveState/internal/kb"
	"github.com/Matteo842/SaveState/internal/logging"
	"github.com/Matteo842/SaveState/internal/match"
)

func newGenerator(t *testing.T, fs afero.Fs) *Generator {
	t.Helper()
	log := logging.NewTest(io.Discard)
	base, err := kb.Load(fs, log)
	require.NoError(t, err)
	return New(fs, base, match.New(base), log)
}

func linuxCtx(home string) core.PathContext {
	return core.PathContext{
		Home:      home,
		Documents: filepath.Join(home, "Documents"),
		XDGData:   filepath.Join(home, ".local", "share"),
		XDGConfig: filepath.Join(home, ".config"),
	}
}

func findCandidate(cands []core.Candidate, path string) (core.Candidate, bool) {
	for _, c := range cands {
		if c.Path == path {
			return c, true
		}
	}
	return core.Candidate{}, false
}

func TestGenerateEmulatorTemplate(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	home := "/home/tester"
	mgbaSaves := filepath.Join(home, ".local", "share", "mgba", "saves")
	require.NoError(t, fs.MkdirAll(mgbaSaves, 0o755))

	g := newGenerator(t, fs)
	q := match.BuildQuery("Pokemon Emerald", match.QueryOptions{
		Platform: core.PlatformEmulator,
		Emulator: "mGBA",
	})

	cands := g.Generate(q, linuxCtx(home))

	c, ok := findCandidate(cands, mgbaSaves)
	require.True(t, ok, "expected the mGBA saves convention to be emitted")
	assert.Equal(t, core.SourceTemplate, c.Source)
	assert.Equal(t, 0.4, c.RawScore, "no title match keeps the convention weight")
	assert.NotEmpty(t, c.Evidence)
}

func TestGenerateTitleTemplateExactMatch(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	home := "/home/tester"
	gameDir := filepath.Join(home, "Documents", "My Games", "Hollow Knight")
	require.NoError(t, fs.MkdirAll(gameDir, 0o755))

	g := newGenerator(t, fs)
	q := match.BuildQuery("Hollow Knight", match.QueryOptions{})

	cands := g.Generate(q, linuxCtx(home))

	c, ok := findCandidate(cands, gameDir)
	require.True(t, ok)
	assert.Equal(t, 1.0, c.RawScore, "exact title match lifts a template hit to 1.0")
}

func TestGenerateAbbreviationVariant(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	home := "/home/tester"
	abbrevDir := filepath.Join(home, ".config", "TW3WH")
	require.NoError(t, fs.MkdirAll(abbrevDir, 0o755))

	g := newGenerator(t, fs)
	q := match.BuildQuery("The Witcher 3: Wild Hunt", match.QueryOptions{})

	cands := g.Generate(q, linuxCtx(home))

	c, ok := findCandidate(cands, abbrevDir)
	require.True(t, ok, "acronym folder should be found through the {title} variants")
	assert.Equal(t, 1.0, c.RawScore)
}

func TestGenerateNonexistentNeverEmitted(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	home := "/home/tester"
	require.NoError(t, fs.MkdirAll(home, 0o755))

	g := newGenerator(t, fs)
	q := match.BuildQuery("Hollow Knight", match.QueryOptions{})

	for _, c := range g.Generate(q, linuxCtx(home)) {
		info, err := fs.Stat(c.Path)
		require.NoError(t, err, "candidate %s must exist", c.Path)
		assert.True(t, info.IsDir())
		assert.True(t, filepath.IsAbs(c.Path))
	}
}

func TestGenerateInstallPathCandidates(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	install := "/mnt/games/Celeste"
	require.NoError(t, fs.MkdirAll(filepath.Join(install, "Saves"), 0o755))
	require.NoError(t, fs.MkdirAll(filepath.Join(install, "Content"), 0o755))
	require.NoError(t, fs.MkdirAll("/mnt/games/savedata", 0o755))

	g := newGenerator(t, fs)
	q := match.BuildQuery("Celeste", match.QueryOptions{InstallPath: install})

	cands := g.Generate(q, core.PathContext{Home: "/home/tester"})

	saves, ok := findCandidate(cands, filepath.Join(install, "Saves"))
	require.True(t, ok)
	assert.Equal(t, core.SourceTemplate, saves.Source)
	assert.Equal(t, installWeight, saves.RawScore)

	_, ok = findCandidate(cands, filepath.Join(install, "Content"))
	assert.False(t, ok, "unrelated install subdirs are not candidates")

	_, ok = findCandidate(cands, "/mnt/games/savedata")
	assert.True(t, ok, "sibling save folder should be emitted")
}

func TestGenerateSteamUserdata(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	steamRoot := "/home/tester/.steam/steam"
	remote := filepath.Join(steamRoot, "userdata", "123456", "367520", "remote")
	require.NoError(t, fs.MkdirAll(filepath.Join(remote, "saves"), 0o755))
	// A different user's folder must never be emitted.
	otherUser := filepath.Join(steamRoot, "userdata", "999999", "367520", "remote")
	require.NoError(t, fs.MkdirAll(otherUser, 0o755))

	g := newGenerator(t, fs)
	q := match.BuildQuery("Hollow Knight", match.QueryOptions{
		Platform:   core.PlatformSteam,
		SteamAppID: "367520",
	})
	ctx := core.PathContext{
		Home:        "/home/tester",
		SteamRoot:   steamRoot,
		SteamUserID: "123456",
	}

	cands := g.Generate(q, ctx)

	rc, ok := findCandidate(cands, remote)
	require.True(t, ok)
	assert.Equal(t, core.SourceSteamUserdata, rc.Source)
	assert.Equal(t, steamRemoteScore, rc.RawScore)

	_, ok = findCandidate(cands, filepath.Join(remote, "saves"))
	assert.True(t, ok, "save-looking remote subfolder should be emitted")

	for _, c := range cands {
		assert.NotContains(t, c.Path, "999999", "other users' folders are excluded")
	}
}

func TestExpandFailsOnMissingValues(t *testing.T) {
	t.Parallel()

	_, ok := expand("{appdata}/{title}", "Game", core.Query{}, core.PathContext{Home: "/home/t"})
	assert.False(t, ok, "windows placeholder with no appdata must not expand")

	path, ok := expand("{home}/.config/{title}", "Game", core.Query{}, core.PathContext{Home: "/home/t"})
	assert.True(t, ok)
	assert.Equal(t, "/home/t/.config/Game", path)
}
