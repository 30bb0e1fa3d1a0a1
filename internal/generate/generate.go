package generate

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/Matteo842/SaveState/internal/core"
	"github.com/Matteo842/SaveState/internal/kb"
	"github.com/Matteo842/SaveState/internal/match"
)

// Weight given to candidates derived from the install path rather than a
// knowledge-base template.
const installWeight = 0.6

// Raw scores for the Steam userdata layout: remote is the documented
// cloud-save location, the appid base is a weaker fallback.
const (
	steamRemoteScore = 0.9
	steamBaseScore   = 0.6
)

// Generator expands location templates and install-path heuristics into
// existence-checked candidates. It performs no recursion; cost is linear
// in the number of templates.
type Generator struct {
	fs      afero.Fs
	base    *kb.KnowledgeBase
	matcher *match.Matcher
	log     *zerolog.Logger
}

// New creates a Generator reading through fs.
func New(fs afero.Fs, base *kb.KnowledgeBase, matcher *match.Matcher, log *zerolog.Logger) *Generator {
	return &Generator{fs: fs, base: base, matcher: matcher, log: log}
}

// Generate returns every existing directory the templates and the install
// path point at for this query. Every emitted path is absolute and was a
// directory at generation time.
func (g *Generator) Generate(q core.Query, pathCtx core.PathContext) []core.Candidate {
	byPath := make(map[string]int)
	var out []core.Candidate

	add := func(c core.Candidate) {
		c.Path = filepath.Clean(c.Path)
		if i, ok := byPath[c.Path]; ok {
			if c.RawScore > out[i].RawScore {
				c.Evidence = append(out[i].Evidence, c.Evidence...)
				out[i] = c
			}
			return
		}
		byPath[c.Path] = len(out)
		out = append(out, c)
	}

	g.fromTemplates(q, pathCtx, add)
	g.fromSteamUserdata(q, pathCtx, add)
	g.fromInstallPath(q, add)

	g.log.Debug().Str("title", q.Title).Int("candidates", len(out)).
		Msg("candidate generation done")
	return out
}

func (g *Generator) fromTemplates(q core.Query, pathCtx core.PathContext, add func(core.Candidate)) {
	for _, tpl := range g.base.TemplatesFor(q) {
		if strings.Contains(tpl.PathPattern, "{title}") {
			for _, variant := range titleVariants(q) {
				path, ok := expand(tpl.PathPattern, variant, q, pathCtx)
				if !ok || !g.isDir(path) {
					continue
				}
				add(g.templateCandidate(path, tpl, q))
			}
			continue
		}

		path, ok := expand(tpl.PathPattern, "", q, pathCtx)
		if !ok || !g.isDir(path) {
			continue
		}
		add(g.templateCandidate(path, tpl, q))
	}
}

func (g *Generator) templateCandidate(path string, tpl core.LocationTemplate, q core.Query) core.Candidate {
	nameScore := g.matcher.Score(filepath.Base(path), q)
	raw := tpl.PriorityWeight
	evidence := []string{fmt.Sprintf("template %s", tpl.PathPattern)}
	if nameScore > raw {
		raw = nameScore
	}
	evidence = append(evidence, fmt.Sprintf("name match %.2f", nameScore))
	return core.Candidate{
		Path:     path,
		Source:   core.SourceTemplate,
		RawScore: raw,
		Evidence: evidence,
	}
}

// fromSteamUserdata emits the per-user Steam cloud layout for the resolved
// user id: userdata/<id>/<appid> and its remote folder, plus remote
// subfolders that look save-related. Other users' id folders are never
// touched.
func (g *Generator) fromSteamUserdata(q core.Query, pathCtx core.PathContext, add func(core.Candidate)) {
	if q.Platform != core.PlatformSteam || q.SteamAppID == "" || pathCtx.SteamUserID == "" {
		return
	}
	userdata := pathCtx.SteamUserdataDir()
	if userdata == "" {
		return
	}

	base := filepath.Join(userdata, pathCtx.SteamUserID, q.SteamAppID)
	if !g.isDir(base) {
		return
	}

	add(core.Candidate{
		Path:     base,
		Source:   core.SourceSteamUserdata,
		RawScore: steamBaseScore,
		Evidence: []string{fmt.Sprintf("steam userdata appid %s", q.SteamAppID)},
	})

	remote := filepath.Join(base, "remote")
	if !g.isDir(remote) {
		return
	}
	add(core.Candidate{
		Path:     remote,
		Source:   core.SourceSteamUserdata,
		RawScore: steamRemoteScore,
		Evidence: []string{fmt.Sprintf("steam userdata appid %s remote", q.SteamAppID)},
	})

	entries, err := afero.ReadDir(g.fs, remote)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		score := g.matcher.Score(name, q)
		if !g.base.IsSaveSubdir(name) && score < 0.5 {
			continue
		}
		raw := steamBaseScore
		if score > raw {
			raw = score
		}
		add(core.Candidate{
			Path:     filepath.Join(remote, name),
			Source:   core.SourceSteamUserdata,
			RawScore: raw,
			Evidence: []string{fmt.Sprintf("steam remote subfolder %q", name)},
		})
	}
}

// fromInstallPath emits save-looking children of the install directory,
// direct children matching the title, and a sibling saves folder.
func (g *Generator) fromInstallPath(q core.Query, add func(core.Candidate)) {
	if q.InstallPath == "" {
		return
	}
	install := filepath.Clean(q.InstallPath)
	if !g.isDir(install) {
		return
	}

	entries, err := afero.ReadDir(g.fs, install)
	if err == nil {
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			name := entry.Name()
			score := g.matcher.Score(name, q)
			switch {
			case g.base.IsSaveSubdir(name):
				add(core.Candidate{
					Path:     filepath.Join(install, name),
					Source:   core.SourceTemplate,
					RawScore: installWeight,
					Evidence: []string{fmt.Sprintf("install subdir %q", name)},
				})
			case score >= 0.5:
				raw := installWeight
				if score > raw {
					raw = score
				}
				add(core.Candidate{
					Path:     filepath.Join(install, name),
					Source:   core.SourceTemplate,
					RawScore: raw,
					Evidence: []string{fmt.Sprintf("install subdir name match %.2f", score)},
				})
			}
		}
	}

	parent := filepath.Dir(install)
	siblings, err := afero.ReadDir(g.fs, parent)
	if err != nil {
		return
	}
	for _, entry := range siblings {
		if !entry.IsDir() || !g.base.IsSaveSubdir(entry.Name()) {
			continue
		}
		add(core.Candidate{
			Path:     filepath.Join(parent, entry.Name()),
			Source:   core.SourceTemplate,
			RawScore: installWeight,
			Evidence: []string{fmt.Sprintf("install sibling %q", entry.Name())},
		})
	}
}

// titleVariants lists the folder names a {title} placeholder is tried
// with: the cleaned title itself, its spaceless form and the generated
// acronyms.
func titleVariants(q core.Query) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(v string) {
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	slug := match.Slug(q.Title)
	add(slug)
	add(strings.ReplaceAll(slug, " ", ""))
	add(strings.ReplaceAll(q.NormalizedTitle, " ", ""))
	for _, abbr := range q.Abbreviations {
		add(abbr)
	}
	return out
}

// expand substitutes placeholders into a template pattern. It fails when
// the pattern needs a value the context does not have, so templates for
// other platforms never produce half-expanded paths.
func expand(pattern, title string, q core.Query, ctx core.PathContext) (string, bool) {
	replacements := map[string]string{
		"{home}":          ctx.Home,
		"{appdata}":       ctx.AppData,
		"{local_appdata}": ctx.LocalAppData,
		"{documents}":     ctx.Documents,
		"{saved_games}":   ctx.SavedGames,
		"{xdg_data}":      ctx.XDGData,
		"{xdg_config}":    ctx.XDGConfig,
		"{steam_root}":    ctx.SteamRoot,
		"{steam_id}":      ctx.SteamUserID,
		"{steam_appid}":   q.SteamAppID,
		"{title}":         title,
	}

	out := pattern
	for placeholder, value := range replacements {
		if !strings.Contains(out, placeholder) {
			continue
		}
		if value == "" {
			return "", false
		}
		out = strings.ReplaceAll(out, placeholder, value)
	}
	if strings.Contains(out, "{") {
		return "", false
	}
	return filepath.Clean(out), true
}

func (g *Generator) isDir(path string) bool {
	info, err := g.fs.Stat(path)
	return err == nil && info.IsDir()
}
