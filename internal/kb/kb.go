package kb

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/Matteo842/SaveState/internal/core"
	"github.com/Matteo842/SaveState/internal/match"
)

// Source is one external knowledge file. Optional sources that fail to
// load are skipped with a warning; a Required source failure aborts the
// whole load.
type Source struct {
	Path     string
	Required bool
}

// LoadError reports a malformed or unreadable required source.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load knowledge source %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// sourceFile is the TOML schema of an external knowledge file.
type sourceFile struct {
	Templates   []core.LocationTemplate `toml:"templates"`
	AliasGroups []aliasGroup            `toml:"alias_groups"`
}

type aliasGroup struct {
	Titles []string `toml:"titles"`
}

// KnowledgeBase is the immutable set of location templates, title alias
// groups and folder-name vocabularies. Loaded once per process and safe
// for concurrent reads; never mutated after Load returns.
type KnowledgeBase struct {
	templates   []core.LocationTemplate
	aliasIndex  map[string]int
	groups      [][]string
	saveSubdirs map[string]struct{}
	bannedDirs  map[string]struct{}
	saveExts    map[string]struct{}
	saveHints   []string
}

// Load assembles the knowledge base from the built-in defaults plus zero
// or more TOML overlay sources. Optional overlay failures are logged and
// skipped so one broken file never costs the whole knowledge base.
func Load(fs afero.Fs, log *zerolog.Logger, sources ...Source) (*KnowledgeBase, error) {
	b := &KnowledgeBase{
		aliasIndex:  make(map[string]int),
		saveSubdirs: make(map[string]struct{}),
		bannedDirs:  make(map[string]struct{}),
		saveExts:    make(map[string]struct{}),
	}

	b.addTemplates(log, builtinTemplates)
	for _, group := range builtinAliasGroups {
		b.addAliasGroup(group)
	}
	for _, name := range builtinSaveSubdirs {
		b.saveSubdirs[strings.ToLower(name)] = struct{}{}
	}
	for _, name := range builtinBannedDirs {
		b.bannedDirs[strings.ToLower(name)] = struct{}{}
	}
	for _, ext := range builtinSaveExtensions {
		b.saveExts[strings.ToLower(ext)] = struct{}{}
	}
	b.saveHints = append(b.saveHints, builtinSaveFileHints...)

	for _, src := range sources {
		if err := b.loadSource(fs, log, src); err != nil {
			if src.Required {
				return nil, &LoadError{Path: src.Path, Err: err}
			}
			log.Warn().Str("source", src.Path).Err(err).
				Msg("skipping unreadable knowledge source")
		}
	}

	if len(b.templates) == 0 && len(b.groups) == 0 {
		return nil, core.ErrNoKnowledge
	}
	return b, nil
}

func (b *KnowledgeBase) loadSource(fs afero.Fs, log *zerolog.Logger, src Source) error {
	data, err := afero.ReadFile(fs, src.Path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	var file sourceFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	b.addTemplates(log, file.Templates)
	for _, group := range file.AliasGroups {
		b.addAliasGroup(group.Titles)
	}

	log.Debug().Str("source", src.Path).
		Int("templates", len(file.Templates)).
		Int("alias_groups", len(file.AliasGroups)).
		Msg("loaded knowledge source")
	return nil
}

func (b *KnowledgeBase) addTemplates(log *zerolog.Logger, templates []core.LocationTemplate) {
	for _, tpl := range templates {
		if tpl.PathPattern == "" || tpl.PriorityWeight <= 0 || tpl.PriorityWeight > 1 {
			log.Warn().Str("pattern", tpl.PathPattern).
				Float64("weight", tpl.PriorityWeight).
				Msg("dropping invalid location template")
			continue
		}
		b.templates = append(b.templates, tpl)
	}
}

func (b *KnowledgeBase) addAliasGroup(titles []string) {
	var kept []string
	id := len(b.groups)
	for _, title := range titles {
		norm := match.Normalize(title)
		if norm == "" {
			continue
		}
		b.aliasIndex[norm] = id
		kept = append(kept, title)
	}
	if len(kept) >= 2 {
		b.groups = append(b.groups, kept)
	}
}

// Templates returns every loaded template. Callers must treat the slice
// as read-only.
func (b *KnowledgeBase) Templates() []core.LocationTemplate {
	return b.templates
}

// TemplatesFor returns the templates applicable to a query: the
// platform-agnostic set plus the ones matching the platform or emulator
// hint.
func (b *KnowledgeBase) TemplatesFor(q core.Query) []core.LocationTemplate {
	var out []core.LocationTemplate
	for _, tpl := range b.templates {
		switch {
		case tpl.Platform == core.PlatformAny:
			out = append(out, tpl)
		case tpl.Platform == core.PlatformEmulator:
			if q.Platform == core.PlatformEmulator || q.Emulator != "" {
				if tpl.Emulator == "" || strings.EqualFold(tpl.Emulator, q.Emulator) {
					out = append(out, tpl)
				}
			}
		case tpl.Platform == q.Platform:
			out = append(out, tpl)
		}
	}
	return out
}

// SameGroup reports whether two titles belong to the same alias group.
// Implements the matcher's AliasSet.
func (b *KnowledgeBase) SameGroup(a, c string) bool {
	ga, okA := b.aliasIndex[match.Normalize(a)]
	gc, okC := b.aliasIndex[match.Normalize(c)]
	return okA && okC && ga == gc
}

// AliasGroups returns the loaded alias groups for diagnostics. Read-only.
func (b *KnowledgeBase) AliasGroups() [][]string {
	return b.groups
}

// IsSaveSubdir reports whether name is a conventional save folder name
// ("Saves", "SaveData", ...).
func (b *KnowledgeBase) IsSaveSubdir(name string) bool {
	_, ok := b.saveSubdirs[strings.ToLower(name)]
	return ok
}

// SaveSubdirs returns the conventional save folder names. Read-only.
func (b *KnowledgeBase) SaveSubdirs() []string {
	out := make([]string, 0, len(b.saveSubdirs))
	for name := range b.saveSubdirs {
		out = append(out, name)
	}
	return out
}

// IsBannedDir reports whether a folder name is on the noise list that
// scanning never descends into.
func (b *KnowledgeBase) IsBannedDir(name string) bool {
	_, ok := b.bannedDirs[strings.ToLower(name)]
	return ok
}

// LooksLikeSaveFile reports whether a file name matches the common save
// extension or substring vocabulary.
func (b *KnowledgeBase) LooksLikeSaveFile(name string) bool {
	lower := strings.ToLower(name)
	if idx := strings.LastIndex(lower, "."); idx >= 0 {
		if _, ok := b.saveExts[lower[idx:]]; ok {
			return true
		}
	}
	for _, hint := range b.saveHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}
