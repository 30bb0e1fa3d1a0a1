package match

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/Matteo842/SaveState/internal/core"
)

var (
	launcherPrefix = regexp.MustCompile(`(?i)^(play |launch )`)
	wordPattern    = regexp.MustCompile(`[A-Za-z0-9]+`)
)

// QueryOptions carries the optional parts of a lookup.
type QueryOptions struct {
	InstallPath string
	Platform    core.Platform
	Emulator    string
	SteamAppID  string
}

// BuildQuery constructs a Query from a raw title, filling in the
// normalized form and the abbreviation variants folder names are matched
// against. The returned value is treated as immutable by the engine.
func BuildQuery(title string, opts QueryOptions) core.Query {
	sanitized := sanitizeTitle(title)
	return core.Query{
		Title:           title,
		NormalizedTitle: Normalize(sanitized),
		Abbreviations:   GenerateAbbreviations(sanitized),
		InstallPath:     opts.InstallPath,
		Platform:        opts.Platform,
		Emulator:        opts.Emulator,
		SteamAppID:      opts.SteamAppID,
	}
}

// sanitizeTitle strips launcher verb prefixes ("Play X", "Launch X") and
// trademark decorations before any matching happens.
func sanitizeTitle(title string) string {
	title = launcherPrefix.ReplaceAllString(title, "")
	title = strings.Map(func(r rune) rune {
		switch r {
		case '™', '®', '©':
			return -1
		}
		return r
	}, title)
	return strings.TrimSpace(title)
}

// GenerateAbbreviations produces the acronym variants a game's save folder
// is commonly named after: initials of all words ("The Witcher 3" -> "TW3"),
// initials of significant words only, initials of capitalized words, and
// the same again for each side of a colon-split subtitle. Output is
// deduplicated and ordered longest first for deterministic matching.
func GenerateAbbreviations(title string) []string {
	words := wordPattern.FindAllString(title, -1)
	if len(words) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	add := func(abbr string) {
		if len(abbr) < 2 {
			return
		}
		if _, ok := seen[abbr]; ok {
			return
		}
		seen[abbr] = struct{}{}
		out = append(out, abbr)
	}

	add(acronym(words, nil))
	add(acronym(words, isSignificant))
	add(acronym(words, isCapitalizedOrDigit))

	if idx := strings.Index(title, ":"); idx >= 0 {
		before := wordPattern.FindAllString(title[:idx], -1)
		after := wordPattern.FindAllString(title[idx+1:], -1)
		add(acronym(before, isCapitalizedOrDigit))
		add(acronym(after, nil))
		add(acronym(after, isSignificant))
		add(acronym(after, isCapitalizedOrDigit))
	}

	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// acronym joins the uppercased initials of the words accepted by keep
// (nil keeps everything).
func acronym(words []string, keep func(string) bool) string {
	var b strings.Builder
	for _, w := range words {
		if w == "" {
			continue
		}
		if keep != nil && !keep(w) {
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]))
	}
	return b.String()
}

func isSignificant(word string) bool {
	if len(word) <= 1 && !isDigits(word) {
		return false
	}
	_, ignored := ignoreWords[strings.ToLower(word)]
	return !ignored || isDigits(word)
}

func isCapitalizedOrDigit(word string) bool {
	r := []rune(word)[0]
	return unicode.IsUpper(r) || unicode.IsDigit(r)
}

func isDigits(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return word != ""
}
