package core

import (
	"path/filepath"
	"time"
)

// Platform identifies the launcher ecosystem a query belongs to
type Platform string

const (
	PlatformAny      Platform = ""
	PlatformSteam    Platform = "steam"
	PlatformLauncher Platform = "launcher"
	PlatformEmulator Platform = "emulator"
)

// Source identifies the strategy that produced a candidate
type Source string

const (
	SourceTemplate      Source = "template"
	SourceSteamUserdata Source = "steam_userdata"
	SourceDeepScan      Source = "deep_scan"
)

// Weight returns the confidence multiplier applied to raw scores from this
// source. A name match found by a deep scan is weaker evidence than a
// documented platform convention, so deep-scan hits are down-weighted even
// when the string match was perfect.
func (s Source) Weight() float64 {
	switch s {
	case SourceTemplate:
		return 1.0
	case SourceSteamUserdata:
		return 0.9
	case SourceDeepScan:
		return 0.75
	default:
		return 0.75
	}
}

// Priority orders sources for tie-breaking; lower sorts first.
func (s Source) Priority() int {
	switch s {
	case SourceTemplate:
		return 0
	case SourceSteamUserdata:
		return 1
	default:
		return 2
	}
}

// Query describes one save-location lookup. Immutable once constructed;
// build instances with match.BuildQuery so the normalized title and
// abbreviation variants are filled in consistently.
type Query struct {
	Title           string
	NormalizedTitle string
	Abbreviations   []string
	InstallPath     string
	Platform        Platform
	Emulator        string
	SteamAppID      string
}

// LocationTemplate is one known save-location convention, owned by the
// knowledge base and shared read-only with the candidate generator.
// PathPattern may contain the placeholders {home}, {appdata},
// {local_appdata}, {documents}, {saved_games}, {xdg_data}, {xdg_config},
// {steam_root}, {title}, {steam_id} and {steam_appid}.
type LocationTemplate struct {
	Platform       Platform `toml:"platform"`
	Emulator       string   `toml:"emulator,omitempty"`
	PathPattern    string   `toml:"path_pattern"`
	PriorityWeight float64  `toml:"priority_weight"`
}

// Candidate is a directory proposed as a possible save location.
// RawScore is set by the generator or scanner; AdjustedScore is written
// exactly once by the ranker and never mutated afterwards.
type Candidate struct {
	Path          string   `json:"path"`
	Source        Source   `json:"source"`
	RawScore      float64  `json:"raw_score"`
	AdjustedScore float64  `json:"adjusted_score"`
	Evidence      []string `json:"evidence,omitempty"`
}

// Depth returns the number of path separators in the cleaned path, used
// for nesting resolution.
func (c Candidate) Depth() int {
	clean := filepath.Clean(c.Path)
	n := 0
	for _, r := range clean {
		if r == filepath.Separator {
			n++
		}
	}
	return n
}

// ResolutionResult is the outcome of one resolve call. Candidates are
// ordered by descending adjusted score; Truncated is true when the deep
// scan exhausted its budget before exhausting the search space.
type ResolutionResult struct {
	Query      Query       `json:"query"`
	Candidates []Candidate `json:"candidates"`
	Truncated  bool        `json:"truncated"`
}

// Budget bounds a deep scan across all roots of a single resolve call.
type Budget struct {
	MaxDepth    int
	MaxVisited  int64
	MaxWallTime time.Duration
}

// DefaultBudget returns the scan bounds used when configuration supplies none.
func DefaultBudget() Budget {
	return Budget{
		MaxDepth:    5,
		MaxVisited:  50000,
		MaxWallTime: 8 * time.Second,
	}
}

// PathContext carries the resolved runtime directories used for template
// placeholder substitution and as deep-scan roots. SteamUserID, when set,
// is the already-resolved numeric user folder id supplied by the caller;
// this engine never parses Steam's account files itself.
type PathContext struct {
	Home         string
	AppData      string
	LocalAppData string
	Documents    string
	SavedGames   string
	XDGData      string
	XDGConfig    string
	SteamRoot    string
	SteamUserID  string
	LibraryRoots []string
	BackupDir    string
}

// SteamUserdataDir returns the userdata root under the Steam installation,
// or "" when no Steam root is known.
func (c PathContext) SteamUserdataDir() string {
	if c.SteamRoot == "" {
		return ""
	}
	return filepath.Join(c.SteamRoot, "userdata")
}

// Exit codes returned by the CLI.
const (
	ExitSuccess     = 0
	ExitGeneral     = 1
	ExitInvalidArgs = 2
	ExitConfig      = 3
	ExitDatabase    = 5
	ExitInterrupted = 130
)
