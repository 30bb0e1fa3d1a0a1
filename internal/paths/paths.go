package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"

	"github.com/Matteo842/SaveState/internal/config"
	"github.com/Matteo842/SaveState/internal/core"
)

// Resolver centralizes the runtime directories the engine substitutes into
// location templates and uses as deep-scan roots. It computes base
// directories from HOME, the platform environment and the configuration.
type Resolver struct {
	fs      afero.Fs
	homeDir string
	goos    string
	cfg     *config.Config
}

// NewResolver creates a Resolver for the current user and OS.
func NewResolver(cfg *config.Config) *Resolver {
	homeDir, _ := os.UserHomeDir()
	return &Resolver{
		fs:      afero.NewOsFs(),
		homeDir: homeDir,
		goos:    runtime.GOOS,
		cfg:     cfg,
	}
}

// NewResolverWithEnv creates a Resolver with an explicit filesystem, home
// directory and OS tag (useful for tests).
func NewResolverWithEnv(fs afero.Fs, cfg *config.Config, homeDir, goos string) *Resolver {
	return &Resolver{
		fs:      fs,
		homeDir: homeDir,
		goos:    goos,
		cfg:     cfg,
	}
}

// HomeDir returns the resolved HOME directory.
func (r *Resolver) HomeDir() string {
	return r.homeDir
}

// Context assembles the PathContext for one resolve call. steamUserID is
// the numeric userdata folder id already resolved by the caller; it may be
// empty for non-Steam queries.
func (r *Resolver) Context(steamUserID string) core.PathContext {
	ctx := core.PathContext{
		Home:        r.homeDir,
		Documents:   filepath.Join(r.homeDir, "Documents"),
		SteamUserID: steamUserID,
	}

	switch r.goos {
	case "windows":
		ctx.AppData = os.Getenv("APPDATA")
		ctx.LocalAppData = os.Getenv("LOCALAPPDATA")
		ctx.SavedGames = filepath.Join(r.homeDir, "Saved Games")
	case "darwin":
		appSupport := filepath.Join(r.homeDir, "Library", "Application Support")
		ctx.XDGData = appSupport
		ctx.XDGConfig = filepath.Join(r.homeDir, "Library", "Preferences")
	default:
		ctx.XDGData = envOr("XDG_DATA_HOME", filepath.Join(r.homeDir, ".local", "share"))
		ctx.XDGConfig = envOr("XDG_CONFIG_HOME", filepath.Join(r.homeDir, ".config"))
	}

	ctx.SteamRoot = r.steamRoot(ctx)

	if r.cfg != nil {
		ctx.LibraryRoots = append(ctx.LibraryRoots, r.cfg.Paths.LibraryRoots...)
		ctx.BackupDir = r.cfg.Paths.BackupDir
	}

	return ctx
}

// steamRoot returns the first Steam installation root that exists on disk,
// covering native, XDG and Flatpak layouts.
func (r *Resolver) steamRoot(ctx core.PathContext) string {
	var roots []string
	switch r.goos {
	case "windows":
		roots = []string{
			filepath.Join("C:\\", "Program Files (x86)", "Steam"),
			filepath.Join("C:\\", "Program Files", "Steam"),
		}
	case "darwin":
		roots = []string{
			filepath.Join(r.homeDir, "Library", "Application Support", "Steam"),
		}
	default:
		roots = []string{
			filepath.Join(r.homeDir, ".steam", "steam"),
			filepath.Join(r.homeDir, ".local", "share", "Steam"),
			filepath.Join(r.homeDir, ".var", "app", "com.valvesoftware.Steam", ".local", "share", "Steam"),
			filepath.Join(r.homeDir, "snap", "steam", "common", ".local", "share", "Steam"),
		}
	}

	for _, root := range roots {
		if isDir(r.fs, root) {
			return root
		}
	}
	return ""
}

// DetectSteamUserID returns the id of the only numeric account folder
// under the Steam userdata directory, or "" when there are none or the
// choice is ambiguous.
func (r *Resolver) DetectSteamUserID(steamRoot string) string {
	if steamRoot == "" {
		return ""
	}
	entries, err := afero.ReadDir(r.fs, filepath.Join(steamRoot, "userdata"))
	if err != nil {
		return ""
	}

	var found string
	for _, entry := range entries {
		if !entry.IsDir() || !isNumeric(entry.Name()) {
			continue
		}
		if found != "" {
			// More than one account; the caller must disambiguate.
			return ""
		}
		found = entry.Name()
	}
	return found
}

func isNumeric(s string) bool {
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

// ScanRoots returns the root set for the deep-scan fallback: the user home,
// the install root when known, the platform save locations and the Steam
// userdata root. Only existing directories are returned, deduplicated,
// shallowest first.
func ScanRoots(fs afero.Fs, ctx core.PathContext, installPath string) []string {
	ordered := []string{
		ctx.SavedGames,
		filepath.Join(ctx.Documents, "My Games"),
		ctx.Documents,
		ctx.AppData,
		ctx.LocalAppData,
		ctx.XDGData,
		ctx.XDGConfig,
		ctx.SteamUserdataDir(),
	}
	if installPath != "" {
		ordered = append(ordered, installPath)
	}
	ordered = append(ordered, ctx.LibraryRoots...)
	ordered = append(ordered, ctx.Home)

	seen := make(map[string]struct{})
	var roots []string
	for _, root := range ordered {
		if root == "" {
			continue
		}
		clean := filepath.Clean(root)
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		if isDir(fs, clean) {
			roots = append(roots, clean)
		}
	}
	return roots
}

func isDir(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && info.IsDir()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
