package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Matteo842/SaveState/internal/config"
	"github.com/Matteo842/SaveState/internal/kb"
	"github.com/Matteo842/SaveState/internal/paths"
	"github.com/Matteo842/SaveState/internal/profiles"
	"github.com/Matteo842/SaveState/internal/ui"
)

// NewDoctorCmd creates the doctor command
func NewDoctorCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and environment",
		Long:  `Check the configuration values, data directories, knowledge-base overlays, Steam installation and profile database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ui.PrintHeader("Diagnostics")
			fmt.Println()

			var issues []string
			var warnings []string

			// 1. Configuration sanity
			ui.PrintSubheader("Configuration")
			if cfg.Resolver.ConfidenceThreshold <= 0 || cfg.Resolver.ConfidenceThreshold > 1 {
				ui.PrintError("confidence_threshold: %.2f (must be in (0, 1])", cfg.Resolver.ConfidenceThreshold)
				issues = append(issues, "confidence_threshold out of range")
			} else {
				ui.PrintSuccess("confidence_threshold: %.2f", cfg.Resolver.ConfidenceThreshold)
			}
			if cfg.Scan.MinScore < 0 || cfg.Scan.MinScore > 1 {
				ui.PrintError("scan.min_score: %.2f (must be in [0, 1])", cfg.Scan.MinScore)
				issues = append(issues, "scan.min_score out of range")
			} else {
				ui.PrintSuccess("scan.min_score: %.2f", cfg.Scan.MinScore)
			}
			budget := cfg.Budget()
			ui.PrintInfo("scan budget: depth %d, %d dirs, %s", budget.MaxDepth, budget.MaxVisited, budget.MaxWallTime)

			fmt.Println()

			// 2. Directory structure
			ui.PrintSubheader("Directories")
			dirs := []struct {
				path string
				name string
			}{
				{cfg.Paths.DataDir, "Data directory"},
				{filepath.Dir(cfg.Paths.ProfileDB), "Profile database directory"},
				{filepath.Dir(cfg.Paths.LogFile), "Log directory"},
			}

			for _, dir := range dirs {
				if checkDirectory(dir.path) {
					ui.PrintSuccess("%s: %s", dir.name, dir.path)
				} else {
					ui.PrintError("%s: NOT ACCESSIBLE (%s)", dir.name, dir.path)
					issues = append(issues, fmt.Sprintf("Directory not accessible: %s", dir.path))
				}
			}

			fmt.Println()

			// 3. Knowledge base
			ui.PrintSubheader("Knowledge Base")
			base, err := kb.Load(afero.NewOsFs(), log, kbSources(cfg)...)
			if err != nil {
				ui.PrintError("Knowledge base: failed to load (%v)", err)
				issues = append(issues, fmt.Sprintf("Cannot load knowledge base: %v", err))
			} else {
				ui.PrintSuccess("Templates: %d", len(base.Templates()))
				ui.PrintSuccess("Alias groups: %d", len(base.AliasGroups()))
			}
			for _, src := range kbSources(cfg) {
				if _, err := os.Stat(src.Path); err != nil {
					ui.PrintWarning("Overlay %s: not readable", src.Path)
					warnings = append(warnings, fmt.Sprintf("Overlay not readable: %s", src.Path))
				} else {
					ui.PrintSuccess("Overlay %s: found", src.Path)
				}
			}

			fmt.Println()

			// 4. Steam installation
			ui.PrintSubheader("Steam")
			pathResolver := paths.NewResolver(cfg)
			pathCtx := pathResolver.Context("")
			if pathCtx.SteamRoot == "" {
				ui.PrintWarning("Steam root: not found (Steam lookups disabled)")
				warnings = append(warnings, "No Steam installation found")
			} else {
				ui.PrintSuccess("Steam root: %s", pathCtx.SteamRoot)
				if id := pathResolver.DetectSteamUserID(pathCtx.SteamRoot); id != "" {
					ui.PrintSuccess("Steam user: %s", id)
				} else {
					ui.PrintInfo("Steam user: none or ambiguous (pass --steam-id to resolve)")
				}
			}

			fmt.Println()

			// 5. Profile database
			ui.PrintSubheader("Profile Database")
			store, err := profiles.Open(ctx, cfg.Paths.ProfileDB)
			if err != nil {
				ui.PrintError("Profile database: NOT ACCESSIBLE")
				issues = append(issues, fmt.Sprintf("Cannot open profile database: %v", err))
			} else {
				ui.PrintSuccess("Profile database: accessible (%s)", cfg.Paths.ProfileDB)
				if list, err := store.List(ctx); err == nil {
					ui.PrintInfo("Remembered locations: %d", len(list))
				}
				store.Close()
			}

			fmt.Println()

			// Summary
			ui.PrintHeader("Summary")
			fmt.Println()

			if len(issues) == 0 {
				ui.PrintSuccess("All critical checks passed!")
			} else {
				ui.PrintError("Found %d issue(s):", len(issues))
				ui.PrintList(issues)
				fmt.Println()
			}

			if len(warnings) > 0 {
				ui.PrintWarning("Found %d warning(s):", len(warnings))
				ui.PrintList(warnings)
			}

			fmt.Println()

			if len(issues) > 0 {
				return fmt.Errorf("doctor found %d issue(s)", len(issues))
			}

			return nil
		},
	}

	return cmd
}

// checkDirectory checks if a directory exists and is writable
func checkDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		// Try to create if it doesn't exist
		if os.IsNotExist(err) {
			return os.MkdirAll(path, 0o755) == nil
		}
		return false
	}

	if !info.IsDir() {
		return false
	}

	// Check if writable
	testFile := filepath.Join(path, ".savestate-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return false
	}
	os.Remove(testFile)

	return true
}
