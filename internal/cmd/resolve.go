package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Matteo842/SaveState/internal/config"
	"github.com/Matteo842/SaveState/internal/core"
	"github.com/Matteo842/SaveState/internal/kb"
	"github.com/Matteo842/SaveState/internal/match"
	"github.com/Matteo842/SaveState/internal/paths"
	"github.com/Matteo842/SaveState/internal/profiles"
	"github.com/Matteo842/SaveState/internal/resolver"
	"github.com/Matteo842/SaveState/internal/ui"
)

// NewResolveCmd creates the resolve command
func NewResolveCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		installPath string
		platform    string
		emulator    string
		steamAppID  string
		steamID     string
		noDeepScan  bool
		timeout     time.Duration
		jsonOutput  bool
		pick        bool
		limit       int
		fresh       bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <title>",
		Short: "Resolve the save directory for a title",
		Long: `Resolve the save directory for a game title.

The cheap phase expands known location templates and the Steam userdata
layout. When nothing confident comes out of it, a bounded scan of the
usual save roots runs as a fallback. A choice confirmed with --pick is
remembered and returned directly next time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			title := args[0]

			plat, err := parsePlatform(platform)
			if err != nil {
				return err
			}
			// An emulator or appid hint implies the platform.
			if plat == core.PlatformAny && emulator != "" {
				plat = core.PlatformEmulator
			}
			if plat == core.PlatformAny && steamAppID != "" {
				plat = core.PlatformSteam
			}

			q := match.BuildQuery(title, match.QueryOptions{
				InstallPath: installPath,
				Platform:    plat,
				Emulator:    emulator,
				SteamAppID:  steamAppID,
			})

			store, err := profiles.Open(ctx, cfg.Paths.ProfileDB)
			if err != nil {
				return fmt.Errorf("open profile store: %w", err)
			}
			defer store.Close()

			if !fresh {
				if p, ok, err := store.Lookup(ctx, q); err == nil && ok {
					if info, serr := os.Stat(p.SavePath); serr == nil && info.IsDir() {
						log.Info().Str("title", title).Str("path", p.SavePath).
							Msg("using remembered location")
						return printRemembered(cmd, p, jsonOutput)
					}
					ui.PrintWarning("remembered location no longer exists, resolving again")
				}
			}

			fs := afero.NewOsFs()
			base, err := kb.Load(fs, log, kbSources(cfg)...)
			if err != nil {
				return err
			}

			pathResolver := paths.NewResolver(cfg)
			probe := pathResolver.Context("")
			if steamID == "" {
				steamID = pathResolver.DetectSteamUserID(probe.SteamRoot)
			}
			pathCtx := pathResolver.Context(steamID)

			budget := cfg.Budget()
			if timeout > 0 {
				budget.MaxWallTime = timeout
			}

			// The spinner only appears once the deep scan actually starts.
			var spinner *ui.ScanSpinner
			var spinOnce sync.Once
			var progress func(int64)
			if !jsonOutput {
				progress = func(visited int64) {
					spinOnce.Do(func() { spinner = ui.NewScanSpinner("scanning") })
					spinner.Tick(visited)
				}
			}

			eng := resolver.New(fs, base, log, resolver.Options{
				ConfidenceThreshold: cfg.Resolver.ConfidenceThreshold,
				NestingMargin:       cfg.Resolver.NestingMargin,
				ScanMinScore:        cfg.Scan.MinScore,
				ScanExcludeNames:    cfg.Scan.ExcludeNames,
				ScanProgress:        progress,
				Budget:              budget,
				DisableDeepScan:     noDeepScan,
			})

			res, err := eng.Resolve(ctx, q, pathCtx)
			if spinner != nil {
				spinner.Finish()
			}
			if err != nil {
				return err
			}

			if limit > 0 && len(res.Candidates) > limit {
				res.Candidates = res.Candidates[:limit]
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			if res.Truncated {
				ui.PrintWarning("scan hit its budget; results may be incomplete")
			}
			if len(res.Candidates) == 0 {
				ui.PrintInfo("No save location found for %q", title)
				return nil
			}

			printCandidateTable(cmd, res.Candidates, cfg.Resolver.ConfidenceThreshold)

			if pick {
				index, err := ui.PickCandidate("Save location", res.Candidates)
				if err != nil {
					return err
				}
				chosen := res.Candidates[index]
				if err := store.Remember(ctx, q, chosen); err != nil {
					return fmt.Errorf("remember choice: %w", err)
				}
				ui.PrintSuccess("Remembered %s", chosen.Path)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&installPath, "install-path", "", "game installation directory")
	cmd.Flags().StringVar(&platform, "platform", "", "platform hint: steam, launcher, emulator")
	cmd.Flags().StringVar(&emulator, "emulator", "", "emulator hint (mgba, retroarch, dolphin, ...)")
	cmd.Flags().StringVar(&steamAppID, "appid", "", "Steam application id")
	cmd.Flags().StringVar(&steamID, "steam-id", "", "Steam userdata folder id (autodetected when unique)")
	cmd.Flags().BoolVar(&noDeepScan, "no-deep-scan", false, "never fall back to scanning the filesystem")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "deep-scan wall-time limit (default from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().BoolVar(&pick, "pick", false, "interactively pick and remember a candidate")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of candidates to show (0 = all)")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "ignore the remembered location and resolve again")

	return cmd
}

// parsePlatform maps the --platform flag onto the engine's platform tags.
func parsePlatform(s string) (core.Platform, error) {
	switch strings.ToLower(s) {
	case "":
		return core.PlatformAny, nil
	case "steam":
		return core.PlatformSteam, nil
	case "launcher":
		return core.PlatformLauncher, nil
	case "emulator":
		return core.PlatformEmulator, nil
	default:
		return core.PlatformAny, fmt.Errorf("unknown platform %q (want steam, launcher or emulator)", s)
	}
}

// kbSources lists the TOML overlay files configured on top of the
// built-in knowledge base. All overlays are optional.
func kbSources(cfg *config.Config) []kb.Source {
	var sources []kb.Source
	for _, f := range cfg.Paths.TemplateFiles {
		sources = append(sources, kb.Source{Path: f})
	}
	for _, f := range cfg.Paths.AliasFiles {
		sources = append(sources, kb.Source{Path: f})
	}
	return sources
}

func printRemembered(cmd *cobra.Command, p *profiles.Profile, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
	ui.PrintSuccess("%s", p.SavePath)
	ui.PrintKeyValue("Source", ui.ColorizeSource(p.Source))
	ui.PrintKeyValue("Resolved", p.ResolvedAt.Format("2006-01-02 15:04"))
	return nil
}

func printCandidateTable(cmd *cobra.Command, candidates []core.Candidate, threshold float64) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"Score", "Source", "Path", "Evidence"}),
		tablewriter.WithAlignment(tw.MakeAlign(4, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
	)

	for _, c := range candidates {
		evidence := "-"
		if len(c.Evidence) > 0 {
			evidence = c.Evidence[0]
		}
		table.Append(
			ui.ColorizeScore(c.AdjustedScore, threshold),
			ui.ColorizeSource(c.Source),
			c.Path,
			evidence,
		)
	}

	table.Render()
}
