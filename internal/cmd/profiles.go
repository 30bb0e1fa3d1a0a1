package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Matteo842/SaveState/internal/config"
	"github.com/Matteo842/SaveState/internal/match"
	"github.com/Matteo842/SaveState/internal/profiles"
	"github.com/Matteo842/SaveState/internal/ui"
)

// NewProfilesCmd creates the profiles command group
func NewProfilesCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage remembered save locations",
		Long:  `List and forget the title-to-path choices remembered from previous resolves.`,
	}

	cmd.AddCommand(newProfilesListCmd(cfg, log))
	cmd.AddCommand(newProfilesForgetCmd(cfg, log))

	return cmd
}

func newProfilesListCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List remembered locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := profiles.Open(ctx, cfg.Paths.ProfileDB)
			if err != nil {
				return fmt.Errorf("open profile store: %w", err)
			}
			defer store.Close()

			list, err := store.List(ctx)
			if err != nil {
				return fmt.Errorf("list profiles: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}

			if len(list) == 0 {
				ui.PrintInfo("No remembered locations")
				return nil
			}

			table := tablewriter.NewTable(cmd.OutOrStdout(),
				tablewriter.WithHeader([]string{"Title", "Platform", "Source", "Resolved", "Path"}),
				tablewriter.WithAlignment(tw.MakeAlign(5, tw.AlignLeft)),
				tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
			)

			for _, p := range list {
				platform := string(p.Platform)
				if platform == "" {
					platform = "any"
				}
				table.Append(
					p.Title,
					platform,
					ui.ColorizeSource(p.Source),
					p.ResolvedAt.Format("2006-01-02"),
					p.SavePath,
				)
			}

			table.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	return cmd
}

func newProfilesForgetCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var platform string
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "forget <title>",
		Short: "Forget the remembered location for a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			plat, err := parsePlatform(platform)
			if err != nil {
				return err
			}
			q := match.BuildQuery(args[0], match.QueryOptions{Platform: plat})

			if !skipConfirm {
				ok, err := ui.ConfirmPrompt(fmt.Sprintf("Forget remembered location for %q", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					ui.PrintInfo("Cancelled")
					return nil
				}
			}

			store, err := profiles.Open(ctx, cfg.Paths.ProfileDB)
			if err != nil {
				return fmt.Errorf("open profile store: %w", err)
			}
			defer store.Close()

			if err := store.Forget(ctx, q); err != nil {
				return err
			}

			log.Info().Str("title", args[0]).Msg("forgot remembered location")
			ui.PrintSuccess("Forgot remembered location for %q", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "", "platform the choice was remembered under")
	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
