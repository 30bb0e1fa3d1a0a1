package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Matteo842/SaveState/internal/config"
	"github.com/Matteo842/SaveState/internal/core"
	"github.com/Matteo842/SaveState/internal/kb"
	"github.com/Matteo842/SaveState/internal/ui"
)

// NewKBCmd creates the kb command group
func NewKBCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Inspect the location knowledge base",
		Long:  `Inspect the built-in location templates and alias groups, including any configured TOML overlays.`,
	}

	cmd.AddCommand(newKBTemplatesCmd(cfg, log))
	cmd.AddCommand(newKBAliasesCmd(cfg, log))

	return cmd
}

func newKBTemplatesCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		jsonOutput bool
		platform   string
		emu        string
	)

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List location templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := kb.Load(afero.NewOsFs(), log, kbSources(cfg)...)
			if err != nil {
				return err
			}

			templates := base.Templates()
			if platform != "" || emu != "" {
				plat, err := parsePlatform(platform)
				if err != nil {
					return err
				}
				var filtered []core.LocationTemplate
				for _, tpl := range templates {
					if platform != "" && tpl.Platform != plat {
						continue
					}
					if emu != "" && !strings.EqualFold(tpl.Emulator, emu) {
						continue
					}
					filtered = append(filtered, tpl)
				}
				templates = filtered
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(templates)
			}

			if len(templates) == 0 {
				ui.PrintInfo("No templates match the given filters")
				return nil
			}

			table := tablewriter.NewTable(cmd.OutOrStdout(),
				tablewriter.WithHeader([]string{"Platform", "Emulator", "Weight", "Pattern"}),
				tablewriter.WithAlignment(tw.MakeAlign(4, tw.AlignLeft)),
				tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
			)

			for _, tpl := range templates {
				plat := string(tpl.Platform)
				if plat == "" {
					plat = "any"
				}
				emulator := tpl.Emulator
				if emulator == "" {
					emulator = "-"
				}
				table.Append(plat, emulator, fmt.Sprintf("%.2f", tpl.PriorityWeight), tpl.PathPattern)
			}

			table.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().StringVar(&platform, "platform", "", "filter by platform: steam, launcher, emulator")
	cmd.Flags().StringVar(&emu, "emulator", "", "filter by emulator")

	return cmd
}

func newKBAliasesCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "aliases",
		Short: "List title alias groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := kb.Load(afero.NewOsFs(), log, kbSources(cfg)...)
			if err != nil {
				return err
			}

			groups := base.AliasGroups()
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(groups)
			}

			for _, group := range groups {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Bullet, strings.Join(group, "  =  "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	return cmd
}
