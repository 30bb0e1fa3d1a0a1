package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Matteo842/SaveState/internal/config"
)

// NewRootCmd creates the root command
func NewRootCmd(cfg *config.Config, log *zerolog.Logger, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "savestate",
		Short:        "Find where games keep their save files",
		Long:         `Resolves the on-disk save directory for a game title using known location conventions, Steam userdata layouts and a bounded filesystem scan.`,
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewResolveCmd(cfg, log))
	cmd.AddCommand(NewKBCmd(cfg, log))
	cmd.AddCommand(NewProfilesCmd(cfg, log))
	cmd.AddCommand(NewDoctorCmd(cfg, log))
	cmd.AddCommand(NewCompletionCmd(cfg, log))
	cmd.AddCommand(NewVersionCmd(version))

	return cmd
}
