package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Matteo842/SaveState/internal/cmd"
	"github.com/Matteo842/SaveState/internal/config"
	"github.com/Matteo842/SaveState/internal/core"
	"github.com/Matteo842/SaveState/internal/logging"
	"github.com/Matteo842/SaveState/internal/ui"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui.InitColors()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(core.ExitConfig)
	}

	if cfg.Logging.Color == "never" {
		ui.DisableColors()
	}

	// Initialize logger
	log := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		File:    cfg.Paths.LogFile,
		NoColor: cfg.Logging.Color == "never",
	})

	// Execute root command
	rootCmd := cmd.NewRootCmd(cfg, log, version)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return core.ExitInterrupted
	case core.IsConfiguration(err):
		return core.ExitConfig
	default:
		return core.ExitGeneral
	}
}
