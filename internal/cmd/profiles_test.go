package cmd

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/Matteo842/SaveState/internal/config"
	"github.com/Matteo842/SaveState/internal/core"
	"github.com/Matteo842/SaveState/internal/logging"
	"github.com/Matteo842/SaveState/internal/match"
	"github.com/Matteo842/SaveState/internal/profiles"
)

func TestProfilesForgetYes(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.Paths.ProfileDB = filepath.Join(t.TempDir(), "profiles.db")
	log := logging.NewTest(io.Discard)

	q := match.BuildQuery("Hollow Knight", match.QueryOptions{})

	store, err := profiles.Open(ctx, cfg.Paths.ProfileDB)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	err = store.Remember(ctx, q, core.Candidate{
		Path:          "/home/u/.config/unity3d/Team Cherry/Hollow Knight",
		Source:        core.SourceTemplate,
		AdjustedScore: 0.92,
	})
	store.Close()
	if err != nil {
		t.Fatalf("remember: %v", err)
	}

	// --yes skips the interactive confirmation, so the delete runs
	// without a terminal attached.
	cmd := NewProfilesCmd(cfg, log)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"forget", "Hollow Knight", "--yes"})
	if err := cmd.ExecuteContext(ctx); err != nil {
		t.Fatalf("forget: %v", err)
	}

	store, err = profiles.Open(ctx, cfg.Paths.ProfileDB)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer store.Close()

	_, found, err := store.Lookup(ctx, q)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if found {
		t.Error("profile still remembered after forget")
	}
}
