package profiles

import (
	"context"
	"testing"

	"github.com/Matteo842/SaveState/internal/core"
	"github.com/Matteo842/SaveState/internal/match"
)

func TestStoreOperations(t *testing.T) {
	ctx := context.Background()
	tmpfile := t.TempDir() + "/profiles.db"
	store, err := Open(ctx, tmpfile)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	q := match.BuildQuery("Hollow Knight", match.QueryOptions{Platform: core.PlatformSteam, SteamAppID: "367520"})
	chosen := core.Candidate{
		Path:          "/home/tester/.config/unity3d/Team Cherry/Hollow Knight",
		Source:        core.SourceDeepScan,
		AdjustedScore: 0.71,
		Evidence:      []string{"contains save-looking files"},
	}

	// Remember
	if err := store.Remember(ctx, q, chosen); err != nil {
		t.Fatalf("Failed to remember choice: %v", err)
	}

	// Lookup
	got, ok, err := store.Lookup(ctx, q)
	if err != nil {
		t.Fatalf("Failed to look up profile: %v", err)
	}
	if !ok {
		t.Fatal("Lookup() reported no profile after Remember")
	}
	if got.SavePath != chosen.Path {
		t.Errorf("Lookup() SavePath = %v, want %v", got.SavePath, chosen.Path)
	}
	if got.Source != core.SourceDeepScan {
		t.Errorf("Lookup() Source = %v, want %v", got.Source, core.SourceDeepScan)
	}
	if got.Platform != core.PlatformSteam {
		t.Errorf("Lookup() Platform = %v, want %v", got.Platform, core.PlatformSteam)
	}
	if len(got.Evidence) != 1 || got.Evidence[0] != "contains save-looking files" {
		t.Errorf("Lookup() Evidence = %v, want the stored evidence", got.Evidence)
	}

	// Remember again replaces, not duplicates
	chosen.Path = "/home/tester/.steam/steam/userdata/123456/367520/remote"
	chosen.Source = core.SourceSteamUserdata
	if err := store.Remember(ctx, q, chosen); err != nil {
		t.Fatalf("Failed to replace choice: %v", err)
	}

	profiles, err := store.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list profiles: %v", err)
	}
	if len(profiles) != 1 {
		t.Errorf("List() length = %d, want 1", len(profiles))
	}
	if profiles[0].SavePath != chosen.Path {
		t.Errorf("List() SavePath = %v, want replacement %v", profiles[0].SavePath, chosen.Path)
	}

	// Forget
	if err := store.Forget(ctx, q); err != nil {
		t.Fatalf("Failed to forget profile: %v", err)
	}

	_, ok, err = store.Lookup(ctx, q)
	if err != nil {
		t.Fatalf("Failed to look up after forget: %v", err)
	}
	if ok {
		t.Error("Lookup() found a profile after Forget")
	}

	// Forgetting twice reports the miss
	if err := store.Forget(ctx, q); err == nil {
		t.Error("Forget() on a missing profile should error")
	}
}

func TestKeySeparatesPlatforms(t *testing.T) {
	t.Parallel()

	steam := match.BuildQuery("Hollow Knight", match.QueryOptions{Platform: core.PlatformSteam})
	emu := match.BuildQuery("Hollow Knight", match.QueryOptions{Platform: core.PlatformEmulator})

	if Key(steam) == Key(emu) {
		t.Errorf("Key() collides across platforms: %q", Key(steam))
	}
}
