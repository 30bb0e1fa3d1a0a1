package cmd

import (
	"io"
	"testing"

	"github.com/Matteo842/SaveState/internal/config"
	"github.com/Matteo842/SaveState/internal/core"
	"github.com/Matteo842/SaveState/internal/logging"
)

func TestNewRootCmd(t *testing.T) {
	cfg := &config.Config{}
	log := logging.NewTest(io.Discard)

	root := NewRootCmd(cfg, log, "test")
	if root.Use != "savestate" {
		t.Errorf("root.Use = %q, want savestate", root.Use)
	}

	want := []string{"resolve", "kb", "profiles", "doctor", "completion", "version"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		input   string
		want    core.Platform
		wantErr bool
	}{
		{"", core.PlatformAny, false},
		{"steam", core.PlatformSteam, false},
		{"Steam", core.PlatformSteam, false},
		{"launcher", core.PlatformLauncher, false},
		{"emulator", core.PlatformEmulator, false},
		{"gamecube", core.PlatformAny, true},
	}

	for _, tt := range tests {
		got, err := parsePlatform(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePlatform(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parsePlatform(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestKBSources(t *testing.T) {
	cfg := &config.Config{}
	cfg.Paths.TemplateFiles = []string{"/etc/savestate/templates.toml"}
	cfg.Paths.AliasFiles = []string{"/etc/savestate/aliases.toml"}

	sources := kbSources(cfg)
	if len(sources) != 2 {
		t.Fatalf("kbSources() length = %d, want 2", len(sources))
	}
	for _, src := range sources {
		if src.Required {
			t.Errorf("overlay %s marked required, overlays are optional", src.Path)
		}
	}
}
