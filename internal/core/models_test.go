package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceWeight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source Source
		want   float64
	}{
		{SourceTemplate, 1.0},
		{SourceSteamUserdata, 0.9},
		{SourceDeepScan, 0.75},
		{Source("bogus"), 0.75},
	}

	for _, tt := range tests {
		t.Run(string(tt.source), func(t *testing.T) {
			if got := tt.source.Weight(); got != tt.want {
				t.Errorf("Weight() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSourcePriorityOrdering(t *testing.T) {
	t.Parallel()

	if !(SourceTemplate.Priority() < SourceSteamUserdata.Priority() &&
		SourceSteamUserdata.Priority() < SourceDeepScan.Priority()) {
		t.Fatal("expected template < steam_userdata < deep_scan priority")
	}
}

func TestCandidateDepth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want int
	}{
		{"/", 1},
		{"/home/user", 2},
		{"/home/user/.local/share/mgba/saves", 6},
		{"/home/user/", 2},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			c := Candidate{Path: tt.path}
			assert.Equal(t, tt.want, c.Depth())
		})
	}
}

func TestSteamUserdataDir(t *testing.T) {
	t.Parallel()

	ctx := PathContext{SteamRoot: "/home/user/.steam/steam"}
	assert.Equal(t, "/home/user/.steam/steam/userdata", ctx.SteamUserdataDir())

	empty := PathContext{}
	assert.Equal(t, "", empty.SteamUserdataDir())
}

func TestConfigurationError(t *testing.T) {
	t.Parallel()

	base := errors.New("boom")
	err := NewConfigurationError("knowledge base unusable", base)

	assert.True(t, IsConfiguration(err))
	assert.True(t, errors.Is(err, base))
	assert.Contains(t, err.Error(), "knowledge base unusable")

	wrapped := fmt.Errorf("resolve: %w", err)
	assert.True(t, IsConfiguration(wrapped))
	assert.False(t, IsConfiguration(errors.New("plain")))
}
