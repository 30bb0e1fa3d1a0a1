package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/manifoldco/promptui"

	"github.com/Matteo842/SaveState/internal/core"
)

// ConfirmPrompt asks a yes/no confirmation question
func ConfirmPrompt(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	result, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, fmt.Errorf("operation cancelled by user")
		}
		return false, err
	}

	// promptui returns "y" for yes
	return result == "y", nil
}

// candidateItem is the row shape the pick template renders.
type candidateItem struct {
	Path   string
	Score  string
	Source string
}

// PickCandidate presents ranked candidates and returns the index the
// user chose. Typing filters the list fuzzily by path.
func PickCandidate(label string, candidates []core.Candidate) (int, error) {
	items := make([]candidateItem, len(candidates))
	for i, c := range candidates {
		items[i] = candidateItem{
			Path:   c.Path,
			Score:  fmt.Sprintf("%.2f", c.AdjustedScore),
			Source: string(c.Source),
		}
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ .Path | cyan }} ({{ .Score }} {{ .Source | faint }})",
		Inactive: "  {{ .Path | faint }} ({{ .Score }} {{ .Source | faint }})",
		Selected: "▸ {{ .Path | green }}",
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     items,
		Templates: templates,
		Size:      minInt(10, len(items)),
		Searcher: func(input string, index int) bool {
			if index < 0 || index >= len(items) {
				return false
			}
			if input == "" {
				return true
			}
			return fuzzy.MatchNormalizedFold(strings.TrimSpace(input), items[index].Path)
		},
	}

	index, _, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return -1, fmt.Errorf("selection cancelled by user")
		}
		return -1, err
	}

	return index, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
