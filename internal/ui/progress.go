package ui

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
)

// ScanSpinner shows deep-scan activity: an indeterminate spinner whose
// description tracks the number of directories visited so far.
type ScanSpinner struct {
	bar *progressbar.ProgressBar
}

// NewScanSpinner creates a spinner for an unknown-length scan.
func NewScanSpinner(description string) *ScanSpinner {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(10),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ScanSpinner{bar: bar}
}

// Tick advances the spinner and updates the visited-directory count.
func (s *ScanSpinner) Tick(visited int64) {
	s.bar.Describe(fmt.Sprintf("scanning (%d dirs)", visited))
	s.bar.Add(1)
}

// Finish stops and clears the spinner.
func (s *ScanSpinner) Finish() error {
	if err := s.bar.Clear(); err != nil {
		return err
	}
	return s.bar.Finish()
}
