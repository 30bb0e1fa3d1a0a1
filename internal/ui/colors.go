package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/Matteo842/SaveState/internal/core"
)

// Color scheme for savestate
var (
	Success = color.New(color.FgGreen)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow)
	Info    = color.New(color.FgCyan)

	Highlight = color.New(color.FgHiCyan, color.Bold)
	Muted     = color.New(color.Faint)
	Bold      = color.New(color.Bold)

	// Status indicators
	CheckMark = color.GreenString("✓")
	CrossMark = color.RedString("✗")
	Arrow     = color.CyanString("→")
	Bullet    = color.HiBlackString("•")

	// Candidate source colors
	SourceTemplateColor = color.New(color.FgBlue)
	SourceSteamColor    = color.New(color.FgMagenta)
	SourceScanColor     = color.New(color.FgYellow)
)

// InitColors initializes color settings based on environment
func InitColors() {
	// Respect NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	// Respect TERM environment variable
	if os.Getenv("TERM") == "dumb" {
		color.NoColor = true
	}
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	Success.Fprintf(os.Stdout, "%s %s\n", CheckMark, fmt.Sprintf(format, args...))
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	Error.Fprintf(os.Stderr, "%s Error: %s\n", CrossMark, fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	Warning.Fprintf(os.Stderr, "Warning: %s\n", fmt.Sprintf(format, args...))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	Info.Fprintf(os.Stdout, "%s %s\n", Arrow, fmt.Sprintf(format, args...))
}

// PrintKeyValue prints a key-value pair with color
func PrintKeyValue(key, value string) {
	Bold.Fprintf(os.Stdout, "%s: ", key)
	fmt.Fprintln(os.Stdout, value)
}

// PrintSubheader prints a subsection header
func PrintSubheader(text string) {
	fmt.Fprintln(os.Stdout)
	Highlight.Fprintln(os.Stdout, text)
}

// PrintHeader prints a section header
func PrintHeader(text string) {
	fmt.Fprintln(os.Stdout)
	Bold.Fprintln(os.Stdout, text)
	Muted.Fprintln(os.Stdout, "────────────────────────────────────────")
}

// PrintList prints a bulleted list
func PrintList(items []string) {
	for _, item := range items {
		fmt.Fprintf(os.Stdout, "  %s %s\n", Bullet, item)
	}
}

// ColorizeSource returns a colored candidate source string
func ColorizeSource(src core.Source) string {
	switch src {
	case core.SourceTemplate:
		return SourceTemplateColor.Sprint(string(src))
	case core.SourceSteamUserdata:
		return SourceSteamColor.Sprint(string(src))
	case core.SourceDeepScan:
		return SourceScanColor.Sprint(string(src))
	default:
		return string(src)
	}
}

// ColorizeScore renders a confidence score, green when it clears the
// given threshold, yellow in the middle band, faint below 0.4.
func ColorizeScore(score, threshold float64) string {
	text := fmt.Sprintf("%.2f", score)
	switch {
	case score >= threshold:
		return color.GreenString(text)
	case score >= 0.4:
		return color.YellowString(text)
	default:
		return Muted.Sprint(text)
	}
}

// DisableColors disables all color output
func DisableColors() {
	color.NoColor = true
}
