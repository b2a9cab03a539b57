package outwriter

import (
	"os"

	"github.com/fatih/color"
	"github.com/huangsam/deviceinfo/internal/contract"
	"golang.org/x/term"
)

// currentHighlight marks the row of the running app version.
var currentHighlight = color.New(color.FgGreen, color.Bold)

// shouldColorize reports whether table output goes to an interactive terminal
// with colors enabled.
func shouldColorize(cfg *contract.Config) bool {
	if !cfg.UseColors || cfg.OutputFile != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// getTerminalWidth returns the stdout width, or 80 when it cannot be detected.
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return width
}

// getMaxValueWidth is the widest device value shown in a table before truncation.
func getMaxValueWidth(cfg *contract.Config) int {
	if cfg.OutputFile != "" {
		return 0 // Files keep full values
	}
	available := getTerminalWidth() - 40 // Key column with borders/padding
	if available < 20 {
		return 20
	}
	return available
}

// truncateValue shortens s to at most width runes, keeping its head.
func truncateValue(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
