// Package style provides consistent terminal styling using Lipgloss.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	// Success style for positive outcomes
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10")). // Green
		Bold(true)

	// Warning style for cautionary messages
	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("11")). // Yellow
		Bold(true)

	// Error style for failures
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")). // Red
		Bold(true)

	// Info style for informational messages
	Info = lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")) // Blue

	// Dim style for secondary information
	Dim = lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")) // Gray

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().
		Bold(true)
)

// Prefixes used in front of report lines.
const (
	SuccessPrefix = "✓"
	WarningPrefix = "⚠"
	ArrowPrefix   = "→"
)

// Palette renders text with the styles above, or leaves it untouched when
// color is off.
type Palette struct {
	NoColor bool
}

// Auto returns a palette that colors only when fd is a terminal.
func Auto(fd uintptr, noColor bool) Palette {
	if !noColor && !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		noColor = true
	}
	return Palette{NoColor: noColor}
}

// Render applies s to text.
func (p Palette) Render(s lipgloss.Style, text string) string {
	if p.NoColor {
		return text
	}
	return s.Render(text)
}

// Prefix renders one of the line prefixes in its matching style.
func (p Palette) Prefix(prefix string) string {
	switch prefix {
	case SuccessPrefix:
		return p.Render(Success, prefix)
	case WarningPrefix:
		return p.Render(Warning, prefix)
	default:
		return p.Render(Info, prefix)
	}
}
