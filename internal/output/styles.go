package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. These are the single source of truth; never use inline
// lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: profile paths, field paths.
	ColorCyan = lipgloss.Color("14")

	// colorGreen is used for the "valid" and "written" statuses.
	colorGreen = lipgloss.Color("82")

	// ColorYellow is used for the "warnings" status.
	ColorYellow = lipgloss.Color("220")

	// colorBoldRed is used for the "invalid" status (matches ERROR level).
	colorBoldRed = lipgloss.Color("204")

	// colorGreenCheck is used for the completion checkmark.
	colorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (profile paths, field paths).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome (prefixes, separators, sources).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Profile check statuses.
const (
	StatusValid     = "valid"
	StatusWarnings  = "warnings"
	StatusInvalid   = "invalid"
	StatusWritten   = "written"
	StatusUnchanged = "unchanged"
)

func statusStyle(status string) lipgloss.Style {
	switch status {
	case StatusValid, StatusWritten:
		return lipgloss.NewStyle().Foreground(colorGreen)
	case StatusWarnings:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusUnchanged:
		return lipgloss.NewStyle().Faint(true)
	case StatusInvalid:
		return lipgloss.NewStyle().Bold(true).Foreground(colorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minPathColumnWidth keeps status words aligned for typical profile paths.
const minPathColumnWidth = 40

// FormatProfileLine renders a profile path with a right-aligned, color-coded
// status suffix.
//
// Format: p:<path>  <status>
func FormatProfileLine(path, status string) string {
	padding := minPathColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}

	return StyleDim.Render("p:") + StyleNoun.Render(path) +
		strings.Repeat(" ", padding) + statusStyle(status).Render(status)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(colorGreenCheck).Render("✔")
	return check + " " + msg
}
