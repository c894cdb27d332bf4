// Package ui provides the visual styling for angkan's operator reports.
package ui

import "github.com/charmbracelet/lipgloss"

// Semantic colors for report rendering.
var (
	Success = lipgloss.Color("#8BC34A") // green: accurate / accepted
	Warning = lipgloss.Color("#FFC107") // yellow: medium confidence
	Danger  = lipgloss.Color("#e53935") // red: rejected / inaccurate
	Info    = lipgloss.Color("#2196F3") // blue: informational
	Muted   = lipgloss.Color("#808080")
)

// Styles holds the styles used by the report tables.
type Styles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Cell   lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Good   lipgloss.Style
	Bad    lipgloss.Style
}

// DefaultStyles returns the standard report styles.
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(Info),
		Header: lipgloss.NewStyle().Bold(true).Underline(true),
		Cell:   lipgloss.NewStyle(),
		Label:  lipgloss.NewStyle().Foreground(Muted),
		Value:  lipgloss.NewStyle().Bold(true),
		Good:   lipgloss.NewStyle().Foreground(Success),
		Bad:    lipgloss.NewStyle().Foreground(Danger),
	}
}

// AccuracyStyle picks a style for an accuracy percentage.
func (s Styles) AccuracyStyle(accuracy float64) lipgloss.Style {
	switch {
	case accuracy >= 85:
		return s.Good
	case accuracy >= 50:
		return lipgloss.NewStyle().Foreground(Warning)
	default:
		return s.Bad
	}
}
