package review

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordbridge/internal/scoring"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Warning   = lipgloss.Color("#EAB308") // Amber
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

var (
	headwordStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	translationStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(Secondary)

	bodyStyle = lipgloss.NewStyle().
			Foreground(Text)

	hintStyle = lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true)

	poolStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(1, 2)
)

// difficultyStyle colors a difficulty label.
func difficultyStyle(d scoring.Difficulty) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch d {
	case scoring.Easy:
		return s.Foreground(Success)
	case scoring.Medium:
		return s.Foreground(Warning)
	default:
		return s.Foreground(Error)
	}
}
