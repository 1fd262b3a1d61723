package review

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

const (
	MinWidth  = 60
	MinHeight = 16
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// renderMinSizeMessage renders the "terminal too small" message.
func renderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// renderHeader renders the title bar with the session progress on the right.
func renderHeader(title, progress string, width int) string {
	left := lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		Render("  WordBridge")

	center := lipgloss.NewStyle().
		Foreground(Text).
		Render(title)

	right := lipgloss.NewStyle().
		Foreground(Accent).
		Render(progress)

	leftLen := lipgloss.Width(left)
	centerLen := lipgloss.Width(center)
	rightLen := lipgloss.Width(right)

	innerWidth := max(width-4, 0)

	leftGap := max((innerWidth-centerLen)/2-leftLen, 1)
	rightGap := max(innerWidth-leftLen-leftGap-centerLen-rightLen, 1)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right

	return lipgloss.NewStyle().
		Width(width).
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Render(content)
}

// renderFooter renders the footer with key hints.
func renderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		part := lipgloss.NewStyle().Foreground(Text).Bold(true).Render(h.Key) +
			" " +
			lipgloss.NewStyle().Foreground(TextDim).Render(h.Description)
		parts = append(parts, part)
	}

	return lipgloss.NewStyle().
		Width(width).
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Render("  " + strings.Join(parts, "   "))
}

// renderFrame composes header, content and footer to fill height.
func renderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	styled := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)

	return header + "\n" + styled + "\n" + footer
}

// progressBar renders a horizontal bar for done/total.
func progressBar(done, total, width int) string {
	barWidth := max(width, 4)
	filled := 0
	if total > 0 {
		filled = min(barWidth*done/total, barWidth)
	}
	return lipgloss.NewStyle().Background(Secondary).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(Border).Render(strings.Repeat(" ", barWidth-filled))
}
