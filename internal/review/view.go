package review

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordbridge/internal/concept"
	"github.com/abhisek/wordbridge/internal/sequence"
)

// emptyMessage is shown when the sequence has no items.
const emptyMessage = "nothing left to review"

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if IsTooSmall(m.width, m.height) {
		v.SetContent(renderMinSizeMessage(m.width, m.height))
		return v
	}

	header := renderHeader(m.title(), m.progressLabel(), m.width)
	footer := renderFooter(m.keyHints(), m.width)
	v.SetContent(renderFrame(header, m.content(m.width-4), footer, m.width, m.height))
	return v
}

func (m Model) title() string {
	if m.phase == phaseSummary {
		return "Summary"
	}
	return "Review"
}

// progressLabel is "i/n" with i the 1-based position of the current item.
func (m Model) progressLabel() string {
	n := len(m.items)
	if n == 0 {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d", min(m.cursor+1, n), n)
}

func (m Model) keyHints() []KeyHint {
	switch {
	case m.phase == phaseSummary:
		return []KeyHint{{Key: "any key", Description: "exit"}}
	case len(m.items) == 0:
		return hints(m.keys.Quit, m.keys.Abort)
	case !m.revealed && !m.alwaysShow:
		return hints(m.keys.Reveal, m.keys.Good, m.keys.Normal, m.keys.Bad, m.keys.Quit)
	default:
		return hints(m.keys.Good, m.keys.Normal, m.keys.Bad, m.keys.Quit)
	}
}

func (m Model) content(width int) string {
	var b strings.Builder
	switch {
	case m.phase == phaseSummary:
		b.WriteString(m.renderSummary())
	case len(m.items) == 0:
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(TextDim).Render(emptyMessage))
	default:
		b.WriteString(m.renderItem(width))
	}
	if m.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(poolStyle.Render(m.errMsg))
	}
	return b.String()
}

func (m Model) renderItem(width int) string {
	item, ok := m.Current()
	if !ok {
		return hintStyle.Render("Saving...")
	}

	var b strings.Builder
	b.WriteString(progressBar(m.cursor, len(m.items), width))
	b.WriteString("\n\n")

	d := concept.Difficulty(item.Concept)
	meta := difficultyStyle(d).Render(string(d))
	if item.FromErrorPool {
		meta += "  " + poolStyle.Render("● review again")
	}
	b.WriteString(meta)
	b.WriteString("\n\n")

	b.WriteString(cardStyle.Width(width).Render(m.renderCard(item)))
	return b.String()
}

// renderCard renders the card body for either concept kind.
func (m Model) renderCard(item sequence.Item) string {
	show := m.revealed || m.alwaysShow
	var lines []string

	switch c := item.Concept.(type) {
	case *concept.Clear:
		head := headwordStyle.Render(c.English)
		if c.PartOfSpeech != "" {
			head += "  " + hintStyle.Render(string(c.PartOfSpeech))
		}
		lines = append(lines, head)
		if c.Definition != "" {
			lines = append(lines, "", bodyStyle.Render(c.Definition))
		}
		if c.Example != "" {
			lines = append(lines, hintStyle.Render("“"+c.Example+"”"))
		}
		lines = append(lines, "", m.renderTranslation(item.Concept, show))

	case *concept.Fuzzy:
		lines = append(lines, headwordStyle.Render(strings.Join(c.EnglishWords, " / ")))
		if c.Analysis != "" {
			lines = append(lines, "", bodyStyle.Render(c.Analysis))
		}
		lines = append(lines, "", m.renderTranslation(item.Concept, show))
		if show {
			for _, p := range c.Pairs {
				lines = append(lines, fmt.Sprintf("  %s → %s  %s",
					p.English, translationStyle.Render(p.Translation), hintStyle.Render(p.Definition)))
			}
		}

	default:
		lines = append(lines, poolStyle.Render(concept.ErrUnknownKind.Error()))
	}

	if len(item.Similar) > 0 {
		lines = append(lines, "", hintStyle.Render(fmt.Sprintf("%d similar concepts in this session", len(item.Similar))))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTranslation(c concept.Concept, show bool) string {
	if !show {
		return hintStyle.Render("press space to reveal the translation")
	}
	t, err := concept.Translation(c)
	if err != nil {
		return poolStyle.Render(err.Error())
	}
	return translationStyle.Render(t)
}

func (m Model) renderSummary() string {
	s := m.summary
	if s == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(headwordStyle.Render("Session complete"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Reviewed   %d of %d\n", s.Completed, s.Target)
	fmt.Fprintf(&b, "Good       %d\n", s.Good)
	fmt.Fprintf(&b, "Normal     %d\n", s.Normal)
	fmt.Fprintf(&b, "Bad        %d\n", s.Bad)
	fmt.Fprintf(&b, "Accuracy   %.0f%%\n", s.Accuracy*100)
	fmt.Fprintf(&b, "Time       %s\n", s.Duration.Round(time.Second))
	return b.String()
}
