package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/blacktop/imagecraft/internal/gallery"
)

const (
	buttonDownload = iota
	buttonShare
	buttonRegenerate
	buttonCount
)

var buttonLabels = [buttonCount]string{"[ Download ]", "[ Share ]", "[ Regenerate ]"}

func (m Model) displayView(width, height int) string {
	style := panel(m.focus == focusDisplay).Width(width - 2).Height(height - 2)
	inner := width - 4

	if m.state.Generating {
		content := lipgloss.JoinVertical(lipgloss.Center,
			m.spinner.View()+" Creating your masterpiece...",
			dimStyle.Render("This usually takes 15-30 seconds"),
		)
		return style.Render(lipgloss.Place(inner, height-2, lipgloss.Center, lipgloss.Center, content))
	}

	img := m.state.Current
	if img == nil {
		content := lipgloss.JoinVertical(lipgloss.Center,
			titleStyle.Render("Ready to create"),
			dimStyle.Render("Enter a prompt to generate your first image"),
		)
		return style.Render(lipgloss.Place(inner, height-2, lipgloss.Center, lipgloss.Center, content))
	}

	var picture string
	switch {
	case m.renderErr != nil:
		picture = dimStyle.Render("▢ image could not be displayed")
	case m.rendered == "":
		picture = dimStyle.Render("Loading image...")
	default:
		picture = m.viewport.View()
	}
	picture = lipgloss.Place(inner, m.viewport.Height, lipgloss.Center, lipgloss.Center, picture)

	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		picture,
		"",
		lipgloss.NewStyle().Width(inner).MaxHeight(2).Render(img.Prompt),
		dimStyle.Render(snapshotLine(img.Settings)),
		"",
		m.buttonsView(),
	))
}

func snapshotLine(s gallery.Settings) string {
	return strings.Join([]string{s.Style.Label(), s.Dimensions.Label(), s.Quality.Label()}, "  ")
}

func (m Model) buttonsView() string {
	parts := make([]string, buttonCount)
	for i, label := range buttonLabels {
		if m.focus == focusDisplay && m.button == i {
			parts[i] = activeButtonStyle.Render(label)
		} else {
			parts[i] = buttonStyle.Render(label)
		}
	}
	return strings.Join(parts, " ")
}
