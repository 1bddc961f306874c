package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent    = lipgloss.Color("205")
	secondary = lipgloss.Color("86")
	subtle    = lipgloss.Color("240")
	danger    = lipgloss.Color("204")
	success   = lipgloss.Color("42")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(0, 1)

	focusedPanelStyle = panelStyle.
				BorderForeground(accent)

	dimStyle = lipgloss.NewStyle().
			Foreground(subtle)

	buttonStyle = lipgloss.NewStyle().
			Foreground(secondary)

	activeButtonStyle = buttonStyle.
				Background(lipgloss.Color("7")).
				Foreground(lipgloss.Color("0"))

	disabledButtonStyle = lipgloss.NewStyle().
				Foreground(subtle).
				Strikethrough(true)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(secondary)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(secondary).
			Padding(0, 1)

	errorNoticeStyle = lipgloss.NewStyle().
				SetString("ERROR!!").
				Padding(0, 1).
				Background(danger).
				Foreground(lipgloss.Color("0"))

	infoNoticeStyle = lipgloss.NewStyle().
			SetString("OK").
			Padding(0, 1).
			Background(success).
			Foreground(lipgloss.Color("0"))

	spinnerStyle = lipgloss.NewStyle().Foreground(accent)
)

func panel(focused bool) lipgloss.Style {
	if focused {
		return focusedPanelStyle
	}
	return panelStyle
}
