package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxPromptLength = 500

var suggestions = []string{
	"A majestic mountain landscape at sunset",
	"A cute robot reading a book in a cozy library",
	"Abstract geometric art with vibrant colors",
	"A futuristic city skyline with flying cars",
}

type inputPanel struct {
	textarea textarea.Model
}

func newInputPanel(prompt string) inputPanel {
	ta := textarea.New()
	ta.Placeholder = "A beautiful sunset over a mountain range with purple and orange colors..."
	ta.CharLimit = maxPromptLength
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.SetValue(prompt)
	ta.Focus()
	return inputPanel{textarea: ta}
}

func (p inputPanel) value() string { return p.textarea.Value() }

// prompt is the text that would be submitted.
func (p inputPanel) prompt() string { return strings.TrimSpace(p.textarea.Value()) }

func (p *inputPanel) set(v string) {
	p.textarea.Reset()
	p.textarea.SetValue(v)
}

// suggestion maps alt+1..alt+4 to a canned prompt.
func suggestion(msg tea.KeyMsg) (string, bool) {
	s := msg.String()
	if !strings.HasPrefix(s, "alt+") || len(s) != len("alt+1") {
		return "", false
	}
	i := int(s[len(s)-1] - '1')
	if i < 0 || i >= len(suggestions) {
		return "", false
	}
	return suggestions[i], true
}

func (p inputPanel) update(msg tea.Msg) (inputPanel, tea.Cmd) {
	var cmd tea.Cmd
	p.textarea, cmd = p.textarea.Update(msg)
	return p, cmd
}

func (p inputPanel) view(width int, focused, canSubmit, generating bool) string {
	p.textarea.SetWidth(max(width-4, 10))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Describe your image"))
	b.WriteString("\n")
	b.WriteString(p.textarea.View())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d/%d", len([]rune(p.value())), maxPromptLength)))
	b.WriteString("\n\n")

	b.WriteString(dimStyle.Render("Quick suggestions:"))
	b.WriteString("\n")
	for i, s := range suggestions {
		b.WriteString(dimStyle.Render(fmt.Sprintf("alt+%d ", i+1)))
		b.WriteString(lipgloss.NewStyle().MaxWidth(max(width-10, 10)).Render(s))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	label := "[ Generate Image ]"
	if generating {
		label = "[ Generating... ]"
	}
	switch {
	case !canSubmit:
		b.WriteString(disabledButtonStyle.Render(label))
	case focused:
		b.WriteString(activeButtonStyle.Render(label))
	default:
		b.WriteString(buttonStyle.Render(label))
	}

	return panel(focused).Width(width - 2).Render(b.String())
}
