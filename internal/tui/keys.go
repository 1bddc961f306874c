package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	Next       key.Binding
	Prev       key.Binding
	Dismiss    key.Binding
	Submit     key.Binding
	Suggest    key.Binding
	Clear      key.Binding
	Copy       key.Binding
	Toggle     key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Select     key.Binding
	Delete     key.Binding
	Download   key.Binding
	Share      key.Binding
	Regenerate key.Binding
}

var keys = keyMap{
	Quit:       key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	Next:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
	Prev:       key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev panel")),
	Dismiss:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
	Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "generate")),
	Suggest:    key.NewBinding(key.WithKeys("alt+1", "alt+2", "alt+3", "alt+4"), key.WithHelp("alt+1-4", "suggestion")),
	Clear:      key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
	Copy:       key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy prompt")),
	Toggle:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev value")),
	Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next value")),
	Select:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "show")),
	Delete:     key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
	Download:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download")),
	Share:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "share")),
	Regenerate: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "regenerate")),
}

// helpFor lists the bindings that are live in the focused panel.
func (m Model) helpFor() []key.Binding {
	common := []key.Binding{keys.Next, keys.Quit}
	if m.notice() != nil {
		common = append([]key.Binding{keys.Dismiss}, common...)
	}
	switch m.focus {
	case focusInput:
		return append([]key.Binding{keys.Submit, keys.Suggest, keys.Clear, keys.Copy}, common...)
	case focusSettings:
		if m.settings.expanded {
			return append([]key.Binding{keys.Toggle, keys.Up, keys.Down, keys.Left, keys.Right}, common...)
		}
		return append([]key.Binding{keys.Toggle}, common...)
	case focusHistory:
		return append([]key.Binding{keys.Up, keys.Down, keys.Select, keys.Delete}, common...)
	case focusDisplay:
		return append([]key.Binding{keys.Download, keys.Share, keys.Regenerate}, common...)
	}
	return common
}
