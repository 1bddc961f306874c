package tui

import (
	"strings"

	"github.com/blacktop/imagecraft/internal/gallery"
)

const (
	rowStyle = iota
	rowDimensions
	rowQuality
	settingsRows
)

// settingsPanel only holds local UI state; the values live in the store.
type settingsPanel struct {
	expanded bool
	row      int
}

func (p *settingsPanel) move(delta int) {
	p.row = ((p.row+delta)%settingsRows + settingsRows) % settingsRows
}

// patch returns the settings change for cycling the focused row by delta.
func (p settingsPanel) patch(cur gallery.Settings, delta int) gallery.SettingsPatch {
	switch p.row {
	case rowStyle:
		return gallery.PatchStyle(gallery.Next(gallery.AllStyles, cur.Style, delta))
	case rowDimensions:
		return gallery.PatchDimensions(gallery.Next(gallery.AllDimensions, cur.Dimensions, delta))
	default:
		return gallery.PatchQuality(gallery.Next(gallery.AllQualities, cur.Quality, delta))
	}
}

func choices[T comparable](all []T, cur T, label func(T) string) string {
	parts := make([]string, len(all))
	for i, v := range all {
		if v == cur {
			parts[i] = selectedStyle.Render("[" + label(v) + "]")
		} else {
			parts[i] = dimStyle.Render(label(v))
		}
	}
	return strings.Join(parts, " ")
}

func (p settingsPanel) view(width int, focused bool, s gallery.Settings) string {
	var b strings.Builder
	arrow := "▸"
	if p.expanded {
		arrow = "▾"
	}
	b.WriteString(titleStyle.Render(arrow + " Image Settings"))
	if !p.expanded {
		b.WriteString("  " + dimStyle.Render(s.String()))
		return panel(focused).Width(width - 2).Render(b.String())
	}
	b.WriteString("\n")

	rows := []struct {
		name string
		body string
	}{
		{"Style", choices(gallery.AllStyles, s.Style, gallery.Style.Label)},
		{"Dimensions", choices(gallery.AllDimensions, s.Dimensions, gallery.Dimensions.Label)},
		{"Quality", choices(gallery.AllQualities, s.Quality, gallery.Quality.Label)},
	}
	for i, r := range rows {
		cursor := "  "
		if focused && i == p.row {
			cursor = "> "
		}
		b.WriteString("\n" + cursor + r.name + "\n")
		b.WriteString("  " + r.body + "\n")
	}
	return panel(focused).Width(width - 2).Render(strings.TrimRight(b.String(), "\n"))
}
