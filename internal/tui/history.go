package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/blacktop/imagecraft/internal/gallery"
)

const historyRowHeight = 3

type historyPanel struct {
	cursor int
}

func (p *historyPanel) move(delta, n int) {
	p.cursor += delta
	p.clamp(n)
}

func (p *historyPanel) clamp(n int) {
	if p.cursor >= n {
		p.cursor = n - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p historyPanel) selected(items []gallery.GeneratedImage) (gallery.GeneratedImage, bool) {
	if p.cursor < 0 || p.cursor >= len(items) {
		return gallery.GeneratedImage{}, false
	}
	return items[p.cursor], true
}

func historyRow(img gallery.GeneratedImage, width int, thumb string, current, highlighted bool) string {
	if thumb == "" {
		thumb = "▢"
	}
	marker := "  "
	if current {
		marker = "● "
	}
	prompt := runewidth.Truncate(img.Prompt, max(width-12, 8), "…")
	if highlighted {
		prompt = selectedStyle.Render(prompt)
	}
	meta := dimStyle.Render(fmt.Sprintf("%s • %s (%s)",
		img.Settings.Style,
		img.Timestamp.Format("Jan 2, 2006"),
		humanize.Time(img.Timestamp),
	))
	text := lipgloss.JoinVertical(lipgloss.Left, marker+prompt, "  "+meta)
	return lipgloss.JoinHorizontal(lipgloss.Top, thumb, " ", text)
}

func (p historyPanel) view(width, height int, focused bool, items []gallery.GeneratedImage, current *gallery.GeneratedImage, thumbs map[string]string) string {
	style := panel(focused).Width(width - 2)
	if len(items) == 0 {
		body := titleStyle.Render("No images yet") + "\n" + dimStyle.Render("Your generated images will appear here")
		return style.Render(body)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Recent Images") + " " + badgeStyle.Render(fmt.Sprint(len(items))))
	b.WriteString("\n")

	visible := max((height-3)/historyRowHeight, 1)
	offset := 0
	if p.cursor >= visible {
		offset = p.cursor - visible + 1
	}
	end := min(offset+visible, len(items))
	for i := offset; i < end; i++ {
		img := items[i]
		isCurrent := current != nil && current.ID == img.ID
		b.WriteString("\n")
		b.WriteString(historyRow(img, width-4, thumbs[img.ID], isCurrent, focused && i == p.cursor))
		b.WriteString("\n")
	}
	if end < len(items) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("… %d more", len(items)-end)))
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}
