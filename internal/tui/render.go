package tui

import (
	"fmt"
	"strings"

	"github.com/blacktop/go-termimg"

	"github.com/blacktop/imagecraft/internal/codec"
)

var validProtocols = []string{"auto", "kitty", "iterm2", "sixel", "halfblocks", "none"}

func ValidProtocols() []string { return append([]string(nil), validProtocols...) }

func protocolFor(name string) (termimg.Protocol, bool) {
	switch strings.ToLower(name) {
	case "", "auto":
		return termimg.Auto, true
	case "kitty":
		return termimg.Kitty, true
	case "iterm2", "iterm":
		return termimg.ITerm2, true
	case "sixel":
		return termimg.Sixel, true
	case "halfblocks":
		return termimg.Halfblocks, true
	}
	return termimg.Auto, false
}

// renderImage draws data inline in a width x height cell box.
func renderImage(data []byte, protocol string, width, height int) (string, error) {
	if protocol == "none" {
		return dimStyle.Render("▣ inline preview disabled"), nil
	}
	img, err := codec.DecodeImage(data)
	if err != nil {
		return "", err
	}
	p, _ := protocolFor(protocol)
	out, err := termimg.New(img).Width(width).Height(height).Protocol(p).Render()
	if err != nil {
		return "", fmt.Errorf("error rendering image: %w", err)
	}
	return out, nil
}

// renderThumbnail always uses halfblocks so rows stay plain styled text.
func renderThumbnail(data []byte, protocol string) string {
	if protocol == "none" {
		return "▣"
	}
	out, err := renderImage(data, "halfblocks", 4, 2)
	if err != nil {
		return "▢"
	}
	return out
}
