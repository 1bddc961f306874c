package tui

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/pkg/browser"

	"github.com/blacktop/imagecraft/internal/codec"
	"github.com/blacktop/imagecraft/internal/gallery"
)

// Clipboard is the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// Sharer hands an external image URL to the platform's native handler.
type Sharer interface {
	Available() bool
	Share(title, text, url string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not supported on this system")
	}
	return clipboard.WriteAll(text)
}

type browserSharer struct{}

// Available reports whether a graphical session can take the URL.
func (browserSharer) Available() bool {
	switch runtime.GOOS {
	case "darwin", "windows":
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func (browserSharer) Share(_, _, url string) error { return browser.OpenURL(url) }

func init() {
	// browser echoes the launcher's output, which would tear the TUI.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

type fetchedMsg struct {
	id   string
	data []byte
	err  error
}

type savedMsg struct {
	path string
	size int
	err  error
}

type sharedMsg struct {
	message string
	failed  bool
}

// ImageBytes resolves an image URL to its bytes, fetching external URLs with hc.
func ImageBytes(ctx context.Context, hc *http.Client, url string) ([]byte, error) {
	if codec.IsDataURL(url) {
		data, _, err := codec.Decode(url)
		return data, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error fetching image: %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading image data: %w", err)
	}
	return data, nil
}

func fetchImage(hc *http.Client, img gallery.GeneratedImage) tea.Cmd {
	return func() tea.Msg {
		data, err := ImageBytes(context.Background(), hc, img.URL)
		return fetchedMsg{id: img.ID, data: data, err: err}
	}
}

// Filename is the download name for img given its decoded bytes.
func Filename(img gallery.GeneratedImage, data []byte) string {
	return fmt.Sprintf("generated-image-%s%s", img.ID, codec.Extension(data))
}

// SaveImage writes data into folder (the working directory when empty).
func SaveImage(folder string, img gallery.GeneratedImage, data []byte) (string, error) {
	filename := Filename(img, data)
	if folder != "" {
		if err := os.MkdirAll(folder, 0755); err != nil {
			return "", fmt.Errorf("error creating output folder: %w", err)
		}
		filename = filepath.Join(folder, filename)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("error saving image: %w", err)
	}
	return filename, nil
}

func downloadImage(hc *http.Client, folder string, img gallery.GeneratedImage, cached []byte) tea.Cmd {
	return func() tea.Msg {
		data := cached
		if data == nil {
			var err error
			if data, err = ImageBytes(context.Background(), hc, img.URL); err != nil {
				return savedMsg{err: err}
			}
		}
		path, err := SaveImage(folder, img, data)
		return savedMsg{path: path, size: len(data), err: err}
	}
}

// shareImage prefers the native handler for external URLs and otherwise
// copies the prompt to the clipboard.
func shareImage(sh Sharer, cb Clipboard, img gallery.GeneratedImage) tea.Cmd {
	return func() tea.Msg {
		if sh != nil && sh.Available() && !codec.IsDataURL(img.URL) {
			if err := sh.Share("Generated Image", img.Prompt, img.URL); err == nil {
				return sharedMsg{message: "Opened image link"}
			}
		}
		if err := cb.WriteAll(img.Prompt); err != nil {
			return sharedMsg{message: "Unable to share. Try downloading the image instead.", failed: true}
		}
		return sharedMsg{message: "Prompt copied to clipboard!"}
	}
}

func copyPrompt(cb Clipboard, prompt string) tea.Cmd {
	return func() tea.Msg {
		if err := cb.WriteAll(prompt); err != nil {
			return sharedMsg{message: fmt.Sprintf("Unable to copy prompt: %v", err), failed: true}
		}
		return sharedMsg{message: "Prompt copied to clipboard!"}
	}
}

func savedMessage(msg savedMsg) string {
	return fmt.Sprintf("Image saved: %s (%s)", msg.path, humanize.Bytes(uint64(msg.size)))
}
