package generate

import "github.com/blacktop/imagecraft/internal/gallery"

type Request struct {
	Prompt   string            `json:"prompt"`             // Prompt for generated image
	Settings *gallery.Settings `json:"settings,omitempty"` // Only sent when the endpoint accepts settings
}

// Response covers both endpoint contracts: a bare {"image": ...} body and the
// {"success", "image", "error"} envelope. Success is nil for bare bodies.
type Response struct {
	Success *bool  `json:"success,omitempty"`
	Image   string `json:"image,omitempty"` // base64 payload, data URL or external URL
	Error   string `json:"error,omitempty"`
}
