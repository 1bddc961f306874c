// Package codec turns base64 image payloads into renderable data URLs and back.
package codec

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

const (
	imagePrefix = "data:image/"
	// PNGPrefix is assumed for raw payloads that carry no data URL header.
	PNGPrefix = "data:image/png;base64,"
)

var ErrNotDataURL = errors.New("not a base64 image data URL")

// Normalize returns payload unchanged if it already is an image data URL,
// otherwise it treats payload as raw base64 PNG and prefixes it.
// The payload itself is not validated.
func Normalize(payload string) string {
	if strings.HasPrefix(payload, imagePrefix) {
		return payload
	}
	return PNGPrefix + payload
}

func IsDataURL(url string) bool {
	return strings.HasPrefix(url, imagePrefix)
}

// Decode extracts the bytes and declared MIME type of an image data URL.
func Decode(url string) ([]byte, string, error) {
	if !IsDataURL(url) {
		return nil, "", ErrNotDataURL
	}
	header, payload, ok := strings.Cut(url[len("data:"):], ",")
	if !ok {
		return nil, "", fmt.Errorf("%w: missing payload", ErrNotDataURL)
	}
	mime, enc, _ := strings.Cut(header, ";")
	if enc != "base64" {
		return nil, "", fmt.Errorf("%w: unsupported encoding %q", ErrNotDataURL, enc)
	}
	payload = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, payload)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "=")); err != nil {
			return nil, "", fmt.Errorf("error decoding base64 payload: %w", err)
		}
	}
	return data, mime, nil
}

// Extension sniffs the real image format of data, falling back to ".png".
func Extension(data []byte) string {
	m := mimetype.Detect(data)
	if !strings.HasPrefix(m.String(), "image/") || m.Extension() == "" {
		return ".png"
	}
	return m.Extension()
}

// DecodeImage decodes png, jpeg, gif or webp bytes.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}
	return img, nil
}
