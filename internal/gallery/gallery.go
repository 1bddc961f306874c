// Package gallery holds the image generation data model: the closed settings
// enums, the settings snapshot and the immutable GeneratedImage record.
package gallery

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type Style string

const (
	StyleRealistic  Style = "realistic"
	StyleArtistic   Style = "artistic"
	StyleCartoon    Style = "cartoon"
	StyleAbstract   Style = "abstract"
	StyleVintage    Style = "vintage"
	StyleMinimalist Style = "minimalist"
)

// AllStyles lists the styles in picker order.
var AllStyles = []Style{
	StyleRealistic,
	StyleArtistic,
	StyleCartoon,
	StyleAbstract,
	StyleVintage,
	StyleMinimalist,
}

type Dimensions string

const (
	DimensionsSquare    Dimensions = "1024x1024"
	DimensionsLandscape Dimensions = "1024x768"
	DimensionsPortrait  Dimensions = "768x1024"
	DimensionsWide      Dimensions = "1920x1080"
)

var AllDimensions = []Dimensions{
	DimensionsSquare,
	DimensionsLandscape,
	DimensionsPortrait,
	DimensionsWide,
}

type Quality string

const (
	QualityStandard Quality = "standard"
	QualityHigh     Quality = "high"
	QualityUltra    Quality = "ultra"
)

var AllQualities = []Quality{
	QualityStandard,
	QualityHigh,
	QualityUltra,
}

func (s Style) Valid() bool      { return slices.Contains(AllStyles, s) }
func (d Dimensions) Valid() bool { return slices.Contains(AllDimensions, d) }
func (q Quality) Valid() bool    { return slices.Contains(AllQualities, q) }

func (s Style) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

func (d Dimensions) Label() string {
	switch d {
	case DimensionsSquare:
		return "Square (1024×1024)"
	case DimensionsLandscape:
		return "Landscape (1024×768)"
	case DimensionsPortrait:
		return "Portrait (768×1024)"
	case DimensionsWide:
		return "Wide (1920×1080)"
	}
	return string(d)
}

func (q Quality) Label() string {
	switch q {
	case QualityStandard:
		return "Standard"
	case QualityHigh:
		return "High Quality"
	case QualityUltra:
		return "Ultra HD"
	}
	return string(q)
}

// ParseStyle accepts a style value case-insensitively.
func ParseStyle(v string) (Style, error) {
	s := Style(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("invalid style %q (must be one of: %s)", v, join(AllStyles))
	}
	return s, nil
}

func ParseDimensions(v string) (Dimensions, error) {
	d := Dimensions(strings.ToLower(strings.TrimSpace(v)))
	if !d.Valid() {
		return "", fmt.Errorf("invalid dimensions %q (must be one of: %s)", v, join(AllDimensions))
	}
	return d, nil
}

func ParseQuality(v string) (Quality, error) {
	q := Quality(strings.ToLower(strings.TrimSpace(v)))
	if !q.Valid() {
		return "", fmt.Errorf("invalid quality %q (must be one of: %s)", v, join(AllQualities))
	}
	return q, nil
}

// Settings is the generation configuration. It is always passed by value so a
// snapshot taken at generation time cannot be changed afterwards.
type Settings struct {
	Style      Style      `json:"style"`
	Dimensions Dimensions `json:"dimensions"`
	Quality    Quality    `json:"quality"`
}

func DefaultSettings() Settings {
	return Settings{
		Style:      StyleRealistic,
		Dimensions: DimensionsSquare,
		Quality:    QualityHigh,
	}
}

func (s Settings) Validate() error {
	if !s.Style.Valid() {
		return fmt.Errorf("invalid style %q", s.Style)
	}
	if !s.Dimensions.Valid() {
		return fmt.Errorf("invalid dimensions %q", s.Dimensions)
	}
	if !s.Quality.Valid() {
		return fmt.Errorf("invalid quality %q", s.Quality)
	}
	return nil
}

// SettingsPatch is a partial settings update; nil fields are left alone.
type SettingsPatch struct {
	Style      *Style
	Dimensions *Dimensions
	Quality    *Quality
}

// Apply returns a copy of s with the valid, non-nil fields of p merged in.
func (s Settings) Apply(p SettingsPatch) Settings {
	if p.Style != nil && p.Style.Valid() {
		s.Style = *p.Style
	}
	if p.Dimensions != nil && p.Dimensions.Valid() {
		s.Dimensions = *p.Dimensions
	}
	if p.Quality != nil && p.Quality.Valid() {
		s.Quality = *p.Quality
	}
	return s
}

func (s Settings) String() string {
	return fmt.Sprintf("%s · %s · %s", s.Style, s.Dimensions, s.Quality)
}

// GeneratedImage is one produced artifact. None of its fields change after creation.
type GeneratedImage struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Prompt    string    `json:"prompt"`
	Timestamp time.Time `json:"timestamp"`
	Settings  Settings  `json:"settings"`
}

func join[T ~string](all []T) string {
	parts := make([]string, len(all))
	for i, a := range all {
		parts[i] = string(a)
	}
	return strings.Join(parts, ", ")
}

func PatchStyle(s Style) SettingsPatch           { return SettingsPatch{Style: &s} }
func PatchDimensions(d Dimensions) SettingsPatch { return SettingsPatch{Dimensions: &d} }
func PatchQuality(q Quality) SettingsPatch       { return SettingsPatch{Quality: &q} }

// Next returns the value after cur in all, wrapping around. delta may be negative.
func Next[T comparable](all []T, cur T, delta int) T {
	i := slices.Index(all, cur)
	if i < 0 {
		return all[0]
	}
	n := len(all)
	return all[((i+delta)%n+n)%n]
}
