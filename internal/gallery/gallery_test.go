package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	s, err := ParseStyle(" Artistic ")
	require.NoError(t, err)
	assert.Equal(t, StyleArtistic, s)

	d, err := ParseDimensions("1920x1080")
	require.NoError(t, err)
	assert.Equal(t, DimensionsWide, d)

	q, err := ParseQuality("ULTRA")
	require.NoError(t, err)
	assert.Equal(t, QualityUltra, q)

	_, err = ParseStyle("cubist")
	assert.ErrorContains(t, err, "must be one of")
	_, err = ParseDimensions("640x480")
	assert.Error(t, err)
	_, err = ParseQuality("low")
	assert.Error(t, err)
}

func TestSettingsApply(t *testing.T) {
	base := DefaultSettings()

	got := base.Apply(PatchQuality(QualityUltra))
	assert.Equal(t, QualityUltra, got.Quality)
	assert.Equal(t, base.Style, got.Style)
	assert.Equal(t, base.Dimensions, got.Dimensions)
	assert.Equal(t, QualityHigh, base.Quality, "receiver must not change")

	bogus := Style("cubist")
	assert.Equal(t, base, base.Apply(SettingsPatch{Style: &bogus}))
	assert.Equal(t, base, base.Apply(SettingsPatch{}))
}

func TestSettingsValidate(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())
	bad := DefaultSettings()
	bad.Dimensions = "1x1"
	assert.Error(t, bad.Validate())
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Minimalist", StyleMinimalist.Label())
	assert.Equal(t, "Portrait (768×1024)", DimensionsPortrait.Label())
	assert.Equal(t, "Ultra HD", QualityUltra.Label())
}

func TestNext(t *testing.T) {
	assert.Equal(t, QualityHigh, Next(AllQualities, QualityStandard, 1))
	assert.Equal(t, QualityStandard, Next(AllQualities, QualityUltra, 1))
	assert.Equal(t, QualityUltra, Next(AllQualities, QualityStandard, -1))
	assert.Equal(t, StyleRealistic, Next(AllStyles, Style("nope"), 1))
}
