package cmd

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacktop/imagecraft/internal/gallery"
	"github.com/blacktop/imagecraft/internal/generate"
)

func setFlags(t *testing.T, ep, st, dim, q string) {
	t.Helper()
	prev := []string{endpoint, style, dimensions, quality}
	endpoint, style, dimensions, quality = ep, st, dim, q
	t.Cleanup(func() {
		endpoint, style, dimensions, quality = prev[0], prev[1], prev[2], prev[3]
	})
}

func TestNewConfig(t *testing.T) {
	t.Run("flags", func(t *testing.T) {
		setFlags(t, "http://localhost:8080/generate", "Artistic", "1920x1080", "ultra")
		conf, err := newConfig()
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/generate", conf.Endpoint)
		assert.NotNil(t, conf.HTTPClient)
		assert.Equal(t, gallery.Settings{
			Style:      gallery.StyleArtistic,
			Dimensions: gallery.DimensionsWide,
			Quality:    gallery.QualityUltra,
		}, conf.Settings)
	})

	t.Run("env endpoint", func(t *testing.T) {
		setFlags(t, "", "realistic", "1024x1024", "high")
		t.Setenv(endpointEnv, "https://images.example.com/api")
		conf, err := newConfig()
		require.NoError(t, err)
		assert.Equal(t, "https://images.example.com/api", conf.Endpoint)
	})

	t.Run("missing endpoint", func(t *testing.T) {
		setFlags(t, "", "realistic", "1024x1024", "high")
		t.Setenv(endpointEnv, "")
		_, err := newConfig()
		assert.ErrorContains(t, err, endpointEnv)
	})

	t.Run("invalid style", func(t *testing.T) {
		setFlags(t, "http://localhost", "sepia", "1024x1024", "high")
		_, err := newConfig()
		assert.ErrorContains(t, err, "must be one of")
	})
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	t.Setenv(endpointEnv, "")
	os.Unsetenv(endpointEnv)

	require.NoError(t, loadDotEnv())
	assert.Empty(t, os.Getenv(endpointEnv))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(endpointEnv+"=http://dotenv.local/generate\n"), 0644))
	require.NoError(t, loadDotEnv())
	assert.Equal(t, "http://dotenv.local/generate", os.Getenv(endpointEnv))
}

func TestRunGenerate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	payload := base64.StdEncoding.EncodeToString(buf.Bytes())

	var got generate.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{"success": true, "image": payload})
	}))
	defer srv.Close()

	client, err := generate.New(srv.URL, generate.WithSettings(true))
	require.NoError(t, err)

	out := t.TempDir()
	conf := &config{Endpoint: srv.URL, Settings: gallery.DefaultSettings(), OutputFolder: out}
	require.NoError(t, runGenerate(context.Background(), client, conf, "a red fox"))

	assert.Equal(t, "a red fox", got.Prompt)
	require.NotNil(t, got.Settings)
	assert.Equal(t, gallery.DefaultSettings(), *got.Settings)

	files, err := filepath.Glob(filepath.Join(out, "generated-image-*.png"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), data)
}

func TestRunGenerateFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := generate.New(srv.URL)
	require.NoError(t, err)

	out := t.TempDir()
	conf := &config{Endpoint: srv.URL, Settings: gallery.DefaultSettings(), OutputFolder: out}
	err = runGenerate(context.Background(), client, conf, "a red fox")

	var serr *generate.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusInternalServerError, serr.StatusCode)
	entries, _ := os.ReadDir(out)
	assert.Empty(t, entries)
}
