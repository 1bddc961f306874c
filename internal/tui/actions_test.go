package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacktop/imagecraft/internal/codec"
	"github.com/blacktop/imagecraft/internal/gallery"
)

func TestImageBytes(t *testing.T) {
	want, _, err := codec.Decode(pngURL(t))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fox.png" {
			http.NotFound(w, r)
			return
		}
		w.Write(want)
	}))
	defer srv.Close()

	t.Run("data url", func(t *testing.T) {
		got, err := ImageBytes(context.Background(), srv.Client(), pngURL(t))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("external url", func(t *testing.T) {
		got, err := ImageBytes(context.Background(), srv.Client(), srv.URL+"/fox.png")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := ImageBytes(context.Background(), srv.Client(), srv.URL+"/missing.png")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})
}

func TestSaveImage(t *testing.T) {
	data, _, err := codec.Decode(pngURL(t))
	require.NoError(t, err)
	img := gallery.GeneratedImage{ID: "0192a0e4", Prompt: "fox"}

	dir := filepath.Join(t.TempDir(), "nested", "out")
	path, err := SaveImage(dir, img, data)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "generated-image-0192a0e4.png"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestSavedMessage(t *testing.T) {
	msg := savedMessage(savedMsg{path: "out/generated-image-1.png", size: 2048})
	assert.Equal(t, "Image saved: out/generated-image-1.png (2.0 kB)", msg)
}
