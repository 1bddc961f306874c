package store

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacktop/imagecraft/internal/gallery"
	"github.com/blacktop/imagecraft/internal/generate"
)

type fakeGenerator struct {
	mu    sync.Mutex
	calls []generate.Request
	url   string
	err   error
	block chan struct{}
}

func (f *fakeGenerator) Generate(ctx context.Context, req generate.Request) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return f.url, f.err
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("img-%d", n)
	}
}

func newTestStore(gen Generator) *Store {
	return New(gen, WithIDs(sequentialIDs()), WithClock(func() time.Time { return epoch }))
}

func TestStoreGenerate(t *testing.T) {
	gen := &fakeGenerator{url: "data:image/png;base64,AA=="}
	s := newTestStore(gen)

	img, err := s.Generate(context.Background(), "a red fox")
	require.NoError(t, err)
	assert.Equal(t, "img-1", img.ID)
	assert.Equal(t, epoch, img.Timestamp)

	snap := s.Snapshot()
	assert.False(t, snap.Generating)
	require.Len(t, snap.History, 1)
	assert.Equal(t, *img, snap.History[0])
	assert.Equal(t, *img, *snap.Current)

	require.Len(t, gen.calls, 1)
	assert.Equal(t, "a red fox", gen.calls[0].Prompt)
	require.NotNil(t, gen.calls[0].Settings)
	assert.Equal(t, gallery.DefaultSettings(), *gen.calls[0].Settings)
}

func TestStoreGenerateEmpty(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestStore(gen)
	_, err := s.Generate(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	assert.Empty(t, gen.calls)
	assert.Equal(t, NewState(gallery.DefaultSettings()), s.Snapshot())
}

func TestStoreRegenerateWithoutSelection(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestStore(gen)
	_, err := s.Regenerate(context.Background())
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Empty(t, gen.calls)
}

func TestStoreRejectsConcurrentGenerate(t *testing.T) {
	gen := &fakeGenerator{url: "u", block: make(chan struct{})}
	s := newTestStore(gen)

	done := make(chan error, 1)
	go func() {
		_, err := s.Generate(context.Background(), "first")
		done <- err
	}()
	require.Eventually(t, func() bool { return s.Snapshot().Generating }, time.Second, time.Millisecond)

	_, err := s.Generate(context.Background(), "second")
	assert.ErrorIs(t, err, ErrBusy)

	close(gen.block)
	require.NoError(t, <-done)
	snap := s.Snapshot()
	require.Len(t, snap.History, 1)
	assert.Equal(t, "first", snap.History[0].Prompt)
}

func TestStoreRegenerate(t *testing.T) {
	gen := &fakeGenerator{url: "u"}
	s := newTestStore(gen)
	ctx := context.Background()
	_, err := s.Generate(ctx, "first")
	require.NoError(t, err)

	img, err := s.Regenerate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", img.Prompt)
	assert.Len(t, s.Snapshot().History, 2)

	t.Run("busy", func(t *testing.T) {
		gen.mu.Lock()
		gen.block = make(chan struct{})
		gen.mu.Unlock()

		done := make(chan error, 1)
		go func() {
			_, err := s.Generate(ctx, "second")
			done <- err
		}()
		require.Eventually(t, func() bool { return s.Snapshot().Generating }, time.Second, time.Millisecond)

		_, err := s.Regenerate(ctx)
		assert.ErrorIs(t, err, ErrBusy)

		// a selection deleted mid-generation is reported as missing, not busy
		s.Delete(s.Snapshot().Current.ID)
		_, err = s.Regenerate(ctx)
		assert.ErrorIs(t, err, ErrNoSelection)

		close(gen.block)
		require.NoError(t, <-done)
	})
}

func TestStoreSelectDeleteSettings(t *testing.T) {
	s := newTestStore(&fakeGenerator{url: "u"})
	ctx := context.Background()
	first, err := s.Generate(ctx, "first")
	require.NoError(t, err)
	_, err = s.Generate(ctx, "second")
	require.NoError(t, err)

	assert.True(t, s.Select(first.ID))
	assert.False(t, s.Select("nope"))
	assert.Equal(t, first.ID, s.Snapshot().Current.ID)

	s.UpdateSettings(gallery.PatchQuality(gallery.QualityUltra))
	assert.Equal(t, gallery.QualityHigh, s.Snapshot().History[1].Settings.Quality)

	s.Delete(first.ID)
	snap := s.Snapshot()
	assert.Nil(t, snap.Current)
	require.Len(t, snap.History, 1)
	assert.Equal(t, "second", snap.History[0].Prompt)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newTestStore(&fakeGenerator{url: "u"})
	_, err := s.Generate(context.Background(), "first")
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.History[0].Prompt = "mutated"
	snap.Current.Prompt = "mutated"
	assert.Equal(t, "first", s.Snapshot().History[0].Prompt)
	assert.Equal(t, "first", s.Snapshot().Current.Prompt)
}

func newEndpoint(t *testing.T, status int, body string) *generate.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	client, err := generate.New(srv.URL)
	require.NoError(t, err)
	return client
}

func TestEndToEnd(t *testing.T) {
	const ok = `{"success":true,"image":"iVBORw0KGgo="}`

	t.Run("success", func(t *testing.T) {
		s := New(newEndpoint(t, http.StatusOK, ok), WithSettings(gallery.Settings{
			Style:      gallery.StyleArtistic,
			Dimensions: gallery.DimensionsSquare,
			Quality:    gallery.QualityHigh,
		}))
		_, err := s.Generate(context.Background(), "a red fox")
		require.NoError(t, err)

		snap := s.Snapshot()
		require.NotNil(t, snap.Current)
		assert.Equal(t, "a red fox", snap.Current.Prompt)
		assert.Equal(t, gallery.StyleArtistic, snap.Current.Settings.Style)
		assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", snap.Current.URL)
		assert.Len(t, snap.History, 1)
		assert.False(t, snap.Generating)
	})

	t.Run("http 500", func(t *testing.T) {
		s := New(newEndpoint(t, http.StatusInternalServerError, ""))
		_, err := s.Generate(context.Background(), "a red fox")
		var serr *generate.ServiceError
		require.ErrorAs(t, err, &serr)

		snap := s.Snapshot()
		assert.Empty(t, snap.History)
		assert.Nil(t, snap.Current)
		assert.False(t, snap.Generating)
		require.NotNil(t, snap.Notice)
		assert.Equal(t, NoticeError, snap.Notice.Kind)
	})

	t.Run("two in sequence", func(t *testing.T) {
		s := New(newEndpoint(t, http.StatusOK, ok))
		a, err := s.Generate(context.Background(), "one")
		require.NoError(t, err)
		b, err := s.Generate(context.Background(), "two")
		require.NoError(t, err)

		snap := s.Snapshot()
		require.Len(t, snap.History, 2)
		assert.Equal(t, "two", snap.History[0].Prompt)
		assert.Equal(t, "one", snap.History[1].Prompt)
		assert.NotEqual(t, a.ID, b.ID)
	})
}
