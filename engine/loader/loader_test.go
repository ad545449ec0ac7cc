package loader

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-badge/engine/scene"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadImageFromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "logo.bin", pngBytes(t, 12, 7))

	img, err := NewLoader().LoadImage(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 12, img.Bounds().Dx())
	assert.Equal(t, 7, img.Bounds().Dy())
}

func TestLoadImageFromFileURL(t *testing.T) {
	path := writeFile(t, t.TempDir(), "logo.png", pngBytes(t, 3, 3))

	img, err := NewLoader().LoadImage(context.Background(), "file://"+filepath.ToSlash(path))
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
}

func TestLoadImageOverHTTP(t *testing.T) {
	data := pngBytes(t, 5, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/logo" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	l := NewLoader(WithHTTPClient(srv.Client()))

	img, err := l.LoadImage(context.Background(), srv.URL+"/logo")
	require.NoError(t, err)
	assert.Equal(t, 5, img.Bounds().Dx())

	_, err = l.LoadImage(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
}

func TestLoadImageRejectsNonImages(t *testing.T) {
	path := writeFile(t, t.TempDir(), "logo.png", []byte("definitely not an image, just text"))

	_, err := NewLoader().LoadImage(context.Background(), path)
	assert.ErrorIs(t, err, ErrUnsupportedAsset)
}

func TestLoadFont(t *testing.T) {
	dir := t.TempDir()
	fontPath := writeFile(t, dir, "regular.ttf", goregular.TTF)
	imagePath := writeFile(t, dir, "fake.ttf", pngBytes(t, 2, 2))
	l := NewLoader()

	data, err := l.LoadFont(context.Background(), fontPath)
	require.NoError(t, err)
	assert.Equal(t, goregular.TTF, data)

	_, err = l.LoadFont(context.Background(), imagePath)
	assert.ErrorIs(t, err, ErrUnsupportedAsset)
}

func TestFetchSizeLimit(t *testing.T) {
	path := writeFile(t, t.TempDir(), "big.png", pngBytes(t, 64, 64))

	_, err := NewLoader(WithMaxBytes(16)).Fetch(context.Background(), path)
	assert.ErrorIs(t, err, ErrAssetTooLarge)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte{'x'}, 64))
	}))
	defer srv.Close()

	_, err = NewLoader(WithMaxBytes(16), WithHTTPClient(srv.Client())).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrAssetTooLarge)
}

func TestFetchUnsupportedScheme(t *testing.T) {
	for _, ref := range []string{"", "ftp://example.com/logo.png"} {
		t.Run(ref, func(t *testing.T) {
			_, err := NewLoader().Fetch(context.Background(), ref)
			assert.ErrorIs(t, err, ErrUnsupportedAsset)
		})
	}
}

func TestFetchCache(t *testing.T) {
	l := NewLoader(WithAsset("/nonexistent/logo.png", []byte("cached")))

	data, err := l.Fetch(context.Background(), "/nonexistent/logo.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("cached"), data)

	l.Invalidate("/nonexistent/logo.png")
	_, err = l.Fetch(context.Background(), "/nonexistent/logo.png")
	assert.Error(t, err)
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	logo := writeFile(t, dir, "event.png", pngBytes(t, 8, 2))
	font := writeFile(t, dir, "bold.ttf", goregular.TTF)
	l := NewLoader(WithWorkers(2))

	assets, err := l.LoadAll(context.Background(), Manifest{
		Fonts: map[scene.FontRole]string{
			scene.FontBold:    font,
			scene.FontRegular: filepath.Join(dir, "missing.ttf"),
			scene.FontMono:    "",
		},
		Logos: map[scene.LogoRole]string{
			scene.LogoEvent: logo,
		},
	})
	require.Error(t, err)

	_, ok := assets.Font(scene.FontBold)
	assert.True(t, ok)
	_, ok = assets.Font(scene.FontRegular)
	assert.False(t, ok)
	_, ok = assets.Font(scene.FontMono)
	assert.False(t, ok)
	img, ok := assets.Logo(scene.LogoEvent)
	require.True(t, ok)
	assert.Equal(t, 8, img.Bounds().Dx())
	_, ok = assets.Logo(scene.LogoVercel)
	assert.False(t, ok)

	assert.Equal(t, 1.0, testutil.ToFloat64(l.Failures()))
}

func TestLoadAllEmptyManifest(t *testing.T) {
	assets, err := NewLoader().LoadAll(context.Background(), Manifest{})
	require.NoError(t, err)
	assert.Empty(t, assets.Fonts)
	assert.Empty(t, assets.Logos)
}

func TestManifestLocalPaths(t *testing.T) {
	m := Manifest{
		Fonts: map[scene.FontRole]string{scene.FontRegular: "fonts/../fonts/a.ttf"},
		Logos: map[scene.LogoRole]string{
			scene.LogoEvent:  "https://example.com/event.png",
			scene.LogoVercel: "file:///tmp/vercel.png",
		},
	}

	paths := m.LocalPaths()
	assert.Len(t, paths, 2)
	assert.Equal(t, "fonts/../fonts/a.ttf", paths[filepath.Clean("fonts/a.ttf")])
	assert.Equal(t, "file:///tmp/vercel.png", paths[filepath.Clean("/tmp/vercel.png")])
}

func TestWatchReloadsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	logo := writeFile(t, dir, "event.png", pngBytes(t, 4, 4))
	l := NewLoader(WithReloadDelay(10 * time.Millisecond))
	m := Manifest{Logos: map[scene.LogoRole]string{scene.LogoEvent: logo}}

	_, err := l.LoadAll(context.Background(), m)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan Assets, 1)
	done := make(chan error, 1)
	go func() {
		done <- l.Watch(ctx, m, func(a Assets) {
			select {
			case changes <- a:
			default:
			}
		})
	}()

	// the watcher registers asynchronously; keep rewriting until a reload shows the new file
	updated := pngBytes(t, 9, 4)
	require.Eventually(t, func() bool {
		select {
		case got := <-changes:
			img, ok := got.Logo(scene.LogoEvent)
			return ok && img.Bounds().Dx() == 9
		default:
			_ = os.WriteFile(logo, updated, 0o644)
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchWithoutLocalFiles(t *testing.T) {
	m := Manifest{Logos: map[scene.LogoRole]string{scene.LogoEvent: "https://example.com/e.png"}}
	assert.NoError(t, NewLoader().Watch(context.Background(), m, func(Assets) {}))
}
