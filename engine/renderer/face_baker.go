package renderer

import (
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-badge/common"
	"github.com/Carmen-Shannon/oxy-badge/engine/loader"
	"github.com/Carmen-Shannon/oxy-badge/engine/scene"
	"github.com/anthonynsimon/bild/transform"
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	// DefaultTextureSize is the edge length in pixels of a baked face texture.
	DefaultTextureSize = 1024

	// maxCachedFaces bounds the baked texture cache; typing a name produces a new key per edit.
	maxCachedFaces = 48

	eventWordmark = "Next.js Conf"
)

var builtinFonts = map[scene.FontRole][]byte{
	scene.FontRegular: goregular.TTF,
	scene.FontBold:    gobold.TTF,
	scene.FontMono:    gomono.TTF,
}

// FaceBaker rasterizes the text, logo and date content of a face into a square RGBA texture.
// The texture is transparent where the face has no content. Results are cached by
// scene.Face.ContentKey, so material changes never trigger a re-bake.
type FaceBaker struct {
	mu sync.Mutex

	size    int
	assets  loader.Assets
	sources map[scene.FontRole]*text.FontSource
	cache   map[string]common.TextureStagingData
	bakes   int

	logger *slog.Logger
}

// NewFaceBaker creates a FaceBaker with the options applied. Fonts missing from the assets are
// replaced by the Go fonts.
//
// Parameters:
//   - options: a variadic list of FaceBakerBuilderOption functions
//
// Returns:
//   - *FaceBaker: the baker
//   - error: error if a built-in font cannot be parsed
func NewFaceBaker(options ...FaceBakerBuilderOption) (*FaceBaker, error) {
	fb := &FaceBaker{
		size:   DefaultTextureSize,
		assets: loader.NewAssets(),
		cache:  make(map[string]common.TextureStagingData),
		logger: slog.Default(),
	}
	for _, option := range options {
		option(fb)
	}
	if err := fb.loadFonts(); err != nil {
		return nil, err
	}
	return fb, nil
}

// TextureSize returns the edge length of baked textures in pixels.
func (fb *FaceBaker) TextureSize() int {
	return fb.size
}

// Bakes returns how many faces were rasterized, cache hits excluded.
func (fb *FaceBaker) Bakes() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.bakes
}

// SetAssets swaps the fonts and logos and drops every cached texture.
//
// Parameters:
//   - assets: the new asset set
//
// Returns:
//   - error: error if a built-in font cannot be parsed
func (fb *FaceBaker) SetAssets(assets loader.Assets) error {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	fb.closeFonts()
	fb.assets = assets
	fb.cache = make(map[string]common.TextureStagingData)
	return fb.loadFonts()
}

// Bake returns the content texture of a face.
//
// Parameters:
//   - f: the face to rasterize
//
// Returns:
//   - common.TextureStagingData: size x size RGBA pixels, premultiplied alpha
//   - error: error if the rasterizer fails
func (fb *FaceBaker) Bake(f scene.Face) (common.TextureStagingData, error) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	key := f.ContentKey()
	if cached, ok := fb.cache[key]; ok {
		return cached, nil
	}

	dc := gg.NewContext(fb.size, fb.size)
	defer dc.Close()

	for _, label := range f.Labels() {
		fb.drawText(dc, f, label)
	}
	if f.Logo != nil {
		if err := fb.drawLogo(dc, f, *f.Logo); err != nil {
			return common.TextureStagingData{}, fmt.Errorf("failed to draw %s logo: %w", f.ID, err)
		}
	}

	if err := dc.FlushGPU(); err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to flush %s face: %w", f.ID, err)
	}
	staging := common.NewTextureStagingData(dc.Image())

	if len(fb.cache) >= maxCachedFaces {
		fb.cache = make(map[string]common.TextureStagingData)
	}
	fb.cache[key] = staging
	fb.bakes++
	return staging, nil
}

// Close releases the parsed fonts.
func (fb *FaceBaker) Close() {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.closeFonts()
}

// toPixels maps a face-local point (origin at the center, +Y up) to texture pixels.
func (fb *FaceBaker) toPixels(f scene.Face, p [2]float32) (float64, float64) {
	w, h := float64(f.Size[0]), float64(f.Size[1])
	s := float64(fb.size)
	return (float64(p[0]) + w/2) / w * s, (h/2 - float64(p[1])) / h * s
}

func (fb *FaceBaker) toPixelLength(f scene.Face, v float32) float64 {
	return float64(v) / float64(f.Size[0]) * float64(fb.size)
}

func (fb *FaceBaker) drawText(dc *gg.Context, f scene.Face, t scene.Text) {
	if t.Content == "" {
		return
	}
	src := fb.sources[t.Font]
	if src == nil {
		src = fb.sources[scene.FontRegular]
	}
	dc.SetFont(src.Face(fb.toPixelLength(f, t.Size)))
	dc.SetRGB(float64(t.Color[0]), float64(t.Color[1]), float64(t.Color[2]))

	x, y := fb.toPixels(f, t.Position)
	ax, ay := float64(t.Anchor.X), float64(t.Anchor.Y)
	if t.MaxWidth > 0 {
		dc.DrawStringWrapped(t.Content, x, y, ax, ay, fb.toPixelLength(f, t.MaxWidth), 1.0, gg.AlignLeft)
		return
	}
	dc.DrawStringAnchored(t.Content, x, y, ax, ay)
}

func (fb *FaceBaker) drawLogo(dc *gg.Context, f scene.Face, logo scene.Logo) error {
	cx, cy := fb.toPixels(f, logo.Position)
	bw, bh := fb.toPixelLength(f, logo.Size[0]), fb.toPixelLength(f, logo.Size[1])

	img, ok := fb.assets.Logo(logo.Role)
	if !ok {
		return fb.drawBuiltinLogo(dc, logo, cx, cy, bw, bh)
	}

	// fit inside the box, keeping the aspect ratio
	iw, ih := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	if iw == 0 || ih == 0 {
		return fb.drawBuiltinLogo(dc, logo, cx, cy, bw, bh)
	}
	scale := min(bw/iw, bh/ih)
	dw, dh := max(int(iw*scale), 1), max(int(ih*scale), 1)

	var resized image.Image = img
	if dw != int(iw) || dh != int(ih) {
		resized = transform.Resize(img, dw, dh, transform.Linear)
	}
	dc.DrawImageEx(gg.ImageBufFromImage(resized), gg.DrawImageOptions{
		X:       cx - float64(dw)/2,
		Y:       cy - float64(dh)/2,
		Opacity: 1,
	})
	return nil
}

// drawBuiltinLogo draws the vector stand-in of a logo whose asset is unavailable.
func (fb *FaceBaker) drawBuiltinLogo(dc *gg.Context, logo scene.Logo, cx, cy, bw, bh float64) error {
	dc.SetRGB(float64(logo.Color[0]), float64(logo.Color[1]), float64(logo.Color[2]))

	switch logo.Role {
	case scene.LogoVercel:
		// equilateral triangle centered in the box
		side := min(bw, bh*2/1.7320508)
		height := side * 0.8660254
		dc.MoveTo(cx, cy-height/2)
		dc.LineTo(cx+side/2, cy+height/2)
		dc.LineTo(cx-side/2, cy+height/2)
		dc.ClosePath()
		return dc.Fill()
	default:
		src := fb.sources[scene.FontBold]
		face := src.Face(bh * 0.8)
		dc.SetFont(face)
		if w, _ := dc.MeasureString(eventWordmark); w > bw && w > 0 {
			dc.SetFont(src.Face(bh * 0.8 * bw / w))
		}
		dc.DrawStringAnchored(eventWordmark, cx, cy, 0.5, 0.5)
		return nil
	}
}

// loadFonts parses every font role, falling back to the Go fonts for missing or broken assets.
func (fb *FaceBaker) loadFonts() error {
	fb.sources = make(map[scene.FontRole]*text.FontSource, len(builtinFonts))
	for role, builtin := range builtinFonts {
		if data, ok := fb.assets.Font(role); ok {
			src, err := text.NewFontSource(data)
			if err == nil {
				fb.sources[role] = src
				continue
			}
			fb.logger.Warn("font asset unusable, using built-in font", "role", role.String(), "error", err)
		}
		src, err := text.NewFontSource(builtin)
		if err != nil {
			return fmt.Errorf("failed to parse built-in %s font: %w", role, err)
		}
		fb.sources[role] = src
	}
	return nil
}

func (fb *FaceBaker) closeFonts() {
	for role, src := range fb.sources {
		if err := src.Close(); err != nil {
			fb.logger.Debug("font close failed", "role", role.String(), "error", err)
		}
	}
	fb.sources = nil
}
