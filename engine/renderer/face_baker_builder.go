package renderer

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-badge/engine/loader"
)

// FaceBakerBuilderOption is a functional option for configuring a FaceBaker via NewFaceBaker.
type FaceBakerBuilderOption func(*FaceBaker)

// WithAssets sets the fonts and logos used when baking.
func WithAssets(assets loader.Assets) FaceBakerBuilderOption {
	return func(fb *FaceBaker) {
		fb.assets = assets
	}
}

// WithBakeSize is an option builder that sets the edge length of baked textures.
//
// Parameters:
//   - size: the texture edge in pixels; values < 1 keep the default
//
// Returns:
//   - FaceBakerBuilderOption: a function that applies the size to a baker
func WithBakeSize(size int) FaceBakerBuilderOption {
	return func(fb *FaceBaker) {
		if size > 0 {
			fb.size = size
		}
	}
}

func WithBakerLogger(logger *slog.Logger) FaceBakerBuilderOption {
	return func(fb *FaceBaker) {
		if logger != nil {
			fb.logger = logger
		}
	}
}
