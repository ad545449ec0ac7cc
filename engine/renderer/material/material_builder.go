package material

import (
	"github.com/Carmen-Shannon/oxy-badge/common"
)

// PhysicalBuilderOption is a function that configures a Physical material during construction.
type PhysicalBuilderOption func(*Physical)

// WithColor is an option builder that sets the linear RGB base color.
//
// Parameters:
//   - rgb: the base color components in [0,1]
//
// Returns:
//   - PhysicalBuilderOption: a function that applies the color option to a material
func WithColor(rgb [3]float32) PhysicalBuilderOption {
	return func(m *Physical) {
		for i := range rgb {
			m.Color[i] = unit(rgb[i])
		}
	}
}

// WithHexColor is an option builder that sets the base color from a '#RRGGBB' string.
// Invalid strings leave the color unchanged.
//
// Parameters:
//   - hex: the color triplet
//
// Returns:
//   - PhysicalBuilderOption: a function that applies the color option to a material
func WithHexColor(hex string) PhysicalBuilderOption {
	return func(m *Physical) {
		if rgb, err := common.ParseHexColor(hex); err == nil {
			m.Color = rgb
		}
	}
}

// WithOpacity is an option builder that sets the surface opacity, clamped to [0,1].
//
// Parameters:
//   - opacity: the alpha value
//
// Returns:
//   - PhysicalBuilderOption: a function that applies the opacity option to a material
func WithOpacity(opacity float32) PhysicalBuilderOption {
	return func(m *Physical) {
		m.Opacity = unit(opacity)
	}
}

// WithMetalness is an option builder that sets the metalness, clamped to [0,1].
//
// Parameters:
//   - metalness: the metalness factor (0.0 = dielectric, 1.0 = metal)
//
// Returns:
//   - PhysicalBuilderOption: a function that applies the metalness option to a material
func WithMetalness(metalness float32) PhysicalBuilderOption {
	return func(m *Physical) {
		m.Metalness = unit(metalness)
	}
}

// WithRoughness is an option builder that sets the roughness, clamped to [0,1].
//
// Parameters:
//   - roughness: the roughness factor (0.0 = smooth, 1.0 = rough)
//
// Returns:
//   - PhysicalBuilderOption: a function that applies the roughness option to a material
func WithRoughness(roughness float32) PhysicalBuilderOption {
	return func(m *Physical) {
		m.Roughness = unit(roughness)
	}
}

// WithClearcoat is an option builder that sets the clear coat strength and roughness,
// both clamped to [0,1].
//
// Parameters:
//   - strength: the clear coat layer strength
//   - roughness: the clear coat layer roughness
//
// Returns:
//   - PhysicalBuilderOption: a function that applies the clear coat option to a material
func WithClearcoat(strength, roughness float32) PhysicalBuilderOption {
	return func(m *Physical) {
		m.Clearcoat = unit(strength)
		m.ClearcoatRoughness = unit(roughness)
	}
}

// WithReflectivity is an option builder that sets the reflectivity, clamped to [0,1].
//
// Parameters:
//   - reflectivity: the reflectance scale
//
// Returns:
//   - PhysicalBuilderOption: a function that applies the reflectivity option to a material
func WithReflectivity(reflectivity float32) PhysicalBuilderOption {
	return func(m *Physical) {
		m.Reflectivity = unit(reflectivity)
	}
}

// WithEnvIntensity is an option builder that sets the environment map contribution.
// Negative values are treated as zero.
//
// Parameters:
//   - intensity: the environment reflection strength
//
// Returns:
//   - PhysicalBuilderOption: a function that applies the environment option to a material
func WithEnvIntensity(intensity float32) PhysicalBuilderOption {
	return func(m *Physical) {
		m.EnvIntensity = max(intensity, 0)
	}
}

func unit(v float32) float32 {
	return common.Clamp(v, 0, 1)
}
