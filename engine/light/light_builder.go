package light

// LightBuilderOption is a function that configures a Light during construction.
type LightBuilderOption func(*Light)

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a Light
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *Light) {
		l.Position = [3]float32{x, y, z}
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a Light
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *Light) {
		l.Color = [3]float32{r, g, b}
	}
}

// WithIntensity is an option builder that sets the scalar intensity of the light.
// Negative values are treated as zero.
//
// Parameters:
//   - intensity: the intensity multiplier
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a Light
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *Light) {
		l.Intensity = max(intensity, 0)
	}
}
