package light

// LightType identifies the kind of light source.
type LightType uint32

const (
	// LightTypeAmbient lights every fragment uniformly, with no position or direction.
	LightTypeAmbient LightType = iota

	// LightTypePoint emits in all directions from a position.
	LightTypePoint
)

// String returns the light type name.
func (t LightType) String() string {
	switch t {
	case LightTypeAmbient:
		return "ambient"
	case LightTypePoint:
		return "point"
	default:
		return "unknown"
	}
}

// Light is a light source in the scene graph. It is a plain value so two graphs built from
// the same parameters compare equal.
type Light struct {
	// Type is the kind of light source.
	Type LightType

	// Position is the world-space position. Meaningless for ambient lights.
	Position [3]float32

	// Color is the RGB color of the light.
	Color [3]float32

	// Intensity is the scalar multiplier applied to Color.
	Intensity float32
}

// NewLight creates a white light of unit intensity at the origin, then applies the options.
//
// Parameters:
//   - t: the light type
//   - options: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: the configured light
func NewLight(t LightType, options ...LightBuilderOption) Light {
	l := Light{
		Type:      t,
		Color:     [3]float32{1, 1, 1},
		Intensity: 1,
	}
	for _, opt := range options {
		opt(&l)
	}
	return l
}

// NewAmbient creates an ambient light.
//
// Parameters:
//   - options: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: the configured ambient light
func NewAmbient(options ...LightBuilderOption) Light {
	return NewLight(LightTypeAmbient, options...)
}

// NewPoint creates a point light.
//
// Parameters:
//   - options: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: the configured point light
func NewPoint(options ...LightBuilderOption) Light {
	return NewLight(LightTypePoint, options...)
}

// Radiance returns Color scaled by Intensity.
func (l Light) Radiance() [3]float32 {
	return [3]float32{l.Color[0] * l.Intensity, l.Color[1] * l.Intensity, l.Color[2] * l.Intensity}
}
