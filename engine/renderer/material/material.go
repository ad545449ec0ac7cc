package material

// Physical is a physically based surface description for the cube faces: a translucent
// clear-coated dielectric/metal blend whose reflections come from the environment preset.
// It is a plain value so scene graphs can be compared structurally.
type Physical struct {
	// Color is the linear RGB base color.
	Color [3]float32

	// Opacity is the surface alpha; values below 1 are blended.
	Opacity float32

	// Metalness blends from dielectric (0) to metal (1).
	Metalness float32

	// Roughness blurs specular highlights and reflections (0 = mirror, 1 = diffuse).
	Roughness float32

	// Clearcoat is the strength of the glossy top layer.
	Clearcoat float32

	// ClearcoatRoughness is the roughness of the clear coat layer.
	ClearcoatRoughness float32

	// Reflectivity scales the Fresnel reflectance at normal incidence.
	Reflectivity float32

	// EnvIntensity scales the contribution of the environment map.
	EnvIntensity float32
}

// NewPhysical creates an opaque white, fully rough, non-metallic material and applies the options.
//
// Parameters:
//   - options: variadic list of PhysicalBuilderOption functions to configure the material
//
// Returns:
//   - Physical: the configured material
func NewPhysical(options ...PhysicalBuilderOption) Physical {
	m := Physical{
		Color:        [3]float32{1, 1, 1},
		Opacity:      1,
		Roughness:    1,
		Reflectivity: 0.5,
		EnvIntensity: 1,
	}
	for _, opt := range options {
		opt(&m)
	}
	return m
}

// Transparent reports whether the material needs alpha blending.
func (m Physical) Transparent() bool {
	return m.Opacity < 1
}

// RGBA returns the base color with opacity as alpha.
func (m Physical) RGBA() [4]float32 {
	return [4]float32{m.Color[0], m.Color[1], m.Color[2], m.Opacity}
}
