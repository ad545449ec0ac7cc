// Package params holds the customization parameters of the badge cube and the store
// that validates every change before accepting it.
package params

import (
	"math"

	"github.com/Carmen-Shannon/oxy-badge/common"
)

// Default values for every customizable field.
const (
	DefaultDisplayName    = "Your Name"
	DefaultCompanyName    = "Your Company"
	DefaultBaseColor      = "#006EFE"
	DefaultGlossiness     = 0.9
	DefaultSurfaceBlur    = 0.1
	DefaultLightIntensity = 1.5
	DefaultEnvironment    = EnvironmentCity
	DefaultRotationSpeed  = 0.2
	DefaultControls       = true

	// DefaultMaxTextLength bounds DisplayName and CompanyName, in runes.
	DefaultMaxTextLength = 64
)

// Domain is the closed numeric range a field accepts, along with its default.
type Domain struct {
	Min, Max, Default float64
}

// Numeric field domains.
var (
	GlossinessDomain     = Domain{Min: 0, Max: 1, Default: DefaultGlossiness}
	SurfaceBlurDomain    = Domain{Min: 0, Max: 1, Default: DefaultSurfaceBlur}
	LightIntensityDomain = Domain{Min: 0, Max: 3, Default: DefaultLightIntensity}
	RotationSpeedDomain  = Domain{Min: 0, Max: 1, Default: DefaultRotationSpeed}
)

// Clamp bounds v to the domain. NaN maps to the default and infinities to the nearest bound.
//
// Parameters:
//   - v: the candidate value
//
// Returns:
//   - float64: a value within [Min, Max]
func (d Domain) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return d.Default
	}
	return common.Clamp(v, d.Min, d.Max)
}

// Parameters is the complete state needed to reconstruct the scene.
// It is a comparable value; copies never alias the store.
type Parameters struct {
	DisplayName     string
	CompanyName     string
	BaseColor       string
	Glossiness      float64
	SurfaceBlur     float64
	LightIntensity  float64
	Environment     Environment
	RotationSpeed   float64
	ControlsVisible bool
}

// Defaults returns the documented default Parameters.
//
// Returns:
//   - Parameters: the default value of every field
func Defaults() Parameters {
	return Parameters{
		DisplayName:     DefaultDisplayName,
		CompanyName:     DefaultCompanyName,
		BaseColor:       DefaultBaseColor,
		Glossiness:      DefaultGlossiness,
		SurfaceBlur:     DefaultSurfaceBlur,
		LightIntensity:  DefaultLightIntensity,
		Environment:     DefaultEnvironment,
		RotationSpeed:   DefaultRotationSpeed,
		ControlsVisible: DefaultControls,
	}
}

// Visual returns a copy with the local-only UI state zeroed, so two parameter sets that
// render identically compare equal.
func (p Parameters) Visual() Parameters {
	p.ControlsVisible = false
	return p
}

// Field identifies a single customizable attribute.
type Field int

const (
	FieldDisplayName Field = iota
	FieldCompanyName
	FieldBaseColor
	FieldGlossiness
	FieldSurfaceBlur
	FieldLightIntensity
	FieldEnvironment
	FieldRotationSpeed
	FieldControlsVisible
	// FieldAll is reported when the whole parameter set is replaced.
	FieldAll
)

var fieldNames = [...]string{
	"displayName", "companyName", "baseColor", "glossiness", "surfaceBlur",
	"lightIntensity", "environment", "rotationSpeed", "controlsVisible", "all",
}

// String returns the field name.
func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "unknown"
	}
	return fieldNames[f]
}

// Visual reports whether a change to the field affects the rendered scene.
func (f Field) Visual() bool {
	return f != FieldControlsVisible
}
