package params

import (
	"github.com/Carmen-Shannon/oxy-badge/common"
)

// store is the implementation of the Store interface.
// It is owned by a single UI goroutine and holds no locks.
type store struct {
	current Parameters
	initial *Parameters
	version uint64

	filter        *Filter
	maxTextLength int

	onChange func(p Parameters, field Field)
}

// Store is the single source of truth for the customization parameters.
// Setters validate, bound or clamp their input before accepting it and never return errors:
// out-of-range numbers are clamped silently and text is bounded and filtered.
type Store interface {
	// Snapshot returns a copy of the current parameters.
	//
	// Returns:
	//   - Parameters: the current value of every field
	Snapshot() Parameters

	// Version returns the number of accepted sets since construction.
	//
	// Returns:
	//   - uint64: the mutation counter
	Version() uint64

	DisplayName() string
	CompanyName() string
	BaseColor() string
	Glossiness() float64
	SurfaceBlur() float64
	LightIntensity() float64
	Environment() Environment
	RotationSpeed() float64
	ControlsVisible() bool

	// SetDisplayName bounds the name to the maximum rune length and masks denylisted words.
	//
	// Parameters:
	//   - name: the requested display name
	SetDisplayName(name string)

	// SetCompanyName bounds the name to the maximum rune length and masks denylisted words.
	//
	// Parameters:
	//   - name: the requested company name
	SetCompanyName(name string)

	// SetBaseColor accepts a '#RRGGBB' triplet. Any other input is rejected and the
	// previous color is kept.
	//
	// Parameters:
	//   - hex: the requested color
	//
	// Returns:
	//   - bool: true if the color was accepted
	SetBaseColor(hex string) bool

	// ResetBaseColor restores the default base color.
	ResetBaseColor()

	SetGlossiness(v float64)
	SetSurfaceBlur(v float64)
	SetLightIntensity(v float64)
	SetRotationSpeed(v float64)

	// SetEnvironment selects a lighting preset. Unknown presets select the default.
	//
	// Parameters:
	//   - e: the requested preset
	SetEnvironment(e Environment)

	SetControlsVisible(visible bool)

	// ToggleControls flips ControlsVisible.
	//
	// Returns:
	//   - bool: the new visibility
	ToggleControls() bool

	// Replace validates and installs a whole parameter set, firing a single change with FieldAll.
	//
	// Parameters:
	//   - p: the requested parameters
	Replace(p Parameters)
}

var _ Store = &store{}

// NewStore creates a Store holding the default parameters, or the WithInitial seed.
//
// Parameters:
//   - options: functional options for store configuration
//
// Returns:
//   - Store: the newly created store
func NewStore(options ...StoreBuilderOption) Store {
	s := &store{
		current:       Defaults(),
		maxTextLength: DefaultMaxTextLength,
		filter:        NewFilter(DefaultDenylist, DefaultMask),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.initial != nil {
		s.current = s.normalize(*s.initial)
		s.initial = nil
	}
	return s
}

func (s *store) Snapshot() Parameters {
	return s.current
}

func (s *store) Version() uint64 {
	return s.version
}

func (s *store) DisplayName() string {
	return s.current.DisplayName
}

func (s *store) CompanyName() string {
	return s.current.CompanyName
}

func (s *store) BaseColor() string {
	return s.current.BaseColor
}

func (s *store) Glossiness() float64 {
	return s.current.Glossiness
}

func (s *store) SurfaceBlur() float64 {
	return s.current.SurfaceBlur
}

func (s *store) LightIntensity() float64 {
	return s.current.LightIntensity
}

func (s *store) Environment() Environment {
	return s.current.Environment
}

func (s *store) RotationSpeed() float64 {
	return s.current.RotationSpeed
}

func (s *store) ControlsVisible() bool {
	return s.current.ControlsVisible
}

func (s *store) SetDisplayName(name string) {
	s.current.DisplayName = s.cleanText(name)
	s.changed(FieldDisplayName)
}

func (s *store) SetCompanyName(name string) {
	s.current.CompanyName = s.cleanText(name)
	s.changed(FieldCompanyName)
}

func (s *store) SetBaseColor(hex string) bool {
	if !common.IsHexColor(hex) {
		return false
	}
	s.current.BaseColor = hex
	s.changed(FieldBaseColor)
	return true
}

func (s *store) ResetBaseColor() {
	s.current.BaseColor = DefaultBaseColor
	s.changed(FieldBaseColor)
}

func (s *store) SetGlossiness(v float64) {
	s.current.Glossiness = GlossinessDomain.Clamp(v)
	s.changed(FieldGlossiness)
}

func (s *store) SetSurfaceBlur(v float64) {
	s.current.SurfaceBlur = SurfaceBlurDomain.Clamp(v)
	s.changed(FieldSurfaceBlur)
}

func (s *store) SetLightIntensity(v float64) {
	s.current.LightIntensity = LightIntensityDomain.Clamp(v)
	s.changed(FieldLightIntensity)
}

func (s *store) SetRotationSpeed(v float64) {
	s.current.RotationSpeed = RotationSpeedDomain.Clamp(v)
	s.changed(FieldRotationSpeed)
}

func (s *store) SetEnvironment(e Environment) {
	if !e.Valid() {
		e = DefaultEnvironment
	}
	s.current.Environment = e
	s.changed(FieldEnvironment)
}

func (s *store) SetControlsVisible(visible bool) {
	s.current.ControlsVisible = visible
	s.changed(FieldControlsVisible)
}

func (s *store) ToggleControls() bool {
	s.SetControlsVisible(!s.current.ControlsVisible)
	return s.current.ControlsVisible
}

func (s *store) Replace(p Parameters) {
	s.current = s.normalize(p)
	s.changed(FieldAll)
}

// normalize applies every setter's validation to p. An invalid color falls back to the default.
func (s *store) normalize(p Parameters) Parameters {
	p.DisplayName = s.cleanText(p.DisplayName)
	p.CompanyName = s.cleanText(p.CompanyName)
	if !common.IsHexColor(p.BaseColor) {
		p.BaseColor = DefaultBaseColor
	}
	p.Glossiness = GlossinessDomain.Clamp(p.Glossiness)
	p.SurfaceBlur = SurfaceBlurDomain.Clamp(p.SurfaceBlur)
	p.LightIntensity = LightIntensityDomain.Clamp(p.LightIntensity)
	p.RotationSpeed = RotationSpeedDomain.Clamp(p.RotationSpeed)
	if !p.Environment.Valid() {
		p.Environment = DefaultEnvironment
	}
	return p
}

// cleanText truncates to the rune bound, then masks denylisted tokens.
func (s *store) cleanText(text string) string {
	runes := []rune(text)
	if len(runes) > s.maxTextLength {
		text = string(runes[:s.maxTextLength])
	}
	return s.filter.Clean(text)
}

func (s *store) changed(field Field) {
	s.version++
	if s.onChange != nil {
		s.onChange(s.current, field)
	}
}
