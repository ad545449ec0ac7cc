package controller

import (
	"fmt"
	"math"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/Carmen-Shannon/oxy-badge/common"
	"github.com/Carmen-Shannon/oxy-badge/engine/params"
)

// Control is one entry of the keyboard control panel.
type Control int

const (
	ControlName Control = iota
	ControlCompany
	ControlColor
	ControlGlossiness
	ControlBlur
	ControlLightIntensity
	ControlEnvironment
	ControlRotationSpeed

	controlCount
)

var controlLabels = [controlCount]string{
	"Name", "Company", "Color", "Glossiness", "Blur", "Light Intensity", "Environment", "Rotation Speed",
}

// String returns the label shown in the panel status.
func (c Control) String() string {
	if c < 0 || c >= controlCount {
		return "unknown"
	}
	return controlLabels[c]
}

// field maps the control to the parameter it edits.
func (c Control) field() params.Field {
	switch c {
	case ControlName:
		return params.FieldDisplayName
	case ControlCompany:
		return params.FieldCompanyName
	case ControlColor:
		return params.FieldBaseColor
	case ControlGlossiness:
		return params.FieldGlossiness
	case ControlBlur:
		return params.FieldSurfaceBlur
	case ControlLightIntensity:
		return params.FieldLightIntensity
	case ControlEnvironment:
		return params.FieldEnvironment
	default:
		return params.FieldRotationSpeed
	}
}

// slider steps; Shift multiplies by shiftFactor
const (
	sliderStep      = 0.01
	lightSliderStep = 0.1
	shiftFactor     = 10
)

// Panel maps keyboard input to controller events. It stands in for the on-screen widgets:
// one control has focus at a time and text controls are edited in place.
type Panel struct {
	ctrl Controller

	focus      Control
	editing    bool
	colorDraft string
}

// NewPanel creates a panel driving ctrl, focused on the name control.
func NewPanel(ctrl Controller) *Panel {
	return &Panel{ctrl: ctrl}
}

func (p *Panel) Focus() Control {
	return p.focus
}

// Editing reports whether a text control is capturing typed characters.
func (p *Panel) Editing() bool {
	return p.editing
}

// KeyDown handles a key press or repeat.
//
// Parameters:
//   - key: the key code
//   - mods: the held modifiers
func (p *Panel) KeyDown(key uint32, mods common.ModifierKey) {
	switch key {
	case common.KeyF1:
		p.ctrl.Handle(ControlsToggled{})
		p.editing = false
		return
	case common.KeyF5:
		p.ctrl.Handle(ShareRequested{})
		return
	case common.KeyF9:
		p.ctrl.Handle(ColorReset{})
		p.colorDraft = ""
		return
	}

	if !p.ctrl.Store().ControlsVisible() {
		return
	}

	switch key {
	case common.KeyTab:
		p.editing = false
		delta := 1
		if mods&common.ModShift != 0 {
			delta = -1
		}
		p.focus = Control(((int(p.focus)+delta)%int(controlCount) + int(controlCount)) % int(controlCount))
	case common.KeyEnter:
		p.toggleEditing()
	case common.KeyBackspace:
		if p.editing {
			p.deleteRune()
		}
	case common.KeyLeft, common.KeyDown:
		p.step(-1, mods)
	case common.KeyRight, common.KeyUp:
		p.step(1, mods)
	}
}

// Char handles a typed character. Ignored unless a text control is being edited.
func (p *Panel) Char(r rune) {
	if !p.editing || !unicode.IsPrint(r) {
		return
	}
	store := p.ctrl.Store()
	switch p.focus {
	case ControlName:
		p.ctrl.Handle(TextChanged{Field: params.FieldDisplayName, Value: store.DisplayName() + string(r)})
	case ControlCompany:
		p.ctrl.Handle(TextChanged{Field: params.FieldCompanyName, Value: store.CompanyName() + string(r)})
	case ControlColor:
		if utf8.RuneCountInString(p.colorDraft) >= 7 {
			return
		}
		if p.colorDraft == "" && r != '#' {
			p.colorDraft = "#"
		}
		p.colorDraft += string(r)
		p.applyColorDraft()
	}
}

// Status renders the focused control and its value, or "" while the controls are hidden.
//
// Returns:
//   - string: a single status line
func (p *Panel) Status() string {
	store := p.ctrl.Store()
	if !store.ControlsVisible() {
		return ""
	}

	var value string
	switch p.focus {
	case ControlName:
		value = strconv.Quote(store.DisplayName())
	case ControlCompany:
		value = strconv.Quote(store.CompanyName())
	case ControlColor:
		value = store.BaseColor()
		if p.editing {
			value = p.colorDraft
		}
	case ControlGlossiness:
		value = strconv.FormatFloat(store.Glossiness(), 'f', 2, 64)
	case ControlBlur:
		value = strconv.FormatFloat(store.SurfaceBlur(), 'f', 2, 64)
	case ControlLightIntensity:
		value = strconv.FormatFloat(store.LightIntensity(), 'f', 1, 64)
	case ControlEnvironment:
		value = store.Environment().String()
	case ControlRotationSpeed:
		value = strconv.FormatFloat(store.RotationSpeed(), 'f', 2, 64)
	}
	if p.editing {
		value += "_"
	}
	return fmt.Sprintf("%s: %s  [Tab] next  [F5] share  [F1] hide", p.focus, value)
}

func (p *Panel) toggleEditing() {
	switch p.focus {
	case ControlName, ControlCompany:
		if !p.editing {
			p.ctrl.Handle(TextFocused{Field: p.focus.field()})
		}
		p.editing = !p.editing
	case ControlColor:
		p.editing = !p.editing
		p.colorDraft = ""
	}
}

func (p *Panel) deleteRune() {
	store := p.ctrl.Store()
	switch p.focus {
	case ControlName:
		p.ctrl.Handle(TextChanged{Field: params.FieldDisplayName, Value: trimLastRune(store.DisplayName())})
	case ControlCompany:
		p.ctrl.Handle(TextChanged{Field: params.FieldCompanyName, Value: trimLastRune(store.CompanyName())})
	case ControlColor:
		p.colorDraft = trimLastRune(p.colorDraft)
		p.applyColorDraft()
	}
}

// applyColorDraft submits the draft once it forms a complete color.
func (p *Panel) applyColorDraft() {
	if common.IsHexColor(p.colorDraft) {
		p.ctrl.Handle(TextChanged{Field: params.FieldBaseColor, Value: p.colorDraft})
	}
}

// step moves a slider or the environment selection by one notch in direction dir.
func (p *Panel) step(dir int, mods common.ModifierKey) {
	if p.editing {
		return
	}
	store := p.ctrl.Store()
	if p.focus == ControlEnvironment {
		p.ctrl.Handle(EnvironmentSelected{Environment: store.Environment().Step(dir)})
		return
	}

	size, decimals := sliderStep, 2
	var current float64
	switch p.focus {
	case ControlGlossiness:
		current = store.Glossiness()
	case ControlBlur:
		current = store.SurfaceBlur()
	case ControlLightIntensity:
		current = store.LightIntensity()
		size, decimals = lightSliderStep, 1
	case ControlRotationSpeed:
		current = store.RotationSpeed()
	default:
		return
	}
	if mods&common.ModShift != 0 {
		size *= shiftFactor
	}
	p.ctrl.Handle(NumberChanged{Field: p.focus.field(), Value: roundTo(current+float64(dir)*size, decimals)})
}

func trimLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

// roundTo keeps slider values on the step grid.
func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
