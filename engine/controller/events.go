package controller

import "github.com/Carmen-Shannon/oxy-badge/engine/params"

// Event is a primitive change notification from an input widget.
type Event interface {
	isEvent()
}

// TextChanged reports a new value for a text field: display name, company name or base color.
type TextChanged struct {
	Field params.Field
	Value string
}

// NumberChanged reports a new slider value for glossiness, surface blur, light intensity or
// rotation speed.
type NumberChanged struct {
	Field params.Field
	Value float64
}

// EnvironmentSelected reports a lighting preset choice.
type EnvironmentSelected struct {
	Environment params.Environment
}

// ControlsToggled flips the visibility of the control panel.
type ControlsToggled struct{}

// ColorReset restores the default base color.
type ColorReset struct{}

// TextFocused reports that a text input gained focus, which clears it.
type TextFocused struct {
	Field params.Field
}

// ShareRequested asks for a share link to be produced and copied.
type ShareRequested struct{}

func (TextChanged) isEvent()         {}
func (NumberChanged) isEvent()       {}
func (EnvironmentSelected) isEvent() {}
func (ControlsToggled) isEvent()     {}
func (ColorReset) isEvent()          {}
func (TextFocused) isEvent()         {}
func (ShareRequested) isEvent()      {}
