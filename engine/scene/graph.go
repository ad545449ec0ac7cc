// Package scene derives the declarative scene graph of the badge cube from the
// customization parameters.
package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-badge/common"
	"github.com/Carmen-Shannon/oxy-badge/engine/light"
	"github.com/Carmen-Shannon/oxy-badge/engine/params"
	"github.com/Carmen-Shannon/oxy-badge/engine/renderer/material"
)

// Transform positions a node relative to its parent. Rotation is Euler radians applied Y*X*Z.
type Transform struct {
	Position [3]float32
	Rotation [3]float32
	Scale    [3]float32
}

// IdentityTransform returns a transform with unit scale and no translation or rotation.
func IdentityTransform() Transform {
	return Transform{Scale: [3]float32{1, 1, 1}}
}

// Matrix returns the column-major model matrix of the transform.
func (t Transform) Matrix() [16]float32 {
	var m [16]float32
	common.BuildModelMatrix(m[:], t.Position, t.Rotation, t.Scale)
	return m
}

// FaceID identifies one of the six cube faces.
type FaceID int

const (
	FaceFront FaceID = iota
	FaceBack
	FaceRight
	FaceLeft
	FaceTop
	FaceBottom
)

// String returns the face name.
func (f FaceID) String() string {
	switch f {
	case FaceFront:
		return "front"
	case FaceBack:
		return "back"
	case FaceRight:
		return "right"
	case FaceLeft:
		return "left"
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// FontRole selects one of the font resources supplied to the renderer.
type FontRole int

const (
	FontRegular FontRole = iota
	FontBold
	FontMono
)

// String returns the asset key of the font.
func (r FontRole) String() string {
	switch r {
	case FontRegular:
		return "regular"
	case FontBold:
		return "bold"
	case FontMono:
		return "mono"
	default:
		return "unknown"
	}
}

// Anchor places text relative to its position: X 0 = left, 1 = right; Y 0 = top, 1 = bottom.
type Anchor struct {
	X, Y float32
}

var (
	AnchorLeftTop    = Anchor{X: 0, Y: 0}
	AnchorLeftBottom = Anchor{X: 0, Y: 1}
	AnchorCenter     = Anchor{X: 0.5, Y: 0.5}
)

// Text is a label drawn on a face. Position is in face-local units, origin at the face
// center, +Y up.
type Text struct {
	Content  string
	Font     FontRole
	Size     float32
	Position [2]float32
	Anchor   Anchor
	// MaxWidth wraps the text at this width; 0 disables wrapping.
	MaxWidth float32
	Color    [3]float32
}

// LogoRole selects one of the logo assets supplied to the renderer.
type LogoRole int

const (
	LogoEvent LogoRole = iota
	LogoVercel
)

// String returns the asset key of the logo.
func (r LogoRole) String() string {
	switch r {
	case LogoEvent:
		return "event"
	case LogoVercel:
		return "vercel"
	default:
		return "unknown"
	}
}

// Logo is an external image drawn centered at Position and fitted into Size.
type Logo struct {
	Role     LogoRole
	Position [2]float32
	Size     [2]float32
	// Color tints the built-in artwork used when the asset is unavailable.
	Color [3]float32
}

// Date is the two-line event date caption, centered on the face.
type Date struct {
	Lines [2]string
	Font  FontRole
	Size  float32
	// LineOffset is the distance of each line center from the face center.
	LineOffset float32
	Color      [3]float32
}

// Texts expands the date into its two centered labels, top line first.
func (d Date) Texts() []Text {
	return []Text{
		{Content: d.Lines[0], Font: d.Font, Size: d.Size, Position: [2]float32{0, d.LineOffset}, Anchor: AnchorCenter, Color: d.Color},
		{Content: d.Lines[1], Font: d.Font, Size: d.Size, Position: [2]float32{0, -d.LineOffset}, Anchor: AnchorCenter, Color: d.Color},
	}
}

// Face is one side of the cube: a translucent plane carrying text, a logo or a date.
type Face struct {
	ID        FaceID
	Transform Transform
	Size      [2]float32
	Material  material.Physical
	Texts     []Text
	Logo      *Logo
	Date      *Date
}

// ModelMatrix composes the root transform with the face transform.
//
// Parameters:
//   - root: the cube root transform
//
// Returns:
//   - [16]float32: the column-major world matrix of the face
func (f Face) ModelMatrix(root Transform) [16]float32 {
	var out [16]float32
	r, l := root.Matrix(), f.Transform.Matrix()
	common.Mul4(out[:], r[:], l[:])
	return out
}

// Labels returns every text drawn on the face, date lines included.
func (f Face) Labels() []Text {
	labels := append([]Text(nil), f.Texts...)
	if f.Date != nil {
		labels = append(labels, f.Date.Texts()...)
	}
	return labels
}

// ContentKey identifies the face content independent of its material, so a baked texture
// can be reused while only color or gloss changes.
func (f Face) ContentKey() string {
	key := fmt.Sprintf("%d|%v|%+v", f.ID, f.Size, f.Labels())
	if f.Logo != nil {
		key += fmt.Sprintf("|%+v", *f.Logo)
	}
	return key
}

// EnvironmentMap is a three-band radiance approximation of an image-based lighting preset.
type EnvironmentMap struct {
	Preset   params.Environment
	Sky      [3]float32
	Horizon  [3]float32
	Ground   [3]float32
	Exposure float32
}

// CameraRig is the initial camera setup of the scene.
type CameraRig struct {
	Position    [3]float32
	Target      [3]float32
	FovY        float32
	Near, Far   float32
	ZoomEnabled bool
}

// Graph is the derived, disposable description of one frame's objects, materials and lights.
type Graph struct {
	Root        Transform
	Faces       []Face
	Lights      []light.Light
	Environment EnvironmentMap
	Camera      CameraRig
	ClearColor  [4]float32
}

// WithRootRotation returns a copy of the graph whose root is rotated by angle radians about Y.
// The faces are shared with the receiver and left untouched.
//
// Parameters:
//   - angle: the cumulative rotation in radians
//
// Returns:
//   - Graph: the rotated copy
func (g Graph) WithRootRotation(angle float32) Graph {
	g.Root.Rotation[1] = angle
	return g
}

// Face looks up a face by id.
func (g Graph) Face(id FaceID) (Face, bool) {
	for _, f := range g.Faces {
		if f.ID == id {
			return f, true
		}
	}
	return Face{}, false
}

// LightsOfType returns the lights of the given type, in graph order.
func (g Graph) LightsOfType(t light.LightType) []light.Light {
	var out []light.Light
	for _, l := range g.Lights {
		if l.Type == t {
			out = append(out, l)
		}
	}
	return out
}
