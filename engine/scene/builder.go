package scene

import (
	"unicode/utf8"

	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/oxy-badge/common"
	"github.com/Carmen-Shannon/oxy-badge/engine/light"
	"github.com/Carmen-Shannon/oxy-badge/engine/params"
	"github.com/Carmen-Shannon/oxy-badge/engine/renderer/material"
)

// Cube layout.
const (
	HalfExtent = 1.5
	FaceGap    = 0.005
	FaceOffset = HalfExtent + FaceGap/2
	FaceSize   = 2.98

	FaceOpacity            = 0.8
	ClearcoatRoughness     = 0.1
	FaceReflectivity       = 1.0
	MetalnessPerGlossiness = 0.5
)

// Front face typography.
const (
	NameSizeLarge    = 0.35
	NameSizeSmall    = 0.25
	NameSizeLimit    = 20
	NameMaxWidth     = 2.6
	CompanySizeLarge = 0.18
	CompanySizeSmall = 0.12
	CompanySizeLimit = 30
	CaptionSize      = 0.3
	DateSize         = 0.25
	DateLineOffset   = 0.15
)

// Fixed captions.
const (
	CaptionLead  = "I'm going to"
	CaptionEvent = "Next.js Conf"
	DateLine     = "Oct 24"
	YearLine     = "2024"
)

var (
	white = [3]float32{1, 1, 1}

	pointLightPositions = [2][3]float32{{10, 10, 10}, {-10, -10, -10}}
)

// Build derives the scene graph from p. It is pure: equal parameters always yield
// structurally equal graphs, and p is never modified.
//
// Parameters:
//   - p: the validated customization parameters
//
// Returns:
//   - Graph: the scene graph
func Build(p params.Parameters) Graph {
	mat := faceMaterial(p)

	faces := []Face{
		newFace(FaceFront, [3]float32{0, 0, FaceOffset}, [3]float32{}, mat),
		newFace(FaceBack, [3]float32{0, 0, -FaceOffset}, [3]float32{0, math32.Pi, 0}, mat),
		newFace(FaceRight, [3]float32{FaceOffset, 0, 0}, [3]float32{0, math32.Pi / 2, 0}, mat),
		newFace(FaceLeft, [3]float32{-FaceOffset, 0, 0}, [3]float32{0, -math32.Pi / 2, 0}, mat),
		newFace(FaceTop, [3]float32{0, FaceOffset, 0}, [3]float32{-math32.Pi / 2, 0, 0}, mat),
		newFace(FaceBottom, [3]float32{0, -FaceOffset, 0}, [3]float32{math32.Pi / 2, 0, 0}, mat),
	}

	faces[FaceFront].Texts = []Text{
		{
			Content:  p.DisplayName,
			Font:     FontBold,
			Size:     sizeFor(p.DisplayName, NameSizeLimit, NameSizeLarge, NameSizeSmall),
			Position: [2]float32{-1.3, -0.2},
			Anchor:   AnchorLeftBottom,
			MaxWidth: NameMaxWidth,
			Color:    white,
		},
		{
			Content:  p.CompanyName,
			Font:     FontRegular,
			Size:     sizeFor(p.CompanyName, CompanySizeLimit, CompanySizeLarge, CompanySizeSmall),
			Position: [2]float32{-1.3, -0.7},
			Anchor:   AnchorLeftTop,
			Color:    white,
		},
	}
	faces[FaceBack].Texts = []Text{
		{Content: CaptionLead, Font: FontRegular, Size: CaptionSize, Position: [2]float32{-1.3, 1.1}, Anchor: AnchorLeftTop, Color: white},
		{Content: CaptionEvent, Font: FontBold, Size: CaptionSize, Position: [2]float32{-1.3, 0.6}, Anchor: AnchorLeftTop, Color: white},
	}
	faces[FaceRight].Logo = &Logo{Role: LogoEvent, Size: [2]float32{761 * 0.0035, 127 * 0.0035}, Color: white}
	faces[FaceLeft].Logo = &Logo{Role: LogoVercel, Size: [2]float32{3 * 0.45, 3 * 0.45}, Color: white}

	date := Date{Lines: [2]string{DateLine, YearLine}, Font: FontMono, Size: DateSize, LineOffset: DateLineOffset, Color: white}
	topDate, bottomDate := date, date
	faces[FaceTop].Date = &topDate
	faces[FaceBottom].Date = &bottomDate

	intensity := float32(p.LightIntensity)
	lights := []light.Light{light.NewAmbient(light.WithIntensity(intensity))}
	for _, pos := range pointLightPositions {
		lights = append(lights, light.NewPoint(
			light.WithPosition(pos[0], pos[1], pos[2]),
			light.WithIntensity(intensity),
		))
	}

	return Graph{
		Root:        IdentityTransform(),
		Faces:       faces,
		Lights:      lights,
		Environment: EnvironmentFor(p.Environment),
		Camera: CameraRig{
			Position: [3]float32{0, 0, 6},
			FovY:     75 * math32.Pi / 180,
			Near:     0.1,
			Far:      1000,
		},
		ClearColor: [4]float32{0.04, 0.04, 0.05, 1},
	}
}

// faceMaterial derives the shared face material: reflectivity terms scale with glossiness,
// clear coat equals glossiness and roughness equals the surface blur.
func faceMaterial(p params.Parameters) material.Physical {
	g := float32(p.Glossiness)
	return material.NewPhysical(
		material.WithHexColor(common.Coalesce(p.BaseColor, params.DefaultBaseColor)),
		material.WithOpacity(FaceOpacity),
		material.WithMetalness(g*MetalnessPerGlossiness),
		material.WithRoughness(float32(p.SurfaceBlur)),
		material.WithClearcoat(g, ClearcoatRoughness),
		material.WithReflectivity(FaceReflectivity),
		material.WithEnvIntensity(g),
	)
}

func newFace(id FaceID, pos, rot [3]float32, mat material.Physical) Face {
	t := IdentityTransform()
	t.Position = pos
	t.Rotation = rot
	return Face{
		ID:        id,
		Transform: t,
		Size:      [2]float32{FaceSize, FaceSize},
		Material:  mat,
	}
}

// sizeFor picks the large size up to limit runes and the small size beyond it.
func sizeFor(text string, limit int, large, small float32) float32 {
	if utf8.RuneCountInString(text) <= limit {
		return large
	}
	return small
}
