package scene

import (
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-badge/common"
	"github.com/Carmen-Shannon/oxy-badge/engine/light"
	"github.com/Carmen-Shannon/oxy-badge/engine/params"
)

func TestBuildIsDeterministic(t *testing.T) {
	p := params.Defaults()
	assert.Equal(t, Build(p), Build(p))
}

func TestBuildHasSixFacesInOrder(t *testing.T) {
	g := Build(params.Defaults())
	require.Len(t, g.Faces, 6)
	for i, f := range g.Faces {
		assert.Equal(t, FaceID(i), f.ID)
		assert.Equal(t, [2]float32{FaceSize, FaceSize}, f.Size)
	}
}

func TestFaceCentersSitJustOutsideTheCube(t *testing.T) {
	g := Build(params.Defaults())
	want := map[FaceID][3]float32{
		FaceFront:  {0, 0, FaceOffset},
		FaceBack:   {0, 0, -FaceOffset},
		FaceRight:  {FaceOffset, 0, 0},
		FaceLeft:   {-FaceOffset, 0, 0},
		FaceTop:    {0, FaceOffset, 0},
		FaceBottom: {0, -FaceOffset, 0},
	}
	for _, f := range g.Faces {
		m := f.ModelMatrix(g.Root)
		center := common.TransformPoint(m[:], [3]float32{})
		for i := range 3 {
			assert.InDelta(t, want[f.ID][i], center[i], 1e-5, "face %s axis %d", f.ID, i)
		}
	}
}

func TestFaceNormalsPointOutward(t *testing.T) {
	g := Build(params.Defaults())
	for _, f := range g.Faces {
		m := f.ModelMatrix(g.Root)
		center := common.TransformPoint(m[:], [3]float32{})
		tip := common.TransformPoint(m[:], [3]float32{0, 0, 1})
		var dot float32
		for i := range 3 {
			dot += (tip[i] - center[i]) * center[i]
		}
		assert.Greater(t, dot, float32(0), "face %s", f.ID)
	}
}

func TestNameSizeThreshold(t *testing.T) {
	p := params.Defaults()

	p.DisplayName = strings.Repeat("a", 20)
	front, _ := Build(p).Face(FaceFront)
	assert.Equal(t, float32(NameSizeLarge), front.Texts[0].Size)

	p.DisplayName = strings.Repeat("a", 21)
	front, _ = Build(p).Face(FaceFront)
	assert.Equal(t, float32(NameSizeSmall), front.Texts[0].Size)
}

func TestCompanySizeThreshold(t *testing.T) {
	p := params.Defaults()

	p.CompanyName = strings.Repeat("é", 30)
	front, _ := Build(p).Face(FaceFront)
	assert.Equal(t, float32(CompanySizeLarge), front.Texts[1].Size)

	p.CompanyName = strings.Repeat("é", 31)
	front, _ = Build(p).Face(FaceFront)
	assert.Equal(t, float32(CompanySizeSmall), front.Texts[1].Size)
}

func TestFrontTextLayout(t *testing.T) {
	front, ok := Build(params.Defaults()).Face(FaceFront)
	require.True(t, ok)
	require.Len(t, front.Texts, 2)

	name, company := front.Texts[0], front.Texts[1]
	assert.Equal(t, params.DefaultDisplayName, name.Content)
	assert.Equal(t, FontBold, name.Font)
	assert.Equal(t, AnchorLeftBottom, name.Anchor)
	assert.Equal(t, float32(NameMaxWidth), name.MaxWidth)

	assert.Equal(t, params.DefaultCompanyName, company.Content)
	assert.Equal(t, FontRegular, company.Font)
	assert.Equal(t, AnchorLeftTop, company.Anchor)
	assert.Greater(t, name.Position[1], company.Position[1])
}

func TestStaticFaces(t *testing.T) {
	g := Build(params.Defaults())

	back, _ := g.Face(FaceBack)
	require.Len(t, back.Texts, 2)
	assert.Equal(t, CaptionLead, back.Texts[0].Content)
	assert.Equal(t, CaptionEvent, back.Texts[1].Content)

	right, _ := g.Face(FaceRight)
	require.NotNil(t, right.Logo)
	assert.Equal(t, LogoEvent, right.Logo.Role)

	left, _ := g.Face(FaceLeft)
	require.NotNil(t, left.Logo)
	assert.Equal(t, LogoVercel, left.Logo.Role)

	for _, id := range []FaceID{FaceTop, FaceBottom} {
		f, _ := g.Face(id)
		require.NotNil(t, f.Date)
		labels := f.Labels()
		require.Len(t, labels, 2)
		assert.Equal(t, DateLine, labels[0].Content)
		assert.Equal(t, YearLine, labels[1].Content)
		assert.Equal(t, FontMono, labels[0].Font)
	}
}

func TestMaterialFollowsParameters(t *testing.T) {
	p := params.Defaults()
	p.BaseColor = "#FF0000"
	p.Glossiness = 0.6
	p.SurfaceBlur = 0.3

	g := Build(p)
	for _, f := range g.Faces {
		m := f.Material
		assert.Equal(t, [3]float32{1, 0, 0}, m.Color)
		assert.InDelta(t, FaceOpacity, m.Opacity, 1e-6)
		assert.InDelta(t, 0.3, m.Metalness, 1e-6)
		assert.InDelta(t, 0.3, m.Roughness, 1e-6)
		assert.InDelta(t, 0.6, m.Clearcoat, 1e-6)
		assert.InDelta(t, ClearcoatRoughness, m.ClearcoatRoughness, 1e-6)
		assert.InDelta(t, 0.6, m.EnvIntensity, 1e-6)
		assert.True(t, m.Transparent())
	}
}

func TestLightsScaleWithIntensity(t *testing.T) {
	p := params.Defaults()
	p.LightIntensity = 2.5
	g := Build(p)

	ambient := g.LightsOfType(light.LightTypeAmbient)
	points := g.LightsOfType(light.LightTypePoint)
	require.Len(t, ambient, 1)
	require.Len(t, points, 2)
	assert.Equal(t, float32(2.5), ambient[0].Intensity)
	for _, l := range points {
		assert.Equal(t, float32(2.5), l.Intensity)
	}
	assert.Equal(t, [3]float32{10, 10, 10}, points[0].Position)
	assert.Equal(t, [3]float32{-10, -10, -10}, points[1].Position)
}

func TestEnvironmentFollowsPreset(t *testing.T) {
	p := params.Defaults()
	p.Environment = params.EnvironmentNight
	g := Build(p)
	assert.Equal(t, params.EnvironmentNight, g.Environment.Preset)
	assert.Equal(t, EnvironmentFor(params.EnvironmentNight), g.Environment)

	assert.Equal(t, params.DefaultEnvironment, EnvironmentFor(params.Environment(99)).Preset)
	for _, e := range params.Environments() {
		assert.Greater(t, EnvironmentFor(e).Exposure, float32(0), e.String())
	}
}

func TestCameraRigHasZoomDisabled(t *testing.T) {
	c := Build(params.Defaults()).Camera
	assert.Equal(t, [3]float32{0, 0, 6}, c.Position)
	assert.InDelta(t, 75*math32.Pi/180, c.FovY, 1e-6)
	assert.False(t, c.ZoomEnabled)
}

func TestWithRootRotationLeavesFacesUntouched(t *testing.T) {
	g := Build(params.Defaults())
	r := g.WithRootRotation(math32.Pi / 2)

	assert.Equal(t, float32(0), g.Root.Rotation[1])
	assert.Equal(t, math32.Pi/2, r.Root.Rotation[1])
	assert.Equal(t, g.Faces, r.Faces)

	front, _ := r.Face(FaceFront)
	m := front.ModelMatrix(r.Root)
	center := common.TransformPoint(m[:], [3]float32{})
	assert.InDelta(t, FaceOffset, center[0], 1e-5)
	assert.InDelta(t, 0, center[2], 1e-5)
}

func TestContentKeyIgnoresMaterial(t *testing.T) {
	p := params.Defaults()
	a, _ := Build(p).Face(FaceFront)
	p.BaseColor = "#00FF00"
	p.Glossiness = 0.1
	b, _ := Build(p).Face(FaceFront)
	assert.Equal(t, a.ContentKey(), b.ContentKey())

	p.DisplayName = "Someone Else"
	c, _ := Build(p).Face(FaceFront)
	assert.NotEqual(t, a.ContentKey(), c.ContentKey())
}

func TestBuilderMemoizesOnVisualParameters(t *testing.T) {
	b := NewBuilder()
	p := params.Defaults()

	first := b.Build(p)
	assert.Equal(t, 1, b.Builds())

	p.ControlsVisible = !p.ControlsVisible
	assert.Equal(t, first, b.Build(p))
	assert.Equal(t, 1, b.Builds())

	p.Glossiness = 0.2
	assert.Equal(t, Build(p), b.Build(p))
	assert.Equal(t, 2, b.Builds())

	b.Invalidate()
	b.Build(p)
	assert.Equal(t, 3, b.Builds())
}
