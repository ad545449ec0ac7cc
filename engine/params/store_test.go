package params

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreDefaults(t *testing.T) {
	s := NewStore()
	assert.Equal(t, Defaults(), s.Snapshot())
	assert.Equal(t, uint64(0), s.Version())
}

func TestNumericSettersClampToDomain(t *testing.T) {
	tests := []struct {
		name   string
		set    func(Store, float64)
		get    func(Store) float64
		domain Domain
	}{
		{"glossiness", Store.SetGlossiness, Store.Glossiness, GlossinessDomain},
		{"surfaceBlur", Store.SetSurfaceBlur, Store.SurfaceBlur, SurfaceBlurDomain},
		{"lightIntensity", Store.SetLightIntensity, Store.LightIntensity, LightIntensityDomain},
		{"rotationSpeed", Store.SetRotationSpeed, Store.RotationSpeed, RotationSpeedDomain},
	}
	inputs := []float64{-10, -0.0001, 0.5, 2.9, 3.0001, 1e9, math.Inf(1), math.Inf(-1), math.NaN()}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			for _, in := range inputs {
				tt.set(s, in)
				got := tt.get(s)
				assert.GreaterOrEqual(t, got, tt.domain.Min, "input %v", in)
				assert.LessOrEqual(t, got, tt.domain.Max, "input %v", in)
			}
		})
	}
}

func TestSetterEdgeValues(t *testing.T) {
	s := NewStore()

	s.SetLightIntensity(math.Inf(1))
	assert.Equal(t, 3.0, s.LightIntensity())

	s.SetGlossiness(math.NaN())
	assert.Equal(t, DefaultGlossiness, s.Glossiness())

	s.SetSurfaceBlur(-1)
	assert.Equal(t, 0.0, s.SurfaceBlur())

	s.SetRotationSpeed(0.75)
	assert.Equal(t, 0.75, s.RotationSpeed())
}

func TestSetBaseColor(t *testing.T) {
	s := NewStore()

	assert.True(t, s.SetBaseColor("#ff00AA"))
	assert.Equal(t, "#ff00AA", s.BaseColor())

	assert.False(t, s.SetBaseColor("blue"))
	assert.False(t, s.SetBaseColor("#12345"))
	assert.Equal(t, "#ff00AA", s.BaseColor())

	s.ResetBaseColor()
	assert.Equal(t, DefaultBaseColor, s.BaseColor())
}

func TestTextSettersBoundAndFilter(t *testing.T) {
	s := NewStore(WithMaxTextLength(20))

	s.SetDisplayName("hello badword1 world")
	assert.Equal(t, "hello ******** world", s.DisplayName())

	s.SetCompanyName("Acme")
	assert.Equal(t, "Acme", s.CompanyName())

	s.SetCompanyName(strings.Repeat("é", 25))
	assert.Equal(t, strings.Repeat("é", 20), s.CompanyName())
}

func TestSetEnvironmentRejectsUnknown(t *testing.T) {
	s := NewStore()

	s.SetEnvironment(EnvironmentForest)
	assert.Equal(t, EnvironmentForest, s.Environment())

	s.SetEnvironment(Environment(42))
	assert.Equal(t, DefaultEnvironment, s.Environment())
}

func TestOnChangeFiresForEveryAcceptedSet(t *testing.T) {
	var fields []Field
	var last Parameters
	s := NewStore(WithOnChange(func(p Parameters, f Field) {
		fields = append(fields, f)
		last = p
	}))

	s.SetDisplayName("Ada")
	s.SetBaseColor("nope")
	s.SetGlossiness(0.3)
	assert.False(t, s.ToggleControls())

	assert.Equal(t, []Field{FieldDisplayName, FieldGlossiness, FieldControlsVisible}, fields)
	assert.Equal(t, s.Snapshot(), last)
	assert.Equal(t, uint64(3), s.Version())
	assert.False(t, FieldControlsVisible.Visual())
	assert.True(t, FieldGlossiness.Visual())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	snap := s.Snapshot()
	snap.DisplayName = "mutated"
	assert.Equal(t, DefaultDisplayName, s.DisplayName())
}

func TestReplaceNormalizes(t *testing.T) {
	var fired []Field
	s := NewStore(WithOnChange(func(_ Parameters, f Field) { fired = append(fired, f) }))

	s.Replace(Parameters{
		DisplayName:    "BadWord2 Jones",
		BaseColor:      "#zzzzzz",
		Glossiness:     4,
		SurfaceBlur:    math.NaN(),
		LightIntensity: -2,
		Environment:    Environment(-1),
		RotationSpeed:  0.5,
	})

	got := s.Snapshot()
	assert.Equal(t, "******** Jones", got.DisplayName)
	assert.Equal(t, DefaultBaseColor, got.BaseColor)
	assert.Equal(t, 1.0, got.Glossiness)
	assert.Equal(t, DefaultSurfaceBlur, got.SurfaceBlur)
	assert.Equal(t, 0.0, got.LightIntensity)
	assert.Equal(t, DefaultEnvironment, got.Environment)
	assert.Equal(t, 0.5, got.RotationSpeed)
	assert.Equal(t, []Field{FieldAll}, fired)
}

func TestWithInitialIsValidated(t *testing.T) {
	p := Defaults()
	p.LightIntensity = 10
	s := NewStore(WithInitial(p))
	assert.Equal(t, 3.0, s.LightIntensity())
	require.Equal(t, uint64(0), s.Version())
}
