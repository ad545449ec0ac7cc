package link

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-badge/engine/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() params.Parameters {
	p := params.Defaults()
	p.DisplayName = "Ada Lovelace & Co + 100%"
	p.CompanyName = "Analytical Engines, Ltd."
	p.BaseColor = "#a1B2c3"
	p.Glossiness = 0.37
	p.SurfaceBlur = 0.01
	p.LightIntensity = 2.9
	p.Environment = params.EnvironmentNight
	p.RotationSpeed = 0.85
	p.ControlsVisible = false
	return p
}

func TestEncodeKeyOrder(t *testing.T) {
	c := NewCodec()
	got := c.Encode(params.Defaults())
	assert.Equal(t,
		"name=Your+Name&company=Your+Company&color=%23006EFE&glossiness=0.9&blur=0.1&lightIntensity=1.5",
		got)
}

func TestRoundTripBaseline(t *testing.T) {
	c := NewCodec()
	p := sample()

	got := c.Decode(c.Encode(p))

	assert.Equal(t, p.DisplayName, got.DisplayName)
	assert.Equal(t, p.CompanyName, got.CompanyName)
	assert.Equal(t, p.BaseColor, got.BaseColor)
	assert.Equal(t, p.Glossiness, got.Glossiness)
	assert.Equal(t, p.SurfaceBlur, got.SurfaceBlur)
	assert.Equal(t, p.LightIntensity, got.LightIntensity)

	// Not encoded: always back to defaults.
	assert.Equal(t, params.DefaultEnvironment, got.Environment)
	assert.Equal(t, params.DefaultRotationSpeed, got.RotationSpeed)
	assert.Equal(t, params.DefaultControls, got.ControlsVisible)
}

func TestRoundTripFullState(t *testing.T) {
	c := NewCodec(WithFullState(true))
	require.True(t, c.FullState())
	p := sample()

	got := c.Decode(c.Encode(p))

	assert.Equal(t, params.EnvironmentNight, got.Environment)
	assert.Equal(t, 0.85, got.RotationSpeed)
	assert.Equal(t, params.DefaultControls, got.ControlsVisible)
}

func TestDecodeEmptyYieldsDefaults(t *testing.T) {
	c := NewCodec()
	assert.Equal(t, params.Defaults(), c.Decode(""))
	assert.Equal(t, params.Defaults(), c.Decode("?"))
}

func TestDecodeMalformedFieldsFallBack(t *testing.T) {
	c := NewCodec(WithFullState(true))

	tests := []struct {
		name  string
		query string
		check func(t *testing.T, p params.Parameters)
	}{
		{"non-numeric glossiness", "glossiness=notanumber", func(t *testing.T, p params.Parameters) {
			assert.Equal(t, params.DefaultGlossiness, p.Glossiness)
		}},
		{"NaN blur", "blur=NaN", func(t *testing.T, p params.Parameters) {
			assert.Equal(t, params.DefaultSurfaceBlur, p.SurfaceBlur)
		}},
		{"infinite light", "lightIntensity=Inf", func(t *testing.T, p params.Parameters) {
			assert.Equal(t, params.DefaultLightIntensity, p.LightIntensity)
		}},
		{"overflowing light", "lightIntensity=1e999", func(t *testing.T, p params.Parameters) {
			assert.Equal(t, params.DefaultLightIntensity, p.LightIntensity)
		}},
		{"out of range clamps", "lightIntensity=7&glossiness=-3", func(t *testing.T, p params.Parameters) {
			assert.Equal(t, 3.0, p.LightIntensity)
			assert.Equal(t, 0.0, p.Glossiness)
		}},
		{"bad color", "color=%23XYZ123", func(t *testing.T, p params.Parameters) {
			assert.Equal(t, params.DefaultBaseColor, p.BaseColor)
		}},
		{"bad escape keeps other pairs", "name=%zz&company=Acme", func(t *testing.T, p params.Parameters) {
			assert.Equal(t, params.DefaultDisplayName, p.DisplayName)
			assert.Equal(t, "Acme", p.CompanyName)
		}},
		{"unknown environment", "environment=moon", func(t *testing.T, p params.Parameters) {
			assert.Equal(t, params.DefaultEnvironment, p.Environment)
		}},
		{"unknown keys ignored", "foo=bar&name=Zed", func(t *testing.T, p params.Parameters) {
			assert.Equal(t, "Zed", p.DisplayName)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, c.Decode(tt.query))
		})
	}
}

func TestDecodeIgnoresFullStateKeysByDefault(t *testing.T) {
	got := NewCodec().Decode("environment=night&rotationSpeed=0.9")
	assert.Equal(t, params.DefaultEnvironment, got.Environment)
	assert.Equal(t, params.DefaultRotationSpeed, got.RotationSpeed)
}

func TestDecodeURL(t *testing.T) {
	c := NewCodec()

	got := c.DecodeURL("https://badge.example.com/conf?name=Grace&blur=0.4#top")
	assert.Equal(t, "Grace", got.DisplayName)
	assert.Equal(t, 0.4, got.SurfaceBlur)

	got = c.DecodeURL("name=Linus&color=%23000000")
	assert.Equal(t, "Linus", got.DisplayName)
	assert.Equal(t, "#000000", got.BaseColor)

	assert.Equal(t, params.Defaults(), c.DecodeURL("https://badge.example.com/"))
	assert.Equal(t, params.Defaults(), c.DecodeURL("%"))
}

func TestShareURL(t *testing.T) {
	c := NewCodec()
	p := params.Defaults()

	got, err := c.ShareURL("https://badge.example.com/conf?old=1#frag", p)
	require.NoError(t, err)
	assert.Equal(t, "https://badge.example.com/conf?"+c.Encode(p), got)

	back := c.DecodeURL(got)
	assert.Equal(t, params.Defaults(), back)

	_, err = c.ShareURL("/relative/path", p)
	assert.True(t, errors.Is(err, ErrInvalidLocation))
}
