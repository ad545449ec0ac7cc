package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-badge/common"
	"github.com/Carmen-Shannon/oxy-badge/engine/params"
)

func newTestPanel(t *testing.T, options ...ControllerBuilderOption) (*Panel, Controller) {
	t.Helper()
	c := newTestController(t, options...)
	c.Activate("")
	return NewPanel(c), c
}

func focusOn(p *Panel, target Control) {
	for p.Focus() != target {
		p.KeyDown(common.KeyTab, 0)
	}
}

func TestPanelTabCyclesFocus(t *testing.T) {
	p, _ := newTestPanel(t)
	assert.Equal(t, ControlName, p.Focus())

	p.KeyDown(common.KeyTab, 0)
	assert.Equal(t, ControlCompany, p.Focus())

	p.KeyDown(common.KeyTab, common.ModShift)
	p.KeyDown(common.KeyTab, common.ModShift)
	assert.Equal(t, ControlRotationSpeed, p.Focus())

	p.KeyDown(common.KeyTab, 0)
	assert.Equal(t, ControlName, p.Focus())
}

func TestPanelEditsName(t *testing.T) {
	p, c := newTestPanel(t)

	// typing without entering edit mode does nothing
	p.Char('x')
	assert.Equal(t, params.DefaultDisplayName, c.Parameters().DisplayName)

	p.KeyDown(common.KeyEnter, 0)
	require.True(t, p.Editing())
	assert.Empty(t, c.Parameters().DisplayName)

	for _, r := range "Adaa" {
		p.Char(r)
	}
	p.KeyDown(common.KeyBackspace, 0)
	assert.Equal(t, "Ada", c.Parameters().DisplayName)
	assert.Contains(t, p.Status(), `Name: "Ada"_`)

	p.KeyDown(common.KeyEnter, 0)
	assert.False(t, p.Editing())
	p.Char('!')
	assert.Equal(t, "Ada", c.Parameters().DisplayName)
}

func TestPanelEditsCompanyWithMultibyteRunes(t *testing.T) {
	p, c := newTestPanel(t)
	focusOn(p, ControlCompany)

	p.KeyDown(common.KeyEnter, 0)
	for _, r := range "Zürich" {
		p.Char(r)
	}
	p.KeyDown(common.KeyBackspace, 0)
	assert.Equal(t, "Züric", c.Parameters().CompanyName)
	p.Char('\n')
	assert.Equal(t, "Züric", c.Parameters().CompanyName)
}

func TestPanelColorDraft(t *testing.T) {
	p, c := newTestPanel(t)
	focusOn(p, ControlColor)

	p.KeyDown(common.KeyEnter, 0)
	for _, r := range "FF00" {
		p.Char(r)
	}
	// incomplete drafts leave the color alone
	assert.Equal(t, params.DefaultBaseColor, c.Parameters().BaseColor)
	assert.Contains(t, p.Status(), "#FF00_")

	p.Char('8')
	p.Char('0')
	assert.Equal(t, "#FF0080", c.Parameters().BaseColor)

	p.Char('1')
	assert.Equal(t, "#FF0080", c.Parameters().BaseColor)

	p.KeyDown(common.KeyBackspace, 0)
	p.Char('F')
	assert.Equal(t, "#FF008F", c.Parameters().BaseColor)

	p.KeyDown(common.KeyF9, 0)
	assert.Equal(t, params.DefaultBaseColor, c.Parameters().BaseColor)
}

func TestPanelSliders(t *testing.T) {
	p, c := newTestPanel(t)

	focusOn(p, ControlGlossiness)
	p.KeyDown(common.KeyLeft, 0)
	assert.Equal(t, 0.89, c.Parameters().Glossiness)
	p.KeyDown(common.KeyRight, common.ModShift)
	p.KeyDown(common.KeyRight, common.ModShift)
	assert.Equal(t, 1.0, c.Parameters().Glossiness)
	assert.Contains(t, p.Status(), "Glossiness: 1.00")

	focusOn(p, ControlLightIntensity)
	p.KeyDown(common.KeyRight, 0)
	assert.Equal(t, 1.6, c.Parameters().LightIntensity)
	assert.Contains(t, p.Status(), "Light Intensity: 1.6")

	focusOn(p, ControlRotationSpeed)
	for range 30 {
		p.KeyDown(common.KeyDown, 0)
	}
	assert.Equal(t, 0.0, c.Parameters().RotationSpeed)

	focusOn(p, ControlBlur)
	p.KeyDown(common.KeyUp, 0)
	assert.Equal(t, 0.11, c.Parameters().SurfaceBlur)
}

func TestPanelEnvironment(t *testing.T) {
	p, c := newTestPanel(t)
	focusOn(p, ControlEnvironment)

	p.KeyDown(common.KeyRight, 0)
	assert.Equal(t, params.EnvironmentPark, c.Parameters().Environment)
	p.KeyDown(common.KeyRight, 0)
	p.KeyDown(common.KeyRight, 0)
	assert.Equal(t, params.EnvironmentSunset, c.Parameters().Environment)
	assert.Contains(t, p.Status(), "Environment: sunset")
}

func TestPanelHiddenControls(t *testing.T) {
	p, c := newTestPanel(t)

	p.KeyDown(common.KeyF1, 0)
	require.False(t, c.Parameters().ControlsVisible)
	assert.Empty(t, p.Status())

	p.KeyDown(common.KeyTab, 0)
	assert.Equal(t, ControlName, p.Focus())

	p.KeyDown(common.KeyF1, 0)
	assert.True(t, c.Parameters().ControlsVisible)
	assert.NotEmpty(t, p.Status())
}

func TestPanelShareKey(t *testing.T) {
	notifier := NewChannelNotifier(2)
	p, c := newTestPanel(t, WithClipboard(&fakeClipboard{}), WithNotifier(notifier))

	p.KeyDown(common.KeyF5, 0)
	assert.NotEmpty(t, c.ShareLink())
	assert.Equal(t, NotificationInfo, nextNotification(t, notifier).Level)
}

func TestControlString(t *testing.T) {
	assert.Equal(t, "Light Intensity", ControlLightIntensity.String())
	assert.Equal(t, "unknown", Control(99).String())
}
