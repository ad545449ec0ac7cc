package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-badge/engine/controller"
	"github.com/Carmen-Shannon/oxy-badge/engine/profiler"
	"github.com/Carmen-Shannon/oxy-badge/engine/renderer"
)

func TestTitleBar(t *testing.T) {
	now := time.Unix(100, 0)
	title := &titleBar{base: "Badge"}

	assert.Equal(t, "Badge", title.compose("", now))
	assert.Equal(t, "Badge  |  Name: \"Ada\"", title.compose(`Name: "Ada"`, now))

	title.notify(controller.Notification{Level: controller.NotificationInfo, Message: "copied"}, now)
	assert.Equal(t, "Badge  |  copied", title.compose("", now.Add(time.Second)))
	assert.Equal(t, "Badge", title.compose("", now.Add(notificationTTL)))

	title.notify(controller.Notification{Level: controller.NotificationError, Message: "failed"}, now)
	assert.Equal(t, "Badge  |  status  |  ! failed", title.compose("status", now))
}

func TestRenderSettings(t *testing.T) {
	assert.Equal(t, renderer.PresentModeVSync, presentMode(true))
	assert.Equal(t, renderer.PresentModeUncapped, presentMode(false))
	assert.Equal(t, renderer.MSAA4x, msaa(true))
	assert.Equal(t, renderer.MSAAOff, msaa(false))
}

func TestServeMetricsRejectsDuplicateCollectors(t *testing.T) {
	m := profiler.NewMetrics().Collectors()
	_, err := serveMetrics("127.0.0.1:0", nil, append(m, m...)...)
	assert.Error(t, err)
}
