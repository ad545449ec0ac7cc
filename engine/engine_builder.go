package engine

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy-badge/engine/camera"
	"github.com/Carmen-Shannon/oxy-badge/engine/profiler"
	"github.com/Carmen-Shannon/oxy-badge/engine/renderer"
	"github.com/Carmen-Shannon/oxy-badge/engine/scene"
	"github.com/Carmen-Shannon/oxy-badge/engine/window"
)

// EngineBuilderOption is a functional option for configuring a RenderLoop.
type EngineBuilderOption func(*renderLoop)

// WithWindow sets the window whose message loop drives the frames.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *renderLoop) {
		e.window = w
	}
}

// WithRenderer sets the renderer each frame is drawn with.
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *renderLoop) {
		e.renderer = r
	}
}

// WithCamera sets the camera the badge is viewed through.
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *renderLoop) {
		e.camera = c
	}
}

// WithGraphSource sets the function that returns the current scene graph. It is called once per
// frame on the main thread.
//
// Parameters:
//   - source: returns the graph to render, without root rotation
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithGraphSource(source func() scene.Graph) EngineBuilderOption {
	return func(e *renderLoop) {
		e.graphSource = source
	}
}

// WithRotationSpeed sets the function that returns the idle rotation speed in radians per second.
func WithRotationSpeed(speed func() float64) EngineBuilderOption {
	return func(e *renderLoop) {
		if speed != nil {
			e.rotationSpeed = speed
		}
	}
}

func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *renderLoop) {
		e.profiler = p
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *renderLoop) {
		e.profilingEnabled = enabled
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *renderLoop) {
		e.renderFrameLimit = frameDuration(fps)
	}
}

// WithClock replaces time.Now for frame timing.
func WithClock(now func() time.Time) EngineBuilderOption {
	return func(e *renderLoop) {
		if now != nil {
			e.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) EngineBuilderOption {
	return func(e *renderLoop) {
		if logger != nil {
			e.logger = logger
		}
	}
}
