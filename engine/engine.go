// Package engine drives the badge: it advances the idle rotation, reads the current scene graph
// and hands it to the renderer once per iteration of the window message loop.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-badge/engine/camera"
	"github.com/Carmen-Shannon/oxy-badge/engine/profiler"
	"github.com/Carmen-Shannon/oxy-badge/engine/renderer"
	"github.com/Carmen-Shannon/oxy-badge/engine/scene"
	"github.com/Carmen-Shannon/oxy-badge/engine/window"
)

var (
	// ErrNotConfigured is returned by Run and Frame when the window, renderer, camera or graph
	// source is missing.
	ErrNotConfigured = errors.New("render loop is not configured")

	// ErrFramePanic wraps a panic recovered from a frame.
	ErrFramePanic = errors.New("frame panicked")
)

// renderLoop implements the RenderLoop interface.
type renderLoop struct {
	mu *sync.Mutex

	quitChannel chan struct{}
	quitOnce    sync.Once

	window   window.Window
	renderer renderer.Renderer
	camera   camera.Camera

	graphSource   func() scene.Graph
	rotationSpeed func() float64
	angle         float64

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	now              func() time.Time
	lastFrame        time.Time

	panicErr error
	logger   *slog.Logger
}

// RenderLoop spins the badge and renders it every iteration of the window message loop.
type RenderLoop interface {
	// Advance adds speed * elapsed to the idle rotation angle. Negative or NaN durations
	// are ignored.
	//
	// Parameters:
	//   - elapsedSeconds: time since the previous frame
	//
	// Returns:
	//   - float64: the cumulative rotation angle in radians
	Advance(elapsedSeconds float64) float64

	// Frame advances the rotation, applies it to the current graph's root and renders it.
	//
	// Parameters:
	//   - elapsedSeconds: time since the previous frame
	//
	// Returns:
	//   - error: the renderer error, if any
	Frame(elapsedSeconds float64) error

	// Run drives frames from the window message loop. Blocks until the window closes,
	// ctx is cancelled or Quit is called. Must be called on the main thread.
	//
	// Returns:
	//   - error: ctx.Err() on cancellation, a wrapped ErrFramePanic if a frame panicked
	Run(ctx context.Context) error

	// Quit stops the loop after the current iteration. Safe to call multiple times.
	Quit()

	// Angle returns the cumulative rotation angle in radians.
	Angle() float64

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop.
	SetRenderFrameLimit(fps float64)

	EnableProfiler()
	DisableProfiler()
}

var _ RenderLoop = &renderLoop{}

// NewRenderLoop creates a RenderLoop with the options applied. When both a window and a renderer
// are supplied, window resizes reconfigure the surface and the camera aspect, and left-drag
// orbits the camera.
//
// Parameters:
//   - options: functional options for loop configuration
//
// Returns:
//   - RenderLoop: the loop
func NewRenderLoop(options ...EngineBuilderOption) RenderLoop {
	e := &renderLoop{
		mu:            &sync.Mutex{},
		quitChannel:   make(chan struct{}),
		rotationSpeed: func() float64 { return 0 },
		profiler:      profiler.NewProfiler(),
		now:           time.Now,
		logger:        slog.Default(),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if e.renderer != nil {
				e.renderer.Resize(width, height)
			}
			if e.camera != nil && height > 0 {
				e.camera.SetAspect(float32(width) / float32(height))
			}
		})
		if e.camera != nil && e.camera.Controller() != nil {
			ctrl := e.camera.Controller()
			e.window.SetDragCallback(ctrl.Drag)
			e.window.SetScrollCallback(ctrl.Zoom)
		}
	}

	return e
}

func (e *renderLoop) Advance(elapsedSeconds float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if elapsedSeconds <= 0 || math.IsNaN(elapsedSeconds) || math.IsInf(elapsedSeconds, 0) {
		return e.angle
	}
	e.angle += e.rotationSpeed() * elapsedSeconds
	return e.angle
}

func (e *renderLoop) Angle() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.angle
}

func (e *renderLoop) Frame(elapsedSeconds float64) error {
	if e.renderer == nil || e.camera == nil || e.graphSource == nil {
		return ErrNotConfigured
	}

	angle := e.Advance(elapsedSeconds)
	g := e.graphSource().WithRootRotation(float32(angle))

	e.camera.Update()
	return e.renderer.Render(g, e.camera.Uniform())
}

func (e *renderLoop) Run(ctx context.Context) error {
	if e.window == nil {
		return ErrNotConfigured
	}

	// the message loop only stops from the main thread; route cancellation through the post queue
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-e.quitChannel:
		case <-done:
			return
		}
		e.window.Post(e.window.RequestClose)
	}()

	e.lastFrame = e.now()
	e.window.SetUpdateCallback(func() {
		e.handleFrame(ctx)
	})
	e.window.ProcessMessages()
	e.window.SetUpdateCallback(nil)

	if err := ctx.Err(); err != nil {
		return err
	}
	return e.panicErr
}

// handleFrame runs one iteration: stop checks, the frame itself, profiling and the frame limit.
// Recovers from panics so the window can shut down cleanly.
func (e *renderLoop) handleFrame(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("render loop recovered from panic", "panic", r)
			e.panicErr = fmt.Errorf("%w: %v", ErrFramePanic, r)
			e.signalQuit()
			e.window.RequestClose()
		}
	}()

	select {
	case <-e.quitChannel:
		e.window.RequestClose()
		return
	case <-ctx.Done():
		e.window.RequestClose()
		return
	default:
	}

	start := e.now()
	elapsed := start.Sub(e.lastFrame).Seconds()
	e.lastFrame = start

	if err := e.Frame(elapsed); err != nil {
		e.logger.Warn("frame failed", "error", err)
		if e.profiler != nil {
			e.profiler.FrameFailed()
		}
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}

	// Frame rate limiting
	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.now().Sub(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// Quit signals the loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *renderLoop) Quit() {
	e.signalQuit()
}

func (e *renderLoop) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *renderLoop) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func (e *renderLoop) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *renderLoop) DisableProfiler() {
	e.profilingEnabled = false
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
