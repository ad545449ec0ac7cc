package engine

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-badge/common"
	"github.com/Carmen-Shannon/oxy-badge/engine/camera"
	"github.com/Carmen-Shannon/oxy-badge/engine/loader"
	"github.com/Carmen-Shannon/oxy-badge/engine/params"
	"github.com/Carmen-Shannon/oxy-badge/engine/profiler"
	"github.com/Carmen-Shannon/oxy-badge/engine/renderer"
	"github.com/Carmen-Shannon/oxy-badge/engine/scene"
)

// fakeWindow runs the message loop without a platform window. The loop stops after maxIterations
// so a broken stop path fails the test instead of hanging it.
type fakeWindow struct {
	mu      sync.Mutex
	running bool
	posted  chan func()

	onUpdate func()
	onResize func(width, height int)
	onDrag   func(dx, dy float64)
	onScroll func(delta float32)

	iterations    int
	maxIterations int
	afterUpdate   func(iteration int)
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{running: true, posted: make(chan func(), 16), maxIterations: 1000}
}

func (w *fakeWindow) SetUpdateCallback(callback func()) { w.onUpdate = callback }
func (w *fakeWindow) SetResizeCallback(callback func(width, height int)) { w.onResize = callback }
func (w *fakeWindow) SetScrollCallback(callback func(delta float32)) { w.onScroll = callback }
func (w *fakeWindow) SetKeyDownCallback(func(uint32, common.ModifierKey)) {}
func (w *fakeWindow) SetKeyUpCallback(func(uint32, common.ModifierKey)) {}
func (w *fakeWindow) SetCharCallback(func(rune)) {}
func (w *fakeWindow) SetDragCallback(callback func(dx, dy float64)) { w.onDrag = callback }
func (w *fakeWindow) SetTitle(string) {}
func (w *fakeWindow) Title() string { return "" }
func (w *fakeWindow) SetClipboardText(string) error { return nil }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) Close() error { w.RequestClose(); return nil }
func (w *fakeWindow) Width() int { return 800 }
func (w *fakeWindow) Height() int { return 600 }

func (w *fakeWindow) Post(fn func()) bool {
	select {
	case w.posted <- fn:
		return true
	default:
		return false
	}
}

func (w *fakeWindow) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *fakeWindow) RequestClose() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.running = false
}

func (w *fakeWindow) ProcessMessages() {
	for w.IsRunning() && w.iterations < w.maxIterations {
		w.iterations++
		w.runPosted()
		if w.onUpdate != nil {
			w.onUpdate()
		}
		if w.afterUpdate != nil {
			w.afterUpdate(w.iterations)
		}
		time.Sleep(time.Millisecond)
	}
	w.runPosted()
}

func (w *fakeWindow) runPosted() {
	for {
		select {
		case fn := <-w.posted:
			fn()
		default:
			return
		}
	}
}

type fakeRenderer struct {
	graphs  []scene.Graph
	views   []camera.GPUCameraUniform
	resized [][2]int
	err     error
	panics  bool
}

func (r *fakeRenderer) Render(g scene.Graph, view camera.GPUCameraUniform) error {
	if r.panics {
		panic("device lost")
	}
	r.graphs = append(r.graphs, g)
	r.views = append(r.views, view)
	return r.err
}

func (r *fakeRenderer) Resize(width, height int) { r.resized = append(r.resized, [2]int{width, height}) }
func (r *fakeRenderer) SetPresentMode(renderer.PresentMode) {}
func (r *fakeRenderer) SetAssets(loader.Assets) error { return nil }
func (r *fakeRenderer) Release() {}

type fakeClock struct {
	t    time.Time
	step time.Duration
}

// Now advances by step on every call.
func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func newTestLoop(w *fakeWindow, r *fakeRenderer, speed float64, options ...EngineBuilderOption) (RenderLoop, camera.Camera) {
	g := scene.Build(params.Defaults())
	cam := camera.NewFromRig(g.Camera, 800.0/600.0)
	opts := []EngineBuilderOption{
		WithRenderer(r),
		WithCamera(cam),
		WithGraphSource(func() scene.Graph { return g }),
		WithRotationSpeed(func() float64 { return speed }),
	}
	if w != nil {
		opts = append(opts, WithWindow(w))
	}
	return NewRenderLoop(append(opts, options...)...), cam
}

func TestAdvance(t *testing.T) {
	loop, _ := newTestLoop(nil, &fakeRenderer{}, 0.5)

	assert.InDelta(t, 0.5, loop.Advance(1), 1e-12)
	assert.InDelta(t, 0.75, loop.Advance(0.5), 1e-12)

	t.Run("ignores invalid elapsed", func(t *testing.T) {
		assert.InDelta(t, 0.75, loop.Advance(-1), 1e-12)
		assert.InDelta(t, 0.75, loop.Advance(math.NaN()), 1e-12)
		assert.InDelta(t, 0.75, loop.Advance(math.Inf(1)), 1e-12)
		assert.InDelta(t, 0.75, loop.Angle(), 1e-12)
	})

	t.Run("does not wrap", func(t *testing.T) {
		loop.Advance(100)
		assert.InDelta(t, 50.75, loop.Angle(), 1e-9)
	})
}

func TestAdvanceIsFrameCountIndependent(t *testing.T) {
	const speed, total = 0.37, 1.9

	single, _ := newTestLoop(nil, &fakeRenderer{}, speed)
	single.Advance(total)

	split, _ := newTestLoop(nil, &fakeRenderer{}, speed)
	for range 10 {
		split.Advance(total / 10)
	}

	assert.InDelta(t, speed*total, single.Angle(), 1e-12)
	assert.InDelta(t, single.Angle(), split.Angle(), 1e-12)
}

func TestAdvanceReadsSpeedEachCall(t *testing.T) {
	speed := 1.0
	loop := NewRenderLoop(WithRotationSpeed(func() float64 { return speed }))

	loop.Advance(1)
	speed = 0
	loop.Advance(1)
	speed = -2
	assert.InDelta(t, -1.0, loop.Advance(1), 1e-12)
}

func TestFrameRendersRotatedGraph(t *testing.T) {
	r := &fakeRenderer{}
	loop, cam := newTestLoop(nil, r, 0.5)

	require.NoError(t, loop.Frame(2))
	require.NoError(t, loop.Frame(2))

	require.Len(t, r.graphs, 2)
	assert.InDelta(t, 1.0, r.graphs[0].Root.Rotation[1], 1e-6)
	assert.InDelta(t, 2.0, r.graphs[1].Root.Rotation[1], 1e-6)

	// faces keep their own transforms
	base := scene.Build(params.Defaults())
	assert.Equal(t, base.Faces, r.graphs[1].Faces)
	assert.Equal(t, cam.Uniform(), r.views[1])
}

func TestFrameReturnsRendererError(t *testing.T) {
	r := &fakeRenderer{err: errors.New("surface lost")}
	loop, _ := newTestLoop(nil, r, 0)
	assert.ErrorIs(t, loop.Frame(0.016), r.err)
}

func TestFrameNotConfigured(t *testing.T) {
	assert.ErrorIs(t, NewRenderLoop().Frame(1), ErrNotConfigured)
	assert.ErrorIs(t, NewRenderLoop().Run(context.Background()), ErrNotConfigured)
}

func TestQuitIsIdempotent(t *testing.T) {
	loop, _ := newTestLoop(nil, &fakeRenderer{}, 0)
	assert.NotPanics(t, func() {
		loop.Quit()
		loop.Quit()
	})
}

func TestRunStopsOnQuit(t *testing.T) {
	w := newFakeWindow()
	r := &fakeRenderer{}
	clock := &fakeClock{t: time.Unix(0, 0), step: 10 * time.Millisecond}
	loop, _ := newTestLoop(w, r, 1, WithClock(clock.Now))

	w.afterUpdate = func(i int) {
		if i == 3 {
			loop.Quit()
		}
	}

	require.NoError(t, loop.Run(context.Background()))
	assert.False(t, w.IsRunning())
	assert.Len(t, r.graphs, 3)
	assert.Less(t, w.iterations, w.maxIterations)
	assert.Positive(t, loop.Angle())
}

func TestRunStopsOnContextCancel(t *testing.T) {
	w := newFakeWindow()
	r := &fakeRenderer{}
	loop, _ := newTestLoop(w, r, 1)

	ctx, cancel := context.WithCancel(context.Background())
	w.afterUpdate = func(i int) {
		if i == 2 {
			cancel()
		}
	}

	err := loop.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, w.IsRunning())
	assert.Less(t, w.iterations, w.maxIterations)
}

func TestRunSurvivesFrameErrors(t *testing.T) {
	w := newFakeWindow()
	r := &fakeRenderer{err: errors.New("surface outdated")}
	p := profiler.NewProfiler()
	loop, _ := newTestLoop(w, r, 1, WithProfiler(p))

	w.afterUpdate = func(i int) {
		if i == 5 {
			w.RequestClose()
		}
	}

	require.NoError(t, loop.Run(context.Background()))
	assert.Len(t, r.graphs, 5)
}

func TestRunRecoversFramePanic(t *testing.T) {
	w := newFakeWindow()
	r := &fakeRenderer{panics: true}
	loop, _ := newTestLoop(w, r, 1)

	err := loop.Run(context.Background())
	assert.ErrorIs(t, err, ErrFramePanic)
	assert.False(t, w.IsRunning())
	assert.Equal(t, 1, w.iterations)
}

func TestResizeUpdatesRendererAndCamera(t *testing.T) {
	w := newFakeWindow()
	r := &fakeRenderer{}
	_, cam := newTestLoop(w, r, 0)

	require.NotNil(t, w.onResize)
	w.onResize(1000, 500)
	assert.Equal(t, [][2]int{{1000, 500}}, r.resized)
	assert.InDelta(t, 2.0, cam.Aspect(), 1e-6)

	// a minimized window reports zero height
	w.onResize(0, 0)
	assert.InDelta(t, 2.0, cam.Aspect(), 1e-6)
}

func TestDragOrbitsCamera(t *testing.T) {
	w := newFakeWindow()
	_, cam := newTestLoop(w, &fakeRenderer{}, 0)

	before := cam.Controller().Position()
	require.NotNil(t, w.onDrag)
	w.onDrag(40, 0)
	assert.NotEqual(t, before, cam.Controller().Position())
}

func TestFrameDuration(t *testing.T) {
	assert.Equal(t, time.Duration(0), frameDuration(0))
	assert.Equal(t, time.Duration(0), frameDuration(-30))
	assert.Equal(t, time.Duration(0), frameDuration(math.NaN()))
	assert.Equal(t, 20*time.Millisecond, frameDuration(50))
}
