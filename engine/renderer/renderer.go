package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-badge/common"
	"github.com/Carmen-Shannon/oxy-badge/engine/camera"
	"github.com/Carmen-Shannon/oxy-badge/engine/loader"
	"github.com/Carmen-Shannon/oxy-badge/engine/scene"
	"github.com/Carmen-Shannon/oxy-badge/engine/window"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	baker    *FaceBaker
	faceKeys map[scene.FaceID]string

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	textureSize          int
	assets               loader.Assets

	logger *slog.Logger
}

// Renderer draws a scene graph of the badge cube to the window surface.
//
// Face content (text, logos, dates) is baked into textures on the CPU and uploaded only when
// a face's content changes; material, light and camera changes only rewrite uniforms.
type Renderer interface {
	// Render draws one frame of the graph as seen through the camera uniform.
	//
	// Parameters:
	//   - g: the scene graph, root rotation applied
	//   - view: the camera uniform for this frame
	//
	// Returns:
	//   - error: an error if baking, upload or presentation fails
	Render(g scene.Graph, view camera.GPUCameraUniform) error

	// Resize configures the underlying backend to handle a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode changes the present mode of the surface.
	SetPresentMode(mode PresentMode)

	// SetAssets swaps the fonts and logos; every face is re-baked on the next Render.
	//
	// Parameters:
	//   - assets: the new asset set
	//
	// Returns:
	//   - error: an error if the fonts cannot be loaded
	SetAssets(assets loader.Assets) error

	// Release frees the backend and baker resources.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for the window surface with the options applied.
//
// Parameters:
//   - backendType: the type of renderer backend to use (e.g., BackendTypeWGPU)
//   - win: the window whose surface is rendered to
//   - options: a variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if the GPU or the face baker cannot be initialized
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := newRenderer(options...)

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	desc := win.SurfaceDescriptor()
	if desc == nil {
		return nil, window.ErrNotInitialized
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		backend, err := newWGPURendererBackend(desc, r.forceFallbackAdapter, msaa)
		if err != nil {
			return nil, err
		}
		r.backend = backend
	}

	if err := r.init(); err != nil {
		r.backend.Release()
		return nil, err
	}
	if err := r.backend.ConfigureSurface(win.Width(), win.Height()); err != nil {
		r.Release()
		return nil, fmt.Errorf("failed to configure surface: %w", err)
	}
	return r, nil
}

// newRendererWithBackend wires a renderer around an existing backend.
func newRendererWithBackend(backend RendererBackend, options ...RendererBuilderOption) (*renderer, error) {
	if backend == nil {
		return nil, errors.New("nil renderer backend")
	}
	r := newRenderer(options...)
	r.backend = backend
	if err := r.init(); err != nil {
		return nil, err
	}
	return r, nil
}

func newRenderer(options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: BackendTypeWGPU,
		faceKeys:    make(map[scene.FaceID]string),
		textureSize: DefaultTextureSize,
		assets:      loader.NewAssets(),
		logger:      slog.Default(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// init applies pending settings to the backend and creates the baker when none was supplied.
func (r *renderer) init() error {
	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.baker == nil {
		baker, err := NewFaceBaker(WithAssets(r.assets), WithBakeSize(r.textureSize), WithBakerLogger(r.logger))
		if err != nil {
			return err
		}
		r.baker = baker
	}
	return nil
}

func (r *renderer) Render(g scene.Graph, view camera.GPUCameraUniform) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range g.Faces {
		key := f.ContentKey()
		if r.faceKeys[f.ID] == key {
			continue
		}
		tex, err := r.baker.Bake(f)
		if err != nil {
			return err
		}
		if err := r.backend.UploadFaceTexture(f.ID, tex); err != nil {
			return fmt.Errorf("failed to upload %s face: %w", f.ID, err)
		}
		r.faceKeys[f.ID] = key
	}

	return r.backend.DrawFrame(BuildFrame(g, view))
}

func (r *renderer) Resize(width, height int) {
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		r.logger.Error("surface resize failed", "width", width, "height", height, "error", err)
	}
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetAssets(assets loader.Assets) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.baker.SetAssets(assets); err != nil {
		return err
	}
	r.assets = assets
	clear(r.faceKeys)
	return nil
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.baker.Close()
	r.backend.Release()
}

// BuildFrame packs a graph into the GPU frame: the shared scene uniform and one draw per face,
// ordered back to front by distance from the camera so translucent faces blend correctly.
//
// Parameters:
//   - g: the scene graph, root rotation applied
//   - view: the camera uniform for this frame
//
// Returns:
//   - GPUFrame: the packed frame
func BuildFrame(g scene.Graph, view camera.GPUCameraUniform) GPUFrame {
	type sortable struct {
		draw GPUFaceDraw
		dist float32
	}

	items := make([]sortable, 0, len(g.Faces))
	for _, f := range g.Faces {
		model := f.ModelMatrix(g.Root)
		var scale, sized [16]float32
		common.Identity(scale[:])
		scale[0], scale[5] = f.Size[0], f.Size[1]
		common.Mul4(sized[:], model[:], scale[:])

		center := [3]float32{model[12], model[13], model[14]}
		items = append(items, sortable{
			draw: GPUFaceDraw{
				Face: f.ID,
				Uniform: GPUFaceUniform{
					Model:    sized,
					Material: f.Material.ToGPU(),
				},
			},
			dist: distanceSquared(center, view.CameraPosition),
		})
	}
	slices.SortStableFunc(items, func(a, b sortable) int {
		switch {
		case a.dist > b.dist:
			return -1
		case a.dist < b.dist:
			return 1
		default:
			return 0
		}
	})

	frame := GPUFrame{
		Scene:      NewGPUSceneUniform(g, view),
		Faces:      make([]GPUFaceDraw, len(items)),
		ClearColor: g.ClearColor,
	}
	for i, it := range items {
		frame.Faces[i] = it.draw
	}
	return frame
}

func distanceSquared(a, b [3]float32) float32 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return dx*dx + dy*dy + dz*dz
}
