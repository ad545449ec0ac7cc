package renderer

import (
	"github.com/Carmen-Shannon/oxy-badge/common"
	"github.com/Carmen-Shannon/oxy-badge/engine/scene"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend is the GPU side of the Renderer: it owns the surface, the face pipeline and
// one texture plus uniform buffer per cube face.
type RendererBackend interface {
	// ConfigureSurface (re)creates the swapchain and the size-dependent attachments.
	// A zero-sized surface is skipped until the next resize.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the attachments could not be created
	ConfigureSurface(width, height int) error

	// SetPresentMode sets the surface present mode. Takes effect on the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// UploadFaceTexture replaces the content texture of a face.
	//
	// Parameters:
	//   - face: the face whose texture is replaced
	//   - texture: the baked RGBA pixels
	//
	// Returns:
	//   - error: an error if the texture could not be created
	UploadFaceTexture(face scene.FaceID, texture common.TextureStagingData) error

	// DrawFrame writes the frame uniforms, draws the faces in the given order and presents.
	//
	// Parameters:
	//   - frame: the packed frame
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired or the submission failed
	DrawFrame(frame GPUFrame) error

	// Release frees every GPU resource held by the backend.
	Release()
}
