package renderer

import (
	_ "embed"
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/oxy-badge/engine/camera"
	"github.com/Carmen-Shannon/oxy-badge/engine/light"
	"github.com/Carmen-Shannon/oxy-badge/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-badge/engine/scene"
)

// GPUSceneUniformSource is the WGSL Scene struct matching GPUSceneUniform.
//
//go:embed assets/scene.wgsl
var GPUSceneUniformSource string

// GPUFaceUniformSource is the WGSL Face struct matching GPUFaceUniform.
//
//go:embed assets/face.wgsl
var GPUFaceUniformSource string

// Uniform block sizes, matching the Scene and Face structs.
const (
	SceneUniformSize = 272
	FaceUniformSize  = 112
)

// GPUSceneUniform is the per-frame uniform shared by every face draw.
// Layout (272 bytes):
//
//	offset   0: Camera (80 bytes)
//	offset  80: sky vec4 (rgb + exposure)
//	offset  96: horizon vec4
//	offset 112: ground vec4
//	offset 128: lights array + count (144 bytes)
type GPUSceneUniform struct {
	Camera  camera.GPUCameraUniform
	Sky     [4]float32
	Horizon [4]float32
	Ground  [4]float32
	Lights  []light.Light
}

// NewGPUSceneUniform packs the camera, environment and lights of a graph.
//
// Parameters:
//   - g: the scene graph being drawn
//   - view: the camera uniform for this frame
//
// Returns:
//   - GPUSceneUniform: the frame uniform
func NewGPUSceneUniform(g scene.Graph, view camera.GPUCameraUniform) GPUSceneUniform {
	env := g.Environment
	return GPUSceneUniform{
		Camera:  view,
		Sky:     [4]float32{env.Sky[0], env.Sky[1], env.Sky[2], env.Exposure},
		Horizon: [4]float32{env.Horizon[0], env.Horizon[1], env.Horizon[2], 0},
		Ground:  [4]float32{env.Ground[0], env.Ground[1], env.Ground[2], 0},
		Lights:  g.Lights,
	}
}

// Size returns the size of the uniform block in bytes.
func (g *GPUSceneUniform) Size() int {
	return SceneUniformSize
}

// Marshal serializes the uniform block for GPU upload.
//
// Returns:
//   - []byte: the 272-byte buffer
func (g *GPUSceneUniform) Marshal() []byte {
	buf := make([]byte, SceneUniformSize)
	copy(buf, g.Camera.Marshal())
	putVec4(buf[80:], g.Sky)
	putVec4(buf[96:], g.Horizon)
	putVec4(buf[112:], g.Ground)
	copy(buf[128:], light.MarshalLights(g.Lights))
	return buf
}

// GPUFaceUniform is the per-face uniform: world matrix followed by the material.
// Size: 112 bytes.
type GPUFaceUniform struct {
	Model    [16]float32          // offset  0: column-major world matrix
	Material material.GPUPhysical // offset 64: material block (48 bytes)
}

// Size returns the size of the uniform block in bytes.
func (g *GPUFaceUniform) Size() int {
	return FaceUniformSize
}

// Marshal serializes the uniform block for GPU upload.
//
// Returns:
//   - []byte: the 112-byte buffer
func (g *GPUFaceUniform) Marshal() []byte {
	buf := make([]byte, FaceUniformSize)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Model[i]))
	}
	copy(buf[64:], g.Material.Marshal())
	return buf
}

// GPUFaceDraw is one face draw in a frame.
type GPUFaceDraw struct {
	Face    scene.FaceID
	Uniform GPUFaceUniform
}

// GPUFrame is everything the backend needs to draw one frame.
type GPUFrame struct {
	Scene      GPUSceneUniform
	Faces      []GPUFaceDraw // back to front
	ClearColor [4]float32
}

func putVec4(dst []byte, v [4]float32) {
	for i := range 4 {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v[i]))
	}
}
