package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPULightSource declares the WGSL Light struct matching GPULight, and MAX_LIGHTS.
//
//go:embed assets/light.wgsl
var GPULightSource string

// MaxGPULights is the number of light slots in the frame uniform.
const MaxGPULights = 4

// GPULight is the GPU-aligned representation of a single light source.
// Matches the WGSL Light struct in the badge shader.
// Size: 32 bytes (two vec4 slots).
type GPULight struct {
	Position  [3]float32 // offset  0: world-space position (point only)
	LightType uint32     // offset 12: 0 = ambient, 1 = point
	Color     [3]float32 // offset 16: RGB color
	Intensity float32    // offset 28: scalar multiplier
}

// ToGPU converts the light into its GPU layout.
//
// Returns:
//   - GPULight: the GPU-aligned light
func (l Light) ToGPU() GPULight {
	return GPULight{
		Position:  l.Position,
		LightType: uint32(l.Type),
		Color:     l.Color,
		Intensity: l.Intensity,
	}
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], g.LightType)
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.Color[2]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Intensity))
	return buf
}

// MarshalLights packs up to MaxGPULights lights followed by a count header.
// Extra lights are dropped; unused slots are zeroed.
//
// Parameters:
//   - lights: the lights to pack
//
// Returns:
//   - []byte: MaxGPULights*32 + 16 bytes ready for GPU upload
func MarshalLights(lights []Light) []byte {
	buf := make([]byte, MaxGPULights*32+16)
	n := min(len(lights), MaxGPULights)
	for i := 0; i < n; i++ {
		g := lights[i].ToGPU()
		copy(buf[i*32:], g.Marshal())
	}
	binary.LittleEndian.PutUint32(buf[MaxGPULights*32:], uint32(n))
	return buf
}
