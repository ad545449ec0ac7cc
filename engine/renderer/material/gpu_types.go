package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUPhysicalSource is the WGSL Material struct matching GPUPhysical.
//
//go:embed assets/material.wgsl
var GPUPhysicalSource string

// GPUPhysical is the GPU-aligned uniform for the face fragment shader.
// Matches the WGSL Material struct in the badge shader.
// Size: 48 bytes (three vec4<f32>).
type GPUPhysical struct {
	BaseColor [4]float32 // offset  0: RGB base color + opacity
	Surface   [4]float32 // offset 16: metalness, roughness, clearcoat, clearcoat roughness
	Extra     [4]float32 // offset 32: reflectivity, environment intensity, unused, unused
}

// ToGPU converts the material into its GPU layout.
//
// Returns:
//   - GPUPhysical: the GPU-aligned material
func (m Physical) ToGPU() GPUPhysical {
	return GPUPhysical{
		BaseColor: m.RGBA(),
		Surface:   [4]float32{m.Metalness, m.Roughness, m.Clearcoat, m.ClearcoatRoughness},
		Extra:     [4]float32{m.Reflectivity, m.EnvIntensity, 0, 0},
	}
}

// Size returns the size of the GPUPhysical struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUPhysical) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUPhysical struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload.
func (g *GPUPhysical) Marshal() []byte {
	buf := make([]byte, 48)
	for i, v := range [...][4]float32{g.BaseColor, g.Surface, g.Extra} {
		for j := range v {
			off := i*16 + j*4
			binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v[j]))
		}
	}
	return buf
}
