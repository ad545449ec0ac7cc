package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPointDefaultsAndOptions(t *testing.T) {
	l := NewPoint(WithPosition(10, 10, 10), WithIntensity(1.5))
	assert.Equal(t, LightTypePoint, l.Type)
	assert.Equal(t, [3]float32{10, 10, 10}, l.Position)
	assert.Equal(t, [3]float32{1, 1, 1}, l.Color)
	assert.Equal(t, float32(1.5), l.Intensity)
	assert.Equal(t, [3]float32{1.5, 1.5, 1.5}, l.Radiance())
}

func TestWithIntensityRejectsNegative(t *testing.T) {
	assert.Equal(t, float32(0), NewAmbient(WithIntensity(-2)).Intensity)
}

func TestGPULightLayout(t *testing.T) {
	g := NewPoint(WithPosition(1, 2, 3), WithColor(0.5, 0.25, 1), WithIntensity(2)).ToGPU()
	require.Equal(t, 32, g.Size())

	buf := g.Marshal()
	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	assert.Equal(t, float32(2), f(4))
	assert.Equal(t, uint32(LightTypePoint), binary.LittleEndian.Uint32(buf[12:]))
	assert.Equal(t, float32(0.25), f(20))
	assert.Equal(t, float32(2), f(28))
}

func TestMarshalLightsCapsAndCounts(t *testing.T) {
	lights := make([]Light, MaxGPULights+2)
	for i := range lights {
		lights[i] = NewPoint()
	}
	buf := MarshalLights(lights)
	require.Len(t, buf, MaxGPULights*32+16)
	assert.Equal(t, uint32(MaxGPULights), binary.LittleEndian.Uint32(buf[MaxGPULights*32:]))

	buf = MarshalLights(lights[:1])
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[MaxGPULights*32:]))
	assert.Equal(t, make([]byte, 32), buf[32:64])
}
