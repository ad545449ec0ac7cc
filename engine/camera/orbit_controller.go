package camera

import (
	"sync"

	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/oxy-badge/common"
)

// orbitControllerImpl keeps the camera on a sphere around the target using spherical
// coordinates (radius, azimuth, elevation).
type orbitControllerImpl struct {
	mu *sync.Mutex

	position [3]float32
	target   [3]float32

	radius    float32
	azimuth   float32 // around Y, 0 = +Z
	elevation float32 // from the horizontal plane

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	sensitivity float32
	zoomSpeed   float32
	zoomEnabled bool

	home [3]float32 // radius, azimuth, elevation at construction
}

// OrbitController rotates the camera around a target in response to pointer drags.
// Zoom is only honored when enabled; the badge view keeps it disabled.
type OrbitController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - [3]float32: world-space camera position
	Position() [3]float32

	// Target returns the look-at point.
	//
	// Returns:
	//   - [3]float32: world-space target position
	Target() [3]float32

	Radius() float32
	Azimuth() float32
	Elevation() float32
	ZoomEnabled() bool

	// Drag orbits the camera by a pointer delta in pixels. Dragging right swings the camera to
	// the left so the subject appears to turn right; dragging down raises the camera.
	// Elevation stays within limits.
	//
	// Parameters:
	//   - dx: horizontal pointer delta
	//   - dy: vertical pointer delta
	Drag(dx, dy float64)

	// Zoom moves the camera toward the target by delta steps. A no-op when zoom is disabled.
	//
	// Parameters:
	//   - delta: zoom steps, positive is closer
	Zoom(delta float32)

	// Reset returns the camera to its initial orbit.
	Reset()
}

var _ OrbitController = &orbitControllerImpl{}

// NewOrbitController creates an orbit controller looking at the origin from +Z.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - OrbitController: the newly created controller
func NewOrbitController(options ...OrbitControllerOption) OrbitController {
	oc := &orbitControllerImpl{
		mu:           &sync.Mutex{},
		radius:       6,
		minRadius:    1,
		maxRadius:    100,
		minElevation: -(math32.Pi/2 - 0.05),
		maxElevation: math32.Pi/2 - 0.05,
		sensitivity:  0.005,
		zoomSpeed:    0.5,
	}
	for _, option := range options {
		option(oc)
	}
	oc.elevation = common.Clamp(oc.elevation, oc.minElevation, oc.maxElevation)
	oc.radius = common.Clamp(oc.radius, oc.minRadius, oc.maxRadius)
	oc.home = [3]float32{oc.radius, oc.azimuth, oc.elevation}
	oc.updatePosition()
	return oc
}

func (oc *orbitControllerImpl) Position() [3]float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.position
}

func (oc *orbitControllerImpl) Target() [3]float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.target
}

func (oc *orbitControllerImpl) Radius() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.radius
}

func (oc *orbitControllerImpl) Azimuth() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.azimuth
}

func (oc *orbitControllerImpl) Elevation() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.elevation
}

func (oc *orbitControllerImpl) ZoomEnabled() bool {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.zoomEnabled
}

func (oc *orbitControllerImpl) Drag(dx, dy float64) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.azimuth -= float32(dx) * oc.sensitivity
	oc.elevation = common.Clamp(oc.elevation+float32(dy)*oc.sensitivity, oc.minElevation, oc.maxElevation)
	oc.azimuth = math32.Mod(oc.azimuth, 2*math32.Pi)
	oc.updatePosition()
}

func (oc *orbitControllerImpl) Zoom(delta float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	if !oc.zoomEnabled {
		return
	}
	oc.radius = common.Clamp(oc.radius-delta*oc.zoomSpeed, oc.minRadius, oc.maxRadius)
	oc.updatePosition()
}

func (oc *orbitControllerImpl) Reset() {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.radius, oc.azimuth, oc.elevation = oc.home[0], oc.home[1], oc.home[2]
	oc.updatePosition()
}

// updatePosition recomputes the camera position from spherical coordinates.
// Caller must hold the mutex.
func (oc *orbitControllerImpl) updatePosition() {
	cosElev, sinElev := math32.Cos(oc.elevation), math32.Sin(oc.elevation)
	cosAzim, sinAzim := math32.Cos(oc.azimuth), math32.Sin(oc.azimuth)

	oc.position[0] = oc.target[0] + oc.radius*cosElev*sinAzim
	oc.position[1] = oc.target[1] + oc.radius*sinElev
	oc.position[2] = oc.target[2] + oc.radius*cosElev*cosAzim
}
