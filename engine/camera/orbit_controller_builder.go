package camera

import "github.com/chewxy/math32"

// OrbitControllerOption is a functional option for configuring an OrbitController.
type OrbitControllerOption func(*orbitControllerImpl)

// WithRadius sets the initial orbit radius (distance from target).
func WithRadius(radius float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.radius = radius
	}
}

// WithAzimuth sets the initial horizontal angle around the Y axis.
//
// Parameters:
//   - azimuth: horizontal angle in radians (0 = +Z axis)
//
// Returns:
//   - OrbitControllerOption: functional option to set the azimuth
func WithAzimuth(azimuth float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.azimuth = azimuth
	}
}

// WithElevation sets the initial vertical angle from the horizontal plane.
func WithElevation(elevation float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.elevation = elevation
	}
}

// WithTarget sets the look-at/pivot point.
func WithTarget(x, y, z float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.target = [3]float32{x, y, z}
	}
}

// WithEye derives target, radius, azimuth and elevation from an eye position looking at target.
// An eye that coincides with the target is ignored.
//
// Parameters:
//   - eye: world-space camera position
//   - target: world-space look-at point
//
// Returns:
//   - OrbitControllerOption: functional option to set the orbit from an eye position
func WithEye(eye, target [3]float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		dx, dy, dz := eye[0]-target[0], eye[1]-target[1], eye[2]-target[2]
		r := math32.Sqrt(dx*dx + dy*dy + dz*dz)
		if r < 1e-6 {
			return
		}
		oc.target = target
		oc.radius = r
		oc.elevation = math32.Asin(dy / r)
		oc.azimuth = math32.Atan2(dx, dz)
	}
}

// WithSensitivity sets the radians of orbit per pixel of drag.
func WithSensitivity(sensitivity float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		if sensitivity > 0 {
			oc.sensitivity = sensitivity
		}
	}
}

// WithZoom enables or disables zooming.
func WithZoom(enabled bool) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.zoomEnabled = enabled
	}
}

// WithRadiusLimits bounds the orbit radius when zoom is enabled.
//
// Parameters:
//   - minRadius: closest allowed distance
//   - maxRadius: farthest allowed distance
//
// Returns:
//   - OrbitControllerOption: functional option to set the radius limits
func WithRadiusLimits(minRadius, maxRadius float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		if minRadius > 0 && maxRadius >= minRadius {
			oc.minRadius, oc.maxRadius = minRadius, maxRadius
		}
	}
}
