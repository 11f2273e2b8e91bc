package control

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-spaceflight/pkg/physics"
)

// CameraOffset is the chase-camera offset from the ship in camera space
var CameraOffset = mgl64.Vec3{0, 1.5, 10}

// OrbitCamera applies a pointer delta to the camera orientation: yaw about
// the world up axis, then pitch about the camera's own X axis. The pitch is
// dropped when it would tip the camera's up vector below the horizon.
// delta and viewport are in pixels.
func OrbitCamera(orientation mgl64.Quat, delta, viewport mgl64.Vec2) mgl64.Quat {
	if delta.LenSqr() == 0 || viewport[0] <= 0 || viewport[1] <= 0 {
		return orientation
	}
	yaw := -delta[0] / viewport[0] * math.Pi
	pitch := -delta[1] / viewport[1] * math.Pi

	rotation := mgl64.QuatRotate(yaw, physics.AxisY).Mul(orientation)
	withPitch := rotation.Mul(mgl64.QuatRotate(pitch, physics.AxisX))
	if withPitch.Rotate(physics.AxisY).Y() > 0 {
		return withPitch
	}
	return rotation
}

// CameraPosition places the chase camera behind the ship for orientation
func CameraPosition(orientation mgl64.Quat, shipPosition mgl64.Vec3) mgl64.Vec3 {
	return orientation.Rotate(CameraOffset).Add(shipPosition)
}
