// pkg/physics/integrator.go
package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Integrate advances a body and its pose by dt seconds using semi-implicit
// Euler: velocity first, then position from the updated velocity.
//
// The orientation step composes three axis rotations in x, y, z order and
// pre-multiplies them onto the current orientation. This is not the
// exponential map of the angular velocity and is kept that way on purpose.
func Integrate(body *RigidBody, pose *Pose, dt float64) {
	body.Velocity = body.Velocity.Add(body.TotalAcceleration().Mul(dt))
	pose.Position = pose.Position.Add(body.Velocity.Mul(dt))

	body.AngularVelocity = body.AngularVelocity.Add(body.AngularAcceleration.Mul(dt))
	pose.Orientation = RotationStep(body.AngularVelocity, dt).Mul(pose.Orientation)
}

// RotationStep returns Rx(ωx·dt)·Ry(ωy·dt)·Rz(ωz·dt).
func RotationStep(angularVelocity mgl64.Vec3, dt float64) mgl64.Quat {
	return EulerXYZ(angularVelocity.Mul(dt))
}
