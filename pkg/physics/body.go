// pkg/physics/body.go
package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// RigidBody holds the per-object physics attributes. Only Velocity and
// AngularVelocity carry over between ticks; the acceleration and force
// fields are rewritten every tick.
type RigidBody struct {
	Mass                float64
	Velocity            mgl64.Vec3 // m/s, world space
	AngularVelocity     mgl64.Vec3 // rad/s, world space
	Acceleration        mgl64.Vec3 // thrust-derived, m/s²
	AngularAcceleration mgl64.Vec3 // rad/s²
	GravitationalForce  mgl64.Vec3 // N, cleared before each gravity pass

	// GravitySource marks bodies that pull on others. Sources are never
	// pulled themselves.
	GravitySource bool
}

// NewRigidBody creates a body at rest
func NewRigidBody(mass float64) *RigidBody {
	return &RigidBody{Mass: mass}
}

// NewGravitySource creates a body that exerts gravity
func NewGravitySource(mass float64) *RigidBody {
	return &RigidBody{Mass: mass, GravitySource: true}
}

// TotalAcceleration combines thrust acceleration with gravity.
func (b *RigidBody) TotalAcceleration() mgl64.Vec3 {
	if b.Mass <= 0 {
		return b.Acceleration
	}
	return b.Acceleration.Add(b.GravitationalForce.Mul(1 / b.Mass))
}

// Speed returns the magnitude of the linear velocity
func (b *RigidBody) Speed() float64 {
	return b.Velocity.Len()
}

// AngularSpeed returns the magnitude of the angular velocity in rad/s
func (b *RigidBody) AngularSpeed() float64 {
	return b.AngularVelocity.Len()
}
