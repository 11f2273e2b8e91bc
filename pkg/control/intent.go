// Package control turns pilot input and stabilization laws into the
// per-tick control intent of a ship.
package control

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Intent is the desired movement and rotation of a ship in body space.
// A zero vector means no intent for that axis-group. Magnitudes are
// advisory; only directions are consumed downstream.
type Intent struct {
	DesiredMovement mgl64.Vec3
	DesiredRotation mgl64.Vec3
}

// HasMovement reports whether any translation is requested
func (i Intent) HasMovement() bool {
	return i.DesiredMovement.LenSqr() > 0
}

// HasRotation reports whether any rotation is requested
func (i Intent) HasRotation() bool {
	return i.DesiredRotation.LenSqr() > 0
}

// Kinematics is the read-only state a stabilization law needs.
type Kinematics struct {
	Orientation     mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
}
