// pkg/thruster/thruster.go
package thruster

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-spaceflight/pkg/control"
	"github.com/opd-ai/go-spaceflight/pkg/physics"
)

// Thruster is a fixed, unidirectional force emitter mounted on a ship.
// Direction is the way it expels mass; the ship is pushed the other way.
type Thruster struct {
	Position     mgl64.Vec3 // mount offset from the body centre
	Direction    mgl64.Vec3 // unit exhaust direction
	Force        float64    // N
	Kind         Kind
	ExhaustSpeed float64 // m/s, effects only
}

// Torque returns the torque the thruster produces about the body centre,
// in body space.
func (t Thruster) Torque() mgl64.Vec3 {
	return t.Position.Cross(t.Direction.Mul(-t.Force))
}

// CanMove reports whether firing pushes the ship along movement
func (t Thruster) CanMove(movement mgl64.Vec3) bool {
	return movement.LenSqr() > 0 && t.Direction.Dot(movement) < 0
}

// CanRotate reports whether the thruster's torque spins the ship about rotation
func (t Thruster) CanRotate(rotation mgl64.Vec3) bool {
	return rotation.LenSqr() > 0 && t.Torque().Dot(rotation) > 0
}

// Activation is the effects signal for one thruster for one tick.
type Activation struct {
	Index  int
	Kind   Kind
	Active bool
	// ExhaustVelocity is a world-space particle velocity hint, set only
	// for active thrusters.
	ExhaustVelocity mgl32.Vec3
}

// Result is the outcome of resolving a layout for one tick.
type Result struct {
	Acceleration        mgl64.Vec3
	AngularAcceleration mgl64.Vec3
	Activations         []Activation
}

// KindActive reports whether any thruster of kind fired
func (r Result) KindActive(kind Kind) bool {
	for _, a := range r.Activations {
		if a.Active && a.Kind == kind {
			return true
		}
	}
	return false
}

// ActiveCount returns the number of thrusters that fired
func (r Result) ActiveCount() int {
	n := 0
	for _, a := range r.Activations {
		if a.Active {
			n++
		}
	}
	return n
}

// MomentOfInertia returns the diagonal inertia of a box hull with the
// given extents.
func MomentOfInertia(hull mgl64.Vec3, mass float64) mgl64.Vec3 {
	a, b, c := hull[0], hull[1], hull[2]
	return mgl64.Vec3{
		(b*b + c*c) * mass / 12,
		(a*a + c*c) * mass / 12,
		(a*a + b*b) * mass / 12,
	}
}

// Resolve decides which thrusters of layout fire for intent and sums
// their linear and angular accelerations in world space. A thruster fires
// if it can push toward the desired movement or spin toward the desired
// rotation, and a firing thruster contributes to both sums.
func Resolve(layout Layout, body *physics.RigidBody, orientation mgl64.Quat, intent control.Intent) Result {
	inertia := MomentOfInertia(layout.Hull, body.Mass)
	result := Result{Activations: make([]Activation, len(layout.Thrusters))}

	for i, t := range layout.Thrusters {
		activation := Activation{Index: i, Kind: t.Kind}

		if t.CanMove(intent.DesiredMovement) || t.CanRotate(intent.DesiredRotation) {
			forceDirection := physics.NormalizeOrZero(orientation.Rotate(t.Direction.Mul(-1)))

			if body.Mass > 0 {
				result.Acceleration = result.Acceleration.Add(forceDirection.Mul(t.Force / body.Mass))
			}
			angular := physics.DivideComponents(t.Torque(), inertia)
			result.AngularAcceleration = result.AngularAcceleration.Add(orientation.Rotate(angular))

			activation.Active = true
			activation.ExhaustVelocity = physics.ToFloat32(forceDirection.Mul(-t.ExhaustSpeed).Add(body.Velocity))
		}
		result.Activations[i] = activation
	}

	return result
}

// Apply overwrites the body's thrust accelerations with r.
func (r Result) Apply(body *physics.RigidBody) {
	body.Acceleration = r.Acceleration
	body.AngularAcceleration = r.AngularAcceleration
}

// EffectsSink receives per-thruster activation signals for particle and
// audio collaborators. The simulation never reads effect state back.
type EffectsSink interface {
	ThrusterActivated(ship uint64, a Activation)
	ThrusterDeactivated(ship uint64, a Activation)
}

// Signal forwards every activation in r to sink.
func Signal(sink EffectsSink, ship uint64, r Result) {
	if sink == nil {
		return
	}
	for _, a := range r.Activations {
		if a.Active {
			sink.ThrusterActivated(ship, a)
		} else {
			sink.ThrusterDeactivated(ship, a)
		}
	}
}
