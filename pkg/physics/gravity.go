// pkg/physics/gravity.go
package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// GravitationalConstant in m³·kg⁻¹·s⁻²
const GravitationalConstant = 6.67430e-11

// GravityBody pairs a body with its current world position for one
// gravity pass.
type GravityBody struct {
	Body     *RigidBody
	Position mgl64.Vec3
}

// GravitationalForce returns the pull exerted on a body of mass m at pos by
// a source of mass sourceMass at sourcePos. Coincident positions yield zero.
func GravitationalForce(g, m float64, pos mgl64.Vec3, sourceMass float64, sourcePos mgl64.Vec3) mgl64.Vec3 {
	delta := sourcePos.Sub(pos)
	distSq := delta.LenSqr()
	if distSq == 0 {
		return mgl64.Vec3{}
	}
	magnitude := g * sourceMass * m / distSq
	return NormalizeOrZero(delta).Mul(magnitude)
}

// ApplyGravity recomputes GravitationalForce for every non-source body from
// all sources in bodies. Source bodies are not written.
func ApplyGravity(bodies []GravityBody, g float64) {
	sources := make([]GravityBody, 0, len(bodies))
	for _, b := range bodies {
		if b.Body.GravitySource {
			sources = append(sources, b)
		}
	}

	for _, subject := range bodies {
		if subject.Body.GravitySource {
			continue
		}
		force := mgl64.Vec3{}
		for _, source := range sources {
			force = force.Add(GravitationalForce(
				g,
				subject.Body.Mass,
				subject.Position,
				source.Body.Mass,
				source.Position,
			))
		}
		subject.Body.GravitationalForce = force
	}
}
