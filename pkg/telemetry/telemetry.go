// Package telemetry derives display-only flight readouts from physics
// state and exports them as OpenTelemetry gauges.
package telemetry

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-spaceflight/pkg/physics"
)

// StandardGravity is one g in m/s²
const StandardGravity = 9.81

// Snapshot is one tick of derived readouts for a ship.
type Snapshot struct {
	Speed           float64 // m/s
	AngularSpeedDeg float64 // deg/s
	LoadFactor      float64 // g
}

// Compute derives the readouts for a body. The load factor combines the
// body's linear acceleration with the centripetal load felt at pilot, an
// offset from the rotation centre in body space.
func Compute(body *physics.RigidBody, pose physics.Pose, pilot mgl64.Vec3, standardGravity float64) Snapshot {
	linear := body.TotalAcceleration()

	var angular mgl64.Vec3
	if radius := pilot.Len(); radius > 0 {
		tangential := body.AngularVelocity.Cross(pilot).Len()
		towardCentre := pose.Orientation.Rotate(physics.NormalizeOrZero(pilot).Mul(-1))
		angular = towardCentre.Mul(tangential * tangential / radius)
	}

	snapshot := Snapshot{
		Speed:           body.Speed(),
		AngularSpeedDeg: mgl64.RadToDeg(body.AngularSpeed()),
	}
	if standardGravity > 0 {
		snapshot.LoadFactor = linear.Add(angular).Len() / standardGravity
	}
	return snapshot
}

func (s Snapshot) String() string {
	return fmt.Sprintf("Overload: %.2f G\nVelocity: %.2f m/s\nAngular velocity: %.2f deg/s",
		s.LoadFactor, s.Speed, s.AngularSpeedDeg)
}
