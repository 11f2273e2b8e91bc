// pkg/physics/pose.go
package physics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Pose is the spatial transform of a body. Position is kept in double
// precision so planetary-scale coordinates do not lose metres.
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// NewPose creates an unrotated pose at position
func NewPose(position mgl64.Vec3) Pose {
	return Pose{Position: position, Orientation: mgl64.QuatIdent()}
}

// Forward returns the body's forward direction (-Z) in world space
func (p Pose) Forward() mgl64.Vec3 {
	return p.Orientation.Rotate(AxisZ.Mul(-1))
}

// Up returns the body's up direction (+Y) in world space
func (p Pose) Up() mgl64.Vec3 {
	return p.Orientation.Rotate(AxisY)
}

// Float32 returns the pose narrowed for renderers, relative to origin.
// Subtracting the origin in float64 first keeps the result precise when
// the absolute coordinates are large.
func (p Pose) Float32(origin mgl64.Vec3) (mgl32.Vec3, mgl32.Quat) {
	return ToFloat32(p.Position.Sub(origin)), QuatToFloat32(p.Orientation)
}
