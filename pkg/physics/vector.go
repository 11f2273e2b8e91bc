// pkg/physics/vector.go
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Unit axes in body and world space
var (
	AxisX = mgl64.Vec3{1, 0, 0}
	AxisY = mgl64.Vec3{0, 1, 0}
	AxisZ = mgl64.Vec3{0, 0, 1}
)

// NormalizeOrZero returns a unit vector in the same direction, or the zero
// vector when v has no length. mgl64's Normalize divides by zero instead.
func NormalizeOrZero(v mgl64.Vec3) mgl64.Vec3 {
	length := v.Len()
	if length == 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / length)
}

// DivideComponents divides a by b component-wise. Components with a zero
// divisor come out as zero.
func DivideComponents(a, b mgl64.Vec3) mgl64.Vec3 {
	var out mgl64.Vec3
	for i := range out {
		if b[i] != 0 {
			out[i] = a[i] / b[i]
		}
	}
	return out
}

// AngleBetween returns the smallest angle in radians needed to rotate a onto b.
func AngleBetween(a, b mgl64.Quat) float64 {
	dot := math.Abs(a.Dot(b))
	if dot > 1 {
		dot = 1
	}
	return 2 * math.Acos(dot)
}

// InverseRotate expresses a world-space vector in the body frame of q.
func InverseRotate(q mgl64.Quat, v mgl64.Vec3) mgl64.Vec3 {
	return q.Inverse().Rotate(v)
}

// IsFinite reports whether every component of v is a real number.
func IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// ToFloat32 narrows v for render and effects consumers.
func ToFloat32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// QuatToFloat32 narrows q for render consumers.
func QuatToFloat32(q mgl64.Quat) mgl32.Quat {
	return mgl32.Quat{W: float32(q.W), V: ToFloat32(q.V)}
}

// EulerXYZ builds an orientation from per-axis angles in radians, composed
// in x, then y, then z order.
func EulerXYZ(angles mgl64.Vec3) mgl64.Quat {
	return mgl64.QuatRotate(angles[0], AxisX).
		Mul(mgl64.QuatRotate(angles[1], AxisY)).
		Mul(mgl64.QuatRotate(angles[2], AxisZ))
}

// RotationArc returns the shortest rotation taking direction from onto
// direction to. A zero-length input yields the identity.
func RotationArc(from, to mgl64.Vec3) mgl64.Quat {
	if from.LenSqr() == 0 || to.LenSqr() == 0 {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatBetweenVectors(from, to)
}
