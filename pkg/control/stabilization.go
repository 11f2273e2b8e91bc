package control

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-spaceflight/pkg/physics"
)

// Tuning holds the thresholds of the stabilization laws. Angles are in
// radians and rates in rad/s.
type Tuning struct {
	RotationDeadband float64 // full damping settles below this spin rate
	MovementDeadband float64 // m/s, movement damping settles below this speed
	AimSettleAngle   float64 // aim error considered on target
	AimSettleRate    float64 // spin rate braked when on target
	AimMinRate       float64 // floor of the adaptive turn-rate cap
	AimAlignment     float64 // cosine of the spin-direction tolerance
	AimSteerGain     float64 // blend of spin direction toward the aim error, 1 = snap
}

// DefaultTuning returns the stock thresholds
func DefaultTuning() Tuning {
	return Tuning{
		RotationDeadband: mgl64.DegToRad(1.0),
		MovementDeadband: 0.3,
		AimSettleAngle:   math.Pi / 60, // 3°
		AimSettleRate:    math.Pi / 60, // 3°/s
		AimMinRate:       math.Pi / 12, // 15°/s
		AimAlignment:     0.97,         // ~14°
		AimSteerGain:     1.0,
	}
}

// AimTarget is the orientation aim-assist tracks. Valid is false when no
// target could be found this tick.
type AimTarget struct {
	Orientation mgl64.Quat
	Valid       bool
}

// TargetOrientation wraps q as a valid target
func TargetOrientation(q mgl64.Quat) AimTarget {
	return AimTarget{Orientation: q, Valid: true}
}

// BearingTarget returns the orientation whose forward axis (-Z) points from
// position at target.
func BearingTarget(position, target mgl64.Vec3) AimTarget {
	away := position.Sub(target)
	if away.LenSqr() == 0 {
		return AimTarget{}
	}
	return TargetOrientation(physics.RotationArc(physics.AxisZ, away))
}

// brake returns the body-space direction opposing the current spin.
func brake(k Kinematics) mgl64.Vec3 {
	return physics.InverseRotate(k.Orientation, physics.NormalizeOrZero(k.AngularVelocity).Mul(-1))
}

// DampRotation drives the angular velocity toward zero.
func DampRotation(k Kinematics, t Tuning) mgl64.Vec3 {
	if k.AngularVelocity.Len() < t.RotationDeadband {
		return mgl64.Vec3{}
	}
	return brake(k)
}

// DampMovement drives the linear velocity toward zero.
func DampMovement(k Kinematics, t Tuning) mgl64.Vec3 {
	if k.Velocity.Len() < t.MovementDeadband {
		return mgl64.Vec3{}
	}
	return physics.InverseRotate(k.Orientation, physics.NormalizeOrZero(k.Velocity).Mul(-1))
}

// AimAssist steers the spin so the body orientation tracks target, with a
// settle deadband and a turn-rate cap that shrinks as the error closes.
func AimAssist(k Kinematics, target mgl64.Quat, t Tuning) mgl64.Vec3 {
	errorRotation := k.Orientation.Inverse().Mul(target)
	desired := physics.NormalizeOrZero(errorRotation.V)

	angle := physics.AngleBetween(k.Orientation, target)
	speed := k.AngularVelocity.Len()
	maxRate := math.Max(angle/2, t.AimMinRate)

	if angle < t.AimSettleAngle {
		if speed > t.AimSettleRate {
			return brake(k)
		}
		return mgl64.Vec3{}
	}
	if speed > maxRate {
		return brake(k)
	}

	current := physics.InverseRotate(k.Orientation, physics.NormalizeOrZero(k.AngularVelocity))
	if current.Dot(desired) < t.AimAlignment || speed < t.AimMinRate {
		steer := current.Add(desired.Sub(current).Mul(t.AimSteerGain))
		return physics.NormalizeOrZero(steer)
	}
	return mgl64.Vec3{}
}

// ResolveRotation picks the producer of DesiredRotation for one tick. When
// ok is false the caller must leave the previous value in place.
func ResolveRotation(mode RotationMode, raw mgl64.Vec3, k Kinematics, target AimTarget, t Tuning) (rotation mgl64.Vec3, ok bool) {
	switch mode {
	case RotationFullDamping:
		return DampRotation(k, t), true
	case RotationAimAssist:
		if !target.Valid {
			return mgl64.Vec3{}, false
		}
		return AimAssist(k, target.Orientation, t), true
	default:
		return raw, true
	}
}

// ResolveMovement picks the producer of DesiredMovement for one tick.
func ResolveMovement(mode MovementMode, raw mgl64.Vec3, k Kinematics, t Tuning) mgl64.Vec3 {
	if mode == MovementFullDamping {
		return DampMovement(k, t)
	}
	return raw
}
