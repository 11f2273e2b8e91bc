// pkg/thruster/thruster_test.go
package thruster

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-spaceflight/pkg/control"
	"github.com/opd-ai/go-spaceflight/pkg/physics"
)

const epsilon = 1e-9

func vecNear(a, b mgl64.Vec3, tolerance float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tolerance {
			return false
		}
	}
	return true
}

func TestMomentOfInertia(t *testing.T) {
	got := MomentOfInertia(DefaultHull, 1000)
	expected := mgl64.Vec3{7.25 * 1000 / 12, 7.25 * 1000 / 12, 2 * 1000.0 / 12}
	if !vecNear(got, expected, epsilon) {
		t.Errorf("MomentOfInertia() = %v, expected %v", got, expected)
	}
}

func TestThruster_Applicability(t *testing.T) {
	aft := Thruster{Position: mgl64.Vec3{0, 0, 1}, Direction: mgl64.Vec3{0, 0, 1}, Force: 10}

	tests := []struct {
		name     string
		movement mgl64.Vec3
		expected bool
	}{
		{"exactly_opposite_fires", mgl64.Vec3{0, 0, -1}, true},
		{"oblique_opposite_fires", mgl64.Vec3{1, 0, -1}, true},
		{"same_direction_idle", mgl64.Vec3{0, 0, 1}, false},
		{"perpendicular_idle", mgl64.Vec3{1, 0, 0}, false},
		{"no_intent_idle", mgl64.Vec3{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := aft.CanMove(tt.movement); got != tt.expected {
				t.Errorf("CanMove(%v) = %v, expected %v", tt.movement, got, tt.expected)
			}
		})
	}
}

func TestThruster_Torque(t *testing.T) {
	leftAft := Thruster{Position: mgl64.Vec3{-0.55, 0, 1.1}, Direction: mgl64.Vec3{-1, 0, 0}, Force: 100}
	got := leftAft.Torque()
	if !vecNear(got, mgl64.Vec3{0, 110, 0}, epsilon) {
		t.Errorf("Torque() = %v, expected (0, 110, 0)", got)
	}
	if !leftAft.CanRotate(mgl64.Vec3{0, 1, 0}) {
		t.Error("expected left aft thruster to yaw left")
	}
	if leftAft.CanRotate(mgl64.Vec3{0, -1, 0}) {
		t.Error("left aft thruster must not yaw right")
	}
}

func TestResolve_ForwardFiresMainOnly(t *testing.T) {
	body := physics.NewRigidBody(1000)
	intent := control.Intent{DesiredMovement: mgl64.Vec3{0, 0, -1}}

	result := Resolve(DefaultLayout(), body, mgl64.QuatIdent(), intent)

	if result.ActiveCount() != 1 || !result.Activations[0].Active {
		t.Fatalf("expected only the main thruster to fire, got %d active", result.ActiveCount())
	}
	if !result.KindActive(Main) || result.KindActive(Side) {
		t.Error("expected main channel active and side channel idle")
	}
	if !vecNear(result.Acceleration, mgl64.Vec3{0, 0, -1}, epsilon) {
		t.Errorf("Acceleration = %v, expected (0, 0, -1)", result.Acceleration)
	}
	if !vecNear(result.AngularAcceleration, mgl64.Vec3{}, epsilon) {
		t.Errorf("AngularAcceleration = %v, expected zero", result.AngularAcceleration)
	}
}

func TestResolve_YawUsesCouple(t *testing.T) {
	body := physics.NewRigidBody(1000)
	intent := control.Intent{DesiredRotation: mgl64.Vec3{0, 1, 0}}
	inertiaY := 7.25 * 1000 / 12
	alpha := 220 / inertiaY

	tests := []struct {
		name        string
		orientation mgl64.Quat
		expected    mgl64.Vec3
	}{
		{"level", mgl64.QuatIdent(), mgl64.Vec3{0, alpha, 0}},
		{"pitched_up", mgl64.QuatRotate(math.Pi/2, physics.AxisX), mgl64.Vec3{0, 0, alpha}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Resolve(DefaultLayout(), body, tt.orientation, intent)
			if result.ActiveCount() != 2 {
				t.Fatalf("expected 2 active thrusters, got %d", result.ActiveCount())
			}
			if !vecNear(result.Acceleration, mgl64.Vec3{}, epsilon) {
				t.Errorf("Acceleration = %v, expected the couple to cancel", result.Acceleration)
			}
			if !vecNear(result.AngularAcceleration, tt.expected, epsilon) {
				t.Errorf("AngularAcceleration = %v, expected %v", result.AngularAcceleration, tt.expected)
			}
		})
	}
}

func TestResolve_NoIntentNoThrust(t *testing.T) {
	body := physics.NewRigidBody(1000)
	result := Resolve(DefaultLayout(), body, mgl64.QuatIdent(), control.Intent{})

	if result.ActiveCount() != 0 {
		t.Errorf("expected no thrusters firing, got %d", result.ActiveCount())
	}
	if len(result.Activations) != 15 {
		t.Errorf("expected an activation per thruster, got %d", len(result.Activations))
	}
	if result.Acceleration != (mgl64.Vec3{}) || result.AngularAcceleration != (mgl64.Vec3{}) {
		t.Error("expected zero accelerations")
	}
}

func TestResolve_ExhaustHint(t *testing.T) {
	body := physics.NewRigidBody(1000)
	body.Velocity = mgl64.Vec3{1, 2, 3}
	intent := control.Intent{DesiredMovement: mgl64.Vec3{0, 0, -1}}

	result := Resolve(DefaultLayout(), body, mgl64.QuatIdent(), intent)

	main := result.Activations[0]
	expected := mgl32.Vec3{1, 2, 18}
	if !main.ExhaustVelocity.ApproxEqual(expected) {
		t.Errorf("ExhaustVelocity = %v, expected %v", main.ExhaustVelocity, expected)
	}
	if result.Activations[1].ExhaustVelocity != (mgl32.Vec3{}) {
		t.Error("idle thrusters should carry no exhaust hint")
	}
}

func TestResult_ApplyOverwrites(t *testing.T) {
	body := physics.NewRigidBody(1000)
	body.Acceleration = mgl64.Vec3{5, 5, 5}
	body.AngularAcceleration = mgl64.Vec3{1, 1, 1}

	Resolve(DefaultLayout(), body, mgl64.QuatIdent(), control.Intent{}).Apply(body)

	if body.Acceleration != (mgl64.Vec3{}) || body.AngularAcceleration != (mgl64.Vec3{}) {
		t.Errorf("expected stale accelerations cleared, got %v / %v", body.Acceleration, body.AngularAcceleration)
	}
}

type recordingSink struct {
	active   []int
	inactive []int
}

func (r *recordingSink) ThrusterActivated(ship uint64, a Activation) {
	r.active = append(r.active, a.Index)
}

func (r *recordingSink) ThrusterDeactivated(ship uint64, a Activation) {
	r.inactive = append(r.inactive, a.Index)
}

func TestSignal(t *testing.T) {
	body := physics.NewRigidBody(1000)
	result := Resolve(DefaultLayout(), body, mgl64.QuatIdent(), control.Intent{DesiredMovement: mgl64.Vec3{0, 0, -1}})

	sink := &recordingSink{}
	Signal(sink, 7, result)

	if len(sink.active) != 1 || sink.active[0] != 0 {
		t.Errorf("active = %v, expected [0]", sink.active)
	}
	if len(sink.inactive) != 14 {
		t.Errorf("expected 14 inactive signals, got %d", len(sink.inactive))
	}

	Signal(nil, 7, result)
}

func TestDefaultLayout(t *testing.T) {
	layout := DefaultLayout()

	counts := map[Kind]int{}
	for _, th := range layout.Thrusters {
		counts[th.Kind]++
		if math.Abs(th.Direction.Len()-1) > epsilon {
			t.Errorf("thruster at %v has non-unit direction %v", th.Position, th.Direction)
		}
	}
	if counts[Main] != 1 || counts[Side] != 14 {
		t.Errorf("kind counts = %v, expected 1 main and 14 side", counts)
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("main"); err != nil || k != Main {
		t.Errorf("ParseKind(main) = %v, %v", k, err)
	}
	if _, err := ParseKind("ion"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
