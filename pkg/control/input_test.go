package control

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestRawIntent(t *testing.T) {
	tests := []struct {
		name     string
		held     ActionSet
		movement mgl64.Vec3
		rotation mgl64.Vec3
	}{
		{"idle", 0, mgl64.Vec3{}, mgl64.Vec3{}},
		{"forward", NewActionSet(MoveForward), mgl64.Vec3{0, 0, -1}, mgl64.Vec3{}},
		{"opposing_cancel", NewActionSet(MoveLeft, MoveRight), mgl64.Vec3{}, mgl64.Vec3{}},
		{"diagonal", NewActionSet(MoveUp, MoveRight), mgl64.Vec3{1, 1, 0}, mgl64.Vec3{}},
		{"pitch_up", NewActionSet(PitchUp), mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}},
		{"yaw_right", NewActionSet(YawRight), mgl64.Vec3{}, mgl64.Vec3{0, -1, 0}},
		{"roll_left_and_back", NewActionSet(RollLeft, MoveBack), mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 1}},
		{"toggles_ignored", NewActionSet(ToggleCamera, ToggleRotationMode), mgl64.Vec3{}, mgl64.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RawIntent(tt.held)
			if got.DesiredMovement != tt.movement {
				t.Errorf("movement = %v, expected %v", got.DesiredMovement, tt.movement)
			}
			if got.DesiredRotation != tt.rotation {
				t.Errorf("rotation = %v, expected %v", got.DesiredRotation, tt.rotation)
			}
		})
	}
}

func TestEdgeDetector_FiresOncePerPress(t *testing.T) {
	var d EdgeDetector
	held := NewActionSet(ToggleCamera)

	first := d.Next(held)
	if !first.Pressed.Has(ToggleCamera) {
		t.Fatal("expected press edge on first sample")
	}
	for i := 0; i < 5; i++ {
		if d.Next(held).Pressed.Has(ToggleCamera) {
			t.Fatalf("sample %d: held key produced another press", i)
		}
	}

	d.Next(0)
	if !d.Next(held).Pressed.Has(ToggleCamera) {
		t.Error("expected press edge after release")
	}
}

func TestParseAction(t *testing.T) {
	for a := MoveForward; a < actionCount; a++ {
		got, ok := ParseAction(a.String())
		if !ok || got != a {
			t.Errorf("ParseAction(%q) = %v, %v", a.String(), got, ok)
		}
	}

	if _, ok := ParseAction("warp_drive"); ok {
		t.Error("expected unknown action to fail")
	}
	if got, ok := ParseAction("  Yaw_Left "); !ok || got != YawLeft {
		t.Errorf("ParseAction with padding = %v, %v", got, ok)
	}
}
