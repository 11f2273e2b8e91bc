package control

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Action is a discrete pilot control
type Action uint16

const (
	MoveForward Action = iota
	MoveBack
	MoveUp
	MoveDown
	MoveLeft
	MoveRight
	PitchUp
	PitchDown
	YawLeft
	YawRight
	RollLeft
	RollRight
	ToggleCamera
	ToggleRotationMode
	ToggleMovementMode
	actionCount
)

var actionNames = [actionCount]string{
	MoveForward:        "move_forward",
	MoveBack:           "move_back",
	MoveUp:             "move_up",
	MoveDown:           "move_down",
	MoveLeft:           "move_left",
	MoveRight:          "move_right",
	PitchUp:            "pitch_up",
	PitchDown:          "pitch_down",
	YawLeft:            "yaw_left",
	YawRight:           "yaw_right",
	RollLeft:           "roll_left",
	RollRight:          "roll_right",
	ToggleCamera:       "toggle_camera",
	ToggleRotationMode: "toggle_rotation_mode",
	ToggleMovementMode: "toggle_movement_mode",
}

func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return "unknown"
}

// ParseAction looks up an action by its String name
func ParseAction(name string) (Action, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range actionNames {
		if n == name {
			return Action(i), true
		}
	}
	return 0, false
}

// ActionSet is a bitset of actions
type ActionSet uint32

// NewActionSet builds a set from the given actions
func NewActionSet(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s = s.With(a)
	}
	return s
}

// With returns the set including a
func (s ActionSet) With(a Action) ActionSet {
	return s | 1<<a
}

// Has reports whether a is in the set
func (s ActionSet) Has(a Action) bool {
	return s&(1<<a) != 0
}

// InputState is one tick of input for a ship: actions held down and
// actions that went down this tick.
type InputState struct {
	Held    ActionSet
	Pressed ActionSet
}

// EdgeDetector derives press edges from successive held-state samples so
// toggles fire once on press, not on hold.
type EdgeDetector struct {
	previous ActionSet
}

// Next consumes the current held set and returns the tick's input state
func (d *EdgeDetector) Next(held ActionSet) InputState {
	pressed := held &^ d.previous
	d.previous = held
	return InputState{Held: held, Pressed: pressed}
}

var movementAxes = []struct {
	action Action
	axis   mgl64.Vec3
}{
	{MoveForward, mgl64.Vec3{0, 0, -1}},
	{MoveBack, mgl64.Vec3{0, 0, 1}},
	{MoveUp, mgl64.Vec3{0, 1, 0}},
	{MoveDown, mgl64.Vec3{0, -1, 0}},
	{MoveLeft, mgl64.Vec3{-1, 0, 0}},
	{MoveRight, mgl64.Vec3{1, 0, 0}},
}

var rotationAxes = []struct {
	action Action
	axis   mgl64.Vec3
}{
	{PitchUp, mgl64.Vec3{1, 0, 0}},
	{PitchDown, mgl64.Vec3{-1, 0, 0}},
	{YawLeft, mgl64.Vec3{0, 1, 0}},
	{YawRight, mgl64.Vec3{0, -1, 0}},
	{RollLeft, mgl64.Vec3{0, 0, 1}},
	{RollRight, mgl64.Vec3{0, 0, -1}},
}

// RawIntent translates held actions into body-space intent. Opposing
// actions cancel.
func RawIntent(held ActionSet) Intent {
	var intent Intent
	for _, m := range movementAxes {
		if held.Has(m.action) {
			intent.DesiredMovement = intent.DesiredMovement.Add(m.axis)
		}
	}
	for _, r := range rotationAxes {
		if held.Has(r.action) {
			intent.DesiredRotation = intent.DesiredRotation.Add(r.axis)
		}
	}
	return intent
}
