// pkg/entity/ship.go
package entity

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-spaceflight/pkg/control"
	"github.com/opd-ai/go-spaceflight/pkg/physics"
	"github.com/opd-ai/go-spaceflight/pkg/thruster"
)

// Role defines who flies a ship
type Role int

const (
	Player Role = iota
	AI
)

func (r Role) String() string {
	switch r {
	case Player:
		return "player"
	case AI:
		return "ai"
	default:
		return "unknown"
	}
}

// ParseRole converts a config string to a Role
func ParseRole(s string) (Role, bool) {
	switch s {
	case "player":
		return Player, true
	case "ai":
		return AI, true
	default:
		return 0, false
	}
}

// DefaultPilotPosition is the pilot's seat relative to the ship centre
var DefaultPilotPosition = mgl64.Vec3{0, 0, 1}

// Ship is a thruster-driven rigid body
type Ship struct {
	BaseEntity
	Role          Role
	Layout        thruster.Layout
	Intent        control.Intent
	Settings      control.Settings
	PilotPosition mgl64.Vec3

	// Input is the latest held/pressed sample from the input collaborator
	Input control.InputState
	// Thrust is the last resolved thruster result
	Thrust thruster.Result

	edges control.EdgeDetector
}

// NewShip creates a ship at rest with all stabilization modes off
func NewShip(name string, role Role, mass float64, pose physics.Pose, layout thruster.Layout) *Ship {
	return &Ship{
		BaseEntity:    newBaseEntity(name, physics.NewRigidBody(mass), pose),
		Role:          role,
		Layout:        layout,
		PilotPosition: DefaultPilotPosition,
	}
}

// Feed records the actions currently held and derives press edges from
// the previous sample.
func (s *Ship) Feed(held control.ActionSet) {
	s.Input = s.edges.Next(held)
}

// ConsumePressed returns the press edges of the latest sample and clears
// them so a toggle is applied once even if no new sample arrives.
func (s *Ship) ConsumePressed() control.ActionSet {
	pressed := s.Input.Pressed
	s.Input.Pressed = 0
	return pressed
}

// IsPlayer reports whether the ship is human-flown
func (s *Ship) IsPlayer() bool {
	return s.Role == Player
}
