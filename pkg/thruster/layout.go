// Package thruster resolves control intent into thruster firings and the
// resulting linear and angular acceleration of a ship.
package thruster

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind groups thrusters that share an audio channel
type Kind string

const (
	Main Kind = "main"
	Side Kind = "side"
)

// Nominal thruster parameters of the stock ship
const (
	MainForce        = 1000.0
	SideForce        = 100.0
	MainExhaustSpeed = 15.0
	SideExhaustSpeed = 5.0
)

// ParseKind converts a config string to a Kind
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Main, Side:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown thruster kind %q", s)
	}
}

// Layout is the fixed thruster set of a ship plus the hull extents used for
// its moment of inertia.
type Layout struct {
	Thrusters []Thruster
	Hull      mgl64.Vec3
}

// DefaultHull is the stock ship's box extents
var DefaultHull = mgl64.Vec3{1, 1, 2.5}

func side(position, direction mgl64.Vec3) Thruster {
	return Thruster{
		Position:     position,
		Direction:    direction,
		Force:        SideForce,
		Kind:         Side,
		ExhaustSpeed: SideExhaustSpeed,
	}
}

// DefaultLayout returns the stock fifteen-thruster ship: one main engine
// at the stern and four side thrusters on each of the top, bottom, left
// and right faces.
func DefaultLayout() Layout {
	up := mgl64.Vec3{0, 1, 0}
	down := mgl64.Vec3{0, -1, 0}
	left := mgl64.Vec3{-1, 0, 0}
	right := mgl64.Vec3{1, 0, 0}

	thrusters := []Thruster{
		{
			Position:     mgl64.Vec3{0, 0, 1.5},
			Direction:    mgl64.Vec3{0, 0, 1},
			Force:        MainForce,
			Kind:         Main,
			ExhaustSpeed: MainExhaustSpeed,
		},
	}

	// top and bottom: fore, aft, port, starboard
	for _, face := range []struct {
		y   float64
		dir mgl64.Vec3
	}{{0.55, up}, {-0.55, down}} {
		thrusters = append(thrusters,
			side(mgl64.Vec3{0, face.y, -1.1}, face.dir),
			side(mgl64.Vec3{0, face.y, 1.1}, face.dir),
			side(mgl64.Vec3{-0.4, face.y, 0}, face.dir),
			side(mgl64.Vec3{0.4, face.y, 0}, face.dir),
		)
	}

	// left and right: fore, aft, high, low
	for _, face := range []struct {
		x   float64
		dir mgl64.Vec3
	}{{-0.55, left}, {0.55, right}} {
		thrusters = append(thrusters,
			side(mgl64.Vec3{face.x, 0, -1.1}, face.dir),
			side(mgl64.Vec3{face.x, 0, 1.1}, face.dir),
			side(mgl64.Vec3{face.x, 0.4, 0}, face.dir),
			side(mgl64.Vec3{face.x, -0.4, 0}, face.dir),
		)
	}

	return Layout{Thrusters: thrusters, Hull: DefaultHull}
}
