package entity

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-spaceflight/pkg/control"
)

// CameraTarget is the player's camera rig. Its orientation is the aim
// target for player aim-assist.
type CameraTarget struct {
	Mode        control.CameraMode
	Orientation mgl64.Quat
	Position    mgl64.Vec3
	// Ship is the ID of the ship the camera follows
	Ship ID
}

// NewCameraTarget creates an absolute-mode camera following ship
func NewCameraTarget(ship ID) *CameraTarget {
	return &CameraTarget{
		Mode:        control.CameraAbsolute,
		Orientation: mgl64.QuatIdent(),
		Ship:        ship,
	}
}

// Toggle advances the camera mode and returns the new mode
func (c *CameraTarget) Toggle() control.CameraMode {
	c.Mode = c.Mode.Next()
	return c.Mode
}

// AimTarget returns the orientation player aim-assist tracks
func (c *CameraTarget) AimTarget() control.AimTarget {
	return control.TargetOrientation(c.Orientation)
}

// Follow places the camera behind ship for the current orientation
func (c *CameraTarget) Follow(shipPosition mgl64.Vec3) {
	c.Position = control.CameraPosition(c.Orientation, shipPosition)
}
