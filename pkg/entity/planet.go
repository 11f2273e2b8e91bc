// pkg/entity/planet.go
package entity

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-spaceflight/pkg/physics"
)

// CelestialBody is a planet, moon or star that pulls on ships
type CelestialBody struct {
	BaseEntity
	Radius float64 // m, informational for renderers
}

// NewCelestialBody creates a stationary gravity source
func NewCelestialBody(name string, mass, radius float64, position mgl64.Vec3) *CelestialBody {
	return &CelestialBody{
		BaseEntity: newBaseEntity(name, physics.NewGravitySource(mass), physics.NewPose(position)),
		Radius:     radius,
	}
}

// SurfaceGravity returns the gravitational acceleration at the body's surface
func (c *CelestialBody) SurfaceGravity(g float64) float64 {
	if c.Radius <= 0 {
		return 0
	}
	return g * c.Body.Mass / (c.Radius * c.Radius)
}
