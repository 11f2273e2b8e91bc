package config

import (
	"fmt"

	"github.com/opd-ai/go-spaceflight/pkg/entity"
	"github.com/opd-ai/go-spaceflight/pkg/thruster"
	"github.com/opd-ai/go-spaceflight/pkg/validation"
)

// Validate checks every section and reports the first problem wrapped in
// ErrInvalidConfig.
func (c *SimulationConfig) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c *SimulationConfig) validate() error {
	p := c.Physics
	if err := validation.ValidateNonNegative("physics.gravitationalConstant", p.GravitationalConstant); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative("physics.maxTimestep", p.MaxTimestep); err != nil {
		return err
	}
	if err := validation.ValidateTimestep(p.Timestep, p.MaxTimestep); err != nil {
		return fmt.Errorf("physics.timestep: %w", err)
	}

	s := c.Stabilization
	for field, v := range map[string]float64{
		"stabilization.rotationDeadband": s.RotationDeadband,
		"stabilization.movementDeadband": s.MovementDeadband,
		"stabilization.aimSettleAngle":   s.AimSettleAngle,
		"stabilization.aimSettleRate":    s.AimSettleRate,
		"stabilization.aimMinRate":       s.AimMinRate,
	} {
		if err := validation.ValidateNonNegative(field, v); err != nil {
			return err
		}
	}
	if s.AimAlignment < -1 || s.AimAlignment > 1 {
		return fmt.Errorf("stabilization.aimAlignment must be a cosine in [-1, 1]: %v", s.AimAlignment)
	}
	if s.AimSteerGain <= 0 || s.AimSteerGain > 1 {
		return fmt.Errorf("stabilization.aimSteerGain must be in (0, 1]: %v", s.AimSteerGain)
	}

	if err := validation.ValidatePositive("telemetry.standardGravity", c.Telemetry.StandardGravity); err != nil {
		return err
	}

	for i, b := range c.Bodies {
		if err := b.validate(); err != nil {
			return fmt.Errorf("bodies[%d]: %w", i, err)
		}
	}

	players := 0
	names := make(map[string]bool, len(c.Ships))
	for i, sc := range c.Ships {
		if err := sc.validate(); err != nil {
			return fmt.Errorf("ships[%d]: %w", i, err)
		}
		if names[sc.Name] {
			return fmt.Errorf("ships[%d]: duplicate name %q", i, sc.Name)
		}
		names[sc.Name] = true
		if sc.Role == entity.Player.String() {
			players++
		}
	}
	if players > 1 {
		return fmt.Errorf("at most one player ship is allowed, found %d", players)
	}

	return nil
}

func (b BodyConfig) validate() error {
	if _, err := validation.ValidateName(b.Name); err != nil {
		return err
	}
	if err := validation.ValidatePositive("mass", b.Mass); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative("radius", b.Radius); err != nil {
		return err
	}
	return validation.ValidateVector("position", b.Position.Mgl())
}

func (s ShipConfig) validate() error {
	if _, err := validation.ValidateName(s.Name); err != nil {
		return err
	}
	if _, ok := entity.ParseRole(s.Role); !ok {
		return fmt.Errorf("unknown role %q", s.Role)
	}
	if err := validation.ValidatePositive("mass", s.Mass); err != nil {
		return err
	}
	for i, extent := range s.Hull {
		if err := validation.ValidatePositive(fmt.Sprintf("hull[%d]", i), extent); err != nil {
			return err
		}
	}
	if err := validation.ValidateVector("position", s.Position.Mgl()); err != nil {
		return err
	}
	if err := validation.ValidateVector("orientation", s.Orientation.Mgl()); err != nil {
		return err
	}
	if err := validation.ValidateVector("pilotPosition", s.PilotPosition.Mgl()); err != nil {
		return err
	}

	for i, t := range s.Thrusters {
		if _, err := thruster.ParseKind(t.Kind); err != nil {
			return fmt.Errorf("thrusters[%d]: %w", i, err)
		}
		if err := validation.ValidateVector(fmt.Sprintf("thrusters[%d].position", i), t.Position.Mgl()); err != nil {
			return err
		}
		if err := validation.ValidateDirection(fmt.Sprintf("thrusters[%d].direction", i), t.Direction.Mgl()); err != nil {
			return err
		}
		if err := validation.ValidatePositive(fmt.Sprintf("thrusters[%d].force", i), t.Force); err != nil {
			return err
		}
		if err := validation.ValidateNonNegative(fmt.Sprintf("thrusters[%d].exhaustSpeed", i), t.ExhaustSpeed); err != nil {
			return err
		}
	}
	return nil
}
