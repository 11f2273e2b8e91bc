package engine

import (
	"errors"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-spaceflight/pkg/control"
	"github.com/opd-ai/go-spaceflight/pkg/entity"
	"github.com/opd-ai/go-spaceflight/pkg/event"
	"github.com/opd-ai/go-spaceflight/pkg/physics"
	"github.com/opd-ai/go-spaceflight/pkg/telemetry"
	"github.com/opd-ai/go-spaceflight/pkg/thruster"
)

// System priorities. ecs updates higher values first.
const (
	GravityPriority     = 400
	ControlPriority     = 300
	ThrusterPriority    = 200
	IntegrationPriority = 100
	TelemetryPriority   = 0
)

// aiForward is the movement an AI ship always requests
var aiForward = physics.AxisZ.Mul(-1)

// The systems read dt from the simulation rather than the float32 ecs
// argument so integration runs in float64.

// GravitySystem recomputes the gravitational force on every ship
type GravitySystem struct {
	sim *Simulation
}

// Priority satisfies ecs.Prioritizer
func (g *GravitySystem) Priority() int { return GravityPriority }

// Remove satisfies the ecs.System interface
func (g *GravitySystem) Remove(ecs.BasicEntity) {}

// Update satisfies the ecs.System interface
func (g *GravitySystem) Update(float32) {
	physics.ApplyGravity(g.sim.gravityBodies(), g.sim.Config.Physics.GravitationalConstant)
}

// ControlSystem turns input, stabilization modes and aim targets into each
// ship's Intent.
type ControlSystem struct {
	sim *Simulation
}

// Priority satisfies ecs.Prioritizer
func (c *ControlSystem) Priority() int { return ControlPriority }

// Remove satisfies the ecs.System interface
func (c *ControlSystem) Remove(ecs.BasicEntity) {}

// Update satisfies the ecs.System interface
func (c *ControlSystem) Update(float32) {
	for _, ship := range c.sim.Registry.Ships() {
		c.applyToggles(ship)

		if ship.IsPlayer() {
			c.updatePlayer(ship)
		} else {
			c.updateAI(ship)
		}
	}
}

// applyToggles advances the stabilization and camera modes for presses
// since the last tick.
func (c *ControlSystem) applyToggles(ship *entity.Ship) {
	sim := c.sim
	pressed := ship.ConsumePressed()
	if pressed == 0 {
		return
	}

	rotationChanged, movementChanged := ship.Settings.Apply(pressed)
	if rotationChanged {
		sim.EventBus.Publish(event.NewModeEvent(event.RotationModeChanged, sim, ship.GetID(), ship.Settings.Rotation.String()))
		sim.logger.Debug(sim.ctx, "Rotation stabilization changed",
			"ship_id", ship.GetID(),
			"mode", ship.Settings.Rotation.String(),
		)
	}
	if movementChanged {
		sim.EventBus.Publish(event.NewModeEvent(event.MovementModeChanged, sim, ship.GetID(), ship.Settings.Movement.String()))
		sim.logger.Debug(sim.ctx, "Movement stabilization changed",
			"ship_id", ship.GetID(),
			"mode", ship.Settings.Movement.String(),
		)
	}

	if pressed.Has(control.ToggleCamera) && ship.IsPlayer() {
		camera, err := sim.Registry.Camera()
		if err != nil {
			c.skip("camera", err)
			return
		}
		mode := camera.Toggle()
		sim.EventBus.Publish(event.NewModeEvent(event.CameraModeChanged, sim, ship.GetID(), mode.String()))
		sim.logger.Debug(sim.ctx, "Camera mode changed", "mode", mode.String())
	}
}

func (c *ControlSystem) updatePlayer(ship *entity.Ship) {
	sim := c.sim
	raw := control.RawIntent(ship.Input.Held)
	k := ship.Kinematics()

	// Only the one player ship is flown from the controls and camera.
	if player, err := sim.Registry.PlayerShip(); err != nil || player != ship {
		c.skip("player", err)
		return
	}

	var target control.AimTarget
	if ship.Settings.Rotation == control.RotationAimAssist {
		camera, err := sim.Registry.Camera()
		if err != nil {
			c.skip("camera", err)
		} else {
			target = camera.AimTarget()
		}
	}

	if rotation, ok := control.ResolveRotation(ship.Settings.Rotation, raw.DesiredRotation, k, target, sim.tuning); ok {
		ship.Intent.DesiredRotation = rotation
	}
	ship.Intent.DesiredMovement = control.ResolveMovement(ship.Settings.Movement, raw.DesiredMovement, k, sim.tuning)
}

// updateAI flies an AI ship forward while aiming at the player. Without
// exactly one player the ship keeps its last intent.
func (c *ControlSystem) updateAI(ship *entity.Ship) {
	sim := c.sim
	player, err := sim.Registry.PlayerShip()
	if err != nil {
		c.skip("player", err)
		return
	}

	k := ship.Kinematics()
	target := control.BearingTarget(ship.Pose.Position, player.Pose.Position)
	if rotation, ok := control.ResolveRotation(control.RotationAimAssist, ship.Intent.DesiredRotation, k, target, sim.tuning); ok {
		ship.Intent.DesiredRotation = rotation
	}
	ship.Intent.DesiredMovement = control.ResolveMovement(ship.Settings.Movement, aiForward, k, sim.tuning)
}

// skip logs a singleton lookup that left a step out this tick
func (c *ControlSystem) skip(what string, err error) {
	reason := "missing"
	if errors.Is(err, entity.ErrAmbiguous) {
		reason = "ambiguous"
	}
	c.sim.logger.DebugThrottled(c.sim.ctx, c.sim.throttle, what+"_"+reason,
		"Control step skipped",
		"lookup", what,
		"reason", reason,
	)
}

// ThrusterSystem fires thrusters for each ship's Intent and signals the
// effects sink.
type ThrusterSystem struct {
	sim *Simulation
}

// Priority satisfies ecs.Prioritizer
func (t *ThrusterSystem) Priority() int { return ThrusterPriority }

// Remove satisfies the ecs.System interface
func (t *ThrusterSystem) Remove(e ecs.BasicEntity) {
	if forgetter, ok := t.sim.effects.(interface{ Forget(uint64) }); ok {
		forgetter.Forget(e.ID())
	}
}

// Update satisfies the ecs.System interface
func (t *ThrusterSystem) Update(float32) {
	for _, ship := range t.sim.Registry.Ships() {
		result := thruster.Resolve(ship.Layout, ship.Body, ship.Pose.Orientation, ship.Intent)
		result.Apply(ship.Body)
		ship.Thrust = result
		thruster.Signal(t.sim.effects, ship.GetID(), result)
	}
}

// IntegrationSystem advances every ship and keeps the camera rig on the
// ship it follows.
type IntegrationSystem struct {
	sim *Simulation
}

// Priority satisfies ecs.Prioritizer
func (i *IntegrationSystem) Priority() int { return IntegrationPriority }

// Remove satisfies the ecs.System interface
func (i *IntegrationSystem) Remove(ecs.BasicEntity) {}

// Update satisfies the ecs.System interface
func (i *IntegrationSystem) Update(float32) {
	dt := i.sim.dt
	for _, ship := range i.sim.Registry.Ships() {
		physics.Integrate(ship.Body, &ship.Pose, dt)
	}

	camera, err := i.sim.Registry.Camera()
	if err != nil {
		return
	}
	if ship, ok := i.sim.Registry.Ship(camera.Ship); ok {
		camera.Follow(ship.Pose.Position)
	}
}

// TelemetrySystem derives flight readouts for every ship
type TelemetrySystem struct {
	sim   *Simulation
	names map[uint64]string
}

// Priority satisfies ecs.Prioritizer
func (t *TelemetrySystem) Priority() int { return TelemetryPriority }

// Remove satisfies the ecs.System interface
func (t *TelemetrySystem) Remove(e ecs.BasicEntity) {
	if name, ok := t.names[e.ID()]; ok {
		t.sim.recorder.Forget(name)
		delete(t.names, e.ID())
	}
}

// Update satisfies the ecs.System interface
func (t *TelemetrySystem) Update(float32) {
	if t.names == nil {
		t.names = make(map[uint64]string)
	}
	g := t.sim.Config.Telemetry.StandardGravity
	for _, ship := range t.sim.Registry.Ships() {
		t.names[ship.GetID()] = ship.Name
		snapshot := telemetry.Compute(ship.Body, ship.Pose, ship.PilotPosition, g)
		t.sim.recorder.Record(ship.Name, snapshot)
	}
}
