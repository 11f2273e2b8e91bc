// pkg/engine/simulation.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/go-gl/mathgl/mgl64"
	"go.opentelemetry.io/otel/metric"

	"github.com/opd-ai/go-spaceflight/pkg/config"
	"github.com/opd-ai/go-spaceflight/pkg/control"
	"github.com/opd-ai/go-spaceflight/pkg/entity"
	"github.com/opd-ai/go-spaceflight/pkg/event"
	"github.com/opd-ai/go-spaceflight/pkg/logging"
	"github.com/opd-ai/go-spaceflight/pkg/physics"
	"github.com/opd-ai/go-spaceflight/pkg/telemetry"
	"github.com/opd-ai/go-spaceflight/pkg/thruster"
	"github.com/opd-ai/go-spaceflight/pkg/validation"
)

// ErrUnknownShip is returned when an operation names a ship that is not
// part of the simulation.
var ErrUnknownShip = errors.New("unknown ship")

// Simulation runs the flight dynamics of every ship and celestial body.
// Each Step executes gravity, control, thrusters, integration and telemetry
// in that order under a single lock.
type Simulation struct {
	Config   *config.SimulationConfig
	Registry *entity.Registry
	EventBus *event.Bus

	world    ecs.World
	effects  thruster.EffectsSink
	recorder *telemetry.Recorder
	meter    metric.Meter
	logger   *logging.Logger
	throttle *logging.Throttle
	tuning   control.Tuning

	realTime bool

	mu       sync.Mutex
	ctx      context.Context
	running  bool
	ticks    uint64
	dt       float64
	lastTick time.Time
}

// Option configures a Simulation
type Option func(*Simulation)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logging.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// WithEventBus publishes simulation events on bus instead of a private one
func WithEventBus(bus *event.Bus) Option {
	return func(s *Simulation) { s.EventBus = bus }
}

// WithEffects routes thruster activations to sink instead of the event bus
func WithEffects(sink thruster.EffectsSink) Option {
	return func(s *Simulation) { s.effects = sink }
}

// WithMeter creates the telemetry recorder from meter instead of the
// global meter provider.
func WithMeter(meter metric.Meter) Option {
	return func(s *Simulation) { s.meter = meter }
}

// WithRecorder uses an existing telemetry recorder
func WithRecorder(r *telemetry.Recorder) Option {
	return func(s *Simulation) { s.recorder = r }
}

// WithRealTime paces Run so each tick takes dt of wall-clock time
func WithRealTime() Option {
	return func(s *Simulation) { s.realTime = true }
}

// NewSimulation builds the bodies and ships described by cfg. A camera rig
// following the player ship is created when the scene has one.
func NewSimulation(cfg *config.SimulationConfig, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		Config:   cfg,
		Registry: entity.NewRegistry(),
		tuning:   cfg.Stabilization.Tuning(),
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if s.EventBus == nil {
		s.EventBus = event.NewEventBus()
	}
	if s.effects == nil {
		s.effects = event.NewBusEffects(s.EventBus)
	}
	if s.recorder == nil {
		recorder, err := telemetry.NewRecorder(s.meter)
		if err != nil {
			return nil, fmt.Errorf("failed to create telemetry recorder: %w", err)
		}
		s.recorder = recorder
	}
	s.throttle = logging.NewThrottle(1, 5*time.Second)

	s.initSystems()

	for _, bc := range cfg.Bodies {
		s.AddBody(entity.NewCelestialBody(bc.Name, bc.Mass, bc.Radius, bc.Position.Mgl()))
	}
	for i, sc := range cfg.Ships {
		if _, err := s.addShipConfig(sc); err != nil {
			s.throttle.Close()
			return nil, fmt.Errorf("ships[%d]: %w", i, err)
		}
	}

	s.logger.Info(s.ctx, "Simulation created",
		"bodies", len(cfg.Bodies),
		"ships", len(cfg.Ships),
		"timestep", cfg.Physics.Timestep,
	)
	return s, nil
}

// initSystems registers the per-tick systems. ecs runs higher priorities
// first.
func (s *Simulation) initSystems() {
	s.world.AddSystem(&GravitySystem{sim: s})
	s.world.AddSystem(&ControlSystem{sim: s})
	s.world.AddSystem(&ThrusterSystem{sim: s})
	s.world.AddSystem(&IntegrationSystem{sim: s})
	s.world.AddSystem(&TelemetrySystem{sim: s})
}

func (s *Simulation) addShipConfig(sc config.ShipConfig) (*entity.Ship, error) {
	role, ok := entity.ParseRole(sc.Role)
	if !ok {
		return nil, fmt.Errorf("unknown role %q", sc.Role)
	}
	layout, err := sc.Layout()
	if err != nil {
		return nil, err
	}

	ship := entity.NewShip(sc.Name, role, sc.Mass, sc.Pose(), layout)
	ship.PilotPosition = sc.PilotPosition.Mgl()
	s.AddShip(ship)
	return ship, nil
}

// AddShip adds a ship to the simulation. Adding the first player ship
// also creates the camera rig that follows it.
func (s *Simulation) AddShip(ship *entity.Ship) entity.ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Registry.AddShip(ship)
	if ship.IsPlayer() {
		if _, err := s.Registry.Camera(); errors.Is(err, entity.ErrNotFound) {
			camera := entity.NewCameraTarget(ship.GetID())
			camera.Follow(ship.Pose.Position)
			s.Registry.AddCamera(camera)
		}
	}

	s.EventBus.Publish(event.NewShipEvent(event.ShipAdded, s, ship.GetID(), ship.Name))
	s.logger.Debug(s.ctx, "Ship added",
		"ship_id", ship.GetID(),
		"name", ship.Name,
		"role", ship.Role.String(),
		"thrusters", len(ship.Layout.Thrusters),
	)
	return ship.GetID()
}

// AddBody adds a gravity source to the simulation
func (s *Simulation) AddBody(body *entity.CelestialBody) entity.ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Registry.AddBody(body)
	s.EventBus.Publish(event.NewShipEvent(event.BodyAdded, s, body.GetID(), body.Name))
	s.logger.Debug(s.ctx, "Body added",
		"body_id", body.GetID(),
		"name", body.Name,
		"mass", body.Body.Mass,
	)
	return body.GetID()
}

// RemoveShip takes a ship out of the simulation and clears its effect
// and telemetry state.
func (s *Simulation) RemoveShip(id entity.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ship, ok := s.Registry.Ship(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownShip, id)
	}
	s.Registry.Remove(id)
	s.world.RemoveEntity(ship.BasicEntity)
	s.EventBus.Publish(event.NewShipEvent(event.ShipRemoved, s, id, ship.Name))
	return nil
}

// SetInput records the actions held on the ship's controls. Toggles fire
// once per press, on the first tick after the sample that pressed them.
func (s *Simulation) SetInput(id entity.ID, held control.ActionSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ship, ok := s.Registry.Ship(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownShip, id)
	}
	ship.Feed(held)
	return nil
}

// SetCameraOrientation sets the camera rig orientation, which is the aim
// target of the player ship.
func (s *Simulation) SetCameraOrientation(q mgl64.Quat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	camera, err := s.Registry.Camera()
	if err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	camera.Orientation = q.Normalize()
	return nil
}

// OrbitCamera turns the camera rig by a pointer delta in pixels
func (s *Simulation) OrbitCamera(delta, viewport mgl64.Vec2) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	camera, err := s.Registry.Camera()
	if err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	camera.Orientation = control.OrbitCamera(camera.Orientation, delta, viewport)
	return nil
}

// Step advances the simulation by dt seconds as one atomic tick. dt is
// integrated as given unless physics.maxTimestep is set, in which case it
// is clamped to it. A non-positive or non-finite dt is a no-op.
func (s *Simulation) Step(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dt = validation.ClampTimestep(dt, s.Config.Physics.MaxTimestep)
	if dt == 0 {
		return
	}

	s.dt = dt
	s.world.Update(float32(dt))
	s.ticks++
	s.lastTick = time.Now()
	s.recorder.Tick(s.ctx)
}

// Run steps the simulation ticks times with a fixed dt, checking ctx
// between ticks. A non-positive ticks runs until ctx is done. It returns
// the number of ticks executed.
func (s *Simulation) Run(ctx context.Context, ticks int, dt float64) (int, error) {
	if err := validation.ValidateTimestep(dt, s.Config.Physics.MaxTimestep); err != nil {
		return 0, err
	}

	runID := logging.GenerateRunID()
	ctx = logging.WithRunID(ctx, runID)
	s.start(ctx, runID)
	defer s.stop(ctx, runID)

	var pace <-chan time.Time
	if s.realTime {
		ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
		defer ticker.Stop()
		pace = ticker.C
	}

	executed := 0
	for ticks <= 0 || executed < ticks {
		select {
		case <-ctx.Done():
			return executed, ctx.Err()
		default:
		}
		if pace != nil {
			select {
			case <-ctx.Done():
				return executed, ctx.Err()
			case <-pace:
			}
		}
		s.Step(dt)
		executed++
	}
	return executed, nil
}

func (s *Simulation) start(ctx context.Context, runID string) {
	s.mu.Lock()
	s.running = true
	s.ctx = ctx
	ticks := s.ticks
	s.mu.Unlock()

	s.EventBus.Publish(event.NewSimulationEvent(event.SimulationStarted, s, runID, ticks))
	s.logger.Info(ctx, "Simulation started", "ticks", ticks)
}

func (s *Simulation) stop(ctx context.Context, runID string) {
	s.mu.Lock()
	s.running = false
	s.ctx = context.Background()
	ticks := s.ticks
	s.mu.Unlock()

	s.EventBus.Publish(event.NewSimulationEvent(event.SimulationStopped, s, runID, ticks))
	s.logger.Info(ctx, "Simulation stopped", "ticks", ticks)
}

// Close releases background resources. The simulation must not be stepped
// afterwards.
func (s *Simulation) Close() {
	s.throttle.Close()
}

// Running reports whether Run is in progress
func (s *Simulation) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Ticks returns the number of ticks executed so far
func (s *Simulation) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// LastTick returns the wall-clock time of the most recent tick
func (s *Simulation) LastTick() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTick
}

// PlayerShip returns the ID of the player ship
func (s *Simulation) PlayerShip() (entity.ID, error) {
	ship, err := s.Registry.PlayerShip()
	if err != nil {
		return 0, err
	}
	return ship.GetID(), nil
}

// ShipState is a read-only copy of a ship's flight state
type ShipState struct {
	ID              entity.ID
	Name            string
	Role            entity.Role
	Position        mgl64.Vec3
	Orientation     mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	Intent          control.Intent
	Rotation        control.RotationMode
	Movement        control.MovementMode
	ActiveThrusters int
}

func stateOf(ship *entity.Ship) ShipState {
	return ShipState{
		ID:              ship.GetID(),
		Name:            ship.Name,
		Role:            ship.Role,
		Position:        ship.Pose.Position,
		Orientation:     ship.Pose.Orientation,
		Velocity:        ship.Body.Velocity,
		AngularVelocity: ship.Body.AngularVelocity,
		Intent:          ship.Intent,
		Rotation:        ship.Settings.Rotation,
		Movement:        ship.Settings.Movement,
		ActiveThrusters: ship.Thrust.ActiveCount(),
	}
}

// ShipState returns the current state of a ship
func (s *Simulation) ShipState(id entity.ID) (ShipState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ship, ok := s.Registry.Ship(id)
	if !ok {
		return ShipState{}, fmt.Errorf("%w: %d", ErrUnknownShip, id)
	}
	return stateOf(ship), nil
}

// Snapshot returns the state of every ship
func (s *Simulation) Snapshot() []ShipState {
	s.mu.Lock()
	defer s.mu.Unlock()

	ships := s.Registry.Ships()
	states := make([]ShipState, 0, len(ships))
	for _, ship := range ships {
		states = append(states, stateOf(ship))
	}
	return states
}

// Camera returns a copy of the camera rig
func (s *Simulation) Camera() (entity.CameraTarget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	camera, err := s.Registry.Camera()
	if err != nil {
		return entity.CameraTarget{}, err
	}
	return *camera, nil
}

// Telemetry returns the readouts of a ship from the latest tick
func (s *Simulation) Telemetry(id entity.ID) (telemetry.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ship, ok := s.Registry.Ship(id)
	if !ok {
		return telemetry.Snapshot{}, fmt.Errorf("%w: %d", ErrUnknownShip, id)
	}
	if snap, ok := s.recorder.Latest(ship.Name); ok {
		return snap, nil
	}
	return telemetry.Compute(ship.Body, ship.Pose, ship.PilotPosition, s.Config.Telemetry.StandardGravity), nil
}

// gravityBodies lists every body taking part in the gravity pass
func (s *Simulation) gravityBodies() []physics.GravityBody {
	bodies := s.Registry.Bodies()
	ships := s.Registry.Ships()

	all := make([]physics.GravityBody, 0, len(bodies)+len(ships))
	for _, b := range bodies {
		all = append(all, physics.GravityBody{Body: b.Body, Position: b.Pose.Position})
	}
	for _, ship := range ships {
		all = append(all, physics.GravityBody{Body: ship.Body, Position: ship.Pose.Position})
	}
	return all
}
