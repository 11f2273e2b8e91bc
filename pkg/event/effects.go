package event

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/opd-ai/go-spaceflight/pkg/thruster"
)

// ThrusterEvent signals a thruster turning on or off, or a firing
// thruster's exhaust hint changing, for particle and audio consumers.
type ThrusterEvent struct {
	BaseEvent
	ShipID          uint64
	Index           int
	Kind            thruster.Kind
	ExhaustVelocity mgl32.Vec3
}

type thrusterKey struct {
	ship  uint64
	index int
}

type thrusterState struct {
	active bool
	hint   mgl32.Vec3
}

// BusEffects is a thruster.EffectsSink that publishes thruster state on a
// Bus. On and off are published once per transition. While a thruster
// keeps firing, ThrusterUpdated carries the exhaust hint whenever it
// changes with the ship's velocity.
type BusEffects struct {
	bus    *Bus
	mu     sync.Mutex
	states map[thrusterKey]thrusterState
}

var _ thruster.EffectsSink = (*BusEffects)(nil)

// NewBusEffects creates an effects sink publishing on bus
func NewBusEffects(bus *Bus) *BusEffects {
	return &BusEffects{
		bus:    bus,
		states: make(map[thrusterKey]thrusterState),
	}
}

// ThrusterActivated implements thruster.EffectsSink
func (e *BusEffects) ThrusterActivated(ship uint64, a thruster.Activation) {
	switch e.record(ship, a.Index, true, a.ExhaustVelocity) {
	case changedState:
		e.publish(ThrusterActivated, ship, a)
	case changedHint:
		e.publish(ThrusterUpdated, ship, a)
	}
}

// ThrusterDeactivated implements thruster.EffectsSink
func (e *BusEffects) ThrusterDeactivated(ship uint64, a thruster.Activation) {
	if e.record(ship, a.Index, false, mgl32.Vec3{}) == changedState {
		e.publish(ThrusterDeactivated, ship, a)
	}
}

// Forget drops the tracked state of every thruster on ship
func (e *BusEffects) Forget(ship uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for k := range e.states {
		if k.ship == ship {
			delete(e.states, k)
		}
	}
}

type change int

const (
	unchanged change = iota
	changedState
	changedHint
)

// record stores the new state and reports what changed. Unseen thrusters
// start inactive.
func (e *BusEffects) record(ship uint64, index int, active bool, hint mgl32.Vec3) change {
	e.mu.Lock()
	defer e.mu.Unlock()
	key := thrusterKey{ship: ship, index: index}
	prev := e.states[key]
	e.states[key] = thrusterState{active: active, hint: hint}
	switch {
	case prev.active != active:
		return changedState
	case active && prev.hint != hint:
		return changedHint
	default:
		return unchanged
	}
}

func (e *BusEffects) publish(eventType Type, ship uint64, a thruster.Activation) {
	e.bus.Publish(&ThrusterEvent{
		BaseEvent:       BaseEvent{EventType: eventType, Source: e},
		ShipID:          ship,
		Index:           a.Index,
		Kind:            a.Kind,
		ExhaustVelocity: a.ExhaustVelocity,
	})
}
