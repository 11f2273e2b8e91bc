// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	ShipAdded           Type = "ship_added"
	ShipRemoved         Type = "ship_removed"
	BodyAdded           Type = "body_added"
	RotationModeChanged Type = "rotation_mode_changed"
	MovementModeChanged Type = "movement_mode_changed"
	CameraModeChanged   Type = "camera_mode_changed"
	ThrusterActivated   Type = "thruster_activated"
	ThrusterDeactivated Type = "thruster_deactivated"
	ThrusterUpdated     Type = "thruster_updated"
	SimulationStarted   Type = "simulation_started"
	SimulationStopped   Type = "simulation_stopped"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// SubscriptionID identifies one registered handler
type SubscriptionID uint64

// Subscription is returned by Subscribe. Cancel removes the handler.
type Subscription struct {
	ID     SubscriptionID
	Cancel func()
}

type subscriber struct {
	id      SubscriptionID
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]subscriber
	nextID   SubscriptionID
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.Unsubscribe(eventType, id) },
	}
}

// Unsubscribe removes the handler registered under id. It reports whether
// a handler was removed.
func (b *Bus) Unsubscribe(eventType Type, id SubscriptionID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			remaining := make([]subscriber, 0, len(subs)-1)
			remaining = append(remaining, subs[:i]...)
			b.handlers[eventType] = append(remaining, subs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// Specific event implementations

// ShipEvent contains information about ship-related events
type ShipEvent struct {
	BaseEvent
	ShipID uint64
	Name   string
}

// NewShipEvent creates a new ship event
func NewShipEvent(eventType Type, source interface{}, shipID uint64, name string) *ShipEvent {
	return &ShipEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		ShipID: shipID,
		Name:   name,
	}
}

// ModeEvent reports a stabilization or camera mode change
type ModeEvent struct {
	BaseEvent
	ShipID uint64
	Mode   string
}

// NewModeEvent creates a new mode event
func NewModeEvent(eventType Type, source interface{}, shipID uint64, mode string) *ModeEvent {
	return &ModeEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		ShipID: shipID,
		Mode:   mode,
	}
}

// SimulationEvent marks the start or end of a run
type SimulationEvent struct {
	BaseEvent
	RunID string
	Ticks uint64
}

// NewSimulationEvent creates a new simulation event
func NewSimulationEvent(eventType Type, source interface{}, runID string, ticks uint64) *SimulationEvent {
	return &SimulationEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		RunID: runID,
		Ticks: ticks,
	}
}
