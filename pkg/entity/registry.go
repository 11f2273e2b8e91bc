// pkg/entity/registry.go
package entity

import (
	"errors"
	"sync"
)

var (
	// ErrNotFound is returned when a singleton lookup finds nothing
	ErrNotFound = errors.New("entity not found")
	// ErrAmbiguous is returned when a singleton lookup finds more than one
	ErrAmbiguous = errors.New("entity is ambiguous")
)

// Registry tracks every entity in a simulation
type Registry struct {
	mu      sync.RWMutex
	ships   []*Ship
	bodies  []*CelestialBody
	cameras []*CameraTarget
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// AddShip registers a ship
func (r *Registry) AddShip(s *Ship) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ships = append(r.ships, s)
}

// AddBody registers a celestial body
func (r *Registry) AddBody(b *CelestialBody) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bodies = append(r.bodies, b)
}

// AddCamera registers a camera rig
func (r *Registry) AddCamera(c *CameraTarget) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cameras = append(r.cameras, c)
}

// Remove drops the entity with id. It reports whether anything was removed.
func (r *Registry) Remove(id ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.ships {
		if s.GetID() == id {
			r.ships = append(r.ships[:i], r.ships[i+1:]...)
			return true
		}
	}
	for i, b := range r.bodies {
		if b.GetID() == id {
			r.bodies = append(r.bodies[:i], r.bodies[i+1:]...)
			return true
		}
	}
	return false
}

// Ships returns a snapshot of the registered ships
func (r *Registry) Ships() []*Ship {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Ship(nil), r.ships...)
}

// Bodies returns a snapshot of the registered celestial bodies
func (r *Registry) Bodies() []*CelestialBody {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*CelestialBody(nil), r.bodies...)
}

// Ship looks up a ship by ID
func (r *Registry) Ship(id ID) (*Ship, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.ships {
		if s.GetID() == id {
			return s, true
		}
	}
	return nil, false
}

// All returns every ship and body as Entities
func (r *Registry) All() []Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]Entity, 0, len(r.ships)+len(r.bodies))
	for _, b := range r.bodies {
		all = append(all, b)
	}
	for _, s := range r.ships {
		all = append(all, s)
	}
	return all
}

// PlayerShip returns the one player-flown ship
func (r *Registry) PlayerShip() (*Ship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *Ship
	for _, s := range r.ships {
		if !s.IsPlayer() {
			continue
		}
		if found != nil {
			return nil, ErrAmbiguous
		}
		found = s
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

// Camera returns the one camera rig
func (r *Registry) Camera() (*CameraTarget, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch len(r.cameras) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return r.cameras[0], nil
	default:
		return nil, ErrAmbiguous
	}
}
