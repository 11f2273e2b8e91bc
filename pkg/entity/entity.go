// pkg/entity/entity.go
package entity

import (
	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-spaceflight/pkg/control"
	"github.com/opd-ai/go-spaceflight/pkg/physics"
)

// ID is a unique identifier for an entity
type ID = uint64

// Entity is the base interface for all simulated objects
type Entity interface {
	GetID() ID
	GetName() string
	GetBody() *physics.RigidBody
	GetPose() *physics.Pose
}

// BaseEntity contains common functionality for all entities
type BaseEntity struct {
	ecs.BasicEntity
	Name string
	Body *physics.RigidBody
	Pose physics.Pose
}

func newBaseEntity(name string, body *physics.RigidBody, pose physics.Pose) BaseEntity {
	return BaseEntity{
		BasicEntity: ecs.NewBasic(),
		Name:        name,
		Body:        body,
		Pose:        pose,
	}
}

// GetID returns the entity's unique identifier
func (e *BaseEntity) GetID() ID {
	return e.BasicEntity.ID()
}

// GetName returns the entity's display name
func (e *BaseEntity) GetName() string {
	return e.Name
}

// GetBody returns the entity's rigid body
func (e *BaseEntity) GetBody() *physics.RigidBody {
	return e.Body
}

// GetPose returns the entity's pose
func (e *BaseEntity) GetPose() *physics.Pose {
	return &e.Pose
}

// Kinematics returns the state the stabilization laws read
func (e *BaseEntity) Kinematics() control.Kinematics {
	return control.Kinematics{
		Orientation:     e.Pose.Orientation,
		Velocity:        e.Body.Velocity,
		AngularVelocity: e.Body.AngularVelocity,
	}
}
