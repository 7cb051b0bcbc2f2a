// Package component holds the built-in component types. Each type embeds
// ecs.Base and keeps only what it needs from its entity's world transform.
package component

import (
	"fmt"

	"github.com/framewright/engine/internal/core/ecs"
)

// Type names as they appear in archives and prefabs.
const (
	GraphicsName   = "Graphics"
	PointLightName = "PointLight"
	CameraName     = "Camera"
	ColliderName   = "Collider"
	RigidBodyName  = "RigidBody"
)

// IDs are the type ids assigned by Register.
type IDs struct {
	Graphics   ecs.TypeID
	PointLight ecs.TypeID
	Camera     ecs.TypeID
	Collider   ecs.TypeID
	RigidBody  ecs.TypeID
}

// Register adds the built-in types to m's registry. Constructors capture m
// so components that move their entity can reach it.
func Register(m *ecs.Manager) (IDs, error) {
	var ids IDs
	types := m.Types()
	steps := []struct {
		dst  *ecs.TypeID
		desc func() ecs.Descriptor
	}{
		{&ids.Graphics, func() ecs.Descriptor {
			return ecs.Descriptor{Name: GraphicsName, New: func() ecs.Component { return NewGraphics() }}
		}},
		{&ids.PointLight, func() ecs.Descriptor {
			return ecs.Descriptor{Name: PointLightName, New: func() ecs.Component { return NewPointLight() }}
		}},
		{&ids.Camera, func() ecs.Descriptor {
			return ecs.Descriptor{Name: CameraName, New: func() ecs.Component { return NewCamera() }, Tick: ecs.TickAlways}
		}},
		{&ids.Collider, func() ecs.Descriptor {
			return ecs.Descriptor{Name: ColliderName, New: func() ecs.Component { return NewCollider() }}
		}},
		{&ids.RigidBody, func() ecs.Descriptor {
			return ecs.Descriptor{
				Name:     RigidBodyName,
				New:      func() ecs.Component { return NewRigidBody(m, ids.Collider) },
				Requires: []ecs.TypeID{ids.Collider},
			}
		}},
	}
	for _, s := range steps {
		d := s.desc()
		id, err := types.Register(d)
		if err != nil {
			return IDs{}, fmt.Errorf("register %s: %w", d.Name, err)
		}
		*s.dst = id
	}
	return ids, nil
}
