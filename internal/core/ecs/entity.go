package ecs

import (
	"slices"

	"github.com/TheBitDrifter/mask"
	"github.com/framewright/engine/internal/core/transform"
	"github.com/google/uuid"
)

// EntityState is the liveness of an arena slot.
type EntityState uint8

const (
	Inactive EntityState = iota
	Active
)

func (s EntityState) String() string {
	if s == Active {
		return "active"
	}
	return "inactive"
}

var emptyMask mask.Mask

// Entity is the record for one live object. Records live in the manager's
// arena and are only reachable through a Handle; a *Entity obtained from
// Manager.Entity must not be kept across frames.
type Entity struct {
	m      *Manager
	handle Handle
	state  EntityState
	uuid   uuid.UUID
	name   string

	local      transform.Transform
	world      transform.Transform
	worldDirty bool

	parent   Handle
	children []Handle

	// types keeps attachment order, mask answers membership.
	types []TypeID
	mask  mask.Mask

	pendingDestroy bool
}

func (e *Entity) Handle() Handle       { return e.handle }
func (e *Entity) ID() uint32           { return e.handle.Index() }
func (e *Entity) UUID() uuid.UUID      { return e.uuid }
func (e *Entity) Name() string         { return e.name }
func (e *Entity) SetName(name string)  { e.name = name }
func (e *Entity) State() EntityState   { return e.state }
func (e *Entity) IsValid() bool        { return e.state == Active }
func (e *Entity) PendingDestroy() bool { return e.pendingDestroy }

func (e *Entity) Parent() Handle { return e.parent }

// HasParent reports whether the parent link resolves to a live entity.
func (e *Entity) HasParent() bool { return e.m.pool.resolve(e.parent) != nil }

func (e *Entity) Children() []Handle { return slices.Clone(e.children) }
func (e *Entity) HasChildren() bool  { return len(e.children) > 0 }

// ComponentTypes returns the attached type ids in attachment order.
func (e *Entity) ComponentTypes() []TypeID { return slices.Clone(e.types) }

func (e *Entity) HasComponent(typ TypeID) bool {
	if int(typ) >= MaxComponentTypes {
		return false
	}
	var bit mask.Mask
	bit.Mark(uint32(typ))
	return e.mask.ContainsAll(bit)
}

func (e *Entity) addType(typ TypeID) {
	e.types = append(e.types, typ)
	e.mask.Mark(uint32(typ))
}

func (e *Entity) removeType(typ TypeID) {
	e.types = slices.DeleteFunc(e.types, func(t TypeID) bool { return t == typ })
	e.mask.Unmark(uint32(typ))
}

func (e *Entity) addChild(child Handle) bool {
	if slices.Contains(e.children, child) {
		return false
	}
	e.children = append(e.children, child)
	return true
}

func (e *Entity) removeChild(child Handle) {
	e.children = slices.DeleteFunc(e.children, func(h Handle) bool { return h == child })
}

// ── Transforms ────────────────────────────────────────────────────

func (e *Entity) LocalTransform() transform.Transform { return e.local }
func (e *Entity) LocalPosition() transform.Vec3       { return e.local.Position }
func (e *Entity) LocalRotation() transform.Quat       { return e.local.Rotation }
func (e *Entity) LocalScale() transform.Vec3          { return e.local.Scale }

// SetLocalTransform replaces the transform relative to the parent. With
// propagate set, the world transform is recomputed right away and pushed
// to the attached components; otherwise it is only marked dirty and
// refreshed on the next read or LateUpdate.
func (e *Entity) SetLocalTransform(t transform.Transform, propagate bool) {
	e.local = t
	e.touch(propagate)
}

func (e *Entity) SetLocalPosition(p transform.Vec3, propagate bool) {
	e.local.Position = p
	e.touch(propagate)
}

func (e *Entity) SetLocalRotation(q transform.Quat, propagate bool) {
	e.local.Rotation = q
	e.touch(propagate)
}

func (e *Entity) SetLocalScale(s transform.Vec3, propagate bool) {
	e.local.Scale = s
	e.touch(propagate)
}

func (e *Entity) SetLocalScaleUniform(s float64, propagate bool) {
	e.SetLocalScale(transform.Splat(s), propagate)
}

// WorldTransform returns the cached world transform, recomputing it first
// when it is dirty.
func (e *Entity) WorldTransform() transform.Transform {
	if e.worldDirty {
		e.calculateWorld()
	}
	return e.world
}

func (e *Entity) WorldPosition() transform.Vec3 { return e.WorldTransform().Position }
func (e *Entity) WorldRotation() transform.Quat { return e.WorldTransform().Rotation }
func (e *Entity) WorldScale() transform.Vec3    { return e.WorldTransform().Scale }

// SetWorldTransform places the entity in world space by deriving the local
// transform against the current parent.
func (e *Entity) SetWorldTransform(t transform.Transform, propagate bool) {
	if p := e.m.pool.resolve(e.parent); p != nil {
		e.local = transform.Decompose(p.WorldTransform(), t)
	} else {
		e.local = t
	}
	e.touch(propagate)
}

func (e *Entity) SetWorldPosition(pos transform.Vec3, propagate bool) {
	w := e.WorldTransform()
	w.Position = pos
	e.SetWorldTransform(w, propagate)
}

func (e *Entity) SetWorldRotation(q transform.Quat, propagate bool) {
	w := e.WorldTransform()
	w.Rotation = q
	e.SetWorldTransform(w, propagate)
}

func (e *Entity) SetWorldScale(s transform.Vec3, propagate bool) {
	w := e.WorldTransform()
	w.Scale = s
	e.SetWorldTransform(w, propagate)
}

func (e *Entity) Forward() transform.Vec3 { return e.WorldTransform().Forward() }
func (e *Entity) Right() transform.Vec3   { return e.WorldTransform().Right() }
func (e *Entity) Up() transform.Vec3      { return e.WorldTransform().Up() }

// touch marks this subtree dirty and, if asked, refreshes this entity's
// world transform and notifies its components.
func (e *Entity) touch(propagate bool) {
	e.markDirty()
	if propagate {
		e.calculateWorld()
		e.UpdateComponentTransforms()
	}
}

func (e *Entity) markDirty() {
	e.worldDirty = true
	for _, c := range e.children {
		if child := e.m.pool.resolve(c); child != nil {
			child.markDirty()
		}
	}
}

func (e *Entity) calculateWorld() {
	if p := e.m.pool.resolve(e.parent); p != nil {
		e.world = transform.Compose(p.WorldTransform(), e.local)
	} else {
		e.world = e.local
	}
	e.worldDirty = false
}

// UpdateComponentTransforms pushes the current world transform to every
// attached component.
func (e *Entity) UpdateComponentTransforms() {
	world := e.WorldTransform()
	for _, typ := range e.types {
		if c := e.m.component(e, typ); c != nil {
			c.UpdateTransform(world)
		}
	}
}

// PropagateTransform recomputes world transforms from this entity down to
// its leaves, each node from its own local and its parent's freshly
// computed world, and notifies components along the way.
func (e *Entity) PropagateTransform() {
	if p := e.m.pool.resolve(e.parent); p != nil {
		e.world = transform.Compose(p.WorldTransform(), e.local)
	} else {
		e.world = e.local
	}
	e.worldDirty = false
	for _, c := range e.children {
		if child := e.m.pool.resolve(c); child != nil {
			child.PropagateTransform()
		}
	}
	e.UpdateComponentTransforms()
}
