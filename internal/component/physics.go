package component

import (
	"math"
	"time"

	"github.com/framewright/engine/internal/core/ecs"
	"github.com/framewright/engine/internal/core/transform"
)

// Gravity applied to bodies with UseGravity set, in units per second squared.
var Gravity = transform.V3(0, -9.81, 0)

// Collider is an oriented box. Bounds is the world-space AABB enclosing it
// after the latest transform update.
type Collider struct {
	ecs.Base    `yaml:"-"`
	HalfExtents transform.Vec3 `yaml:"half_extents,flow"`
	Trigger     bool           `yaml:"trigger,omitempty"`

	min, max transform.Vec3
}

func NewCollider() *Collider {
	return &Collider{HalfExtents: transform.Splat(0.5)}
}

func (c *Collider) UpdateTransform(w transform.Transform) {
	h := c.HalfExtents.Mul(w.Scale)
	// Project the rotated box axes onto world axes.
	ax := w.Rotation.Rotate(transform.V3(h.X, 0, 0))
	ay := w.Rotation.Rotate(transform.V3(0, h.Y, 0))
	az := w.Rotation.Rotate(transform.V3(0, 0, h.Z))
	ext := transform.V3(
		math.Abs(ax.X)+math.Abs(ay.X)+math.Abs(az.X),
		math.Abs(ax.Y)+math.Abs(ay.Y)+math.Abs(az.Y),
		math.Abs(ax.Z)+math.Abs(ay.Z)+math.Abs(az.Z),
	)
	c.min = w.Position.Sub(ext)
	c.max = w.Position.Add(ext)
}

func (c *Collider) Bounds() (min, max transform.Vec3) { return c.min, c.max }

// Overlaps reports whether the two world bounds intersect.
func (c *Collider) Overlaps(o *Collider) bool {
	return c.min.X <= o.max.X && c.max.X >= o.min.X &&
		c.min.Y <= o.max.Y && c.max.Y >= o.min.Y &&
		c.min.Z <= o.max.Z && c.max.Z >= o.min.Z
}

// RigidBody integrates its entity's world position from Velocity every
// tick while the application runs. It requires a Collider.
type RigidBody struct {
	ecs.Base   `yaml:"-"`
	Mass       float64        `yaml:"mass"`
	Velocity   transform.Vec3 `yaml:"velocity,flow"`
	UseGravity bool           `yaml:"use_gravity,omitempty"`

	m        *ecs.Manager
	collider ecs.TypeID
	shape    *Collider
}

func NewRigidBody(m *ecs.Manager, collider ecs.TypeID) *RigidBody {
	return &RigidBody{Mass: 1, m: m, collider: collider}
}

// Start binds the collider attached alongside this body.
func (b *RigidBody) Start() {
	b.shape, _ = b.m.GetComponent(b.Entity(), b.collider).(*Collider)
}

func (b *RigidBody) Collider() *Collider { return b.shape }

// ApplyImpulse changes velocity by impulse / mass.
func (b *RigidBody) ApplyImpulse(impulse transform.Vec3) {
	if b.Mass <= 0 {
		return
	}
	b.Velocity = b.Velocity.Add(impulse.Scale(1 / b.Mass))
}

func (b *RigidBody) Update(dt time.Duration) {
	e := b.m.Entity(b.Entity())
	if e == nil {
		return
	}
	secs := dt.Seconds()
	if b.UseGravity {
		b.Velocity = b.Velocity.Add(Gravity.Scale(secs))
	}
	if b.Velocity == (transform.Vec3{}) {
		return
	}
	e.SetWorldPosition(e.WorldPosition().Add(b.Velocity.Scale(secs)), true)
}
