package component

import (
	"math"
	"time"

	"github.com/framewright/engine/internal/core/ecs"
	"github.com/framewright/engine/internal/core/transform"
)

// Camera is a perspective camera looking down its entity's forward axis.
// It ticks while paused so editors can still fly it around.
type Camera struct {
	ecs.Base `yaml:"-"`
	FOV      float64 `yaml:"fov"` // vertical, degrees
	Near     float64 `yaml:"near"`
	Far      float64 `yaml:"far"`
	Primary  bool    `yaml:"primary,omitempty"`

	world   transform.Transform
	eye     transform.Vec3
	forward transform.Vec3
	elapsed time.Duration
}

func NewCamera() *Camera {
	return &Camera{FOV: 60, Near: 0.1, Far: 1000, world: transform.Identity()}
}

func (c *Camera) UpdateTransform(w transform.Transform) { c.world = w }

// Update refreshes the view basis from the last pushed transform.
func (c *Camera) Update(dt time.Duration) {
	c.eye = c.world.Position
	c.forward = c.world.Forward()
	c.elapsed += dt
}

func (c *Camera) Eye() transform.Vec3           { return c.eye }
func (c *Camera) ViewDirection() transform.Vec3 { return c.forward }
func (c *Camera) Elapsed() time.Duration        { return c.elapsed }

// Sees reports whether p lies between the clip planes and inside the
// camera's view cone.
func (c *Camera) Sees(p transform.Vec3) bool {
	to := p.Sub(c.eye)
	depth := to.Dot(c.forward)
	if depth < c.Near || depth > c.Far {
		return false
	}
	dist := to.Length()
	if dist == 0 {
		return false
	}
	half := transform.Deg2Rad(c.FOV) / 2
	return math.Acos(math.Min(1, depth/dist)) <= half
}
