package component

import (
	"github.com/framewright/engine/internal/core/ecs"
	"github.com/framewright/engine/internal/core/transform"
)

// Graphics references a mesh and material and keeps the world transform
// the renderer should draw them with.
type Graphics struct {
	ecs.Base `yaml:"-"`
	Mesh     string `yaml:"mesh"`
	Material string `yaml:"material,omitempty"`
	Hidden   bool   `yaml:"hidden,omitempty"`

	world transform.Transform
}

func NewGraphics() *Graphics {
	return &Graphics{world: transform.Identity()}
}

func (g *Graphics) UpdateTransform(w transform.Transform) { g.world = w }

// World is the transform last pushed by the entity.
func (g *Graphics) World() transform.Transform { return g.world }

// Drawable reports whether the renderer has anything to draw.
func (g *Graphics) Drawable() bool {
	return !g.Hidden && g.Mesh != "" && g.State() != ecs.StateDestroyed
}
