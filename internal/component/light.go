package component

import (
	"github.com/framewright/engine/internal/core/ecs"
	"github.com/framewright/engine/internal/core/transform"
)

// PointLight emits Color from its entity's world position, falling off
// linearly to zero at Radius.
type PointLight struct {
	ecs.Base  `yaml:"-"`
	Color     transform.Vec3 `yaml:"color,flow"`
	Intensity float64        `yaml:"intensity"`
	Radius    float64        `yaml:"radius"`

	position transform.Vec3
}

func NewPointLight() *PointLight {
	return &PointLight{Color: transform.Splat(1), Intensity: 1, Radius: 10}
}

func (l *PointLight) UpdateTransform(w transform.Transform) { l.position = w.Position }

func (l *PointLight) Position() transform.Vec3 { return l.position }

// Illuminance is the light's contribution at p.
func (l *PointLight) Illuminance(p transform.Vec3) transform.Vec3 {
	if l.Radius <= 0 {
		return transform.Vec3{}
	}
	d := p.Sub(l.position).Length()
	if d >= l.Radius {
		return transform.Vec3{}
	}
	return l.Color.Scale(l.Intensity * (1 - d/l.Radius))
}
