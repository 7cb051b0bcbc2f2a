// Package transform holds the position/rotation/scale value type and the
// composition rules used by the entity hierarchy.
package transform

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Transform places an object relative to a parent frame (or the world when
// there is none).
type Transform struct {
	Position Vec3 `yaml:"position,flow"`
	Rotation Quat `yaml:"rotation,flow"`
	Scale    Vec3 `yaml:"scale,flow"`
}

// Identity is the transform at the origin with no rotation and unit scale.
func Identity() Transform {
	return Transform{Rotation: QuatIdentity(), Scale: Splat(1)}
}

func New(position Vec3, rotation Quat, scale Vec3) Transform {
	return Transform{Position: position, Rotation: rotation, Scale: scale}
}

// UnmarshalYAML fills fields missing from the document with identity
// values, so a prefab may give only a position.
func (t *Transform) UnmarshalYAML(n *yaml.Node) error {
	type plain Transform
	p := plain(Identity())
	if err := n.Decode(&p); err != nil {
		return err
	}
	*t = Transform(p)
	return nil
}

func (t Transform) String() string {
	return fmt.Sprintf("pos=%s rot=%s scale=%s", t.Position, t.Rotation, t.Scale)
}

// Compose returns the world transform of a child with the given local
// transform under a parent whose world transform is parent.
//
//	scale    = P.scale * L.scale
//	rotation = normalize(L.rotation * P.rotation)
//	position = P.position + P.rotation^-1 * (P.scale * L.position)
func Compose(parent, local Transform) Transform {
	pinv := parent.Rotation.Inverse().Normalize()
	return Transform{
		Position: parent.Position.Add(pinv.Rotate(parent.Scale.Mul(local.Position))),
		Rotation: local.Rotation.Mul(parent.Rotation).Normalize(),
		Scale:    parent.Scale.Mul(local.Scale),
	}
}

// Decompose is the inverse of Compose: it returns the local transform that
// places a child at world under parent.
func Decompose(parent, world Transform) Transform {
	prot := parent.Rotation.Normalize()
	return Transform{
		Position: prot.Rotate(world.Position.Sub(parent.Position)).Div(parent.Scale),
		Rotation: world.Rotation.Mul(prot.Inverse()).Normalize(),
		Scale:    world.Scale.Div(parent.Scale),
	}
}

// Forward is the -Z axis rotated into this transform's frame.
func (t Transform) Forward() Vec3 { return t.Rotation.Rotate(ZAxis().Negate()) }

func (t Transform) Right() Vec3 { return t.Rotation.Rotate(XAxis()) }

func (t Transform) Up() Vec3 { return t.Rotation.Rotate(YAxis()) }

func (t Transform) NearlyEqual(o Transform, epsilon float64) bool {
	return t.Position.NearlyEqual(o.Position, epsilon) &&
		t.Rotation.NearlyEqual(o.Rotation, epsilon) &&
		t.Scale.NearlyEqual(o.Scale, epsilon)
}
