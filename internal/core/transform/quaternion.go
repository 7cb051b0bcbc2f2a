package transform

import (
	"fmt"
	"math"
)

// Quat is a rotation quaternion. The zero value is not a valid rotation;
// use QuatIdentity.
type Quat struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
	W float64 `yaml:"w"`
}

func QuatIdentity() Quat { return Quat{W: 1} }

func (q Quat) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f, %.3f)", q.X, q.Y, q.Z, q.W)
}

func (q Quat) Length() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalize returns the unit quaternion. A zero quaternion normalizes to
// the identity.
func (q Quat) Normalize() Quat {
	l := q.Length()
	if l == 0 {
		return QuatIdentity()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

func (q Quat) Conjugate() Quat { return Quat{-q.X, -q.Y, -q.Z, q.W} }

func (q Quat) Inverse() Quat {
	n := q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W
	if n == 0 {
		return QuatIdentity()
	}
	c := q.Conjugate()
	return Quat{c.X / n, c.Y / n, c.Z / n, c.W / n}
}

// Mul is the Hamilton product q*o.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Rotate applies the rotation to v. q is normalized first.
func (q Quat) Rotate(v Vec3) Vec3 {
	n := q.Normalize()
	u := Vec3{n.X, n.Y, n.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(n.W)).Add(u.Cross(t))
}

// NearlyEqual treats q and -q as the same rotation.
func (q Quat) NearlyEqual(o Quat, epsilon float64) bool {
	same := NearlyEquals(q.X, o.X, epsilon) && NearlyEquals(q.Y, o.Y, epsilon) &&
		NearlyEquals(q.Z, o.Z, epsilon) && NearlyEquals(q.W, o.W, epsilon)
	if same {
		return true
	}
	return NearlyEquals(q.X, -o.X, epsilon) && NearlyEquals(q.Y, -o.Y, epsilon) &&
		NearlyEquals(q.Z, -o.Z, epsilon) && NearlyEquals(q.W, -o.W, epsilon)
}

// QuatFromAxisAngle builds a rotation of angle radians around axis.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	half := angle / 2
	s := math.Sin(half)
	a := axis.Normalize()
	return Quat{a.X * s, a.Y * s, a.Z * s, math.Cos(half)}
}

// QuatFromEuler builds a rotation from pitch (X), yaw (Y) and roll (Z) in
// radians, applied yaw first, then pitch, then roll.
func QuatFromEuler(pitch, yaw, roll float64) Quat {
	qy := QuatFromAxisAngle(YAxis(), yaw)
	qx := QuatFromAxisAngle(XAxis(), pitch)
	qz := QuatFromAxisAngle(ZAxis(), roll)
	return qy.Mul(qx).Mul(qz).Normalize()
}
