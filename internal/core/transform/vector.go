package transform

import (
	"fmt"
	"math"
)

// Vec3 is a 3-component vector used for positions and scales.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// Splat returns a vector with all components set to s.
func Splat(s float64) Vec3 { return Vec3{X: s, Y: s, Z: s} }

func XAxis() Vec3 { return Vec3{X: 1} }
func YAxis() Vec3 { return Vec3{Y: 1} }
func ZAxis() Vec3 { return Vec3{Z: 1} }

func (v Vec3) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Mul multiplies componentwise.
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

// Div divides componentwise. A zero divisor component yields 0 for that
// component instead of Inf/NaN.
func (v Vec3) Div(o Vec3) Vec3 {
	return Vec3{safeDiv(v.X, o.X), safeDiv(v.Y, o.Y), safeDiv(v.Z, o.Z)}
}

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Negate() Vec3         { return Vec3{-v.X, -v.Y, -v.Z} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

func (v Vec3) NearlyEqual(o Vec3, epsilon float64) bool {
	return NearlyEquals(v.X, o.X, epsilon) &&
		NearlyEquals(v.Y, o.Y, epsilon) &&
		NearlyEquals(v.Z, o.Z, epsilon)
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
