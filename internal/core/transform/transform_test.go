package transform

import (
	"math"
	"testing"

	"gopkg.in/yaml.v3"
)

const eps = 1e-9

func TestRotateQuarterTurn(t *testing.T) {
	q := QuatFromAxisAngle(ZAxis(), math.Pi/2)
	got := q.Rotate(XAxis())
	if !got.NearlyEqual(YAxis(), eps) {
		t.Fatalf("expected X rotated 90deg about Z to be Y, got %v", got)
	}
}

func TestInverseUndoesRotation(t *testing.T) {
	q := QuatFromEuler(0.3, 1.1, -0.7)
	v := V3(1, 2, 3)
	back := q.Inverse().Rotate(q.Rotate(v))
	if !back.NearlyEqual(v, eps) {
		t.Fatalf("expected %v, got %v", v, back)
	}
}

func TestComposeIdentityParent(t *testing.T) {
	local := New(V3(1, 2, 3), QuatFromAxisAngle(YAxis(), 0.5), V3(2, 2, 2))
	world := Compose(Identity(), local)
	if !world.NearlyEqual(local, eps) {
		t.Fatalf("identity parent should not change local: got %v want %v", world, local)
	}
}

func TestComposeScalesAndOffsets(t *testing.T) {
	parent := New(V3(5, 0, 0), QuatIdentity(), V3(2, 2, 2))
	local := New(V3(1, 0, 0), QuatIdentity(), V3(3, 1, 1))
	world := Compose(parent, local)

	if !world.Position.NearlyEqual(V3(7, 0, 0), eps) {
		t.Errorf("position = %v, want (7,0,0)", world.Position)
	}
	if !world.Scale.NearlyEqual(V3(6, 2, 2), eps) {
		t.Errorf("scale = %v, want (6,2,2)", world.Scale)
	}
}

func TestDecomposeInvertsCompose(t *testing.T) {
	tests := []struct {
		name   string
		parent Transform
		local  Transform
	}{
		{"identity", Identity(), New(V3(1, 1, 1), QuatIdentity(), Splat(1))},
		{"translated", New(V3(5, 0, 0), QuatIdentity(), Splat(1)), New(V3(5, 0, 0), QuatIdentity(), Splat(1))},
		{"rotated", New(V3(0, 2, 0), QuatFromAxisAngle(YAxis(), math.Pi/3), Splat(1)), New(V3(1, 0, 4), QuatFromAxisAngle(XAxis(), 0.2), Splat(1))},
		{"scaled rotated", New(V3(-3, 1, 9), QuatFromEuler(0.4, -1.2, 2.0), V3(2, 0.5, 3)), New(V3(2, -1, 0.5), QuatFromEuler(1.0, 0.1, -0.3), V3(1, 4, 0.25))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world := Compose(tt.parent, tt.local)
			local := Decompose(tt.parent, world)
			if !local.NearlyEqual(tt.local, 1e-6) {
				t.Fatalf("round trip mismatch:\n got  %v\n want %v", local, tt.local)
			}
		})
	}
}

func TestDecomposeZeroScaleParent(t *testing.T) {
	parent := New(V3(0, 0, 0), QuatIdentity(), V3(0, 1, 1))
	local := Decompose(parent, New(V3(4, 4, 4), QuatIdentity(), Splat(1)))
	if math.IsNaN(local.Position.X) || math.IsInf(local.Position.X, 0) {
		t.Fatalf("zero parent scale must not produce NaN/Inf, got %v", local.Position)
	}
}

func TestAxes(t *testing.T) {
	tr := Identity()
	if !tr.Forward().NearlyEqual(V3(0, 0, -1), eps) {
		t.Errorf("forward = %v", tr.Forward())
	}
	if !tr.Right().NearlyEqual(XAxis(), eps) {
		t.Errorf("right = %v", tr.Right())
	}
	if !tr.Up().NearlyEqual(YAxis(), eps) {
		t.Errorf("up = %v", tr.Up())
	}
}

func TestNormalizeZeroQuat(t *testing.T) {
	if got := (Quat{}).Normalize(); got != QuatIdentity() {
		t.Fatalf("zero quaternion should normalize to identity, got %v", got)
	}
}

func TestNearlyEquals(t *testing.T) {
	tests := []struct {
		a, b float64
		want bool
	}{
		{0, 0, true},
		{1e-12, 0, true},
		{1, 1 + 1e-12, true},
		{1, 1.1, false},
		{-5, 5, false},
	}
	for _, tt := range tests {
		if got := NearlyEquals(tt.a, tt.b, eps); got != tt.want {
			t.Errorf("NearlyEquals(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestUnmarshalPartialTransform(t *testing.T) {
	var got Transform
	if err := yaml.Unmarshal([]byte("position: {x: 1, y: 2, z: 3}\n"), &got); err != nil {
		t.Fatal(err)
	}
	want := New(V3(1, 2, 3), QuatIdentity(), Splat(1))
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}
