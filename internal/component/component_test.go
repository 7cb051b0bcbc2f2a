package component

import (
	"testing"
	"time"

	"github.com/framewright/engine/internal/core/ecs"
	"github.com/framewright/engine/internal/core/transform"
)

func setup(t *testing.T) (*ecs.Manager, IDs) {
	t.Helper()
	m := ecs.NewManager(ecs.Options{MaxEntities: 16})
	ids, err := Register(m)
	if err != nil {
		t.Fatal(err)
	}
	return m, ids
}

func spawn(t *testing.T, m *ecs.Manager, pos transform.Vec3) ecs.Handle {
	t.Helper()
	h, err := m.Allocate()
	if err != nil {
		t.Fatal(err)
	}
	m.Entity(h).SetLocalPosition(pos, true)
	return h
}

func TestRegisterTwiceFails(t *testing.T) {
	m, _ := setup(t)
	if _, err := Register(m); err == nil {
		t.Fatal("second Register must fail on duplicate names")
	}
	if id, ok := m.Types().Lookup("rigidbody"); !ok || m.Types().Name(id) != RigidBodyName {
		t.Fatal("lookup by folded name")
	}
}

func TestRigidBodyPullsInCollider(t *testing.T) {
	m, ids := setup(t)
	h := spawn(t, m, transform.V3(0, 10, 0))
	c, err := m.AddComponent(h, ids.RigidBody)
	if err != nil {
		t.Fatal(err)
	}
	body := c.(*RigidBody)
	if !m.HasComponent(h, ids.Collider) {
		t.Fatal("collider missing")
	}

	body.Velocity = transform.V3(2, 0, 0)
	m.Update(500 * time.Millisecond)
	if body.Collider() == nil {
		t.Fatal("collider not bound at start")
	}
	got := m.Entity(h).WorldPosition()
	if !got.NearlyEqual(transform.V3(1, 10, 0), 1e-9) {
		t.Fatalf("position = %v", got)
	}
	min, max := body.Collider().Bounds()
	if !min.NearlyEqual(transform.V3(0.5, 9.5, -0.5), 1e-9) || !max.NearlyEqual(transform.V3(1.5, 10.5, 0.5), 1e-9) {
		t.Fatalf("bounds = %v %v", min, max)
	}
}

func TestRigidBodyGravity(t *testing.T) {
	m, ids := setup(t)
	h := spawn(t, m, transform.Vec3{})
	c, _ := m.AddComponent(h, ids.RigidBody)
	body := c.(*RigidBody)
	body.UseGravity = true
	m.Update(time.Second)
	if !body.Velocity.NearlyEqual(Gravity, 1e-9) {
		t.Fatalf("velocity = %v", body.Velocity)
	}
	if y := m.Entity(h).WorldPosition().Y; y >= 0 {
		t.Fatalf("did not fall: y = %v", y)
	}

	body.Mass = 2
	body.ApplyImpulse(transform.V3(4, 0, 0))
	if body.Velocity.X != 2 {
		t.Fatalf("impulse velocity = %v", body.Velocity)
	}
}

func TestColliderOverlap(t *testing.T) {
	a, b := NewCollider(), NewCollider()
	a.UpdateTransform(transform.New(transform.Vec3{}, transform.QuatIdentity(), transform.Splat(1)))
	b.UpdateTransform(transform.New(transform.V3(0.9, 0, 0), transform.QuatIdentity(), transform.Splat(1)))
	if !a.Overlaps(b) {
		t.Fatal("touching boxes must overlap")
	}
	b.UpdateTransform(transform.New(transform.V3(3, 0, 0), transform.QuatIdentity(), transform.Splat(1)))
	if a.Overlaps(b) {
		t.Fatal("distant boxes overlap")
	}
	// A unit box turned 45 degrees about Y widens to sqrt(2)/2 on X.
	a.UpdateTransform(transform.New(transform.Vec3{}, transform.QuatFromAxisAngle(transform.YAxis(), transform.Deg2Rad(45)), transform.Splat(1)))
	_, max := a.Bounds()
	if !transform.NearlyEquals(max.X, 0.7071067811865476, 1e-9) {
		t.Fatalf("rotated extent = %v", max.X)
	}
}

func TestCameraTicksWhilePaused(t *testing.T) {
	run := &toggle{}
	m := ecs.NewManager(ecs.Options{MaxEntities: 4, RunState: run})
	ids, err := Register(m)
	if err != nil {
		t.Fatal(err)
	}
	h := spawn(t, m, transform.V3(0, 0, 5))
	c, _ := m.AddComponent(h, ids.Camera)
	cam := c.(*Camera)

	m.Update(10 * time.Millisecond)
	if cam.Elapsed() != 10*time.Millisecond {
		t.Fatalf("elapsed = %v", cam.Elapsed())
	}
	if !cam.Sees(transform.Vec3{}) {
		t.Fatal("origin is straight ahead of the camera")
	}
	if cam.Sees(transform.V3(0, 0, 10)) {
		t.Fatal("point behind the camera is visible")
	}
	if cam.Sees(transform.V3(100, 0, 4)) {
		t.Fatal("point far outside the cone is visible")
	}
}

type toggle struct{ on bool }

func (t *toggle) IsRunning() bool { return t.on }

func TestPointLightFalloff(t *testing.T) {
	l := NewPointLight()
	l.Radius = 4
	l.Intensity = 2
	l.UpdateTransform(transform.New(transform.V3(1, 0, 0), transform.QuatIdentity(), transform.Splat(1)))
	if got := l.Illuminance(transform.V3(3, 0, 0)); !got.NearlyEqual(transform.Splat(1), 1e-9) {
		t.Fatalf("half radius = %v", got)
	}
	if got := l.Illuminance(transform.V3(9, 0, 0)); got != (transform.Vec3{}) {
		t.Fatalf("outside radius = %v", got)
	}
}

func TestGraphicsTracksWorld(t *testing.T) {
	m, ids := setup(t)
	parent := spawn(t, m, transform.V3(5, 0, 0))
	child := spawn(t, m, transform.Vec3{})
	if err := m.SetParent(child, parent); err != nil {
		t.Fatal(err)
	}
	c, _ := m.AddComponent(child, ids.Graphics)
	g := c.(*Graphics)
	g.Mesh = "cube"
	m.Entity(child).SetLocalPosition(transform.V3(1, 0, 0), false)
	m.Update(time.Millisecond)
	m.LateUpdate()
	if !g.World().Position.NearlyEqual(transform.V3(6, 0, 0), 1e-9) {
		t.Fatalf("graphics world = %v", g.World().Position)
	}
	if !g.Drawable() {
		t.Fatal("mesh set but not drawable")
	}
}
