package ecs

import (
	"errors"
	"slices"
	"testing"
)

func TestLifecycleRunsOncePerComponent(t *testing.T) {
	f := newFixture(t, 4)
	h := f.spawn(t)
	c := f.add(t, h, f.light)
	if c.State() != StatePendingInit {
		t.Fatalf("state = %s", c.State())
	}
	if len(f.journal) != 0 {
		t.Fatalf("hooks ran before the frame: %v", f.journal)
	}

	f.frame()
	f.frame()
	want := []string{"light.init", "light.start", "light.update", "light.update"}
	if !slices.Equal(f.journal, want) {
		t.Fatalf("journal = %v, want %v", f.journal, want)
	}
	if c.State() != StateActive {
		t.Fatalf("state = %s", c.State())
	}
}

func TestPausedHoldsLifecycleButTicksAlways(t *testing.T) {
	f := newFixture(t, 4)
	f.run.on = false
	h := f.spawn(t)
	light := f.add(t, h, f.light)
	cam := f.add(t, h, f.camera)

	f.frame()
	if light.State() != StatePendingInit || f.count("light.init") != 0 {
		t.Fatal("lifecycle drained while paused")
	}
	if light.ticks != 0 {
		t.Fatal("when-running component ticked while paused")
	}
	if cam.ticks != 1 {
		t.Fatalf("always-tick component ticks = %d", cam.ticks)
	}

	f.run.on = true
	f.frame()
	if light.State() != StateActive || light.ticks != 1 {
		t.Fatalf("after resume: state %s ticks %d", light.State(), light.ticks)
	}
}

func TestIdempotentAdd(t *testing.T) {
	f := newFixture(t, 4)
	h := f.spawn(t)
	first := f.add(t, h, f.light)
	f.frame()
	second := f.add(t, h, f.light)
	if first != second {
		t.Fatal("second add returned a different instance")
	}
	if n := f.m.Store(f.light).Len(); n != 1 {
		t.Fatalf("store holds %d entries", n)
	}
	if second.State() != StateActive {
		t.Fatalf("re-add changed state to %s", second.State())
	}
	f.frame()
	if f.count("light.init") != 1 {
		t.Fatal("re-add queued another Initialize")
	}
}

func TestRequiredComponentsAttachFirst(t *testing.T) {
	f := newFixture(t, 4)
	h := f.spawn(t)
	f.add(t, h, f.body)

	if !f.m.HasComponent(h, f.collider) || !f.m.HasComponent(h, f.body) {
		t.Fatal("required closure not attached")
	}
	if got := f.m.Entity(h).ComponentTypes(); !slices.Equal(got, []TypeID{f.collider, f.body}) {
		t.Fatalf("attachment order = %v", got)
	}

	f.frame()
	want := []string{"collider.init", "body.init", "collider.start", "body.start"}
	if !slices.Equal(f.journal[:4], want) {
		t.Fatalf("journal = %v", f.journal)
	}
}

func TestDestructionCascade(t *testing.T) {
	f := newFixture(t, 4)
	h := f.spawn(t)
	f.add(t, h, f.light)
	cam := f.add(t, h, f.camera)
	f.frame()

	f.m.Destroy(h)
	f.m.Cleanup()

	if f.count("light.shutdown") != 1 || f.count("camera.shutdown") != 1 {
		t.Fatalf("journal = %v", f.journal)
	}
	if cam.State() != StateDestroyed {
		t.Fatalf("state = %s", cam.State())
	}
	if f.m.Store(f.light).Len() != 0 || f.m.Store(f.camera).Len() != 0 {
		t.Fatal("storage not released")
	}
	e := &f.m.pool.slots[h.Index()]
	if len(e.types) != 0 || e.state != Inactive {
		t.Fatalf("record not reset: types %v state %s", e.types, e.state)
	}
}

func TestDestroyBeforeStartSkipsLifecycle(t *testing.T) {
	f := newFixture(t, 4)
	h := f.spawn(t)
	f.add(t, h, f.light)
	f.m.Destroy(h)
	f.frame()

	if f.count("light.init") != 0 || f.count("light.start") != 0 {
		t.Fatalf("journal = %v", f.journal)
	}
	if f.count("light.shutdown") != 1 {
		t.Fatal("shutdown must still run once")
	}
	if f.m.Len() != 0 {
		t.Fatalf("Len = %d", f.m.Len())
	}
}

func TestRemoveComponent(t *testing.T) {
	f := newFixture(t, 4)
	h := f.spawn(t)
	light := f.add(t, h, f.light)
	f.frame()

	if !f.m.RemoveComponent(h, f.light) {
		t.Fatal("remove reported nothing removed")
	}
	if f.m.HasComponent(h, f.light) || light.State() != StateDestroyed {
		t.Fatal("component still attached")
	}
	if f.m.RemoveComponent(h, f.light) {
		t.Fatal("second remove must be a no-op")
	}
	if f.m.GetComponent(h, f.camera) != nil {
		t.Fatal("get of an absent type must be nil")
	}
}

func TestAddComponentErrors(t *testing.T) {
	f := newFixture(t, 4)
	if _, err := f.m.AddComponent(NewHandle(2, 9), f.light); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("err = %v", err)
	}
	h := f.spawn(t)
	if _, err := f.m.AddComponent(h, TypeID(40)); !errors.Is(err, ErrUnknownComponentType) {
		t.Fatalf("err = %v", err)
	}
}

func TestUnregisterOnlyWhenEmpty(t *testing.T) {
	f := newFixture(t, 4)
	h := f.spawn(t)
	f.add(t, h, f.light)
	if f.m.UnregisterComponent(f.light) {
		t.Fatal("unregistered a populated store")
	}
	f.m.RemoveComponent(h, f.light)
	if !f.m.UnregisterComponent(f.light) {
		t.Fatal("empty store not unregistered")
	}
	if err := f.m.RegisterComponent(f.light); err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(f.m.RegisteredTypes(), f.light) {
		t.Fatal("store missing after register")
	}
}

func TestQuery(t *testing.T) {
	f := newFixture(t, 8)
	a := f.spawn(t)
	f.add(t, a, f.body)
	b := f.spawn(t)
	f.add(t, b, f.collider)
	f.add(t, b, f.light)
	f.spawn(t)
	f.frame()

	if got := f.m.Query(f.collider); len(got) != 2 {
		t.Fatalf("collider query = %v", got)
	}
	if got := f.m.Query(f.collider, f.light); len(got) != 1 || got[0] != b {
		t.Fatalf("collider+light query = %v", got)
	}
	if got := f.m.Without(f.collider); len(got) != 1 {
		t.Fatalf("without = %v", got)
	}

	n := 0
	Each2(f.m, f.collider, f.body, func(h Handle, c, body *probe) {
		if h != a {
			t.Fatalf("visited %v", h)
		}
		n++
	})
	if n != 1 {
		t.Fatalf("Each2 visited %d", n)
	}
}

// gizmo asks to tick while paused even though its descriptor does not.
type gizmo struct{ probe }

func (g *gizmo) TickPolicy() TickPolicy { return TickAlways }

func TestTickPolicyOverrideWins(t *testing.T) {
	f := newFixture(t, 4)
	typ, err := f.m.Types().Register(Descriptor{Name: "Gizmo", New: func() Component {
		return &gizmo{probe{Label: "gizmo", journal: &f.journal}}
	}})
	if err != nil {
		t.Fatal(err)
	}
	f.run.on = false
	h := f.spawn(t)
	c, err := f.m.AddComponent(h, typ)
	if err != nil {
		t.Fatal(err)
	}
	f.frame()
	f.frame()
	if g := c.(*gizmo); g.ticks != 2 || g.State() != StatePendingInit {
		t.Fatalf("ticks %d state %s", g.ticks, g.State())
	}
}
