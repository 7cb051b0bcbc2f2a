package ecs

import (
	"fmt"
	"testing"
	"time"

	"github.com/framewright/engine/internal/core/transform"
)

// probe records every lifecycle hook it receives into a shared journal.
type probe struct {
	Base    `yaml:"-"`
	Label   string  `yaml:"label"`
	Power   float64 `yaml:"power"`
	journal *[]string
	ticks   int
	last    transform.Transform
}

func (p *probe) note(hook string) {
	if p.journal != nil {
		*p.journal = append(*p.journal, fmt.Sprintf("%s.%s", p.Label, hook))
	}
}

func (p *probe) Initialize()                           { p.note("init") }
func (p *probe) Start()                                { p.note("start") }
func (p *probe) Update(time.Duration)                  { p.ticks++; p.note("update") }
func (p *probe) Shutdown()                             { p.note("shutdown") }
func (p *probe) UpdateTransform(w transform.Transform) { p.last = w }

type switchable struct{ on bool }

func (s *switchable) IsRunning() bool { return s.on }

type fixture struct {
	m       *Manager
	run     *switchable
	journal []string

	collider, body, camera, light TypeID
}

func newFixture(t *testing.T, capacity int) *fixture {
	t.Helper()
	f := &fixture{run: &switchable{on: true}}
	types := NewTypes()
	mk := func(label string) func() Component {
		return func() Component { return &probe{Label: label, journal: &f.journal} }
	}
	var err error
	if f.collider, err = types.Register(Descriptor{Name: "Collider", New: mk("collider")}); err != nil {
		t.Fatal(err)
	}
	if f.body, err = types.Register(Descriptor{Name: "RigidBody", New: mk("body"), Requires: []TypeID{f.collider}}); err != nil {
		t.Fatal(err)
	}
	if f.camera, err = types.Register(Descriptor{Name: "Camera", New: mk("camera"), Tick: TickAlways}); err != nil {
		t.Fatal(err)
	}
	if f.light, err = types.Register(Descriptor{Name: "PointLight", New: mk("light")}); err != nil {
		t.Fatal(err)
	}
	f.m = NewManager(Options{MaxEntities: capacity, Types: types, RunState: f.run})
	return f
}

func (f *fixture) spawn(t *testing.T) Handle {
	t.Helper()
	h, err := f.m.Allocate()
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	return h
}

func (f *fixture) add(t *testing.T, h Handle, typ TypeID) *probe {
	t.Helper()
	c, err := f.m.AddComponent(h, typ)
	if err != nil {
		t.Fatalf("add %s: %v", f.m.Types().Name(typ), err)
	}
	return c.(*probe)
}

func (f *fixture) frame() {
	f.m.Update(16 * time.Millisecond)
	f.m.LateUpdate()
}

func (f *fixture) count(entry string) int {
	n := 0
	for _, j := range f.journal {
		if j == entry {
			n++
		}
	}
	return n
}
