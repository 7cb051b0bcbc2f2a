package ecs

import (
	"time"

	"github.com/framewright/engine/internal/core/transform"
)

// TickPolicy decides whether a component ticks while the application is
// paused.
type TickPolicy uint8

const (
	TickWhenRunning TickPolicy = iota
	TickAlways
)

func (p TickPolicy) String() string {
	if p == TickAlways {
		return "always"
	}
	return "when_running"
}

// State is a component's position in its lifecycle.
type State uint8

const (
	StateConstructed State = iota
	StatePendingInit
	StatePendingStart
	StateActive
	StateShuttingDown
	StateDestroyed
)

var stateNames = [...]string{"constructed", "pending_init", "pending_start", "active", "shutting_down", "destroyed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// live reports whether the component still belongs to an entity.
func (s State) live() bool { return s < StateShuttingDown }

// Component is the capability set the manager drives. Implementations embed
// Base, which supplies no-op hooks and the back-references to the owning
// entity and type:
//
//	type Light struct {
//		ecs.Base `yaml:"-"`
//		Radius   float64 `yaml:"radius"`
//	}
type Component interface {
	Initialize()
	Start()
	Update(dt time.Duration)
	Shutdown()
	UpdateTransform(world transform.Transform)
	// TickPolicy defaults to the registered descriptor's Tick; overriding
	// it takes precedence.
	TickPolicy() TickPolicy

	base() *Base
}

// Base carries the bookkeeping every component shares.
type Base struct {
	entity Handle
	typ    TypeID
	state  State
	tick   TickPolicy
}

func (b *Base) Entity() Handle         { return b.entity }
func (b *Base) TypeID() TypeID         { return b.typ }
func (b *Base) State() State           { return b.state }
func (b *Base) TickPolicy() TickPolicy { return b.tick }

func (b *Base) Initialize()                         {}
func (b *Base) Start()                              {}
func (b *Base) Update(time.Duration)                {}
func (b *Base) Shutdown()                           {}
func (b *Base) UpdateTransform(transform.Transform) {}
func (b *Base) base() *Base                         { return b }
