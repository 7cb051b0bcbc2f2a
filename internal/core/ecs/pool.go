package ecs

import (
	"github.com/framewright/engine/internal/core/transform"
	"github.com/google/uuid"
)

// pool is the fixed-capacity entity arena. Slots are never reallocated, so
// *Entity pointers stay valid for the lifetime of the manager; whether the
// record they point at is still the same entity is what the handle
// generation decides.
type pool struct {
	slots []Entity
	next  uint32 // rolling cursor for the next free-slot scan
}

func newPool(m *Manager, capacity int) pool {
	p := pool{slots: make([]Entity, capacity)}
	for i := range p.slots {
		e := &p.slots[i]
		e.m = m
		e.handle = NewHandle(uint32(i), 1)
		e.clear()
	}
	return p
}

// acquire scans forward from the cursor for the first inactive slot,
// wrapping around to the start. Returns nil when every slot is active.
func (p *pool) acquire() *Entity {
	n := uint32(len(p.slots))
	for i := p.next; i < n; i++ {
		if p.slots[i].state == Inactive {
			p.next = i
			return &p.slots[i]
		}
	}
	for i := uint32(0); i < p.next && i < n; i++ {
		if p.slots[i].state == Inactive {
			p.next = i
			return &p.slots[i]
		}
	}
	return nil
}

// resolve returns the active record addressed by h, or nil when the slot is
// inactive, out of range or owned by a newer generation.
func (p *pool) resolve(h Handle) *Entity {
	idx := h.Index()
	if int(idx) >= len(p.slots) {
		return nil
	}
	e := &p.slots[idx]
	if e.state != Active || e.handle != h {
		return nil
	}
	return e
}

// release resets the record and bumps its generation so outstanding
// handles go stale.
func (p *pool) release(e *Entity) {
	gen := e.handle.Generation() + 1
	if gen == 0 {
		gen = 1
	}
	e.handle = NewHandle(e.handle.Index(), gen)
	e.clear()
}

func (e *Entity) clear() {
	e.state = Inactive
	e.uuid = uuid.Nil
	e.name = ""
	e.local = transform.Identity()
	e.world = transform.Identity()
	e.worldDirty = true
	e.parent = Nil
	e.children = e.children[:0]
	e.types = e.types[:0]
	e.mask = emptyMask
	e.pendingDestroy = false
}
