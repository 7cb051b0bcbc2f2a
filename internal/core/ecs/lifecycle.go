package ecs

import (
	"slices"
	"time"

	"go.uber.org/zap"
)

// Update runs one frame of the manager, in this order:
//
//  1. Cleanup: tear down everything queued by Destroy.
//  2. ForceAddEntities: entities allocated last frame join the active set.
//  3. While running, drain pending Initialize then pending Start calls.
//  4. Tick the components of every active entity.
func (m *Manager) Update(dt time.Duration) {
	m.Cleanup()
	m.ForceAddEntities()
	if m.run.IsRunning() {
		m.drainInit()
		m.drainStart()
	}
	m.tick(dt)
}

// LateUpdate recomputes world transforms from every root down.
func (m *Manager) LateUpdate() {
	for _, e := range m.active {
		if e.state == Active && !e.HasParent() {
			e.PropagateTransform()
		}
	}
}

// ForceAddEntities moves entities allocated since the last frame into the
// active set without waiting for Update.
func (m *Manager) ForceAddEntities() {
	for _, e := range m.pendingAdd {
		if e.state == Active {
			m.active = append(m.active, e)
		}
	}
	clear(m.pendingAdd)
	m.pendingAdd = m.pendingAdd[:0]
}

// ForceCleanup tears down queued entities and discards pending lifecycle
// calls without ticking.
func (m *Manager) ForceCleanup() {
	m.Cleanup()
	m.pendingInit = m.pendingInit[:0]
	m.pendingStart = m.pendingStart[:0]
}

// Cleanup processes the destroy queue. For each entity still resolvable,
// every component is shut down exactly once and released, the entity is
// unlinked from its parent, its children are orphaned in place and the
// slot returns to the pool with a new generation.
func (m *Manager) Cleanup() {
	if len(m.pendingDestroy) == 0 {
		return
	}
	queue := m.pendingDestroy
	m.pendingDestroy = nil

	for _, h := range queue {
		e := m.pool.resolve(h)
		if e == nil {
			continue
		}
		for _, typ := range slices.Clone(e.types) {
			m.teardown(e, typ)
		}
		m.unlink(e)
		delete(m.uuids, e.uuid)
		id := e.uuid
		m.pool.release(e)
		emit(m, EntityDestroyed{Entity: h, UUID: id})
	}

	m.active = slices.DeleteFunc(m.active, func(e *Entity) bool { return e.state != Active })
	m.pendingAdd = slices.DeleteFunc(m.pendingAdd, func(e *Entity) bool { return e.state != Active })
	m.log.Debug("entities destroyed", zap.Int("count", len(queue)), zap.Int("live", m.Len()))
}

// teardown shuts down and releases one component of e.
func (m *Manager) teardown(e *Entity, typ TypeID) {
	s := m.stores[typ]
	if s == nil {
		e.removeType(typ)
		return
	}
	c := s.Get(e.handle.Index())
	if c == nil {
		e.removeType(typ)
		return
	}
	b := c.base()
	if b.state.live() {
		b.state = StateShuttingDown
		c.Shutdown()
	}
	s.Remove(e.handle.Index())
	b.state = StateDestroyed
	e.removeType(typ)
	emit(m, ComponentRemoved{Entity: e.handle, Type: typ})
}

// unlink detaches e from its parent and orphans its children, keeping
// their world placement.
func (m *Manager) unlink(e *Entity) {
	if p := m.pool.resolve(e.parent); p != nil {
		p.removeChild(e.handle)
	}
	e.parent = Nil
	for _, ch := range e.children {
		child := m.pool.resolve(ch)
		if child == nil {
			continue
		}
		world := child.WorldTransform()
		child.parent = Nil
		child.local = world
		child.world = world
		child.worldDirty = false
	}
	e.children = e.children[:0]
}

// dropQueued removes every queued lifecycle call for components of h.
func (m *Manager) dropQueued(h Handle) {
	owned := func(c Component) bool { return c.base().entity == h }
	m.pendingInit = slices.DeleteFunc(m.pendingInit, owned)
	m.pendingStart = slices.DeleteFunc(m.pendingStart, owned)
}

func (m *Manager) dropComponent(c Component) {
	same := func(q Component) bool { return q == c }
	m.pendingInit = slices.DeleteFunc(m.pendingInit, same)
	m.pendingStart = slices.DeleteFunc(m.pendingStart, same)
}

// drainInit calls Initialize on everything queued so far. Components
// queued by an Initialize are picked up next frame.
func (m *Manager) drainInit() {
	if len(m.pendingInit) == 0 {
		return
	}
	queue := m.pendingInit
	m.pendingInit = nil
	for _, c := range queue {
		b := c.base()
		if b.state != StatePendingInit || m.doomed(b.entity) {
			continue
		}
		c.Initialize()
		if b.state == StatePendingInit {
			b.state = StatePendingStart
		}
	}
}

func (m *Manager) drainStart() {
	if len(m.pendingStart) == 0 {
		return
	}
	queue := m.pendingStart
	m.pendingStart = nil
	for _, c := range queue {
		b := c.base()
		if m.doomed(b.entity) {
			continue
		}
		if b.state == StatePendingInit {
			// attached during this frame's Initialize pass
			m.pendingStart = append(m.pendingStart, c)
			continue
		}
		if b.state != StatePendingStart {
			continue
		}
		c.Start()
		if b.state == StatePendingStart {
			b.state = StateActive
		}
	}
}

func (m *Manager) doomed(h Handle) bool {
	e := m.pool.resolve(h)
	return e == nil || e.pendingDestroy
}

// tick updates components of active entities. TickAlways components tick
// whenever they are live; the rest only tick once started and while
// running.
func (m *Manager) tick(dt time.Duration) {
	running := m.run.IsRunning()
	for _, e := range m.active {
		if e.state != Active || e.pendingDestroy {
			continue
		}
		m.scratch = append(m.scratch[:0], e.types...)
		for _, typ := range m.scratch {
			c := m.component(e, typ)
			if c == nil {
				continue
			}
			b := c.base()
			switch {
			case c.TickPolicy() == TickAlways && b.state.live():
				c.Update(dt)
			case running && b.state == StateActive:
				c.Update(dt)
			}
		}
	}
}
