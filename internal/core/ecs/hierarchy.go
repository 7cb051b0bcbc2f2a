package ecs

import "github.com/framewright/engine/internal/core/transform"

// SetParent makes parent the parent of child, keeping child where it is in
// world space. A Nil parent detaches. An invalid child or an invalid
// non-Nil parent is a no-op. Linking to self or to a descendant returns
// ErrHierarchyCycle and changes nothing.
func (m *Manager) SetParent(child, parent Handle) error {
	c := m.pool.resolve(child)
	if c == nil {
		return nil
	}
	if parent.IsNil() {
		m.detach(c)
		return nil
	}
	p := m.pool.resolve(parent)
	if p == nil {
		return nil
	}
	if m.isAncestor(c, p) {
		return ErrHierarchyCycle
	}
	if c.parent == parent {
		return nil
	}

	world := c.WorldTransform()
	if old := m.pool.resolve(c.parent); old != nil {
		old.removeChild(child)
	}
	c.parent = parent
	p.addChild(child)
	c.local = transform.Decompose(p.WorldTransform(), world)
	c.world = world
	c.worldDirty = false
	for _, ch := range c.children {
		if e := m.pool.resolve(ch); e != nil {
			e.markDirty()
		}
	}
	return nil
}

// AddChild is SetParent(child, parent).
func (m *Manager) AddChild(parent, child Handle) error {
	return m.SetParent(child, parent)
}

// DetachChild unlinks child from parent if parent is its current parent.
func (m *Manager) DetachChild(parent, child Handle) {
	c := m.pool.resolve(child)
	if c == nil || c.parent != parent {
		return
	}
	m.detach(c)
}

// RemoveParent detaches h from its parent, keeping its world placement.
func (m *Manager) RemoveParent(h Handle) {
	if c := m.pool.resolve(h); c != nil {
		m.detach(c)
	}
}

func (m *Manager) detach(c *Entity) {
	if c.parent.IsNil() {
		return
	}
	world := c.WorldTransform()
	if p := m.pool.resolve(c.parent); p != nil {
		p.removeChild(c.handle)
	}
	c.parent = Nil
	c.local = world
	c.world = world
	c.worldDirty = false
	for _, ch := range c.children {
		if e := m.pool.resolve(ch); e != nil {
			e.markDirty()
		}
	}
}

// link sets the parent without touching the local transform.
func (m *Manager) link(child, parent *Entity) {
	if old := m.pool.resolve(child.parent); old != nil {
		old.removeChild(child.handle)
	}
	child.parent = parent.handle
	parent.addChild(child.handle)
	child.markDirty()
}

// isAncestor reports whether a is p or one of p's ancestors.
func (m *Manager) isAncestor(a, p *Entity) bool {
	cur := p
	for steps := 0; cur != nil && steps <= len(m.pool.slots); steps++ {
		if cur == a {
			return true
		}
		cur = m.pool.resolve(cur.parent)
	}
	return false
}
